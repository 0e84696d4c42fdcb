// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package bollinger

import (
	"image/color"
	"log"
	"math"
	"strconv"
	"time"

	"candlecube/indapi"
	"candlecube/indapi/calc"

	"github.com/ericlagergren/decimal"
)

type Indicator struct {
	upper          []float64
	middle         []float64
	lower          []float64
	closes         []float64
	dataLastChange time.Time
	timeUnits      int
	bandWidth      int
	color          color.NRGBA
}

const Id = "bollinger"

func NewIndicator() indapi.IndicatorData {
	return &Indicator{timeUnits: 20, bandWidth: 2}
}

func (d *Indicator) GetId() indapi.IndicatorId {
	return Id
}

func (d *Indicator) GetProperties() map[string]string {
	return map[string]string{
		"Width":      strconv.Itoa(d.bandWidth),
		"Time Units": strconv.Itoa(d.timeUnits),
	}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key, value := range prop {
		switch key {
		case "Width":
			indapi.SetPositiveProperty(&d.bandWidth, value)
		case "Time Units":
			indapi.SetPositiveProperty(&d.timeUnits, value)
		default:
			log.Printf("Unknown property %s was ignored.", key)
		}
	}
}

func (d *Indicator) GetColor() color.NRGBA {
	return d.color
}

func (d *Indicator) SetColor(c color.NRGBA) {
	d.color = c
}

func (d *Indicator) Update(data *indapi.SeriesData) {
	data.Mutex.Lock()
	defer data.Mutex.Unlock()
	if !d.dataLastChange.Equal(data.LastChange) {
		d.dataLastChange = data.LastChange
		d.closes = d.closes[:0]
		for i := range data.Series {
			d.closes = append(d.closes, data.Series[i].Close)
		}
		d.upper = d.upper[:0]
		d.middle = d.middle[:0]
		d.lower = d.lower[:0]
		for i := range d.closes {
			subSet := d.closes[max(0, i+1-d.timeUnits) : i+1]
			mean := calc.Mean(new(decimal.Big), subSet)
			meanValue, _ := mean.Float64()
			d.middle = append(d.middle, meanValue)
			if len(subSet) < 2 {
				// a single sample has no deviation, the outer bounds
				// are absent and the band starts with a gap
				d.upper = append(d.upper, math.NaN())
				d.lower = append(d.lower, math.NaN())
				continue
			}
			stdDev := calc.StdDev(new(decimal.Big), subSet)
			stdDev.Mul(stdDev, decimal.New(int64(d.bandWidth), 0))
			upperValue, _ := new(decimal.Big).Add(mean, stdDev).Float64()
			lowerValue, _ := new(decimal.Big).Sub(mean, stdDev).Float64()
			d.upper = append(d.upper, upperValue)
			d.lower = append(d.lower, lowerValue)
		}
	}
}

func (d *Indicator) Overlays() []indapi.Overlay {
	return []indapi.Overlay{
		indapi.BandOverlay{Label: "BB", Upper: d.upper, Middle: d.middle, Lower: d.lower, Color: d.color},
	}
}

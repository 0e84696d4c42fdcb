// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package vwap

import (
	"image/color"
	"log"
	"time"

	"candlecube/indapi"
	"candlecube/ohlcv"

	"github.com/ericlagergren/decimal"
)

// Volume weighted average price over the whole series: the cumulative
// volume weighted typical price (H+L+C)/3 up to each index.
type Indicator struct {
	values         []float64
	dataLastChange time.Time
	color          color.NRGBA
}

const Id = "vwap"

func NewIndicator() indapi.IndicatorData {
	return &Indicator{}
}

func (d *Indicator) GetId() indapi.IndicatorId {
	return Id
}

func (d *Indicator) GetProperties() map[string]string {
	return map[string]string{}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key := range prop {
		log.Printf("Unknown property %s was ignored.", key)
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
		d.values = d.values[:0]
		cumPriceVolume := new(decimal.Big)
		cumVolume := new(decimal.Big)
		for i := range data.Series {
			typical := ohlcv.ConvertFloatToDecimal(data.Series[i].TypicalPrice(), 64)
			volume := decimal.New(data.Series[i].Volume, 0)
			cumPriceVolume.Add(cumPriceVolume, new(decimal.Big).Mul(typical, volume))
			cumVolume.Add(cumVolume, volume)
			// Check for non-zero, see https://github.com/ericlagergren/decimal/pull/157
			if cumVolume.Sign() != 0 {
				value, _ := new(decimal.Big).Quo(cumPriceVolume, cumVolume).Float64()
				d.values = append(d.values, value)
			} else {
				// no volume seen yet, fall back to the typical price
				d.values = append(d.values, data.Series[i].TypicalPrice())
			}
		}
	}
}

func (d *Indicator) Overlays() []indapi.Overlay {
	return []indapi.Overlay{
		indapi.LineOverlay{Label: "VWAP", Values: d.values, Color: d.color, Width: 2, Dashes: []float32{3, 3}},
	}
}

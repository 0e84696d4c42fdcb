// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package sma

import (
	"image/color"
	"log"
	"strconv"
	"time"

	"candlecube/indapi"

	"github.com/cinar/indicator"
)

type Indicator struct {
	values         []float64
	closes         []float64
	dataLastChange time.Time
	timeUnits      int
	color          color.NRGBA
}

const Id = "sma"

func NewIndicator() indapi.IndicatorData {
	return &Indicator{timeUnits: 10}
}

func (d *Indicator) GetId() indapi.IndicatorId {
	return Id
}

func (d *Indicator) GetProperties() map[string]string {
	return map[string]string{
		"Time Units": strconv.Itoa(d.timeUnits),
	}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key, value := range prop {
		switch key {
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
		// expanding mean until the window fills, rolling mean after,
		// so the trace is defined at every index
		d.values = indicator.Sma(d.timeUnits, d.closes)
	}
}

func (d *Indicator) Overlays() []indapi.Overlay {
	return []indapi.Overlay{
		indapi.LineOverlay{Label: "SMA", Values: d.values, Color: d.color, Width: 2},
	}
}

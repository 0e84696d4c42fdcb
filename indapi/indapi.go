// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package indapi

import (
	"image/color"
	"strconv"
	"sync"
	"time"

	"candlecube/ohlcv"
)

type IndicatorId string

// For sorting
type IndicatorList []IndicatorId

func (x IndicatorList) Len() int           { return len(x) }
func (x IndicatorList) Less(i, j int) bool { return x[i] < x[j] }
func (x IndicatorList) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

// SeriesData is the shared bar series read by indicators and the plot.
// LastChange marks the most recent write; indicators recompute only when
// it moves.
type SeriesData struct {
	Series     ohlcv.Series
	LastChange time.Time
	Mutex      *sync.RWMutex
}

// Overlay is one drawable trace set produced by an indicator instance.
// It is a closed union: a value is either a LineOverlay or a BandOverlay.
// Traces are aligned to the series by index; NaN marks an absent value,
// which breaks the polyline instead of interpolating across the gap.
type Overlay interface {
	overlay()
}

// LineOverlay is a single polyline (moving average, vwap).
type LineOverlay struct {
	Label  string // short name shown in the hover tooltip
	Values []float64
	Color  color.NRGBA
	Width  float32   // stroke width in dp, 0 selects the theme default
	Dashes []float32 // empty for a solid line
}

func (LineOverlay) overlay() {}

// BandOverlay is an upper/middle/lower bound set, drawn as dashed outer
// strokes, a solid middle line and a translucent fill between the outer
// traces.
type BandOverlay struct {
	Label  string
	Upper  []float64
	Middle []float64
	Lower  []float64
	Color  color.NRGBA
}

func (BandOverlay) overlay() {}

type IndicatorData interface {
	Update(data *SeriesData)
	Overlays() []Overlay
	GetId() IndicatorId
	GetProperties() map[string]string
	SetProperties(map[string]string)
	GetColor() color.NRGBA
	SetColor(color.NRGBA)
}

// SetPositiveProperty assigns a property value to n if it parses as a
// positive integer, and keeps the previous value otherwise.
func SetPositiveProperty(n *int, value string) {
	valInt, err := strconv.Atoi(value)
	if err == nil && valInt > 0 {
		*n = valInt
	}
}

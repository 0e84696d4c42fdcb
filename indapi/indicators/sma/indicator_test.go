// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package sma

import (
	"sync"
	"testing"
	"time"

	"candlecube/indapi"
	"candlecube/ohlcv"

	"github.com/stretchr/testify/assert"
)

func newSeriesData(closes ...float64) *indapi.SeriesData {
	s := make(ohlcv.Series, len(closes))
	for i, c := range closes {
		s[i] = ohlcv.Bar{Open: c, High: c, Low: c, Close: c}
	}
	return &indapi.SeriesData{
		Series:     s,
		LastChange: time.Now(),
		Mutex:      new(sync.RWMutex),
	}
}

func TestSmaExpandingThenRolling(t *testing.T) {
	d := NewIndicator()
	d.SetProperties(map[string]string{"Time Units": "3"})
	d.Update(newSeriesData(1, 2, 3, 4, 5))

	overlays := d.Overlays()
	assert.Len(t, overlays, 1)
	line, ok := overlays[0].(indapi.LineOverlay)
	assert.True(t, ok)
	// the mean expands until the window is full, then rolls
	expected := []float64{1, 1.5, 2, 3, 4}
	assert.Len(t, line.Values, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], line.Values[i], ohlcv.NearZero)
	}
}

func TestSmaRecomputesOnlyOnChange(t *testing.T) {
	d := NewIndicator()
	data := newSeriesData(10, 20)
	d.Update(data)
	first := d.Overlays()[0].(indapi.LineOverlay).Values
	assert.Len(t, first, 2)

	// same LastChange, different series content: no recompute
	data.Series = append(data.Series, ohlcv.Bar{Open: 30, High: 30, Low: 30, Close: 30})
	d.Update(data)
	assert.Len(t, d.Overlays()[0].(indapi.LineOverlay).Values, 2)

	data.LastChange = data.LastChange.Add(time.Second)
	d.Update(data)
	assert.Len(t, d.Overlays()[0].(indapi.LineOverlay).Values, 3)
}

func TestSmaIgnoresInvalidProperties(t *testing.T) {
	d := NewIndicator()
	d.SetProperties(map[string]string{"Time Units": "-5", "Nonsense": "1"})
	assert.Equal(t, "10", d.GetProperties()["Time Units"])
}

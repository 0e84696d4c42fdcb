// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package bollinger

import (
	"math"
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

func TestBollingerBands(t *testing.T) {
	d := NewIndicator()
	d.Update(newSeriesData(2, 4, 6))

	band := d.Overlays()[0].(indapi.BandOverlay)
	assert.Len(t, band.Middle, 3)
	assert.InDelta(t, 2.0, band.Middle[0], ohlcv.NearZero)
	assert.InDelta(t, 3.0, band.Middle[1], ohlcv.NearZero)
	assert.InDelta(t, 4.0, band.Middle[2], ohlcv.NearZero)

	// sample deviation of [2 4 6] is 2, band width 2 gives mean +- 4
	assert.InDelta(t, 8.0, band.Upper[2], ohlcv.NearZero)
	assert.InDelta(t, 0.0, band.Lower[2], ohlcv.NearZero)
	assert.InDelta(t, 3.0+2.0*math.Sqrt2, band.Upper[1], ohlcv.NearZero)
}

func TestBollingerOuterBoundsStartAbsent(t *testing.T) {
	d := NewIndicator()
	d.Update(newSeriesData(2, 4, 6))

	band := d.Overlays()[0].(indapi.BandOverlay)
	// one sample has no deviation: the outer traces begin with a gap
	assert.True(t, math.IsNaN(band.Upper[0]))
	assert.True(t, math.IsNaN(band.Lower[0]))
	assert.False(t, math.IsNaN(band.Middle[0]))
}

func TestBollingerWindowProperty(t *testing.T) {
	d := NewIndicator()
	d.SetProperties(map[string]string{"Time Units": "2", "Width": "1"})
	d.Update(newSeriesData(2, 4, 6))

	band := d.Overlays()[0].(indapi.BandOverlay)
	// window [4 6]: mean 5, sample deviation sqrt(2), width 1
	assert.InDelta(t, 5.0, band.Middle[2], ohlcv.NearZero)
	assert.InDelta(t, 5.0+math.Sqrt2, band.Upper[2], ohlcv.NearZero)
	assert.InDelta(t, 5.0-math.Sqrt2, band.Lower[2], ohlcv.NearZero)
}

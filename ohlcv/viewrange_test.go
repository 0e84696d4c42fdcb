// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package ohlcv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveViewRange(t *testing.T) {
	s := Series{
		{Open: 100, High: 112, Low: 98, Close: 110, Volume: 1000},
		{Open: 110, High: 120, Low: 105, Close: 108, Volume: 500},
		{Open: 108, High: 109, Low: 95, Close: 96, Volume: 2000},
	}
	r := DeriveViewRange(s)
	assert.Equal(t, 95.0, r.MinPrice)
	assert.Equal(t, 120.0, r.MaxPrice)
	assert.InDelta(t, 25.0, r.PriceRange, NearZero)
	assert.Equal(t, int64(2000), r.MaxVolume)
}

func TestDeriveViewRangeFlat(t *testing.T) {
	s := Series{
		{Open: 100, High: 100, Low: 100, Close: 100, Volume: 10},
		{Open: 100, High: 100, Low: 100, Close: 100, Volume: 20},
	}
	r := DeriveViewRange(s)
	assert.Equal(t, 100.0, r.MinPrice)
	assert.Equal(t, 100.0, r.MaxPrice)
	assert.Equal(t, 0.0, r.PriceRange)
}

func TestDeriveViewRangeSkipsNonFinite(t *testing.T) {
	s := Series{
		{Open: 100, High: math.NaN(), Low: math.NaN(), Close: 100, Volume: 10},
		{Open: 100, High: 105, Low: 95, Close: 100, Volume: 20},
	}
	r := DeriveViewRange(s)
	assert.Equal(t, 95.0, r.MinPrice)
	assert.Equal(t, 105.0, r.MaxPrice)
}

func TestDeriveViewRangeEmpty(t *testing.T) {
	r := DeriveViewRange(nil)
	assert.Equal(t, ViewRange{}, r)
}

func TestExtendPrice(t *testing.T) {
	r := ViewRange{MinPrice: 95, MaxPrice: 120, PriceRange: 25}
	r.ExtendPrice([]float64{math.NaN(), 93.5, 118, math.NaN(), 121})
	assert.Equal(t, 93.5, r.MinPrice)
	assert.Equal(t, 121.0, r.MaxPrice)
	assert.InDelta(t, 27.5, r.PriceRange, NearZero)
}

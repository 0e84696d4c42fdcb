// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package ohlcv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBullishStrict(t *testing.T) {
	assert.True(t, IsBullish(100, 110))
	assert.False(t, IsBullish(110, 100))
	// equal open and close is rendered bearish
	assert.False(t, IsBullish(100, 100))
}

func TestBarIsValid(t *testing.T) {
	b := Bar{Open: 100, High: 112, Low: 98, Close: 110, Volume: 1000}
	assert.True(t, b.IsValid())

	b.Low = 105
	assert.False(t, b.IsValid())

	b = Bar{Open: 100, High: 112, Low: 98, Close: math.NaN()}
	assert.False(t, b.IsValid())

	b = Bar{Open: 100, High: 112, Low: 98, Close: 110, Volume: -1}
	assert.False(t, b.IsValid())
}

func TestClampOHLC(t *testing.T) {
	b := Bar{Open: 100, High: 105, Low: 99, Close: 110}
	adjusted := b.ClampOHLC()
	assert.True(t, adjusted)
	assert.Equal(t, 110.0, b.High)
	assert.Equal(t, 99.0, b.Low)
	assert.True(t, b.IsValid())

	b = Bar{Open: 100, High: 112, Low: 98, Close: 110}
	adjusted = b.ClampOHLC()
	assert.False(t, adjusted)
	assert.Equal(t, 112.0, b.High)
}

func TestTypicalPrice(t *testing.T) {
	b := Bar{Open: 100, High: 112, Low: 98, Close: 110}
	assert.InDelta(t, (112.0+98.0+110.0)/3.0, b.TypicalPrice(), NearZero)
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCandles() []ScreenCandle {
	return []ScreenCandle{
		{Index: 0, X: 100, Y: 50, Width: 10, Height: 100},
		{Index: 1, X: 140, Y: 60, Width: 10, Height: 80},
	}
}

func TestHitTestCenter(t *testing.T) {
	candles := newTestCandles()

	index, ok := HitTest(candles, 105, 100)

	assert.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestHitTestWithinMargin(t *testing.T) {
	candles := newTestCandles()

	// 14 px left of the body still hits due to the hover margin.
	index, ok := HitTest(candles, 86, 100)

	assert.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestHitTestMissesOutsideMargin(t *testing.T) {
	candles := newTestCandles()

	// 20 px left of the candle center minus half width is out of reach.
	_, ok := HitTest(candles, 80, 100)

	assert.False(t, ok)
}

func TestHitTestVerticalBounds(t *testing.T) {
	candles := newTestCandles()

	_, ok := HitTest(candles, 105, 49)
	assert.False(t, ok)

	_, ok = HitTest(candles, 105, 151)
	assert.False(t, ok)

	_, ok = HitTest(candles, 105, 150)
	assert.True(t, ok)
}

func TestHitTestTieBreaksByIndexOrder(t *testing.T) {
	// Overlapping hover regions resolve to the first candle in index
	// order, even if the second center is closer.
	candles := []ScreenCandle{
		{Index: 0, X: 100, Y: 50, Width: 10, Height: 100},
		{Index: 1, X: 112, Y: 50, Width: 10, Height: 100},
	}

	index, ok := HitTest(candles, 116, 100)

	assert.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestHitTestEmptyList(t *testing.T) {
	_, ok := HitTest(nil, 105, 100)

	assert.False(t, ok)
}

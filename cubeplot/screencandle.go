// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"math"

	"candlecube/ohlcv"
)

// ScreenCandle is the per-frame screen bounding box of one bar. The box
// spans the full wick height and includes the extrusion width, so that
// hovering the visible shape matches, not just the body. The list is
// rebuilt on every render and returned by value; it is never shared
// ambient state.
type ScreenCandle struct {
	Index  int
	Bar    ohlcv.Bar
	X      float64 // left edge of the candle slot
	Y      float64 // min(highY, bodyTop)
	Width  float64 // candle width plus extrusion depth
	Height float64 // |lowY - highY|
}

// Candle bodies can be as narrow as 3 px; without a forgiving margin
// they would be nearly impossible to hover.
const hitMarginPx = 15

// HitTest returns the index of the first candle whose region contains the
// pointer. Candles are scanned in index order, so overlapping regions
// resolve to the lowest index, not the nearest center.
func HitTest(candles []ScreenCandle, px, py float64) (int, bool) {
	for i := range candles {
		centerX := candles[i].X + candles[i].Width/2
		if math.Abs(px-centerX) < candles[i].Width/2+hitMarginPx &&
			py >= candles[i].Y && py <= candles[i].Y+candles[i].Height {
			return candles[i].Index, true
		}
	}
	return 0, false
}

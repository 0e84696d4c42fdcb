// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"testing"

	"candlecube/ohlcv"

	"github.com/stretchr/testify/assert"
)

func newTestViewport() Viewport {
	return Viewport{
		Size:   image.Pt(800, 600),
		Top:    50,
		Right:  100,
		Bottom: 80,
		Left:   80,
	}
}

func newTestProjection(count int) projection {
	view := ohlcv.ViewRange{
		MinPrice:   100,
		MaxPrice:   200,
		PriceRange: 100,
		MaxVolume:  1000,
	}
	return newProjection(view, newTestViewport(), count)
}

func TestPriceToYEndpoints(t *testing.T) {
	proj := newTestProjection(10)

	// plot area is (80,50)-(700,520)
	assert.InDelta(t, 520.0, proj.priceToY(100), ohlcv.NearZero)
	assert.InDelta(t, 50.0, proj.priceToY(200), ohlcv.NearZero)
	assert.InDelta(t, 285.0, proj.priceToY(150), ohlcv.NearZero)
}

func TestPriceToYMonotonic(t *testing.T) {
	proj := newTestProjection(10)

	assert.Greater(t, proj.priceToY(120), proj.priceToY(130))
}

func TestPriceToYFlatRange(t *testing.T) {
	view := ohlcv.ViewRange{MinPrice: 150, MaxPrice: 150, PriceRange: 0, MaxVolume: 1}
	proj := newProjection(view, newTestViewport(), 10)

	// Every price projects onto the vertical plot center.
	assert.InDelta(t, 285.0, proj.priceToY(150), ohlcv.NearZero)
	assert.InDelta(t, 285.0, proj.priceToY(9999), ohlcv.NearZero)
	assert.InDelta(t, 150.0, proj.yToPrice(285), ohlcv.NearZero)
}

func TestYToPriceRoundTrip(t *testing.T) {
	proj := newTestProjection(10)

	for _, price := range []float64{100, 123.45, 199.99, 200} {
		assert.InDelta(t, price, proj.yToPrice(proj.priceToY(price)), ohlcv.NearZero)
	}
}

func TestIndexToXEndpoints(t *testing.T) {
	proj := newTestProjection(10)

	assert.InDelta(t, 80.0, proj.indexToX(0), ohlcv.NearZero)
	assert.InDelta(t, 700.0, proj.indexToX(9), ohlcv.NearZero)
}

func TestIndexToXSingleBar(t *testing.T) {
	proj := newTestProjection(1)

	assert.InDelta(t, 80.0, proj.indexToX(0), ohlcv.NearZero)
}

func TestVolumeToDepth(t *testing.T) {
	proj := newTestProjection(10)

	assert.InDelta(t, 25.0, proj.volumeToDepth(1000), ohlcv.NearZero)
	assert.InDelta(t, 12.5, proj.volumeToDepth(500), ohlcv.NearZero)
	// A tiny positive volume keeps the minimum depth.
	assert.InDelta(t, 3.0, proj.volumeToDepth(1), ohlcv.NearZero)
}

func TestVolumeToDepthWithoutVolume(t *testing.T) {
	view := ohlcv.ViewRange{MinPrice: 100, MaxPrice: 200, PriceRange: 100, MaxVolume: 0}
	proj := newProjection(view, newTestViewport(), 10)

	assert.InDelta(t, 0.0, proj.volumeToDepth(0), ohlcv.NearZero)
}

func TestCandleWidth(t *testing.T) {
	// plot width is 620 px
	proj := newTestProjection(100)
	assert.InDelta(t, 620.0/100*0.85, proj.candleWidth(), ohlcv.NearZero)

	// Long series bars never get thinner than the minimum.
	proj = newTestProjection(1000)
	assert.InDelta(t, 3.0, proj.candleWidth(), ohlcv.NearZero)
}

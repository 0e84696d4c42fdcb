// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"math"

	"candlecube/ohlcv"
)

// Viewport is the drawing surface size plus the padding inset which
// defines the plot rectangle. The price axis is drawn on the right,
// so the right inset is the largest.
type Viewport struct {
	Size   image.Point
	Top    int
	Right  int
	Bottom int
	Left   int
}

func (v Viewport) PlotRect() image.Rectangle {
	return image.Rect(v.Left, v.Top, v.Size.X-v.Right, v.Size.Y-v.Bottom)
}

const (
	// Extrusion depth range: a bar at maxVolume extends 25 px to the
	// upper right, any positive volume extends at least 3 px.
	minDepthPx          = 3
	maxDepthPx          = 25
	minCandleWidthPx    = 3
	candleSlotFillRatio = 0.85
)

// projection maps data space (price, series index) to the plot rectangle.
// It is a pure value, re-derived whenever the view range or the viewport
// changes, never cached across a resize.
type projection struct {
	view  ohlcv.ViewRange
	plot  image.Rectangle
	count int
}

func newProjection(view ohlcv.ViewRange, vp Viewport, count int) projection {
	return projection{view: view, plot: vp.PlotRect(), count: count}
}

// priceToY decreases in price: higher prices are further up.
// A flat series (priceRange 0) projects every price onto the vertical
// center of the plot area instead of dividing by zero.
func (p projection) priceToY(price float64) float64 {
	top := float64(p.plot.Min.Y)
	height := float64(p.plot.Dy())
	if p.view.PriceRange <= 0 {
		return top + height/2
	}
	return top + height - (price-p.view.MinPrice)/p.view.PriceRange*height
}

// yToPrice is the inverse of priceToY, used for the price readout at the
// cursor. For a flat series it returns the single price of the range.
func (p projection) yToPrice(y float64) float64 {
	height := float64(p.plot.Dy())
	if p.view.PriceRange <= 0 || height <= 0 {
		return p.view.MinPrice
	}
	return p.view.MinPrice + (float64(p.plot.Min.Y)+height-y)/height*p.view.PriceRange
}

// indexToX maps [0, count-1] onto [plotLeft, plotRight]. A series of one
// bar maps onto the left plot edge; that is defined behavior, not an error.
func (p projection) indexToX(i int) float64 {
	left := float64(p.plot.Min.X)
	if p.count <= 1 {
		return left
	}
	return left + float64(i)/float64(p.count-1)*float64(p.plot.Dx())
}

// volumeToDepth scales the pseudo-3D extrusion with volume. It is purely
// cosmetic and never feeds back into the price or index mapping. A series
// without any volume renders flat.
func (p projection) volumeToDepth(volume int64) float64 {
	if p.view.MaxVolume == 0 {
		return 0
	}
	return math.Max(minDepthPx, float64(volume)/float64(p.view.MaxVolume)*maxDepthPx)
}

// candleWidth is 85% of the per-bar slot, floored so that even bars of a
// long series remain visible.
func (p projection) candleWidth() float64 {
	if p.count == 0 {
		return minCandleWidthPx
	}
	return math.Max(minCandleWidthPx, float64(p.plot.Dx())/float64(p.count)*candleSlotFillRatio)
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"math"
	"testing"
	"time"

	"candlecube/indapi"
	"candlecube/ohlcv"
	"candlecube/widgets"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/io/router"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/stroke"
	"github.com/stretchr/testify/assert"
)

func newTestSeries() ohlcv.Series {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return ohlcv.Series{
		{Date: base, Open: 100, High: 112, Low: 98, Close: 110, Volume: 500},
		{Date: base.AddDate(0, 0, 1), Open: 110, High: 115, Low: 105, Close: 107, Volume: 1000},
		{Date: base.AddDate(0, 0, 2), Open: 107, High: 111, Low: 104, Close: 109, Volume: 250},
	}
}

func newTestPlot(series ohlcv.Series) *Plot {
	plot := NewPlot(widgets.NewDarkPlotTheme(), 0)
	plot.SetData(series, ohlcv.DeriveViewRange(series), nil)
	return plot
}

func newTestContext() layout.Context {
	var gtx layout.Context
	gtx.Constraints.Max = image.Pt(800, 600)
	gtx.Metric = unit.Metric{PxPerDp: 1, PxPerSp: 1}
	gtx.Ops = new(op.Ops)
	return gtx
}

func TestPaintCandlesSingleBullishBar(t *testing.T) {
	series := newTestSeries()[:1]
	plot := newTestPlot(series)
	gtx := newTestContext()
	plot.InitializeFrame(gtx)

	candles := plot.paintCandles(gtx)

	assert.Len(t, candles, 1)
	c := candles[0]
	assert.Equal(t, 0, c.Index)
	// A single bar sits at the left plot edge.
	assert.InDelta(t, 80.0, c.X, ohlcv.NearZero)
	// It carries the maximum volume, so it extends the full depth.
	width := plot.frame.proj.candleWidth()
	assert.InDelta(t, width+25, c.Width, ohlcv.NearZero)
	// The box spans the full wick height.
	highY := plot.frame.proj.priceToY(112)
	lowY := plot.frame.proj.priceToY(98)
	assert.InDelta(t, highY, c.Y, ohlcv.NearZero)
	assert.InDelta(t, lowY-highY, c.Height, ohlcv.NearZero)
}

func TestPaintCandlesSkipsMalformedBar(t *testing.T) {
	series := newTestSeries()
	series[1].Open = math.NaN()
	plot := newTestPlot(series)
	gtx := newTestContext()
	plot.InitializeFrame(gtx)

	candles := plot.paintCandles(gtx)

	assert.Len(t, candles, 2)
	assert.Equal(t, 0, candles[0].Index)
	assert.Equal(t, 2, candles[1].Index)
}

func TestPaintCandlesIdempotent(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	gtx := newTestContext()
	plot.InitializeFrame(gtx)

	first := append([]ScreenCandle(nil), plot.paintCandles(gtx)...)
	second := plot.paintCandles(gtx)

	assert.Equal(t, first, second)
}

func TestAppendPolylineBreaksAtGaps(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	gtx := newTestContext()
	plot.InitializeFrame(gtx)
	proj := plot.frame.proj

	values := []float64{105, 106, math.NaN()}
	segments := appendPolyline(nil, values, proj)

	expected := []stroke.Segment{
		stroke.MoveTo(f32.Pt(float32(proj.indexToX(0)), float32(proj.priceToY(105)))),
		stroke.LineTo(f32.Pt(float32(proj.indexToX(1)), float32(proj.priceToY(106)))),
	}
	assert.Equal(t, expected, segments)
}

func TestAppendPolylineStartsNewSubpathAfterGap(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	gtx := newTestContext()
	plot.InitializeFrame(gtx)
	proj := plot.frame.proj

	values := []float64{105, math.NaN(), 109}
	segments := appendPolyline(nil, values, proj)

	expected := []stroke.Segment{
		stroke.MoveTo(f32.Pt(float32(proj.indexToX(0)), float32(proj.priceToY(105)))),
		stroke.MoveTo(f32.Pt(float32(proj.indexToX(2)), float32(proj.priceToY(109)))),
	}
	assert.Equal(t, expected, segments)
}

func TestFrameRenderingEnablesHover(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	gtx := newTestContext()
	plot.InitializeFrame(gtx)

	candles := plot.paintCandles(gtx)
	plot.controller.FrameRendered(candles)
	center := f32.Pt(float32(candles[1].X+candles[1].Width/2), float32(candles[1].Y+candles[1].Height/2))
	plot.controller.PointerMoved(center)

	index, ok := plot.controller.Hover()
	assert.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestPointerEventsDriveHover(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	var r router.Router
	gtx := newTestContext()
	gtx.Queue = &r

	plot.InitializeFrame(gtx)
	candles := plot.paintCandles(gtx)
	plot.controller.FrameRendered(candles)
	r.Frame(gtx.Ops)

	center := f32.Pt(float32(candles[1].X+candles[1].Width/2), float32(candles[1].Y+candles[1].Height/2))
	r.Queue(pointer.Event{Kind: pointer.Move, Source: pointer.Mouse, Position: center})

	gtx = newTestContext()
	gtx.Queue = &r
	plot.InitializeFrame(gtx)

	index, ok := plot.controller.Hover()
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	r.Frame(gtx.Ops)
	// Cancel is broadcast to every pointer handler and clears the hover.
	r.Queue(pointer.Event{Kind: pointer.Cancel})

	gtx = newTestContext()
	gtx.Queue = &r
	plot.InitializeFrame(gtx)

	_, ok = plot.controller.Hover()
	assert.False(t, ok)
}

func TestLayoutWaitsForSettleDelay(t *testing.T) {
	plot := NewPlot(widgets.NewDarkPlotTheme(), 50*time.Millisecond)
	series := newTestSeries()
	plot.SetData(series, ohlcv.DeriveViewRange(series), nil)
	gtx := newTestContext()
	plot.InitializeFrame(gtx)

	assert.False(t, plot.controller.Settled())

	plot.controller.now = func() time.Time { return plot.controller.SettleDeadline() }
	assert.True(t, plot.controller.Settled())
}

func TestLayoutEmptySurface(t *testing.T) {
	plot := newTestPlot(newTestSeries())
	gtx := newTestContext()
	gtx.Constraints.Max = image.Pt(0, 0)
	plot.InitializeFrame(gtx)

	dims := plot.Layout(gtx, widgets.NewDarkMaterialTheme())

	assert.Equal(t, image.Pt(0, 0), dims.Size)
}

func TestOverlayValueAt(t *testing.T) {
	overlay := indapi.LineOverlay{Label: "SMA", Values: []float64{math.NaN(), 106.5}}

	_, ok := overlayValueAt(overlay, 0)
	assert.False(t, ok)

	row, ok := overlayValueAt(overlay, 1)
	assert.True(t, ok)
	assert.Equal(t, "SMA: 106.50", row)

	_, ok = overlayValueAt(overlay, 2)
	assert.False(t, ok)
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "0", formatVolume(0))
	assert.Equal(t, "999", formatVolume(999))
	assert.Equal(t, "1,000", formatVolume(1000))
	assert.Equal(t, "12,345,678", formatVolume(12345678))
}

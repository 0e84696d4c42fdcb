// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"time"

	"candlecube/indapi"
	"candlecube/ohlcv"
	"candlecube/widgets"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	// The builtin gio stroke has a lot of issues, one being that horizontal and vertical lines
	// may have different thickness, even if the same width is specified.
	// We use the "x/stroke" extension instead, it works like a charm.
	"gioui.org/x/stroke"
)

// Note that this is, by design, not a generic plotting library.
// It renders a single pseudo-3D candlestick chart. X is the bar index,
// Y is the price; the volume only drives the oblique extrusion depth.

// Plot padding. The price axis and its labels sit on the right side,
// so the right inset is the largest.
const (
	paddingTopDp    = unit.Dp(50)
	paddingRightDp  = unit.Dp(100)
	paddingBottomDp = unit.Dp(80)
	paddingLeftDp   = unit.Dp(80)
)

const (
	horizontalGridLines = 10 // grid divisions, 11 lines including both edges
	maxDateLabels       = 12
	defaultOverlayWidth = 2
)

type Plot struct {
	Theme      *widgets.PlotTheme
	controller *Controller
	series     ohlcv.Series
	view       ohlcv.ViewRange
	overlays   []indapi.Overlay
	frame      struct {
		totalPxSize  image.Point
		viewport     Viewport
		proj         projection
		textMarginPx image.Point
		candles      []ScreenCandle
		gridSegments []stroke.Segment
		lineSegments []stroke.Segment
	}
}

type plotTag struct {
	p *Plot
}

func NewPlot(t *widgets.PlotTheme, settleDelay time.Duration) *Plot {
	return &Plot{
		Theme:      t,
		controller: NewController(settleDelay),
	}
}

// SetData replaces the rendered snapshot. The previous frame's screen
// geometry is discarded; hover state does not survive a data change.
func (plot *Plot) SetData(series ohlcv.Series, view ohlcv.ViewRange, overlays []indapi.Overlay) {
	plot.series = series
	plot.view = view
	plot.overlays = overlays
	plot.controller.DataReplaced()
}

// InitializeFrame recalculates per-frame pixel values and processes
// pointer input. Input is hit-tested against the candle list of the
// previous frame, which is the geometry the user actually saw.
func (plot *Plot) InitializeFrame(gtx layout.Context) {
	if plot.frame.totalPxSize != gtx.Constraints.Max {
		plot.frame.totalPxSize = gtx.Constraints.Max
		plot.controller.SurfaceResized()
	}
	plot.frame.textMarginPx = plot.Theme.TextMargin.Dp(gtx)
	plot.frame.viewport = Viewport{
		Size:   plot.frame.totalPxSize,
		Top:    gtx.Dp(paddingTopDp),
		Right:  gtx.Dp(paddingRightDp),
		Bottom: gtx.Dp(paddingBottomDp),
		Left:   gtx.Dp(paddingLeftDp),
	}
	plot.frame.proj = newProjection(plot.view, plot.frame.viewport, len(plot.series))
	plot.handleInput(gtx)
	plot.registerInputOps(gtx.Ops)
}

func (plot *Plot) handleInput(gtx layout.Context) {
	for _, gtxEvent := range gtx.Events(plotTag{p: plot}) {
		switch e := gtxEvent.(type) {
		case pointer.Event:
			switch e.Kind {
			case pointer.Move, pointer.Drag:
				plot.controller.PointerMoved(e.Position)
			case pointer.Leave, pointer.Cancel:
				plot.controller.PointerLeft()
			}
		}
	}
}

func (plot *Plot) registerInputOps(ops *op.Ops) {
	area := clip.Rect(image.Rectangle{Max: plot.frame.totalPxSize}).Push(ops)
	pointer.InputOp{
		Tag:   plotTag{p: plot},
		Kinds: pointer.Move | pointer.Drag | pointer.Leave | pointer.Cancel,
	}.Add(ops)
	pointer.CursorCrosshair.Add(ops)
	area.Pop()
}

func (plot *Plot) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	dims := layout.Dimensions{Size: plot.frame.totalPxSize}
	if plot.frame.totalPxSize.X <= 0 || plot.frame.totalPxSize.Y <= 0 {
		return dims
	}
	if !plot.controller.Settled() {
		// The surface may still report stale dimensions right after a
		// resize or data change. Wait for the settle deadline instead of
		// rendering a clipped frame.
		op.InvalidateOp{At: plot.controller.SettleDeadline()}.Add(gtx.Ops)
		return dims
	}
	if len(plot.series) == 0 {
		return dims
	}
	plot.paintGrid(gtx, th)
	plot.paintAxes(gtx)
	plot.paintOverlays(gtx)
	candles := plot.paintCandles(gtx)
	plot.controller.FrameRendered(candles)
	plot.paintCrosshair(gtx, candles)
	plot.paintTooltip(gtx, th)
	return dims
}

// Controller exposes the interaction state machine, mainly for the app
// shell and tests.
func (plot *Plot) Controller() *Controller {
	return plot.controller
}

func recordLabelText(labelText string, c color.NRGBA, fontSize int, gtx layout.Context, th *material.Theme) (op.CallOp, image.Point) {
	macro := op.Record(gtx.Ops)
	lbl := material.Label(
		th,
		unit.Sp(fontSize),
		labelText,
	)
	lbl.Color = c
	lbl.Alignment = text.Start
	dims := lbl.Layout(gtx)
	return macro.Stop(), dims.Size
}

// paintGrid draws 11 horizontal price lines with labels on the right and
// roughly 12 vertical date lines with labels below the plot.
func (plot *Plot) paintGrid(gtx layout.Context, th *material.Theme) {
	proj := plot.frame.proj
	plotRect := plot.frame.viewport.PlotRect()
	var path stroke.Path
	path.Segments = plot.frame.gridSegments[:0]

	yLabelPosX := plotRect.Max.X + plot.frame.textMarginPx.X
	for k := 0; k <= horizontalGridLines; k++ {
		price := plot.view.MinPrice + plot.view.PriceRange*float64(k)/horizontalGridLines
		y := proj.priceToY(price)
		path.Segments = append(path.Segments, stroke.MoveTo(f32.Pt(float32(plotRect.Min.X), float32(y))))
		path.Segments = append(path.Segments, stroke.LineTo(f32.Pt(float32(plotRect.Max.X), float32(y))))

		call, textSize := recordLabelText(strconv.FormatFloat(price, 'f', 2, 64),
			plot.Theme.AxesYtextColor, plot.Theme.AxesYfontSize, gtx, th)
		stack := op.Offset(image.Point{X: yLabelPosX, Y: int(y) - textSize.Y/2}).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}

	xLabelPosY := plotRect.Max.Y + plot.frame.textMarginPx.Y
	dateStep := (len(plot.series) + maxDateLabels - 1) / maxDateLabels
	if dateStep < 1 {
		dateStep = 1
	}
	for i := 0; i < len(plot.series); i += dateStep {
		x := proj.indexToX(i)
		path.Segments = append(path.Segments, stroke.MoveTo(f32.Pt(float32(x), float32(plotRect.Min.Y))))
		path.Segments = append(path.Segments, stroke.LineTo(f32.Pt(float32(x), float32(plotRect.Max.Y))))

		call, textSize := recordLabelText(plot.series[i].Date.Format("Jan 2"),
			plot.Theme.AxesXtextColor, plot.Theme.AxesXfontSize, gtx, th)
		stack := op.Offset(image.Point{X: int(x) - textSize.X/2, Y: xLabelPosY}).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}

	plot.frame.gridSegments = path.Segments
	area := stroke.Stroke{Path: path, Width: float32(gtx.Dp(1))}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, plot.Theme.GridColor, area)
}

// paintAxes draws the price axis on the right edge and the date axis on
// the bottom edge of the plot area.
func (plot *Plot) paintAxes(gtx layout.Context) {
	plotRect := plot.frame.viewport.PlotRect()
	var path stroke.Path
	path.Segments = []stroke.Segment{
		stroke.MoveTo(f32.Pt(float32(plotRect.Max.X), float32(plotRect.Min.Y))),
		stroke.LineTo(f32.Pt(float32(plotRect.Max.X), float32(plotRect.Max.Y))),
		stroke.MoveTo(f32.Pt(float32(plotRect.Min.X), float32(plotRect.Max.Y))),
		stroke.LineTo(f32.Pt(float32(plotRect.Max.X), float32(plotRect.Max.Y))),
	}
	area := stroke.Stroke{Path: path, Width: float32(gtx.Dp(1))}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, plot.Theme.AxesColor, area)
}

func (plot *Plot) paintOverlays(gtx layout.Context) {
	plotRect := plot.frame.viewport.PlotRect()
	// Only draw within the plot area.
	defer clip.Rect(plotRect).Push(gtx.Ops).Pop()
	for _, overlay := range plot.overlays {
		switch o := overlay.(type) {
		case indapi.LineOverlay:
			plot.paintPolyline(gtx, o.Values, o.Color, o.Width, o.Dashes)
		case indapi.BandOverlay:
			plot.paintBand(gtx, o)
		}
	}
}

// appendPolyline converts an index-aligned trace to stroke segments.
// An absent (non-finite) value breaks the polyline; the next defined
// point starts a new subpath instead of interpolating across the gap.
func appendPolyline(segments []stroke.Segment, values []float64, proj projection) []stroke.Segment {
	first := true
	for i, v := range values {
		if !ohlcv.IsFinite(v) {
			first = true
			continue
		}
		pt := f32.Pt(float32(proj.indexToX(i)), float32(proj.priceToY(v)))
		if first {
			segments = append(segments, stroke.MoveTo(pt))
			first = false
		} else {
			segments = append(segments, stroke.LineTo(pt))
		}
	}
	return segments
}

func (plot *Plot) paintPolyline(gtx layout.Context, values []float64, c color.NRGBA, width float32, dashPattern []float32) {
	// Reuse line segment buffer from previous frame.
	segments := appendPolyline(plot.frame.lineSegments[:0], values, plot.frame.proj)
	plot.frame.lineSegments = segments
	if len(segments) == 0 {
		return
	}
	if width <= 0 {
		width = defaultOverlayWidth
	}
	var path stroke.Path
	path.Segments = segments
	area := stroke.Stroke{Path: path, Width: width, Dashes: stroke.Dashes{Dashes: dashPattern}}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, c, area)
}

// paintBand draws dashed upper/lower bounds, a solid middle line and a
// translucent fill between the bounds. The fill polygon runs forward
// along the upper trace and backward along the lower trace, one polygon
// per contiguous run of indices where both traces are defined.
func (plot *Plot) paintBand(gtx layout.Context, o indapi.BandOverlay) {
	borderColor := o.Color
	borderColor.A = plot.Theme.BandBorderAlpha
	plot.paintPolyline(gtx, o.Upper, borderColor, plot.Theme.BandBorderWidth, plot.Theme.BandDashPattern)
	plot.paintPolyline(gtx, o.Lower, borderColor, plot.Theme.BandBorderWidth, plot.Theme.BandDashPattern)
	plot.paintPolyline(gtx, o.Middle, borderColor, plot.Theme.BandBorderWidth, nil)

	fillColor := o.Color
	fillColor.A = plot.Theme.BandFillAlpha
	proj := plot.frame.proj
	n := len(o.Upper)
	if len(o.Lower) < n {
		n = len(o.Lower)
	}
	bothDefined := func(i int) bool {
		return ohlcv.IsFinite(o.Upper[i]) && ohlcv.IsFinite(o.Lower[i])
	}
	for start := 0; start < n; {
		if !bothDefined(start) {
			start++
			continue
		}
		end := start
		for end+1 < n && bothDefined(end+1) {
			end++
		}
		if end > start {
			var p clip.Path
			p.Begin(gtx.Ops)
			p.MoveTo(f32.Pt(float32(proj.indexToX(start)), float32(proj.priceToY(o.Upper[start]))))
			for i := start + 1; i <= end; i++ {
				p.LineTo(f32.Pt(float32(proj.indexToX(i)), float32(proj.priceToY(o.Upper[i]))))
			}
			for i := end; i >= start; i-- {
				p.LineTo(f32.Pt(float32(proj.indexToX(i)), float32(proj.priceToY(o.Lower[i]))))
			}
			p.Close()
			paint.FillShape(gtx.Ops, fillColor, clip.Outline{Path: p.End()}.Op())
		}
		start = end + 1
	}
}

// paintCandles draws the series in index order, so that the extrusion
// faces of later bars occlude earlier ones. It returns the screen
// bounding boxes of the drawn bars; bars with non-finite coordinates are
// skipped and get no box.
func (plot *Plot) paintCandles(gtx layout.Context) []ScreenCandle {
	proj := plot.frame.proj
	plotRect := plot.frame.viewport.PlotRect()
	candleWidth := proj.candleWidth()
	candles := plot.frame.candles[:0]
	for i := range plot.series {
		b := plot.series[i]
		openY := proj.priceToY(b.Open)
		closeY := proj.priceToY(b.Close)
		highY := proj.priceToY(b.High)
		lowY := proj.priceToY(b.Low)
		x := proj.indexToX(i)
		if !ohlcv.IsFinite(openY) || !ohlcv.IsFinite(closeY) ||
			!ohlcv.IsFinite(highY) || !ohlcv.IsFinite(lowY) || !ohlcv.IsFinite(x) {
			continue
		}
		depth := proj.volumeToDepth(b.Volume)
		bodyTop := math.Min(openY, closeY)
		bodyBottom := math.Max(openY, closeY)
		// Use a minimum body height of 1 px for doji bars.
		bodyHeight := math.Max(1, bodyBottom-bodyTop)
		isBullish := ohlcv.IsBullish(b.Open, b.Close)
		candleColor, lineColor := plot.Theme.GetCandleColors(isBullish)

		// Wick first, from high to low through the body center.
		if math.Round(highY) == math.Round(lowY) {
			lowY++ // Stroke does not draw zero length lines, see https://github.com/andybalholm/stroke/issues/3
		}
		centerX := float32(x + candleWidth/2)
		var wickPath stroke.Path
		wickPath.Segments = []stroke.Segment{
			stroke.MoveTo(f32.Pt(centerX, float32(highY))),
			stroke.LineTo(f32.Pt(centerX, float32(lowY))),
		}
		paint.FillShape(gtx.Ops, lineColor,
			stroke.Stroke{Path: wickPath, Width: float32(gtx.Dp(1))}.Op(gtx.Ops))

		// clip.Rect does not work well to draw candle bodies, because it has
		// integer resolution. Therefore, the body is a "thick line" with a
		// flat cap, like the 2D plots do.
		var bodyPath stroke.Path
		bodyPath.Segments = []stroke.Segment{
			stroke.MoveTo(f32.Pt(centerX, float32(bodyTop))),
			stroke.LineTo(f32.Pt(centerX, float32(bodyTop+bodyHeight))),
		}
		paint.FillShape(gtx.Ops, candleColor,
			stroke.Stroke{Path: bodyPath, Width: float32(candleWidth), Cap: stroke.FlatCap}.Op(gtx.Ops))

		if depth > 0 {
			plot.paintExtrusion(gtx, x, bodyTop, bodyBottom, candleWidth, depth, isBullish)
			plot.paintGroundShadow(gtx, x, candleWidth, depth, plotRect)
		}

		candles = append(candles, ScreenCandle{
			Index:  i,
			Bar:    b,
			X:      x,
			Y:      math.Min(highY, bodyTop),
			Width:  candleWidth + depth,
			Height: math.Abs(lowY - highY),
		})
	}
	plot.frame.candles = candles
	return candles
}

// paintExtrusion draws the oblique right and top faces of a candle body,
// both sheared by (depth, -depth). Fixed projection, no perspective.
func (plot *Plot) paintExtrusion(gtx layout.Context, x, bodyTop, bodyBottom, candleWidth, depth float64, isBullish bool) {
	faceColor := plot.Theme.GetExtrusionColor(isBullish)

	var right clip.Path
	right.Begin(gtx.Ops)
	right.MoveTo(f32.Pt(float32(x+candleWidth), float32(bodyTop)))
	right.LineTo(f32.Pt(float32(x+candleWidth+depth), float32(bodyTop-depth)))
	right.LineTo(f32.Pt(float32(x+candleWidth+depth), float32(bodyBottom-depth)))
	right.LineTo(f32.Pt(float32(x+candleWidth), float32(bodyBottom)))
	right.Close()
	paint.FillShape(gtx.Ops, faceColor, clip.Outline{Path: right.End()}.Op())

	var top clip.Path
	top.Begin(gtx.Ops)
	top.MoveTo(f32.Pt(float32(x), float32(bodyTop)))
	top.LineTo(f32.Pt(float32(x+depth), float32(bodyTop-depth)))
	top.LineTo(f32.Pt(float32(x+candleWidth+depth), float32(bodyTop-depth)))
	top.LineTo(f32.Pt(float32(x+candleWidth), float32(bodyTop)))
	top.Close()
	paint.FillShape(gtx.Ops, faceColor, clip.Outline{Path: top.End()}.Op())
}

// paintGroundShadow draws a flat shadow at the bottom plot edge, shifted
// by the extrusion depth.
func (plot *Plot) paintGroundShadow(gtx layout.Context, x, candleWidth, depth float64, plotRect image.Rectangle) {
	var shadow clip.Path
	shadow.Begin(gtx.Ops)
	shadow.MoveTo(f32.Pt(float32(x+depth), float32(float64(plotRect.Max.Y)-depth)))
	shadow.LineTo(f32.Pt(float32(x+depth+candleWidth), float32(float64(plotRect.Max.Y)-depth)))
	shadow.LineTo(f32.Pt(float32(x+depth+candleWidth), float32(plotRect.Max.Y)))
	shadow.LineTo(f32.Pt(float32(x+depth), float32(plotRect.Max.Y)))
	shadow.Close()
	paint.FillShape(gtx.Ops, plot.Theme.GroundShadowColor, clip.Outline{Path: shadow.End()}.Op())
}

// paintCrosshair draws one dashed vertical line through the hovered
// candle's horizontal center, spanning the full plot height.
func (plot *Plot) paintCrosshair(gtx layout.Context, candles []ScreenCandle) {
	hoverIndex, ok := plot.controller.Hover()
	if !ok {
		return
	}
	var hovered *ScreenCandle
	for i := range candles {
		if candles[i].Index == hoverIndex {
			hovered = &candles[i]
			break
		}
	}
	if hovered == nil {
		return
	}
	plotRect := plot.frame.viewport.PlotRect()
	x := float32(hovered.X + hovered.Width/2)
	var path stroke.Path
	path.Segments = []stroke.Segment{
		stroke.MoveTo(f32.Pt(x, float32(plotRect.Min.Y))),
		stroke.LineTo(f32.Pt(x, float32(plotRect.Max.Y))),
	}
	area := stroke.Stroke{
		Path:   path,
		Width:  float32(gtx.Dp(1)),
		Dashes: stroke.Dashes{Dashes: plot.Theme.CrosshairDashPattern},
	}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, plot.Theme.CrosshairColor, area)
}

// formatVolume groups digits by thousands for the tooltip readout.
func formatVolume(v int64) string {
	s := strconv.FormatInt(v, 10)
	start := 0
	if len(s) > 0 && s[0] == '-' {
		start = 1
	}
	out := make([]byte, 0, len(s)+(len(s)-start)/3)
	for i := 0; i < len(s); i++ {
		if i > start && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// overlayValueAt returns a tooltip row for an overlay if it has a label
// and a defined value at the hovered index. Bands report their middle
// trace.
func overlayValueAt(overlay indapi.Overlay, index int) (string, bool) {
	var label string
	var values []float64
	switch o := overlay.(type) {
	case indapi.LineOverlay:
		label = o.Label
		values = o.Values
	case indapi.BandOverlay:
		label = o.Label
		values = o.Middle
	}
	if label == "" || index < 0 || index >= len(values) || !ohlcv.IsFinite(values[index]) {
		return "", false
	}
	return label + ": " + strconv.FormatFloat(values[index], 'f', 2, 64), true
}

// paintTooltip draws a fixed size info box near the pointer with the
// hovered bar's date, OHLC prices, volume and indicator values.
func (plot *Plot) paintTooltip(gtx layout.Context, th *material.Theme) {
	hoverIndex, ok := plot.controller.Hover()
	if !ok || hoverIndex < 0 || hoverIndex >= len(plot.series) {
		return
	}
	b := plot.series[hoverIndex]
	pos := tooltipPos(plot.controller.Pointer(), plot.frame.totalPxSize)

	offset := op.Offset(image.Point{X: int(pos.X), Y: int(pos.Y)}).Push(gtx.Ops)
	defer offset.Pop()

	box := image.Rect(0, 0, tooltipWidthPx, tooltipHeightPx)
	rrect := clip.UniformRRect(box, gtx.Dp(8))
	paint.FillShape(gtx.Ops, plot.Theme.TooltipBgColor, rrect.Op(gtx.Ops))
	paint.FillShape(gtx.Ops, plot.Theme.TooltipBorderColor,
		clip.Stroke{Path: rrect.Path(gtx.Ops), Width: float32(gtx.Dp(1))}.Op())

	rows := []string{
		b.Date.Format("January 2, 2006"),
		"Open: " + strconv.FormatFloat(b.Open, 'f', 2, 64),
		"High: " + strconv.FormatFloat(b.High, 'f', 2, 64),
		"Low: " + strconv.FormatFloat(b.Low, 'f', 2, 64),
		"Close: " + strconv.FormatFloat(b.Close, 'f', 2, 64),
		"Volume: " + formatVolume(b.Volume),
	}
	for _, overlay := range plot.overlays {
		if row, defined := overlayValueAt(overlay, hoverIndex); defined {
			rows = append(rows, row)
		}
	}

	// Clip the rows into the box; overflowing indicator rows are cut off.
	content := clip.Rect(box).Push(gtx.Ops)
	defer content.Pop()
	rowPosY := plot.frame.textMarginPx.Y
	for _, row := range rows {
		call, textSize := recordLabelText(row, plot.Theme.TooltipTextColor, plot.Theme.TooltipFontSize, gtx, th)
		stack := op.Offset(image.Point{X: plot.frame.textMarginPx.X, Y: rowPosY}).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
		rowPosY += textSize.Y + plot.frame.textMarginPx.Y/2
	}
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
)

type DpPoint struct {
	X unit.Dp
	Y unit.Dp
}

func (p *DpPoint) Dp(gtx layout.Context) image.Point {
	return image.Point{
		X: gtx.Dp(p.X),
		Y: gtx.Dp(p.Y),
	}
}

type PlotTheme struct {
	TextMargin      DpPoint
	AxesXfontSize   int
	AxesYfontSize   int
	AxesColor       color.NRGBA
	GridColor       color.NRGBA
	CandleUpColor   color.NRGBA
	CandleDownColor color.NRGBA
	// Alpha applied to the candle color on the extruded side and top faces.
	ExtrusionFaceAlpha   uint8
	GroundShadowColor    color.NRGBA
	AxesXtextColor       color.NRGBA
	AxesYtextColor       color.NRGBA
	CrosshairColor       color.NRGBA
	CrosshairDashPattern []float32
	BandBorderAlpha      uint8
	BandFillAlpha        uint8
	BandBorderWidth      float32
	BandDashPattern      []float32
	TooltipBgColor       color.NRGBA
	TooltipTextColor     color.NRGBA
	TooltipBorderColor   color.NRGBA
	TooltipFontSize      int
	FrameBgColor         color.NRGBA
	FrameTextColor       color.NRGBA
}

func NewDarkPlotTheme() *PlotTheme {
	return &PlotTheme{
		TextMargin:           DpPoint{X: 7, Y: 7},
		AxesXfontSize:        17,
		AxesYfontSize:        17,
		AxesColor:            color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		GridColor:            color.NRGBA{R: 60, G: 60, B: 60, A: 255},
		CandleUpColor:        color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		CandleDownColor:      color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		ExtrusionFaceAlpha:   0x80,
		GroundShadowColor:    color.NRGBA{A: 50},
		AxesXtextColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		AxesYtextColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		CrosshairColor:       color.NRGBA{R: 255, G: 215, B: 0, A: 255},
		CrosshairDashPattern: []float32{5, 5},
		BandBorderAlpha:      153,
		BandFillAlpha:        25,
		BandBorderWidth:      1.5,
		BandDashPattern:      []float32{5, 5},
		TooltipBgColor:       color.NRGBA{R: 44, G: 44, B: 56, A: 240},
		TooltipTextColor:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TooltipBorderColor:   color.NRGBA{R: 120, G: 120, B: 140, A: 255},
		TooltipFontSize:      14,
		FrameBgColor:         color.NRGBA{R: 44, G: 44, B: 56, A: 255},
		FrameTextColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func NewLightPlotTheme() *PlotTheme {
	return &PlotTheme{
		TextMargin:           DpPoint{X: 7, Y: 7},
		AxesXfontSize:        17,
		AxesYfontSize:        17,
		AxesColor:            color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		GridColor:            color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		CandleUpColor:        color.NRGBA{R: 0, G: 200, B: 0, A: 255},
		CandleDownColor:      color.NRGBA{R: 220, G: 0, B: 0, A: 255},
		ExtrusionFaceAlpha:   0x80,
		GroundShadowColor:    color.NRGBA{A: 40},
		AxesXtextColor:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		AxesYtextColor:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		CrosshairColor:       color.NRGBA{R: 180, G: 140, B: 0, A: 255},
		CrosshairDashPattern: []float32{5, 5},
		BandBorderAlpha:      153,
		BandFillAlpha:        25,
		BandBorderWidth:      1.5,
		BandDashPattern:      []float32{5, 5},
		TooltipBgColor:       color.NRGBA{R: 250, G: 250, B: 250, A: 240},
		TooltipTextColor:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		TooltipBorderColor:   color.NRGBA{R: 140, G: 140, B: 140, A: 255},
		TooltipFontSize:      14,
		FrameBgColor:         color.NRGBA{R: 235, G: 235, B: 240, A: 255},
		FrameTextColor:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// Body and line colors for a single candle.
// A candle with equal open and close uses the bearish colors.
func (th *PlotTheme) GetCandleColors(isBullish bool) (candleColor, lineColor color.NRGBA) {
	if isBullish {
		return th.CandleUpColor, th.CandleUpColor
	}
	return th.CandleDownColor, th.CandleDownColor
}

// Color of the extruded side and top faces of a candle.
func (th *PlotTheme) GetExtrusionColor(isBullish bool) color.NRGBA {
	c, _ := th.GetCandleColors(isBullish)
	c.A = th.ExtrusionFaceAlpha
	return c
}

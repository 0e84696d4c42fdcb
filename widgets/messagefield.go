// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"
)

// MessageField draws a banner on top of the chart. Errors use the error
// background, hints that only require configuration use the note background.
type MessageField struct {
	ErrorBgColor color.NRGBA
	NoteBgColor  color.NRGBA
	TextColor    color.NRGBA
}

func NewMessageField() *MessageField {
	return &MessageField{
		ErrorBgColor: color.NRGBA{R: 150, G: 0, B: 0, A: 250},
		NoteBgColor:  color.NRGBA{R: 60, G: 60, B: 90, A: 250},
		TextColor:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func (f *MessageField) LayoutError(txt string, gtx layout.Context, th *material.Theme) layout.Dimensions {
	return f.layout(txt, f.ErrorBgColor, gtx, th)
}

func (f *MessageField) LayoutNote(txt string, gtx layout.Context, th *material.Theme) layout.Dimensions {
	return f.layout(txt, f.NoteBgColor, gtx, th)
}

func (f *MessageField) layout(txt string, bg color.NRGBA, gtx layout.Context, th *material.Theme) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	lbl := material.Body1(th, txt)
	lbl.Color = f.TextColor
	dims := lbl.Layout(gtx)
	call := macro.Stop()

	clipRect := image.Rectangle{Max: image.Point{X: gtx.Dp(50) + dims.Size.X, Y: gtx.Dp(40) + dims.Size.Y}}
	defer clip.Rect(clipRect).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, bg)

	textArea := op.Offset(image.Point{X: clipRect.Min.X + gtx.Dp(25), Y: clipRect.Min.Y + gtx.Dp(30) - dims.Size.Y/2}).Push(gtx.Ops)
	// Run recorded drawing.
	call.Add(gtx.Ops)
	textArea.Pop()
	return layout.Dimensions{Size: clipRect.Size()}
}

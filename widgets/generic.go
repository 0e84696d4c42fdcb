// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

const DefaultMargin = 10

type Frame struct {
	OuterMargin     unit.Dp
	InnerMargin     unit.Dp
	BorderWidth     unit.Dp
	BorderColor     color.NRGBA
	BackgroundColor color.NRGBA
}

func (f Frame) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	return layout.UniformInset(f.OuterMargin).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return widget.Border{Color: f.BorderColor, Width: f.BorderWidth, CornerRadius: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			if empty := (color.NRGBA{}); f.BackgroundColor != empty {
				macro := op.Record(gtx.Ops)
				dims := layout.UniformInset(f.InnerMargin).Layout(gtx, w)
				call := macro.Stop()
				paint.FillShape(gtx.Ops, f.BackgroundColor, clip.Rect{Max: dims.Size}.Op())
				call.Add(gtx.Ops)
				return dims
			} else {
				return layout.UniformInset(f.InnerMargin).Layout(gtx, w)
			}
		})
	})
}

func NewMenu(th *material.Theme, state *component.MenuState) component.MenuStyle {
	m := component.Menu(th, state)
	m.AmbientColor = th.Palette.ContrastBg
	m.PenumbraColor = color.NRGBA{}
	m.UmbraColor = color.NRGBA{}
	return m
}

func heading(th *material.Theme, t string) material.LabelStyle {
	l := material.H5(th, t)
	l.Alignment = text.Middle
	return l
}

func subHeading(th *material.Theme, t string) material.LabelStyle {
	l := material.Body2(th, t)
	l.Alignment = text.Middle
	return l
}

func divider(th *material.Theme, margin unit.Dp) component.DividerStyle {
	return component.DividerStyle{
		Thickness: unit.Dp(1),
		Fill:      component.WithAlpha(th.ContrastBg, 0x60),
		Inset: layout.Inset{
			Top:    margin,
			Bottom: margin,
		},
	}
}

// Frame with content on top and a confirmation button row below.
// A nil cancel button layouts a single full width confirmation button.
func layoutConfirmationFrame(th *material.Theme, margin unit.Dp, gtx layout.Context, buttonConfirm *widget.Clickable, buttonCancel *widget.Clickable, w layout.Widget) layout.Dimensions {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return Frame{InnerMargin: margin / 2, OuterMargin: margin, BorderWidth: 1, BorderColor: th.Palette.ContrastBg, BackgroundColor: th.Palette.Bg}.Layout(gtx, w)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Right: margin, Bottom: margin, Left: margin}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				if buttonCancel == nil {
					return layout.Flex{}.Layout(gtx,
						layout.Flexed(1, material.Button(th, buttonConfirm, "Continue").Layout),
					)
				}
				return layout.Flex{Spacing: layout.SpaceBetween}.Layout(gtx,
					layout.Rigid(material.Button(th, buttonCancel, "Cancel").Layout),
					layout.Rigid(material.Button(th, buttonConfirm, "Continue").Layout),
				)
			})
		}),
	)
}

// Two column row with a description label on the left.
func layoutLabelWidget(th *material.Theme, margin unit.Dp, gtx layout.Context, label string, w layout.Widget) layout.Dimensions {
	return layout.Inset{Top: margin, Right: margin * 2, Left: margin * 2}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(0.5, material.Body1(th, label).Layout),
			layout.Flexed(0.5, w),
		)
	})
}

func layoutLabelTextField(th *material.Theme, margin unit.Dp, gtx layout.Context, textField *component.TextField, label string, hint string, note string, highlightNote bool) layout.Dimensions {
	return layoutLabelWidget(th, margin, gtx, label, func(gtx layout.Context) layout.Dimensions {
		return layoutTextFieldWithNote(th, gtx, textField, hint, note, highlightNote)
	})
}

func layoutTextFieldWithNote(th *material.Theme, gtx layout.Context, textField *component.TextField, hint string, note string, highlightNote bool) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return textField.Layout(gtx, th, hint)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if len(note) == 0 {
				return layout.Dimensions{}
			}
			l := material.Caption(th, note)
			if highlightNote {
				l.Color = color.NRGBA{R: 255, G: 64, B: 64, A: 255}
			}
			return l.Layout(gtx)
		}),
	)
}

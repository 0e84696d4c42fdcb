// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

type PasswordRequesterView struct {
	passwordList       widget.List
	focusUpdated       bool
	confirmed          bool
	resetMode          bool
	resetConfirmed     bool
	buttonContinue     widget.Clickable
	buttonReset        widget.Clickable
	buttonConfirmReset widget.Clickable
	buttonCancelReset  widget.Clickable
	passwordTextField  component.TextField
	resetTextField     component.TextField
	note               string
	resetNote          string
	Margin             unit.Dp
}

// A view for entering the password of an encrypted configuration.
// It also allows resetting the configuration in case the password was lost.
func NewPasswordRequesterView() *PasswordRequesterView {
	v := PasswordRequesterView{
		passwordList: widget.List{
			List: layout.List{
				Axis: layout.Vertical,
			},
		},
		passwordTextField: component.TextField{
			Editor: widget.Editor{Submit: true, SingleLine: true, MaxLen: 128, Mask: '·'},
		},
		resetTextField: component.TextField{
			Editor: widget.Editor{Submit: true, SingleLine: true, MaxLen: 16},
		},
		Margin: DefaultMargin,
	}
	return &v
}

// Call from same goroutine as Layout
func (v *PasswordRequesterView) ConfirmClicked() bool {
	c := v.confirmed
	v.confirmed = false
	return c
}

// Call from same goroutine as Layout
func (v *PasswordRequesterView) ResetConfirmed() bool {
	c := v.resetConfirmed
	v.resetConfirmed = false
	return c
}

// Call from same goroutine as Layout
func (v *PasswordRequesterView) GetPassword() string {
	return v.passwordTextField.Text()
}

func (v *PasswordRequesterView) SetErrorNote(n string) {
	v.note = n
	v.confirmed = false
	v.focusUpdated = false
	v.passwordTextField.SetCaret(0, len(v.passwordTextField.Text()))
}

func (v *PasswordRequesterView) submitReset() {
	if v.resetTextField.Text() == "reset" {
		v.resetConfirmed = true
	} else {
		v.resetNote = "Type \"reset\" to confirm."
		v.resetTextField.SetCaret(0, len(v.resetTextField.Text()))
	}
}

func (v *PasswordRequesterView) Layout(th *material.Theme, gtx layout.Context) layout.Dimensions {
	if !v.focusUpdated {
		if v.resetMode {
			v.resetTextField.Focus()
		} else {
			v.passwordTextField.Focus()
		}
		v.focusUpdated = true
	}
	if v.buttonContinue.Clicked(gtx) {
		v.confirmed = true
	}
	if v.buttonReset.Clicked(gtx) {
		v.resetMode = true
		v.resetNote = ""
		v.resetTextField.SetText("")
		v.focusUpdated = false
	}
	if v.buttonCancelReset.Clicked(gtx) {
		v.resetMode = false
		v.focusUpdated = false
	}
	if v.buttonConfirmReset.Clicked(gtx) {
		v.submitReset()
	}
	for _, evt := range v.passwordTextField.Events() {
		switch evt.(type) {
		case widget.ChangeEvent:
			v.note = ""
		case widget.SubmitEvent:
			v.confirmed = true
		}
	}
	for _, evt := range v.resetTextField.Events() {
		switch evt.(type) {
		case widget.ChangeEvent:
			v.resetNote = ""
		case widget.SubmitEvent:
			v.submitReset()
		}
	}

	if v.resetMode {
		return layoutConfirmationFrame(th, v.Margin, gtx, &v.buttonConfirmReset, &v.buttonCancelReset, func(gtx layout.Context) layout.Dimensions {
			return material.List(th, &v.passwordList).Layout(gtx, 1, func(gtx layout.Context, index int) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(heading(th, "Reset configuration").Layout),
					layout.Rigid(subHeading(th, "Resetting discards all encrypted settings and restores the defaults.").Layout),
					layout.Rigid(divider(th, v.Margin).Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layoutLabelTextField(
							th,
							v.Margin,
							gtx,
							&v.resetTextField,
							"Type \"reset\" to confirm:",
							"reset",
							v.resetNote,
							true,
						)
					}),
				)
			})
		})
	}
	return layoutConfirmationFrame(th, v.Margin, gtx, &v.buttonContinue, nil, func(gtx layout.Context) layout.Dimensions {
		return material.List(th, &v.passwordList).Layout(gtx, 1, func(gtx layout.Context, index int) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(heading(th, "candlecube Startup").Layout),
				layout.Rigid(subHeading(th, "The configuration data is encrypted.").Layout),
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(
						th,
						v.Margin,
						gtx,
						&v.passwordTextField,
						"Enter password:",
						"Configuration data password",
						v.note,
						true,
					)
				}),
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "Forgot the password?", material.Button(th, &v.buttonReset, "Reset configuration").Layout)
				}),
			)
		})
	})
}

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

type PasswordCreatorView struct {
	passwordList         widget.List
	requireExisting      bool
	focusUpdated         bool
	confirmed            bool
	cancelled            bool
	buttonContinue       widget.Clickable
	buttonCancel         widget.Clickable
	existingTextField    component.TextField
	passwordTextField    component.TextField
	password2ndTextField component.TextField
	note                 string
	noteCurPw            string
	Margin               unit.Dp
	confirmedNewPw       string
	confirmedExistingPw  string
}

// A view for creating a new configuration password.
// If requireExisting is set, the current password needs to be entered as well.
func NewPasswordCreatorView(requireExisting bool) *PasswordCreatorView {
	v := PasswordCreatorView{
		passwordList: widget.List{
			List: layout.List{
				Axis: layout.Vertical,
			},
		},
		requireExisting: requireExisting,
		existingTextField: component.TextField{
			Editor: widget.Editor{Submit: true, SingleLine: true, MaxLen: 128, Mask: '·'},
		},
		passwordTextField: component.TextField{
			Editor: widget.Editor{Submit: true, SingleLine: true, MaxLen: 128, Mask: '·'},
		},
		password2ndTextField: component.TextField{
			Editor: widget.Editor{Submit: true, SingleLine: true, MaxLen: 128, Mask: '·'},
		},
		Margin: DefaultMargin,
	}
	return &v
}

// Call from same goroutine as Layout
func (v *PasswordCreatorView) ConfirmClicked() bool {
	c := v.confirmed
	v.confirmed = false
	return c
}

// Call from same goroutine as Layout
func (v *PasswordCreatorView) CancelClicked() bool {
	c := v.cancelled
	v.cancelled = false
	return c
}

// Call from same goroutine as Layout
func (v *PasswordCreatorView) GetConfirmedPassword() string {
	return v.confirmedNewPw
}

func (v *PasswordCreatorView) SetErrorNoteCurPw(n string) {
	v.noteCurPw = n
	v.confirmed = false
	v.focusUpdated = false
	v.existingTextField.SetCaret(0, len(v.existingTextField.Text()))
}

func (v *PasswordCreatorView) submitPassword() {
	if v.validate() {
		v.confirmed = true
		v.confirmedNewPw = v.passwordTextField.Text()
		v.confirmedExistingPw = v.existingTextField.Text()
	}
}

func (v *PasswordCreatorView) Layout(th *material.Theme, gtx layout.Context) layout.Dimensions {
	if !v.focusUpdated {
		if v.requireExisting {
			v.existingTextField.Focus()
		} else {
			v.passwordTextField.Focus()
		}
		v.focusUpdated = true
	}
	if v.buttonContinue.Clicked(gtx) {
		v.submitPassword()
	}
	if v.requireExisting && v.buttonCancel.Clicked(gtx) {
		v.cancelled = true
	}
	for _, evt := range v.existingTextField.Events() {
		switch evt.(type) {
		case widget.ChangeEvent:
			v.noteCurPw = ""
		case widget.SubmitEvent:
			v.passwordTextField.Focus()
		}
	}
	for _, evt := range v.passwordTextField.Events() {
		switch evt.(type) {
		case widget.ChangeEvent:
			v.note = ""
		case widget.SubmitEvent:
			v.password2ndTextField.Focus()
		}
	}
	for _, evt := range v.password2ndTextField.Events() {
		switch evt.(type) {
		case widget.ChangeEvent:
			v.note = ""
		case widget.SubmitEvent:
			v.submitPassword()
		}
	}

	var buttonCancel *widget.Clickable
	if v.requireExisting {
		buttonCancel = &v.buttonCancel
	}
	return layoutConfirmationFrame(th, v.Margin, gtx, &v.buttonContinue, buttonCancel, func(gtx layout.Context) layout.Dimensions {
		return material.List(th, &v.passwordList).Layout(gtx, 1, func(gtx layout.Context, index int) layout.Dimensions {
			children := make([]layout.FlexChild, 0, 8)
			children = append(children,
				layout.Rigid(heading(th, "Secure configuration data").Layout),
				layout.Rigid(subHeading(th, "The configuration data will be stored locally and encrypted using a password.").Layout),
				layout.Rigid(divider(th, v.Margin).Layout),
			)
			if v.requireExisting {
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(
						th,
						v.Margin,
						gtx,
						&v.existingTextField,
						"Current password:",
						"Configuration data password",
						v.noteCurPw,
						true,
					)
				}))
			}
			children = append(children,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(
						th,
						v.Margin,
						gtx,
						&v.passwordTextField,
						"Enter new password:",
						"Configuration data password",
						v.note,
						true,
					)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(
						th,
						v.Margin,
						gtx,
						&v.password2ndTextField,
						"Confirm new password:",
						"Configuration data password",
						"",
						false,
					)
				}),
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(subHeading(th, "Note: Remember this password! You will need to reset the configuration if the password is lost.").Layout),
			)
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
		},
		)
	})
}

func (v *PasswordCreatorView) validate() bool {
	if v.requireExisting && len(v.existingTextField.Text()) == 0 {
		v.noteCurPw = "The current password is required."
		return false
	}
	if len(v.passwordTextField.Text()) < 6 {
		v.note = "The minimum password length is 6 characters."
		return false
	}
	if v.passwordTextField.Text() != v.password2ndTextField.Text() {
		v.note = "Passwords do not match."
		return false
	}
	return true
}

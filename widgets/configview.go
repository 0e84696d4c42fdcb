// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"net/url"
	"strconv"
	"strings"

	"candlecube/config"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

type ConfigView struct {
	configList         widget.List
	Margin             unit.Dp
	confirmed          bool
	passwordChanged    bool
	showPwCreator      bool
	pwCreatorView      *PasswordCreatorView
	encryption         config.EncryptionSetup
	buttonConfirm      widget.Clickable
	changePwButton     widget.Clickable
	dataFileField      component.TextField
	symbolField        component.TextField
	settleDelayField   component.TextField
	dataUrlField       component.TextField
	wsUrlField         component.TextField
	apiTokenField      component.TextField
	skipNonTradingDays widget.Bool
	lightTheme         widget.Bool
	feedEnabled        widget.Bool
	feedLink           LinkButton
	dataFileNote       string
	symbolNote         string
	settleDelayNote    string
	feedNote           string
}

func NewConfigView(encryption config.EncryptionSetup) *ConfigView {
	v := ConfigView{
		configList: widget.List{
			List: layout.List{
				Axis: layout.Vertical,
			},
		},
		Margin:     DefaultMargin,
		encryption: encryption,
		dataFileField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 1024},
		},
		symbolField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 32},
		},
		settleDelayField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 8},
		},
		dataUrlField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 1024},
		},
		wsUrlField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 1024},
		},
		apiTokenField: component.TextField{
			Editor: widget.Editor{SingleLine: true, MaxLen: 256, Mask: '·'},
		},
	}
	return &v
}

// Call from same goroutine as Layout
func (v *ConfigView) ConfirmClicked() bool {
	c := v.confirmed
	v.confirmed = false
	return c
}

func (v *ConfigView) UpdateUiFromConfig(c *config.AppConfig) {
	v.dataFileField.SetText(c.DataFile)
	v.symbolField.SetText(c.Symbol)
	v.settleDelayField.SetText(strconv.Itoa(c.SettleDelayMs))
	v.skipNonTradingDays.Value = c.SkipNonTradingDays
	v.lightTheme.Value = c.LightTheme
	v.feedEnabled.Value = c.Feed.Enabled
	v.dataUrlField.SetText(c.Feed.DataUrl)
	v.wsUrlField.SetText(c.Feed.WsUrl)
	v.apiTokenField.SetText(c.Feed.ApiToken)
}

// UpdateConfigFromUi stores the ui values in the given configuration.
// It returns true if writing the configuration file needs to be forced,
// which is the case after a password change.
func (v *ConfigView) UpdateConfigFromUi(c *config.AppConfig) bool {
	c.DataFile = strings.TrimSpace(v.dataFileField.Text())
	c.Symbol = strings.ToUpper(strings.TrimSpace(v.symbolField.Text()))
	if t := strings.TrimSpace(v.settleDelayField.Text()); len(t) > 0 {
		if ms, err := strconv.Atoi(t); err == nil {
			c.SettleDelayMs = ms
		}
	}
	c.SkipNonTradingDays = v.skipNonTradingDays.Value
	c.LightTheme = v.lightTheme.Value
	c.Feed.Enabled = v.feedEnabled.Value
	c.Feed.DataUrl = strings.TrimSpace(v.dataUrlField.Text())
	c.Feed.WsUrl = strings.TrimSpace(v.wsUrlField.Text())
	c.Feed.ApiToken = strings.TrimSpace(v.apiTokenField.Text())
	forceSave := v.passwordChanged
	v.passwordChanged = false
	return forceSave
}

func (v *ConfigView) handleInput(gtx layout.Context) {
	if v.changePwButton.Clicked(gtx) {
		v.pwCreatorView = NewPasswordCreatorView(true)
		v.showPwCreator = true
	}
	if v.showPwCreator {
		if v.pwCreatorView.CancelClicked() {
			v.showPwCreator = false
		}
		if v.pwCreatorView.ConfirmClicked() {
			if v.encryption.IsEncryptionPassword(v.pwCreatorView.confirmedExistingPw) {
				v.encryption.SetEncryptionPassword(v.pwCreatorView.confirmedNewPw)
				v.passwordChanged = true
				v.showPwCreator = false
			} else {
				v.pwCreatorView.SetErrorNoteCurPw("The current password is incorrect.")
			}
		}
	}
	if v.buttonConfirm.Clicked(gtx) && v.validate() {
		v.confirmed = true
	}
	if v.feedEnabled.Update(gtx) {
		v.dataFileNote = ""
		v.feedNote = ""
	}
	for _, evt := range v.dataFileField.Events() {
		if _, ok := evt.(widget.ChangeEvent); ok {
			v.dataFileNote = ""
		}
	}
	for _, evt := range v.symbolField.Events() {
		if _, ok := evt.(widget.ChangeEvent); ok {
			v.symbolNote = ""
		}
	}
	for _, evt := range v.settleDelayField.Events() {
		if _, ok := evt.(widget.ChangeEvent); ok {
			v.settleDelayNote = ""
		}
	}
	for _, evt := range v.dataUrlField.Events() {
		if _, ok := evt.(widget.ChangeEvent); ok {
			v.dataFileNote = ""
			v.feedNote = ""
		}
	}
	for _, evt := range v.wsUrlField.Events() {
		if _, ok := evt.(widget.ChangeEvent); ok {
			v.dataFileNote = ""
			v.feedNote = ""
		}
	}
}

func (v *ConfigView) validate() bool {
	valid := true
	if len(strings.TrimSpace(v.symbolField.Text())) == 0 {
		v.symbolNote = "A symbol is required."
		valid = false
	}
	if t := strings.TrimSpace(v.settleDelayField.Text()); len(t) > 0 {
		if _, err := strconv.Atoi(t); err != nil {
			v.settleDelayNote = "Enter the delay in milliseconds."
			valid = false
		}
	}
	hasDataFile := len(strings.TrimSpace(v.dataFileField.Text())) > 0
	hasFeedUrls := len(strings.TrimSpace(v.dataUrlField.Text())) > 0 && len(strings.TrimSpace(v.wsUrlField.Text())) > 0
	if !hasDataFile && !(v.feedEnabled.Value && hasFeedUrls) {
		v.dataFileNote = "Select a data file or enable the realtime feed."
		valid = false
	}
	if v.feedEnabled.Value && !hasFeedUrls {
		v.feedNote = "The realtime feed requires a history URL and a websocket URL."
		valid = false
	}
	return valid
}

func (v *ConfigView) Layout(th *material.Theme, gtx layout.Context) layout.Dimensions {
	v.handleInput(gtx)
	if v.showPwCreator {
		return v.pwCreatorView.Layout(th, gtx)
	}
	if u, err := url.Parse(strings.TrimSpace(v.dataUrlField.Text())); err == nil && len(u.Host) > 0 {
		v.feedLink.SetUrl(u.Scheme+"://"+u.Host, "Feed website")
	}
	return layoutConfirmationFrame(th, v.Margin, gtx, &v.buttonConfirm, nil, func(gtx layout.Context) layout.Dimensions {
		return material.List(th, &v.configList).Layout(gtx, 1, func(gtx layout.Context, index int) layout.Dimensions {
			children := make([]layout.FlexChild, 0, 16)
			children = append(children,
				layout.Rigid(heading(th, "Settings").Layout),
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(subHeading(th, "Chart data").Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.dataFileField, "OHLCV data file:", "path of a csv or json file", v.dataFileNote, true)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.symbolField, "Symbol:", "e.g. SPY", v.symbolNote, true)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "Skip non-trading days:", material.CheckBox(th, &v.skipNonTradingDays, "").Layout)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.settleDelayField, "Tooltip delay (ms):", "50", v.settleDelayNote, true)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "Light theme:", material.CheckBox(th, &v.lightTheme, "").Layout)
				}),
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(subHeading(th, "Realtime bar feed").Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "Enable realtime feed:", material.CheckBox(th, &v.feedEnabled, "").Layout)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.dataUrlField, "History URL:", "https://example.com/api", v.feedNote, true)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.wsUrlField, "Websocket URL:", "wss://example.com/stream", "", false)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelTextField(th, v.Margin, gtx, &v.apiTokenField, "API token:", "optional", "", false)
				}),
			)
			if len(v.feedLink.Url()) > 0 {
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "", func(gtx layout.Context) layout.Dimensions {
						return v.feedLink.Layout(th, gtx)
					})
				}))
			}
			children = append(children,
				layout.Rigid(divider(th, v.Margin).Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layoutLabelWidget(th, v.Margin, gtx, "Configuration password:", material.Button(th, &v.changePwButton, "Change password").Layout)
				}),
			)
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
		})
	})
}

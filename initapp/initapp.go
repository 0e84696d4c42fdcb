// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package initapp

import (
	"context"
	"errors"
	"log"
	"os"

	"candlecube/config"
	"candlecube/cubeviz"
	"candlecube/feed"
	"candlecube/widgets"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type initUiState int

const (
	StateNewPassword initUiState = iota
	StateInitialSettings
	StateEnterPassword
	StateInitDone
)

// InitApp runs the first-start and unlock flow in a small separate window
// before the chart application takes over.
type InitApp struct {
	initWindow         *app.Window
	config             config.Config
	hasEncryptedConfig bool
	setupDone          bool
	uiState            initUiState
	pwCreatorView      *widgets.PasswordCreatorView
	pwRequesterView    *widgets.PasswordRequesterView
	configView         *widgets.ConfigView
	forceNewConfig     bool
}

func NewInitApp(c config.Config) *InitApp {
	return &InitApp{
		config:          c,
		pwCreatorView:   widgets.NewPasswordCreatorView(false),
		pwRequesterView: widgets.NewPasswordRequesterView(),
		configView:      widgets.NewConfigView(c),
	}
}

func (a *InitApp) reloadConfiguration() error {
	appConfig, err := a.config.Copy(true)
	if err != nil {
		return err
	}
	a.hasEncryptedConfig = appConfig.IsEncrypted
	a.setupDone = appConfig.SetupDone
	a.configView.UpdateUiFromConfig(&appConfig)
	return nil
}

func (a *InitApp) saveConfiguration() error {
	appConfig, err := a.config.Lock()
	if err != nil {
		return err
	}
	appConfig.SetupDone = a.setupDone
	forceWriting := a.configView.UpdateConfigFromUi(appConfig) || a.forceNewConfig || !a.hasEncryptedConfig
	return a.config.Unlock(appConfig, forceWriting)
}

func (a *InitApp) Run(ctx context.Context) {
	err := a.reloadConfiguration()
	if err != nil || !a.hasEncryptedConfig {
		a.uiState = StateNewPassword
	} else if !a.setupDone { // either setup was not finished, or encryption pw is missing
		a.uiState = StateEnterPassword
	} else {
		a.uiState = StateInitDone
	}

	if a.uiState != StateInitDone {
		a.createWindow()
		err = a.handleEvents()
		if err != nil {
			log.Printf("terminating with error: %v", err)
		}
		a.terminate()
		err = a.reloadConfiguration()
		if err != nil {
			log.Fatalf("initialization failed: %v", err)
		}
	}
	if !a.setupDone || !a.hasEncryptedConfig {
		log.Fatal("initialization failed: missing initialization data")
	}
	// Start main app after initial configuration.
	src := feed.NewClient()
	err = src.ReadConfig(a.config)
	if err != nil {
		log.Fatalf("feed initialization failed: %v", err)
	}
	c := cubeviz.NewCubeApp(a.config)
	err = c.Initialize(ctx, src)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	c.Run(ctx)

	os.Exit(0)
}

func (a *InitApp) createWindow() {
	a.initWindow = app.NewWindow(
		app.Title(a.config.GetAppName()),
		app.Size(unit.Dp(800), unit.Dp(600)),
	)
	a.initWindow.Perform(system.ActionCenter)
}

func (a *InitApp) handleEvents() error {
	var ops op.Ops
	th := widgets.NewDarkMaterialTheme()

	for {
		switch e := a.initWindow.NextEvent().(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			paint.Fill(gtx.Ops, th.Bg)
			switch a.uiState {
			case StateNewPassword:
				a.pwCreatorView.Layout(th, gtx)
				if a.pwCreatorView.ConfirmClicked() {
					pw := a.pwCreatorView.GetConfirmedPassword()
					if len(pw) == 0 {
						return errors.New("invalid password")
					}
					a.config.SetEncryptionPassword(pw)
					err := a.reloadConfiguration()
					if err != nil || !a.setupDone {
						a.forceNewConfig = true
						a.uiState = StateInitialSettings
					} else {
						a.initWindow.Perform(system.ActionClose)
					}
				}
				if a.pwCreatorView.CancelClicked() {
					a.initWindow.Perform(system.ActionClose)
				}
			case StateInitialSettings:
				a.configView.Layout(th, gtx)
				if a.configView.ConfirmClicked() {
					a.setupDone = true
					a.initWindow.Perform(system.ActionClose)
				}
			case StateEnterPassword:
				a.pwRequesterView.Layout(th, gtx)
				if a.pwRequesterView.ConfirmClicked() {
					pw := a.pwRequesterView.GetPassword()
					a.config.SetEncryptionPassword(pw)
					err := a.reloadConfiguration()
					if err != nil || !a.setupDone {
						a.pwRequesterView.SetErrorNote("invalid password")
					} else {
						a.initWindow.Perform(system.ActionClose)
					}
				}
				if a.pwRequesterView.ResetConfirmed() {
					// The password was lost, discard the old configuration.
					a.config.Reset()
					a.forceNewConfig = true
					a.uiState = StateNewPassword
				}
			}

			e.Frame(gtx.Ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
}

func (a *InitApp) terminate() {
	err := a.saveConfiguration()
	if err != nil {
		log.Printf("error saving configuration: %v", err)
	}
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"strings"

	"github.com/barkimedes/go-deepcopy"
)

const (
	defaultSettleDelayMs = 50
	defaultSymbol        = "SPY"
)

type AppConfig struct {
	IsEncrypted        bool   `yaml:"-"`
	SetupDone          bool   `yaml:",omitempty"`
	LightTheme         bool   `yaml:",omitempty"`
	DataFile           string `yaml:",omitempty"`
	Symbol             string `yaml:",omitempty"`
	SkipNonTradingDays bool   `yaml:",omitempty"`
	// Time to wait after a resize or data change before the drawing
	// surface is measured again.
	SettleDelayMs int
	Window        WindowConfig
	Feed          FeedConfig
	Indicators    []IndicatorConfig
}

var defaultFeedConfig = NewFeedConfig()

func NewAppConfig() AppConfig {
	return AppConfig{
		Symbol:        defaultSymbol,
		SettleDelayMs: defaultSettleDelayMs,
		Window:        NewWindowConfig(),
		Feed:          NewFeedConfig(),
		Indicators: []IndicatorConfig{
			{IndicatorId: "sma", Properties: make(map[string]string)},
		},
	}
}

func (a *AppConfig) deepCopy() AppConfig {
	c, err := deepcopy.Anything(a)
	if err != nil {
		panic(err)
	}
	return *c.(*AppConfig)
}

func (a *AppConfig) Sanitize() {
	a.Window.sanitize()
	if a.SettleDelayMs <= 0 {
		a.SettleDelayMs = defaultSettleDelayMs
	}
	if len(strings.TrimSpace(a.Symbol)) == 0 {
		a.Symbol = defaultSymbol
	}
	for i := range a.Indicators {
		a.Indicators[i].sanitize()
	}
	a.RestoreDefaults()
}

// We do not want to store certain default values in the configuration file,
// in order to avoid having to patch them.
func (a *AppConfig) RemoveDefaults() {
	if a.Feed.RateLimitPerSecond == defaultFeedConfig.RateLimitPerSecond {
		a.Feed.RateLimitPerSecond = 0
	}
	if a.Feed.DataTimeoutSeconds == defaultFeedConfig.DataTimeoutSeconds {
		a.Feed.DataTimeoutSeconds = 0
	}
}

// Restore certain default values which are not stored in the configuration file.
func (a *AppConfig) RestoreDefaults() {
	if a.Feed.RateLimitPerSecond == 0 {
		a.Feed.RateLimitPerSecond = defaultFeedConfig.RateLimitPerSecond
	}
	if a.Feed.DataTimeoutSeconds == 0 {
		a.Feed.DataTimeoutSeconds = defaultFeedConfig.DataTimeoutSeconds
	}
}

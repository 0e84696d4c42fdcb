// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAppConfigYamlRoundTrip(t *testing.T) {
	cfg := NewAppConfig()
	cfg.SetupDone = true
	cfg.DataFile = "/data/bars.csv"
	cfg.Symbol = "AAPL"
	cfg.SkipNonTradingDays = true
	cfg.SettleDelayMs = 100
	cfg.Feed.Enabled = true
	cfg.Feed.DataUrl = "https://feed.example.com/api/v1"
	cfg.Feed.WsUrl = "wss://feed.example.com/ws"
	cfg.Feed.ApiToken = "token"
	cfg.Indicators = append(cfg.Indicators, IndicatorConfig{
		IndicatorId: "vwap",
		Properties:  map[string]string{},
		Color:       color.NRGBA{R: 255, G: 193, B: 7, A: 255},
	})

	cfg.RemoveDefaults()
	file, err := yaml.Marshal(&cfg)
	require.NoError(t, err)
	cfg.RestoreDefaults()

	loaded := NewAppConfig()
	require.NoError(t, yaml.Unmarshal(file, &loaded))
	loaded.Sanitize()
	assert.Equal(t, cfg, loaded)
}

func TestRemoveDefaultsOmitsFeedLimits(t *testing.T) {
	cfg := NewAppConfig()
	cfg.RemoveDefaults()
	file, err := yaml.Marshal(&cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(file), "ratelimitpersecond")
	assert.NotContains(t, string(file), "datatimeoutseconds")
}

func TestSanitizeFixesInvalidValues(t *testing.T) {
	cfg := AppConfig{
		SettleDelayMs: -1,
		Indicators:    []IndicatorConfig{{IndicatorId: "sma"}},
	}
	cfg.Sanitize()
	assert.Equal(t, NewWindowConfig(), cfg.Window)
	assert.Equal(t, defaultSettleDelayMs, cfg.SettleDelayMs)
	assert.Equal(t, defaultSymbol, cfg.Symbol)
	assert.Equal(t, defaultFeedConfig.RateLimitPerSecond, cfg.Feed.RateLimitPerSecond)
	assert.Equal(t, defaultFeedConfig.DataTimeoutSeconds, cfg.Feed.DataTimeoutSeconds)
	assert.NotNil(t, cfg.Indicators[0].Properties)
}

func TestSanitizeClampsNonPositiveSettleDelay(t *testing.T) {
	cfg := NewAppConfig()
	cfg.SettleDelayMs = 0
	cfg.Sanitize()
	assert.Equal(t, defaultSettleDelayMs, cfg.SettleDelayMs)
}

func TestSanitizeRestoresEmptySymbol(t *testing.T) {
	cfg := NewAppConfig()
	cfg.Symbol = "   "
	cfg.Sanitize()
	assert.Equal(t, defaultSymbol, cfg.Symbol)
}

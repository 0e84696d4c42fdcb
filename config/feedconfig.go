// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

type FeedConfig struct {
	Enabled  bool   `yaml:",omitempty"`
	DataUrl  string `yaml:",omitempty"`
	WsUrl    string `yaml:",omitempty"`
	ApiToken string `yaml:",omitempty"`
	// Feed endpoints usually enforce a rate limit per second.
	RateLimitPerSecond int `yaml:",omitempty"`
	// Feed endpoints sometimes do not reply, so use a timeout.
	DataTimeoutSeconds int `yaml:",omitempty"`
}

func NewFeedConfig() FeedConfig {
	return FeedConfig{
		RateLimitPerSecond: 30,
		DataTimeoutSeconds: 10,
	}
}

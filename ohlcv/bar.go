// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package ohlcv

import (
	"math"
	"time"
)

// Bar is a single OHLCV data point for one period.
// Prices are float64 for plotting; exact decimal values are only used
// while parsing files and for indicator statistics.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is a chronological sequence of bars. The slice index is the
// x axis coordinate; bars are not spaced proportionally to time.
type Series []Bar

func (b Bar) IsValid() bool {
	return IsFinite(b.Open) && IsFinite(b.High) && IsFinite(b.Low) && IsFinite(b.Close) &&
		b.Low <= math.Min(b.Open, b.Close) &&
		math.Max(b.Open, b.Close) <= b.High &&
		b.Volume >= 0
}

// ClampOHLC widens High/Low so that
// Low <= min(Open, Close) <= max(Open, Close) <= High.
// Returns true if anything was adjusted.
func (b *Bar) ClampOHLC() bool {
	adjusted := false
	if b.Low > math.Min(b.Open, b.Close) {
		b.Low = math.Min(b.Open, b.Close)
		adjusted = true
	}
	if b.High < math.Max(b.Open, b.Close) {
		b.High = math.Max(b.Open, b.Close)
		adjusted = true
	}
	return adjusted
}

func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// IsBullish classifies strictly. A bar with equal open and close is
// rendered using the bearish color.
func IsBullish(open, close float64) bool {
	return close > open
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

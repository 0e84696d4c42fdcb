// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"context"

	"candlecube/config"
	"candlecube/ohlcv"
)

type HistoryRequest struct {
	Symbol string
	Limit  int
}

type HistoryResponse struct {
	Symbol string
	Error  error
	Bars   ohlcv.Series
}

type SubscriptionType int

const (
	BarsSubscribe SubscriptionType = iota
	BarsUnsubscribe
)

type RealtimeBar struct {
	Symbol string
	Bar    ohlcv.Bar
}

type SubscribeRequest struct {
	Symbol string
	Type   SubscriptionType
}

type SubscribeResponse struct {
	Symbol  string
	Error   error
	Type    SubscriptionType
	BarData chan RealtimeBar
}

// BarSource delivers historic and streaming bars. Request and response
// channels decouple the UI goroutine from network latency; implementations
// close the response channel when the request channel is closed.
type BarSource interface {
	RemainingApiLimit() int
	ReadConfig(c config.Config) error
	QueryBarHistory(ctx context.Context, request <-chan HistoryRequest, response chan<- HistoryResponse)
	SubscribeBars(ctx context.Context, request <-chan SubscribeRequest, response chan<- SubscribeResponse)
}

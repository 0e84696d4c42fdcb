// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"candlecube/config"
	"candlecube/ohlcv"
	"candlecube/webclient"

	"github.com/ericlagergren/decimal"
	"github.com/gorilla/websocket"
)

// Client speaks the bar feed protocol:
//
//	GET {DataUrl}/history?symbol=S&limit=N returns {"s":"ok","bars":[...]}
//	WS  {WsUrl}?token=T with commands {"type":"subscribe","symbol":"S"}
//	    and messages {"type":"bar","symbol":"S","bar":{...}}
//
// Wire prices are unmarshaled into decimal.Big directly; float types are
// bad for price data.
type Client struct {
	rateLimiter          *webclient.RateLimiter
	perSecondRateLimiter *webclient.RateLimiter
	apiClient            *http.Client
	realtimeConn         *websocket.Conn
	barDataMap           *RealtimeChanMap[RealtimeBar]
	config               config.FeedConfig
}

type wireBar struct {
	Time   int64        `json:"t"`
	Open   *decimal.Big `json:"o,omitempty"`
	High   *decimal.Big `json:"h,omitempty"`
	Low    *decimal.Big `json:"l,omitempty"`
	Close  *decimal.Big `json:"c,omitempty"`
	Volume int64        `json:"v,omitempty"`
}

type historyData struct {
	S    string    `json:"s,omitempty"`
	Bars []wireBar `json:"bars,omitempty"`
}

type realtimeBarData struct {
	Type   string  `json:"type,omitempty"`
	Symbol string  `json:"symbol,omitempty"`
	Bar    wireBar `json:"bar"`
}

type realtimeCommand struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

const MessageTypeBar = "bar"

func getSubscriptionTypeStr(s SubscriptionType) string {
	switch s {
	case BarsSubscribe:
		return "subscribe"
	case BarsUnsubscribe:
		return "unsubscribe"
	default:
		panic("unsupported bar subscription mode")
	}
}

func NewClient() *Client {
	return &Client{
		rateLimiter:          webclient.NewRateLimiter(),
		perSecondRateLimiter: webclient.NewRateLimiter(),
		apiClient:            &http.Client{},
		barDataMap:           NewRealtimeChanMap[RealtimeBar](),
	}
}

func (rq *Client) RemainingApiLimit() int {
	return min(rq.perSecondRateLimiter.Remaining(), rq.rateLimiter.Remaining())
}

func (rq *Client) createRequest(ctx context.Context, cmd string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rq.config.DataUrl+cmd, nil)
	if err != nil {
		return req, err
	}
	if rq.config.ApiToken != "" {
		req.Header.Add("X-Feed-Token", rq.config.ApiToken)
	}
	return req, err
}

func (rq *Client) runRequest(ctx context.Context, cmd string, query url.Values) (*http.Response, error) {
	retry := true
	var resp *http.Response
	for retry {
		// Throttle according to http headers with an additional limit per second.
		err := rq.perSecondRateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
		err = rq.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}

		req, err := rq.createRequest(ctx, cmd)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = query.Encode()

		resp, err = rq.apiClient.Do(req)
		if err != nil {
			return nil, err
		}
		rq.perSecondRateLimiter.HandleManualTimer()
		retry, err = rq.rateLimiter.HandleResponseHeadersWithWait(ctx, resp)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		if retry {
			resp.Body.Close()
		}
	}
	return resp, nil
}

func mapWireBar(w wireBar) (ohlcv.Bar, error) {
	if w.Open == nil || w.High == nil || w.Low == nil || w.Close == nil {
		return ohlcv.Bar{}, errors.New("bar feed error: missing price data")
	}
	open, _ := w.Open.Float64()
	high, _ := w.High.Float64()
	low, _ := w.Low.Float64()
	closePrice, _ := w.Close.Float64()
	bar := ohlcv.Bar{
		Date:   time.Unix(w.Time, 0).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: w.Volume,
	}
	bar.ClampOHLC()
	return bar, nil
}

func (rq *Client) QueryBarHistory(ctx context.Context, request <-chan HistoryRequest, response chan<- HistoryResponse) {
	defer close(response)

	for req := range request {
		resp := rq.querySymbolHistory(ctx, req)
		if resp.Error != nil {
			log.Print(resp.Error)
		}
		response <- resp
	}
	log.Println("bar feed QueryBarHistory terminating.")
}

func (rq *Client) querySymbolHistory(ctx context.Context, entry HistoryRequest) HistoryResponse {
	query := make(url.Values)
	query.Add("symbol", entry.Symbol)
	if entry.Limit > 0 {
		query.Add("limit", strconv.Itoa(entry.Limit))
	}
	resp, err := rq.runRequest(ctx, "/history", query)
	if err != nil {
		return HistoryResponse{Symbol: entry.Symbol, Error: err}
	}
	defer resp.Body.Close()

	var history historyData
	if err = webclient.ParseJsonResponse(resp, &history); err != nil {
		return HistoryResponse{Symbol: entry.Symbol, Error: err}
	}
	if history.S != "ok" {
		return HistoryResponse{Symbol: entry.Symbol, Error: fmt.Errorf("bar feed history error: %s", history.S)}
	}

	bars := make(ohlcv.Series, 0, len(history.Bars))
	for _, w := range history.Bars {
		bar, err := mapWireBar(w)
		if err != nil {
			log.Printf("Symbol %s: skipping wire bar: %v", entry.Symbol, err)
			continue
		}
		bars = append(bars, bar)
	}
	return HistoryResponse{
		Symbol: entry.Symbol,
		Bars:   bars,
	}
}

func (rq *Client) initRealtimeConnection(ctx context.Context) error {
	if rq.realtimeConn != nil {
		panic("only a single realtime connection is supported")
	}
	log.Printf("establishing bar feed realtime connection.")
	conn, _, err := websocket.DefaultDialer.DialContext(
		ctx,
		fmt.Sprintf("%s?token=%s", rq.config.WsUrl, rq.config.ApiToken),
		nil)
	if err != nil {
		return fmt.Errorf("could not connect to bar feed websocket: %v", err)
	}
	rq.realtimeConn = conn
	return nil
}

func (rq *Client) handleRealtimeData() {
	for {
		var data realtimeBarData
		err := rq.realtimeConn.ReadJSON(&data)

		rq.barDataMap.ClearPendingClose()

		if err != nil {
			rq.barDataMap.Clear()
			// TODO reconnect with backoff instead of requiring a restart
			log.Print("bar feed realtime connection was terminated.")
			break
		}
		if data.Type == MessageTypeBar {
			bar, err := mapWireBar(data.Bar)
			if err != nil {
				log.Printf("Symbol %s: skipping realtime bar: %v", data.Symbol, err)
				continue
			}
			err = rq.barDataMap.AddNewData(data.Symbol, RealtimeBar{Symbol: data.Symbol, Bar: bar})
			if err != nil {
				log.Println(err)
			}
		}
	}
}

func (rq *Client) SubscribeBars(ctx context.Context, request <-chan SubscribeRequest, response chan<- SubscribeResponse) {
	defer close(response)
	for entry := range request {
		// connect when the first subscription arrives, so that no
		// connection is established while the feed is unused.
		if rq.realtimeConn == nil {
			if err := rq.initRealtimeConnection(ctx); err != nil {
				response <- SubscribeResponse{Symbol: entry.Symbol, Error: err, Type: entry.Type}
				continue
			}
			go rq.handleRealtimeData()
		}

		var barData chan RealtimeBar
		var err error
		switch entry.Type {
		case BarsSubscribe:
			barData, err = rq.barDataMap.Subscribe(entry.Symbol)
		case BarsUnsubscribe:
			err = rq.barDataMap.Unsubscribe(entry.Symbol)
		default:
			panic("unsupported bar subscription mode")
		}
		if err == nil {
			subscribeCommand := realtimeCommand{
				Type:   getSubscriptionTypeStr(entry.Type),
				Symbol: entry.Symbol,
			}
			msg, _ := json.Marshal(subscribeCommand)
			if writeErr := rq.realtimeConn.WriteMessage(websocket.TextMessage, msg); writeErr != nil {
				err = fmt.Errorf("sending %s command for symbol %s: %v", subscribeCommand.Type, entry.Symbol, writeErr)
				if entry.Type == BarsSubscribe {
					// The feed never learned about this subscription,
					// keep the channel map consistent with it.
					if unsubErr := rq.barDataMap.Unsubscribe(entry.Symbol); unsubErr != nil {
						log.Println(unsubErr)
					}
					barData = nil
				}
			}
		}

		response <- SubscribeResponse{
			Symbol:  entry.Symbol,
			Error:   err,
			Type:    entry.Type,
			BarData: barData,
		}
	}
	if rq.realtimeConn != nil {
		rq.realtimeConn.Close()
		rq.realtimeConn = nil
	}
}

func (rq *Client) ReadConfig(c config.Config) error {
	appConfig, err := c.Copy(false)
	if err != nil {
		return err
	}
	rq.config = appConfig.Feed
	rq.apiClient.Timeout = time.Second * time.Duration(rq.config.DataTimeoutSeconds)
	rq.perSecondRateLimiter = webclient.NewManualRateLimiter(time.Second, uint32(rq.config.RateLimitPerSecond))
	return nil
}

func IsValidConfig(c config.Config) bool {
	appConfig, err := c.Copy(false)
	if err != nil {
		return false
	}
	return len(appConfig.Feed.DataUrl) > 0 && len(appConfig.Feed.WsUrl) > 0
}

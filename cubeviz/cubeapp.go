// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeviz

import (
	"context"
	"log"
	"sync"
	"time"

	"candlecube/barfile"
	"candlecube/cache"
	"candlecube/config"
	"candlecube/feed"
	"candlecube/ohlcv"
	"candlecube/widgets"

	"github.com/inkeliz/giohyperlink"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

type cubeAppUiState int

const (
	StatePlot cubeAppUiState = iota
	StateSettings
	StateIndicators
)

const (
	historyBarLimit     = 500
	feedRefreshInterval = 20 * time.Second
)

type CubeApp struct {
	win                   *app.Window
	size                  widgets.DpPoint
	uiState               cubeAppUiState
	terminateWg           *sync.WaitGroup
	terminateTimerChan    chan struct{}
	config                config.Config
	configView            *widgets.ConfigView
	indicatorsView        *widgets.IndicatorsView
	messageField          *widgets.MessageField
	plotTheme             *widgets.PlotTheme
	matTheme              *material.Theme
	chartView             *ChartView
	seriesData            *SeriesData
	seriesCache           cache.SeriesCache
	src                   feed.BarSource
	historyRequestChan    chan feed.HistoryRequest
	historyResponseChan   chan feed.HistoryResponse
	subscribeRequestChan  chan feed.SubscribeRequest
	subscribeResponseChan chan feed.SubscribeResponse
	feedMutex             *sync.Mutex
	feedSymbol            string
	feedEnabled           bool
	widgetStack           []layout.StackChild
}

func NewCubeApp(c config.Config) *CubeApp {
	a := &CubeApp{
		terminateWg:    new(sync.WaitGroup),
		config:         c,
		configView:     widgets.NewConfigView(c),
		indicatorsView: widgets.NewIndicatorsView(),
		messageField:   widgets.NewMessageField(),
		seriesData:     NewSeriesData(),
		seriesCache:    cache.NewLocalSeriesCache(),
		feedMutex:      new(sync.Mutex),
	}
	a.chartView = NewChartView(a)
	return a
}

func (a *CubeApp) Initialize(ctx context.Context, src feed.BarSource) error {
	a.src = src
	a.terminateTimerChan = make(chan struct{})
	// TODO size of buffered channels?
	a.historyRequestChan = make(chan feed.HistoryRequest, 10)
	a.historyResponseChan = make(chan feed.HistoryResponse, 10)
	a.subscribeRequestChan = make(chan feed.SubscribeRequest, 10)
	a.subscribeResponseChan = make(chan feed.SubscribeResponse, 10)

	go src.QueryBarHistory(ctx, a.historyRequestChan, a.historyResponseChan)
	a.terminateWg.Add(1)
	go a.handleHistoryResponseChan()

	go src.SubscribeBars(ctx, a.subscribeRequestChan, a.subscribeResponseChan)
	a.terminateWg.Add(1)
	go a.handleSubscribeResponseChan()

	a.terminateWg.Add(1)
	go a.handlePeriodicUpdate()

	return a.reloadConfiguration(ctx)
}

func (a *CubeApp) reloadConfiguration(ctx context.Context) error {
	appConfig, err := a.config.Copy(false)
	if err != nil {
		return err
	}
	// Themes need to be set up first, because other settings might use them.
	if appConfig.LightTheme {
		a.matTheme = widgets.NewLightMaterialTheme()
		a.plotTheme = widgets.NewLightPlotTheme()
	} else {
		a.matTheme = widgets.NewDarkMaterialTheme()
		a.plotTheme = widgets.NewDarkPlotTheme()
	}
	a.chartView.ApplyConfig(&appConfig, a.plotTheme)
	a.loadData(ctx, &appConfig)

	a.configView.UpdateUiFromConfig(&appConfig)
	a.indicatorsView.SetIndicatorConfig(&appConfig)
	a.size.X = unit.Dp(appConfig.Window.Size.X)
	a.size.Y = unit.Dp(appConfig.Window.Size.Y)
	return nil
}

// loadData starts fetching bars from the configured source. File loading
// runs in the background; the UI shows an empty chart until data arrives.
func (a *CubeApp) loadData(ctx context.Context, appConfig *config.AppConfig) {
	enabled := appConfig.Feed.Enabled && feed.IsValidConfig(a.config)
	symbol := appConfig.Symbol

	a.feedMutex.Lock()
	prevSymbol := a.feedSymbol
	wasEnabled := a.feedEnabled
	a.feedSymbol = symbol
	a.feedEnabled = enabled
	a.feedMutex.Unlock()

	if enabled {
		if wasEnabled && prevSymbol != symbol && prevSymbol != "" {
			a.subscribeRequestChan <- feed.SubscribeRequest{Symbol: prevSymbol, Type: feed.BarsUnsubscribe}
		}
		a.historyRequestChan <- feed.HistoryRequest{Symbol: symbol, Limit: historyBarLimit}
		if !wasEnabled || prevSymbol != symbol {
			a.subscribeRequestChan <- feed.SubscribeRequest{Symbol: symbol, Type: feed.BarsSubscribe}
		}
		return
	}
	if wasEnabled && prevSymbol != "" {
		a.subscribeRequestChan <- feed.SubscribeRequest{Symbol: prevSymbol, Type: feed.BarsUnsubscribe}
	}
	if appConfig.DataFile == "" {
		a.seriesData.Replace(nil)
		return
	}
	path := appConfig.DataFile
	opt := barfile.Options{SkipNonTradingDays: appConfig.SkipNonTradingDays}
	go func() {
		key, err := cache.FileKey(path)
		if err != nil {
			log.Printf("error accessing bar file: %v", err)
			a.seriesData.Replace(nil)
			a.Invalidate()
			return
		}
		series, err := a.seriesCache.GetSeries(ctx, key, func(ctx context.Context) (ohlcv.Series, error) {
			return barfile.Load(path, opt)
		})
		if err != nil {
			log.Printf("error loading bar file: %v", err)
			series = nil
		}
		a.seriesData.Replace(series)
		a.Invalidate()
	}()
}

func (a *CubeApp) saveConfiguration() error {
	appConfig, err := a.config.Lock()
	if err != nil {
		return err
	}
	a.indicatorsView.GetIndicatorConfig(appConfig)
	appConfig.Window.Size.X = int(a.size.X)
	appConfig.Window.Size.Y = int(a.size.Y)
	forceWriting := a.configView.UpdateConfigFromUi(appConfig)
	return a.config.Unlock(appConfig, forceWriting)
}

func (a *CubeApp) saveAndReloadConfiguration(ctx context.Context) {
	err := a.saveConfiguration()
	if err != nil {
		log.Printf("error updating configuration: %v", err)
	}
	err = a.reloadConfiguration(ctx)
	if err != nil {
		log.Printf("error reloading configuration: %v", err)
	}
}

func (a *CubeApp) handleHistoryResponseChan() {
	defer a.terminateWg.Done()
	for responseData := range a.historyResponseChan {
		if responseData.Error != nil {
			log.Printf("error requesting bar history: %v", responseData.Error)
			continue
		}
		a.feedMutex.Lock()
		symbol := a.feedSymbol
		a.feedMutex.Unlock()
		if responseData.Symbol != symbol {
			// Stale response for a previously configured symbol.
			continue
		}
		a.seriesData.Replace(responseData.Bars)
		a.Invalidate()
	}
}

func (a *CubeApp) handleSubscribeResponseChan() {
	defer a.terminateWg.Done()
	for responseData := range a.subscribeResponseChan {
		if responseData.Error != nil {
			log.Printf("error subscribing realtime bars: %v", responseData.Error)
			continue
		}
		if responseData.Type == feed.BarsSubscribe {
			if responseData.BarData == nil {
				log.Printf("error: invalid realtime bar channel")
				continue
			}
			go a.handleRealtimeBars(responseData.BarData)
		}
	}
}

// handleRealtimeBars terminates when the feed closes the bar channel,
// which happens on unsubscribe and on shutdown.
func (a *CubeApp) handleRealtimeBars(barChan chan feed.RealtimeBar) {
	for bar := range barChan {
		a.feedMutex.Lock()
		symbol := a.feedSymbol
		a.feedMutex.Unlock()
		if bar.Symbol != symbol {
			continue
		}
		a.seriesData.AppendOrReplaceLast(bar.Bar)
		a.Invalidate()
	}
}

func (a *CubeApp) handlePeriodicUpdate() {
	defer a.terminateWg.Done()
	terminated := false
	for !terminated {
		select {
		case <-a.terminateTimerChan:
			terminated = true
		case <-time.After(feedRefreshInterval):
			a.feedMutex.Lock()
			enabled := a.feedEnabled
			symbol := a.feedSymbol
			a.feedMutex.Unlock()
			if enabled {
				a.historyRequestChan <- feed.HistoryRequest{Symbol: symbol, Limit: historyBarLimit}
			}
		}
	}
}

func (a *CubeApp) Run(ctx context.Context) {
	a.createWindow()
	err := a.handleEvents(ctx)
	if err != nil {
		log.Printf("terminating with error: %v", err)
	}
	a.terminate()
}

func (a *CubeApp) Invalidate() {
	if a.win != nil {
		a.win.Invalidate()
	}
}

func (a *CubeApp) ShowSettings() {
	a.uiState = StateSettings
}

func (a *CubeApp) ShowIndicators() {
	a.uiState = StateIndicators
}

func (a *CubeApp) createWindow() {
	size := a.size
	if size.X == 0 || size.Y == 0 {
		size.X = 1280
		size.Y = 800
	}
	a.win = app.NewWindow(
		app.Title(a.config.GetAppName()),
		app.Size(size.X, size.Y),
	)
	a.win.Perform(system.ActionMaximize)
}

func (a *CubeApp) handleEvents(ctx context.Context) error {
	var ops op.Ops

	for {
		e := a.win.NextEvent()
		giohyperlink.ListenEvents(e)
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			a.size.X = gtx.Metric.PxToDp(e.Size.X)
			a.size.Y = gtx.Metric.PxToDp(e.Size.Y)
			paint.Fill(gtx.Ops, a.matTheme.Bg)
			switch a.uiState {
			case StatePlot:
				a.layoutChart(gtx)
			case StateSettings:
				a.configView.Layout(a.matTheme, gtx)
				if a.configView.ConfirmClicked() {
					a.saveAndReloadConfiguration(ctx)
					a.uiState = StatePlot
				}
			case StateIndicators:
				a.indicatorsView.Layout(a.matTheme, gtx)
				if a.indicatorsView.ConfirmClicked() {
					a.saveAndReloadConfiguration(ctx)
					a.uiState = StatePlot
				}
			}
			e.Frame(gtx.Ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
}

func (a *CubeApp) layoutChart(gtx layout.Context) {
	a.widgetStack = a.widgetStack[:0]
	a.widgetStack = append(
		a.widgetStack,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return a.chartView.Layout(gtx, a.matTheme, a.seriesData)
		}),
	)
	series, _ := a.seriesData.Snapshot()
	if len(series) == 0 {
		a.widgetStack = append(
			a.widgetStack,
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return a.messageField.LayoutNote("No data available. Configure a data file or enable the feed.", gtx, a.matTheme)
			}),
		)
	}
	a.feedMutex.Lock()
	enabled := a.feedEnabled
	a.feedMutex.Unlock()
	if enabled && a.src.RemainingApiLimit() < 1 {
		a.widgetStack = append(
			a.widgetStack,
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return a.messageField.LayoutError("API limit exceeded. No more requests possible for now.", gtx, a.matTheme)
			}),
		)
	}
	layout.Stack{
		Alignment: layout.Center,
	}.Layout(
		gtx,
		a.widgetStack...,
	)
}

func (a *CubeApp) terminate() {
	err := a.saveConfiguration()
	if err != nil {
		log.Printf("error saving configuration: %v", err)
	}
	a.terminateTimerChan <- struct{}{}
	close(a.terminateTimerChan)
	close(a.historyRequestChan)
	close(a.subscribeRequestChan)
	a.terminateWg.Wait()
}

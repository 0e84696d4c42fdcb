// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeviz

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"reflect"
	"time"

	"candlecube/config"
	"candlecube/cubeplot"
	"candlecube/indapi"
	"candlecube/indapi/indicators"
	"candlecube/ohlcv"
	"candlecube/widgets"

	"gioui.org/layout"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

// UiUpdater is implemented by the application shell. The chart view uses
// it to switch to the settings overlays and to request redraws.
type UiUpdater interface {
	Invalidate()
	ShowSettings()
	ShowIndicators()
}

type ChartView struct {
	plotTheme        *widgets.PlotTheme
	symbol           string
	sourceName       string
	indicatorsButton *widget.Clickable
	contextMenuArea  *component.ContextArea
	contextMenu      *component.MenuState
	settingsMenuItem *widget.Clickable
	plot             *cubeplot.Plot
	indicators       []indapi.IndicatorData
	overlays         []indapi.Overlay
	lastChange       time.Time
	uiUpdater        UiUpdater
}

func NewChartView(uiUpdater UiUpdater) *ChartView {
	return &ChartView{
		indicatorsButton: new(widget.Clickable),
		contextMenuArea:  new(component.ContextArea),
		contextMenu:      new(component.MenuState),
		settingsMenuItem: new(widget.Clickable),
		uiUpdater:        uiUpdater,
	}
}

// ApplyConfig rebuilds the plot and indicator instances from the
// configuration. Indicators are only recreated when their settings
// actually changed, so computed traces survive unrelated reloads.
func (v *ChartView) ApplyConfig(appConfig *config.AppConfig, plotTheme *widgets.PlotTheme) {
	v.plotTheme = plotTheme
	v.symbol = appConfig.Symbol
	if appConfig.Feed.Enabled {
		v.sourceName = "realtime feed"
	} else if appConfig.DataFile != "" {
		v.sourceName = filepath.Base(appConfig.DataFile)
	} else {
		v.sourceName = "no data source"
	}

	changed := len(appConfig.Indicators) != len(v.indicators)
	if !changed {
		for i := range v.indicators {
			if appConfig.Indicators[i].IndicatorId != v.indicators[i].GetId() {
				changed = true
				break
			}
			if !reflect.DeepEqual(appConfig.Indicators[i].Properties, v.indicators[i].GetProperties()) {
				changed = true
				break
			}
			// A zero configured color selects the indicator default.
			if appConfig.Indicators[i].Color != (color.NRGBA{}) && appConfig.Indicators[i].Color != v.indicators[i].GetColor() {
				changed = true
				break
			}
		}
	}
	if changed {
		v.indicators = make([]indapi.IndicatorData, 0, len(appConfig.Indicators))
		for _, c := range appConfig.Indicators {
			v.indicators = append(v.indicators, indicators.Create(c.IndicatorId, c.Properties, c.Color))
		}
	}

	v.plot = cubeplot.NewPlot(plotTheme, time.Duration(appConfig.SettleDelayMs)*time.Millisecond)
	// Force a data refresh on the next frame.
	v.lastChange = time.Time{}
}

func (v *ChartView) handleInput(gtx layout.Context) {
	if v.indicatorsButton.Clicked(gtx) {
		v.uiUpdater.ShowIndicators()
	}
	if v.settingsMenuItem.Clicked(gtx) {
		v.uiUpdater.ShowSettings()
	}
}

func (v *ChartView) refreshPlotData(data *SeriesData, series ohlcv.Series) {
	for _, ind := range v.indicators {
		ind.Update(data.Data())
	}
	v.overlays = v.overlays[:0]
	for _, ind := range v.indicators {
		v.overlays = append(v.overlays, ind.Overlays()...)
	}
	view := ohlcv.DeriveViewRange(series)
	for _, o := range v.overlays {
		switch o := o.(type) {
		case indapi.LineOverlay:
			view.ExtendPrice(o.Values)
		case indapi.BandOverlay:
			view.ExtendPrice(o.Upper)
			view.ExtendPrice(o.Middle)
			view.ExtendPrice(o.Lower)
		}
	}
	v.plot.SetData(series, view, v.overlays)
}

func (v *ChartView) Layout(gtx layout.Context, th *material.Theme, data *SeriesData) layout.Dimensions {
	v.handleInput(gtx)
	v.contextMenu.Options = []func(gtx layout.Context) layout.Dimensions{
		component.MenuItem(th, v.settingsMenuItem, "Settings").Layout,
	}

	series, lastChange := data.Snapshot()
	if !v.lastChange.Equal(lastChange) {
		v.lastChange = lastChange
		v.refreshPlotData(data, series)
	}

	layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{
				Axis: layout.Vertical,
			}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
						layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
							title := material.H6(th, fmt.Sprintf("%s (%s)", v.symbol, v.sourceName))
							return layout.Inset{Top: 10, Left: 10}.Layout(gtx, title.Layout)
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							button := material.Button(th, v.indicatorsButton, "Indicators...")
							return layout.Inset{Top: 10, Right: 10, Bottom: 0, Left: 10}.Layout(gtx, button.Layout)
						}),
					)
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					v.plot.InitializeFrame(gtx)
					return v.plot.Layout(gtx, th)
				}),
			)
		}),
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return v.contextMenuArea.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min = image.Point{}
				return widgets.NewMenu(th, v.contextMenu).Layout(gtx)
			})
		}),
	)
	return layout.Dimensions{Size: gtx.Constraints.Max}
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package indicators

import (
	"image/color"
	"sort"

	"candlecube/indapi"
	"candlecube/indapi/indicators/bollinger"
	"candlecube/indapi/indicators/sma"
	"candlecube/indapi/indicators/vwap"

	"golang.org/x/exp/maps"
)

const DefaultId = "sma"

var IndicatorRegistry map[indapi.IndicatorId]func() indapi.IndicatorData = make(map[indapi.IndicatorId]func() indapi.IndicatorData)

var defaultColors = map[indapi.IndicatorId]color.NRGBA{
	bollinger.Id: {R: 255, G: 152, B: 0, A: 255},
	sma.Id:       {R: 255, G: 0, B: 0, A: 255},
	vwap.Id:      {R: 255, G: 193, B: 7, A: 255},
}

func init() {
	IndicatorRegistry[bollinger.Id] = bollinger.NewIndicator
	IndicatorRegistry[sma.Id] = sma.NewIndicator
	IndicatorRegistry[vwap.Id] = vwap.NewIndicator
}

// Create instantiates an indicator with the given settings.
// A zero color selects the default color of the indicator.
func Create(id indapi.IndicatorId, properties map[string]string, c color.NRGBA) indapi.IndicatorData {
	d, ok := IndicatorRegistry[id]
	if !ok {
		panic("invalid indicator name")
	}
	ind := d()
	ind.SetProperties(properties)
	if c == (color.NRGBA{}) {
		c = GetDefaultColor(id)
	}
	ind.SetColor(c)
	return ind
}

func GetDefaultColor(id indapi.IndicatorId) color.NRGBA {
	c, ok := defaultColors[id]
	if !ok {
		panic("invalid indicator name")
	}
	return c
}

func GetDefaultProperties(id indapi.IndicatorId) map[string]string {
	d, ok := IndicatorRegistry[id]
	if !ok {
		panic("invalid indicator name")
	}
	return d().GetProperties()
}

func GetList() indapi.IndicatorList {
	l := indapi.IndicatorList(maps.Keys(IndicatorRegistry))
	sort.Sort(l)
	return l
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"image/color"

	"candlecube/indapi"
)

type IndicatorConfig struct {
	IndicatorId indapi.IndicatorId
	Properties  map[string]string `yaml:",omitempty"`
	// A zero color selects the default color of the indicator.
	Color color.NRGBA `yaml:",omitempty"`
}

func (c *IndicatorConfig) sanitize() {
	if c.Properties == nil {
		c.Properties = make(map[string]string)
	}
}

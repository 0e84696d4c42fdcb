// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package main

import (
	"context"

	"candlecube/config"
	"candlecube/initapp"

	"gioui.org/app"
)

func main() {
	c := config.NewGlobalConfig()
	a := initapp.NewInitApp(c)
	go a.Run(context.Background())
	app.Main()
}

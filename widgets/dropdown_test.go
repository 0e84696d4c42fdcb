// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/io/router"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/stretchr/testify/assert"
)

func newTestContext(r *router.Router) layout.Context {
	var gtx layout.Context
	gtx.Constraints.Max = image.Pt(600, 400)
	gtx.Metric = unit.Metric{PxPerDp: 1, PxPerSp: 1}
	gtx.Ops = new(op.Ops)
	gtx.Queue = r
	return gtx
}

func click(r *router.Router, pos f32.Point) {
	r.Queue(
		pointer.Event{Kind: pointer.Press, Source: pointer.Mouse, Buttons: pointer.ButtonPrimary, Position: pos},
		pointer.Event{Kind: pointer.Release, Source: pointer.Mouse, Position: pos},
	)
}

func TestDropDownTogglesOnButtonClick(t *testing.T) {
	th := NewDarkMaterialTheme()
	d := NewDropDown([]string{"sma", "vwap"}, 0)
	var r router.Router

	gtx := newTestContext(&r)
	dims := d.Layout(th, gtx)
	r.Frame(gtx.Ops)
	assert.False(t, d.toggled)
	assert.Equal(t, -1, d.ClickedIndex())

	click(&r, f32.Pt(float32(dims.Size.X)/2, float32(dims.Size.Y)/2))

	gtx = newTestContext(&r)
	d.Layout(th, gtx)
	r.Frame(gtx.Ops)
	assert.True(t, d.toggled)
	// Opening the menu is not a selection.
	assert.Equal(t, -1, d.ClickedIndex())
}

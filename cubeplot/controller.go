// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"time"

	"gioui.org/f32"
)

// Controller owns the hover state of a plot. It is a two state machine,
// idle and hovering(index), driven by named events. All methods are
// called from the UI goroutine; the controller is the single writer of
// its state.
type Controller struct {
	settleDelay    time.Duration
	settleDeadline time.Time
	candles        []ScreenCandle
	hoverIndex     int
	hovering       bool
	pointer        f32.Point
	now            func() time.Time
}

func NewController(settleDelay time.Duration) *Controller {
	return &Controller{
		settleDelay: settleDelay,
		now:         time.Now,
	}
}

// PointerMoved re-runs the hit test against the current frame's candle
// list. It reports whether the hover state changed.
func (c *Controller) PointerMoved(pos f32.Point) bool {
	c.pointer = pos
	index, ok := HitTest(c.candles, float64(pos.X), float64(pos.Y))
	changed := ok != c.hovering || (ok && index != c.hoverIndex)
	c.hovering = ok
	c.hoverIndex = index
	return changed
}

// PointerLeft unconditionally returns to idle.
func (c *Controller) PointerLeft() bool {
	changed := c.hovering
	c.hovering = false
	return changed
}

// DataReplaced discards the candle list and the hover state; screen
// geometry derived from the old series is meaningless now. The settle
// delay starts over.
func (c *Controller) DataReplaced() {
	c.invalidateGeometry()
}

// SurfaceResized behaves like DataReplaced: hover state does not survive
// a geometry change, and the host surface needs the settle delay before
// its dimensions can be trusted.
func (c *Controller) SurfaceResized() {
	c.invalidateGeometry()
}

func (c *Controller) invalidateGeometry() {
	c.candles = nil
	c.hovering = false
	c.settleDeadline = c.now().Add(c.settleDelay)
}

// FrameRendered threads the candle list of the frame that was just drawn
// into the controller, replacing the previous frame's list.
func (c *Controller) FrameRendered(candles []ScreenCandle) {
	c.candles = candles
}

// Settled reports whether the settle delay since the last geometry change
// has elapsed. Until then the host schedules a redraw for SettleDeadline
// instead of measuring, because the surface may still report stale
// dimensions.
func (c *Controller) Settled() bool {
	return !c.now().Before(c.settleDeadline)
}

func (c *Controller) SettleDeadline() time.Time {
	return c.settleDeadline
}

// Hover returns the hovered index, or false while idle.
func (c *Controller) Hover() (int, bool) {
	return c.hoverIndex, c.hovering
}

func (c *Controller) Pointer() f32.Point {
	return c.pointer
}

// Tooltip box size. Placement assumes this fixed size; the content is
// clipped into it.
const (
	tooltipWidthPx  = 220
	tooltipHeightPx = 180
)

// tooltipPos anchors the tooltip near the pointer and clamps it so the
// box never crosses the surface edges. Overflow on the right flips the
// anchor to the left side of the pointer. Pure screen space arithmetic,
// independent of chart data.
func tooltipPos(cursor f32.Point, surface image.Point) f32.Point {
	x := cursor.X + 15
	y := cursor.Y - 10
	if x+tooltipWidthPx > float32(surface.X) {
		x = cursor.X - tooltipWidthPx - 15
	}
	if x < 0 {
		x = 15
	}
	if y+tooltipHeightPx > float32(surface.Y) {
		y = float32(surface.Y) - tooltipHeightPx - 10
	}
	if y < 0 {
		y = 10
	}
	return f32.Pt(x, y)
}

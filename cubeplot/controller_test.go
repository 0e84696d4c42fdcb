// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeplot

import (
	"image"
	"testing"
	"time"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"
)

func newTestController(now time.Time) *Controller {
	c := NewController(50 * time.Millisecond)
	c.now = func() time.Time { return now }
	return c
}

func TestHoverTransitions(t *testing.T) {
	c := newTestController(time.Now())
	c.FrameRendered(newTestCandles())

	changed := c.PointerMoved(f32.Pt(105, 100))
	assert.True(t, changed)
	index, ok := c.Hover()
	assert.True(t, ok)
	assert.Equal(t, 0, index)

	// Moving within the same candle is not a state change.
	changed = c.PointerMoved(f32.Pt(106, 101))
	assert.False(t, changed)

	changed = c.PointerMoved(f32.Pt(145, 100))
	assert.True(t, changed)
	index, ok = c.Hover()
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	changed = c.PointerMoved(f32.Pt(400, 400))
	assert.True(t, changed)
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestPointerLeft(t *testing.T) {
	c := newTestController(time.Now())
	c.FrameRendered(newTestCandles())
	c.PointerMoved(f32.Pt(105, 100))

	changed := c.PointerLeft()

	assert.True(t, changed)
	_, ok := c.Hover()
	assert.False(t, ok)
	assert.False(t, c.PointerLeft())
}

func TestDataReplacedDiscardsHover(t *testing.T) {
	c := newTestController(time.Now())
	c.FrameRendered(newTestCandles())
	c.PointerMoved(f32.Pt(105, 100))

	c.DataReplaced()

	_, ok := c.Hover()
	assert.False(t, ok)
	// Stale geometry is gone, the same position no longer hits.
	c.PointerMoved(f32.Pt(105, 100))
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestSurfaceResizedDiscardsHover(t *testing.T) {
	c := newTestController(time.Now())
	c.FrameRendered(newTestCandles())
	c.PointerMoved(f32.Pt(105, 100))

	c.SurfaceResized()

	_, ok := c.Hover()
	assert.False(t, ok)
}

func TestSettleDelay(t *testing.T) {
	t0 := time.Now()
	c := newTestController(t0)
	assert.True(t, c.Settled())

	c.DataReplaced()
	assert.False(t, c.Settled())
	assert.Equal(t, t0.Add(50*time.Millisecond), c.SettleDeadline())

	c.now = func() time.Time { return t0.Add(49 * time.Millisecond) }
	assert.False(t, c.Settled())

	c.now = func() time.Time { return t0.Add(50 * time.Millisecond) }
	assert.True(t, c.Settled())
}

func TestTooltipPosDefaultAnchor(t *testing.T) {
	pos := tooltipPos(f32.Pt(100, 100), image.Pt(800, 600))

	assert.Equal(t, f32.Pt(115, 90), pos)
}

func TestTooltipPosFlipsAtRightEdge(t *testing.T) {
	pos := tooltipPos(f32.Pt(700, 100), image.Pt(800, 600))

	assert.Equal(t, f32.Pt(700-tooltipWidthPx-15, 90), pos)
}

func TestTooltipPosClampsBottom(t *testing.T) {
	pos := tooltipPos(f32.Pt(100, 590), image.Pt(800, 600))

	assert.Equal(t, float32(600-tooltipHeightPx-10), pos.Y)
}

func TestTooltipPosClampsTop(t *testing.T) {
	pos := tooltipPos(f32.Pt(100, 5), image.Pt(800, 600))

	assert.Equal(t, float32(10), pos.Y)
}

func TestTooltipPosClampsLeft(t *testing.T) {
	// A flip at the right edge of a narrow surface would push the box
	// past the left edge.
	pos := tooltipPos(f32.Pt(150, 100), image.Pt(200, 600))

	assert.Equal(t, float32(15), pos.X)
}

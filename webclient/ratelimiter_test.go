// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package webclient

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnlimitedByDefault(t *testing.T) {
	l := NewRateLimiter()
	assert.Equal(t, math.MaxInt, l.Remaining())
	err := l.Wait(context.Background())
	assert.Nil(t, err)
}

func TestManualLimiterCountsRequests(t *testing.T) {
	l := NewManualRateLimiter(time.Minute, 3)
	assert.Equal(t, 3, l.Remaining())

	err := l.Wait(context.Background())
	assert.Nil(t, err)
	l.HandleManualTimer()
	assert.Equal(t, 2, l.Remaining())

	err = l.Wait(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, l.Remaining())
}

func TestManualLimiterBlocksWhenExhausted(t *testing.T) {
	l := NewManualRateLimiter(time.Hour, 1)
	err := l.Wait(context.Background())
	assert.Nil(t, err)
	l.HandleManualTimer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	err = l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHandleResponseHeaders(t *testing.T) {
	l := NewRateLimiter()
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
	}
	resp.Header.Set("x-ratelimit-limit", "10")
	retry, err := l.HandleResponseHeadersWithWait(context.Background(), resp)
	assert.Nil(t, err)
	assert.False(t, retry)
	// the request which carried the headers already counts
	assert.Equal(t, 9, l.Remaining())
}

func TestHandleResponseTooManyRequests(t *testing.T) {
	l := NewRateLimiter()
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{},
	}
	retry, err := l.HandleResponseHeadersWithWait(context.Background(), resp)
	assert.Nil(t, err)
	assert.True(t, retry)
}

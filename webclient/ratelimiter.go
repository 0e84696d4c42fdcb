// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package webclient

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Client side bucket rate limiter, optionally initialized by
// "x-ratelimit" style response headers.
// The limit and the current count share one uint64 (limit in the upper
// half, count in the lower half) so that both can be read and updated
// with a single atomic operation.
type RateLimiter struct {
	limitAndCount uint64 // Use atomic accessor
	resetInterval int64  // Use atomic accessor
	windowStart   int64  // Use atomic accessor
}

const MinWaitTime = time.Millisecond * 250
const MinReconnectWaitTime = time.Second * 10

// NewRateLimiter creates a limiter which configures itself from response
// headers. Call HandleResponseHeadersWithWait after each request.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// NewManualRateLimiter creates a limiter with a fixed limit per interval.
// Call HandleManualTimer after the first request to start the window.
func NewManualRateLimiter(interval time.Duration, limit uint32) *RateLimiter {
	return &RateLimiter{
		limitAndCount: uint64(limit) << 32,
		resetInterval: int64(interval),
	}
}

// Wait blocks until the limiter permits another request or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		limitAndCount := atomic.LoadUint64(&l.limitAndCount)
		limit := limitAndCount >> 32
		if limit == 0 {
			return nil // no limitation
		}
		count := limitAndCount & 0xffffffff

		interval := atomic.LoadInt64(&l.resetInterval)
		windowStart := atomic.LoadInt64(&l.windowStart)
		if interval > 0 && windowStart > 0 {
			windowEnd := time.UnixMilli(windowStart).Add(time.Duration(interval))
			// reset the count once the window has passed
			if time.Since(windowEnd) > 0 {
				if atomic.CompareAndSwapInt64(&l.windowStart, windowStart, windowEnd.UnixMilli()) {
					// Subtract instead of storing zero, other goroutines may
					// have incremented the count in the meantime.
					atomic.AddUint64(&l.limitAndCount, -count)
					limitAndCount -= count
					count = 0
				} else {
					continue
				}
			}
		}
		if count < limit {
			if atomic.CompareAndSwapUint64(&l.limitAndCount, limitAndCount, limitAndCount+1) {
				return nil
			} else {
				continue
			}
		}
		// too many requests, poll every MinWaitTime
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(MinWaitTime):
		}
	}
}

// Remaining returns the remaining request count, or max int if not limited.
func (l *RateLimiter) Remaining() int {
	limitAndCount := atomic.LoadUint64(&l.limitAndCount)
	limit := limitAndCount >> 32
	if limit == 0 {
		return math.MaxInt
	}
	count := limitAndCount & 0xffffffff
	remaining := int(limit) - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// HandleResponseHeadersWithWait updates the limiter from rate limit
// response headers. A first non-parallel call initializes the count
// exactly; later calls may run in parallel as long as the retry return
// value is handled by repeating the request.
func (l *RateLimiter) HandleResponseHeadersWithWait(ctx context.Context, resp *http.Response) (retry bool, err error) {
	if resp.StatusCode == http.StatusTooManyRequests {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(MinWaitTime): // enforce some delay if the server complains
			return true, nil
		}
	}
	if atomic.LoadUint64(&l.limitAndCount) == 0 {
		limit, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-limit"), 10, 32)
		if err != nil {
			limit, err = strconv.ParseInt(resp.Header.Get("ratelimit-limit"), 10, 32)
		}
		if err == nil && limit > 0 {
			interval := time.Minute // default reset interval
			// use the interval from the headers if provided.
			resetUnixTime, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset"), 10, 64)
			if err == nil && resetUnixTime > 0 {
				resetTime := time.Unix(resetUnixTime, 0)
				timeDiff := time.Until(resetTime).Round(time.Second * 10)
				if timeDiff > 0 {
					interval = timeDiff
				}
			} else {
				resetRemainingSeconds, err := strconv.ParseInt(resp.Header.Get("ratelimit-reset"), 10, 32)
				if err == nil && resetRemainingSeconds > 0 {
					interval = time.Second * time.Duration(resetRemainingSeconds)
				}
			}
			// Store limit along with the count of the request just done.
			if atomic.CompareAndSwapUint64(&l.limitAndCount, 0, (uint64(limit)<<32)|1) {
				atomic.CompareAndSwapInt64(&l.windowStart, 0, time.Now().UnixMilli())
				atomic.StoreInt64(&l.resetInterval, int64(interval))
			} else {
				atomic.AddUint64(&l.limitAndCount, 1) // May break the limit, use a non-parallel first call.
			}
		}
	} else {
		l.HandleManualTimer()
	}
	return false, nil
}

func (l *RateLimiter) HandleManualTimer() {
	if atomic.LoadInt64(&l.resetInterval) > 0 && atomic.LoadInt64(&l.windowStart) == 0 {
		// Initialize the window start after the first request.
		atomic.CompareAndSwapInt64(&l.windowStart, 0, time.Now().UnixMilli())
	}
}

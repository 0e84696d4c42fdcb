// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeviz

import (
	"sync"
	"time"

	"candlecube/indapi"
	"candlecube/ohlcv"
)

// SeriesData holds the bar series shared between the UI goroutine and
// the data loading/feed goroutines. Writers swap the slice header instead
// of mutating bars in place, so a snapshot taken by the render loop stays
// valid while new data arrives.
type SeriesData struct {
	shared indapi.SeriesData
}

func NewSeriesData() *SeriesData {
	return &SeriesData{
		shared: indapi.SeriesData{
			Mutex: new(sync.RWMutex),
		},
	}
}

func (s *SeriesData) Replace(series ohlcv.Series) {
	s.shared.Mutex.Lock()
	defer s.shared.Mutex.Unlock()
	s.shared.Series = series
	s.shared.LastChange = time.Now()
}

// AppendOrReplaceLast merges a streaming bar into the series.
// A bar not newer than the last one updates the current period,
// a newer bar starts a new period.
func (s *SeriesData) AppendOrReplaceLast(bar ohlcv.Bar) {
	s.shared.Mutex.Lock()
	defer s.shared.Mutex.Unlock()
	n := len(s.shared.Series)
	if n > 0 && !bar.Date.After(s.shared.Series[n-1].Date) {
		series := make(ohlcv.Series, n)
		copy(series, s.shared.Series)
		series[n-1] = bar
		s.shared.Series = series
	} else {
		series := make(ohlcv.Series, n, n+1)
		copy(series, s.shared.Series)
		s.shared.Series = append(series, bar)
	}
	s.shared.LastChange = time.Now()
}

// Data exposes the shared series for indicator updates, which take the
// mutex themselves.
func (s *SeriesData) Data() *indapi.SeriesData {
	return &s.shared
}

func (s *SeriesData) Snapshot() (ohlcv.Series, time.Time) {
	s.shared.Mutex.RLock()
	defer s.shared.Mutex.RUnlock()
	return s.shared.Series, s.shared.LastChange
}

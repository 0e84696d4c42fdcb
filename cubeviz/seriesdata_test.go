// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cubeviz

import (
	"testing"
	"time"

	"candlecube/ohlcv"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSeriesDataReplaceMovesLastChange(t *testing.T) {
	s := NewSeriesData()
	_, before := s.Snapshot()
	s.Replace(ohlcv.Series{{Date: day(2), Open: 100, High: 112, Low: 98, Close: 110, Volume: 1000}})
	series, after := s.Snapshot()
	assert.Len(t, series, 1)
	assert.True(t, after.After(before))
}

func TestSeriesDataAppendsNewerBar(t *testing.T) {
	s := NewSeriesData()
	s.Replace(ohlcv.Series{{Date: day(2), Close: 110}})
	s.AppendOrReplaceLast(ohlcv.Bar{Date: day(3), Close: 112})
	series, _ := s.Snapshot()
	assert.Len(t, series, 2)
	assert.Equal(t, day(3), series[1].Date)
}

func TestSeriesDataReplacesCurrentPeriod(t *testing.T) {
	s := NewSeriesData()
	s.Replace(ohlcv.Series{{Date: day(2), Close: 110}, {Date: day(3), Close: 112}})
	s.AppendOrReplaceLast(ohlcv.Bar{Date: day(3), Close: 115})
	series, _ := s.Snapshot()
	assert.Len(t, series, 2)
	assert.Equal(t, 115.0, series[1].Close)
}

func TestSeriesDataMergeDoesNotMutateSnapshot(t *testing.T) {
	s := NewSeriesData()
	s.Replace(ohlcv.Series{{Date: day(2), Close: 110}})
	snapshot, _ := s.Snapshot()
	s.AppendOrReplaceLast(ohlcv.Bar{Date: day(2), Close: 99})
	assert.Equal(t, 110.0, snapshot[0].Close)
}

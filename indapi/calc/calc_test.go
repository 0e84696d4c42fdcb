// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calc

import (
	"testing"

	"github.com/ericlagergren/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	out := Mean(new(decimal.Big), []float64{5, 10, 15})
	value, ok := out.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(10), value)
}

func TestMeanForStdDev(t *testing.T) {
	out := Mean(new(decimal.Big), []float64{300, 430, 170, 470, 600})
	value, ok := out.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(394), value)
}

func TestMeanEmpty(t *testing.T) {
	out := Mean(new(decimal.Big), nil)
	assert.Equal(t, 0, out.Sign())
}

func TestStdDev(t *testing.T) {
	out := StdDev(new(decimal.Big), []float64{46, 69, 32, 60, 52, 41})
	assert.Equal(t, 0, out.Quantize(2).CmpTotal(decimal.New(1331, 2)))
}

func TestStdDevPrecise(t *testing.T) {
	out := StdDev(new(decimal.Big), []float64{
		2.47, 2.55, 2.51, 2.39, 2.41, 2.47, 2.44, 2.50,
		2.46, 2.55, 2.51, 2.32, 2.50, 2.54, 2.51,
	})
	assert.Equal(t, 0, out.Quantize(3).CmpTotal(decimal.New(64, 3)))
}

func TestStdDevSingleValue(t *testing.T) {
	// a single sample has no deviation, callers treat this as absent
	out := StdDev(new(decimal.Big), []float64{42})
	assert.Equal(t, 0, out.Sign())
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calc

import (
	"candlecube/ohlcv"

	"github.com/ericlagergren/decimal"
)

// Mean stores the arithmetic mean of val in out and returns out.
// The mean of an empty input is 0.
func Mean(out *decimal.Big, val []float64) *decimal.Big {
	out.SetUint64(0)
	if len(val) == 0 {
		return out
	}
	for i := range val {
		out.Add(out, ohlcv.ConvertFloatToDecimal(val[i], 64))
	}
	out.Quo(out, new(decimal.Big).SetUint64(uint64(len(val))))
	return out
}

// StdDev stores the sample standard deviation of val in out and returns
// out. Fewer than two values have no sample deviation; out stays 0 and
// callers treat the result as absent.
func StdDev(out *decimal.Big, val []float64) *decimal.Big {
	out.SetUint64(0)
	if len(val) < 2 {
		return out
	}
	m := Mean(new(decimal.Big), val)
	for i := 0; i < len(val); i++ {
		v := ohlcv.ConvertFloatToDecimal(val[i], 64)
		v.Sub(v, m)
		v.Mul(v, v)
		out.Add(out, v)
	}
	out.Quo(out, new(decimal.Big).SetUint64(uint64(len(val)-1)))
	return out.Context.Sqrt(out, out)
}

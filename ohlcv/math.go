// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package ohlcv

import (
	"strconv"

	"github.com/ericlagergren/decimal"
)

const NearZero = 0.000001

// The builtin decimal.Big conversion from float64 is an "exact" conversion,
// and useless for our cases. Therefore, convert using string conversion,
// even though this requires memory allocation.
// See also https://github.com/ericlagergren/decimal/issues/142

// Convert float to string and then to decimal.
func ConvertFloatToDecimal(v float64, bitSize int) *decimal.Big {
	d, _ := new(decimal.Big).SetString(strconv.FormatFloat(v, 'f', -1, bitSize))
	return d
}

func IndexOf[T comparable](s []T, e T) int {
	for i, v := range s {
		if v == e {
			return i
		}
	}
	return -1
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package ohlcv

// ViewRange is the data space extent of a render: price bounds and the
// maximum volume used for extrusion scaling. It is derived once per data
// change, never per frame.
type ViewRange struct {
	MinPrice   float64
	MaxPrice   float64
	PriceRange float64
	MaxVolume  int64
}

// DeriveViewRange computes the price and volume bounds of a full series.
// Non-finite values are ignored. An empty series yields the zero value;
// callers treat an empty series as a fatal input error before rendering.
func DeriveViewRange(s Series) ViewRange {
	var r ViewRange
	initialized := false
	for i := range s {
		if IsFinite(s[i].Low) && IsFinite(s[i].High) {
			if !initialized {
				r.MinPrice = s[i].Low
				r.MaxPrice = s[i].High
				initialized = true
			} else {
				if s[i].Low < r.MinPrice {
					r.MinPrice = s[i].Low
				}
				if s[i].High > r.MaxPrice {
					r.MaxPrice = s[i].High
				}
			}
		}
		if s[i].Volume > r.MaxVolume {
			r.MaxVolume = s[i].Volume
		}
	}
	r.PriceRange = r.MaxPrice - r.MinPrice
	return r
}

// ExtendPrice widens the price bounds by the finite values of an aligned
// indicator trace, so that overlays are never clipped by the plot area.
func (r *ViewRange) ExtendPrice(values []float64) {
	for _, v := range values {
		if !IsFinite(v) {
			continue
		}
		if v < r.MinPrice {
			r.MinPrice = v
		}
		if v > r.MaxPrice {
			r.MaxPrice = v
		}
	}
	r.PriceRange = r.MaxPrice - r.MinPrice
}

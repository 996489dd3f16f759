// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package chroma quantizes an average chroma (Pb or Pr) value in [-0.5, +0.5]
// to a 4-bit index and back.
//
// The table is non-uniform: it spends most of its precision near zero, where
// the chroma of natural images clusters.
package chroma

// NumIndexes is the number of distinct indexes. Every index fits in 4 bits.
const NumIndexes = 16

var values = [NumIndexes]float64{
	-0.35, -0.20, -0.15, -0.10, -0.077, -0.055, -0.033, -0.011,
	+0.011, +0.033, +0.055, +0.077, +0.10, +0.15, +0.20, +0.35,
}

// Index returns the index whose value is nearest to x. Ties go to the lower
// index.
func Index(x float64) uint64 {
	best, bestDist := 0, 2.0
	for i, v := range values {
		d := x - v
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint64(best)
}

// Value returns the chroma that index i stands for. Indexes at or above
// NumIndexes are clamped to the largest value.
func Value(i uint64) float64 {
	return values[min(i, NumIndexes-1)]
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"math"

	"github.com/nigeltao/comp40/internal/chroma"
)

const (
	// aQuantScale maps a in [0, 1] onto the whole unsigned a field.
	aQuantScale = (1 << aWidth) - 1

	// acDynamicRange is the assumed span of the b, c and d coefficients. AC
	// energy outside [-0.3, +0.3] is rare enough to clamp.
	acDynamicRange = 0.6
	acQuantRange   = (1 << bWidth) - 1
	acQuantScale   = (acQuantRange - 1) / acDynamicRange

	quantUpperBound = acQuantRange / 2
	quantLowerBound = -quantUpperBound
)

// Quantize applies the discrete cosine transform to p's luma samples and
// quantizes the coefficients and the average chroma.
func Quantize(p PixelValues) QuantizedValues {
	a, b, c, d := forwardDCT(p.Y)
	return QuantizedValues{
		// Each Y is in [0, 1], so a is too.
		A:        uint64(max(0, math.Round(a*aQuantScale))),
		B:        quantizeAC(b),
		C:        quantizeAC(c),
		D:        quantizeAC(d),
		PbChroma: chroma.Index(p.PbAvg),
		PrChroma: chroma.Index(p.PrAvg),
	}
}

// Dequantize is the approximate inverse of Quantize. The recovered luma
// samples are not clamped.
func Dequantize(q QuantizedValues) PixelValues {
	a := float64(q.A) / aQuantScale
	b := float64(q.B) / acQuantScale
	c := float64(q.C) / acQuantScale
	d := float64(q.D) / acQuantScale
	return PixelValues{
		Y:     inverseDCT(a, b, c, d),
		PbAvg: chroma.Value(q.PbChroma),
		PrAvg: chroma.Value(q.PrChroma),
	}
}

// quantizeAC rounds half away from zero and then clamps. It does not iterate:
// a value at a bound is left there.
func quantizeAC(coef float64) int64 {
	q := int64(math.Round(coef * acQuantScale))
	return min(quantUpperBound, max(quantLowerBound, q))
}

// forwardDCT and inverseDCT are a 2×2 Walsh-Hadamard style cosine transform
// pair. With y in block raster order (top left, top right, bottom left, bottom
// right), inverseDCT(forwardDCT(y)) == y.

func forwardDCT(y [4]float64) (a float64, b float64, c float64, d float64) {
	a = (y[3] + y[2] + y[1] + y[0]) / 4
	b = (y[3] + y[2] - y[1] - y[0]) / 4
	c = (y[3] - y[2] + y[1] - y[0]) / 4
	d = (y[3] - y[2] - y[1] + y[0]) / 4
	return a, b, c, d
}

func inverseDCT(a float64, b float64, c float64, d float64) [4]float64 {
	return [4]float64{
		a - b - c + d,
		a - b + c - d,
		a + b - c - d,
		a + b + c + d,
	}
}

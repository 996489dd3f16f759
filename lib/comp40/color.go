// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"github.com/nigeltao/comp40/lib/pnm"
)

// The RGB to Y/Pb/Pr constants follow ITU-R BT.601, the same as JFIF and the
// Go standard library's image/color package. The inverse matrix is the exact
// inverse of the forward one, to six decimal places.

// ToComponentVideo converts p, whose channels are in [0, denominator], to
// component video. Y is clamped to [0, 1] and Pb and Pr to [-0.5, +0.5].
func ToComponentVideo(p pnm.Pixel, denominator int) ComponentVideo {
	den := float64(denominator)
	r := float64(p.R) / den
	g := float64(p.G) / den
	b := float64(p.B) / den

	y := (0.299 * r) + (0.587 * g) + (0.114 * b)
	pb := (-0.168736 * r) - (0.331264 * g) + (0.5 * b)
	pr := (0.5 * r) - (0.418688 * g) - (0.081312 * b)

	return ComponentVideo{
		Y:  clamp(y, 0, 1),
		Pb: clamp(pb, -0.5, +0.5),
		Pr: clamp(pr, -0.5, +0.5),
	}
}

// ToRGB converts c to a pixel whose channels are in [0, denominator]. Each
// channel is clamped and then truncated towards zero, not rounded.
func ToRGB(c ComponentVideo, denominator int) pnm.Pixel {
	den := float64(denominator)
	r := c.Y + (1.402 * c.Pr)
	g := c.Y - (0.344136 * c.Pb) - (0.714136 * c.Pr)
	b := c.Y + (1.772 * c.Pb)

	return pnm.Pixel{
		R: uint16(clamp(r*den, 0, den)),
		G: uint16(clamp(g*den, 0, den)),
		B: uint16(clamp(b*den, 0, den)),
	}
}

func clamp(x float64, lo float64, hi float64) float64 {
	return min(hi, max(lo, x))
}

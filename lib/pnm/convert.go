// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pnm

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// DefaultDenominator is the maximum sample value of pixmaps built by
// FromImage.
const DefaultDenominator = 255

var ErrDimensionMismatch = errors.New("pnm: image dimensions differ by more than one")

// FromImage returns src as a Pixmap. If src is already a *Pixmap it is
// returned as is. Otherwise the result has a denominator of 255 and its top
// left corner is src.Bounds().Min. Alpha is discarded: the color channels are
// taken non-premultiplied.
func FromImage(src image.Image) (*Pixmap, error) {
	if src == nil {
		return nil, ErrBadArgument
	} else if m, ok := src.(*Pixmap); ok {
		return m, nil
	}

	b := src.Bounds()
	m, err := New(b.Dx(), b.Dy(), DefaultDenominator)
	if err != nil {
		return nil, err
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok || (nrgba.Rect.Min != image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Rect, src, b.Min, draw.Src)
	}

	m.Pixels.MapRowMajor(func(col int, row int, p *Pixel) {
		c := nrgba.NRGBAAt(col, row)
		*p = Pixel{R: uint16(c.R), G: uint16(c.G), B: uint16(c.B)}
	})
	return m, nil
}

// RMSDiff returns the root mean square difference between a and b, over every
// channel of every pixel, with samples normalized to [0, 1] by each image's
// denominator. 0 means identical and 1 means maximally different.
//
// The two images may differ in width or height by at most one pixel (as when
// one has had an odd trailing row or column dropped). Only the common area is
// compared.
func RMSDiff(a *Pixmap, b *Pixmap) (float64, error) {
	if (a == nil) || (b == nil) {
		return 0, ErrBadArgument
	} else if (abs(a.Width-b.Width) > 1) || (abs(a.Height-b.Height) > 1) {
		return 0, ErrDimensionMismatch
	}
	w, h := min(a.Width, b.Width), min(a.Height, b.Height)
	if (w == 0) || (h == 0) {
		return 0, nil
	}

	aDen, bDen := float64(a.Denominator), float64(b.Denominator)
	sum := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pa, pb := a.Pixels.At(x, y), b.Pixels.At(x, y)
			dr := (float64(pa.R) / aDen) - (float64(pb.R) / bDen)
			dg := (float64(pa.G) / aDen) - (float64(pb.G) / bDen)
			db := (float64(pa.B) / aDen) - (float64(pb.B) / bDen)
			sum += (dr * dr) + (dg * dg) + (db * db)
		}
	}
	return math.Sqrt(sum / float64(3*w*h)), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

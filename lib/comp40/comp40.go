// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package comp40 implements the COMP40 lossy image file format.
//
// An image is converted from RGB to component video (Y, Pb, Pr) and cut into
// 2×2 pixel blocks. Each block's four luma samples go through a 2×2 discrete
// cosine transform and its chroma is averaged, leaving six numbers that are
// quantized and packed into one 32-bit codeword. An odd trailing row or column
// is dropped.
//
// A COMP40 file is an ASCII header,
//
//	COMP40 Compressed image format 2\n
//	<width> <height>\n
//
// followed by (width/2)×(height/2) big-endian codewords in row-major block
// order.
package comp40

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"

	"github.com/nigeltao/comp40/lib/pnm"
)

// Magic is the byte string prefix of every COMP40 image file.
const Magic = "COMP40 Compressed image format 2\n"

// DecodeDenominator is the maximum sample value of every decompressed image.
const DecodeDenominator = 255

func init() {
	image.RegisterFormat("comp40", Magic, Decode, DecodeConfig)
}

var (
	ErrBadArgument     = errors.New("comp40: bad argument")
	ErrImageIsTooLarge = errors.New("comp40: image is too large")
	ErrNotACOMP40File  = errors.New("comp40: not a COMP40 file")
	ErrShortStream     = errors.New("comp40: short codeword stream")
)

// Codeword is the packed form of one 2×2 pixel block.
type Codeword uint32

// ComponentVideo is a pixel in the Y/Pb/Pr color space. Y is in [0, 1] and Pb
// and Pr are in [-0.5, +0.5].
type ComponentVideo struct {
	Y, Pb, Pr float64
}

// PixelValues are what a 2×2 block keeps before quantization: its four luma
// samples, in raster order within the block, and its average chroma.
type PixelValues struct {
	Y     [4]float64
	PbAvg float64
	PrAvg float64
}

// QuantizedValues are the fields of a Codeword. A is the DC cosine
// coefficient and B, C and D are the AC coefficients. PbChroma and PrChroma
// are chroma table indexes.
type QuantizedValues struct {
	A        uint64
	B, C, D  int64
	PbChroma uint64
	PrChroma uint64
}

// DecodeConfig reads a COMP40 image configuration from r. The width and height
// are those of the decompressed image: the header's, rounded down to even.
func DecodeConfig(r io.Reader) (image.Config, error) {
	width, height, err := readHeader(asByteReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBA64Model,
		Width:      width &^ 1,
		Height:     height &^ 1,
	}, nil
}

// Decode reads a COMP40 image from r. The concrete type of the result is
// *pnm.Pixmap.
func Decode(r io.Reader) (image.Image, error) {
	m, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Encode writes src to w in the COMP40 format. Transparency is ignored.
func Encode(w io.Writer, src image.Image) error {
	m, err := pnm.FromImage(src)
	if err != nil {
		return err
	}
	return Compress(w, m)
}

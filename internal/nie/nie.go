// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie implements the NIE (Naive) image file format.
//
// It is an incomplete implementation (and hence an internal package), only
// writing the bn8 variant from a PPM pixmap.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/pkg/errors"
)

// MaxDimension is the largest width or height a NIE file can declare.
const MaxDimension = 0x7FFF_FFFF

var ErrBadArgument = errors.New("nie: bad argument")

// Magic is the 8 byte prefix of a bn8 NIE file: BGRA order, non-premultiplied
// alpha, 8 bytes per pixel (16 bits per channel).
const Magic = "\x6E\xC3\xAF\x45\xFF" + "bn8"

// EncodeBN8 encodes m as a bn8 NIE file. Each sample is rescaled from m's
// denominator to 0xFFFF. Alpha is always opaque.
func EncodeBN8(m *pnm.Pixmap) ([]byte, error) {
	if (m == nil) || (m.Pixels == nil) || (m.Denominator <= 0) {
		return nil, ErrBadArgument
	} else if (m.Width > MaxDimension) || (m.Height > MaxDimension) {
		return nil, errors.Wrapf(ErrBadArgument, "nie: %d×%d is too large", m.Width, m.Height)
	}

	den := uint32(m.Denominator)
	ret := make([]byte, 0, 16+(8*m.Width*m.Height))
	ret = append(ret, Magic...)
	ret = appendU32LE(ret, uint32(m.Width))
	ret = appendU32LE(ret, uint32(m.Height))
	m.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		ret = appendU16LE(ret, scale(p.B, den))
		ret = appendU16LE(ret, scale(p.G, den))
		ret = appendU16LE(ret, scale(p.R, den))
		ret = appendU16LE(ret, 0xFFFF)
	})
	return ret, nil
}

func scale(v uint16, den uint32) uint16 {
	if uint32(v) >= den {
		return 0xFFFF
	}
	return uint16(((uint32(v) * 0xFFFF) + (den / 2)) / den)
}

func appendU16LE(b []byte, u uint16) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
	)
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package bitpack reads and writes fixed-width bit fields inside a 64-bit
// word.
//
// A field is addressed by its width (in bits) and the offset of its least
// significant bit. Unsigned fields hold values in [0, 2**width - 1]. Signed
// fields hold two's complement values in [-2**(width-1), 2**(width-1) - 1].
//
// Passing a width above 64, or a width and lsb whose sum is above 64, is a
// programming error and panics. Writing a value that does not fit the field
// is an input error and returns ErrOverflow.
package bitpack

import (
	"fmt"

	"github.com/pkg/errors"
)

// WordBitLength is the number of bits in the container word.
const WordBitLength = 64

var ErrOverflow = errors.New("bitpack: overflow packing bits")

// FitsUnsigned returns whether n can be represented in width unsigned bits.
func FitsUnsigned(n uint64, width uint) bool {
	return n <= (shl(1, width) - 1)
}

// FitsSigned returns whether n can be represented in width signed (two's
// complement) bits. No value fits in zero bits.
func FitsSigned(n int64, width uint) bool {
	if width == 0 {
		return false
	}
	// For width 64, lo wraps to math.MinInt64, which is what we want.
	lo := -int64(shl(1, width-1))
	hi := int64(shl(1, width-1) - 1)
	return (lo <= n) && (n <= hi)
}

// GetUnsigned extracts the width bits of word starting at bit lsb.
func GetUnsigned(word uint64, width uint, lsb uint) uint64 {
	checkField(width, lsb)
	mask := shl(1, width) - 1
	return shrU(word, lsb) & mask
}

// GetSigned extracts the width bits of word starting at bit lsb, sign
// extending the result.
func GetSigned(word uint64, width uint, lsb uint) int64 {
	u := GetUnsigned(word, width, lsb)
	if width == 0 {
		return 0
	}
	// Move the field's top bit to bit 63 and shift back arithmetically.
	return shrS(int64(shl(u, WordBitLength-width)), WordBitLength-width)
}

// NewUnsigned returns word with the width bits starting at bit lsb replaced
// by value. All other bits are unchanged.
func NewUnsigned(word uint64, width uint, lsb uint, value uint64) (uint64, error) {
	checkField(width, lsb)
	if !FitsUnsigned(value, width) {
		return 0, errors.Wrapf(ErrOverflow, "%d in %d unsigned bits", value, width)
	}
	mask := shl(shl(1, width)-1, lsb)
	return (word &^ mask) | shl(value, lsb), nil
}

// NewSigned is like NewUnsigned but value is a signed integer, stored in two's
// complement form.
func NewSigned(word uint64, width uint, lsb uint, value int64) (uint64, error) {
	checkField(width, lsb)
	if !FitsSigned(value, width) {
		return 0, errors.Wrapf(ErrOverflow, "%d in %d signed bits", value, width)
	}
	return NewUnsigned(word, width, lsb, uint64(value)&(shl(1, width)-1))
}

func checkField(width uint, lsb uint) {
	if (width > WordBitLength) || (width+lsb > WordBitLength) {
		panic(fmt.Sprintf("bitpack: invalid field (width %d, lsb %d)", width, lsb))
	}
}

// shl, shrU and shrS treat a shift by the whole word (or more) as shifting
// every bit out, instead of leaning on the shift operator at that boundary.

func shl(x uint64, n uint) uint64 {
	if n >= WordBitLength {
		return 0
	}
	return x << n
}

func shrU(x uint64, n uint) uint64 {
	if n >= WordBitLength {
		return 0
	}
	return x >> n
}

func shrS(x int64, n uint) int64 {
	if n >= WordBitLength {
		if x < 0 {
			return -1
		}
		return 0
	}
	return x >> n
}

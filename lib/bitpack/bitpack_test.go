// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bitpack

import (
	"errors"
	"math"
	"testing"
)

var testWords = []uint64{
	0x0000_0000_0000_0000,
	0xFFFF_FFFF_FFFF_FFFF,
	0x0123_4567_89AB_CDEF,
	0xA5A5_5A5A_C3C3_3C3C,
}

func TestFitsUnsigned(tt *testing.T) {
	for width := uint(0); width < 64; width++ {
		max := (uint64(1) << width) - 1
		if !FitsUnsigned(max, width) {
			tt.Errorf("width=%d: FitsUnsigned(%d): got false, want true", width, max)
		}
		if FitsUnsigned(max+1, width) {
			tt.Errorf("width=%d: FitsUnsigned(%d): got true, want false", width, max+1)
		}
	}
	if !FitsUnsigned(math.MaxUint64, 64) {
		tt.Errorf("FitsUnsigned(MaxUint64, 64): got false, want true")
	}
	if FitsUnsigned(1, 0) {
		tt.Errorf("FitsUnsigned(1, 0): got true, want false")
	}
}

func TestFitsSigned(tt *testing.T) {
	for width := uint(1); width < 64; width++ {
		lo := -(int64(1) << (width - 1))
		hi := (int64(1) << (width - 1)) - 1
		if !FitsSigned(lo, width) || !FitsSigned(hi, width) {
			tt.Errorf("width=%d: boundaries [%d, %d] should fit", width, lo, hi)
		}
		if FitsSigned(lo-1, width) || FitsSigned(hi+1, width) {
			tt.Errorf("width=%d: %d and %d should not fit", width, lo-1, hi+1)
		}
	}
	if !FitsSigned(math.MinInt64, 64) || !FitsSigned(math.MaxInt64, 64) {
		tt.Errorf("width=64: int64 extremes should fit")
	}
	if FitsSigned(0, 0) {
		tt.Errorf("FitsSigned(0, 0): got true, want false")
	}
	if !FitsSigned(-16, 5) || FitsSigned(16, 5) {
		tt.Errorf("width=5: want [-16, 15]")
	}
}

func TestUnsignedLaw(tt *testing.T) {
	for width := uint(1); width <= 64; width++ {
		max := uint64(math.MaxUint64) >> (64 - width)
		for lsb := uint(0); width+lsb <= 64; lsb += 3 {
			mask := (uint64(math.MaxUint64) >> (64 - width)) << lsb
			for _, word := range testWords {
				for _, value := range []uint64{0, 1, max / 3, max} {
					got, err := NewUnsigned(word, width, lsb, value)
					if err != nil {
						tt.Fatalf("width=%d lsb=%d value=%d: NewUnsigned: %v", width, lsb, value, err)
					}
					if v := GetUnsigned(got, width, lsb); v != value {
						tt.Errorf("width=%d lsb=%d: GetUnsigned: got %d, want %d", width, lsb, v, value)
					}
					if (got &^ mask) != (word &^ mask) {
						tt.Errorf("width=%d lsb=%d: bits outside the field changed: %016X vs %016X",
							width, lsb, got, word)
					}
				}
			}
		}
	}
}

func TestSignedLaw(tt *testing.T) {
	for width := uint(1); width <= 64; width++ {
		lo := int64(math.MinInt64) >> (64 - width)
		hi := int64(math.MaxInt64) >> (64 - width)
		for lsb := uint(0); width+lsb <= 64; lsb += 5 {
			for _, word := range testWords {
				for _, value := range []int64{lo, lo + 1, -1, 0, 1, hi - 1, hi} {
					if !FitsSigned(value, width) {
						continue
					}
					got, err := NewSigned(word, width, lsb, value)
					if err != nil {
						tt.Fatalf("width=%d lsb=%d value=%d: NewSigned: %v", width, lsb, value, err)
					}
					if v := GetSigned(got, width, lsb); v != value {
						tt.Errorf("width=%d lsb=%d: GetSigned: got %d, want %d", width, lsb, v, value)
					}
				}
			}
		}
	}
}

func TestOverflow(tt *testing.T) {
	word, err := NewUnsigned(0, 4, 0, 15)
	if err != nil {
		tt.Fatalf("NewUnsigned(0, 4, 0, 15): %v", err)
	}
	if got := GetUnsigned(word, 4, 0); got != 15 {
		tt.Errorf("GetUnsigned: got %d, want 15", got)
	}

	if _, err := NewUnsigned(0, 4, 0, 16); !errors.Is(err, ErrOverflow) {
		tt.Errorf("NewUnsigned(0, 4, 0, 16): got %v, want ErrOverflow", err)
	}
	if _, err := NewSigned(0, 5, 8, 16); !errors.Is(err, ErrOverflow) {
		tt.Errorf("NewSigned(0, 5, 8, 16): got %v, want ErrOverflow", err)
	}
	if _, err := NewSigned(0, 5, 8, -17); !errors.Is(err, ErrOverflow) {
		tt.Errorf("NewSigned(0, 5, 8, -17): got %v, want ErrOverflow", err)
	}
}

func TestGetSignedExtends(tt *testing.T) {
	testCases := []struct {
		word  uint64
		width uint
		lsb   uint
		want  int64
	}{
		{0x3F, 6, 2, 15},
		{0x1F << 8, 5, 8, -1},
		{0x10 << 8, 5, 8, -16},
		{0x0F << 8, 5, 8, 15},
		{0x8000_0000_0000_0000, 1, 63, -1},
		{0x8000_0000_0000_0000, 64, 0, math.MinInt64},
	}
	for _, tc := range testCases {
		if got := GetSigned(tc.word, tc.width, tc.lsb); got != tc.want {
			tt.Errorf("tc=%016X/%d/%d: got %d, want %d", tc.word, tc.width, tc.lsb, got, tc.want)
		}
	}
}

func TestInvalidFieldPanics(tt *testing.T) {
	testCases := []struct {
		width uint
		lsb   uint
	}{
		{65, 0},
		{60, 5},
		{1, 64},
	}
	for _, tc := range testCases {
		func() {
			defer func() {
				if recover() == nil {
					tt.Errorf("tc=%d/%d: GetUnsigned did not panic", tc.width, tc.lsb)
				}
			}()
			GetUnsigned(0, tc.width, tc.lsb)
		}()
	}
}

func TestShiftAtWordWidth(tt *testing.T) {
	if got := shl(1, 64); got != 0 {
		tt.Errorf("shl(1, 64): got %d, want 0", got)
	}
	if got := shrU(math.MaxUint64, 64); got != 0 {
		tt.Errorf("shrU(MaxUint64, 64): got %d, want 0", got)
	}
	if got := shrS(-5, 70); got != -1 {
		tt.Errorf("shrS(-5, 70): got %d, want -1", got)
	}
	if got := shrS(5, 64); got != 0 {
		tt.Errorf("shrS(5, 64): got %d, want 0", got)
	}
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package uarray2 implements unboxed two-dimensional arrays.
//
// Elements are addressed by (col, row), with col in [0, Width) and row in
// [0, Height). Addressing an element outside those bounds panics.
package uarray2

import (
	"fmt"
	"unsafe"
)

// Array2 is the set of operations that a 2D array backing store provides.
// Plain is the only implementation in this module, but callers should depend
// on the interface.
type Array2[T any] interface {
	Width() int
	Height() int

	// Size returns the size, in bytes, of each element.
	Size() int

	// At returns a pointer to the element at (col, row). The pointer stays
	// valid for the lifetime of the array.
	At(col int, row int) *T

	// MapRowMajor calls apply on every element, visiting each row from left
	// to right before moving down to the next row.
	MapRowMajor(apply func(col int, row int, elem *T))

	// MapColMajor calls apply on every element, visiting each column from top
	// to bottom before moving right to the next column.
	MapColMajor(apply func(col int, row int, elem *T))
}

// Plain is an Array2 stored as a single row-major slice.
type Plain[T any] struct {
	width  int
	height int
	elems  []T
}

var _ Array2[byte] = (*Plain[byte])(nil)

// New returns a zero-filled Plain array. It panics if width or height is
// negative.
func New[T any](width int, height int) *Plain[T] {
	if (width < 0) || (height < 0) {
		panic(fmt.Sprintf("uarray2: invalid dimensions %d×%d", width, height))
	}
	return &Plain[T]{
		width:  width,
		height: height,
		elems:  make([]T, width*height),
	}
}

func (a *Plain[T]) Width() int  { return a.width }
func (a *Plain[T]) Height() int { return a.height }

func (a *Plain[T]) Size() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (a *Plain[T]) At(col int, row int) *T {
	if (uint(col) >= uint(a.width)) || (uint(row) >= uint(a.height)) {
		panic(fmt.Sprintf("uarray2: (%d, %d) is outside %d×%d", col, row, a.width, a.height))
	}
	return &a.elems[(row*a.width)+col]
}

func (a *Plain[T]) MapRowMajor(apply func(col int, row int, elem *T)) {
	i := 0
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			apply(col, row, &a.elems[i])
			i++
		}
	}
}

func (a *Plain[T]) MapColMajor(apply func(col int, row int, elem *T)) {
	for col := 0; col < a.width; col++ {
		for row := 0; row < a.height; row++ {
			apply(col, row, &a.elems[(row*a.width)+col])
		}
	}
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/nigeltao/comp40/lib/uarray2"
)

// Decompress reads a COMP40 image from r. The result's denominator is
// DecodeDenominator.
//
// If the header says the width or height is odd, the odd trailing row or
// column is not part of the codeword grid and is not recreated.
func Decompress(r io.Reader) (*pnm.Pixmap, error) {
	if r == nil {
		return nil, ErrBadArgument
	}
	br := asByteReader(r)
	width, height, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	words := uarray2.New[Codeword](width/2, height/2)
	if err := readCodewords(br, words); err != nil {
		return nil, err
	}

	cv := uarray2.New[ComponentVideo](2*words.Width(), 2*words.Height())
	words.MapRowMajor(func(col int, row int, cw *Codeword) {
		scatterBlock(cv, 2*col, 2*row, Dequantize(Unpack(*cw)))
	})

	dst, err := pnm.New(cv.Width(), cv.Height(), DecodeDenominator)
	if err != nil {
		return nil, err
	}
	dst.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		*p = ToRGB(*cv.At(col, row), DecodeDenominator)
	})
	return dst, nil
}

// scatterBlock is the inverse of gatherBlock. Every pixel of the block gets
// the same chroma.
func scatterBlock(cv uarray2.Array2[ComponentVideo], x int, y int, p PixelValues) {
	for i := 0; i < 4; i++ {
		*cv.At(x+blockCols[i], y+blockRows[i]) = ComponentVideo{
			Y:  p.Y[i],
			Pb: p.PbAvg,
			Pr: p.PrAvg,
		}
	}
}

func readCodewords(r io.Reader, words uarray2.Array2[Codeword]) (retErr error) {
	buf := [4]byte{}
	words.MapRowMajor(func(col int, row int, cw *Codeword) {
		if retErr != nil {
			return
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			retErr = errors.Wrapf(ErrShortStream, "block (%d, %d): %v", col, row, err)
			return
		}
		*cw = Codeword(readU32BE(buf[:]))
	})
	return retErr
}

func readU32BE(b []byte) uint32 {
	b = b[:4]
	return (uint32(b[0]) << 24) |
		(uint32(b[1]) << 16) |
		(uint32(b[2]) << 8) |
		(uint32(b[3]) << 0)
}

func asByteReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// readHeader reads the Magic line and then "<width> <height>\n". As with
// scanf, any whitespace may precede each number.
func readHeader(r *bufio.Reader) (width int, height int, retErr error) {
	magic := [len(Magic)]byte{}
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, 0, errors.Wrap(ErrNotACOMP40File, err.Error())
	} else if string(magic[:]) != Magic {
		return 0, 0, ErrNotACOMP40File
	}

	if width, retErr = readDecimal(r); retErr != nil {
		return 0, 0, retErr
	}
	if height, retErr = readDecimal(r); retErr != nil {
		return 0, 0, retErr
	}
	if c, err := r.ReadByte(); err != nil {
		return 0, 0, errors.Wrap(ErrNotACOMP40File, err.Error())
	} else if c != '\n' {
		return 0, 0, ErrNotACOMP40File
	}

	if (width > pnm.MaxDimension) || (height > pnm.MaxDimension) {
		return 0, 0, ErrImageIsTooLarge
	}
	return width, height, nil
}

func readDecimal(r *bufio.Reader) (int, error) {
	c, err := r.ReadByte()
	for (err == nil) && isSpace(c) {
		c, err = r.ReadByte()
	}

	n, numDigits := 0, 0
	for (err == nil) && ('0' <= c) && (c <= '9') {
		if numDigits++; numDigits > 9 {
			return 0, ErrNotACOMP40File
		}
		n = (10 * n) + int(c-'0')
		c, err = r.ReadByte()
	}
	if err != nil {
		return 0, errors.Wrap(ErrNotACOMP40File, err.Error())
	}
	r.UnreadByte()

	if numDigits == 0 {
		return 0, ErrNotACOMP40File
	}
	return n, nil
}

func isSpace(c byte) bool {
	return (c == ' ') || (c == '\t') || (c == '\n') || (c == '\v') || (c == '\f') || (c == '\r')
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/nigeltao/comp40/lib/uarray2"
)

// blockCols and blockRows give the position of each of a block's four pixels,
// in the order of PixelValues.Y.
var (
	blockCols = [4]int{0, 1, 0, 1}
	blockRows = [4]int{0, 0, 1, 1}
)

// Compress writes src to w in the COMP40 format. An odd trailing row or
// column of src is dropped.
//
// Nothing is written to w unless every block packs successfully.
func Compress(w io.Writer, src *pnm.Pixmap) error {
	if (w == nil) || (src == nil) || (src.Pixels == nil) || (src.Denominator <= 0) {
		return ErrBadArgument
	} else if (src.Width > pnm.MaxDimension) || (src.Height > pnm.MaxDimension) {
		return ErrImageIsTooLarge
	}

	cv := uarray2.New[ComponentVideo](src.Width, src.Height)
	cv.MapRowMajor(func(col int, row int, c *ComponentVideo) {
		*c = ToComponentVideo(*src.Pixels.At(col, row), src.Denominator)
	})

	words := uarray2.New[Codeword](src.Width/2, src.Height/2)
	if err := packBlocks(words, cv); err != nil {
		return err
	}
	return writeCodewords(w, words)
}

func packBlocks(words uarray2.Array2[Codeword], cv uarray2.Array2[ComponentVideo]) (retErr error) {
	words.MapRowMajor(func(col int, row int, cw *Codeword) {
		if retErr != nil {
			return
		}
		c, err := Pack(Quantize(gatherBlock(cv, 2*col, 2*row)))
		if err != nil {
			retErr = errors.Wrapf(err, "comp40: block (%d, %d)", col, row)
			return
		}
		*cw = c
	})
	return retErr
}

// gatherBlock returns the luma samples and average chroma of the 2×2 block
// whose top left pixel is at (x, y).
func gatherBlock(cv uarray2.Array2[ComponentVideo], x int, y int) (p PixelValues) {
	for i := 0; i < 4; i++ {
		c := cv.At(x+blockCols[i], y+blockRows[i])
		p.Y[i] = c.Y
		p.PbAvg += c.Pb
		p.PrAvg += c.Pr
	}
	p.PbAvg /= 4
	p.PrAvg /= 4
	return p
}

const encoderBufferSize = 4096

func writeCodewords(w io.Writer, words uarray2.Array2[Codeword]) (retErr error) {
	buf := make([]byte, 0, encoderBufferSize)
	buf = fmt.Appendf(buf, "%s%d %d\n", Magic, 2*words.Width(), 2*words.Height())

	words.MapRowMajor(func(col int, row int, cw *Codeword) {
		if retErr != nil {
			return
		}
		buf = appendU32BE(buf, uint32(*cw))
		if len(buf) >= encoderBufferSize {
			_, retErr = w.Write(buf)
			buf = buf[:0]
		}
	})
	if retErr != nil {
		return retErr
	}

	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func appendU32BE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>24),
		uint8(u>>16),
		uint8(u>>8),
		uint8(u>>0),
	)
}

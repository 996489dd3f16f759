// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/nigeltao/comp40/lib/bitpack"
	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/nigeltao/comp40/lib/uarray2"
)

// makeSmoothPixmap returns a low-saturation gradient, the kind of content
// this codec is designed for. Neighboring pixels differ by a couple of units.
func makeSmoothPixmap(tt *testing.T, width int, height int) *pnm.Pixmap {
	m, err := pnm.New(width, height, 255)
	if err != nil {
		tt.Fatalf("pnm.New: %v", err)
	}
	m.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		*p = pnm.Pixel{
			R: uint16(80 + (2 * col)),
			G: uint16(96 + (2 * row)),
			B: uint16(112 + col + row),
		}
	})
	return m
}

func TestUniformGray(tt *testing.T) {
	src, _ := pnm.New(4, 4, 255)
	src.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		*p = pnm.Pixel{128, 128, 128}
	})

	buf := &bytes.Buffer{}
	if err := Compress(buf, src); err != nil {
		tt.Fatalf("Compress: %v", err)
	}
	const header = Magic + "4 4\n"
	if !strings.HasPrefix(buf.String(), header) {
		tt.Fatalf("header: got %q", buf.String())
	}
	body := buf.Bytes()[len(header):]
	if len(body) != 4*4 {
		tt.Fatalf("body length: got %d, want 16", len(body))
	}

	first := Unpack(Codeword(readU32BE(body)))
	for i := 0; i < len(body); i += 4 {
		q := Unpack(Codeword(readU32BE(body[i:])))
		if q != first {
			tt.Errorf("codeword %d: got %+v, want %+v", i/4, q, first)
		}
	}
	if (first.B != 0) || (first.C != 0) || (first.D != 0) {
		tt.Errorf("AC coefficients: got %+v, want zero", first)
	}
	if first.A != 257 {
		tt.Errorf("A: got %d, want 257", first.A)
	}
	// Gray has zero chroma, which is equidistant from the two middle indexes.
	for _, ch := range []uint64{first.PbChroma, first.PrChroma} {
		if (ch != 7) && (ch != 8) {
			tt.Errorf("chroma index: got %d, want 7 or 8", ch)
		}
	}

	dst, err := Decompress(bytes.NewReader(buf.Bytes()))
	if err != nil {
		tt.Fatalf("Decompress: %v", err)
	}
	if (dst.Width != 4) || (dst.Height != 4) || (dst.Denominator != DecodeDenominator) {
		tt.Fatalf("Decompress: got %d×%d/%d", dst.Width, dst.Height, dst.Denominator)
	}
	dst.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		for _, v := range []uint16{p.R, p.G, p.B} {
			if (v < 128-6) || (128+6 < v) {
				tt.Errorf("(%d, %d): got %v, want near gray", col, row, *p)
				return
			}
		}
	})
}

func TestRoundTrip(tt *testing.T) {
	testCases := []struct {
		width, height int
	}{
		{2, 2},
		{16, 12},
		{33, 17},
		{64, 48},
	}
	for _, tc := range testCases {
		src := makeSmoothPixmap(tt, tc.width, tc.height)
		buf := &bytes.Buffer{}
		if err := Compress(buf, src); err != nil {
			tt.Errorf("tc=%v: Compress: %v", tc, err)
			continue
		}

		w, h := tc.width&^1, tc.height&^1
		header := fmt.Sprintf("%s%d %d\n", Magic, w, h)
		if !strings.HasPrefix(buf.String(), header) {
			tt.Errorf("tc=%v: header: want prefix %q", tc, header)
		} else if got, want := buf.Len(), len(header)+(4*(w/2)*(h/2)); got != want {
			tt.Errorf("tc=%v: length: got %d, want %d", tc, got, want)
		}

		dst, err := Decompress(buf)
		if err != nil {
			tt.Errorf("tc=%v: Decompress: %v", tc, err)
			continue
		}
		if (dst.Width != w) || (dst.Height != h) {
			tt.Errorf("tc=%v: dimensions: got %d×%d, want %d×%d", tc, dst.Width, dst.Height, w, h)
			continue
		}
		d, err := pnm.RMSDiff(src, dst)
		if err != nil {
			tt.Errorf("tc=%v: RMSDiff: %v", tc, err)
		} else if d > 0.05 {
			tt.Errorf("tc=%v: RMSDiff: got %.4f, want <= 0.05", tc, d)
		}
	}
}

func TestCodewordOrder(tt *testing.T) {
	// Four blocks, each a different flat gray, laid out 2 wide and 2 high.
	src, _ := pnm.New(4, 4, 255)
	src.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		v := uint16(40 + (40 * ((2 * (row / 2)) + (col / 2))))
		*p = pnm.Pixel{v, v, v}
	})

	buf := &bytes.Buffer{}
	if err := Compress(buf, src); err != nil {
		tt.Fatalf("Compress: %v", err)
	}
	body := buf.Bytes()[len(Magic+"4 4\n"):]
	prevA := uint64(0)
	for i := 0; i < 4; i++ {
		q := Unpack(Codeword(readU32BE(body[4*i:])))
		if q.A <= prevA {
			tt.Errorf("block %d: A=%d is not above the previous block's %d", i, q.A, prevA)
		}
		prevA = q.A
	}

	// The first byte on the wire is the codeword's most significant byte.
	c, _ := Pack(Unpack(Codeword(readU32BE(body))))
	if got, want := body[0], uint8(c>>24); got != want {
		tt.Errorf("first byte: got 0x%02X, want 0x%02X", got, want)
	}
}

func TestOddDimensionsAreTruncated(tt *testing.T) {
	src := makeSmoothPixmap(tt, 5, 3)
	buf := &bytes.Buffer{}
	if err := Compress(buf, src); err != nil {
		tt.Fatalf("Compress: %v", err)
	}
	if want := Magic + "4 2\n"; !strings.HasPrefix(buf.String(), want) {
		tt.Fatalf("header: got %q, want prefix %q", buf.String(), want)
	}
	if got, want := buf.Len(), len(Magic+"4 2\n")+(4*2); got != want {
		tt.Errorf("length: got %d, want %d", got, want)
	}

	// A 1-pixel-wide image has no complete blocks.
	buf.Reset()
	if err := Compress(buf, makeSmoothPixmap(tt, 1, 7)); err != nil {
		tt.Fatalf("Compress(1×7): %v", err)
	}
	if got, want := buf.String(), Magic+"0 6\n"; got != want {
		tt.Errorf("Compress(1×7): got %q, want %q", got, want)
	}
}

func TestOddHeaderOnRead(tt *testing.T) {
	src := Magic + "3 2\n\x00\x00\x00\x00"
	cfg, err := DecodeConfig(strings.NewReader(src))
	if err != nil {
		tt.Fatalf("DecodeConfig: %v", err)
	}
	if (cfg.Width != 2) || (cfg.Height != 2) {
		tt.Errorf("DecodeConfig: got %d×%d, want 2×2", cfg.Width, cfg.Height)
	}
	m, err := Decompress(strings.NewReader(src))
	if err != nil {
		tt.Fatalf("Decompress: %v", err)
	}
	if (m.Width != 2) || (m.Height != 2) {
		tt.Errorf("Decompress: got %d×%d, want 2×2", m.Width, m.Height)
	}
}

func TestDecompressErrors(tt *testing.T) {
	testCases := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrNotACOMP40File},
		{"wrong magic", "COMP40 Compressed image format 1\n2 2\n\x00\x00\x00\x00", ErrNotACOMP40File},
		{"ppm", "P6\n2 2\n255\n", ErrNotACOMP40File},
		{"missing height", Magic + "2\n", ErrNotACOMP40File},
		{"not a number", Magic + "2 x\n", ErrNotACOMP40File},
		{"no trailing newline", Magic + "2 2", ErrNotACOMP40File},
		{"junk before newline", Magic + "2 2 \n\x00\x00\x00\x00", ErrNotACOMP40File},
		{"too large", Magic + "100000 2\n", ErrImageIsTooLarge},
		{"no codewords", Magic + "2 2\n", ErrShortStream},
		{"short codeword", Magic + "4 2\n\x00\x00\x00\x00\x00\x00", ErrShortStream},
	}
	for _, tc := range testCases {
		m, err := Decompress(strings.NewReader(tc.src))
		if !errors.Is(err, tc.want) {
			tt.Errorf("tc=%q: got %v, want %v", tc.name, err, tc.want)
		}
		if m != nil {
			tt.Errorf("tc=%q: got a partial image", tc.name)
		}
	}
}

func TestHeaderWhitespace(tt *testing.T) {
	src := Magic + "  2\t\n 2\n\x00\x00\x00\x00"
	if _, err := Decompress(strings.NewReader(src)); err != nil {
		tt.Errorf("Decompress: %v", err)
	}
}

func TestCompressWritesNothingOnOverflow(tt *testing.T) {
	// Y above 1 can't come out of ToComponentVideo, so build the grid by hand.
	cv := uarray2.New[ComponentVideo](4, 2)
	cv.MapRowMajor(func(col int, row int, c *ComponentVideo) {
		c.Y = 0.5
	})
	for i := 0; i < 4; i++ {
		cv.At(2+blockCols[i], blockRows[i]).Y = 1.5
	}

	words := uarray2.New[Codeword](2, 1)
	err := packBlocks(words, cv)
	if !errors.Is(err, bitpack.ErrOverflow) {
		tt.Fatalf("packBlocks: got %v, want ErrOverflow", err)
	}
	if !strings.Contains(err.Error(), "block (1, 0)") {
		tt.Errorf("packBlocks: %q does not name the block", err.Error())
	}

	w := &countingWriter{}
	if err := Compress(w, &pnm.Pixmap{}); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("Compress(empty Pixmap): got %v, want ErrBadArgument", err)
	}
	if w.n != 0 {
		tt.Errorf("Compress wrote %d bytes on failure", w.n)
	}
}

func TestImageRegistration(tt *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(100 + 10*x), uint8(120 + 5*y), 140, 0xFF})
		}
	}

	buf := &bytes.Buffer{}
	if err := Encode(buf, src); err != nil {
		tt.Fatalf("Encode: %v", err)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		tt.Fatalf("image.DecodeConfig: %v", err)
	} else if (name != "comp40") || (cfg.Width != 6) || (cfg.Height != 4) {
		tt.Fatalf("image.DecodeConfig: got %q %d×%d", name, cfg.Width, cfg.Height)
	}

	m, name, err := image.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		tt.Fatalf("image.Decode: %v", err)
	} else if name != "comp40" {
		tt.Fatalf("image.Decode: format %q", name)
	}
	if got := m.Bounds(); got != src.Bounds() {
		tt.Errorf("bounds: got %v, want %v", got, src.Bounds())
	}
}

type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

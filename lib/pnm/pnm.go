// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package pnm implements the color (PPM) members of the Netpbm image file
// formats: binary "P6" and plain "P3".
//
// A PPM file is a short ASCII header (magic, width, height and the maximum
// sample value, which this package calls the denominator) followed by
// interleaved red, green and blue samples in row-major order. Samples are one
// byte each when the denominator is below 256 and two big-endian bytes
// otherwise.
//
// The format is specified at https://netpbm.sourceforge.net/doc/ppm.html
package pnm

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/nigeltao/comp40/lib/uarray2"
)

const (
	// MagicRaw is the byte string prefix of every binary PPM file.
	MagicRaw = "P6"
	// MagicPlain is the byte string prefix of every plain (ASCII) PPM file.
	MagicPlain = "P3"
)

// MaxDimension is the largest width or height that Read and New accept.
const MaxDimension = 65535

func init() {
	image.RegisterFormat("ppm", MagicRaw, Decode, DecodeConfig)
	image.RegisterFormat("ppm", MagicPlain, Decode, DecodeConfig)
}

var (
	ErrBadArgument     = errors.New("pnm: bad argument")
	ErrNotAPPMFile     = errors.New("pnm: not a PPM file")
	ErrImageIsTooLarge = errors.New("pnm: image is too large")
	ErrShortRaster     = errors.New("pnm: short raster")
)

// Pixel is one RGB sample triplet. Each channel is in [0, Denominator] of the
// Pixmap that holds it.
type Pixel struct {
	R, G, B uint16
}

// Pixmap is a PPM image held in memory.
type Pixmap struct {
	Width       int
	Height      int
	Denominator int
	Pixels      uarray2.Array2[Pixel]
}

var _ image.Image = (*Pixmap)(nil)

// New returns a black Pixmap with the given dimensions and maximum sample
// value.
func New(width int, height int, denominator int) (*Pixmap, error) {
	if (width < 0) || (height < 0) || (denominator <= 0) || (denominator > 0xFFFF) {
		return nil, ErrBadArgument
	} else if (width > MaxDimension) || (height > MaxDimension) {
		return nil, ErrImageIsTooLarge
	}
	return &Pixmap{
		Width:       width,
		Height:      height,
		Denominator: denominator,
		Pixels:      uarray2.New[Pixel](width, height),
	}, nil
}

// ColorModel implements image.Image.
func (m *Pixmap) ColorModel() color.Model { return color.RGBA64Model }

// Bounds implements image.Image.
func (m *Pixmap) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image, scaling samples to 16 bits.
func (m *Pixmap) At(x int, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA64{}
	}
	p := m.Pixels.At(x, y)
	den := uint32(m.Denominator)
	return color.RGBA64{
		R: uint16((uint32(p.R)*0xFFFF + den/2) / den),
		G: uint16((uint32(p.G)*0xFFFF + den/2) / den),
		B: uint16((uint32(p.B)*0xFFFF + den/2) / den),
		A: 0xFFFF,
	}
}

type header struct {
	plain       bool
	width       int
	height      int
	denominator int
}

func readHeader(r *bufio.Reader) (h header, retErr error) {
	magic := [2]byte{}
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return header{}, errors.Wrap(ErrNotAPPMFile, err.Error())
	}
	switch string(magic[:]) {
	case MagicRaw:
		h.plain = false
	case MagicPlain:
		h.plain = true
	default:
		return header{}, ErrNotAPPMFile
	}

	fields := [3]int{}
	for i := range fields {
		n, err := readDecimal(r)
		if err != nil {
			return header{}, err
		}
		fields[i] = n
	}
	h.width, h.height, h.denominator = fields[0], fields[1], fields[2]

	if (h.denominator <= 0) || (h.denominator > 0xFFFF) {
		return header{}, ErrNotAPPMFile
	} else if (h.width > MaxDimension) || (h.height > MaxDimension) {
		return header{}, ErrImageIsTooLarge
	}

	// Exactly one whitespace byte separates the header from a binary raster.
	if !h.plain {
		if c, err := r.ReadByte(); err != nil {
			return header{}, errors.Wrap(ErrShortRaster, err.Error())
		} else if !isSpace(c) {
			return header{}, ErrNotAPPMFile
		}
	}
	return h, nil
}

// readDecimal skips whitespace and '#' comments, then reads an unsigned
// decimal number. It leaves the byte after the last digit unread.
func readDecimal(r *bufio.Reader) (int, error) {
	c, err := r.ReadByte()
	for {
		if err != nil {
			return 0, errors.Wrap(ErrNotAPPMFile, err.Error())
		} else if c == '#' {
			for (err == nil) && (c != '\n') && (c != '\r') {
				c, err = r.ReadByte()
			}
		} else if isSpace(c) {
			c, err = r.ReadByte()
		} else {
			break
		}
	}

	digits := []byte(nil)
	for (err == nil) && ('0' <= c) && (c <= '9') {
		digits = append(digits, c)
		c, err = r.ReadByte()
	}
	if err == nil {
		r.UnreadByte()
	} else if err != io.EOF {
		return 0, err
	}
	if (len(digits) == 0) || (len(digits) > 9) {
		return 0, ErrNotAPPMFile
	}
	return strconv.Atoi(string(digits))
}

func isSpace(c byte) bool {
	return (c == ' ') || (c == '\t') || (c == '\n') || (c == '\v') || (c == '\f') || (c == '\r')
}

// DecodeConfig reads a PPM image configuration from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBA64Model,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

// Decode reads a PPM image from r. The concrete type of the result is
// *Pixmap.
func Decode(r io.Reader) (image.Image, error) {
	m, err := Read(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Read reads a PPM image from r.
func Read(r io.Reader) (*Pixmap, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	m, err := New(h.width, h.height, h.denominator)
	if err != nil {
		return nil, err
	}

	if h.plain {
		err = readPlainRaster(br, m)
	} else {
		err = readRawRaster(br, m)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readRawRaster(r *bufio.Reader, m *Pixmap) (retErr error) {
	bytesPerSample := 1
	if m.Denominator > 0xFF {
		bytesPerSample = 2
	}
	row := make([]byte, 3*bytesPerSample*m.Width)
	den := uint16(m.Denominator)

	for y := 0; y < m.Height; y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return errors.Wrapf(ErrShortRaster, "row %d: %v", y, err)
		}
		for x := 0; x < m.Width; x++ {
			s := [3]uint16{}
			for c := 0; c < 3; c++ {
				i := ((3 * x) + c) * bytesPerSample
				if bytesPerSample == 1 {
					s[c] = uint16(row[i])
				} else {
					s[c] = (uint16(row[i]) << 8) | uint16(row[i+1])
				}
				if s[c] > den {
					return ErrNotAPPMFile
				}
			}
			*m.Pixels.At(x, y) = Pixel{R: s[0], G: s[1], B: s[2]}
		}
	}
	return nil
}

func readPlainRaster(r *bufio.Reader, m *Pixmap) (retErr error) {
	m.Pixels.MapRowMajor(func(col int, row int, p *Pixel) {
		if retErr != nil {
			return
		}
		s := [3]uint16{}
		for c := 0; c < 3; c++ {
			n, err := readDecimal(r)
			if errors.Is(err, ErrNotAPPMFile) {
				retErr = errors.Wrapf(ErrShortRaster, "pixel (%d, %d)", col, row)
				return
			} else if err != nil {
				retErr = err
				return
			} else if n > m.Denominator {
				retErr = ErrNotAPPMFile
				return
			}
			s[c] = uint16(n)
		}
		*p = Pixel{R: s[0], G: s[1], B: s[2]}
	})
	return retErr
}

// Write writes m to w in the binary (P6) PPM format.
func Write(w io.Writer, m *Pixmap) error {
	if (w == nil) || (m == nil) || (m.Pixels == nil) ||
		(m.Denominator <= 0) || (m.Denominator > 0xFFFF) {
		return ErrBadArgument
	}

	bw := bufio.NewWriter(w)
	hdr := []byte(MagicRaw + "\n")
	hdr = strconv.AppendInt(hdr, int64(m.Width), 10)
	hdr = append(hdr, ' ')
	hdr = strconv.AppendInt(hdr, int64(m.Height), 10)
	hdr = append(hdr, '\n')
	hdr = strconv.AppendInt(hdr, int64(m.Denominator), 10)
	hdr = append(hdr, '\n')
	if _, err := bw.Write(hdr); err != nil {
		return err
	}

	wide := m.Denominator > 0xFF
	buf := [6]byte{}
	retErr := error(nil)
	m.Pixels.MapRowMajor(func(col int, row int, p *Pixel) {
		if retErr != nil {
			return
		}
		b := buf[:3]
		if wide {
			b = buf[:6]
			b[0], b[1] = uint8(p.R>>8), uint8(p.R>>0)
			b[2], b[3] = uint8(p.G>>8), uint8(p.G>>0)
			b[4], b[5] = uint8(p.B>>8), uint8(p.B>>0)
		} else {
			b[0], b[1], b[2] = uint8(p.R), uint8(p.G), uint8(p.B)
		}
		_, retErr = bw.Write(b)
	})
	if retErr != nil {
		return retErr
	}
	return bw.Flush()
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

//go:build ignore

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/nigeltao/comp40/lib/pnm"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	f, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return fmt.Errorf("opentype.Parse: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    200,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("opentype.NewFace: %v", err)
	}

	// 36.ppm is 64×64 with 8-bit samples. 49.ppm is 63×47, so that its last
	// column and row are dropped by compression, with 10-bit samples.
	if err := do(face, "36.ppm", 64, 64, 255); err != nil {
		return err
	}
	if err := do(face, "49.ppm", 63, 47, 1023); err != nil {
		return err
	}

	return nil
}

func do(face font.Face, filename string, width int, height int, denominator int) error {
	digit0 := image.NewRGBA(image.Rect(0, 0, 256, 256))
	{
		d := font.Drawer{
			Dst:  digit0,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(4, 224),
		}
		d.DrawString(filename[0:1])

		for i := range digit0.Pix {
			digit0.Pix[i] ^= 0xFF
		}
	}

	digit1 := image.NewRGBA(image.Rect(0, 0, 256, 256))
	{
		d := font.Drawer{
			Dst:  digit1,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(4+112, 224-48),
		}
		d.DrawString(filename[1:2])
	}

	// Low saturation throughout: a warm glow and a cool gradient.
	glow := image.NewRGBA(image.Rect(0, 0, 256, 256))
	{
		const cx, cy = 30, 50
		for y := 0; y < 256; y++ {
			dy := y - cy
			for x := 0; x < 256; x++ {
				dx := x - cx
				distance := int64(math.Sqrt(float64((dx * dx) + (dy * dy))))
				v := 0xFF - uint8(max(0x00, min(0xFF, distance)))
				glow.SetRGBA(x, y, color.RGBA{v, (v / 4) * 3, v / 2, 0xFF})
			}
		}
	}

	grad := image.NewRGBA(image.Rect(0, 0, 256, 256))
	{
		for y := 0; y < 256; y++ {
			for x := 0; x < 256; x++ {
				v := uint8((x + y) / 2)
				grad.SetRGBA(x, y, color.RGBA{v / 2, (v / 4) * 3, v, 0xFF})
			}
		}
	}

	large := image.NewRGBA(image.Rect(0, 0, 256, 256))
	draw.Draw(large, large.Bounds(), image.NewUniform(color.RGBA{0x80, 0x80, 0x80, 0xFF}), image.Point{}, draw.Src)
	draw.DrawMask(large, large.Bounds(), glow, glow.Bounds().Min, digit0, digit0.Bounds().Min, draw.Over)
	draw.DrawMask(large, large.Bounds(), grad, grad.Bounds().Min, digit1, digit1.Bounds().Min, draw.Over)

	small, err := pnm.New(width, height, denominator)
	if err != nil {
		return fmt.Errorf("pnm.New: %v", err)
	}
	small.Pixels.MapRowMajor(func(col int, row int, p *pnm.Pixel) {
		sum := [3]uint32{}
		for v := 0; v < 4; v++ {
			for u := 0; u < 4; u++ {
				at := large.RGBAAt((4*col)+u, (4*row)+v)
				sum[0] += uint32(at.R)
				sum[1] += uint32(at.G)
				sum[2] += uint32(at.B)
			}
		}
		den := uint32(denominator)
		*p = pnm.Pixel{
			R: uint16(((sum[0] * den) + (8 * 255)) / (16 * 255)),
			G: uint16(((sum[1] * den) + (8 * 255)) / (16 * 255)),
			B: uint16(((sum[2] * den) + (8 * 255)) / (16 * 255)),
		}
	})

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("os.Create: %v", err)
	}
	defer f.Close()
	if err := pnm.Write(f, small); err != nil {
		return fmt.Errorf("pnm.Write: %v", err)
	}
	return nil
}

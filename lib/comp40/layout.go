// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package comp40

import (
	"github.com/pkg/errors"

	"github.com/nigeltao/comp40/lib/bitpack"
)

// WordBitLength is the number of bits in a Codeword. Every field width below
// is derived from it.
const WordBitLength = 32

// Codeword fields, from the least significant bit upwards. For a 32-bit word
// the widths are 4, 4, 5, 5, 5 and 9.
const (
	chromaWidth = WordBitLength / 8
	acWidth     = (WordBitLength * 5) / 32 // WordBitLength / 6.4, truncated.

	prWidth, prLSB = chromaWidth, 0
	pbWidth, pbLSB = chromaWidth, prLSB + prWidth
	dWidth, dLSB   = acWidth, pbLSB + pbWidth
	cWidth, cLSB   = acWidth, dLSB + dWidth
	bWidth, bLSB   = acWidth, cLSB + cWidth
	aLSB           = bLSB + bWidth
	aWidth         = WordBitLength - aLSB
)

// Field describes one bit field of a Codeword.
type Field struct {
	Name   string
	Width  uint
	LSB    uint
	Signed bool
}

// Layout lists the Codeword fields from the most significant downwards.
var Layout = [6]Field{
	{"a", aWidth, aLSB, false},
	{"b", bWidth, bLSB, true},
	{"c", cWidth, cLSB, true},
	{"d", dWidth, dLSB, true},
	{"pb", pbWidth, pbLSB, false},
	{"pr", prWidth, prLSB, false},
}

// Pack returns the Codeword holding q. It returns an error wrapping
// bitpack.ErrOverflow if a value does not fit its field.
func Pack(q QuantizedValues) (Codeword, error) {
	p := packer{}
	p.unsigned(Layout[0], q.A)
	p.signed(Layout[1], q.B)
	p.signed(Layout[2], q.C)
	p.signed(Layout[3], q.D)
	p.unsigned(Layout[4], q.PbChroma)
	p.unsigned(Layout[5], q.PrChroma)
	if p.err != nil {
		return 0, p.err
	}
	return Codeword(p.word), nil
}

type packer struct {
	word uint64
	err  error
}

func (p *packer) unsigned(f Field, value uint64) {
	if p.err != nil {
		return
	}
	word, err := bitpack.NewUnsigned(p.word, f.Width, f.LSB, value)
	if err != nil {
		p.err = errors.Wrapf(err, "comp40: field %s", f.Name)
		return
	}
	p.word = word
}

func (p *packer) signed(f Field, value int64) {
	if p.err != nil {
		return
	}
	word, err := bitpack.NewSigned(p.word, f.Width, f.LSB, value)
	if err != nil {
		p.err = errors.Wrapf(err, "comp40: field %s", f.Name)
		return
	}
	p.word = word
}

// Unpack returns the values held in c. It is the inverse of Pack.
func Unpack(c Codeword) QuantizedValues {
	word := uint64(c)
	return QuantizedValues{
		A:        bitpack.GetUnsigned(word, aWidth, aLSB),
		B:        bitpack.GetSigned(word, bWidth, bLSB),
		C:        bitpack.GetSigned(word, cWidth, cLSB),
		D:        bitpack.GetSigned(word, dWidth, dLSB),
		PbChroma: bitpack.GetUnsigned(word, pbWidth, pbLSB),
		PrChroma: bitpack.GetUnsigned(word, prWidth, prLSB),
	}
}

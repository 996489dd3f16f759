// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package zwrap optionally wraps a byte stream in a Zstandard frame.
//
// Readers sniff the Zstandard magic number, so a wrapped and an unwrapped
// stream can be read through the same code path.
package zwrap

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Magic is the byte string prefix of every Zstandard frame.
const Magic = "\x28\xB5\x2F\xFD"

// NewWriter returns a WriteCloser that compresses to w. Close must be called
// to flush the frame. It does not close w.
func NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zwrap: new encoder")
	}
	return enc, nil
}

// NewReader returns a reader for r's payload, decompressing it if it starts
// with Magic. The returned release function frees the decoder and is always
// non-nil.
func NewReader(r io.Reader) (payload io.Reader, release func(), retErr error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(len(Magic))
	if (err != nil) || !bytes.Equal(prefix, []byte(Magic)) {
		// Too short to be wrapped, or not wrapped. Either way the caller's
		// own parser reports any problem.
		return br, func() {}, nil
	}

	dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "zwrap: new decoder")
	}
	return dec, dec.Close, nil
}

// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// comp40 compresses and decompresses the COMP40 lossy image file format.
package main

import (
	"flag"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nigeltao/comp40/internal/nie"
	"github.com/nigeltao/comp40/internal/zwrap"
	"github.com/nigeltao/comp40/lib/comp40"
	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	compressFlag   = flag.Bool("compress", false, "whether to compress the input")
	decompressFlag = flag.Bool("decompress", false, "whether to decompress the input")
	outputFlag     = flag.String("output", "", "output format")
	verboseFlag    = flag.Bool("v", false, "whether to log progress to stderr")
	zstdFlag       = flag.Bool("zstd", false, "whether to wrap the compressed output in a zstd frame")
)

const usageStr = `comp40 compresses and decompresses the COMP40 lossy image file format.

Usage: choose one of

    comp40 -compress [path]
    comp40 -decompress [path]

The path to the input file is optional. If omitted, stdin is read.

When compressing you can also pass this flag (before the path):

    -zstd (wrap the COMP40 stream in a Zstandard frame)

When decompressing you can also pass one of these flags (before the path):

    -output=bmp
    -output=nie-bn8
    -output=png
    -output=ppm (this is the default)
    -output=tiff

A zstd-wrapped COMP40 stream is detected and unwrapped automatically.

Pass -v to log dimensions, sizes and timings to stderr.

The output image is written to stdout.

Compress inputs BMP, GIF, JPEG, PNG, PPM, TIFF or WEBP and outputs COMP40.
Decompress inputs COMP40 and outputs BMP, NIE, PNG, PPM or TIFF.
`

var ErrBadOutputFlag = errors.New("main: bad -output flag")

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	if *compressFlag && !*decompressFlag {
		return compress(logger, inFile, os.Stdout)
	}
	if !*compressFlag && *decompressFlag {
		return decompress(logger, inFile, os.Stdout)
	}
	return errors.New("must specify exactly one of -compress, -decompress or -help")
}

func compress(logger *slog.Logger, r io.Reader, w io.Writer) error {
	switch *outputFlag {
	case "", "comp40":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	start := time.Now()
	src, format, err := image.Decode(r)
	if err != nil {
		return err
	}
	m, err := pnm.FromImage(src)
	if err != nil {
		return err
	}
	logger.Info("decoded input",
		"format", format,
		"width", m.Width,
		"height", m.Height,
		"denominator", m.Denominator,
	)

	cw := &countingWriter{w: w}
	if *zstdFlag {
		zw, err := zwrap.NewWriter(cw)
		if err != nil {
			return err
		}
		if err := comp40.Compress(zw, m); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	} else if err := comp40.Compress(cw, m); err != nil {
		return err
	}

	logger.Info("compressed",
		"blocks", (m.Width/2)*(m.Height/2),
		"bytes", cw.n,
		"zstd", *zstdFlag,
		"elapsed", time.Since(start),
	)
	return nil
}

func decompress(logger *slog.Logger, r io.Reader, w io.Writer) error {
	switch *outputFlag {
	case "", "ppm", "png", "bmp", "nie-bn8", "tiff":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	start := time.Now()
	payload, release, err := zwrap.NewReader(r)
	if err != nil {
		return err
	}
	defer release()

	m, err := comp40.Decompress(payload)
	if err != nil {
		return err
	}
	logger.Info("decompressed",
		"width", m.Width,
		"height", m.Height,
		"elapsed", time.Since(start),
	)

	switch *outputFlag {
	case "png":
		return png.Encode(w, m)
	case "bmp":
		return bmp.Encode(w, m)
	case "tiff":
		return tiff.Encode(w, m, nil)
	case "nie-bn8":
		dst, err := nie.EncodeBN8(m)
		if err != nil {
			return err
		}
		_, err = w.Write(dst)
		return err
	}
	return pnm.Write(w, m)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

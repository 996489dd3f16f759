// Copyright 2025 The Comp40 Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// ppmdiff prints the root mean square difference between two images.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/nigeltao/comp40/lib/pnm"
	"github.com/pkg/errors"

	_ "github.com/nigeltao/comp40/lib/comp40"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const usageStr = `ppmdiff prints the root mean square difference between two images.

Usage:

    ppmdiff path1 path2

At most one of the paths may be "-", meaning stdin.

Each sample is scaled to the range [0, 1] by its image's denominator, so the
result is in the range [0, 1]. The two images' widths and heights may each
differ by at most one; only the common area is compared.

Inputs can be BMP, COMP40, GIF, JPEG, PNG, PPM, TIFF or WEBP.
`

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("must specify exactly two filenames")
	} else if (flag.Arg(0) == "-") && (flag.Arg(1) == "-") {
		return errors.New("at most one filename may be \"-\"")
	}

	a, err := load(flag.Arg(0))
	if err != nil {
		return err
	}
	b, err := load(flag.Arg(1))
	if err != nil {
		return err
	}
	d, err := pnm.RMSDiff(a, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "%.4f\n", d)
	return err
}

func load(filename string) (*pnm.Pixmap, error) {
	r := io.Reader(os.Stdin)
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return pnm.FromImage(m)
}

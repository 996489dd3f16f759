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
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/nigeltao/comp40/internal/nie"
	"github.com/nigeltao/comp40/lib/comp40"
	"github.com/nigeltao/comp40/lib/pnm"
)

const srcDirName = "../0-original-ppm"

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	entries, err := os.ReadDir(srcDirName)
	if err != nil {
		return fmt.Errorf("os.ReadDir: %v", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".ppm") {
			continue
		}
		if err := do(name); err != nil {
			return err
		}
	}
	return nil
}

// do writes name's COMP40 encoding, the decompressed PPM and a NIE copy of
// the decompressed PPM, then prints the round trip's RMS difference.
func do(name string) error {
	f, err := os.Open(srcDirName + "/" + name)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()
	src, err := pnm.Read(f)
	if err != nil {
		return fmt.Errorf("pnm.Read: %v", err)
	}

	stem := name[:len(name)-3]
	compressed := &bytes.Buffer{}
	if err := comp40.Compress(compressed, src); err != nil {
		return fmt.Errorf("comp40.Compress: %v", err)
	}
	if err := os.WriteFile(stem+"comp40", compressed.Bytes(), 0666); err != nil {
		return fmt.Errorf("os.WriteFile: %v", err)
	}

	dst, err := comp40.Decompress(bytes.NewReader(compressed.Bytes()))
	if err != nil {
		return fmt.Errorf("comp40.Decompress: %v", err)
	}
	decompressed := &bytes.Buffer{}
	if err := pnm.Write(decompressed, dst); err != nil {
		return fmt.Errorf("pnm.Write: %v", err)
	}
	if err := os.WriteFile(stem+"ppm", decompressed.Bytes(), 0666); err != nil {
		return fmt.Errorf("os.WriteFile: %v", err)
	}

	enc, err := nie.EncodeBN8(dst)
	if err != nil {
		return fmt.Errorf("nie.EncodeBN8: %v", err)
	}
	if err := os.WriteFile(stem+"nie", enc, 0666); err != nil {
		return fmt.Errorf("os.WriteFile: %v", err)
	}

	d, err := pnm.RMSDiff(src, dst)
	if err != nil {
		return fmt.Errorf("pnm.RMSDiff: %v", err)
	}
	fmt.Printf("%s: %d bytes in, %d bytes out, RMS difference %.4f\n",
		name, src.Width*src.Height*3, compressed.Len(), d)
	return nil
}

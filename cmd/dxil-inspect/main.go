// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command dxil-inspect decodes a compiled DXBC shader container and prints
// a human-readable listing of its LLVM bitcode to stdout.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/llvmbc/dxil-inspect/bitstream"
	"github.com/llvmbc/dxil-inspect/dxbc"
	"github.com/llvmbc/dxil-inspect/render"
)

const (
	exitSuccess      = 0
	exitMissingArg   = 1
	exitIOFailure    = 2
	exitBadContainer = 3
	exitNoBitcode    = 4
)

func main() {
	log.SetPrefix("dxil-inspect: ")
	log.SetFlags(0)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dxil-inspect <file>")
		os.Exit(exitMissingArg)
	}

	os.Exit(run(os.Args[1]))
}

func run(path string) int {
	buf, err := os.ReadFile(path)
	if err != nil {
		log.Printf("%v", err)
		return exitIOFailure
	}

	container, err := dxbc.Parse(buf)
	if err != nil {
		log.Printf("%v", err)
		return exitBadContainer
	}

	fourcc, payload, ok := container.BitcodeChunk()
	if !ok {
		log.Printf("no DXIL or ILDB chunk in container")
		return exitNoBitcode
	}

	header, bitcode, err := dxbc.ParseProgramHeader(payload)
	if err != nil {
		log.Printf("%s chunk: %v", fourcc, err)
		return exitBadContainer
	}

	root, trailing, err := bitstream.Decode(bitcode)
	if err != nil {
		log.Printf("decoding bitcode: %v", err)
		return exitBadContainer
	}
	if !bitstream.AllZero(trailing) {
		log.Printf("decoding bitcode: %d trailing bytes after top-level block are not all zero", len(trailing))
		return exitBadContainer
	}

	p := render.Program{Header: header, Root: root}

	if dn, found, err := container.DebugName(); err != nil {
		log.Printf("ILDN chunk: %v", err)
	} else if found {
		p.DebugName = &dn
	}

	if feat, found, err := container.Features(); err != nil {
		log.Printf("SFI0 chunk: %v", err)
	} else if found {
		p.Features = &feat
	}

	if err := render.Render(os.Stdout, p); err != nil {
		log.Printf("%v", err)
		return exitBadContainer
	}
	return exitSuccess
}

// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package render

import (
	"fmt"
	"io"

	"github.com/dsnet/golib/strconv"

	"github.com/llvmbc/dxil-inspect/bitstream"
	"github.com/llvmbc/dxil-inspect/dxbc"
)

// Program is everything Render needs to produce a listing: the decoded
// program header, the optional debug name and feature bits a DXBC
// container may carry alongside the bitcode, and the bitcode's decoded
// top-level block.
type Program struct {
	Header    dxbc.ProgramHeader
	Root      bitstream.Node
	DebugName *dxbc.DebugName
	Features  *dxbc.Features
}

// Render writes the full text listing for p: a shader-kind banner, the
// module's target triple and datalayout, its value symbol table, a
// best-effort metadata pretty-printer, and finally a complete indented
// dump of the block tree.
func Render(w io.Writer, p Program) error {
	if !p.Root.IsBlock || p.Root.ID != ModuleBlock {
		return fmt.Errorf("render: top-level block is not MODULE_BLOCK")
	}

	fmt.Fprintf(w, "; %s Shader, compiled under SM%d.%d\n",
		p.Header.ShaderKind(), p.Header.ShaderModelMajor(), p.Header.ShaderModelMinor())

	if p.DebugName != nil {
		fmt.Fprintf(w, "; shader debug name: %s\n;\n", p.DebugName.Name)
	}
	if p.Features != nil {
		if names := p.Features.Strings(); len(names) > 0 {
			fmt.Fprintf(w, "; optional features: %s\n", joinStrings(names, ", "))
		}
	}
	fmt.Fprintf(w, "; bitcode size: %s\n", strconv.FormatPrefix(float64(p.Header.BitcodeSize), strconv.Base1024, 1))

	for _, child := range p.Root.Children {
		switch {
		case !child.IsBlock && child.ID == ModuleTriple:
			fmt.Fprintf(w, "target triple = %q\n", getString(child.Operands))
		case !child.IsBlock && child.ID == ModuleDatalayout:
			fmt.Fprintf(w, "target datalayout = %q\n", getString(child.Operands))
		case child.IsBlock && child.ID == ValueSymtabBlock:
			for _, sym := range child.Children {
				if len(sym.Operands) == 0 {
					continue
				}
				fmt.Fprintf(w, "function %d is %q\n", sym.Operands[0], getString(sym.Operands[1:]))
			}
		case child.IsBlock && child.ID == MetadataBlock:
			renderMetadata(w, child)
		}
	}
	io.WriteString(w, "\n")

	DumpBlock(w, p.Root, 0)
	return nil
}

func joinStrings(ss []string, sep string) string {
	out := ss[0]
	for _, s := range ss[1:] {
		out += sep + s
	}
	return out
}

// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/llvmbc/dxil-inspect/bitstream"
	"github.com/llvmbc/dxil-inspect/dxbc"
	"github.com/llvmbc/dxil-inspect/render"
)

func TestRenderBannerAndTriple(t *testing.T) {
	root := bitstream.Node{
		IsBlock: true,
		ID:      render.ModuleBlock,
		Children: []bitstream.Node{
			{ID: render.ModuleTriple, Operands: stringOps("dxil-ms-dx")},
			{ID: render.ModuleDatalayout, Operands: stringOps("e-m:e")},
		},
	}
	p := render.Program{
		Header: mustHeader(t, 5 /* Compute */, 0x61),
		Root:   root,
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Compute Shader, compiled under SM6.1") {
		t.Fatalf("missing banner, got:\n%s", out)
	}
	if !strings.Contains(out, `target triple = "dxil-ms-dx"`) {
		t.Fatalf("missing triple, got:\n%s", out)
	}
	if !strings.Contains(out, `target datalayout = "e-m:e"`) {
		t.Fatalf("missing datalayout, got:\n%s", out)
	}
}

func TestRenderRejectsNonModuleRoot(t *testing.T) {
	root := bitstream.Node{IsBlock: true, ID: render.ConstantsBlock}
	p := render.Program{Header: mustHeader(t, 0, 0x60), Root: root}
	if err := render.Render(bytesDiscard{}, p); err == nil {
		t.Fatal("expected error for non-MODULE_BLOCK root")
	}
}

func TestDumpBlockNamesKnownAndUnknownIDs(t *testing.T) {
	root := bitstream.Node{
		IsBlock:          true,
		ID:               render.ModuleBlock,
		BlockDwordLength: 3,
		Children: []bitstream.Node{
			{ID: render.ModuleVersion, Operands: []uint64{1}},
			{ID: 999, Operands: []uint64{7}},
		},
	}
	var buf bytes.Buffer
	render.DumpBlock(&buf, root, 0)
	out := buf.String()
	if !strings.Contains(out, "<MODULE_BLOCK NumWords=3>") {
		t.Fatalf("missing block open tag, got:\n%s", out)
	}
	if !strings.Contains(out, "<VERSION op0=1/>") {
		t.Fatalf("missing known record name, got:\n%s", out)
	}
	if !strings.Contains(out, "<RECORD999 op0=7/>") {
		t.Fatalf("missing unknown record fallback, got:\n%s", out)
	}
}

func TestDumpRecordEscapesMetadataStrings(t *testing.T) {
	n := bitstream.Node{ID: render.MetaStringOld, Operands: stringOps("it's a \\test\x01")}
	var buf bytes.Buffer
	render.DumpRecord(&buf, render.MetadataBlock, n, 0)
	got := buf.String()
	want := `<STRING_OLD record string = 'it\'s a \\test\x01'/>` + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func stringOps(s string) []uint64 {
	ops := make([]uint64, len(s))
	for i := range s {
		ops[i] = uint64(s[i])
	}
	return ops
}

func mustHeader(t *testing.T, programType uint16, version uint16) dxbc.ProgramHeader {
	t.Helper()
	return dxbc.ProgramHeader{ProgramType: programType, ProgramVersion: version}
}

type bytesDiscard struct{}

func (bytesDiscard) Write(p []byte) (int, error) { return len(p), nil }

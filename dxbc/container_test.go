// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dxbc_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/llvmbc/dxil-inspect/dxbc"
)

// fileBuilder assembles a well-formed DXBC container byte-by-byte, the way
// a test fixture needs to rather than the way a compiler would.
type fileBuilder struct {
	chunks [][]byte // each is a complete fourcc+len+payload chunk
}

func (b *fileBuilder) addChunk(fourcc string, payload []byte) {
	var buf bytes.Buffer
	buf.WriteString(fourcc)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	b.chunks = append(b.chunks, buf.Bytes())
}

func (b *fileBuilder) bytes() []byte {
	const headerSize = 4 + 16 + 2 + 2 + 4 + 4
	offsetsSize := len(b.chunks) * 4

	var body bytes.Buffer
	offset := uint32(headerSize + offsetsSize)
	offsets := make([]uint32, len(b.chunks))
	for i, ch := range b.chunks {
		offsets[i] = offset
		body.Write(ch)
		offset += uint32(len(ch))
	}

	var buf bytes.Buffer
	buf.WriteString("DXBC")
	buf.Write(make([]byte, 16)) // hash
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	total := uint32(headerSize+offsetsSize) + uint32(body.Len())
	binary.Write(&buf, binary.LittleEndian, total)
	binary.Write(&buf, binary.LittleEndian, uint32(len(b.chunks)))
	for _, off := range offsets {
		binary.Write(&buf, binary.LittleEndian, off)
	}
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func programHeaderBytes(t *testing.T, programType uint16, bitcode []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x61)) // SM 6.1
	binary.Write(&buf, binary.LittleEndian, programType)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // SizeInUint32, unchecked
	buf.WriteString("DXIL")
	binary.Write(&buf, binary.LittleEndian, uint32(1))  // DxilVersion
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // BitcodeOffset from DxilMagic, right after BitcodeSize
	binary.Write(&buf, binary.LittleEndian, uint32(len(bitcode)))
	buf.Write(bitcode)
	return buf.Bytes()
}

func TestParseRoundTrip(t *testing.T) {
	bitcode := []byte{0xDE, 0xC0, 0x17, 0x0B, 0, 0, 0, 0} // not a real bitstream, just bytes

	var b fileBuilder
	b.addChunk("DXIL", programHeaderBytes(t, 0 /* Pixel */, bitcode))
	b.addChunk("SFI0", []byte{0x05, 0, 0, 0, 0, 0, 0, 0}) // bits 0 and 2
	b.addChunk("ILDN", ildnBytes("shader.pdb"))

	c, err := dxbc.Parse(b.bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(c.Chunks()); got != 3 {
		t.Fatalf("got %d chunks, want 3", got)
	}

	fourcc, payload, ok := c.BitcodeChunk()
	if !ok || fourcc != "DXIL" {
		t.Fatalf("BitcodeChunk: fourcc=%q ok=%v", fourcc, ok)
	}
	hdr, bc, err := dxbc.ParseProgramHeader(payload)
	if err != nil {
		t.Fatalf("ParseProgramHeader: %v", err)
	}
	if hdr.ShaderKind() != "Pixel" {
		t.Fatalf("ShaderKind() = %q, want Pixel", hdr.ShaderKind())
	}
	if hdr.ShaderModelMajor() != 6 || hdr.ShaderModelMinor() != 1 {
		t.Fatalf("shader model = %d.%d, want 6.1", hdr.ShaderModelMajor(), hdr.ShaderModelMinor())
	}
	if !bytes.Equal(bc, bitcode) {
		t.Fatalf("bitcode slice = %x, want %x", bc, bitcode)
	}

	feat, found, err := c.Features()
	if err != nil || !found {
		t.Fatalf("Features: found=%v err=%v", found, err)
	}
	want := []string{"Double_precision_floating_point", "UAVs_at_every_shader_stage"}
	if got := feat.Strings(); !equalStrs(got, want) {
		t.Fatalf("Features.Strings() = %v, want %v", got, want)
	}

	dn, found, err := c.DebugName()
	if err != nil || !found {
		t.Fatalf("DebugName: found=%v err=%v", found, err)
	}
	if dn.Name != "shader.pdb" {
		t.Fatalf("DebugName.Name = %q, want shader.pdb", dn.Name)
	}
}

func TestParsePrefersILDBOverDXIL(t *testing.T) {
	release := programHeaderBytes(t, 1, []byte{1, 2, 3, 4})
	debug := programHeaderBytes(t, 1, []byte{5, 6, 7, 8})

	var b fileBuilder
	b.addChunk("DXIL", release)
	b.addChunk("ILDB", debug)

	c, err := dxbc.Parse(b.bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fourcc, _, ok := c.BitcodeChunk()
	if !ok || fourcc != "ILDB" {
		t.Fatalf("BitcodeChunk: fourcc=%q ok=%v, want ILDB", fourcc, ok)
	}
}

func TestParseRejectsBadFourCC(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf, "XXXX")
	if _, err := dxbc.Parse(buf); err == nil {
		t.Fatal("expected error for bad fourcc")
	}
}

func TestParseRejectsLengthMismatch(t *testing.T) {
	var b fileBuilder
	b.addChunk("DXIL", programHeaderBytes(t, 0, nil))
	buf := b.bytes()
	buf = append(buf, 0, 0, 0, 0) // pad past the declared length
	if _, err := dxbc.Parse(buf); err == nil {
		t.Fatal("expected error for file length mismatch")
	}
}

func TestParseNoBitcodeChunk(t *testing.T) {
	var b fileBuilder
	b.addChunk("RDEF", []byte{1, 2, 3, 4})
	c, err := dxbc.Parse(b.bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, ok := c.BitcodeChunk(); ok {
		t.Fatal("BitcodeChunk: ok=true, want false")
	}
}

func ildnBytes(name string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(len(name)+1))
	buf.WriteString(name)
	buf.WriteByte(0)
	return buf.Bytes()
}

func equalStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

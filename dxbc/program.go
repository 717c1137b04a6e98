// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dxbc

import (
	"bytes"
	"encoding/binary"

	"github.com/dsnet/golib/ioutil"

	"github.com/llvmbc/dxil-inspect/bitstream"
)

// dxilMagicOffset is the byte offset of the DxilMagic field within the
// ProgramHeader; BitcodeOffset is measured from this field, not from the
// start of the chunk.
const dxilMagicOffset = 8

const programHeaderSize = dxilMagicOffset + 4 + 4 + 4 + 4 // DxilMagic, DxilVersion, BitcodeOffset, BitcodeSize

// ShaderKinds names the index carried in ProgramHeader.ProgramType.
var ShaderKinds = []string{
	"Pixel", "Vertex", "Geometry", "Hull", "Domain",
	"Compute", "Library", "RayGeneration", "Intersection", "AnyHit",
	"ClosestHit", "Miss", "Callable", "Mesh", "Amplification",
}

// ProgramHeader is the small fixed prologue that begins the bitcode
// chunk's payload, ahead of the raw LLVM bitstream.
type ProgramHeader struct {
	ProgramVersion uint16
	ProgramType    uint16
	SizeInUint32   uint32
	DxilMagic      [4]byte
	DxilVersion    uint32
	BitcodeOffset  uint32
	BitcodeSize    uint32
}

// ShaderKind names ProgramType, or "" if it's out of range.
func (h ProgramHeader) ShaderKind() string {
	if int(h.ProgramType) >= len(ShaderKinds) {
		return ""
	}
	return ShaderKinds[h.ProgramType]
}

// ShaderModelMajor and ShaderModelMinor unpack ProgramVersion's nibbles.
func (h ProgramHeader) ShaderModelMajor() uint16 { return (h.ProgramVersion & 0xf0) >> 4 }
func (h ProgramHeader) ShaderModelMinor() uint16 { return h.ProgramVersion & 0xf }

// ParseProgramHeader decodes the ProgramHeader prologue from payload and
// returns it along with the bitcode byte slice it locates, validating that
// BitcodeOffset+BitcodeSize exactly accounts for the remainder of payload
// past the header's DxilMagic field.
func ParseProgramHeader(payload []byte) (ProgramHeader, []byte, error) {
	if len(payload) < programHeaderSize {
		return ProgramHeader{}, nil, bitstream.NewError(bitstream.Truncated, 0,
			"bitcode chunk shorter than the program header (%d bytes)", programHeaderSize)
	}

	var consumed bytes.Buffer
	rd := &ioutil.TeeByteReader{R: bytes.NewReader(payload), W: &consumed}

	var h ProgramHeader
	fields := []interface{}{
		&h.ProgramVersion, &h.ProgramType, &h.SizeInUint32,
	}
	for _, f := range fields {
		if err := binary.Read(byteReader{rd}, binary.LittleEndian, f); err != nil {
			return ProgramHeader{}, nil, bitstream.NewError(bitstream.Truncated, consumed.Len(),
				"reading program header: %v (consumed %x)", err, consumed.Bytes())
		}
	}
	if err := binary.Read(byteReader{rd}, binary.LittleEndian, &h.DxilMagic); err != nil {
		return ProgramHeader{}, nil, bitstream.NewError(bitstream.Truncated, consumed.Len(),
			"reading DxilMagic: %v", err)
	}
	if string(h.DxilMagic[:]) != fourccDXIL {
		return ProgramHeader{}, nil, bitstream.NewError(bitstream.BadMagic, dxilMagicOffset,
			"expected DXIL magic in program header, got %q", h.DxilMagic[:])
	}
	for _, f := range []interface{}{&h.DxilVersion, &h.BitcodeOffset, &h.BitcodeSize} {
		if err := binary.Read(byteReader{rd}, binary.LittleEndian, f); err != nil {
			return ProgramHeader{}, nil, bitstream.NewError(bitstream.Truncated, consumed.Len(),
				"reading program header: %v", err)
		}
	}

	wantLen := uint64(dxilMagicOffset) + uint64(h.BitcodeOffset) + uint64(h.BitcodeSize)
	if wantLen != uint64(len(payload)) {
		return ProgramHeader{}, nil, bitstream.NewError(bitstream.ContainerInvalid, programHeaderSize,
			"bitcode offset+size (%d) does not account for the chunk's %d remaining bytes",
			uint64(h.BitcodeOffset)+uint64(h.BitcodeSize), len(payload)-dxilMagicOffset)
	}

	start := dxilMagicOffset + int(h.BitcodeOffset)
	return h, payload[start : start+int(h.BitcodeSize)], nil
}

// byteReader adapts an io.ByteReader to io.Reader, since binary.Read
// requires Read and ioutil.TeeByteReader only implements ReadByte.
type byteReader struct {
	r interface {
		ReadByte() (byte, error)
	}
}

func (b byteReader) Read(p []byte) (int, error) {
	for i := range p {
		c, err := b.r.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package dxbc walks a DXBC ("DirectX Bytecode") container: a small
// fixed header followed by an array of tagged chunks. It locates the
// chunk carrying the compiled shader's LLVM bitcode and decodes the small
// fixed-layout headers that precede or accompany it — the bitstream
// payload itself is handed off to package bitstream.
package dxbc

import (
	"encoding/binary"

	"github.com/llvmbc/dxil-inspect/bitstream"
)

const (
	fourccDXBC = "DXBC"
	fourccDXIL = "DXIL"
	fourccILDB = "ILDB"
	fourccILDN = "ILDN"
	fourccSFI0 = "SFI0"

	fileHeaderSize  = 4 + 16 + 2 + 2 + 4 + 4 // fourcc, hash, major, minor, fileLength, numChunks
	chunkHeaderSize = 4 + 4                  // fourcc, dataLength
)

// Chunk is one tagged chunk of a DXBC container.
type Chunk struct {
	FourCC  string
	Payload []byte
}

// Container is a parsed DXBC file header plus its chunk table.
type Container struct {
	MajorVersion uint16
	MinorVersion uint16
	Hash         [16]byte

	chunks []Chunk
}

// Parse validates buf's DXBC header (fourcc, declared file length) and
// walks its chunk offset table, returning a Container with every chunk
// decoded by fourcc and payload, in declared order.
func Parse(buf []byte) (*Container, error) {
	if len(buf) < fileHeaderSize {
		return nil, bitstream.NewError(bitstream.ContainerInvalid, 0, "container shorter than its fixed header")
	}
	if string(buf[0:4]) != fourccDXBC {
		return nil, bitstream.NewError(bitstream.ContainerInvalid, 0, "missing DXBC fourcc")
	}

	var c Container
	copy(c.Hash[:], buf[4:20])
	c.MajorVersion = binary.LittleEndian.Uint16(buf[20:22])
	c.MinorVersion = binary.LittleEndian.Uint16(buf[22:24])
	fileLength := binary.LittleEndian.Uint32(buf[24:28])
	numChunks := binary.LittleEndian.Uint32(buf[28:32])

	if uint64(fileLength) != uint64(len(buf)) {
		return nil, bitstream.NewError(bitstream.ContainerInvalid, 24,
			"declared file length %d does not match buffer length %d", fileLength, len(buf))
	}

	offsetsStart := fileHeaderSize
	offsetsEnd := offsetsStart + int(numChunks)*4
	if offsetsEnd > len(buf) {
		return nil, bitstream.NewError(bitstream.ContainerInvalid, offsetsStart,
			"chunk offset table runs past end of buffer")
	}

	for i := uint32(0); i < numChunks; i++ {
		offset := binary.LittleEndian.Uint32(buf[offsetsStart+int(i)*4 : offsetsStart+int(i)*4+4])
		chunk, err := parseChunk(buf, int(offset))
		if err != nil {
			return nil, err
		}
		c.chunks = append(c.chunks, chunk)
	}

	return &c, nil
}

func parseChunk(buf []byte, offset int) (Chunk, error) {
	if offset < 0 || offset+chunkHeaderSize > len(buf) {
		return Chunk{}, bitstream.NewError(bitstream.ContainerInvalid, offset, "chunk header runs past end of buffer")
	}
	fourcc := string(buf[offset : offset+4])
	dataLength := binary.LittleEndian.Uint32(buf[offset+4 : offset+8])

	payloadStart := offset + chunkHeaderSize
	payloadEnd := payloadStart + int(dataLength)
	if payloadEnd > len(buf) {
		return Chunk{}, bitstream.NewError(bitstream.ContainerInvalid, offset,
			"chunk %q declares %d bytes, runs past end of buffer", fourcc, dataLength)
	}

	return Chunk{FourCC: fourcc, Payload: buf[payloadStart:payloadEnd]}, nil
}

// Chunks returns every chunk in the container, in declared order,
// including ones the inspector doesn't otherwise interpret (e.g. RDEF,
// ISGN, OSGN, STAT, PSV0). Only the four chunks handled below are decoded;
// package render does not list the others.
func (c *Container) Chunks() []Chunk { return c.chunks }

// find returns the first chunk with the given fourcc, if any.
func (c *Container) find(fourcc string) (Chunk, bool) {
	for _, ch := range c.chunks {
		if ch.FourCC == fourcc {
			return ch, true
		}
	}
	return Chunk{}, false
}

// BitcodeChunk returns the chunk that should be fed to the bitstream
// decoder: the debug-info chunk (ILDB) if present, otherwise the release
// chunk (DXIL). ok is false if neither is present.
func (c *Container) BitcodeChunk() (fourcc string, payload []byte, ok bool) {
	if ch, found := c.find(fourccILDB); found {
		return ch.FourCC, ch.Payload, true
	}
	if ch, found := c.find(fourccDXIL); found {
		return ch.FourCC, ch.Payload, true
	}
	return "", nil, false
}

// Features returns the parsed SFI0 chunk, if present.
func (c *Container) Features() (Features, bool, error) {
	ch, found := c.find(fourccSFI0)
	if !found {
		return 0, false, nil
	}
	f, err := ParseFeatures(ch.Payload)
	return f, true, err
}

// DebugName returns the parsed ILDN chunk, if present.
func (c *Container) DebugName() (DebugName, bool, error) {
	ch, found := c.find(fourccILDN)
	if !found {
		return DebugName{}, false, nil
	}
	dn, err := ParseDebugName(ch.Payload)
	return dn, true, err
}

// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dxbc

import (
	"encoding/binary"

	"github.com/llvmbc/dxil-inspect/bitstream"
)

const debugNameHeaderSize = 2 + 2 // Flags, NameLength

// DebugName is the decoded ILDN chunk: a reference to the PDB file that
// holds the shader's debug information.
type DebugName struct {
	Flags uint16
	Name  string
}

// ParseDebugName decodes an ILDN chunk payload: a 16-bit flags field, a
// 16-bit name length, then that many bytes of name.
func ParseDebugName(payload []byte) (DebugName, error) {
	if len(payload) < debugNameHeaderSize {
		return DebugName{}, bitstream.NewError(bitstream.Truncated, 0,
			"ILDN chunk shorter than its fixed header")
	}
	flags := binary.LittleEndian.Uint16(payload[0:2])
	nameLen := binary.LittleEndian.Uint16(payload[2:4])

	end := debugNameHeaderSize + int(nameLen)
	if end > len(payload) {
		return DebugName{}, bitstream.NewError(bitstream.Truncated, debugNameHeaderSize,
			"ILDN name length %d runs past end of chunk", nameLen)
	}
	name := payload[debugNameHeaderSize:end]
	// The name is conventionally NUL-terminated; trim a trailing NUL if
	// nameLen counted it.
	if len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	return DebugName{Flags: flags, Name: string(name)}, nil
}

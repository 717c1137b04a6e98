// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitstream

// Node is a decoded bitstream tree node: exactly one of a Block or a
// Record. IsBlock discriminates the two explicitly, rather than inferring
// it from BlockDwordLength, since a Block's id may legitimately be zero
// (the BLOCKINFO block).
type Node struct {
	IsBlock bool
	ID      uint32

	// BlockDwordLength is the block's declared length in 32-bit words.
	// Meaningful only when IsBlock is true.
	BlockDwordLength uint32
	// Children holds the block's nested blocks and records, in the order
	// they were decoded. Meaningful only when IsBlock is true.
	Children []Node

	// Operands holds a record's operand values. Meaningful only when
	// IsBlock is false.
	Operands []uint64
	// Blob borrows the record's trailing blob bytes, if its abbreviation
	// ended in a Blob parameter. Meaningful only when IsBlock is false.
	// The slice is only valid while the decoded byte buffer is retained.
	Blob []byte
}

// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitstream

// Encoding identifies how a single abbreviation parameter is decoded from
// the bitstream. The on-wire form is only 3 bits (Fixed, VBR, Array,
// Char6, Blob); Literal is a value the decoder synthesizes itself when the
// DEFINE_ABBREV literal flag is set, so it has no 3-bit on-wire code of
// its own and is given a value outside that range.
type Encoding uint8

const (
	EncodingFixed Encoding = 1
	EncodingVBR   Encoding = 2
	EncodingArray Encoding = 3
	EncodingChar6 Encoding = 4
	EncodingBlob  Encoding = 5
	EncodingLiteral Encoding = 8
)

// AbbrevParam is one parameter of an abbreviation descriptor. Value holds
// the literal value for Literal parameters, or the bit width/chunk width
// for Fixed/VBR parameters; it is unused for Array, Char6, and Blob.
type AbbrevParam struct {
	Encoding Encoding
	Value    uint64
}

// AbbrevDesc is a user-defined abbreviation: an ordered list of operand
// parameters, the first of which supplies the decoded record's id.
type AbbrevDesc struct {
	Params []AbbrevParam
}

// blockInfo holds the abbreviations permanently registered against a
// block id via the BLOCKINFO block. It persists for the lifetime of a
// decode.
type blockInfo struct {
	Abbrevs []AbbrevDesc
}

// blockContext is a stack frame for a currently open block: its
// abbreviation id width, and the abbreviations defined locally within
// this block instance (as opposed to inherited from BLOCKINFO).
type blockContext struct {
	AbbrevWidth uint
	Abbrevs     []AbbrevDesc
}

// Reserved abbreviation ids, valid at every abbreviation width.
const (
	abbrevEndBlock        = 0
	abbrevEnterSubblock   = 1
	abbrevDefineAbbrev    = 2
	abbrevUnabbrevRecord  = 3
	firstApplicationAbbrev = 4
)

// blockinfo record codes, used only while decoding inside block id 0.
const (
	blockInfoSetBID        = 1
	blockInfoBlockName     = 2
	blockInfoSetRecordName = 3
)

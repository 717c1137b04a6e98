// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitstream decodes the LLVM bitstream container format: a
// variable-width, bit-level encoding of nested blocks and records with
// user-defined abbreviations. It produces a structural parse tree only —
// it does not interpret instruction opcodes, reconstruct LLVM IR, resolve
// type or value symbol tables, or validate cross-record references.
package bitstream

import "github.com/dsnet/golib/errs"

// bitcodeMagic is the four-byte bitcode magic 'B','C',0xC0,0xDE, read as a
// 32-bit fixed value (least significant byte first).
const bitcodeMagic = 0x42 | 0x43<<8 | 0xC0<<16 | 0xDE<<24

// maxNestingDepth bounds recursive block decoding against pathological or
// adversarial input; the format itself has no inherent nesting limit.
const maxNestingDepth = 1000

type decoder struct {
	cursor     *Cursor
	blockStack []blockContext
	blockInfo  map[uint32]*blockInfo
	depth      int
}

// Decode parses a complete LLVM bitstream from data: the four-byte magic
// followed by exactly one top-level block. It returns the decoded tree
// along with whatever bytes remained after that block closed (callers that
// want the strict "nothing but aligned zero padding follows" reading can
// check those bytes themselves; Decode does not fail on nonzero trailing
// bytes, since callers with an externally-known chunk size may legitimately
// have padding there).
func Decode(data []byte) (root Node, trailing []byte, err error) {
	defer errs.Recover(&err)

	c := NewCursor(data)
	d := &decoder{cursor: c, blockInfo: make(map[uint32]*blockInfo)}

	magic := c.ReadFixed(32)
	errs.Assert(magic == bitcodeMagic, newError(BadMagic, 0, "bitstream magic mismatch"))

	abbrevID := c.ReadFixed(d.abbrevSize())
	errs.Assert(abbrevID == abbrevEnterSubblock,
		newError(NestingViolation, c.ByteOffset(), "expected ENTER_SUBBLOCK to open the top-level block"))

	root = d.decodeBlock()
	trailing = c.buf[c.pos:]
	return root, trailing, nil
}

// AllZero reports whether every byte in b is zero. It's a helper for
// callers that want the strict reading of trailing bytes after the
// top-level block: that they are pure alignment padding.
func AllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// abbrevSize returns the abbreviation id width for the currently open
// block, or 2 (the bootstrap width used to read the very first
// ENTER_SUBBLOCK) if no block is open.
func (d *decoder) abbrevSize() uint {
	if len(d.blockStack) == 0 {
		return 2
	}
	return d.blockStack[len(d.blockStack)-1].AbbrevWidth
}

// decodeBlock decodes the body of a block whose ENTER_SUBBLOCK abbreviation
// id has already been consumed by the caller: the block id, the new
// abbreviation width, the declared word length, and then the sequence of
// abbreviation ids up to and including the matching END_BLOCK.
func (d *decoder) decodeBlock() Node {
	c := d.cursor

	blockID := uint32(c.ReadVBR(8))
	width := uint(c.ReadVBR(4))
	errs.Assert(width > 0, newError(BadAbbrev, c.ByteOffset(), "block %d declares a zero abbreviation width", blockID))
	d.blockStack = append(d.blockStack, blockContext{AbbrevWidth: width})

	c.AlignTo32Bits()
	length := uint32(c.ReadFixed(32))

	block := Node{IsBlock: true, ID: blockID, BlockDwordLength: length}

	// curInfo tracks the BLOCKINFO target selected by the most recent
	// SETBID record, used only while blockID == 0.
	var curInfo *blockInfo

	for {
		errs.Assert(!c.AtEnd(),
			newError(NestingViolation, c.ByteOffset(), "unexpected end of stream with block %d still open", blockID))

		abbrevID := uint32(c.ReadFixed(d.abbrevSize()))

		switch {
		case abbrevID == abbrevEndBlock:
			c.AlignTo32Bits()
			d.blockStack = d.blockStack[:len(d.blockStack)-1]
			return block

		case abbrevID == abbrevEnterSubblock:
			d.depth++
			errs.Assert(d.depth <= maxNestingDepth,
				newError(NestingViolation, c.ByteOffset(), "block nesting exceeds %d levels", maxNestingDepth))
			child := d.decodeBlock()
			d.depth--
			block.Children = append(block.Children, child)

		case abbrevID == abbrevDefineAbbrev:
			desc := d.readAbbrevDesc()
			if curInfo != nil {
				curInfo.Abbrevs = append(curInfo.Abbrevs, desc)
			} else {
				top := len(d.blockStack) - 1
				d.blockStack[top].Abbrevs = append(d.blockStack[top].Abbrevs, desc)
			}

		case abbrevID == abbrevUnabbrevRecord:
			recID := uint32(c.ReadVBR(6))
			count := c.ReadVBR(6)
			ops := make([]uint64, 0, count)
			for i := uint64(0); i < count; i++ {
				ops = append(ops, c.ReadVBR(6))
			}

			if blockID == 0 { // BLOCKINFO
				switch recID {
				case blockInfoSetBID:
					errs.Assert(len(ops) >= 1, newError(BadAbbrev, c.ByteOffset(), "SETBID with no operand"))
					target := uint32(ops[0])
					info := d.blockInfo[target]
					if info == nil {
						info = &blockInfo{}
						d.blockInfo[target] = info
					}
					curInfo = info
				case blockInfoBlockName, blockInfoSetRecordName:
					// Block and record names are not surfaced by the renderer.
				}
			}

			block.Children = append(block.Children, Node{IsBlock: false, ID: recID, Operands: ops})

		default:
			desc := d.getAbbrev(blockID, abbrevID)
			block.Children = append(block.Children, d.decodeAbbreviatedRecord(desc))
		}
	}
}

// getAbbrev resolves an abbreviation id (>=4) against the permanent
// descriptors registered for blockID in BLOCKINFO, then against the
// descriptors defined locally in the currently open block instance.
func (d *decoder) getAbbrev(blockID, abbrevID uint32) AbbrevDesc {
	errs.Assert(abbrevID >= firstApplicationAbbrev,
		newError(BadAbbrev, d.cursor.ByteOffset(), "abbreviation id %d below first application id", abbrevID))

	idx := abbrevID - firstApplicationAbbrev

	if info := d.blockInfo[blockID]; info != nil {
		if int(idx) < len(info.Abbrevs) {
			return info.Abbrevs[idx]
		}
		idx -= uint32(len(info.Abbrevs))
	}

	errs.Assert(len(d.blockStack) > 0, newError(BadAbbrev, d.cursor.ByteOffset(), "no open block for abbreviation id %d", abbrevID))
	top := d.blockStack[len(d.blockStack)-1]
	errs.Assert(int(idx) < len(top.Abbrevs),
		newError(BadAbbrev, d.cursor.ByteOffset(), "abbreviation id %d has no descriptor in block %d", abbrevID, blockID))
	return top.Abbrevs[idx]
}

// decodeAbbreviatedRecord decodes one record using desc: the first
// parameter supplies the record id, and each subsequent parameter appends
// one operand except Array and Blob, which are terminal.
func (d *decoder) decodeAbbreviatedRecord(desc AbbrevDesc) Node {
	errs.Assert(len(desc.Params) > 0, newError(BadAbbrev, d.cursor.ByteOffset(), "abbreviation with no parameters"))

	rec := Node{IsBlock: false, ID: uint32(d.decodeAbbrevParam(desc.Params[0]))}

	for i := 1; i < len(desc.Params); i++ {
		param := desc.Params[i]

		switch param.Encoding {
		case EncodingArray:
			errs.Assert(i+1 == len(desc.Params)-1,
				newError(BadAbbrev, d.cursor.ByteOffset(), "Array must be followed by exactly one terminal element type"))
			elType := desc.Params[i+1]
			n := d.cursor.ReadVBR(6)
			for el := uint64(0); el < n; el++ {
				rec.Operands = append(rec.Operands, d.decodeAbbrevParam(elType))
			}
			return rec

		case EncodingBlob:
			errs.Assert(i == len(desc.Params)-1, newError(BadAbbrev, d.cursor.ByteOffset(), "Blob must be the last parameter"))
			rec.Blob = d.cursor.ReadBlob()
			return rec

		default:
			rec.Operands = append(rec.Operands, d.decodeAbbrevParam(param))
		}
	}
	return rec
}

// decodeAbbrevParam decodes a single scalar operand. Array and Blob in
// their valid positions are handled by decodeAbbreviatedRecord; either one
// reaching here (as the record-id parameter or as an array's element type)
// is reported as BadAbbrev.
func (d *decoder) decodeAbbrevParam(param AbbrevParam) uint64 {
	switch param.Encoding {
	case EncodingFixed:
		return d.cursor.ReadFixed(uint(param.Value))
	case EncodingVBR:
		return d.cursor.ReadVBR(uint(param.Value))
	case EncodingChar6:
		return uint64(d.cursor.ReadChar6())
	case EncodingLiteral:
		return param.Value
	default:
		errs.Panic(newError(BadAbbrev, d.cursor.ByteOffset(), "encoding %d cannot be decoded as a scalar", param.Encoding))
		return 0
	}
}

// readAbbrevDesc parses one DEFINE_ABBREV descriptor: an operand count as
// a 5-bit VBR, then per operand a literal flag bit, and either an 8-bit
// VBR literal value or a 3-bit encoding code (with a 5-bit VBR width for
// Fixed/VBR).
func (d *decoder) readAbbrevDesc() AbbrevDesc {
	c := d.cursor
	numOps := c.ReadVBR(5)

	// A zero-parameter descriptor is a legal, if degenerate, DEFINE_ABBREV:
	// the original reader places no lower bound on operand count here
	// either. It only becomes unusable if some record actually invokes it
	// (see decodeAbbreviatedRecord's own check for that case).
	params := make([]AbbrevParam, 0, numOps)
	for i := uint64(0); i < numOps; i++ {
		if c.ReadFixed(1) != 0 {
			val := c.ReadVBR(8)
			params = append(params, AbbrevParam{Encoding: EncodingLiteral, Value: val})
			continue
		}

		enc := Encoding(c.ReadFixed(3))
		errs.Assert(enc >= EncodingFixed && enc <= EncodingBlob,
			newError(BadAbbrev, c.ByteOffset(), "unknown abbreviation encoding code %d", enc))

		p := AbbrevParam{Encoding: enc}
		if enc == EncodingFixed || enc == EncodingVBR {
			p.Value = c.ReadVBR(5)
		}
		params = append(params, p)
	}
	return AbbrevDesc{Params: params}
}

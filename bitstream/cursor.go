// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitstream

import "github.com/dsnet/golib/errs"

// char6Alphabet maps a 6-bit code to its ASCII character:
// 0-25 => a-z, 26-51 => A-Z, 52-61 => 0-9, 62 => '.', 63 => '_'.
const char6Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._"

// Cursor is a bit-granular read cursor over a borrowed byte slice. All
// multi-bit fields are read least-significant-bit first within each byte;
// subsequent bytes extend the value toward higher-order bits, matching the
// LLVM bitstream format.
//
// A Cursor never copies its backing slice; blobs returned by ReadBlob
// borrow directly into it, so the slice must outlive any data derived from
// the cursor.
type Cursor struct {
	buf []byte
	pos int  // index of the current byte
	bit uint // bit offset into buf[pos], in [0,8)
}

// NewCursor creates a Cursor over buf, starting at the first bit.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// ByteOffset reports the index of the current byte.
func (c *Cursor) ByteOffset() int { return c.pos }

// BitOffset reports the total bit offset from the start of the buffer.
func (c *Cursor) BitOffset() int { return c.pos*8 + int(c.bit) }

// AtEnd reports whether the cursor has consumed the entire buffer.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.buf) }

// Len reports the number of bytes in the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// advance moves the cursor forward by n bits, n in [0,8], rolling over to
// the next byte once the in-byte offset reaches 8.
func (c *Cursor) advance(n uint) {
	c.bit += n
	if c.bit == 8 {
		c.pos++
		c.bit = 0
	}
}

// requireBit asserts that reading one more bit at the cursor's current
// position does not run past the end of the buffer.
func (c *Cursor) requireBit() {
	errs.Assert(c.pos < len(c.buf), newError(Truncated, c.pos, "read past end of buffer (len=%d)", len(c.buf)))
}

// ReadFixed reads exactly width bits, LSB-first, zero-extended into a
// 64-bit word, and advances the cursor by width bits. width must be in
// [0,64]; reading zero bits returns zero without advancing.
func (c *Cursor) ReadFixed(width uint) uint64 {
	errs.Assert(width <= 64, newError(BadAbbrev, c.pos, "fixed width %d exceeds 64 bits", width))

	var ret uint64
	var shift uint
	remaining := width
	for remaining > 0 {
		c.requireBit()
		avail := 8 - c.bit
		take := remaining
		if take > avail {
			take = avail
		}
		mask := byte((1 << take) - 1)
		bits := (c.buf[c.pos] >> c.bit) & mask
		ret |= uint64(bits) << shift
		shift += take
		remaining -= take
		c.advance(take)
	}
	return ret
}

// ReadVBR reads a variable-bit-rate integer encoded in groups of
// chunkWidth bits: the high bit of each group is a continuation flag, the
// remaining chunkWidth-1 bits are payload, least-significant group first.
// chunkWidth must be in [2,8] (a width of 1 leaves no room for payload
// alongside the continuation bit).
func (c *Cursor) ReadVBR(chunkWidth uint) uint64 {
	errs.Assert(chunkWidth >= 2 && chunkWidth <= 8,
		newError(BadAbbrev, c.pos, "vbr chunk width %d out of range [2,8]", chunkWidth))

	hi := uint64(1) << (chunkWidth - 1)
	lo := hi - 1

	var ret uint64
	var shift uint
	for {
		// A group's payload bits land at [shift, shift+chunkWidth-2]; shift
		// itself reaching 64 is what actually loses information (Go shifts
		// of 64+ on a uint64 yield 0), not shift+chunkWidth exceeding 64 —
		// a single payload bit at shift 63 is a perfectly valid top bit.
		errs.Assert(shift < 64, newError(VbrOverflow, c.pos, "vbr exceeds 64 bits"))
		group := c.ReadFixed(chunkWidth)
		ret |= (group & lo) << shift
		shift += chunkWidth - 1
		if group&hi == 0 {
			break
		}
	}
	return ret
}

// ReadSVBR reads an unsigned VBR and decodes it as zigzag-signed: the low
// bit of the decoded value is the sign, the remaining bits are the
// magnitude. This matches the original bitstream reader's asymmetric
// encoding, under which INT64_MIN has no exact round trip.
func (c *Cursor) ReadSVBR(chunkWidth uint) int64 {
	v := c.ReadVBR(chunkWidth)
	if v&1 != 0 {
		return -int64(v >> 1)
	}
	return int64(v >> 1)
}

// ReadChar6 reads six bits and decodes them per the Char6 alphabet
// (a-z, A-Z, 0-9, '.', '_').
func (c *Cursor) ReadChar6() byte {
	v := c.ReadFixed(6)
	errs.Assert(v < uint64(len(char6Alphabet)), newError(BadChar6, c.pos, "char6 code %d out of range", v))
	return char6Alphabet[v]
}

// ReadBlob reads a 6-bit VBR length N, aligns to 32 bits, returns the next
// N bytes of the buffer (borrowed, not copied), advances past them, and
// aligns to 32 bits again.
func (c *Cursor) ReadBlob() []byte {
	length := c.ReadVBR(6)
	c.AlignTo32Bits()

	errs.Assert(uint64(c.pos)+length <= uint64(len(c.buf)),
		newError(Truncated, c.pos, "blob of %d bytes runs past end of buffer", length))

	blob := c.buf[c.pos : c.pos+int(length)]
	c.pos += int(length)
	c.AlignTo32Bits()
	return blob
}

// AlignTo32Bits consumes the remaining bits of the current byte, then
// advances the cursor to the next four-byte boundary relative to the
// start of the buffer.
func (c *Cursor) AlignTo32Bits() {
	if c.bit > 0 {
		c.pos++
		c.bit = 0
	}
	if rem := c.pos % 4; rem != 0 {
		c.pos += 4 - rem
	}
}

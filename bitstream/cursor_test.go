// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitstream_test

import (
	"testing"

	"github.com/llvmbc/dxil-inspect/bitstream"
	"github.com/llvmbc/dxil-inspect/internal/bitgen"
)

func TestVBRRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 63, 64, 127, 128, 1 << 20, 1<<63 - 1, ^uint64(0)}
	for chunkWidth := uint(2); chunkWidth <= 8; chunkWidth++ {
		for _, v := range values {
			var w bitgen.Writer
			w.WriteVBR(chunkWidth, v)
			c := bitstream.NewCursor(w.Bytes())
			got := c.ReadVBR(chunkWidth)
			if got != v {
				t.Errorf("chunkWidth=%d value=%d: round trip got %d", chunkWidth, v, got)
			}
		}
	}
}

func TestSVBRRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 1<<62 - 1, -(1<<62 - 1)}
	for chunkWidth := uint(2); chunkWidth <= 8; chunkWidth++ {
		for _, v := range values {
			var w bitgen.Writer
			w.WriteSVBR(chunkWidth, v)
			c := bitstream.NewCursor(w.Bytes())
			got := c.ReadSVBR(chunkWidth)
			if got != v {
				t.Errorf("chunkWidth=%d value=%d: round trip got %d", chunkWidth, v, got)
			}
		}
	}
}

func TestChar6Bijection(t *testing.T) {
	seen := make(map[byte]bool)
	for code := uint64(0); code < 64; code++ {
		var w bitgen.Writer
		w.WriteFixed(6, code)
		c := bitstream.NewCursor(w.Bytes())
		ch := c.ReadChar6()
		if seen[ch] {
			t.Fatalf("char %q produced by more than one code", ch)
		}
		seen[ch] = true
	}
	if len(seen) != 64 {
		t.Fatalf("got %d distinct chars, want 64", len(seen))
	}
}

func TestReadFixedZeroWidth(t *testing.T) {
	c := bitstream.NewCursor(nil)
	if v := c.ReadFixed(0); v != 0 {
		t.Fatalf("ReadFixed(0) = %d, want 0", v)
	}
	if c.BitOffset() != 0 {
		t.Fatalf("cursor advanced on a zero-width read")
	}
}

func TestAlignTo32Bits(t *testing.T) {
	var w bitgen.Writer
	w.WriteFixed(3, 0x5)
	c := bitstream.NewCursor(append(w.Bytes(), 0, 0, 0, 0, 0, 0, 0, 0))
	c.ReadFixed(3)
	c.AlignTo32Bits()
	if c.ByteOffset()%4 != 0 {
		t.Fatalf("byte offset %d not 32-bit aligned", c.ByteOffset())
	}
}

func TestReadBlobBorrowsAndAligns(t *testing.T) {
	var w bitgen.Writer
	w.WriteFixed(2, 0x3)
	w.WriteBlob([]byte("HELLO"))

	c := bitstream.NewCursor(w.Bytes())
	c.ReadFixed(2)
	blob := c.ReadBlob()
	if string(blob) != "HELLO" {
		t.Fatalf("blob = %q, want HELLO", blob)
	}
	if c.ByteOffset()%4 != 0 {
		t.Fatalf("cursor not 32-bit aligned after blob, offset=%d", c.ByteOffset())
	}
}

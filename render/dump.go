// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package render

import (
	"fmt"
	"io"

	"github.com/llvmbc/dxil-inspect/bitstream"
)

// printName writes the block or record's known name, falling back to
// BLOCK<id>/RECORD<id> when the id isn't in the symbol tables.
func printName(w io.Writer, parentBlock uint32, n bitstream.Node) {
	var name string
	if n.IsBlock {
		name = BlockName(n.ID)
	} else {
		name = RecordName(parentBlock, n.ID)
	}
	if name != "" {
		io.WriteString(w, name)
		return
	}
	if n.IsBlock {
		fmt.Fprintf(w, "BLOCK%d", n.ID)
	} else {
		fmt.Fprintf(w, "RECORD%d", n.ID)
	}
}

// isStringRecord reports whether a METADATA_BLOCK record's operands should
// be rendered as an escaped character string rather than an operand list.
func isStringRecord(parentBlock uint32, n bitstream.Node) bool {
	return parentBlock == MetadataBlock &&
		(n.ID == MetaStringOld || n.ID == MetaName || n.ID == MetaKind)
}

// DumpRecord writes a single record as an indented self-closing tag, e.g.
// "  <TRIPLE op0=120 op1=56 .../>".
func DumpRecord(w io.Writer, parentBlock uint32, n bitstream.Node, indent int) {
	fmt.Fprintf(w, "%*s<", indent, "")
	printName(w, parentBlock, n)

	if isStringRecord(parentBlock, n) {
		io.WriteString(w, " record string = '")
		writeEscapedOps(w, n.Operands)
		io.WriteString(w, "'")
	} else {
		for i, op := range n.Operands {
			fmt.Fprintf(w, " op%d=%d", i, op)
		}
	}

	if n.Blob != nil {
		fmt.Fprintf(w, " with blob of %d bytes", len(n.Blob))
	}

	io.WriteString(w, "/>\n")
}

// writeEscapedOps renders a slice of codepoint-valued operands as quoted
// text: \', \\, \r, \n and \t are escaped, printable ASCII passes through,
// everything else becomes \xHH.
func writeEscapedOps(w io.Writer, ops []uint64) {
	for _, op := range ops {
		switch {
		case op == '\'':
			io.WriteString(w, `\'`)
		case op == '\\':
			io.WriteString(w, `\\`)
		case op == '\r':
			io.WriteString(w, `\r`)
		case op == '\n':
			io.WriteString(w, `\n`)
		case op == '\t':
			io.WriteString(w, `\t`)
		case op >= 0x20 && op < 0x7f:
			fmt.Fprintf(w, "%c", byte(op))
		default:
			fmt.Fprintf(w, "\\x%02x", op)
		}
	}
}

// DumpBlock writes a block and, recursively, its children as an indented
// XML-like tree. BLOCKINFO is always rendered as a leaf, since its contents
// are consumed by the decoder and carry no standalone meaning here.
func DumpBlock(w io.Writer, n bitstream.Node, indent int) {
	if len(n.Children) == 0 || n.ID == BlockInfo {
		fmt.Fprintf(w, "%*s<", indent, "")
		printName(w, 0, n)
		io.WriteString(w, "/>\n")
		return
	}

	fmt.Fprintf(w, "%*s<", indent, "")
	printName(w, 0, n)
	fmt.Fprintf(w, " NumWords=%d>\n", n.BlockDwordLength)

	for _, child := range n.Children {
		if child.IsBlock {
			DumpBlock(w, child, indent+2)
		} else {
			DumpRecord(w, n.ID, child, indent+2)
		}
	}

	fmt.Fprintf(w, "%*s</", indent, "")
	printName(w, 0, n)
	io.WriteString(w, ">\n")
}

// getString renders operands as a Go string, escaping \', \\, \r, \n, \t
// and replacing other non-printable bytes with "\x..".
func getString(ops []uint64) string {
	out := make([]byte, 0, len(ops))
	for _, c := range ops {
		switch c {
		case '\'':
			out = append(out, '\\', '\'')
		case '\\':
			out = append(out, '\\', '\\')
		case '\r':
			out = append(out, '\\', 'r')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if c >= 0x20 && c < 0x7f {
				out = append(out, byte(c))
			} else {
				out = append(out, '\\', 'x', '.', '.')
			}
		}
	}
	return string(out)
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-cupid/pkg/asm/symbols"
	"github.com/consensys/go-cupid/pkg/isa"
	"github.com/consensys/go-cupid/pkg/util/termio"
)

// DATA_WIDTH is the maximum number of data bytes shown on a single line.
const DATA_WIDTH = 8

// BYTES_COLUMN is the width of the (hex) bytes column.
const BYTES_COLUMN = 3*DATA_WIDTH - 1

// Line is a single line of a listing, which is either an instruction or a run
// of raw data bytes.
type Line struct {
	// Address of the first byte of this line.
	Address uint32
	// Raw bytes covered by this line.
	Bytes []byte
	// Decoded instruction, or nil for data.
	Instruction *isa.Instruction
	// Labels declared at this address (if known).
	Labels []string
}

// IsData indicates whether this line shows raw data rather than an
// instruction.
func (p *Line) IsData() bool {
	return p.Instruction == nil
}

// Listing disassembles an image.  When a symbol table is given, its code size
// determines where the data region begins and its labels annotate the listing.
// Otherwise, instructions are decoded until the end of the image or the first
// undecodable byte, from which point everything is shown as data.
func Listing(image []byte, table *symbols.Table) []Line {
	var (
		lines    []Line
		address  uint32
		codeSize = uint32(len(image))
	)
	//
	if table != nil && table.CodeSize < codeSize {
		codeSize = table.CodeSize
	}
	// Code region
	for address < codeSize {
		insn, n, err := isa.Decode(image[:codeSize], address)
		//
		if err != nil {
			break
		}
		//
		lines = append(lines, Line{address, image[address : address+n], &insn, labelsAt(table, address)})
		address += n
	}
	// Data region
	for address < uint32(len(image)) {
		var end = min(address+DATA_WIDTH, uint32(len(image)))
		// Break data runs at labels
		for i := address + 1; i < end; i++ {
			if len(labelsAt(table, i)) > 0 {
				end = i
				break
			}
		}
		//
		lines = append(lines, Line{address, image[address:end], nil, labelsAt(table, address)})
		address = end
	}
	//
	return lines
}

// Format a line of a listing as "AAAA: XX XX ... : mnemonic operand", where
// the trailing text is either the instruction or the printable rendering of a
// data run.
func Format(line Line, table *symbols.Table) string {
	var (
		builder strings.Builder
		hex     = hexOf(line.Bytes)
	)
	//
	if len(hex) > BYTES_COLUMN {
		hex = hex[:BYTES_COLUMN-2] + ".."
	}
	//
	builder.WriteString(fmt.Sprintf("%04x: %-*s : ", line.Address, BYTES_COLUMN, hex))
	//
	if line.IsData() {
		builder.WriteString(printable(line.Bytes))
	} else {
		builder.WriteString(Instruction(*line.Instruction, line.Address, table))
	}
	//
	return builder.String()
}

// Write a listing, preceding labelled lines with their labels and truncating
// every line to a given width.
func Write(w io.Writer, lines []Line, table *symbols.Table, width uint) error {
	for _, line := range lines {
		for _, label := range line.Labels {
			if _, err := fmt.Fprintf(w, "%s:\n", label); err != nil {
				return err
			}
		}
		//
		if _, err := fmt.Fprintln(w, termio.Truncate(Format(line, table), width)); err != nil {
			return err
		}
	}
	//
	return nil
}

// Instruction renders an instruction in assembly syntax.  Addresses are shown
// symbolically when a code or string label is declared at them.
func Instruction(insn isa.Instruction, address uint32, table *symbols.Table) string {
	var info = insn.Opcode.Info()
	//
	switch info.Operand {
	case isa.NONE:
		return info.Mnemonic
	case isa.U8, isa.U16, isa.U32:
		return fmt.Sprintf("%s %d", info.Mnemonic, insn.Value)
	case isa.STRINGZ:
		return fmt.Sprintf("%s %s", info.Mnemonic, Quote(insn.Bytes))
	case isa.ADDRESS:
		return fmt.Sprintf("%s %s", info.Mnemonic, addressOf(insn.Value, table))
	case isa.OFFSET:
		target := uint32(int64(address) + int64(insn.Offset()))
		return fmt.Sprintf("%s %+d ; %s", info.Mnemonic, insn.Offset(), addressOf(target, table))
	case isa.NAME:
		return fmt.Sprintf("%s %s", info.Mnemonic, insn.Bytes)
	default:
		panic(fmt.Sprintf("unknown operand kind %d", info.Operand))
	}
}

// Quote a string using the escapes understood by the assembler.
func Quote(text string) string {
	var builder strings.Builder
	//
	builder.WriteByte('"')
	//
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\\':
			builder.WriteString("\\\\")
		case '"':
			builder.WriteString("\\\"")
		case 0:
			builder.WriteString("\\0")
		case '\n':
			builder.WriteString("\\n")
		case '\r':
			builder.WriteString("\\r")
		case '\t':
			builder.WriteString("\\t")
		default:
			builder.WriteByte(c)
		}
	}
	//
	builder.WriteByte('"')
	//
	return builder.String()
}

func addressOf(address uint32, table *symbols.Table) string {
	if table != nil {
		for _, sym := range table.At(address) {
			if sym.Kind != "bytes" {
				return "$" + sym.Name
			}
		}
	}
	//
	return fmt.Sprintf("0x%04x", address)
}

func labelsAt(table *symbols.Table, address uint32) []string {
	var labels []string
	//
	if table != nil {
		for _, sym := range table.At(address) {
			labels = append(labels, sym.Name)
		}
	}
	//
	return labels
}

func hexOf(bytes []byte) string {
	var parts = make([]string, len(bytes))
	//
	for i, b := range bytes {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	//
	return strings.Join(parts, " ")
}

func printable(bytes []byte) string {
	var builder strings.Builder
	//
	for _, b := range bytes {
		if b >= 0x20 && b < 0x7f {
			builder.WriteByte(b)
		} else {
			builder.WriteByte('.')
		}
	}
	//
	return builder.String()
}

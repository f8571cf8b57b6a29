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
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-cupid/pkg/asm/symbols"
	"github.com/consensys/go-cupid/pkg/isa"
	"github.com/consensys/go-cupid/pkg/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// main: push8 1; j $end; end: halt; %data msg: %string "hi" %enddata
func exampleImage() ([]byte, symbols.Table) {
	code := isa.EncodeAll(isa.Imm(isa.PUSH8, 1), isa.Imm(isa.JMP, 7), isa.Op(isa.HALT))
	image := append(code, 'h', 'i', 0)
	table := symbols.NewTable(uint32(len(code)),
		symbols.Symbol{Name: "main", Kind: "code", Address: 0},
		symbols.Symbol{Name: "end", Kind: "code", Address: 7},
		symbols.Symbol{Name: "msg", Kind: "string", Address: 8})
	//
	return image, table
}

func Test_Listing_01(t *testing.T) {
	image, table := exampleImage()
	lines := Listing(image, &table)
	//
	require.Len(t, lines, 4)
	assert.Equal(t, []uint32{0, 2, 7, 8}, addressesOf(lines))
	assert.Equal(t, []string{"main"}, lines[0].Labels)
	assert.Equal(t, []string{"msg"}, lines[3].Labels)
	assert.True(t, lines[3].IsData())
	assert.Equal(t, []byte{'h', 'i', 0}, lines[3].Bytes)
}

func Test_Listing_02(t *testing.T) {
	image, _ := exampleImage()
	// Without symbols, data is decoded until the first invalid opcode
	lines := Listing(image, nil)
	//
	require.NotEmpty(t, lines)
	assert.Equal(t, uint32(0), lines[0].Address)
	assert.Nil(t, lines[0].Labels)
	assert.True(t, lines[len(lines)-1].IsData())
}

func Test_Listing_03(t *testing.T) {
	var image = make([]byte, 20)
	// Everything beyond an empty code region is data
	table := symbols.NewTable(0)
	lines := Listing(image, &table)
	//
	require.Len(t, lines, 3)
	assert.Equal(t, []uint32{0, 8, 16}, addressesOf(lines))
	assert.Len(t, lines[2].Bytes, 4)
}

func Test_Format_01(t *testing.T) {
	image, table := exampleImage()
	lines := Listing(image, &table)
	//
	assert.Equal(t, "0000: 01 01"+strings.Repeat(" ", 18)+" : push8 1", Format(lines[0], &table))
	assert.True(t, strings.HasSuffix(Format(lines[1], &table), ": j $end"))
	assert.True(t, strings.HasSuffix(Format(lines[2], &table), ": halt"))
	assert.True(t, strings.HasPrefix(Format(lines[3], &table), "0008: 68 69 00 "))
	assert.True(t, strings.HasSuffix(Format(lines[3], &table), ": hi."))
}

func Test_Format_02(t *testing.T) {
	var insn = isa.Str(isa.PUSHSZ, strings.Repeat("x", 20))
	//
	line := Line{Address: 0, Bytes: isa.Encode(insn), Instruction: &insn}
	formatted := Format(line, nil)
	// Long byte runs are elided
	assert.Contains(t, formatted, "78 .. : pushsz \"xxxx")
}

func Test_Instruction_01(t *testing.T) {
	assert.Equal(t, "nop", Instruction(isa.Op(isa.NOP), 0, nil))
	assert.Equal(t, "push32 4096", Instruction(isa.Imm(isa.PUSH32, 4096), 0, nil))
	assert.Equal(t, "j 0x0010", Instruction(isa.Imm(isa.JMP, 16), 0, nil))
	assert.Equal(t, "j -2 ; 0x0003", Instruction(isa.Rel(-2), 5, nil))
	assert.Equal(t, "j +5 ; 0x000a", Instruction(isa.Rel(5), 5, nil))
	assert.Equal(t, "callnat print", Instruction(isa.Str(isa.CALLNAT, "print"), 0, nil))
	assert.Equal(t, `pushsz "a\"b\\\n"`, Instruction(isa.Str(isa.PUSHSZ, "a\"b\\\n"), 0, nil))
}

func Test_Instruction_02(t *testing.T) {
	table := symbols.NewTable(4,
		symbols.Symbol{Name: "v", Kind: "bytes", Address: 4},
		symbols.Symbol{Name: "w", Kind: "string", Address: 4})
	// Byte labels are never used as addresses
	assert.Equal(t, "call $w", Instruction(isa.Imm(isa.CALL, 4), 0, &table))
}

func Test_Write_01(t *testing.T) {
	var out bytes.Buffer
	//
	image, table := exampleImage()
	require.NoError(t, Write(&out, Listing(image, &table), &table, 20))
	//
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "main:\n0000: 01 01"+strings.Repeat(" ", 6)+"...\n"))
	assert.Contains(t, text, "\nmsg:\n")
}

func Test_Dump_01(t *testing.T) {
	regs := vm.Registers{IP: 5, SP: 3, AC: 42, F: vm.GT}
	//
	assert.Equal(t, "ip=0x0005 sp=0x0003 bp=0x0000 ac=0x0000002a (42) f=GT", DumpRegisters(regs))
}

func Test_Dump_02(t *testing.T) {
	dump := DumpStack([][]byte{{1, 1}, []byte("hello\x00")})
	lines := strings.Split(strings.TrimSuffix(dump, "\n"), "\n")
	//
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[1] 68 65 6c 6c 6f 00"))
	assert.True(t, strings.HasSuffix(lines[0], `: "hello\0"`))
	assert.True(t, strings.HasSuffix(lines[1], ": 257"))
}

func Test_Dump_03(t *testing.T) {
	dump := DumpCallStack([]vm.Frame{{ReturnAddress: 7}})
	//
	assert.Contains(t, dump, "ReturnAddress: (uint32) 7")
}

func addressesOf(lines []Line) []uint32 {
	var addresses []uint32
	//
	for _, line := range lines {
		addresses = append(addresses, line.Address)
	}
	//
	return addresses
}

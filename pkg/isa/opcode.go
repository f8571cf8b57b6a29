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
package isa

// Opcode identifies a single instruction, and determines the shape of its
// operand (if any).
type Opcode byte

// NOP does nothing.
const NOP Opcode = 0x00

// PUSH8 pushes a one byte immediate onto the operand stack.
const PUSH8 Opcode = 0x01

// PUSH16 pushes a two byte immediate onto the operand stack.
const PUSH16 Opcode = 0x02

// PUSH32 pushes a four byte immediate onto the operand stack.
const PUSH32 Opcode = 0x03

// PUSHSZ pushes a NUL-terminated string onto the operand stack.
const PUSHSZ Opcode = 0x04

// PUSHAC pushes the (four byte) accumulator onto the operand stack.
const PUSHAC Opcode = 0x05

// POP8 pops one byte from the operand stack.
const POP8 Opcode = 0x06

// POP16 pops two bytes from the operand stack.
const POP16 Opcode = 0x07

// POP32 pops four bytes from the operand stack.
const POP32 Opcode = 0x08

// POPSZ pops a NUL-terminated string from the operand stack.
const POPSZ Opcode = 0x09

// CMP pops two values and sets the comparison flag.
const CMP Opcode = 0x0C

// JMP jumps to an absolute address.
const JMP Opcode = 0x0D

// JMP_REL jumps by a signed offset from the address of the jump itself.
const JMP_REL Opcode = 0x0E

// JEQ jumps to an absolute address when the comparison flag is EQ.
const JEQ Opcode = 0x0F

// JNE jumps to an absolute address when the comparison flag is not EQ.
const JNE Opcode = 0x10

// ADD pops two values and pushes their (wrapping) sum.
const ADD Opcode = 0x11

// SUB pops two values and pushes their (wrapping) difference.
const SUB Opcode = 0x12

// MUL pops two values and pushes their (wrapping) product.
const MUL Opcode = 0x13

// DIV pops two values and pushes their quotient.
const DIV Opcode = 0x14

// CALL pushes a call frame and jumps to an absolute address.
const CALL Opcode = 0x15

// CALLNAT invokes a named host function.
const CALLNAT Opcode = 0x16

// RET retires the topmost call frame, restoring the base pointer and returning
// to the caller.
const RET Opcode = 0x17

// HALT terminates execution successfully.
const HALT Opcode = 0xFF

// OperandKind determines how the bytes following an opcode are interpreted.
type OperandKind uint8

const (
	// NONE indicates an instruction without an operand.
	NONE OperandKind = iota
	// U8 is a one byte unsigned immediate.
	U8
	// U16 is a two byte unsigned immediate.
	U16
	// U32 is a four byte unsigned immediate.
	U32
	// STRINGZ is a NUL-terminated byte string.
	STRINGZ
	// ADDRESS is a four byte absolute address.
	ADDRESS
	// OFFSET is a four byte signed relative offset.
	OFFSET
	// NAME is a NUL-terminated symbolic name.
	NAME
)

// Size returns the number of bytes occupied by an operand of this kind, along
// with true.  For variable-width kinds (strings and names) false is returned.
func (k OperandKind) Size() (uint32, bool) {
	switch k {
	case NONE:
		return 0, true
	case U8:
		return 1, true
	case U16:
		return 2, true
	case U32, ADDRESS, OFFSET:
		return 4, true
	default:
		return 0, false
	}
}

// IsImmediate determines whether this kind holds a numeric value (i.e. an
// immediate, address or offset).
func (k OperandKind) IsImmediate() bool {
	switch k {
	case U8, U16, U32, ADDRESS, OFFSET:
		return true
	default:
		return false
	}
}

// IsString determines whether this kind holds a NUL-terminated byte string.
func (k OperandKind) IsString() bool {
	return k == STRINGZ || k == NAME
}

// Info provides static information about a given opcode.
type Info struct {
	Opcode   Opcode
	Mnemonic string
	Operand  OperandKind
}

// The opcode table.  Entries which are nil are not valid opcodes.
var table [256]*Info

var mnemonics = map[string][]Info{}

func init() {
	for _, info := range []Info{
		{NOP, "nop", NONE},
		{PUSH8, "push8", U8},
		{PUSH16, "push16", U16},
		{PUSH32, "push32", U32},
		{PUSHSZ, "pushsz", STRINGZ},
		{PUSHAC, "pushac", NONE},
		{POP8, "pop8", NONE},
		{POP16, "pop16", NONE},
		{POP32, "pop32", NONE},
		{POPSZ, "popsz", NONE},
		{CMP, "cmp", NONE},
		{JMP, "j", ADDRESS},
		{JMP_REL, "j", OFFSET},
		{JEQ, "jeq", ADDRESS},
		{JNE, "jne", ADDRESS},
		{ADD, "add", NONE},
		{SUB, "sub", NONE},
		{MUL, "mul", NONE},
		{DIV, "div", NONE},
		{CALL, "call", ADDRESS},
		{CALLNAT, "callnat", NAME},
		{RET, "ret", NONE},
		{HALT, "halt", NONE},
	} {
		entry := info
		table[info.Opcode] = &entry
		mnemonics[info.Mnemonic] = append(mnemonics[info.Mnemonic], info)
	}
}

// Lookup returns information about the given opcode byte, or false if no such
// opcode exists.
func Lookup(op byte) (Info, bool) {
	if info := table[op]; info != nil {
		return *info, true
	}
	//
	return Info{}, false
}

// LookupMnemonic returns the opcodes associated with a given mnemonic.  Most
// mnemonics correspond to exactly one opcode, but "j" covers both absolute and
// relative jumps.  An unknown mnemonic returns nil.
func LookupMnemonic(mnemonic string) []Info {
	return mnemonics[mnemonic]
}

// Opcodes returns information for every valid opcode, in increasing order of
// opcode.
func Opcodes() []Info {
	var infos []Info
	//
	for _, info := range table {
		if info != nil {
			infos = append(infos, *info)
		}
	}
	//
	return infos
}

// Info returns static information about this opcode.  This panics if the
// opcode is invalid.
func (op Opcode) Info() Info {
	if info, ok := Lookup(byte(op)); ok {
		return info
	}
	//
	panic("invalid opcode")
}

// IsValid determines whether or not this is a recognised opcode.
func (op Opcode) IsValid() bool {
	return table[op] != nil
}

func (op Opcode) String() string {
	if info := table[op]; info != nil {
		return info.Mnemonic
	}
	//
	return "???"
}

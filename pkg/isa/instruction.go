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

import "fmt"

// Instruction is a single decoded instruction.  Numeric operands (immediates,
// addresses and offsets) are held in Value, whilst string operands (pushed
// strings and native names) are held in Bytes without their NUL terminator.
// Instructions are comparable, hence two instructions are equal exactly when
// their encodings are equal.
type Instruction struct {
	Opcode Opcode
	Value  uint32
	Bytes  string
}

// Op constructs an instruction which has no operand.
func Op(op Opcode) Instruction {
	return Instruction{Opcode: op}
}

// Imm constructs an instruction with a numeric operand (immediate, address or
// offset).
func Imm(op Opcode, value uint32) Instruction {
	return Instruction{Opcode: op, Value: value}
}

// Rel constructs a relative jump by a given signed offset.
func Rel(offset int32) Instruction {
	return Instruction{Opcode: JMP_REL, Value: uint32(offset)}
}

// Str constructs an instruction with a string operand.
func Str(op Opcode, bytes string) Instruction {
	return Instruction{Opcode: op, Bytes: bytes}
}

// Offset returns the operand of a relative jump as a signed offset.
func (p Instruction) Offset() int32 {
	return int32(p.Value)
}

// Size returns the number of bytes this instruction occupies when encoded.
func (p Instruction) Size() uint32 {
	var kind = p.Opcode.Info().Operand
	//
	if n, ok := kind.Size(); ok {
		return 1 + n
	}
	// String operand plus terminator
	return 1 + uint32(len(p.Bytes)) + 1
}

// Validate checks whether this instruction is representable.  That is, its
// opcode is valid, its immediate fits within its declared width and its string
// operand has no embedded NUL.
func (p Instruction) Validate() error {
	if !p.Opcode.IsValid() {
		return fmt.Errorf("%w (0x%02x)", ErrInvalidOpcode, byte(p.Opcode))
	}
	//
	switch kind := p.Opcode.Info().Operand; kind {
	case U8, U16:
		if n, _ := kind.Size(); p.Value >= 1<<(8*n) {
			return fmt.Errorf("immediate %d out of range for %s", p.Value, p.Opcode)
		}
	case STRINGZ, NAME:
		for i := 0; i < len(p.Bytes); i++ {
			if p.Bytes[i] == 0 {
				return fmt.Errorf("string operand of %s contains NUL", p.Opcode)
			}
		}
	}
	//
	if !p.Opcode.Info().Operand.IsImmediate() && p.Value != 0 {
		return fmt.Errorf("unexpected immediate for %s", p.Opcode)
	} else if !p.Opcode.Info().Operand.IsString() && p.Bytes != "" {
		return fmt.Errorf("unexpected string operand for %s", p.Opcode)
	}
	//
	return nil
}

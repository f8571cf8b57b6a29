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

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidOpcode signals a byte which does not correspond to any opcode.
var ErrInvalidOpcode = errors.New("invalid opcode")

// ErrTruncatedOperand signals that fewer bytes remain than are required by an
// opcode's operand (or that no bytes remain at all).
var ErrTruncatedOperand = errors.New("truncated operand")

// DecodeError is returned when decoding an instruction fails, and identifies
// the offset at which decoding was attempted.
type DecodeError struct {
	// Offset of the instruction being decoded.
	Offset uint32
	// Byte found at the given offset (if any).
	Byte byte
	// Underlying cause (one of the sentinels above).
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at 0x%04x (0x%02x)", e.Err, e.Offset, e.Byte)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode converts an instruction into its binary form.  Immediates are written
// in little-endian order.  Instructions whose string operand contains a NUL
// byte, or whose immediate exceeds the operand width, are not representable
// and are silently truncated.
func Encode(insn Instruction) []byte {
	var (
		info  = insn.Opcode.Info()
		bytes = make([]byte, 1, insn.Size())
	)
	//
	bytes[0] = byte(insn.Opcode)
	//
	switch info.Operand {
	case U8:
		bytes = append(bytes, byte(insn.Value))
	case U16:
		bytes = binary.LittleEndian.AppendUint16(bytes, uint16(insn.Value))
	case U32, ADDRESS, OFFSET:
		bytes = binary.LittleEndian.AppendUint32(bytes, insn.Value)
	case STRINGZ, NAME:
		bytes = append(bytes, insn.Bytes...)
		bytes = append(bytes, 0)
	}
	//
	return bytes
}

// EncodeAll encodes a sequence of instructions into a contiguous buffer.
func EncodeAll(insns ...Instruction) []byte {
	var bytes []byte
	//
	for _, insn := range insns {
		bytes = append(bytes, Encode(insn)...)
	}
	//
	return bytes
}

// Decode the instruction at a given offset within a buffer, returning the
// instruction and the number of bytes consumed.  This never panics: either the
// instruction is decoded, or a *DecodeError is returned classifying the
// failure.
func Decode(bytes []byte, offset uint32) (Instruction, uint32, error) {
	if uint64(offset) >= uint64(len(bytes)) {
		return Instruction{}, 0, &DecodeError{offset, 0, ErrTruncatedOperand}
	}
	//
	var (
		op      = bytes[offset]
		info, _ = Lookup(op)
		operand = bytes[offset+1:]
	)
	//
	if !Opcode(op).IsValid() {
		return Instruction{}, 0, &DecodeError{offset, op, ErrInvalidOpcode}
	}
	//
	insn := Instruction{Opcode: info.Opcode}
	//
	switch info.Operand {
	case NONE:
		return insn, 1, nil
	case STRINGZ, NAME:
		for i, b := range operand {
			if b == 0 {
				insn.Bytes = string(operand[:i])
				return insn, uint32(i) + 2, nil
			}
		}
		// No terminator
		return Instruction{}, 0, &DecodeError{offset, op, ErrTruncatedOperand}
	}
	// Fixed-width immediate
	size, _ := info.Operand.Size()
	//
	if uint32(len(operand)) < size {
		return Instruction{}, 0, &DecodeError{offset, op, ErrTruncatedOperand}
	}
	//
	switch size {
	case 1:
		insn.Value = uint32(operand[0])
	case 2:
		insn.Value = uint32(binary.LittleEndian.Uint16(operand))
	default:
		insn.Value = binary.LittleEndian.Uint32(operand)
	}
	//
	return insn, 1 + size, nil
}

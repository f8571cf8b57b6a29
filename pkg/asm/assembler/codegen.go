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
package assembler

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/consensys/go-cupid/pkg/asm/asmerr"
	"github.com/consensys/go-cupid/pkg/isa"
	"github.com/consensys/go-cupid/pkg/util/source"
)

// Image is an assembled program.  The code region begins at address 0 (where
// execution also begins) and is immediately followed by the data region.
type Image struct {
	// Contents of the image (code followed by data).
	Bytes []byte
	// Size of the code region, which is also the base address of the data
	// region.
	CodeSize uint32
}

// A located instruction awaiting encoding.
type pending struct {
	stmt *Statement
	info isa.Info
	// Address of this instruction.
	address uint32
	// Size of this instruction when encoded.
	size uint32
}

// GenerateCode assembles a sequence of code statements into an image, using a
// given data section and label table (already populated with the data
// labels).  Generation proceeds in two passes: the first assigns an address
// to every instruction and code label; the second encodes every instruction,
// resolving label references.  Since resolution only happens once every label
// is known, labels can be referenced before they are defined.  No image is
// produced if any error arises.
func GenerateCode(stmts []Statement, data DataSection, labels *LabelTable) (Image, []source.SyntaxError) {
	// Pass 1
	insns, codeSize, errors := allocate(stmts, labels)
	// Data section follows code
	labels.Relocate(codeSize)
	// Pass 2
	var code = make([]byte, 0, codeSize+data.Size())
	//
	for _, insn := range insns {
		encoded, err := encode(insn, labels)
		//
		if err != nil {
			errors = append(errors, *err)
			continue
		}
		// Sanity check
		if uint32(len(encoded)) != insn.size {
			panic(fmt.Sprintf("instruction at 0x%04x encoded as %d bytes (expected %d)", insn.address, len(encoded),
				insn.size))
		}
		//
		code = append(code, encoded...)
	}
	//
	if len(errors) > 0 {
		return Image{}, errors
	}
	//
	return Image{append(code, data.Bytes()...), codeSize}, nil
}

// Pass 1: assign addresses to instructions and declare code labels.
func allocate(stmts []Statement, labels *LabelTable) ([]pending, uint32, []source.SyntaxError) {
	var (
		insns  []pending
		errors []source.SyntaxError
		pc     uint32
	)
	//
	for i := range stmts {
		stmt := &stmts[i]
		//
		if stmt.Label != "" && !labels.Declare(Label{stmt.Label, CODE, pc, nil}) {
			errors = append(errors, stmt.Line.ErrorOf(asmerr.ErrDuplicateLabel, stmt.LabelSpan,
				fmt.Sprintf("label \"%s\" already defined", stmt.Label)))
		}
		//
		if !stmt.IsInstruction() {
			continue
		}
		//
		info, err := selectOpcode(stmt)
		//
		if err != nil {
			errors = append(errors, *err)
			continue
		}
		//
		size := sizeOf(stmt, info, labels)
		insns = append(insns, pending{stmt, info, pc, size})
		pc += size
	}
	//
	return insns, pc, errors
}

// Select the opcode for a given instruction, checking that its operands have
// an appropriate form.
func selectOpcode(stmt *Statement) (isa.Info, *source.SyntaxError) {
	var infos = isa.LookupMnemonic(stmt.Command)
	//
	if len(infos) == 0 {
		err := stmt.ErrorOf(asmerr.ErrMalformedDirective, fmt.Sprintf("unknown instruction \"%s\"", stmt.Command))
		return isa.Info{}, &err
	} else if infos[0].Operand == isa.NONE {
		if len(stmt.Operands) != 0 {
			err := stmt.OperandError(asmerr.ErrMalformedDirective, stmt.Operands[0], "unexpected operand")
			return isa.Info{}, &err
		}
		//
		return infos[0], nil
	} else if len(stmt.Operands) != 1 {
		err := stmt.ErrorOf(asmerr.ErrMalformedDirective, fmt.Sprintf("%s expects exactly one operand", stmt.Command))
		return isa.Info{}, &err
	}
	//
	operand := stmt.Operands[0]
	// Find the form which accepts this operand (e.g. "j" is absolute or relative)
	for _, info := range infos {
		if accepts(info.Operand, operand.Kind) {
			return info, nil
		}
	}
	//
	err := stmt.OperandError(asmerr.ErrMalformedDirective, operand, fmt.Sprintf("invalid operand for %s", stmt.Command))
	//
	return isa.Info{}, &err
}

// Determine whether a given kind of operand is syntactically acceptable for a
// given kind of instruction operand.
func accepts(kind isa.OperandKind, operand OperandKind) bool {
	switch kind {
	case isa.U8, isa.U16, isa.U32:
		return operand == IMMEDIATE || operand == LABEL_REF
	case isa.ADDRESS:
		return operand == IMMEDIATE || operand == LABEL_REF || operand == NAME
	case isa.OFFSET:
		return operand == DISPLACEMENT || operand == RELATIVE_REF
	case isa.STRINGZ:
		return operand == STRING_LITERAL || operand == LABEL_REF
	case isa.NAME:
		return operand == NAME || operand == STRING_LITERAL
	default:
		return false
	}
}

// Determine the encoded size of an instruction.  Data labels are already known
// at this point, hence the size of a "pushsz $name" can be determined.  Where
// it cannot (e.g. the label is undefined), any size will do since encoding will
// subsequently fail.
func sizeOf(stmt *Statement, info isa.Info, labels *LabelTable) uint32 {
	if n, ok := info.Operand.Size(); ok {
		return 1 + n
	}
	//
	operand := stmt.Operands[0]
	//
	if operand.Kind == LABEL_REF {
		if label, ok := labels.Lookup(operand.Text); ok && label.Kind == DATA_STRING {
			// String already includes its terminator
			return 1 + uint32(len(label.Value))
		}
		//
		return 2
	}
	//
	return 1 + uint32(len(operand.Text)) + 1
}

// Pass 2: encode an instruction, resolving its operand (if any).
func encode(insn pending, labels *LabelTable) ([]byte, *source.SyntaxError) {
	var (
		stmt = insn.stmt
		op   = insn.info.Opcode
	)
	//
	if insn.info.Operand == isa.NONE {
		return isa.Encode(isa.Op(op)), nil
	}
	//
	operand := stmt.Operands[0]
	//
	switch insn.info.Operand {
	case isa.U8, isa.U16, isa.U32:
		value, err := resolveImmediate(stmt, insn.info.Operand, operand, labels)
		if err != nil {
			return nil, err
		}
		//
		return isa.Encode(isa.Imm(op, value)), nil
	case isa.ADDRESS:
		value, err := resolveAddress(stmt, operand, labels)
		if err != nil {
			return nil, err
		}
		//
		return isa.Encode(isa.Imm(op, value)), nil
	case isa.OFFSET:
		offset, err := resolveOffset(stmt, insn.address, operand, labels)
		if err != nil {
			return nil, err
		}
		//
		return isa.Encode(isa.Rel(offset)), nil
	default:
		contents, err := resolveString(stmt, operand, labels)
		if err != nil {
			return nil, err
		}
		//
		return isa.Encode(isa.Str(op, contents)), nil
	}
}

// Resolve the operand of a push8, push16 or push32.  A %bytes label gives its
// stored value, whilst any other label gives its address.
func resolveImmediate(stmt *Statement, kind isa.OperandKind, operand Operand,
	labels *LabelTable) (uint32, *source.SyntaxError) {
	var (
		width, _ = kind.Size()
		limit    = uint64(1)<<(8*width) - 1
		value    uint64
	)
	//
	switch operand.Kind {
	case IMMEDIATE:
		value = operand.Value
	default:
		label, err := lookup(stmt, operand, labels)
		if err != nil {
			return 0, err
		}
		//
		if label.Kind == DATA_BYTES {
			if uint32(len(label.Value)) > width {
				e := stmt.OperandError(asmerr.ErrMalformedDirective, operand,
					fmt.Sprintf("\"%s\" holds %d bytes (too wide for %s)", label.Name, len(label.Value), stmt.Command))
				//
				return 0, &e
			}
			// Zero extend
			var buf [8]byte
			//
			copy(buf[:], label.Value)
			value = binary.LittleEndian.Uint64(buf[:])
		} else {
			value = uint64(label.Address)
		}
	}
	//
	if value > limit {
		e := stmt.OperandError(asmerr.ErrMalformedDirective, operand,
			fmt.Sprintf("value %d out of range for %s", value, stmt.Command))
		//
		return 0, &e
	}
	//
	return uint32(value), nil
}

// Resolve the operand of an absolute jump or call.
func resolveAddress(stmt *Statement, operand Operand, labels *LabelTable) (uint32, *source.SyntaxError) {
	if operand.Kind == IMMEDIATE {
		if operand.Value > math.MaxUint32 {
			e := stmt.OperandError(asmerr.ErrMalformedDirective, operand, "address out of range")
			return 0, &e
		}
		//
		return uint32(operand.Value), nil
	}
	//
	label, err := lookup(stmt, operand, labels)
	//
	if err != nil {
		return 0, err
	} else if label.Kind == DATA_BYTES {
		e := stmt.OperandError(asmerr.ErrMalformedDirective, operand,
			fmt.Sprintf("\"%s\" is a value, not an address", label.Name))
		//
		return 0, &e
	}
	//
	return label.Address, nil
}

// Resolve the operand of a relative jump.  Offsets are always relative to the
// address of the jump instruction itself.
func resolveOffset(stmt *Statement, address uint32, operand Operand, labels *LabelTable) (int32, *source.SyntaxError) {
	var offset int64
	//
	if operand.Kind == DISPLACEMENT {
		offset = int64(min(operand.Value, math.MaxInt64))
		//
		if operand.Negative {
			offset = -offset
		}
	} else {
		label, err := lookup(stmt, operand, labels)
		//
		if err != nil {
			return 0, err
		} else if label.Kind == DATA_BYTES {
			e := stmt.OperandError(asmerr.ErrMalformedDirective, operand,
				fmt.Sprintf("\"%s\" is a value, not an address", label.Name))
			//
			return 0, &e
		}
		//
		offset = int64(label.Address) - int64(address)
	}
	//
	if offset < math.MinInt32 || offset > math.MaxInt32 {
		e := stmt.OperandError(asmerr.ErrMalformedDirective, operand, "offset out of range")
		return 0, &e
	}
	//
	return int32(offset), nil
}

// Resolve the operand of a pushsz or callnat.  For pushsz, a %string label is
// inlined.
func resolveString(stmt *Statement, operand Operand, labels *LabelTable) (string, *source.SyntaxError) {
	var contents = operand.Text
	//
	if operand.Kind == LABEL_REF {
		label, err := lookup(stmt, operand, labels)
		//
		if err != nil {
			return "", err
		} else if label.Kind != DATA_STRING {
			e := stmt.OperandError(asmerr.ErrMalformedDirective, operand,
				fmt.Sprintf("\"%s\" is not a string", label.Name))
			//
			return "", &e
		}
		// Strip terminator
		contents = string(label.Value[:len(label.Value)-1])
	}
	//
	if strings.IndexByte(contents, 0) >= 0 {
		e := stmt.OperandError(asmerr.ErrMalformedDirective, operand, "string operand cannot contain NUL")
		return "", &e
	}
	//
	return contents, nil
}

func lookup(stmt *Statement, operand Operand, labels *LabelTable) (Label, *source.SyntaxError) {
	if label, ok := labels.Lookup(operand.Text); ok {
		return label, nil
	}
	//
	e := stmt.OperandError(asmerr.ErrUndefinedLabel, operand, fmt.Sprintf("unknown label \"%s\"", operand.Text))
	//
	return Label{}, &e
}

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
	"fmt"
	"math"

	"github.com/consensys/go-cupid/pkg/asm/asmerr"
	"github.com/consensys/go-cupid/pkg/util/source"
)

// DataEntry is a single entry within the data section.
type DataEntry struct {
	Name string
	// Either DATA_BYTES or DATA_STRING
	Kind LabelKind
	// Contents of this entry, including the NUL terminator for strings.
	Bytes []byte
	// Offset of this entry from the start of the data section.
	Offset uint32
}

// DataSection is the (immutable) data segment of a program, whose entries are
// laid out contiguously in declaration order without padding.
type DataSection struct {
	entries []DataEntry
	size    uint32
}

// Entries returns the entries of this data section in declaration order.
func (p DataSection) Entries() []DataEntry {
	return p.entries
}

// Size returns the number of bytes occupied by this data section.
func (p DataSection) Size() uint32 {
	return p.size
}

// Bytes returns the contents of this data section.
func (p DataSection) Bytes() []byte {
	bytes := make([]byte, 0, p.size)
	//
	for _, e := range p.entries {
		bytes = append(bytes, e.Bytes...)
	}
	//
	return bytes
}

// BuildDataSection extracts the data section from a given sequence of
// statements, declaring a label for each entry.  The remaining (code)
// statements are returned.  Exactly one %data ... %enddata block is permitted,
// though it may appear anywhere.  Data labels are declared relative to the
// start of the data section, since its base address is not yet known.
func BuildDataSection(stmts []Statement, labels *LabelTable) (DataSection, []Statement, []source.SyntaxError) {
	var (
		section DataSection
		code    []Statement
		errors  []source.SyntaxError
		// Statement which opened the current (or completed) block
		opened *Statement
		inside bool
	)
	//
	for i := range stmts {
		stmt := &stmts[i]
		//
		switch stmt.Command {
		case "%data":
			if opened != nil {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrDuplicateDataSection, "duplicate data section"))
			} else if stmt.Label != "" || len(stmt.Operands) != 0 {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective, "malformed %data"))
			}
			//
			opened, inside = stmt, true
		case "%enddata":
			if !inside {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective, "%enddata without matching %data"))
			} else if stmt.Label != "" || len(stmt.Operands) != 0 {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective, "malformed %enddata"))
			}
			//
			inside = false
		case "%string", "%bytes":
			if !inside {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective, "data entry outside of data section"))
			} else if err := section.add(stmt, labels); err != nil {
				errors = append(errors, *err)
			}
		default:
			if stmt.IsDirective() {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective,
					fmt.Sprintf("unknown directive \"%s\"", stmt.Command)))
			} else if inside && !stmt.IsEmpty() {
				errors = append(errors, stmt.ErrorOf(asmerr.ErrMalformedDirective, "expected %string or %bytes entry"))
			} else if !inside {
				code = append(code, *stmt)
			}
		}
	}
	//
	if inside {
		errors = append(errors, opened.ErrorOf(asmerr.ErrMalformedDirective, "%data without matching %enddata"))
	}
	//
	return section, code, errors
}

// Add a new entry to this section, as described by a given statement.
func (p *DataSection) add(stmt *Statement, labels *LabelTable) *source.SyntaxError {
	var (
		kind  = DATA_BYTES
		bytes []byte
	)
	//
	if stmt.Label == "" {
		err := stmt.ErrorOf(asmerr.ErrMalformedDirective, "data entry requires a name")
		return &err
	}
	//
	if stmt.Command == "%string" {
		if len(stmt.Operands) != 1 || stmt.Operands[0].Kind != STRING_LITERAL {
			err := stmt.ErrorOf(asmerr.ErrMalformedDirective, "expected %string \"...\"")
			return &err
		}
		//
		kind, bytes = DATA_STRING, append([]byte(stmt.Operands[0].Text), 0)
	} else {
		if len(stmt.Operands) == 0 {
			err := stmt.ErrorOf(asmerr.ErrMalformedDirective, "expected %bytes v1 v2 ...")
			return &err
		}
		//
		for _, operand := range stmt.Operands {
			if operand.Kind != IMMEDIATE || operand.Value > math.MaxUint8 {
				err := stmt.OperandError(asmerr.ErrMalformedDirective, operand, "expected byte literal (0-255)")
				return &err
			}
			//
			bytes = append(bytes, byte(operand.Value))
		}
	}
	//
	entry := DataEntry{stmt.Label, kind, bytes, p.size}
	//
	if !labels.Declare(Label{entry.Name, kind, entry.Offset, entry.Bytes}) {
		err := stmt.Line.ErrorOf(asmerr.ErrDuplicateLabel, stmt.LabelSpan,
			fmt.Sprintf("label \"%s\" already defined", stmt.Label))
		//
		return &err
	}
	//
	p.entries = append(p.entries, entry)
	p.size += uint32(len(bytes))
	//
	return nil
}

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
	"github.com/consensys/go-cupid/pkg/asm/preprocess"
	"github.com/consensys/go-cupid/pkg/util/source"
)

// OperandKind identifies the syntactic form of an operand.
type OperandKind uint8

const (
	// IMMEDIATE is an unsigned literal, such as "5" or "0xFF".
	IMMEDIATE OperandKind = iota
	// DISPLACEMENT is an explicitly signed literal, such as "+4" or "-8".
	DISPLACEMENT
	// STRING_LITERAL is a quoted string, such as "\"hello\\n\"".
	STRING_LITERAL
	// LABEL_REF is a label reference, such as "$msg".
	LABEL_REF
	// RELATIVE_REF is a label reference for a relative jump, such as "@loop".
	RELATIVE_REF
	// NAME is an unadorned identifier, such as "loop" or "print".
	NAME
)

// Operand represents a single (unresolved) operand of a statement.
type Operand struct {
	Kind OperandKind
	// Magnitude of a numeric literal.
	Value uint64
	// Sign of a displacement.
	Negative bool
	// Label, name or (unescaped) string contents.
	Text string
	// Span of this operand within the line's text.
	Span source.Span
}

// Statement represents a single parsed line of assembly.  Every component is
// optional, hence a blank line gives an empty statement.
type Statement struct {
	// Line from which this statement was parsed.
	Line preprocess.Line
	// Label defined by this statement (if any).
	Label string
	// Span of the label within the line's text.
	LabelSpan source.Span
	// Directive (e.g. "%bytes") or mnemonic (e.g. "push8"), or empty.
	Command string
	// Span of the command within the line's text.
	CommandSpan source.Span
	// Operands of the directive or mnemonic.
	Operands []Operand
}

// IsDirective checks whether this statement holds a directive.
func (p *Statement) IsDirective() bool {
	return len(p.Command) > 0 && p.Command[0] == '%'
}

// IsInstruction checks whether this statement holds an instruction.
func (p *Statement) IsInstruction() bool {
	return len(p.Command) > 0 && p.Command[0] != '%'
}

// IsEmpty checks whether this statement neither defines a label nor holds a
// command.
func (p *Statement) IsEmpty() bool {
	return p.Label == "" && p.Command == ""
}

// ErrorOf constructs an error of a given kind covering the statement's
// command.
func (p *Statement) ErrorOf(kind error, msg string) source.SyntaxError {
	if p.Command == "" {
		return p.Line.ErrorOf(kind, p.LabelSpan, msg)
	}
	//
	return p.Line.ErrorOf(kind, p.CommandSpan, msg)
}

// OperandError constructs an error of a given kind covering a given operand.
func (p *Statement) OperandError(kind error, operand Operand, msg string) source.SyntaxError {
	return p.Line.ErrorOf(kind, operand.Span, msg)
}

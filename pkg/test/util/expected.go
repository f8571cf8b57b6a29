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
package util

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-cupid/pkg/asm"
	"github.com/consensys/go-cupid/pkg/vm"
)

// ERROR_KINDS maps the names used in test files to the errors they denote.
var ERROR_KINDS = map[string]error{
	"duplicate-data-section": asm.ErrDuplicateDataSection,
	"duplicate-label":        asm.ErrDuplicateLabel,
	"undefined-label":        asm.ErrUndefinedLabel,
	"cyclic-include":         asm.ErrCyclicInclude,
	"malformed-directive":    asm.ErrMalformedDirective,
	"invalid-opcode":         vm.ErrInvalidOpcode,
	"truncated-operand":      vm.ErrTruncatedOperand,
	"stack-underflow":        vm.ErrStackUnderflow,
	"arithmetic":             vm.ErrArithmetic,
	"unknown-native":         vm.ErrUnknownNativeFunction,
}

// ExpectedError describes an assembly error expected on a given line (of the
// test file itself) via an attribute such as "//error:3:undefined-label".
type ExpectedError struct {
	Line int
	Kind error
	Name string
}

func (p ExpectedError) String() string {
	return fmt.Sprintf("%d:%s", p.Line, p.Name)
}

// Expectation captures the observable outcome expected from executing a test
// program.  Fields left nil are not checked.
type Expectation struct {
	// Final contents of the operand stack, from bottom to top.
	Stack *[][]byte
	// Text written by natives.
	Output *string
	// Final value of the accumulator.
	Accumulator *uint32
	// Error expected to terminate execution.
	Fault error
	// Errors expected from assembly.
	Errors []ExpectedError
}

// ParseExpectation constructs an expectation from a set of attributes.
func ParseExpectation(attributes []Attribute) (Expectation, error) {
	var expected Expectation
	//
	for _, attr := range attributes {
		var err error
		//
		switch attr.Name {
		case "stack":
			var stack [][]byte
			stack, err = parseStack(attr.Value)
			expected.Stack = &stack
		case "output":
			var output string
			output, err = strconv.Unquote(strings.TrimSpace(attr.Value))
			expected.Output = &output
		case "ac":
			var ac uint64
			ac, err = strconv.ParseUint(strings.TrimSpace(attr.Value), 0, 32)
			value := uint32(ac)
			expected.Accumulator = &value
		case "fault":
			expected.Fault, err = parseKind(attr.Value)
		case "error":
			var e ExpectedError
			e, err = parseExpectedError(attr.Value)
			expected.Errors = append(expected.Errors, e)
		default:
			err = fmt.Errorf("unknown attribute \"%s\"", attr.Name)
		}
		//
		if err != nil {
			return expected, fmt.Errorf("line %d: %w", attr.Line.Number(), err)
		}
	}
	//
	return expected, nil
}

// Parse a stack such as "01|00 01", where values are separated by "|" and
// each value is given as hex bytes.
func parseStack(text string) ([][]byte, error) {
	var stack = [][]byte{}
	//
	if strings.TrimSpace(text) == "" {
		return stack, nil
	}
	//
	for _, value := range strings.Split(text, "|") {
		bytes, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
		if err != nil {
			return nil, err
		}
		//
		stack = append(stack, bytes)
	}
	//
	return stack, nil
}

func parseExpectedError(text string) (ExpectedError, error) {
	line, name, ok := strings.Cut(text, ":")
	if !ok {
		return ExpectedError{}, fmt.Errorf("malformed expected error \"%s\", should be e.g. \"//error:3:duplicate-label\"",
			text)
	}
	//
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return ExpectedError{}, fmt.Errorf("invalid line \"%s\"", line)
	}
	//
	kind, err := parseKind(name)
	//
	return ExpectedError{n, kind, strings.TrimSpace(name)}, err
}

func parseKind(name string) (error, error) {
	if kind, ok := ERROR_KINDS[strings.TrimSpace(name)]; ok {
		return kind, nil
	}
	//
	return nil, fmt.Errorf("unknown error kind \"%s\"", name)
}

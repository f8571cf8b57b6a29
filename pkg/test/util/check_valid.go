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
	"bytes"
	"errors"
	"testing"

	"github.com/consensys/go-cupid/pkg/asm"
	"github.com/consensys/go-cupid/pkg/asm/symbols"
	"github.com/consensys/go-cupid/pkg/disasm"
	"github.com/consensys/go-cupid/pkg/vm"
	"github.com/consensys/go-cupid/pkg/vm/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MAX_STEPS bounds the execution of any test program.
const MAX_STEPS = 100_000

// CheckValid checks that a given test program assembles and then executes
// with the expected outcome.  The assembled program is also checked against
// the disassembler and the symbol side-car.
func CheckValid(t *testing.T, test string) {
	// Enable testing each program in parallel
	t.Parallel()
	//
	srcfile, expected := readTest(t, test)
	program, errs := assemble(srcfile)
	//
	for _, err := range errs {
		t.Error(errorToString(err))
	}
	//
	if len(errs) > 0 {
		t.FailNow()
	}
	//
	checkSymbols(t, program)
	checkListing(t, program)
	checkExecution(t, program, expected)
}

func checkExecution(t *testing.T, program asm.Program, expected Expectation) {
	var (
		out     bytes.Buffer
		machine = vm.New(program.Image.Bytes, vm.WithNatives(native.Standard(&out)))
	)
	//
	_, err := machine.Execute(MAX_STEPS)
	//
	if expected.Fault != nil {
		var rerr *vm.RuntimeError
		//
		require.True(t, errors.As(err, &rerr), "expected runtime error, got %v", err)
		assert.ErrorIs(t, err, expected.Fault)
	} else {
		require.NoError(t, err)
		require.True(t, machine.Halted(), "program did not halt within %d steps", MAX_STEPS)
	}
	//
	if expected.Stack != nil {
		assert.Equal(t, *expected.Stack, nonNil(machine.Stack()), "operand stack")
	}
	//
	if expected.Output != nil {
		assert.Equal(t, *expected.Output, out.String(), "output")
	}
	//
	if expected.Accumulator != nil {
		assert.Equal(t, *expected.Accumulator, machine.Registers().AC, "accumulator")
	}
}

// Check the symbol side-car survives encoding, and that every code label falls
// within the code region.
func checkSymbols(t *testing.T, program asm.Program) {
	var table = program.Symbols()
	//
	data, err := symbols.Marshal(table)
	require.NoError(t, err)
	//
	decoded, err := symbols.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)
	//
	for _, sym := range table.Symbols {
		if sym.Kind == "code" {
			assert.LessOrEqual(t, sym.Address, table.CodeSize, "code label %s", sym.Name)
		} else {
			assert.GreaterOrEqual(t, sym.Address, table.CodeSize, "data label %s", sym.Name)
		}
	}
}

// Check the disassembled code region covers exactly the code bytes.
func checkListing(t *testing.T, program asm.Program) {
	var (
		table = program.Symbols()
		code  []byte
		data  []byte
	)
	//
	for _, line := range disasm.Listing(program.Image.Bytes, &table) {
		if line.IsData() {
			data = append(data, line.Bytes...)
		} else {
			code = append(code, line.Bytes...)
		}
	}
	//
	assert.Equal(t, program.Image.Bytes[:program.Image.CodeSize], nonNilBytes(code), "code region")
	assert.Equal(t, program.Image.Bytes[program.Image.CodeSize:], nonNilBytes(data), "data region")
}

func nonNil(stack [][]byte) [][]byte {
	if stack == nil {
		return [][]byte{}
	}
	//
	return stack
}

func nonNilBytes(bytes []byte) []byte {
	if bytes == nil {
		return []byte{}
	}
	//
	return bytes
}

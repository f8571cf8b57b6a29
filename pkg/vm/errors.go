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
package vm

import (
	"errors"
	"fmt"

	"github.com/consensys/go-cupid/pkg/isa"
)

// ErrInvalidOpcode signals an attempt to execute a byte which is not an opcode.
var ErrInvalidOpcode = isa.ErrInvalidOpcode

// ErrTruncatedOperand signals an instruction whose operand runs past the end of
// the image (or an instruction pointer beyond the image).
var ErrTruncatedOperand = isa.ErrTruncatedOperand

// ErrStackUnderflow signals a pop from an operand stack holding too few bytes,
// or a return with an empty call stack.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrArithmetic signals a division by zero.
var ErrArithmetic = errors.New("arithmetic error")

// ErrUnknownNativeFunction signals a callnat naming an unregistered function.
var ErrUnknownNativeFunction = errors.New("unknown native function")

// ErrHalted signals an attempt to step a machine which has already halted
// (either successfully or because of a fatal error).
var ErrHalted = errors.New("machine halted")

// RuntimeError is a fatal error arising during execution.  This identifies the
// instruction being executed when the error arose.
type RuntimeError struct {
	// Address of the failing instruction.
	IP uint32
	// Opcode of the failing instruction.  For decoding failures, this is the
	// raw byte found at IP (if any).
	Opcode isa.Opcode
	// Underlying cause, which wraps one of the sentinel errors above.
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s (ip=0x%04x, op=%s)", e.Err, e.IP, e.Opcode)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

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
	"fmt"

	"github.com/consensys/go-cupid/pkg/isa"
	"github.com/consensys/go-cupid/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// Flag is the tri-state result of the last comparison.
type Flag int8

const (
	// EQ indicates the compared values were equal.
	EQ Flag = 0
	// GT indicates the first value popped exceeded the second.
	GT Flag = 1
	// LT indicates the first value popped did not exceed the second (and they
	// were not equal).
	LT Flag = -1
)

func (f Flag) String() string {
	switch f {
	case EQ:
		return "EQ"
	case GT:
		return "GT"
	case LT:
		return "LT"
	default:
		return fmt.Sprintf("Flag(%d)", int8(f))
	}
}

// Registers holds the register file of a machine.
type Registers struct {
	// Instruction pointer
	IP uint32
	// Stack pointer (i.e. number of bytes on the operand stack)
	SP uint32
	// Accumulator
	AC uint32
	// Base pointer of the current call frame
	BP uint32
	// Comparison flag
	F Flag
}

// Frame is a single call frame, pushed by call and retired by ret.
type Frame struct {
	ReturnAddress    uint32
	SavedBasePointer uint32
}

// StepResult describes the outcome of executing a single instruction.
type StepResult struct {
	// Address of the executed instruction.
	Address uint32
	// The executed instruction.
	Instruction isa.Instruction
	// Value popped by pop8, pop16 or pop32.
	Value uint32
	// Bytes popped by any pop instruction.
	Bytes []byte
	// Indicates whether the instruction popped a value.
	Popped bool
	// Indicates whether the instruction halted the machine.
	Halted bool
}

// Machine executes a bytecode image.  A machine exclusively owns its registers
// and stacks, and executes one instruction at a time.  Once a machine has
// halted (either via halt or a fatal error) it cannot be resumed.
type Machine struct {
	image     []byte
	registers Registers
	stack     OperandStack
	calls     *stack.Stack[Frame]
	natives   map[string]Native
	// Hooks
	beforeStep []func(*Machine)
	afterStep  []func(*Machine)
	logger     *log.Entry
	// Execution status
	halted bool
	fault  error
	steps  uint64
}

// New constructs a machine ready to execute a given image from address 0.
func New(image []byte, options ...Option) *Machine {
	m := &Machine{
		image:   image,
		calls:   stack.NewStack[Frame](),
		natives: make(map[string]Native),
		logger:  log.NewEntry(log.StandardLogger()),
	}
	//
	for _, opt := range options {
		opt.apply(m)
	}
	//
	return m
}

// Registers returns the current register values.
func (m *Machine) Registers() Registers {
	return m.registers
}

// Stack returns a copy of each value on the operand stack, from bottom to top.
func (m *Machine) Stack() [][]byte {
	return m.stack.Values()
}

// StackBytes returns a copy of the raw bytes on the operand stack.
func (m *Machine) StackBytes() []byte {
	return m.stack.Bytes()
}

// CallStack returns a copy of the call stack, from outermost to innermost.
func (m *Machine) CallStack() []Frame {
	return m.calls.Items()
}

// Current decodes the instruction which will be executed next.
func (m *Machine) Current() (isa.Instruction, error) {
	insn, _, err := isa.Decode(m.image, m.registers.IP)
	return insn, err
}

// Image returns the image being executed.
func (m *Machine) Image() []byte {
	return m.image
}

// Halted indicates whether this machine has halted.
func (m *Machine) Halted() bool {
	return m.halted
}

// Err returns the fatal error which halted this machine, or nil if it has not
// failed.
func (m *Machine) Err() error {
	return m.fault
}

// Steps returns the number of instructions executed successfully so far.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Native returns the native function registered under a given name.
func (m *Machine) Native(name string) (Native, bool) {
	fn, ok := m.natives[name]
	return fn, ok
}

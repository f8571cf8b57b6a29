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
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.
func ExecuteAll(machine *Machine, n uint) (uint, error) {
	var nsteps uint
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Run executes this machine until it halts, returning any fatal error.
func (m *Machine) Run() error {
	_, err := ExecuteAll(m, 1024)
	return err
}

// Execute the machine for (at most) the given number of steps, returning the
// actual number of steps executed and an error (if execution failed).  Fewer
// steps are executed only if the machine halts.
func (m *Machine) Execute(steps uint) (uint, error) {
	for i := uint(0); i < steps; i++ {
		if m.halted {
			return i, m.fault
		} else if _, err := m.Step(); err != nil {
			return i, err
		}
	}
	//
	return steps, nil
}

// Step executes exactly one instruction.  Any error returned is a
// *RuntimeError, and is fatal: the machine is halted and every subsequent step
// fails with ErrHalted.
func (m *Machine) Step() (StepResult, error) {
	if m.halted {
		return StepResult{}, ErrHalted
	}
	//
	for _, h := range m.beforeStep {
		h(m)
	}
	//
	var ip = m.registers.IP
	// Fetch & decode
	insn, n, err := isa.Decode(m.image, ip)
	//
	if err != nil {
		var op isa.Opcode
		//
		if uint64(ip) < uint64(len(m.image)) {
			op = isa.Opcode(m.image[ip])
		}
		//
		return StepResult{}, m.fail(ip, op, err)
	}
	// Advance (jumps and calls may overwrite this)
	m.registers.IP = ip + n
	result := StepResult{Address: ip, Instruction: insn}
	// Execute
	err = m.dispatch(ip, insn, &result)
	m.registers.SP = m.stack.Len()
	//
	if err != nil {
		return StepResult{}, m.fail(ip, insn.Opcode, err)
	}
	//
	m.steps++
	m.trace(result)
	//
	for _, h := range m.afterStep {
		h(m)
	}
	//
	return result, nil
}

//nolint:gocyclo
func (m *Machine) dispatch(ip uint32, insn isa.Instruction, result *StepResult) error {
	var regs = &m.registers
	//
	switch insn.Opcode {
	case isa.NOP:
		// nothing
	case isa.PUSH8:
		m.stack.PushUint(insn.Value, 1)
	case isa.PUSH16:
		m.stack.PushUint(insn.Value, 2)
	case isa.PUSH32:
		m.stack.PushUint(insn.Value, 4)
	case isa.PUSHSZ:
		m.stack.Push(append([]byte(insn.Bytes), 0))
	case isa.PUSHAC:
		m.stack.PushUint(regs.AC, 4)
	case isa.POP8, isa.POP16, isa.POP32:
		width := uint32(1) << (insn.Opcode - isa.POP8)
		bytes, err := m.stack.PopBytes(width)
		//
		if err != nil {
			return err
		}
		//
		result.Bytes, result.Value, result.Popped = bytes, toUint32(bytes), true
	case isa.POPSZ:
		bytes, err := m.stack.Pop()
		if err != nil {
			return err
		}
		//
		result.Bytes, result.Popped = bytes, true
	case isa.CMP:
		b, a, err := m.popOperands()
		if err != nil {
			return err
		}
		//
		switch {
		case a == b:
			regs.F = EQ
		case b > a:
			regs.F = GT
		default:
			regs.F = LT
		}
	case isa.JMP:
		regs.IP = insn.Value
	case isa.JMP_REL:
		regs.IP = uint32(int64(ip) + int64(insn.Offset()))
	case isa.JEQ:
		if regs.F == EQ {
			regs.IP = insn.Value
		}
	case isa.JNE:
		if regs.F != EQ {
			regs.IP = insn.Value
		}
	case isa.ADD, isa.SUB, isa.MUL, isa.DIV:
		return m.arithmetic(insn.Opcode)
	case isa.CALL:
		m.calls.Push(Frame{ReturnAddress: regs.IP, SavedBasePointer: regs.BP})
		regs.BP = m.stack.Len()
		regs.IP = insn.Value
	case isa.CALLNAT:
		return m.callNative(insn.Bytes)
	case isa.RET:
		frame, ok := m.calls.TryPop()
		if !ok {
			return fmt.Errorf("%w (return with empty call stack)", ErrStackUnderflow)
		}
		//
		regs.BP = frame.SavedBasePointer
		regs.IP = frame.ReturnAddress
	case isa.HALT:
		m.halted = true
		result.Halted = true
	default:
		// Decode only yields valid opcodes
		panic(fmt.Sprintf("unknown opcode 0x%02x", byte(insn.Opcode)))
	}
	//
	return nil
}

// Pop two operands, zero-extended to four bytes.  The topmost operand is
// returned first.
func (m *Machine) popOperands() (uint32, uint32, error) {
	b, err := m.stack.PopUint32()
	if err != nil {
		return 0, 0, err
	}
	//
	a, err := m.stack.PopUint32()
	if err != nil {
		return 0, 0, err
	}
	//
	return b, a, nil
}

// Apply an arithmetic operation a OP b, where b is the topmost operand.
// Results wrap modulo 2^32 and are pushed as four byte values.
func (m *Machine) arithmetic(op isa.Opcode) error {
	var result uint32
	//
	b, a, err := m.popOperands()
	if err != nil {
		return err
	}
	//
	switch op {
	case isa.ADD:
		result = a + b
	case isa.SUB:
		result = a - b
	case isa.MUL:
		result = a * b
	default:
		if b == 0 {
			return fmt.Errorf("%w (division by zero)", ErrArithmetic)
		}
		//
		result = a / b
	}
	//
	m.stack.PushUint(result, 4)
	//
	return nil
}

func (m *Machine) callNative(name string) error {
	native, ok := m.natives[name]
	//
	if !ok {
		return fmt.Errorf("%w \"%s\"", ErrUnknownNativeFunction, name)
	} else if err := native.Call(machineHost{m}); err != nil {
		return fmt.Errorf("native \"%s\": %w", name, err)
	}
	//
	return nil
}

func (m *Machine) fail(ip uint32, op isa.Opcode, err error) error {
	m.halted = true
	m.fault = &RuntimeError{IP: ip, Opcode: op, Err: err}
	m.registers.SP = m.stack.Len()
	//
	m.logger.WithField("ip", fmt.Sprintf("0x%04x", ip)).Debug(m.fault.Error())
	//
	return m.fault
}

func (m *Machine) trace(result StepResult) {
	if !m.logger.Logger.IsLevelEnabled(log.TraceLevel) {
		return
	}
	//
	m.logger.WithFields(log.Fields{
		"ip":   fmt.Sprintf("0x%04x", result.Address),
		"op":   result.Instruction.Opcode.String(),
		"step": m.steps,
	}).Trace(dumper.Sdump(m.registers, m.stack.Values()))
}

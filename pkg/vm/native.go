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

// Host provides a native function with access to the state of the machine
// invoking it.
type Host interface {
	// Push a value onto the operand stack.
	Push(value []byte)
	// PushUint32 pushes a four byte value onto the operand stack.
	PushUint32(value uint32)
	// Pop the topmost value from the operand stack.
	Pop() ([]byte, error)
	// PopUint32 pops the topmost value from the operand stack, zero-extended
	// to four bytes.
	PopUint32() (uint32, error)
	// Accumulator returns the current value of the accumulator.
	Accumulator() uint32
	// SetAccumulator updates the accumulator.
	SetAccumulator(value uint32)
}

// Native is a host function which can be invoked by name from a running
// program.  Natives are synchronous, hence the machine waits for them to
// return.  Any error returned is fatal to the machine.
type Native interface {
	Call(host Host) error
}

// NativeFunc adapts an ordinary function into a Native.
type NativeFunc func(host Host) error

// Call implementation for the Native interface.
func (f NativeFunc) Call(host Host) error {
	return f(host)
}

// The host view of a machine.
type machineHost struct {
	machine *Machine
}

func (p machineHost) Push(value []byte) {
	p.machine.stack.Push(value)
}

func (p machineHost) PushUint32(value uint32) {
	p.machine.stack.PushUint(value, 4)
}

func (p machineHost) Pop() ([]byte, error) {
	return p.machine.stack.Pop()
}

func (p machineHost) PopUint32() (uint32, error) {
	return p.machine.stack.PopUint32()
}

func (p machineHost) Accumulator() uint32 {
	return p.machine.registers.AC
}

func (p machineHost) SetAccumulator(value uint32) {
	p.machine.registers.AC = value
}

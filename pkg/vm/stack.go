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
	"encoding/binary"
	"fmt"
)

// OperandStack is a byte-addressed stack holding values of varying widths.
// Alongside the raw bytes, the width of each pushed value is recorded so that
// instructions which pop "a value" (rather than a fixed number of bytes) know
// how much to pop.  The stack pointer is simply the number of bytes held.
type OperandStack struct {
	data []byte
	// Width of each value on the stack, from bottom to top.
	extents []uint32
}

// Len returns the number of bytes held on the stack.
func (p *OperandStack) Len() uint32 {
	return uint32(len(p.data))
}

// Depth returns the number of values held on the stack.
func (p *OperandStack) Depth() uint {
	return uint(len(p.extents))
}

// Push a value onto the stack.  Pushing an empty value has no effect.
func (p *OperandStack) Push(value []byte) {
	if len(value) > 0 {
		p.data = append(p.data, value...)
		p.extents = append(p.extents, uint32(len(value)))
	}
}

// PushUint pushes the low-order bytes of a given value onto the stack, in
// little-endian order.
func (p *OperandStack) PushUint(value uint32, width uint32) {
	var buf [4]byte
	//
	binary.LittleEndian.PutUint32(buf[:], value)
	p.Push(buf[:width])
}

// PopBytes pops exactly n raw bytes from the stack, irrespective of how they
// were pushed.  A value which is only partially popped is narrowed
// accordingly.
func (p *OperandStack) PopBytes(n uint32) ([]byte, error) {
	if n > p.Len() {
		return nil, fmt.Errorf("%w (popping %d bytes, %d available)", ErrStackUnderflow, n, p.Len())
	}
	//
	var (
		start = p.Len() - n
		bytes = append([]byte(nil), p.data[start:]...)
	)
	//
	p.data = p.data[:start]
	// Update extents
	for n > 0 {
		last := len(p.extents) - 1
		//
		if top := p.extents[last]; top <= n {
			n -= top
			p.extents = p.extents[:last]
		} else {
			p.extents[last] -= n
			n = 0
		}
	}
	//
	return bytes, nil
}

// Pop the topmost value from the stack, whatever its width.
func (p *OperandStack) Pop() ([]byte, error) {
	if len(p.extents) == 0 {
		return nil, fmt.Errorf("%w (stack empty)", ErrStackUnderflow)
	}
	//
	return p.PopBytes(p.extents[len(p.extents)-1])
}

// PopUint32 pops the topmost value from the stack, zero-extending it to four
// bytes.  Values wider than four bytes (i.e. strings) are truncated to their
// first four bytes.
func (p *OperandStack) PopUint32() (uint32, error) {
	bytes, err := p.Pop()
	if err != nil {
		return 0, err
	}
	//
	return toUint32(bytes), nil
}

// Values returns a copy of each value on the stack, from bottom to top.
func (p *OperandStack) Values() [][]byte {
	var (
		values = make([][]byte, len(p.extents))
		offset = uint32(0)
	)
	//
	for i, width := range p.extents {
		values[i] = append([]byte(nil), p.data[offset:offset+width]...)
		offset += width
	}
	//
	return values
}

// Bytes returns a copy of the raw bytes on the stack.
func (p *OperandStack) Bytes() []byte {
	return append([]byte(nil), p.data...)
}

// Zero extend (or truncate) a little-endian value to four bytes.
func toUint32(bytes []byte) uint32 {
	var buf [4]byte
	//
	copy(buf[:], bytes)
	//
	return binary.LittleEndian.Uint32(buf[:])
}

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
package vm_test

import (
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/consensys/go-cupid/pkg/isa"
	"github.com/consensys/go-cupid/pkg/vm"
)

// Construct a machine over the encoding of a given instruction sequence.
func machineOf(insns []isa.Instruction, options ...vm.Option) *vm.Machine {
	return vm.New(isa.EncodeAll(insns...), options...)
}

func push8(v uint32) isa.Instruction  { return isa.Imm(isa.PUSH8, v) }
func push16(v uint32) isa.Instruction { return isa.Imm(isa.PUSH16, v) }
func push32(v uint32) isa.Instruction { return isa.Imm(isa.PUSH32, v) }

var halt = isa.Op(isa.HALT)

var _ = Describe("Machine", func() {
	var machine *vm.Machine

	run := func(insns ...isa.Instruction) error {
		machine = machineOf(insns)
		return machine.Run()
	}

	Context("when pushing values", func() {
		It("should record the width of each value", func() {
			Expect(run(push8(1), push16(0x100), push32(0x01020304), halt)).To(Succeed())

			Expect(machine.Stack()).To(Equal([][]byte{
				{1}, {0, 1}, {4, 3, 2, 1},
			}))
			Expect(machine.Registers().SP).To(Equal(uint32(7)))
			Expect(machine.Halted()).To(BeTrue())
		})

		It("should push strings with a NUL terminator", func() {
			Expect(run(isa.Str(isa.PUSHSZ, "hi"), halt)).To(Succeed())

			Expect(machine.Stack()).To(Equal([][]byte{{'h', 'i', 0}}))
			Expect(machine.StackBytes()).To(Equal([]byte{'h', 'i', 0}))
		})

		It("should push the accumulator as four bytes", func() {
			Expect(run(isa.Op(isa.PUSHAC), halt)).To(Succeed())

			Expect(machine.Stack()).To(Equal([][]byte{{0, 0, 0, 0}}))
		})
	})

	Context("when popping values", func() {
		It("should pop raw little-endian bytes", func() {
			machine = machineOf([]isa.Instruction{push8(1), push8(2), isa.Op(isa.POP16), halt})

			_, err := machine.Execute(2)
			Expect(err).NotTo(HaveOccurred())

			result, err := machine.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Popped).To(BeTrue())
			Expect(result.Bytes).To(Equal([]byte{1, 2}))
			Expect(result.Value).To(Equal(uint32(0x0201)))
			Expect(machine.Registers().SP).To(BeZero())
		})

		It("should pop strings including their terminator", func() {
			machine = machineOf([]isa.Instruction{isa.Str(isa.PUSHSZ, "ok"), isa.Op(isa.POPSZ), halt})

			_, err := machine.Step()
			Expect(err).NotTo(HaveOccurred())

			result, err := machine.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Bytes).To(Equal([]byte{'o', 'k', 0}))
		})

		It("should pop the top value whole regardless of its contents", func() {
			machine = machineOf([]isa.Instruction{push8(7), push16(0x0201), isa.Op(isa.POPSZ), halt})

			Expect(machine.Run()).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{7}}))
			Expect(machine.Registers().SP).To(Equal(uint32(1)))
		})

		It("should fail on an empty stack", func() {
			err := run(isa.Op(isa.POP8), halt)

			Expect(errors.Is(err, vm.ErrStackUnderflow)).To(BeTrue())
		})

		It("should fail when fewer bytes than requested remain", func() {
			err := run(push16(1), isa.Op(isa.POP32), halt)

			Expect(errors.Is(err, vm.ErrStackUnderflow)).To(BeTrue())
		})
	})

	Context("when comparing values", func() {
		DescribeTable("should set the flag",
			func(a, b isa.Instruction, expected vm.Flag) {
				Expect(run(a, b, isa.Op(isa.CMP), halt)).To(Succeed())
				Expect(machine.Registers().F).To(Equal(expected))
				Expect(machine.Stack()).To(BeEmpty())
			},
			Entry("equal", push8(7), push8(7), vm.EQ),
			Entry("top greater", push8(3), push8(5), vm.GT),
			Entry("top smaller", push8(5), push8(3), vm.LT),
			Entry("zero-extended", push8(1), push32(1), vm.EQ),
			Entry("unsigned", push32(1), push32(0xFFFFFFFF), vm.GT),
		)

		It("should branch on the flag", func() {
			// 0: push8 1; 2: push8 1; 4: cmp; 5: jeq 13; 10: push8 9; 12: halt; 13: push8 2; 15: halt
			Expect(run(push8(1), push8(1), isa.Op(isa.CMP), isa.Imm(isa.JEQ, 13),
				push8(9), halt, push8(2), halt)).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{2}}))
		})

		It("should fall through when the branch is not taken", func() {
			Expect(run(push8(1), push8(1), isa.Op(isa.CMP), isa.Imm(isa.JNE, 13),
				push8(9), halt, push8(2), halt)).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{9}}))
		})
	})

	Context("when performing arithmetic", func() {
		DescribeTable("should push a four byte result",
			func(op isa.Opcode, a, b int, expected int) {
				Expect(run(push32(uint32(a)), push32(uint32(b)), isa.Op(op), halt)).To(Succeed())
				Expect(machine.Stack()).To(HaveLen(1))

				value := uint32(expected)
				Expect(machine.Stack()[0]).To(Equal([]byte{
					byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24),
				}))
			},
			Entry("add", isa.ADD, 0xFF, 1, 0x100),
			Entry("add wraps", isa.ADD, 0xFFFFFFFF, 2, 1),
			Entry("sub", isa.SUB, 5, 3, 2),
			Entry("sub wraps", isa.SUB, 0, 1, 0xFFFFFFFF),
			Entry("mul", isa.MUL, 6, 7, 42),
			Entry("div", isa.DIV, 7, 2, 3),
		)

		It("should zero-extend narrow operands", func() {
			Expect(run(push8(0xFF), push8(1), isa.Op(isa.ADD), halt)).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{0, 1, 0, 0}}))
		})

		It("should leave the accumulator untouched", func() {
			Expect(run(push8(2), push8(3), isa.Op(isa.MUL), halt)).To(Succeed())
			Expect(machine.Registers().AC).To(BeZero())
		})

		It("should report division by zero", func() {
			err := run(push8(1), push8(0), isa.Op(isa.DIV), halt)

			var rerr *vm.RuntimeError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(errors.Is(err, vm.ErrArithmetic)).To(BeTrue())
			Expect(rerr.IP).To(Equal(uint32(4)))
			Expect(rerr.Opcode).To(Equal(isa.DIV))
			Expect(machine.Stack()).To(BeEmpty())
		})
	})

	Context("when jumping", func() {
		It("should jump to an absolute address", func() {
			// 0: push8 1; 2: j 9; 7: push8 2; 9: halt
			Expect(run(push8(1), isa.Imm(isa.JMP, 9), push8(2), halt)).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{1}}))
		})

		It("should jump forward relative to the jump itself", func() {
			// 0: j +7; 5: push8 2; 7: halt
			Expect(run(isa.Rel(7), push8(2), halt)).To(Succeed())
			Expect(machine.Stack()).To(BeEmpty())
			Expect(machine.Registers().IP).To(Equal(uint32(8)))
		})

		It("should jump backward relative to the jump itself", func() {
			// 0: j 8; 5: halt; 6: nop; 7: nop; 8: j -3
			Expect(run(isa.Imm(isa.JMP, 8), halt, isa.Op(isa.NOP), isa.Op(isa.NOP), isa.Rel(-3))).To(Succeed())
			Expect(machine.Steps()).To(Equal(uint64(3)))
		})
	})

	Context("when calling subroutines", func() {
		// 0: push8 7; 2: call 10; 7: push8 2; 9: halt; 10: push8 1; 12: ret
		program := []isa.Instruction{
			push8(7), isa.Imm(isa.CALL, 10), push8(2), halt, push8(1), isa.Op(isa.RET),
		}

		It("should return to the instruction after the call", func() {
			Expect(run(program...)).To(Succeed())
			Expect(machine.Stack()).To(Equal([][]byte{{7}, {1}, {2}}))
			Expect(machine.CallStack()).To(BeEmpty())
			Expect(machine.Registers().BP).To(BeZero())
		})

		It("should record a call frame", func() {
			var (
				frames []vm.Frame
				fired  int
			)

			machine = machineOf(program, vm.AfterStep(func(m *vm.Machine) {
				// Only the call itself leaves a frame and lands on the subroutine
				if m.Registers().IP == 10 && len(m.CallStack()) > 0 {
					fired++
					frames = m.CallStack()
					Expect(m.Registers().BP).To(Equal(uint32(1)))
				}
			}))

			Expect(machine.Run()).To(Succeed())
			Expect(fired).To(Equal(1))
			Expect(frames).To(Equal([]vm.Frame{{ReturnAddress: 7, SavedBasePointer: 0}}))
		})

		It("should fail to return without a frame", func() {
			err := run(isa.Op(isa.RET))

			Expect(errors.Is(err, vm.ErrStackUnderflow)).To(BeTrue())
		})
	})

	Context("when calling natives", func() {
		var (
			mockCtrl   *gomock.Controller
			mockNative *MockNative
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockNative = NewMockNative(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should pass the host to the native", func() {
			mockNative.EXPECT().
				Call(gomock.Any()).
				DoAndReturn(func(host vm.Host) error {
					value, err := host.PopUint32()
					Expect(err).NotTo(HaveOccurred())
					host.SetAccumulator(value * 2)

					return nil
				})

			machine = machineOf([]isa.Instruction{
				push8(21), isa.Str(isa.CALLNAT, "double"), isa.Op(isa.PUSHAC), halt,
			}, vm.WithNative("double", mockNative))

			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers().AC).To(Equal(uint32(42)))
			Expect(machine.Stack()).To(Equal([][]byte{{42, 0, 0, 0}}))

			_, ok := machine.Native("double")
			Expect(ok).To(BeTrue())
			_, ok = machine.Native("triple")
			Expect(ok).To(BeFalse())
		})

		It("should propagate native failures", func() {
			boom := errors.New("boom")
			mockNative.EXPECT().Call(gomock.Any()).Return(boom)

			machine = machineOf([]isa.Instruction{isa.Str(isa.CALLNAT, "f"), halt},
				vm.WithNatives(map[string]vm.Native{"f": mockNative}))

			err := machine.Run()
			Expect(errors.Is(err, boom)).To(BeTrue())
			Expect(machine.Halted()).To(BeTrue())
		})

		It("should reject unknown natives", func() {
			err := run(isa.Str(isa.CALLNAT, "missing"), halt)

			Expect(errors.Is(err, vm.ErrUnknownNativeFunction)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("missing"))
		})
	})

	Context("when decoding fails", func() {
		It("should reject invalid opcodes", func() {
			machine = vm.New([]byte{0x0A})

			err := machine.Run()
			Expect(errors.Is(err, vm.ErrInvalidOpcode)).To(BeTrue())
		})

		It("should reject truncated operands", func() {
			machine = vm.New([]byte{byte(isa.PUSH32), 1, 2})

			err := machine.Run()
			Expect(errors.Is(err, vm.ErrTruncatedOperand)).To(BeTrue())
		})

		It("should fail when running off the end of the image", func() {
			err := run(isa.Op(isa.NOP))

			var rerr *vm.RuntimeError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.IP).To(Equal(uint32(1)))
		})
	})

	Context("when terminated", func() {
		It("should refuse to step after halting", func() {
			Expect(run(halt)).To(Succeed())

			_, err := machine.Step()
			Expect(err).To(MatchError(vm.ErrHalted))
		})

		It("should refuse to step after failing", func() {
			Expect(run(isa.Op(isa.POP8))).NotTo(Succeed())

			_, err := machine.Step()
			Expect(err).To(MatchError(vm.ErrHalted))
			Expect(machine.Err()).To(HaveOccurred())
		})

		It("should stop executing early on halt", func() {
			nop := isa.Op(isa.NOP)
			machine = machineOf([]isa.Instruction{nop, nop, nop, halt})

			n, err := machine.Execute(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(uint(2)))
			Expect(machine.Registers().IP).To(Equal(uint32(2)))

			insn, err := machine.Current()
			Expect(err).NotTo(HaveOccurred())
			Expect(insn).To(Equal(nop))

			n, err = machine.Execute(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(uint(2)))
		})
	})

	Context("when hooked", func() {
		It("should invoke hooks around every step", func() {
			var before, after int

			machine = machineOf([]isa.Instruction{push8(1), push8(2), halt},
				vm.BeforeStep(func(*vm.Machine) { before++ }),
				vm.AfterStep(func(*vm.Machine) { after++ }))

			n, err := vm.ExecuteAll(machine, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(uint(3)))
			Expect(before).To(Equal(3))
			Expect(after).To(Equal(3))
		})
	})
})

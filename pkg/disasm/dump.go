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
package disasm

import (
	"fmt"
	"strings"

	"github.com/consensys/go-cupid/pkg/vm"
	"github.com/davecgh/go-spew/spew"
)

// DumpRegisters renders the register file on a single line.
func DumpRegisters(regs vm.Registers) string {
	return fmt.Sprintf("ip=0x%04x sp=0x%04x bp=0x%04x ac=0x%08x (%d) f=%s",
		regs.IP, regs.SP, regs.BP, regs.AC, regs.AC, regs.F)
}

// DumpStack renders the operand stack, one value per line from the topmost
// down.  Each line shows the value's bytes and its little-endian value (when
// at most four bytes wide) or its printable text (otherwise).
func DumpStack(values [][]byte) string {
	var builder strings.Builder
	//
	for i := len(values) - 1; i >= 0; i-- {
		value := values[i]
		builder.WriteString(fmt.Sprintf("[%d] %-*s : ", i, BYTES_COLUMN, hexOf(value)))
		//
		if len(value) <= 4 {
			builder.WriteString(fmt.Sprintf("%d", littleEndian(value)))
		} else {
			builder.WriteString(Quote(string(value)))
		}
		//
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// DumpCallStack renders the call stack using spew, which is suitable for
// debug output.
func DumpCallStack(frames []vm.Frame) string {
	var config = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	//
	return config.Sdump(frames)
}

func littleEndian(bytes []byte) uint32 {
	var value uint32
	//
	for i := len(bytes) - 1; i >= 0; i-- {
		value = value<<8 | uint32(bytes[i])
	}
	//
	return value
}

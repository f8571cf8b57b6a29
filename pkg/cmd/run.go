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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-cupid/pkg/disasm"
	"github.com/consensys/go-cupid/pkg/vm"
	"github.com/consensys/go-cupid/pkg/vm/native"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// SOURCE_EXT identifies files which are assembled before execution.
const SOURCE_EXT = ".casm"

var runCmd = &cobra.Command{
	Use:   "run [flags] file",
	Short: "Execute a bytecode image or source file.",
	Long: `Execute a bytecode image until it halts.  Source files (i.e. those with a .casm
extension) are first assembled in memory.`,
	Aliases: []string{"exec"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			input    = args[0]
			cfg      = loadConfig(cmd, input)
			natives  = GetStringArray(cmd, "native")
			maxSteps = GetUint(cmd, "max-steps")
			image    []byte
		)
		//
		if GetFlag(cmd, "trace") || cfg.VM.Trace {
			log.SetLevel(log.TraceLevel)
		}
		//
		if len(natives) == 0 {
			natives = cfg.VM.Natives
		}
		//
		if filepath.Ext(input) == SOURCE_EXT {
			includes := append(GetStringArray(cmd, "include"), cfg.IncludePaths()...)
			image = assembleSourceFile(input, includes).Image.Bytes
		} else {
			image = readImage(input)
		}
		//
		table, err := native.Select(os.Stdout, natives...)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		machine := vm.New(image, vm.WithNatives(table), vm.WithLogger(log.WithField("image", input)))
		//
		if err = execute(machine, maxSteps); err != nil {
			log.Error(err)
		}
		//
		if GetFlag(cmd, "dump") || err != nil {
			dumpMachine(machine)
		}
		//
		if err != nil {
			os.Exit(4)
		}
	},
}

// Execute a machine in chunks of 1K steps, up to an optional bound.
func execute(machine *vm.Machine, maxSteps uint) error {
	if maxSteps == 0 {
		return machine.Run()
	}
	//
	for n := uint(0); n < maxSteps && !machine.Halted(); {
		m, err := machine.Execute(min(maxSteps-n, 1024))
		if err != nil {
			return err
		}
		//
		n += m
	}
	//
	if !machine.Halted() {
		return fmt.Errorf("step limit (%d) reached at ip=0x%04x", maxSteps, machine.Registers().IP)
	}
	//
	return nil
}

func dumpMachine(machine *vm.Machine) {
	fmt.Println(disasm.DumpRegisters(machine.Registers()))
	fmt.Print(disasm.DumpStack(machine.Stack()))
	//
	if frames := machine.CallStack(); len(frames) > 0 {
		fmt.Print(disasm.DumpCallStack(frames))
	}
}

func readImage(filename string) []byte {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return bytes
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("trace", false, "log every executed instruction")
	runCmd.Flags().Bool("dump", false, "print machine state on termination")
	runCmd.Flags().StringArrayP("include", "I", nil, "add directory to include search path")
	runCmd.Flags().StringArray("native", nil, "make native function available (default: all)")
	runCmd.Flags().Uint("max-steps", 0, "maximum number of steps to execute (0 for no limit)")
}

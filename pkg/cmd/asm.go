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

	"github.com/consensys/go-cupid/pkg/asm/symbols"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] file.casm",
	Short: "Assemble a source file into a bytecode image.",
	Long: `Assemble a source file into a bytecode image.  The image consists of a code region
followed by a data region, and execution begins at address 0.  Optionally, a symbol
table can be written alongside the image for use with disasm.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			input = args[0]
			cfg   = loadConfig(cmd, input)
			// Command-line include directories take precedence
			includes = append(GetStringArray(cmd, "include"), cfg.IncludePaths()...)
			output   = GetString(cmd, "output")
		)
		//
		if output == "" {
			output = cfg.OutputFor(input)
		}
		//
		program := assembleSourceFile(input, includes)
		// Write image
		if err := os.WriteFile(output, program.Image.Bytes, 0o644); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		log.Debug(fmt.Sprintf("wrote %d bytes to %s", len(program.Image.Bytes), output))
		// Write symbols (if requested)
		if GetFlag(cmd, "symbols") || cfg.Assembler.Symbols {
			filename := symbols.Filename(output)
			//
			if err := symbols.WriteFile(filename, program.Symbols()); err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			log.Debug(fmt.Sprintf("wrote %d symbols to %s", len(program.Labels), filename))
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(asmCmd)
	asmCmd.Flags().StringP("output", "o", "", "output file (default: input with .bin extension)")
	asmCmd.Flags().StringArrayP("include", "I", nil, "add directory to include search path")
	asmCmd.Flags().Bool("symbols", false, "write a symbol table alongside the image")
}

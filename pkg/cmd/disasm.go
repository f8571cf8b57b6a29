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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-cupid/pkg/asm/symbols"
	"github.com/consensys/go-cupid/pkg/disasm"
	"github.com/consensys/go-cupid/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] image.bin",
	Short: "Disassemble a bytecode image.",
	Long: `Disassemble a bytecode image.  When a symbol table exists alongside the image, it is
used to separate code from data and to annotate addresses with labels.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			input = args[0]
			image = readImage(input)
			table *symbols.Table
		)
		//
		if !GetFlag(cmd, "no-symbols") {
			table = readSymbols(symbols.Filename(input))
		}
		//
		width := GetUint(cmd, "width")
		if width == 0 {
			width = termio.Width(os.Stdout)
		}
		//
		if err := disasm.Write(os.Stdout, disasm.Listing(image, table), table, width); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

// Read a symbol table, returning nil if none exists.
func readSymbols(filename string) *symbols.Table {
	table, err := symbols.ReadFile(filename)
	//
	if errors.Is(err, os.ErrNotExist) {
		log.Debug(fmt.Sprintf("no symbol table %s", filename))
		return nil
	} else if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return &table
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().Bool("no-symbols", false, "ignore any symbol table")
	disasmCmd.Flags().Uint("width", 0, "maximum line width (default: terminal width)")
}

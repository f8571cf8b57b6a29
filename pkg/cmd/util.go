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
	"strings"

	"github.com/consensys/go-cupid/pkg/asm"
	"github.com/consensys/go-cupid/pkg/asm/preprocess"
	"github.com/consensys/go-cupid/pkg/config"
	"github.com/consensys/go-cupid/pkg/util"
	"github.com/consensys/go-cupid/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected string array flag, or panic if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Load the project configuration applicable to a given input file.  This is
// either taken from the directory given by --config, or found by searching
// upwards from the input file's directory.
func loadConfig(cmd *cobra.Command, input string) *config.Config {
	var (
		c   *config.Config
		err error
	)
	//
	if dir := GetString(cmd, "config"); dir != "" {
		c, err = config.Load(dir)
	} else {
		c, err = config.FindAndLoad(filepath.Dir(input))
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	} else if c.Dir != "" {
		log.Debug(fmt.Sprintf("using configuration %s", filepath.Join(c.Dir, config.FILENAME)))
	}
	//
	return c
}

// Assemble a given source file, searching the given directories for included
// files.  Syntax errors are reported and cause termination.
func assembleSourceFile(filename string, includes []string) asm.Program {
	var stats = util.NewPerfStats()
	//
	log.Debug(fmt.Sprintf("assembling source file %s", filename))
	// Read source file
	bytes, err := os.ReadFile(filename)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	srcfile := source.NewSourceFile(filename, bytes)
	program, errors := asm.Assemble(srcfile, preprocess.NewDirResolver(includes...))
	// Check for errors
	if len(errors) != 0 {
		// Report errors
		for _, err := range errors {
			printSyntaxError(&err)
		}
		//
		os.Exit(4)
	}
	//
	stats.Log("assembly")
	//
	return program
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}

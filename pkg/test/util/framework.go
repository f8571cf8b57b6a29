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
package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-cupid/pkg/asm"
	"github.com/consensys/go-cupid/pkg/asm/preprocess"
	"github.com/consensys/go-cupid/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the test programs are found.
const TestDir = "../../testdata"

// LibDir is searched for included files not found alongside the including
// file.
const LibDir = TestDir + "/valid/lib"

// Read a test program and its expectation.
func readTest(t *testing.T, test string) (*source.File, Expectation) {
	var filename = fmt.Sprintf("%s/%s.casm", TestDir, test)
	// Read test file
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	srcfile := source.NewSourceFile(filename, bytes)
	expected, err := ParseExpectation(ExtractAttributes(srcfile))
	//
	if err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
	//
	return srcfile, expected
}

func assemble(srcfile *source.File) (asm.Program, []source.SyntaxError) {
	return asm.Assemble(srcfile, preprocess.NewDirResolver(LibDir))
}

// Convert an error into a useful human readable string.
func errorToString(err source.SyntaxError) string {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	return fmt.Sprintf("%s:%d:%d-%d %s", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
}

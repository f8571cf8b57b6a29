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
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/go-cupid/pkg/util/source"
)

// CheckInvalid checks that a given test program fails to assemble, producing
// exactly the expected errors (in order).
func CheckInvalid(t *testing.T, test string) {
	// Enable testing each program in parallel
	t.Parallel()
	//
	srcfile, expected := readTest(t, test)
	//
	if len(expected.Errors) == 0 {
		t.Fatalf("%s: missing expected errors", srcfile.Filename())
	}
	//
	program, actual := assemble(srcfile)
	// Check program did not assemble!
	if len(actual) == 0 {
		t.Fatalf("Error %s should not have assembled", srcfile.Filename())
	} else if len(program.Image.Bytes) != 0 {
		t.Fatalf("Error %s produced an image despite errors", srcfile.Filename())
	}
	//
	checkExpectedErrors(t, srcfile, actual, expected.Errors)
}

func checkExpectedErrors(t *testing.T, srcfile *source.File, actual []source.SyntaxError, expected []ExpectedError) {
	var (
		failed = false
		// Construct initial message
		msg = fmt.Sprintf("Error %s\n", srcfile.Filename())
	)
	// Pad out with what received
	for i := 0; i < max(len(actual), len(expected)); i++ {
		if i < len(actual) && i < len(expected) && matches(actual[i], expected[i]) {
			continue
		}
		// Indicate error arose
		failed = true
		// actual
		if i < len(actual) {
			msg = fmt.Sprintf("%s unexpected error %s\n", msg, errorToString(actual[i]))
		}
		// expected
		if i < len(expected) {
			msg = fmt.Sprintf("%s   expected error %s\n", msg, expected[i])
		}
	}
	//
	if failed {
		t.Fatal(msg)
	}
}

func matches(actual source.SyntaxError, expected ExpectedError) bool {
	line := actual.FirstEnclosingLine()
	//
	return line.Number() == expected.Line && errors.Is(&actual, expected.Kind)
}

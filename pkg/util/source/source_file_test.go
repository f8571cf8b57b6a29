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
package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

func Test_Lines_01(t *testing.T) {
	checkLines(t, "")
}

func Test_Lines_02(t *testing.T) {
	checkLines(t, "push8 1", "push8 1")
}

func Test_Lines_03(t *testing.T) {
	checkLines(t, "push8 1\n", "push8 1")
}

func Test_Lines_04(t *testing.T) {
	checkLines(t, "a\n\nb", "a", "", "b")
}

func Test_Lines_05(t *testing.T) {
	checkLines(t, "a\r\nb\r\n", "a", "b")
}

func Test_SyntaxError_01(t *testing.T) {
	var (
		file = NewSourceFile("test.casm", []byte("nop\npush8 $x\nhalt"))
		// "$x" starts at index 10
		err = file.ErrorOf(errTest, NewSpan(10, 12), "unknown label")
	)
	//
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, "test.casm:2:7: unknown label", err.Error())
	//
	line := err.FirstEnclosingLine()
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "push8 $x", line.String())
}

func Test_SyntaxError_02(t *testing.T) {
	var (
		file = NewSourceFile("test.casm", []byte("nop"))
		err  = file.SyntaxError(NewSpan(0, 3), "oops")
	)
	//
	require.Nil(t, err.Kind())
	assert.False(t, errors.Is(err, errTest))
}

func Test_Span_01(t *testing.T) {
	var span = NewSpan(2, 4)
	//
	assert.Equal(t, NewSpan(12, 14), span.Shift(10))
	assert.Equal(t, NewSpan(1, 4), span.Join(NewSpan(1, 3)))
	assert.Equal(t, 2, span.Length())
}

func checkLines(t *testing.T, input string, expected ...string) {
	var (
		file   = NewSourceFile("test", []byte(input))
		lines  = file.Lines()
		actual = make([]string, len(lines))
	)
	//
	for i, l := range lines {
		actual[i] = l.String()
		assert.Equal(t, i+1, l.Number())
	}
	//
	if len(expected) == 0 {
		assert.Empty(t, actual)
	} else {
		assert.Equal(t, expected, actual)
	}
}

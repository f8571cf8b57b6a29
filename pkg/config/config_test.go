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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const example = `
[assembler]
include-dirs = ["lib", "/opt/cupid"]
output = "out/main.bin"
symbols = true

[vm]
natives = ["print", "println"]
trace = true
`

func Test_Config_01(t *testing.T) {
	c, err := Parse(example)
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"lib", "/opt/cupid"}, c.Assembler.IncludeDirs)
	assert.Equal(t, "out/main.bin", c.Assembler.Output)
	assert.True(t, c.Assembler.Symbols)
	assert.Equal(t, []string{"print", "println"}, c.VM.Natives)
	assert.True(t, c.VM.Trace)
}

func Test_Config_02(t *testing.T) {
	_, err := Parse("[assembler]\ninclude = [\"lib\"]\n")
	//
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assembler.include")
}

func Test_Config_03(t *testing.T) {
	_, err := Parse("[vm\n")
	assert.Error(t, err)
}

func Test_Config_04(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	//
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FILENAME), []byte(example), 0o644))
	//
	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	//
	assert.Equal(t, root, c.Dir)
	assert.Equal(t, []string{filepath.Join(root, "lib"), "/opt/cupid"}, c.IncludePaths())
	assert.Equal(t, filepath.Join(root, "out", "main.bin"), c.OutputFor("prog.casm"))
}

func Test_Config_05(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	// No configuration anywhere above a fresh temporary directory
	if c.Dir == "" {
		assert.Equal(t, Default(), c)
		assert.Equal(t, "dir/prog.bin", c.OutputFor("dir/prog.casm"))
		assert.Nil(t, c.IncludePaths())
	}
}

func Test_Config_06(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

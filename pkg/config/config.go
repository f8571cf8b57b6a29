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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FILENAME is the name of a project configuration file.
const FILENAME = "cupid.toml"

// Config represents a cupid.toml project configuration.
type Config struct {
	Assembler Assembler `toml:"assembler"`
	VM        VM        `toml:"vm"`
	// Dir is the directory containing the cupid.toml file (set at load time).
	// This is empty for the default configuration.
	Dir string `toml:"-"`
}

// Assembler configures the assembler.
type Assembler struct {
	// Directories searched for included files, relative to Dir.
	IncludeDirs []string `toml:"include-dirs"`
	// Output file for assembled images.  When empty, the output is named after
	// the input file.
	Output string `toml:"output"`
	// Whether to write a symbol table alongside assembled images.
	Symbols bool `toml:"symbols"`
}

// VM configures program execution.
type VM struct {
	// Natives made available to programs.  When empty, all standard natives
	// are available.
	Natives []string `toml:"natives"`
	// Whether to trace every executed instruction.
	Trace bool `toml:"trace"`
}

// Default returns the configuration used when no cupid.toml exists.
func Default() *Config {
	return &Config{}
}

// Parse a configuration from its textual form.  Unknown keys are rejected.
func Parse(data string) (*Config, error) {
	var c Config
	//
	meta, err := toml.Decode(data, &c)
	if err != nil {
		return nil, err
	}
	//
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		//
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		//
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	//
	return &c, nil
}

// Load parses a cupid.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FILENAME)
	//
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	//
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	//
	if c.Dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	//
	return c, nil
}

// FindAndLoad walks up from startDir to find a cupid.toml file, then loads and
// returns it.  If none is found, the default configuration is returned.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	//
	for {
		if _, err := os.Stat(filepath.Join(dir, FILENAME)); err == nil {
			return Load(dir)
		}
		//
		parent := filepath.Dir(dir)
		// Reached root
		if parent == dir {
			return Default(), nil
		}
		//
		dir = parent
	}
}

// IncludePaths returns the include directories, resolved against the
// directory containing the configuration.
func (c *Config) IncludePaths() []string {
	var paths []string
	//
	for _, d := range c.Assembler.IncludeDirs {
		if filepath.IsAbs(d) || c.Dir == "" {
			paths = append(paths, d)
		} else {
			paths = append(paths, filepath.Join(c.Dir, d))
		}
	}
	//
	return paths
}

// OutputFor returns the name of the image file produced when assembling a
// given source file.
func (c *Config) OutputFor(source string) string {
	if c.Assembler.Output != "" {
		if filepath.IsAbs(c.Assembler.Output) || c.Dir == "" {
			return c.Assembler.Output
		}
		//
		return filepath.Join(c.Dir, c.Assembler.Output)
	}
	//
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
}

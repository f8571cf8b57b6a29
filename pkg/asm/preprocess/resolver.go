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
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-cupid/pkg/util/source"
)

// IncludeResolver locates the resource named by an %include directive.
type IncludeResolver interface {
	// Resolve the given path, as included from a given file.  The returned
	// file's name identifies the resource for the purposes of detecting
	// include cycles.
	Resolve(from *source.File, path string) (*source.File, error)
}

// DirResolver resolves includes from the filesystem.  A relative path is
// searched for first alongside the including file, and then in each search
// directory in turn.
type DirResolver struct {
	dirs []string
}

// NewDirResolver constructs a resolver over a given set of search directories.
func NewDirResolver(dirs ...string) *DirResolver {
	return &DirResolver{dirs}
}

// Resolve implementation for the IncludeResolver interface.
func (p *DirResolver) Resolve(from *source.File, path string) (*source.File, error) {
	var candidates []string
	//
	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		if from != nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(from.Filename()), path))
		}
		//
		for _, dir := range p.dirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}
	//
	for _, candidate := range candidates {
		bytes, err := os.ReadFile(candidate)
		//
		if err == nil {
			return source.NewSourceFile(filepath.Clean(candidate), bytes), nil
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	//
	return nil, fmt.Errorf("cannot find \"%s\": %w", path, os.ErrNotExist)
}

// MapResolver resolves includes from an in-memory map of names to contents.
// Names are matched exactly, irrespective of the including file.
type MapResolver map[string]string

// Resolve implementation for the IncludeResolver interface.
func (p MapResolver) Resolve(_ *source.File, path string) (*source.File, error) {
	if contents, ok := p[path]; ok {
		return source.NewSourceFile(path, []byte(contents)), nil
	}
	//
	return nil, fmt.Errorf("cannot find \"%s\": %w", path, os.ErrNotExist)
}

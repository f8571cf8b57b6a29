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
	"strings"

	"github.com/consensys/go-cupid/pkg/util/source"
)

// ATTRIBUTE_PREFIX marks a comment line which carries a test attribute, such
// as "//stack:01|02".
const ATTRIBUTE_PREFIX = "//"

// Attribute is a named value declared in the leading comment block of a test
// file.
type Attribute struct {
	// Line on which this attribute is declared
	Line source.Line
	// Name of the attribute (e.g. "stack")
	Name string
	// Value of the attribute, which may be empty
	Value string
}

// ExtractAttributes extracts all attributes at the beginning of a source file.
// Scanning stops at the first line which is not a comment.  Comment lines
// without a "name:" prefix are ignored.
func ExtractAttributes(srcfile *source.File) []Attribute {
	var attributes []Attribute
	//
	for _, line := range srcfile.Lines() {
		contents := strings.TrimSpace(line.String())
		//
		if !strings.HasPrefix(contents, ATTRIBUTE_PREFIX) {
			break
		}
		//
		contents = strings.TrimPrefix(contents, ATTRIBUTE_PREFIX)
		//
		if name, value, ok := strings.Cut(contents, ":"); ok && isName(name) {
			attributes = append(attributes, Attribute{line, name, value})
		}
	}
	//
	return attributes
}

func isName(name string) bool {
	if name == "" {
		return false
	}
	//
	for _, c := range name {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	//
	return true
}

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
package assembler

import (
	"fmt"
)

// LabelKind identifies what a label refers to.
type LabelKind uint8

const (
	// CODE labels identify an instruction.
	CODE LabelKind = iota
	// DATA_BYTES labels identify a %bytes entry.  References to them are
	// substituted with the stored value.
	DATA_BYTES
	// DATA_STRING labels identify a %string entry.  References to them are
	// substituted with the entry's address.
	DATA_STRING
)

func (k LabelKind) String() string {
	switch k {
	case CODE:
		return "code"
	case DATA_BYTES:
		return "bytes"
	case DATA_STRING:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Label is a named location, resolved at assembly time.
type Label struct {
	Name string
	Kind LabelKind
	// Address of this label.  For data labels, this is relative to the start
	// of the data segment until the table is relocated.
	Address uint32
	// Contents of the entry for data labels (including any terminator), or
	// nil for code labels.
	Value []byte
}

// LabelTable holds every label declared during the assembly of a single
// program.  Labels share a single (global) namespace regardless of kind, and
// each must be declared exactly once.
type LabelTable struct {
	labels []Label
	index  map[string]uint
	// Indicates whether data labels have been relocated.
	relocated bool
}

// NewLabelTable constructs an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{nil, make(map[string]uint), false}
}

// Declare a new label, returning false if a label with the same name already
// exists (in which case the table is unchanged).
func (p *LabelTable) Declare(label Label) bool {
	if _, ok := p.index[label.Name]; ok {
		return false
	}
	//
	p.index[label.Name] = uint(len(p.labels))
	p.labels = append(p.labels, label)
	//
	return true
}

// Lookup a label by name.
func (p *LabelTable) Lookup(name string) (Label, bool) {
	if i, ok := p.index[name]; ok {
		return p.labels[i], true
	}
	//
	return Label{}, false
}

// Relocate all data labels so that their addresses are absolute, given that
// the data segment begins at a given base address.  This can only be done once.
func (p *LabelTable) Relocate(base uint32) {
	if p.relocated {
		panic("label table already relocated")
	}
	//
	for i := range p.labels {
		if p.labels[i].Kind != CODE {
			p.labels[i].Address += base
		}
	}
	//
	p.relocated = true
}

// IsRelocated indicates whether data labels have absolute addresses yet.
func (p *LabelTable) IsRelocated() bool {
	return p.relocated
}

// Labels returns every label in the table, in order of declaration.
func (p *LabelTable) Labels() []Label {
	return append([]Label(nil), p.labels...)
}

// Len returns the number of labels in the table.
func (p *LabelTable) Len() uint {
	return uint(len(p.labels))
}

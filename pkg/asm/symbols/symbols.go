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
package symbols

import (
	"fmt"
	"os"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// Symbol describes a single label retained from assembly.
type Symbol struct {
	Name string `cbor:"1,keyasint"`
	// One of "code", "bytes" or "string".
	Kind    string `cbor:"2,keyasint"`
	Address uint32 `cbor:"3,keyasint"`
}

// Table is a symbol side-car for an assembled image.  Images carry no symbolic
// information themselves, hence a table can optionally be written alongside an
// image to aid disassembly and debugging.
type Table struct {
	// Size of the code region (i.e. the base of the data region).
	CodeSize uint32   `cbor:"1,keyasint"`
	Symbols  []Symbol `cbor:"2,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("symbols: failed to create CBOR enc mode: %v", err))
	}
	//
	encMode = em
}

// NewTable constructs a table for a given code size and set of symbols, which
// are sorted by address (and then name).
func NewTable(codeSize uint32, symbols ...Symbol) Table {
	sorted := append([]Symbol(nil), symbols...)
	//
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Address != sorted[j].Address {
			return sorted[i].Address < sorted[j].Address
		}
		//
		return sorted[i].Name < sorted[j].Name
	})
	//
	return Table{codeSize, sorted}
}

// At returns every symbol located at a given address.
func (p *Table) At(address uint32) []Symbol {
	var symbols []Symbol
	//
	for _, s := range p.Symbols {
		if s.Address == address {
			symbols = append(symbols, s)
		}
	}
	//
	return symbols
}

// Lookup a symbol by name.
func (p *Table) Lookup(name string) (Symbol, bool) {
	for _, s := range p.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	//
	return Symbol{}, false
}

// Marshal serializes a table to (canonical) CBOR bytes.
func Marshal(table Table) ([]byte, error) {
	return encMode.Marshal(table)
}

// Unmarshal deserializes a table from CBOR bytes.
func Unmarshal(data []byte) (Table, error) {
	var table Table
	if err := cbor.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("symbols: unmarshal table: %w", err)
	}
	//
	return table, nil
}

// WriteFile writes a table to a given file.
func WriteFile(filename string, table Table) error {
	data, err := Marshal(table)
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, data, 0o644)
}

// ReadFile reads a table from a given file.
func ReadFile(filename string) (Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Table{}, err
	}
	//
	return Unmarshal(data)
}

// Filename determines the conventional side-car filename for a given image.
func Filename(image string) string {
	return image + ".sym"
}

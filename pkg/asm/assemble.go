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
package asm

import (
	"fmt"

	"github.com/consensys/go-cupid/pkg/asm/asmerr"
	"github.com/consensys/go-cupid/pkg/asm/assembler"
	"github.com/consensys/go-cupid/pkg/asm/preprocess"
	"github.com/consensys/go-cupid/pkg/asm/symbols"
	"github.com/consensys/go-cupid/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// ErrDuplicateDataSection signals a second %data ... %enddata block.
var ErrDuplicateDataSection = asmerr.ErrDuplicateDataSection

// ErrDuplicateLabel signals two definitions sharing the same name.
var ErrDuplicateLabel = asmerr.ErrDuplicateLabel

// ErrUndefinedLabel signals a reference to a name which was never defined.
var ErrUndefinedLabel = asmerr.ErrUndefinedLabel

// ErrCyclicInclude signals a file which (transitively) includes itself.
var ErrCyclicInclude = asmerr.ErrCyclicInclude

// ErrMalformedDirective signals any other malformed input.
var ErrMalformedDirective = asmerr.ErrMalformedDirective

// Image is an assembled bytecode image, consisting of a code region starting
// at address 0 followed immediately by a data region.
type Image = assembler.Image

// Program is the result of assembling a source file.  The image is all that is
// required for execution, whilst the labels are retained only for tooling
// (e.g. for writing a symbol side-car).
type Program struct {
	Image  Image
	Labels []assembler.Label
}

// Symbols constructs a symbol table for this program.
func (p *Program) Symbols() symbols.Table {
	var syms = make([]symbols.Symbol, len(p.Labels))
	//
	for i, l := range p.Labels {
		syms[i] = symbols.Symbol{Name: l.Name, Kind: l.Kind.String(), Address: l.Address}
	}
	//
	return symbols.NewTable(p.Image.CodeSize, syms...)
}

// Assemble a given source file into a program.  This runs each stage of the
// pipeline in turn (Preprocess, Parse, BuildDataSection and GenerateCode),
// where each stage only begins once the previous has completed without error.
// Nothing is produced if any error arises.
func Assemble(file *source.File, resolver preprocess.IncludeResolver) (Program, []source.SyntaxError) {
	var labels = assembler.NewLabelTable()
	// Expand directives
	lines, errors := preprocess.Expand(file, resolver)
	if len(errors) > 0 {
		return Program{}, errors
	}
	//
	log.Debug(fmt.Sprintf("expanded %s into %d lines", file.Filename(), len(lines)))
	// Parse statements
	stmts, errors := assembler.Parse(lines)
	if len(errors) > 0 {
		return Program{}, errors
	}
	// Construct data section
	data, code, errors := assembler.BuildDataSection(stmts, labels)
	if len(errors) > 0 {
		return Program{}, errors
	}
	//
	log.Debug(fmt.Sprintf("data section has %d entries (%d bytes)", len(data.Entries()), data.Size()))
	// Generate code
	image, errors := assembler.GenerateCode(code, data, labels)
	if len(errors) > 0 {
		return Program{}, errors
	}
	//
	log.Debug(fmt.Sprintf("assembled %s (%d code bytes, %d data bytes)", file.Filename(), image.CodeSize,
		len(image.Bytes)-int(image.CodeSize)))
	//
	return Program{image, labels.Labels()}, nil
}

// AssembleString assembles source text held in memory.  Any includes are
// resolved using a given resolver (which may be nil if no includes are used).
func AssembleString(filename string, text string, resolver preprocess.IncludeResolver) (Program,
	[]source.SyntaxError) {
	//
	if resolver == nil {
		resolver = preprocess.MapResolver{}
	}
	//
	return Assemble(source.NewSourceFile(filename, []byte(text)), resolver)
}

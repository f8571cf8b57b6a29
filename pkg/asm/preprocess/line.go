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
	"github.com/consensys/go-cupid/pkg/util/source"
)

// Line is a single line of fully expanded assembly text, which retains the
// location of the physical line from which it originated.  This allows later
// stages to report errors against the file the user actually wrote, even when
// that line arrived via an %include or a %rep block.
type Line struct {
	// File from which this line originated
	file *source.File
	// Span of the originating line within its file
	span source.Span
	// Text of this line after expansion
	text string
	// Indicates whether text still matches the originating line character for
	// character (i.e. no %define substitution changed it).
	exact bool
}

// NewLine constructs a line which originated verbatim from the given line of a
// given file.
func NewLine(file *source.File, line source.Line) Line {
	return Line{file, line.Span(), line.String(), true}
}

// File returns the file from which this line originated.
func (p Line) File() *source.File {
	return p.file
}

// Span returns the span of the originating line within its file.
func (p Line) Span() source.Span {
	return p.span
}

// Text returns the expanded text of this line.
func (p Line) Text() string {
	return p.text
}

// Locate translates a span over this line's text into a span over the
// originating file.  When the text was rewritten by a %define, offsets no
// longer correspond and the span of the entire line is returned instead.
func (p Line) Locate(span source.Span) source.Span {
	if !p.exact || span.End() > p.span.Length() {
		return p.span
	}
	//
	return span.Shift(p.span.Start())
}

// ErrorOf constructs an error of the given kind over a span of this line's
// text.
func (p Line) ErrorOf(kind error, span source.Span, msg string) source.SyntaxError {
	return *p.file.ErrorOf(kind, p.Locate(span), msg)
}

// Error constructs an error of the given kind covering this entire line.
func (p Line) Error(kind error, msg string) source.SyntaxError {
	return *p.file.ErrorOf(kind, p.span, msg)
}

// rewrite returns a copy of this line with its text replaced.
func (p Line) rewrite(text string) Line {
	return Line{p.file, p.span, text, p.exact && text == p.text}
}

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
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-cupid/pkg/asm/asmerr"
	"github.com/consensys/go-cupid/pkg/util/collection/stack"
	"github.com/consensys/go-cupid/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// COMMENT marks a line which is removed entirely, provided it is the first
// non-whitespace text on that line.
const COMMENT = "//"

// Preprocess expands all textual directives in a given file, producing the
// flattened source text.  This is a convenience wrapper around Expand for
// clients which don't need to retain the origin of each line.
func Preprocess(file *source.File, resolver IncludeResolver) (string, []source.SyntaxError) {
	lines, errors := Expand(file, resolver)
	//
	if len(errors) > 0 {
		return "", errors
	}
	//
	var builder strings.Builder
	//
	for i, line := range lines {
		if i != 0 {
			builder.WriteString("\n")
		}
		//
		builder.WriteString(line.Text())
	}
	//
	return builder.String(), nil
}

// Expand all textual directives in a given file.  Specifically, line-leading
// comments are removed, %define constants are substituted, %include directives
// are replaced by the (recursively expanded) contents of the included resource
// and %rep/%endrep blocks are replicated.  Nothing is returned if any error
// arises.
func Expand(file *source.File, resolver IncludeResolver) ([]Line, []source.SyntaxError) {
	p := &preprocessor{
		resolver: resolver,
		defines:  make(map[string]string),
		active:   stack.NewStack[string](),
	}
	// Expand includes (and defines)
	lines := p.include(file)
	// Expand repetitions
	if len(p.errors) == 0 {
		lines = p.repeat(lines)
	}
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	return lines, nil
}

type preprocessor struct {
	resolver IncludeResolver
	// Constants declared with %define thus far
	defines map[string]string
	// Files currently being included, innermost last
	active *stack.Stack[string]
	// Errors arising
	errors []source.SyntaxError
}

func (p *preprocessor) include(file *source.File) []Line {
	var lines []Line
	//
	p.active.Push(filepath.Clean(file.Filename()))
	//
	for _, physical := range file.Lines() {
		var (
			line        = NewLine(file, physical)
			trimmed     = strings.TrimSpace(line.Text())
			directive   = directiveOf(trimmed)
			substituted = line.rewrite(p.substitute(line.Text()))
		)
		//
		switch {
		case strings.HasPrefix(trimmed, COMMENT):
			continue
		case directive == "%define":
			p.define(line, trimmed)
		case directive == "%include":
			lines = append(lines, p.includeDirective(substituted)...)
		default:
			lines = append(lines, substituted)
		}
	}
	//
	p.active.Pop()
	//
	return lines
}

func (p *preprocessor) define(line Line, trimmed string) {
	var fields = strings.Fields(trimmed)
	//
	if len(fields) < 3 {
		p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, "expected %define NAME value"))
		return
	}
	//
	var (
		name  = fields[1]
		rest  = strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
		value = strings.TrimSpace(strings.TrimPrefix(rest, name))
	)
	//
	if !isIdentifier(name) {
		p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, fmt.Sprintf("invalid name \"%s\"", name)))
	} else if _, ok := p.defines[name]; ok {
		p.errors = append(p.errors, line.Error(asmerr.ErrDuplicateLabel, fmt.Sprintf("\"%s\" already defined", name)))
	} else {
		// Constants already defined are expanded eagerly
		p.defines[name] = p.substitute(value)
	}
}

func (p *preprocessor) includeDirective(line Line) []Line {
	var (
		trimmed = strings.TrimSpace(line.Text())
		path    = strings.TrimSpace(strings.TrimPrefix(trimmed, "%include"))
	)
	//
	if len(path) >= 2 && strings.HasPrefix(path, "\"") && strings.HasSuffix(path, "\"") {
		path = path[1 : len(path)-1]
	}
	//
	if path == "" {
		p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, "expected %include path"))
		return nil
	}
	//
	file, err := p.resolver.Resolve(line.File(), path)
	//
	if err != nil {
		p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, err.Error()))
		return nil
	} else if chain := p.cycleOf(file); chain != nil {
		msg := fmt.Sprintf("cyclic include (%s)", strings.Join(chain, " -> "))
		p.errors = append(p.errors, line.Error(asmerr.ErrCyclicInclude, msg))
		//
		return nil
	}
	//
	log.Debug(fmt.Sprintf("including %s", file.Filename()))
	//
	return p.include(file)
}

// Determine the chain of active includes which would be closed by including a
// given file, or nil if including it would not form a cycle.
func (p *preprocessor) cycleOf(file *source.File) []string {
	var (
		active = p.active.Items()
		name   = filepath.Clean(file.Filename())
		start  = slices.Index(active, name)
	)
	//
	if start < 0 {
		return nil
	}
	//
	return append(active[start:], name)
}

// A repetition block which is currently open.
type repetition struct {
	// Line containing the %rep directive
	line Line
	// Number of copies to produce
	count uint64
	// Lines enclosed so far
	body []Line
}

func (p *preprocessor) repeat(lines []Line) []Line {
	var (
		output []Line
		blocks = stack.NewStack[*repetition]()
	)
	// Emit line(s) into the innermost open block, or the output
	emit := func(items ...Line) {
		if blocks.IsEmpty() {
			output = append(output, items...)
		} else {
			top := blocks.Peek(0)
			top.body = append(top.body, items...)
		}
	}
	//
	for _, line := range lines {
		fields := strings.Fields(line.Text())
		//
		switch directiveOf(strings.TrimSpace(line.Text())) {
		case "%rep":
			if len(fields) != 2 {
				p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, "expected %rep N"))
			} else if n, err := strconv.ParseUint(fields[1], 0, 32); err != nil {
				p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective,
					fmt.Sprintf("invalid repetition count \"%s\"", fields[1])))
			} else {
				blocks.Push(&repetition{line, n, nil})
			}
		case "%endrep":
			if block, ok := blocks.TryPop(); !ok {
				p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, "%endrep without matching %rep"))
			} else if len(fields) != 1 {
				p.errors = append(p.errors, line.Error(asmerr.ErrMalformedDirective, "unexpected text after %endrep"))
			} else {
				for n := uint64(0); n < block.count; n++ {
					emit(block.body...)
				}
			}
		default:
			emit(line)
		}
	}
	// Any blocks left open are unterminated
	for !blocks.IsEmpty() {
		block := blocks.Pop()
		p.errors = append(p.errors, block.line.Error(asmerr.ErrMalformedDirective, "%rep without matching %endrep"))
	}
	//
	return output
}

// Substitute all defined constants within a given line of text.  Only whole
// words outside of string literals are substituted, and words immediately
// following a sigil ("%", "$" or "@") are left untouched.
func (p *preprocessor) substitute(text string) string {
	if len(p.defines) == 0 {
		return text
	}
	//
	var (
		builder strings.Builder
		quoted  = false
	)
	//
	for i := 0; i < len(text); {
		c := text[i]
		//
		switch {
		case quoted:
			builder.WriteByte(c)
			//
			if c == '\\' && i+1 < len(text) {
				builder.WriteByte(text[i+1])
				i++
			} else if c == '"' {
				quoted = false
			}
			//
			i++
		case c == '"':
			quoted = true
			builder.WriteByte(c)
			i++
		case isWordChar(c):
			j := i
			for j < len(text) && isWordChar(text[j]) {
				j++
			}
			//
			word := text[i:j]
			value, ok := p.defines[word]
			//
			if ok && !isDigit(c) && (i == 0 || !isSigil(text[i-1])) {
				builder.WriteString(value)
			} else {
				builder.WriteString(word)
			}
			//
			i = j
		default:
			builder.WriteByte(c)
			i++
		}
	}
	//
	return builder.String()
}

// Determine the directive (if any) at the start of some trimmed text.
func directiveOf(trimmed string) string {
	if !strings.HasPrefix(trimmed, "%") {
		return ""
	} else if fields := strings.Fields(trimmed); len(fields) > 0 {
		return fields[0]
	}
	//
	return ""
}

func isIdentifier(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	//
	for i := 0; i < len(name); i++ {
		if !isWordChar(name[i]) {
			return false
		}
	}
	//
	return true
}

func isWordChar(c byte) bool {
	return c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSigil(c byte) bool {
	return c == '%' || c == '$' || c == '@'
}

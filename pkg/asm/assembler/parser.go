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
	"strconv"
	"strings"

	"github.com/consensys/go-cupid/pkg/asm/asmerr"
	"github.com/consensys/go-cupid/pkg/asm/preprocess"
	"github.com/consensys/go-cupid/pkg/util/source"
	"github.com/consensys/go-cupid/pkg/util/source/lex"
)

// Parse a sequence of fully expanded lines into statements, one per line.  All
// syntax errors are reported, rather than just the first.
func Parse(lines []preprocess.Line) ([]Statement, []source.SyntaxError) {
	var (
		statements = make([]Statement, 0, len(lines))
		errors     []source.SyntaxError
	)
	//
	for _, line := range lines {
		stmt, errs := NewParser(line).Parse()
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			statements = append(statements, stmt)
		}
	}
	//
	return statements, errors
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for a single line of assembly language.
type Parser struct {
	line   preprocess.Line
	text   []rune
	tokens []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given line.
func NewParser(line preprocess.Line) *Parser {
	return &Parser{line, []rune(line.Text()), nil, 0}
}

// Parse the line into a statement, or produce some number of syntax errors.
// Statements have the general form "[name:] [command [operand [,] ...]]".
func (p *Parser) Parse() (Statement, []source.SyntaxError) {
	var (
		stmt = Statement{Line: p.line}
		span source.Span
		ok   bool
	)
	// Convert line into tokens
	if p.tokens, span, ok = Lex(p.text); !ok {
		return stmt, p.syntaxErrors(span, "unknown text encountered")
	}
	// Optional label
	if p.follows(IDENTIFIER, COLON) {
		tok := p.next()
		stmt.Label, stmt.LabelSpan = p.string(tok), tok.Span
		p.match(COLON)
	}
	// Optional command
	switch lookahead := p.lookahead(); lookahead.Kind {
	case END_OF:
		return stmt, nil
	case IDENTIFIER, DIRECTIVE:
		p.next()
		stmt.Command, stmt.CommandSpan = p.string(lookahead), lookahead.Span
	default:
		return stmt, p.syntaxErrors(lookahead.Span, "expected instruction or directive")
	}
	// Operands
	for p.lookahead().Kind != END_OF {
		operand, errs := p.parseOperand()
		//
		if len(errs) > 0 {
			return stmt, errs
		}
		//
		stmt.Operands = append(stmt.Operands, operand)
		// Separators are optional
		p.match(COMMA)
	}
	//
	return stmt, nil
}

func (p *Parser) parseOperand() (Operand, []source.SyntaxError) {
	var (
		start = p.index
		tok   = p.next()
	)
	//
	switch tok.Kind {
	case NUMBER:
		value, errs := p.number(tok)
		return Operand{Kind: IMMEDIATE, Value: value, Span: tok.Span}, errs
	case PLUS, MINUS:
		num, errs := p.expect(NUMBER)
		if len(errs) > 0 {
			return Operand{}, errs
		}
		//
		value, errs := p.number(num)
		//
		return Operand{Kind: DISPLACEMENT, Value: value, Negative: tok.Kind == MINUS, Span: p.spanOf(start, p.index-1)},
			errs
	case DOLLAR, AT:
		name, errs := p.expect(IDENTIFIER)
		if len(errs) > 0 {
			return Operand{}, errs
		}
		//
		kind := LABEL_REF
		if tok.Kind == AT {
			kind = RELATIVE_REF
		}
		//
		return Operand{Kind: kind, Text: p.string(name), Span: p.spanOf(start, p.index-1)}, nil
	case IDENTIFIER:
		return Operand{Kind: NAME, Text: p.string(tok), Span: tok.Span}, nil
	case STRING:
		contents, errs := p.unescape(tok)
		return Operand{Kind: STRING_LITERAL, Text: contents, Span: tok.Span}, errs
	default:
		return Operand{}, p.syntaxErrors(tok.Span, "unexpected token")
	}
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.text[start:end])
}

// Parse the value of a numeric token.
func (p *Parser) number(token lex.Token) (uint64, []source.SyntaxError) {
	var (
		text = strings.ReplaceAll(p.string(token), "_", "")
		base = 10
	)
	// Leading zeros do not imply octal
	switch {
	case strings.HasPrefix(text, "0x"):
		text, base = text[2:], 16
	case strings.HasPrefix(text, "0b"):
		text, base = text[2:], 2
	case strings.HasPrefix(text, "0o"):
		text, base = text[2:], 8
	}
	//
	value, err := strconv.ParseUint(text, base, 64)
	//
	if err != nil {
		return 0, p.syntaxErrors(token.Span, fmt.Sprintf("invalid number \"%s\"", p.string(token)))
	}
	//
	return value, nil
}

// Decode the contents of a string literal, processing escape sequences.
func (p *Parser) unescape(token lex.Token) (string, []source.SyntaxError) {
	var (
		text    = p.string(token)
		runes   = []rune(text[1 : len(text)-1])
		builder strings.Builder
	)
	//
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			builder.WriteRune(runes[i])
			continue
		}
		// Lexer guarantees an escape is followed by something
		i++
		//
		switch runes[i] {
		case '\\':
			builder.WriteByte('\\')
		case '"':
			builder.WriteByte('"')
		case '0':
			builder.WriteByte(0)
		case 'n':
			builder.WriteByte('\n')
		case 'r':
			builder.WriteByte('\r')
		case 't':
			builder.WriteByte('\t')
		default:
			return "", p.syntaxErrors(token.Span, fmt.Sprintf("unknown escape sequence \"\\%c\"", runes[i]))
		}
	}
	//
	return builder.String(), nil
}

// Lookahead returns the next token.  This must exist because END_OF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Next returns the next token and advances past it.  The END_OF token is never
// advanced past.
func (p *Parser) next() lex.Token {
	token := p.tokens[p.index]
	//
	if token.Kind != END_OF {
		p.index++
	}
	//
	return token
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead.Span, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows attempts to check what follows the current position.
func (p *Parser) follows(kinds ...uint) bool {
	for i, kind := range kinds {
		n := i + p.index
		if n >= len(p.tokens) {
			return false
		} else if p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(span source.Span, msg string) []source.SyntaxError {
	return []source.SyntaxError{p.line.ErrorOf(asmerr.ErrMalformedDirective, span, msg)}
}

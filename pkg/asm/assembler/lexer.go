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
	"github.com/consensys/go-cupid/pkg/util/source"
	"github.com/consensys/go-cupid/pkg/util/source/lex"
)

// END_OF signals "end of line"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COLON signals ":"
const COLON uint = 2

// COMMA signals ","
const COMMA uint = 3

// DOLLAR signals "$", which prefixes a label reference
const DOLLAR uint = 4

// AT signals "@", which prefixes a relative label reference
const AT uint = 5

// PLUS signals "+"
const PLUS uint = 6

// MINUS signals "-"
const MINUS uint = 7

// NUMBER signals an unsigned integer literal
const NUMBER uint = 8

// STRING signals a quoted string
const STRING uint = 9

// IDENTIFIER signals a label, mnemonic or native name
const IDENTIFIER uint = 10

// DIRECTIVE signals a directive, such as "%data" or "%bytes"
const DIRECTIVE uint = 11

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t')))

// Rule for describing numbers.  A number is either hexadecimal, binary, octal
// or decimal, allowing (and ignoring) '_' for readability.
var (
	binaryStart = lex.Sequence(lex.String("0b"), lex.Within('0', '1'))
	binaryRest  = lex.Or(
		lex.Within('0', '1'),
		lex.Unit('_'),
	)

	octalStart = lex.Sequence(lex.String("0o"), lex.Within('0', '7'))
	octalRest  = lex.Or(
		lex.Within('0', '7'),
		lex.Unit('_'),
	)

	decimalStart = lex.Within('0', '9')
	decimalRest  = lex.Or(
		lex.Within('0', '9'),
		lex.Unit('_'),
	)

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hexStart = lex.Sequence(lex.String("0x"), hexDigit)
	hexRest  = lex.Or(
		hexDigit,
		lex.Unit('_'),
	)

	number = lex.Or(
		lex.SequenceNullableLast(binaryStart, lex.Many(binaryRest)),
		lex.SequenceNullableLast(octalStart, lex.Many(octalRest)),
		lex.SequenceNullableLast(hexStart, lex.Many(hexRest)),
		lex.SequenceNullableLast(decimalStart, lex.Many(decimalRest)),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Unit('.'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('.'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Rule for describing directives
var directive lex.Scanner[rune] = lex.Sequence(lex.Unit('%'), identifier)

// Rule for describing strings in quotes, where a backslash escapes the
// following character.
var strung lex.Scanner[rune] = lex.Delimited('"',
	lex.Or(lex.Sequence(lex.Unit('\\'), lex.Except[rune]()), lex.Except('"', '\\')), '"')

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit('$'), DOLLAR),
	lex.Rule(lex.Unit('@'), AT),
	lex.Rule(lex.Unit('+'), PLUS),
	lex.Rule(lex.Unit('-'), MINUS),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(strung, STRING),
	lex.Rule(directive, DIRECTIVE),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a single line of text into a sequence of zero or more tokens (excluding
// whitespace).  The final token is always END_OF.  If some text cannot be
// matched, the span of the unmatched text is returned along with false.
func Lex(text []rune) ([]lex.Token, source.Span, bool) {
	var tokens, index, ok = lex.Tokenize(text, rules...)
	//
	if !ok {
		return nil, source.NewSpan(index, len(text)), false
	}
	// Remove any whitespace
	n := 0
	//
	for _, t := range tokens {
		if t.Kind != WHITESPACE {
			tokens[n] = t
			n++
		}
	}
	//
	return tokens[:n], source.Span{}, true
}

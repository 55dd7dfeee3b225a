// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dotrainpattern holds every regular expression the dotrain
// compiler core is built on, grouped the way the source groups them: one
// constant per lexical concept, compiled once at package init.
package dotrainpattern

import "regexp"

var (
	// IllegalChar matches any byte outside printable ASCII plus whitespace.
	IllegalChar = regexp.MustCompile(`[^ -~\s]+`)

	// Word matches a rainlang identifier word.
	Word = regexp.MustCompile(`^[a-z][0-9a-z-]*$`)

	// Hash matches a lowercase/mixed-case 32-byte hex hash literal.
	Hash = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

	// Numeric matches any of the four numeric literal forms: hex, binary,
	// decimal integer and exponent.
	Numeric = regexp.MustCompile(`^0x[0-9a-fA-F]+$|^0b[01]+$|^\d+$|^[1-9]\d*e\d+$`)

	// Hex matches a hex literal.
	Hex = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

	// Binary matches a binary literal.
	Binary = regexp.MustCompile(`^0b[01]+$`)

	// Exponent matches an exponent-form decimal literal.
	Exponent = regexp.MustCompile(`^[1-9]\d*e\d+$`)

	// Int matches a base-10 integer literal.
	Int = regexp.MustCompile(`^\d+$`)

	// Namespace matches a dotted namespace path.
	Namespace = regexp.MustCompile(`^(\.?[a-z][0-9a-z-]*)*\.?$`)

	// Comment matches a /* ... */ span, including an unterminated one that
	// runs to end of input.
	Comment = regexp.MustCompile(`/\*[\s\S]*?(?:\*/|$)`)

	// WS matches one or more whitespace characters.
	WS = regexp.MustCompile(`\s+`)

	// Dependency matches a 'name occurrence inside an expression binding's
	// raw content.
	Dependency = regexp.MustCompile(`'\.?[a-z][0-9a-z-]*(\.[a-z][0-9a-z-]*)*`)

	// Imports matches the import statement delimiter.
	Imports = regexp.MustCompile(`@`)

	// Binding matches the binding statement delimiter.
	Binding = regexp.MustCompile(`#`)

	// NonEmpty matches any non-whitespace character.
	NonEmpty = regexp.MustCompile(`[^\s]`)

	// OperandArg matches an operand argument: numeric, hex, or a quote path.
	OperandArg = regexp.MustCompile(`^[0-9]+$|^0x[a-fA-F0-9]+$|^'\.?[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)*$`)

	// NamespaceSegment splits a dotted namespace path.
	NamespaceSegment = regexp.MustCompile(`\.`)

	// Source matches the rainlang source delimiter.
	Source = regexp.MustCompile(`;`)

	// SubSource matches the rainlang line delimiter.
	SubSource = regexp.MustCompile(`,`)

	// Any matches any run of non-whitespace.
	Any = regexp.MustCompile(`\S+`)

	// LHS matches a left-hand-side alias: an identifier or the anonymous `_`.
	LHS = regexp.MustCompile(`^[a-z][a-z0-9-]*$|^_$`)

	// StringLiteral matches a double-quoted string literal, unterminated
	// strings fail to match so callers can detect UnexpectedStringLiteralEnd.
	StringLiteral = regexp.MustCompile(`^"[^\n\r"]*"$`)
)

// DefaultElision is the message used for an elided binding declared with a
// bare `!` and no message text.
const DefaultElision = "elided binding, requires rebinding"

// IgnoreNextLine matches the ignore-next-line lint directive inside a
// comment's text.
var IgnoreNextLine = regexp.MustCompile(`\bignore-next-line\b`)

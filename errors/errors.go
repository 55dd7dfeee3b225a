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

// Package errors defines the stable diagnostic vocabulary shared by every
// dotrain parsing phase: offset-carrying problems, a numeric error code
// enum, and a problem-list aggregate that implements the standard error
// interface.
package errors

import (
	"fmt"
	"strings"
)

// Offsets is a half-open [start, end) byte range into a document's text.
type Offsets [2]int

// Start returns the range's inclusive start offset.
func (o Offsets) Start() int { return o[0] }

// End returns the range's exclusive end offset.
func (o Offsets) End() int { return o[1] }

// ErrorCode is the stable, numbered diagnostic category of a Problem.
// Ranges mirror the source vocabulary: structural (0x000), undefined
// references (0x100), invalid tokens (0x200), unexpected tokens (0x300),
// expectation failures (0x400), mismatches (0x500), out-of-range (0x600),
// duplicates (0x700).
type ErrorCode int32

const (
	IllegalChar             ErrorCode = 0x000
	RuntimeError            ErrorCode = 0x001
	CircularDependency      ErrorCode = 0x002
	CircularDependencyQuote ErrorCode = 0x003
	DeepImport              ErrorCode = 0x004
	DeepNamespace           ErrorCode = 0x005
	CorruptMeta             ErrorCode = 0x006
	ElidedBinding           ErrorCode = 0x007
	SingletonWords          ErrorCode = 0x008
	MultipleWordSets        ErrorCode = 0x009
	InconsumableMeta        ErrorCode = 0x00A
	OccupiedNamespace       ErrorCode = 0x00B
	OddLenHex               ErrorCode = 0x00C
	CollidingNamespaceNodes ErrorCode = 0x00D
	NoneTopLevelImport      ErrorCode = 0x00E
	NativeParserError       ErrorCode = 0x00F

	UndefinedWord             ErrorCode = 0x101
	UndefinedAuthoringMeta    ErrorCode = 0x102
	UndefinedImport           ErrorCode = 0x103
	UndefinedQuote            ErrorCode = 0x104
	UndefinedOpcode           ErrorCode = 0x105
	UndefinedIdentifier       ErrorCode = 0x106
	UndefinedGlobalWords      ErrorCode = 0x107
	UndefinedNamespaceMember  ErrorCode = 0x108
	UndefinedDeployerDetails  ErrorCode = 0x109
	UndefinedWordSet          ErrorCode = 0x110

	InvalidWordPattern        ErrorCode = 0x201
	InvalidExpression         ErrorCode = 0x202
	InvalidNamespaceReference ErrorCode = 0x203
	InvalidEmptyLine          ErrorCode = 0x204
	InvalidHash               ErrorCode = 0x205
	InvalidReferenceLiteral   ErrorCode = 0x206
	InvalidRainDocument       ErrorCode = 0x207
	InvalidImport             ErrorCode = 0x208
	InvalidEmptyBinding       ErrorCode = 0x209
	InvalidLiteralQuote       ErrorCode = 0x20A
	InvalidOperandArg         ErrorCode = 0x20B
	UnexpectedStringLiteralEnd ErrorCode = 0x30A
	SuppliedRebindings        ErrorCode = 0x20D

	UnexpectedToken             ErrorCode = 0x301
	UnexpectedClosingParen      ErrorCode = 0x302
	UnexpectedNamespacePath     ErrorCode = 0x303
	UnexpectedRebinding         ErrorCode = 0x304
	UnexpectedClosingAngleParen ErrorCode = 0x305
	UnexpectedEndOfComment      ErrorCode = 0x306
	UnexpectedComment           ErrorCode = 0x307
	UnexpectedPragma            ErrorCode = 0x308
	UnexpectedRename            ErrorCode = 0x309

	ExpectedOpcode              ErrorCode = 0x401
	ExpectedRename              ErrorCode = 0x402
	ExpectedElisionOrRebinding  ErrorCode = 0x403
	ExpectedClosingParen        ErrorCode = 0x404
	ExpectedOpeningParen        ErrorCode = 0x405
	ExpectedClosingAngleBracket ErrorCode = 0x406
	ExpectedHexLiteral          ErrorCode = 0x407
	ExpectedSemi                ErrorCode = 0x408

	MismatchRHS          ErrorCode = 0x501
	MismatchLHS          ErrorCode = 0x502
	MismatchOperandArgs  ErrorCode = 0x503

	OutOfRangeInputs      ErrorCode = 0x601
	OutOfRangeOperandArgs ErrorCode = 0x602
	OutOfRangeValue       ErrorCode = 0x603

	DuplicateAlias           ErrorCode = 0x701
	DuplicateIdentifier      ErrorCode = 0x702
	DuplicateImportStatement ErrorCode = 0x703
	DuplicateImport          ErrorCode = 0x704
)

// message renders the human-readable text for a code given its format
// arguments; msgItems is positional, mirroring the source's msg_items slice.
func (c ErrorCode) message(msgItems []string) string {
	arg := func(i int) string {
		if i < len(msgItems) {
			return msgItems[i]
		}
		return ""
	}
	switch c {
	case IllegalChar:
		return fmt.Sprintf("illegal character: %s", arg(0))
	case RuntimeError:
		return arg(0)
	case CircularDependencyQuote:
		return "quoted binding has circular dependency"
	case CircularDependency:
		return "circular dependency"
	case DeepImport:
		return "import too deep"
	case DeepNamespace:
		return "namespace path too deep"
	case CorruptMeta:
		return "corrupt meta"
	case ElidedBinding:
		return arg(0)
	case SingletonWords:
		return fmt.Sprintf("words must be singleton, but namespace includes %s sets of words", arg(0))
	case MultipleWordSets:
		return "import contains multiple sets of words"
	case InconsumableMeta:
		return "import contains inconsumable meta"
	case OccupiedNamespace:
		return "cannot import into an occupied namespace"
	case CollidingNamespaceNodes:
		return "namespace nodes colliding"
	case OddLenHex:
		return "odd length hex literal"
	case NoneTopLevelImport:
		return "imports can only be stated at top level"
	case NativeParserError:
		return arg(0)

	case UndefinedWord:
		return fmt.Sprintf("undefined word: %s", arg(0))
	case UndefinedAuthoringMeta:
		return "deployer's authoring meta is undefined"
	case UndefinedImport:
		return fmt.Sprintf("cannot find any settlement for import: %s", arg(0))
	case UndefinedQuote:
		return fmt.Sprintf("undefined quote: %s", arg(0))
	case UndefinedOpcode:
		return fmt.Sprintf("unknown opcode: %s", arg(0))
	case UndefinedIdentifier:
		return fmt.Sprintf("undefined identifier: %s", arg(0))
	case UndefinedGlobalWords:
		return "cannot find any sets of words"
	case UndefinedNamespaceMember:
		return fmt.Sprintf("namespace has no member %s", arg(0))
	case UndefinedDeployerDetails:
		return "cannot find deployer details"
	case UndefinedWordSet:
		return "cannot elide undefined words"

	case InvalidWordPattern:
		return fmt.Sprintf("invalid word pattern: %s", arg(0))
	case InvalidExpression:
		return "invalid expression line"
	case InvalidHash:
		return "invalid hash, must be 32 bytes"
	case InvalidImport:
		return "expected a valid name or hash"
	case InvalidEmptyBinding:
		return "invalid empty expression"
	case InvalidEmptyLine:
		return "invalid empty expression line"
	case InvalidLiteralQuote:
		return fmt.Sprintf("invalid quote: %s, cannot quote constants", arg(0))
	case InvalidOperandArg:
		return fmt.Sprintf("invalid argument pattern: %s", arg(0))
	case InvalidReferenceLiteral:
		return fmt.Sprintf("invalid reference to binding: %s, only constant bindings can be referenced", arg(0))
	case InvalidRainDocument:
		return "imported rain document contains top level errors"
	case InvalidNamespaceReference:
		return fmt.Sprintf("expected a node, %s is a namespace", arg(0))
	case UnexpectedStringLiteralEnd:
		return "unexpected end of string literal"
	case SuppliedRebindings:
		return fmt.Sprintf("invalid supplied rebinding: %s", arg(0))

	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedClosingParen:
		return `unexpected ")"`
	case UnexpectedNamespacePath:
		return "unexpected path, must end with a node"
	case UnexpectedRebinding:
		return "unexpected rebinding"
	case UnexpectedClosingAngleParen:
		return `unexpected ">"`
	case UnexpectedEndOfComment:
		return "unexpected end of comment"
	case UnexpectedComment:
		return "unexpected comment"
	case UnexpectedPragma:
		return "unexpected pragma, must be at top"
	case UnexpectedRename:
		return fmt.Sprintf("unexpected rename, name '%s' already taken", arg(0))

	case ExpectedOpcode:
		return "parenthesis represent inputs of an opcode, but no opcode was found for this parenthesis"
	case ExpectedElisionOrRebinding:
		return "expected rebinding or elision"
	case ExpectedClosingParen:
		return `expected ")"`
	case ExpectedOpeningParen:
		return `expected "("`
	case ExpectedClosingAngleBracket:
		return `expected ">"`
	case ExpectedSemi:
		return "expected to end with semi"
	case ExpectedHexLiteral:
		return "expected to be followed by a hex literal"
	case ExpectedRename:
		return "expected to be renamed"

	case MismatchRHS, MismatchLHS, MismatchOperandArgs:
		return ""

	case OutOfRangeInputs, OutOfRangeOperandArgs:
		return ""
	case OutOfRangeValue:
		return "value out of range"

	case DuplicateAlias:
		return fmt.Sprintf("duplicate alias: %s", arg(0))
	case DuplicateIdentifier:
		return "duplicate identifier"
	case DuplicateImportStatement:
		return "duplicate import statement"
	case DuplicateImport:
		return "duplicate import"
	}
	return "unknown error"
}

// ToProblem builds a Problem from this code, its format arguments, and the
// position it occurred at.
func (c ErrorCode) ToProblem(msgItems []string, position Offsets) *Problem {
	return &Problem{Msg: c.message(msgItems), Position: position, Code: c}
}

// Problem is a single collected diagnostic. Problems are always values,
// never thrown as control flow; every parsing phase appends to a problems
// list owned by its enclosing scope.
type Problem struct {
	Msg      string
	Position Offsets
	Code     ErrorCode
}

// Error implements the error interface; callers that need position
// information should use Position/Position instead of string-matching.
func (p *Problem) Error() string {
	return fmt.Sprintf("%s (code %d) at [%d,%d)", p.Msg, p.Code, p.Position.Start(), p.Position.End())
}

// List is an ordered aggregate of problems collected during a single parse
// or compose call. It implements error so a List can be returned directly
// from any function that otherwise returns a single error.
type List []*Problem

func (l List) Error() string {
	var b strings.Builder
	for i, p := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Error())
	}
	return b.String()
}

// Add appends a problem built from code/msgItems/position to the list.
func (l *List) Add(code ErrorCode, msgItems []string, position Offsets) {
	*l = append(*l, code.ToProblem(msgItems, position))
}

// ComposeError is the tagged result of a failed compose call: either a
// whole-document rejection message or a list of collected problems.
type ComposeError struct {
	Reject   string
	Problems List
}

func (e *ComposeError) Error() string {
	if e.Reject != "" {
		return e.Reject
	}
	return e.Problems.Error()
}

// RejectError builds a ComposeError carrying a single rejection message.
func RejectError(msg string) *ComposeError {
	return &ComposeError{Reject: msg}
}

// ProblemsError builds a ComposeError carrying a collected problem list.
func ProblemsError(problems List) *ComposeError {
	return &ComposeError{Problems: problems}
}

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

// Package text holds the lexical primitives every dotrain parsing phase is
// built on: regex-driven inclusive/exclusive tokenizing, whitespace-
// preserving blanking, offset/line-column conversion, and numeric literal
// canonicalization.
package text

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/rainlanguage/dotrain/errors"
)

// ParsedItem is a single inclusive or exclusive parse result: the matched
// (or between-match) text and its offsets into the original document.
type ParsedItem struct {
	Text    string
	Offsets errors.Offsets
}

// InclusiveParse returns (text, offsets) for every match of pattern in
// text, with offsets shifted by base.
func InclusiveParse(text string, pattern *regexp.Regexp, base int) []ParsedItem {
	idx := pattern.FindAllStringIndex(text, -1)
	items := make([]ParsedItem, 0, len(idx))
	for _, m := range idx {
		items = append(items, ParsedItem{
			Text:    text[m[0]:m[1]],
			Offsets: errors.Offsets{m[0] + base, m[1] + base},
		})
	}
	return items
}

// ExclusiveParse returns the text *between* matches of pattern. With
// includeEmptyEnds, zero-length leading/trailing items are still emitted so
// callers can distinguish a leading separator from no separator at all.
// Item i spans from the end of match i-1 to the start of match i (the
// newer convention, adopted uniformly per this module's resolution of the
// source's ambiguity between older and newer call sites).
func ExclusiveParse(text string, pattern *regexp.Regexp, base int, includeEmptyEnds bool) []ParsedItem {
	matches := pattern.FindAllStringIndex(text, -1)
	var items []ParsedItem
	if len(matches) == 0 {
		if text != "" || includeEmptyEnds {
			items = append(items, ParsedItem{Text: text, Offsets: errors.Offsets{base, len(text) + base}})
		}
		return items
	}
	segStart := 0
	for _, m := range matches {
		seg := text[segStart:m[0]]
		if seg != "" || includeEmptyEnds {
			items = append(items, ParsedItem{
				Text:    seg,
				Offsets: errors.Offsets{segStart + base, m[0] + base},
			})
		}
		segStart = m[1]
	}
	tail := text[segStart:]
	if tail != "" || includeEmptyEnds {
		items = append(items, ParsedItem{
			Text:    tail,
			Offsets: errors.Offsets{segStart + base, len(text) + base},
		})
	}
	return items
}

func blankChar(c rune) rune {
	if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f' {
		return c
	}
	return ' '
}

func blank(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		b.WriteRune(blankChar(c))
	}
	return b.String()
}

// FillIn replaces text[pos.Start():pos.End()] in place with whitespace,
// preserving any original whitespace characters verbatim (so line/column
// accounting of everything outside the span is undisturbed).
func FillIn(text []rune, pos errors.Offsets) error {
	if pos.Start() < 0 || pos.End() > len(text) || pos.Start() > pos.End() {
		return fmt.Errorf("position out of bounds: %v", pos)
	}
	for i := pos.Start(); i < pos.End(); i++ {
		text[i] = blankChar(text[i])
	}
	return nil
}

// FillOut blanks everything *outside* pos, keeping the span itself intact.
func FillOut(text []rune, pos errors.Offsets) error {
	if pos.Start() < 0 || pos.End() > len(text) || pos.Start() > pos.End() {
		return fmt.Errorf("position out of bounds: %v", pos)
	}
	for i := 0; i < pos.Start(); i++ {
		text[i] = blankChar(text[i])
	}
	for i := pos.End(); i < len(text); i++ {
		text[i] = blankChar(text[i])
	}
	return nil
}

// TrackedTrim trims leading/trailing whitespace, reporting how many bytes
// were removed from each end so callers can recover offsets into the
// original string.
func TrackedTrim(s string) (trimmed string, leading, trailing int) {
	t := strings.TrimLeft(s, " \t\n\r\v\f")
	leading = len(s) - len(t)
	t2 := strings.TrimRight(t, " \t\n\r\v\f")
	trailing = len(t) - len(t2)
	return t2, leading, trailing
}

// LineNumber returns the zero-based line index containing byte offset pos.
func LineNumber(text string, pos int) int {
	lines := splitInclusive(text, '\n')
	if pos >= len(text) {
		return len(lines)
	}
	c := 0
	for i, l := range lines {
		c += len(l)
		if pos < c {
			return i
		}
	}
	return 0
}

func splitInclusive(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// Position is a zero-based line/character pair, LSP convention.
type Position struct {
	Line      int
	Character int
}

// PositionAt converts a byte offset into text to a line/character pair via
// binary search over cumulative line-start offsets, clamping out-of-range
// offsets to the end of text per LSP convention.
func PositionAt(text string, offset int) Position {
	o := offset
	if o < 0 {
		o = 0
	}
	if o > len(text) {
		o = len(text)
	}
	lines := splitInclusive(text, '\n')
	var lineOffsets []int
	acc := 0
	for _, l := range lines {
		lineOffsets = append(lineOffsets, acc)
		acc += len(l)
	}
	if len(lineOffsets) == 0 {
		return Position{Line: 0, Character: o}
	}
	low, high := 0, len(lineOffsets)
	for low < high {
		mid := (low + high) / 2
		if lineOffsets[mid] > o {
			high = mid
		} else {
			low = mid + 1
		}
	}
	line := low - 1
	return Position{Line: line, Character: o - lineOffsets[line]}
}

// OffsetAt converts a line/character pair back to a byte offset.
func OffsetAt(text string, pos Position) int {
	lines := splitInclusive(text, '\n')
	var lineOffsets []int
	acc := 0
	for _, l := range lines {
		lineOffsets = append(lineOffsets, acc)
		acc += len(l)
	}
	if pos.Line >= len(lineOffsets) {
		return len(text)
	}
	lineOffset := lineOffsets[pos.Line]
	nextLineOffset := len(text)
	if pos.Line+1 < len(lineOffsets) {
		nextLineOffset = lineOffsets[pos.Line+1]
	}
	v := lineOffset + pos.Character
	if v < lineOffset {
		v = lineOffset
	}
	if v > nextLineOffset {
		v = nextLineOffset
	}
	return v
}

// maxU256 is 2^256 - 1, the inclusive upper bound for a canonicalized
// numeric literal.
var maxU256 = func() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 256)
	return v.Sub(v, big.NewInt(1))
}()

// ToU256 parses a numeric literal (hex, binary, decimal integer, or
// exponent form) into a big.Int and checks it fits in 256 bits.
//
// There is no 256-bit integer type in the retrieved dependency pack, so
// this uses math/big directly (a documented stdlib exception — see
// DESIGN.md); the exponent form is widened with apd, the teacher's own
// arbitrary-precision decimal package, instead of hand-rolled zero-padding.
func ToU256(value string) (*big.Int, error) {
	var n *big.Int
	var ok bool
	switch {
	case binaryPattern.MatchString(value):
		n, ok = new(big.Int).SetString(strings.TrimPrefix(value, "0b"), 2)
	case exponentPattern.MatchString(value):
		d, _, err := apd.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent literal: %w", err)
		}
		var coeff apd.Decimal
		ctx := apd.BaseContext.WithPrecision(100)
		if _, err := ctx.ToIntegralExact(&coeff, d); err != nil {
			return nil, fmt.Errorf("invalid exponent literal: %w", err)
		}
		n, ok = new(big.Int).SetString(coeff.Text('f'), 10)
	case intPattern.MatchString(value):
		n, ok = new(big.Int).SetString(value, 10)
	case hexPattern.MatchString(value):
		n, ok = new(big.Int).SetString(strings.TrimPrefix(value, "0x"), 16)
	default:
		return nil, fmt.Errorf("not a rain numeric literal: %s", value)
	}
	if !ok || n == nil {
		return nil, fmt.Errorf("invalid numeric literal: %s", value)
	}
	if n.Sign() < 0 || n.Cmp(maxU256) > 0 {
		return nil, errOutOfRange
	}
	return n, nil
}

var errOutOfRange = fmt.Errorf("value out of range")

// ErrOutOfRange reports whether err is ToU256's out-of-range sentinel.
func ErrOutOfRange(err error) bool { return err == errOutOfRange }

var (
	binaryPattern   = regexp.MustCompile(`^0b[01]+$`)
	exponentPattern = regexp.MustCompile(`^[1-9]\d*e\d+$`)
	intPattern      = regexp.MustCompile(`^\d+$`)
	hexPattern      = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
)

// IsOddLenHex reports whether a 0x-prefixed hex literal has an odd number
// of hex digits.
func IsOddLenHex(value string) bool {
	if !strings.HasPrefix(value, "0x") {
		return false
	}
	return len(value[2:])%2 != 0
}

// Blank returns a copy of s with every non-whitespace rune replaced by a
// space, used to neutralize whole already-consumed sections (e.g. front
// matter) in one shot rather than rune-by-rune via FillIn/FillOut.
func Blank(s string) string { return blank(s) }

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

package text

import (
	"regexp"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/rainlanguage/dotrain/errors"
)

func TestExclusiveParse(t *testing.T) {
	pattern := regexp.MustCompile(`b\s`)
	got := ExclusiveParse("abcd eb\n        qkbjh (aoib 124b)", pattern, 0, true)
	want := []ParsedItem{
		{Text: "abcd e", Offsets: errors.Offsets{0, 6}},
		{Text: "        qkbjh (aoi", Offsets: errors.Offsets{8, 26}},
		{Text: "124b)", Offsets: errors.Offsets{28, 33}},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestFillIn(t *testing.T) {
	runes := []rune("some text to blank out here")
	qt.Assert(t, qt.IsNil(FillIn(runes, errors.Offsets{5, 9})))
	qt.Assert(t, qt.Equals(string(runes), "some      to blank out here"))
}

func TestFillOut(t *testing.T) {
	runes := []rune("some text to keep here")
	qt.Assert(t, qt.IsNil(FillOut(runes, errors.Offsets{5, 9})))
	qt.Assert(t, qt.Equals(string(runes), "     text             "))
}

func TestTrackedTrim(t *testing.T) {
	trimmed, lead, trail := TrackedTrim("  hello world  ")
	qt.Assert(t, qt.Equals(trimmed, "hello world"))
	qt.Assert(t, qt.Equals(lead, 2))
	qt.Assert(t, qt.Equals(trail, 2))
}

func TestToU256(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0b101", "5"},
		{"0xabcd123", "180146467"},
		{"876123", "876123"},
		{"5e13", "50000000000000"},
	}
	for _, c := range cases {
		got, err := ToU256(c.in)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got.String(), c.want))
	}
}

func TestToU256OutOfRange(t *testing.T) {
	huge := "0x" + repeat("f", 65)
	_, err := ToU256(huge)
	qt.Assert(t, qt.ErrorMatches(err, ".*out of range.*"))
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s[0])
	}
	return string(out)
}

func TestLineNumber(t *testing.T) {
	doc := "line0\nline1\nline2"
	qt.Assert(t, qt.Equals(LineNumber(doc, 0), 0))
	qt.Assert(t, qt.Equals(LineNumber(doc, 6), 1))
	qt.Assert(t, qt.Equals(LineNumber(doc, 12), 2))
}

func TestPositionAtOffsetAtRoundTrip(t *testing.T) {
	doc := "abc\ndef\nghij"
	for _, off := range []int{0, 3, 4, 7, 8, 11} {
		pos := PositionAt(doc, off)
		back := OffsetAt(doc, pos)
		qt.Assert(t, qt.Equals(back, off))
	}
}

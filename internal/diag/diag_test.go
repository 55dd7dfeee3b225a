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

package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/rainlanguage/dotrain/errors"
)

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	qt.Assert(t, qt.Not(qt.Equals(a, b)))
	qt.Assert(t, qt.IsTrue(len(a) > 0))
}

func TestDumpWritesLabelAndValue(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, "raindocument", struct{ Name string }{Name: "pi"})
	out := buf.String()
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "raindocument:\n")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "pi")))
}

func TestFormatProblemsPrefixesRunID(t *testing.T) {
	var buf bytes.Buffer
	problems := errors.List{
		errors.IllegalChar.ToProblem([]string{"$"}, errors.Offsets{0, 1}),
	}
	FormatProblems(&buf, "run-1", problems)
	out := buf.String()
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "[run-1]")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "illegal character")))
}

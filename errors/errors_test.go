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

package errors

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestToProblemFormatsMessage(t *testing.T) {
	p := UndefinedWord.ToProblem([]string{"foo"}, Offsets{3, 6})
	qt.Assert(t, qt.Equals(p.Msg, "undefined word: foo"))
	qt.Assert(t, qt.Equals(p.Position, Offsets{3, 6}))
	qt.Assert(t, qt.Equals(p.Code, UndefinedWord))
}

func TestListIsError(t *testing.T) {
	var l List
	l.Add(InvalidEmptyBinding, nil, Offsets{0, 1})
	l.Add(DuplicateAlias, []string{"x"}, Offsets{2, 3})
	qt.Assert(t, qt.HasLen(l, 2))

	var err error = l
	qt.Assert(t, qt.IsNotNil(err))
}

func TestComposeErrorPrefersReject(t *testing.T) {
	e := RejectError("nope")
	qt.Assert(t, qt.Equals(e.Error(), "nope"))

	var l List
	l.Add(UndefinedWord, []string{"a"}, Offsets{0, 1})
	e2 := ProblemsError(l)
	qt.Assert(t, qt.Equals(e2.Error(), l.Error()))
}

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

package compose

import (
	"context"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/rainlanguage/dotrain/document"
	"github.com/rainlanguage/dotrain/rainlang"
)

func TestComposeSingleEntrypoint(t *testing.T) {
	src := "#main\n_: add(1 2);\n"
	doc := document.Parse(context.Background(), src, document.Options{})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))

	out, err := Compose(doc, []string{"main"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "_: add(1 2);"))
}

func TestComposeInlinesConstantReference(t *testing.T) {
	src := "#pi\n314\n#main\n_: add(pi 1);\n"
	doc := document.Parse(context.Background(), src, document.Options{})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))

	out, err := Compose(doc, []string{"main"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "_: add(314 1);"))
}

func TestComposeQuotedDependencyIndex(t *testing.T) {
	src := "#pi\n_: add(1 2);\n#main\n_: opc<'pi>();\n"
	doc := document.Parse(context.Background(), src, document.Options{
		KnownWords: []rainlang.KnownWord{{Word: "opc"}},
	})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))

	out, err := Compose(doc, []string{"main"})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "opc<1>()")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "add(1 2)")))
}

func TestComposeUndefinedEntrypoint(t *testing.T) {
	src := "#main\n_: add(1 2);\n"
	doc := document.Parse(context.Background(), src, document.Options{})
	_, err := Compose(doc, []string{"missing"})
	qt.Assert(t, qt.IsNotNil(err))
}

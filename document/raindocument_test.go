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

package document

import (
	"context"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/opencontainers/go-digest"

	"github.com/rainlanguage/dotrain/ast"
	"github.com/rainlanguage/dotrain/errors"
	"github.com/rainlanguage/dotrain/meta"
)

func TestParseConstantAndExpressionBindings(t *testing.T) {
	src := "#pi\n314\n#main\n_: add(pi 1);\n"
	doc := Parse(context.Background(), src, Options{})
	qt.Assert(t, qt.IsNil(doc.RuntimeError))
	qt.Assert(t, qt.HasLen(doc.Bindings, 2))

	pi := doc.Namespace["pi"]
	qt.Assert(t, qt.IsTrue(pi.IsLeaf()))
	qt.Assert(t, qt.IsTrue(pi.Leaf.Binding.IsConstant()))

	main := doc.Namespace["main"]
	qt.Assert(t, qt.IsTrue(main.IsLeaf()))
	qt.Assert(t, qt.IsTrue(main.Leaf.Binding.IsExpression()))
}

func TestParseElidedBinding(t *testing.T) {
	src := "#needs-rebind ! must be rebound before use\n"
	doc := Parse(context.Background(), src, Options{})
	qt.Assert(t, qt.HasLen(doc.Bindings, 1))
	qt.Assert(t, qt.IsTrue(doc.Bindings[0].IsElided()))
	item := doc.Bindings[0].Item.(*ast.ElidedBindingItem)
	qt.Assert(t, qt.Equals(item.Msg, "must be rebound before use"))
}

func TestParseDuplicateBindingName(t *testing.T) {
	src := "#a\n1\n#a\n2\n"
	doc := Parse(context.Background(), src, Options{})
	qt.Assert(t, qt.IsTrue(len(doc.Problems) > 0))
}

func TestParseCircularDependency(t *testing.T) {
	src := "#a\n_: add('b 1);\n#b\n_: add('a 1);\n"
	doc := Parse(context.Background(), src, Options{})
	foundA, foundB := false, false
	for _, b := range doc.Bindings {
		switch b.Name {
		case "a":
			foundA = len(b.Problems) > 0 || len(doc.Problems) > 0
		case "b":
			foundB = len(b.Problems) > 0 || len(doc.Problems) > 0
		}
	}
	qt.Assert(t, qt.IsTrue(foundA))
	qt.Assert(t, qt.IsTrue(foundB))
}

func TestImportConfigRenameAndRebind(t *testing.T) {
	nested := "#pi\n314\n#e\n271\n"
	payload := []byte(nested)
	blob := meta.Encode([]meta.Item{{Magic: meta.MagicDotrainV1, Bytes: payload}})
	d := digest.FromBytes(payload)
	store := meta.NewMemStore()
	store.UpdateWith(d, blob)

	hash := "0x" + d.Encoded()
	src := "@lib " + hash + " 'pi renamed-pi e 100\n#main\n_: add(lib.renamed-pi lib.e);\n"

	doc := Parse(context.Background(), src, Options{Store: store})
	qt.Assert(t, qt.HasLen(doc.Imports, 1))
	imp := doc.Imports[0]
	qt.Assert(t, qt.IsNotNil(imp.Sequence))
	qt.Assert(t, qt.HasLen(imp.Problems, 0))

	libItem, ok := doc.Namespace["lib"]
	qt.Assert(t, qt.IsTrue(ok))
	renamed, ok := libItem.Node["renamed-pi"]
	qt.Assert(t, qt.IsTrue(ok && renamed.IsLeaf()))
	_, stillPi := libItem.Node["pi"]
	qt.Assert(t, qt.IsFalse(stillPi))

	e, ok := libItem.Node["e"]
	qt.Assert(t, qt.IsTrue(ok && e.IsLeaf()))
	constant := e.Leaf.Binding.Item.(*ast.ConstantBindingItem)
	qt.Assert(t, qt.Equals(constant.Value, "100"))
}

func TestParseRebindsOverridesAndSynthesizes(t *testing.T) {
	src := "#some-value\n4e18\n#main\n_: add(some-value 1);\n"
	doc := Parse(context.Background(), src, Options{
		Rebinds: []Rebind{
			{Name: "some-value", Value: "0x123456"},
			{Name: "some-override-value", Value: "567"},
		},
	})
	qt.Assert(t, qt.IsNil(doc.RuntimeError))

	someValue, ok := doc.Namespace["some-value"]
	qt.Assert(t, qt.IsTrue(ok && someValue.IsLeaf()))
	overridden := someValue.Leaf.Binding.Item.(*ast.ConstantBindingItem)
	qt.Assert(t, qt.Equals(overridden.Value, "0x123456"))

	synthesized, ok := doc.Namespace["some-override-value"]
	qt.Assert(t, qt.IsTrue(ok && synthesized.IsLeaf()))
	synthItem := synthesized.Leaf.Binding.Item.(*ast.ConstantBindingItem)
	qt.Assert(t, qt.Equals(synthItem.Value, "567"))
}

func TestParseRebindInvalidValueReported(t *testing.T) {
	src := "#main\n1\n"
	doc := Parse(context.Background(), src, Options{
		Rebinds: []Rebind{{Name: "bad", Value: "not-a-literal"}},
	})
	found := false
	for _, p := range doc.Problems {
		if p.Code == errors.SuppliedRebindings {
			found = true
		}
	}
	qt.Assert(t, qt.IsTrue(found))
}

func TestImportConfigMissingComplement(t *testing.T) {
	nested := "#pi\n314\n"
	payload := []byte(nested)
	blob := meta.Encode([]meta.Item{{Magic: meta.MagicDotrainV1, Bytes: payload}})
	d := digest.FromBytes(payload)
	store := meta.NewMemStore()
	store.UpdateWith(d, blob)

	hash := "0x" + d.Encoded()
	src := "@lib " + hash + " 'pi\n#main\n1\n"

	doc := Parse(context.Background(), src, Options{Store: store})
	imp := doc.Imports[0]
	found := false
	for _, p := range imp.Problems {
		if p.Code == errors.ExpectedRename {
			found = true
		}
	}
	qt.Assert(t, qt.IsTrue(found))
}

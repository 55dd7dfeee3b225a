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

package rainlang

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/rainlanguage/dotrain/ast"
	"github.com/rainlanguage/dotrain/errors"
)

func TestParseOpcodeWithInputs(t *testing.T) {
	doc := Parse("_: add(1 2);", nil, []KnownWord{{Word: "add", Description: "adds two values"}})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))
	qt.Assert(t, qt.HasLen(doc.Sources, 1))
	line := doc.Sources[0].Lines[0]
	qt.Assert(t, qt.HasLen(line.Nodes, 1))

	op, ok := line.Nodes[0].(*ast.Opcode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(op.Opcode.Name, "add"))
	qt.Assert(t, qt.Equals(op.Opcode.Description, "adds two values"))
	qt.Assert(t, qt.HasLen(op.Inputs, 2))

	lit0, ok := op.Inputs[0].(*ast.Literal)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lit0.Value, "1"))
	lit1, ok := op.Inputs[1].(*ast.Literal)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lit1.Value, "2"))
}

func TestParseOperandArgs(t *testing.T) {
	doc := Parse("_: opc<12 56>();", nil, []KnownWord{{Word: "opc"}})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))
	op := doc.Sources[0].Lines[0].Nodes[0].(*ast.Opcode)
	qt.Assert(t, qt.IsNotNil(op.OperandArgs))
	qt.Assert(t, qt.HasLen(op.OperandArgs.Args, 2))
	qt.Assert(t, qt.Equals(op.OperandArgs.Args[0].Value, "12"))
	qt.Assert(t, qt.Equals(op.OperandArgs.Args[1].Value, "56"))
}

func TestParseUndefinedWordProblem(t *testing.T) {
	doc := Parse("_: something-undefined;", nil, nil)
	qt.Assert(t, qt.HasLen(doc.Problems, 1))
	qt.Assert(t, qt.Equals(doc.Problems[0].Code, errors.UndefinedWord))
}

func TestParseNamespaceQuoteResolution(t *testing.T) {
	exprBinding := &ast.Binding{
		Name: "pi",
		Item: &ast.ExpressionBindingItem{},
	}
	namespace := ast.Namespace{
		"pi": ast.NamespaceItem{Leaf: &ast.NamespaceLeaf{ImportIndex: -1, Binding: exprBinding}},
	}
	doc := Parse("_: opc<'pi>();", namespace, []KnownWord{{Word: "opc"}})
	qt.Assert(t, qt.HasLen(doc.Problems, 0))
	op := doc.Sources[0].Lines[0].Nodes[0].(*ast.Opcode)
	qt.Assert(t, qt.Equals(op.OperandArgs.Args[0].Value, "pi"))
}

func hasCode(problems []*errors.Problem, code errors.ErrorCode) bool {
	for _, p := range problems {
		if p.Code == code {
			return true
		}
	}
	return false
}

func TestParseUnbalancedParen(t *testing.T) {
	doc := Parse("_: add(1 2;", nil, []KnownWord{{Word: "add"}})
	qt.Assert(t, qt.IsTrue(hasCode(doc.Problems, errors.ExpectedClosingParen)))
}

func TestParseDuplicateAlias(t *testing.T) {
	doc := Parse("a a: add(1 2);", nil, []KnownWord{{Word: "add"}})
	qt.Assert(t, qt.IsTrue(hasCode(doc.Problems, errors.DuplicateAlias)))
}

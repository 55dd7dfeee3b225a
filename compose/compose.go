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

// Package compose resolves a RainDocument's entrypoint bindings plus their
// transitive dependencies into final rainlang source text, rewriting each
// node's quoted-binding references into the numeric indices the runtime
// expects.
package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rainlanguage/dotrain/ast"
	"github.com/rainlanguage/dotrain/errors"
	"github.com/rainlanguage/dotrain/internal/dotrainpattern"
)

// target is one resolved compose node: an entrypoint or one of its
// transitive dependencies, in the order first discovered by the BFS.
type target struct {
	hash    string
	name    string
	offsets errors.Offsets
	content string
	binding *ast.Binding
}

func (t target) key() string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", t.hash, t.name, t.offsets.Start(), t.offsets.End(), t.content)
}

// resolveNamespacePath walks a (possibly dotted, possibly leading-dot)
// reference string through ns, the same path a quoted dependency or a
// dotted entrypoint name takes through a RainDocument's merged namespace.
func resolveNamespacePath(ns ast.Namespace, ref string) (*ast.Binding, bool) {
	segments := strings.Split(strings.TrimPrefix(ref, "."), ".")
	if len(segments) == 0 || segments[0] == "" {
		return nil, false
	}
	cur := ns
	var item ast.NamespaceItem
	for i, seg := range segments {
		next, ok := cur[seg]
		if !ok {
			return nil, false
		}
		item = next
		if i < len(segments)-1 {
			if item.IsLeaf() {
				return nil, false
			}
			cur = item.Node
		}
	}
	if !item.IsLeaf() {
		return nil, false
	}
	return item.Leaf.Binding, true
}

// Compose resolves entrypoints (binding names, possibly dotted through an
// import namespace) against doc and returns the final joined rainlang
// text. An empty entrypoint list is rejected. Every entrypoint and every
// transitive dependency must be an expression binding whose rainlang parsed
// without problems; any document-level Problems are surfaced first as a
// ProblemsError.
func Compose(doc *ast.RainDocument, entrypoints []string) (string, error) {
	if len(entrypoints) == 0 {
		return "", errors.RejectError("no entrypoints")
	}
	if doc.RuntimeError != nil {
		return "", errors.RejectError(fmt.Sprintf("rain document runtime error: %v", doc.RuntimeError))
	}
	if len(doc.Problems) > 0 {
		return "", errors.ProblemsError(doc.Problems)
	}

	var targets []target
	seen := map[string]int{}
	indexOfRef := map[string]int{}

	var resolve func(ref string) (int, error)
	resolve = func(ref string) (int, error) {
		if idx, ok := indexOfRef[ref]; ok {
			return idx, nil
		}
		b, ok := resolveNamespacePath(doc.Namespace, ref)
		if !ok {
			return 0, errors.RejectError(fmt.Sprintf("undefined identifier: %s", ref))
		}
		exprItem, ok := b.Item.(*ast.ExpressionBindingItem)
		if !ok {
			return 0, errors.RejectError(fmt.Sprintf("not an expression binding: %s", ref))
		}
		if exprItem.Doc == nil || exprItem.Doc.RuntimeError != nil {
			return 0, errors.RejectError(fmt.Sprintf("unparsed expression binding: %s", ref))
		}
		if len(exprItem.Doc.Problems) > 0 {
			return 0, errors.ProblemsError(exprItem.Doc.Problems)
		}

		t := target{name: b.Name, offsets: b.ContentPosition, content: b.Content, binding: b}
		key := t.key()
		idx, ok := seen[key]
		if !ok {
			idx = len(targets)
			seen[key] = idx
			targets = append(targets, t)
		}
		indexOfRef[ref] = idx
		return idx, nil
	}

	for _, ep := range entrypoints {
		if _, err := resolve(ep); err != nil {
			return "", err
		}
	}
	for i := 0; i < len(targets); i++ {
		for _, dep := range targets[i].binding.Dependencies {
			if _, err := resolve(dep); err != nil {
				return "", err
			}
		}
	}

	var pieces []string
	for _, t := range targets {
		item := t.binding.Item.(*ast.ExpressionBindingItem)
		rewritten, err := renderSource(item.Doc, 0, indexOfRef)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, rewritten)
	}
	return strings.Join(pieces, "\n\n"), nil
}

// renderSource rewrites doc's original text: a dotted/bare literal
// reference (`v.ID != nil`) is replaced by its already-resolved constant
// value, and a quoted operand-arg dependency is replaced by its resolved
// compose index, looked up by the exact reference string rainlang stored
// (the apostrophe-stripped, optionally dot-prefixed path).
func renderSource(doc *ast.RainlangDocument, base int, indexOfRef map[string]int) (string, error) {
	type edit struct {
		start, end int
		value      string
	}
	var edits []edit
	var walkErr error

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Literal:
			if v.ID != nil {
				edits = append(edits, edit{v.Pos.Start() - base, v.Pos.End() - base, v.Value})
			}
		case *ast.Opcode:
			if v.OperandArgs != nil {
				for _, a := range v.OperandArgs.Args {
					if dotrainpattern.Numeric.MatchString(a.Value) {
						continue
					}
					idx, ok := indexOfRef[a.Value]
					if !ok {
						walkErr = errors.RejectError(fmt.Sprintf("cannot resolve dependency: %s", a.Value))
						continue
					}
					edits = append(edits, edit{a.Position.Start() - base, a.Position.End() - base, fmt.Sprintf("%d", idx)})
				}
			}
			for _, in := range v.Inputs {
				walk(in)
			}
		}
	}

	for _, src := range doc.Sources {
		for _, line := range src.Lines {
			for _, n := range line.Nodes {
				walk(n)
			}
		}
	}
	if walkErr != nil {
		return "", walkErr
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	runes := []rune(doc.Text)
	var b strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.start < cursor || e.end > len(runes) {
			continue
		}
		b.WriteString(string(runes[cursor:e.start]))
		b.WriteString(e.value)
		cursor = e.end
	}
	b.WriteString(string(runes[cursor:]))
	return b.String(), nil
}

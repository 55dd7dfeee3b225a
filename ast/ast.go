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

// Package ast defines the parse tree shared by the RainDocument parser,
// the rainlang parser, and the composer: comments, imports, bindings,
// namespaces, and rainlang expression nodes. Every runtime polymorphism in
// the original implementation (nodes, namespace items, binding items) is a
// closed tagged union here, expressed as a Go interface implemented by
// exactly the listed concrete types.
package ast

import "github.com/rainlanguage/dotrain/errors"

// Offsets is re-exported from errors so callers of this package don't need
// a second import for the one type every node carries.
type Offsets = errors.Offsets

// ParsedItem is a single lexical token plus its source offsets, the result
// type of the text package's inclusive/exclusive parsers.
type ParsedItem struct {
	Text    string
	Offsets Offsets
}

// Comment is a /* ... */ span. An unterminated comment is still recorded,
// with an UnexpectedEndOfComment problem attached at the document level.
type Comment struct {
	Text     string
	Position Offsets
}

// ImportConfigGroup is one (left, right?) pair parsed from an import
// statement's trailing configuration tokens.
type ImportConfigGroup struct {
	Left  ParsedItem
	Right *ParsedItem
}

// ImportConfiguration holds the renames/rebindings/elisions trailing an
// import's hash.
type ImportConfiguration struct {
	Problems []*errors.Problem
	Groups   []ImportConfigGroup
}

// Import is one `@ [name] hash [config...]` statement.
type Import struct {
	Name          string
	NamePosition  Offsets
	Hash          string
	HashPosition  Offsets
	Position      Offsets
	Problems      []*errors.Problem
	Configuration *ImportConfiguration
	// Sequence is the nested RainDocument resolved for this import, if the
	// fetched meta was a consumable DotrainV1 item and the document parsed
	// with no unrecoverable runtime error. Present only for successfully
	// resolved imports; its own top-level Problems are surfaced at the
	// outer import as InvalidRainDocument, not merged into this slice.
	Sequence *RainDocument
}

// Node is the closed tagged union of rainlang RHS AST nodes: Literal,
// Alias, or Opcode.
type Node interface {
	Position() Offsets
	isNode()
}

// Literal is a numeric or string-literal RHS leaf. ID is set when the
// literal was produced by a named constant/string binding lookup (so the
// composer's sourcemap pass can find and rewrite it by name).
type Literal struct {
	Value    string
	Pos      Offsets
	LHSAlias []*Alias
	ID       *string
}

func (l *Literal) Position() Offsets { return l.Pos }
func (*Literal) isNode()             {}

// Alias is an unresolved RHS identifier: a stack alias reference, an
// elided-binding reference, or an error marker (UndefinedWord etc).
type Alias struct {
	Name     string
	Pos      Offsets
	LHSAlias []*Alias
}

func (a *Alias) Position() Offsets { return a.Pos }
func (*Alias) isNode()             {}

// OpcodeDetails carries an opcode's name and (if known) its description.
type OpcodeDetails struct {
	Name        string
	Description string
	Position    Offsets
}

// OperandArgItem is one resolved operand argument.
type OperandArgItem struct {
	Value       string
	Name        string
	Position    Offsets
	Description string
}

// OperandArg is an opcode's whole `<...>` segment.
type OperandArg struct {
	Position Offsets
	Args     []OperandArgItem
}

// Opcode is an RHS invocation `name<operand-args>(inputs...)`.
type Opcode struct {
	Opcode      OpcodeDetails
	Operand     *uint8
	Output      *uint8
	Pos         Offsets
	Parens      Offsets
	Inputs      []Node
	LHSAlias    []*Alias
	OperandArgs *OperandArg
}

func (o *Opcode) Position() Offsets { return o.Pos }
func (*Opcode) isNode()             {}

// RainlangLine is one `,`-delimited line: `lhs-aliases : rhs-nodes`.
type RainlangLine struct {
	Nodes    []Node
	Position Offsets
	Aliases  []Alias
}

// RainlangSource is one `;`-delimited source: an ordered list of lines.
type RainlangSource struct {
	Lines    []RainlangLine
	Position Offsets
}

// ElidedBindingItem is the tagged-union variant for a `#name ! msg` binding.
type ElidedBindingItem struct {
	Msg string
}

// ConstantBindingItem is the tagged-union variant for a literal (numeric or
// string) binding.
type ConstantBindingItem struct {
	Value string
}

// ExpressionBindingItem is the tagged-union variant for an expression
// binding; Doc is nil until the deferred rainlang parse (RainDocument pass
// 10) runs.
type ExpressionBindingItem struct {
	Doc *RainlangDocument
}

// BindingItem is the closed tagged union of a binding's content kind.
type BindingItem interface{ isBindingItem() }

func (*ElidedBindingItem) isBindingItem()     {}
func (*ConstantBindingItem) isBindingItem()   {}
func (*ExpressionBindingItem) isBindingItem() {}

// Binding is one `#name content` statement.
type Binding struct {
	Name            string
	NamePosition    Offsets
	Content         string
	ContentPosition Offsets
	Position        Offsets
	Problems        []*errors.Problem
	Dependencies    []string
	Item            BindingItem
}

// IsElided reports whether this binding's item is ElidedBindingItem.
func (b *Binding) IsElided() bool { _, ok := b.Item.(*ElidedBindingItem); return ok }

// IsConstant reports whether this binding's item is ConstantBindingItem.
func (b *Binding) IsConstant() bool { _, ok := b.Item.(*ConstantBindingItem); return ok }

// IsExpression reports whether this binding's item is ExpressionBindingItem.
func (b *Binding) IsExpression() bool { _, ok := b.Item.(*ExpressionBindingItem); return ok }

// NamespaceLeaf is a resolved namespace entry: a binding plus the import it
// arrived through (import index -1 means declared directly in this
// document, not through any import).
type NamespaceLeaf struct {
	Hash        string
	ImportIndex int
	Binding     *Binding
}

// NamespaceItem is the closed tagged union of a Namespace's values: either
// a Leaf (a resolved binding) or a Node (a child Namespace).
type NamespaceItem struct {
	Leaf *NamespaceLeaf
	Node Namespace
}

// IsLeaf reports whether this item is a leaf rather than a subnamespace.
func (n NamespaceItem) IsLeaf() bool { return n.Leaf != nil }

// Namespace is a hierarchical name resolution tree: leaves are bindings,
// internal nodes are subnamespaces.
type Namespace map[string]NamespaceItem

// Clone returns a deep copy of the namespace tree (used when projecting an
// import's namespace before config-group rewriting, so the original nested
// document's namespace is untouched).
func (n Namespace) Clone() Namespace {
	out := make(Namespace, len(n))
	for k, v := range n {
		if v.IsLeaf() {
			leaf := *v.Leaf
			out[k] = NamespaceItem{Leaf: &leaf}
		} else {
			out[k] = NamespaceItem{Node: v.Node.Clone()}
		}
	}
	return out
}

// RainlangDocument is the per-expression-binding parse tree.
type RainlangDocument struct {
	Text     string
	Sources  []RainlangSource
	Problems []*errors.Problem
	Comments []Comment
	// RuntimeError is set if a panic was recovered while parsing this
	// document; Problems will contain a single RuntimeError problem at
	// [0,0] and Sources will be empty.
	RuntimeError error
}

// RainDocument is the top-level parse tree for one dotrain source text.
type RainDocument struct {
	Text            string
	FrontMatterSpan Offsets
	Imports         []*Import
	Comments        []Comment
	Bindings        []*Binding
	Namespace       Namespace
	Problems        []*errors.Problem
	ImportDepth     int
	KnownWords      []string
	// RuntimeError is set if a panic was recovered while parsing this
	// document.
	RuntimeError error
}

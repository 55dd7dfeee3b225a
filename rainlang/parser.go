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

// Package rainlang parses a single expression binding's raw text into a
// RainlangDocument: a list of `;`-delimited sources, each a list of
// `,`-delimited lines with LHS aliases and an RHS node tree. The RHS walk
// is a cooperative single-threaded state machine over paren/angle-bracket
// depth, mirroring the source's own character-at-a-time design rather than
// a generated-parser or recursive-descent-over-tokens approach.
package rainlang

import (
	"fmt"
	"strings"

	"github.com/rainlanguage/dotrain/ast"
	"github.com/rainlanguage/dotrain/errors"
	"github.com/rainlanguage/dotrain/internal/dotrainpattern"
	"github.com/rainlanguage/dotrain/internal/text"
)

// KnownWord is one entry of the (optional) opcode vocabulary the caller
// supplies, used only to attach a human-readable description to recognized
// opcode names; an unrecognized name is not an error; is simply undescribed.
type KnownWord struct {
	Word        string
	Description string
}

type parens struct {
	open  []int
	close []int
}

type state struct {
	nodes   []ast.Node
	aliases []ast.Alias
	parens  parens
	depth   int
}

func (s *state) reset() {
	s.depth = 0
	s.nodes = s.nodes[:0]
	s.aliases = s.aliases[:0]
	s.parens.open = s.parens.open[:0]
	s.parens.close = s.parens.close[:0]
}

type parser struct {
	text       string
	doc        *ast.RainlangDocument
	st         state
	namespace  ast.Namespace
	knownWords map[string]string
}

// Parse builds a RainlangDocument from an expression binding's raw text
// (with any outer comments already blanked by the caller), resolving
// namespace-qualified lookups against namespace and attaching opcode
// descriptions from knownWords.
func Parse(src string, namespace ast.Namespace, knownWords []KnownWord) *ast.RainlangDocument {
	doc := &ast.RainlangDocument{Text: src}
	words := make(map[string]string, len(knownWords))
	for _, w := range knownWords {
		words[w.Word] = w.Description
	}
	p := &parser{text: src, doc: doc, namespace: namespace, knownWords: words}
	p.run()
	return doc
}

func (p *parser) run() {
	defer func() {
		if r := recover(); r != nil {
			p.doc.Sources = nil
			p.doc.Comments = nil
			p.doc.RuntimeError = fmt.Errorf("%v", r)
			p.doc.Problems = []*errors.Problem{errors.RuntimeError.ToProblem([]string{fmt.Sprint(r)}, errors.Offsets{0, 0})}
		}
	}()
	p.parse()
}

func (p *parser) addProblem(code errors.ErrorCode, args []string, pos errors.Offsets) {
	p.doc.Problems = append(p.doc.Problems, code.ToProblem(args, pos))
}

func (p *parser) parse() {
	document := p.text

	if illegal := text.InclusiveParse(document, dotrainpattern.IllegalChar, 0); len(illegal) > 0 {
		p.addProblem(errors.IllegalChar, []string{illegal[0].Text}, errors.Offsets{illegal[0].Offsets.Start(), illegal[0].Offsets.Start()})
		return
	}

	runes := []rune(document)
	for _, c := range text.InclusiveParse(document, dotrainpattern.Comment, 0) {
		if !strings.HasSuffix(c.Text, "*/") {
			p.addProblem(errors.UnexpectedEndOfComment, nil, c.Offsets)
		}
		p.doc.Comments = append(p.doc.Comments, ast.Comment{Text: c.Text, Position: c.Offsets})
		_ = text.FillIn(runes, c.Offsets)
	}
	document = string(runes)

	parsedSources := text.ExclusiveParse(document, dotrainpattern.Source, 0, true)
	var srcItems []string
	var srcItemsPos []errors.Offsets
	if len(parsedSources) > 0 && strings.TrimSpace(parsedSources[len(parsedSources)-1].Text) == "" {
		parsedSources = parsedSources[:len(parsedSources)-1]
	} else if len(parsedSources) > 0 {
		last := parsedSources[len(parsedSources)-1]
		pEnd := last.Offsets.End()
		p.addProblem(errors.ExpectedSemi, nil, errors.Offsets{pEnd, pEnd + 1})
	}
	for _, v := range parsedSources {
		trimmed, lead, trail := text.TrackedTrim(v.Text)
		if trimmed == "" {
			pos := v.Offsets.End() - trail
			p.addProblem(errors.InvalidEmptyBinding, nil, errors.Offsets{pos, pos})
		} else {
			srcItems = append(srcItems, trimmed)
			srcItemsPos = append(srcItemsPos, errors.Offsets{v.Offsets.Start() + lead, v.Offsets.End() - trail})
		}
	}

	var reservedKeys []string
	for k := range p.namespace {
		reservedKeys = append(reservedKeys, k)
	}

	for i, src := range srcItems {
		occupiedKeys := append([]string(nil), reservedKeys...)

		p.doc.Sources = append(p.doc.Sources, ast.RainlangSource{Position: srcItemsPos[i]})

		var subSrcItems []string
		var subSrcItemsPos []errors.Offsets
		var endsDiff []int
		for _, v := range text.ExclusiveParse(src, dotrainpattern.SubSource, srcItemsPos[i].Start(), true) {
			trimmed, lead, trail := text.TrackedTrim(v.Text)
			subSrcItems = append(subSrcItems, trimmed)
			subSrcItemsPos = append(subSrcItemsPos, errors.Offsets{v.Offsets.Start() + lead, v.Offsets.End() - trail})
			endsDiff = append(endsDiff, trail)
		}

		for j, subSrc := range subSrcItems {
			p.st.reset()
			cursorOffset := subSrcItemsPos[j].Start()
			if j > 0 {
				for _, a := range p.doc.Sources[i].Lines[j-1].Aliases {
					if a.Name != "_" {
						occupiedKeys = append(occupiedKeys, a.Name)
					}
				}
			}

			if lhs, rhs, ok := strings.Cut(subSrc, ":"); ok {
				for _, cm := range p.doc.Comments {
					if cm.Position.Start() > cursorOffset && cm.Position.Start() < subSrcItemsPos[j].End()+endsDiff[j] {
						p.addProblem(errors.UnexpectedComment, nil, cm.Position)
					}
				}
				if lhs != "" {
					for _, item := range text.InclusiveParse(lhs, dotrainpattern.Any, cursorOffset) {
						if !dotrainpattern.LHS.MatchString(item.Text) {
							p.addProblem(errors.InvalidWordPattern, []string{item.Text}, item.Offsets)
						}
						if item.Text != "_" && (contains(occupiedKeys, item.Text) || p.isLHSAliasInCurrentLine(item.Text)) {
							p.addProblem(errors.DuplicateAlias, []string{item.Text}, item.Offsets)
						}
						p.st.aliases = append(p.st.aliases, ast.Alias{Name: item.Text, Pos: item.Offsets})
					}
				}
				p.processRHS(rhs, cursorOffset+len(subSrc))
			} else {
				if strings.TrimSpace(subSrc) == "" {
					p.addProblem(errors.InvalidEmptyLine, nil, subSrcItemsPos[j])
				} else {
					p.addProblem(errors.InvalidExpression, nil, subSrcItemsPos[j])
				}
			}

			line := ast.RainlangLine{
				Nodes:    append([]ast.Node(nil), p.st.nodes...),
				Position: subSrcItemsPos[j],
			}
			for _, a := range p.st.aliases {
				line.Aliases = append(line.Aliases, a)
			}
			p.doc.Sources[i].Lines = append(p.doc.Sources[i].Lines, line)
		}
	}

	for _, c := range p.doc.Comments {
		if !dotrainpattern.IgnoreNextLine.MatchString(c.Text) {
			continue
		}
		target := text.LineNumber(p.text, c.Position.End()) + 1
		var foundLine *ast.RainlangLine
		for si := range p.doc.Sources {
			for li := range p.doc.Sources[si].Lines {
				if text.LineNumber(p.text, p.doc.Sources[si].Lines[li].Position.Start()) == target {
					foundLine = &p.doc.Sources[si].Lines[li]
					break
				}
			}
			if foundLine != nil {
				break
			}
		}
		if foundLine != nil {
			filtered := p.doc.Problems[:0]
			for _, pr := range p.doc.Problems {
				if pr.Position.Start() >= foundLine.Position.Start() && pr.Position.End() <= foundLine.Position.End() {
					continue
				}
				filtered = append(filtered, pr)
			}
			p.doc.Problems = filtered
		}
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// updateState appends n to the node list at the current depth: the
// top-level line when depth is 0, or the innermost open opcode's Inputs
// otherwise.
func (p *parser) updateState(n ast.Node) {
	nodes := &p.st.nodes
	for i := 0; i < p.st.depth; i++ {
		op, ok := (*nodes)[len(*nodes)-1].(*ast.Opcode)
		if !ok {
			panic("parser state corrupt: expected opcode at depth")
		}
		nodes = &op.Inputs
	}
	*nodes = append(*nodes, n)
}

func (p *parser) processRHS(rhsText string, endOffset int) {
	exp := rhsText
	for len(exp) > 0 {
		cursor := endOffset - len(exp)
		r := []rune(exp)[0]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			exp = exp[1:]
		case r == '>':
			p.addProblem(errors.UnexpectedClosingAngleParen, nil, errors.Offsets{cursor, cursor + 1})
			exp = exp[1:]
		case r == ')':
			if len(p.st.parens.open) > 0 {
				p.st.parens.close = append(p.st.parens.close, cursor+1)
				p.processOpcode()
				p.st.depth--
			} else {
				p.addProblem(errors.UnexpectedClosingParen, nil, errors.Offsets{cursor, cursor + 1})
			}
			exp = exp[1:]
		default:
			consumed := p.consume(exp, cursor)
			exp = exp[consumed:]
		}
	}
}

func (p *parser) processOpcode() {
	p.st.parens.open = p.st.parens.open[:len(p.st.parens.open)-1]
	endPosition := p.st.parens.close[len(p.st.parens.close)-1]
	p.st.parens.close = p.st.parens.close[:len(p.st.parens.close)-1]

	nodes := &p.st.nodes
	for i := 0; i < p.st.depth-1; i++ {
		op := (*nodes)[len(*nodes)-1].(*ast.Opcode)
		nodes = &op.Inputs
	}
	op := (*nodes)[len(*nodes)-1].(*ast.Opcode)
	op.Pos[1] = endPosition + 1
	op.Parens[1] = endPosition

	filtered := p.doc.Problems[:0]
	for _, pr := range p.doc.Problems {
		if pr.Msg == `expected ")"` && pr.Position.Start() == op.Opcode.Position.Start() && pr.Position.End() == op.Parens.Start()+1 {
			continue
		}
		filtered = append(filtered, pr)
	}
	p.doc.Problems = filtered
}

// processOperand parses the `<a b c>` segment starting at exp[0]=='<',
// returning the number of runes of exp it consumed.
func (p *parser) processOperand(exp string, cursor int, op *ast.Opcode) int {
	closeIdx := strings.IndexByte(exp, '>')
	if closeIdx < 0 {
		p.addProblem(errors.ExpectedClosingAngleBracket, nil, errors.Offsets{cursor, cursor + len(exp)})
		op.OperandArgs = &ast.OperandArg{Position: errors.Offsets{cursor, cursor + len(exp)}}
		return len(exp)
	}
	inner := exp[1:closeIdx]
	remaining := closeIdx + 1
	op.OperandArgs = &ast.OperandArg{Position: errors.Offsets{cursor, cursor + len(inner) + 2}}

	for _, v := range text.InclusiveParse(inner, dotrainpattern.Any, cursor+1) {
		if !dotrainpattern.OperandArg.MatchString(v.Text) {
			p.addProblem(errors.InvalidOperandArg, []string{v.Text}, v.Offsets)
			continue
		}
		isQuote := strings.HasPrefix(v.Text, "'")
		value := v.Text
		if isQuote {
			quote := v.Text[1:]
			value = quote
			if b := p.searchNamespace(quote, v.Offsets.Start()); b != nil {
				switch item := b.Item.(type) {
				case *ast.ElidedBindingItem:
					p.addProblem(errors.ElidedBinding, []string{item.Msg}, v.Offsets)
				case *ast.ConstantBindingItem:
					p.addProblem(errors.InvalidLiteralQuote, []string{quote}, v.Offsets)
				default:
					for _, pr := range b.Problems {
						if pr.Code == errors.CircularDependency {
							p.addProblem(errors.CircularDependencyQuote, nil, v.Offsets)
							break
						}
					}
				}
			} else {
				p.addProblem(errors.UndefinedQuote, []string{quote}, v.Offsets)
			}
		}
		op.OperandArgs.Args = append(op.OperandArgs.Args, ast.OperandArgItem{
			Value:    value,
			Name:     "operand arg",
			Position: v.Offsets,
		})
	}
	return remaining
}

var boundaryCutset = "()<> \t\r\n"

func splitAtBoundary(exp string) (next, remaining string) {
	idx := strings.IndexAny(exp, boundaryCutset)
	if idx < 0 {
		return exp, ""
	}
	return exp[:idx], exp[idx:]
}

// consume reads one token from text starting at cursor and classifies it,
// returning the number of runes consumed.
func (p *parser) consume(expText string, cursor int) int {
	next, remaining := splitAtBoundary(expText)
	offset := len(next)
	nextPos := errors.Offsets{cursor, cursor + len(next)}

	switch {
	case strings.HasPrefix(remaining, "(") || strings.HasPrefix(remaining, "<"):
		op := &ast.Opcode{
			Opcode: ast.OpcodeDetails{Name: next, Position: nextPos},
			Pos:    errors.Offsets{nextPos.Start(), 0},
			Parens: errors.Offsets{1, 0},
		}
		if next == "" {
			p.addProblem(errors.ExpectedOpcode, nil, nextPos)
		} else if !dotrainpattern.Word.MatchString(next) {
			p.addProblem(errors.InvalidWordPattern, []string{next}, nextPos)
		} else if desc, ok := p.knownWords[next]; ok {
			op.Opcode.Description = desc
		}

		if strings.HasPrefix(remaining, "<") {
			consumed := p.processOperand(remaining, cursor+len(next), op)
			offset += consumed
			remaining = remaining[consumed:]
		}
		if strings.HasPrefix(remaining, "(") {
			pos := nextPos.End()
			if op.OperandArgs != nil {
				pos = op.OperandArgs.Position.End()
			}
			offset++
			p.st.parens.open = append(p.st.parens.open, pos)
			op.Parens[0] = pos
			p.updateState(op)
			p.st.depth++
			p.addProblem(errors.ExpectedClosingParen, nil, errors.Offsets{nextPos.Start(), pos + 1})
		} else {
			p.addProblem(errors.ExpectedOpeningParen, nil, nextPos)
		}

	case strings.Contains(next, "."):
		if b := p.searchNamespace(next, cursor); b != nil {
			switch item := b.Item.(type) {
			case *ast.ConstantBindingItem:
				id := next
				p.updateState(&ast.Literal{ID: &id, Value: item.Value, Pos: nextPos})
			case *ast.ElidedBindingItem:
				p.addProblem(errors.ElidedBinding, []string{item.Msg}, nextPos)
				p.updateState(&ast.Alias{Name: next, Pos: nextPos})
			default:
				p.addProblem(errors.InvalidReferenceLiteral, []string{next}, nextPos)
				p.updateState(&ast.Alias{Name: next, Pos: nextPos})
			}
		} else {
			p.updateState(&ast.Alias{Name: next, Pos: nextPos})
		}

	case dotrainpattern.Numeric.MatchString(next):
		if dotrainpattern.Hex.MatchString(next) && len(next)%2 == 1 {
			p.addProblem(errors.OddLenHex, nil, nextPos)
		}
		if _, err := text.ToU256(next); err != nil {
			p.addProblem(errors.OutOfRangeValue, nil, nextPos)
		}
		p.updateState(&ast.Literal{Value: next, Pos: nextPos})

	case dotrainpattern.StringLiteral.MatchString(next):
		p.updateState(&ast.Literal{Value: next, Pos: nextPos})

	case dotrainpattern.Word.MatchString(next):
		if p.isLHSAlias(next) {
			p.updateState(&ast.Alias{Name: next, Pos: nextPos})
		} else if item, ok := p.namespace[next]; ok {
			if item.IsLeaf() {
				switch bindingItem := item.Leaf.Binding.Item.(type) {
				case *ast.ConstantBindingItem:
					id := next
					p.updateState(&ast.Literal{ID: &id, Value: bindingItem.Value, Pos: nextPos})
				case *ast.ElidedBindingItem:
					p.addProblem(errors.ElidedBinding, []string{bindingItem.Msg}, nextPos)
					p.updateState(&ast.Alias{Name: next, Pos: nextPos})
				default:
					p.addProblem(errors.InvalidReferenceLiteral, []string{next}, nextPos)
					p.updateState(&ast.Alias{Name: next, Pos: nextPos})
				}
			} else {
				p.addProblem(errors.InvalidNamespaceReference, []string{next}, nextPos)
				p.updateState(&ast.Alias{Name: next, Pos: nextPos})
			}
		} else {
			p.addProblem(errors.UndefinedWord, []string{next}, nextPos)
			p.updateState(&ast.Alias{Name: next, Pos: nextPos})
		}

	default:
		p.addProblem(errors.InvalidWordPattern, []string{next}, nextPos)
		p.updateState(&ast.Alias{Name: next, Pos: nextPos})
	}
	return offset
}

// isLHSAliasInCurrentLine reports whether name was already declared as an
// LHS alias earlier in the line currently being processed.
func (p *parser) isLHSAliasInCurrentLine(name string) bool {
	for _, a := range p.st.aliases {
		if a.Name == name {
			return true
		}
	}
	return false
}

// isLHSAlias reports whether name was declared as an LHS alias on the
// current line (not yet committed to doc.Sources) or an earlier line of
// the source currently being parsed.
func (p *parser) isLHSAlias(name string) bool {
	if p.isLHSAliasInCurrentLine(name) {
		return true
	}
	if len(p.doc.Sources) == 0 {
		return false
	}
	src := p.doc.Sources[len(p.doc.Sources)-1]
	for _, l := range src.Lines {
		for _, a := range l.Aliases {
			if a.Name == name {
				return true
			}
		}
	}
	return false
}

// searchNamespace resolves a dotted namespace path against p.namespace,
// reporting problems and returning nil on any failure.
func (p *parser) searchNamespace(query string, offset int) *ast.Binding {
	segments := text.ExclusiveParse(query, dotrainpattern.NamespaceSegment, offset, true)
	if strings.HasPrefix(query, ".") {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return nil
	}
	if len(segments) > 32 {
		p.addProblem(errors.DeepNamespace, nil, errors.Offsets{offset, offset + len(query)})
		return nil
	}
	last := segments[len(segments)-1]
	if last.Text == "" {
		p.addProblem(errors.UnexpectedNamespacePath, nil, last.Offsets)
		return nil
	}
	invalid := false
	for _, seg := range segments {
		if !dotrainpattern.Word.MatchString(seg.Text) {
			p.addProblem(errors.InvalidWordPattern, []string{seg.Text}, seg.Offsets)
			invalid = true
		}
	}
	if invalid {
		return nil
	}

	item, ok := p.namespace[segments[0].Text]
	if !ok {
		p.addProblem(errors.UndefinedNamespaceMember, []string{segments[0].Text}, segments[0].Offsets)
		return nil
	}
	for _, seg := range segments[1:] {
		if item.IsLeaf() {
			p.addProblem(errors.UndefinedNamespaceMember, []string{seg.Text}, seg.Offsets)
			return nil
		}
		next, ok := item.Node[seg.Text]
		if !ok {
			p.addProblem(errors.UndefinedNamespaceMember, []string{seg.Text}, seg.Offsets)
			return nil
		}
		item = next
	}
	if !item.IsLeaf() {
		p.addProblem(errors.InvalidNamespaceReference, []string{segments[len(segments)-1].Text}, errors.Offsets{offset, offset + len(query)})
		return nil
	}
	return item.Leaf.Binding
}

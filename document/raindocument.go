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

// Package document parses a complete dotrain source text into a
// RainDocument: front matter, imports (resolved recursively through a
// meta.Store), a merged namespace, and a dependency-ordered set of
// bindings whose expression content is handed off to the rainlang package.
package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mpvl/unique"
	"github.com/opencontainers/go-digest"

	"github.com/rainlanguage/dotrain/ast"
	"github.com/rainlanguage/dotrain/errors"
	"github.com/rainlanguage/dotrain/internal/dotrainpattern"
	"github.com/rainlanguage/dotrain/internal/text"
	"github.com/rainlanguage/dotrain/internal/toposort"
	"github.com/rainlanguage/dotrain/meta"
	"github.com/rainlanguage/dotrain/rainlang"
)

// MaxImportDepth caps recursive nested-import resolution, mirroring the
// source's hard depth ceiling.
const MaxImportDepth = 32

// Rebind is one CLI-supplied `name=value` pair: either an override of an
// existing top-level binding's content, or, when no binding of that name
// exists, a brand-new top-level constant binding synthesized from value.
type Rebind struct {
	Name  string
	Value string
}

// Options configures a single Parse call.
type Options struct {
	// Store resolves an import's hash to a meta blob. A nil Store means
	// every import is reported UndefinedImport.
	Store meta.Store
	// Subgraphs is passed through to Store.Search for remote lookups.
	Subgraphs []string
	// KnownWords names the opcode vocabulary available to every expression
	// binding parsed from this document (and its imports).
	KnownWords []rainlang.KnownWord
	// Rebinds applies CLI-supplied overrides before the dependency graph
	// and expression bindings are built, so a rebound value participates
	// in the rest of the parse exactly like one declared in source.
	Rebinds []Rebind
}

// Parse parses a complete dotrain source text into a RainDocument.
func Parse(ctx context.Context, src string, opts Options) *ast.RainDocument {
	doc := &ast.RainDocument{Text: src, ImportDepth: 0, Namespace: ast.Namespace{}}
	p := &parser{ctx: ctx, opts: opts, doc: doc, depth: 0}
	p.run(src)
	return doc
}

func parseNested(ctx context.Context, src string, opts Options, depth int) *ast.RainDocument {
	doc := &ast.RainDocument{Text: src, ImportDepth: depth, Namespace: ast.Namespace{}}
	p := &parser{ctx: ctx, opts: opts, doc: doc, depth: depth}
	p.run(src)
	return doc
}

type parser struct {
	ctx   context.Context
	opts  Options
	doc   *ast.RainDocument
	depth int
}

func (p *parser) addProblem(code errors.ErrorCode, args []string, pos errors.Offsets) {
	p.doc.Problems = append(p.doc.Problems, code.ToProblem(args, pos))
}

func (p *parser) run(src string) {
	defer func() {
		if r := recover(); r != nil {
			p.doc.Imports, p.doc.Comments, p.doc.Bindings = nil, nil, nil
			p.doc.Namespace = ast.Namespace{}
			p.doc.RuntimeError = fmt.Errorf("%v", r)
			p.doc.Problems = []*errors.Problem{errors.RuntimeError.ToProblem([]string{fmt.Sprint(r)}, errors.Offsets{0, 0})}
		}
	}()
	p.parse(src)
}

// splitFrontMatter finds the first "---" line and returns its span; an
// absent delimiter means the whole document is body with no front matter.
func splitFrontMatter(src string) errors.Offsets {
	idx := strings.Index(src, "\n---\n")
	if strings.HasPrefix(src, "---\n") {
		end := 4
		if rest := strings.Index(src[end:], "\n---\n"); rest >= 0 {
			return errors.Offsets{0, end + rest + 5}
		}
		return errors.Offsets{0, len(src)}
	}
	if idx < 0 {
		return errors.Offsets{0, 0}
	}
	return errors.Offsets{0, idx + 5}
}

func (p *parser) parse(src string) {
	if illegal := text.InclusiveParse(src, dotrainpattern.IllegalChar, 0); len(illegal) > 0 {
		p.addProblem(errors.IllegalChar, []string{illegal[0].Text}, errors.Offsets{illegal[0].Offsets.Start(), illegal[0].Offsets.Start()})
		return
	}

	p.doc.FrontMatterSpan = splitFrontMatter(src)
	runes := []rune(src)
	if p.doc.FrontMatterSpan.End() > 0 {
		_ = text.FillIn(runes, p.doc.FrontMatterSpan)
	}
	body := string(runes)

	for _, c := range text.InclusiveParse(body, dotrainpattern.Comment, 0) {
		if !strings.HasSuffix(c.Text, "*/") {
			p.addProblem(errors.UnexpectedEndOfComment, nil, c.Offsets)
		}
		p.doc.Comments = append(p.doc.Comments, ast.Comment{Text: c.Text, Position: c.Offsets})
		_ = text.FillIn(runes, c.Offsets)
	}
	body = string(runes)

	p.processImports(body)
	p.mergeImportNamespaces()
	p.processBindings(body)
	p.applyRebinds()
	p.checkNonTopLevel(body)
	p.buildDependencyGraph()
	p.parseExpressionBindings()
	p.applyIgnoreNextLine(src)
}

// importStatement is one raw `@name hash config...` match before
// resolution.
type importStatement struct {
	text string
	pos  errors.Offsets
}

func (p *parser) processImports(body string) {
	var statements []importStatement
	for _, m := range text.InclusiveParse(body, dotrainpattern.Imports, 0) {
		start := m.Offsets.Start()
		end := len(body)
		for _, b := range text.InclusiveParse(body, dotrainpattern.Binding, 0) {
			if b.Offsets.Start() > start {
				if b.Offsets.Start() < end {
					end = b.Offsets.Start()
				}
			}
		}
		for _, other := range text.InclusiveParse(body, dotrainpattern.Imports, 0) {
			if other.Offsets.Start() > start && other.Offsets.Start() < end {
				end = other.Offsets.Start()
			}
		}
		statements = append(statements, importStatement{text: body[start:end], pos: errors.Offsets{start, end}})
	}

	p.doc.Imports = make([]*ast.Import, len(statements))
	var wg sync.WaitGroup
	for i, st := range statements {
		wg.Add(1)
		go func(i int, st importStatement) {
			defer wg.Done()
			p.doc.Imports[i] = p.resolveImport(st)
		}(i, st)
	}
	wg.Wait()

	for _, imp := range p.doc.Imports {
		p.doc.Problems = append(p.doc.Problems, imp.Problems...)
	}
}

func (p *parser) resolveImport(st importStatement) *ast.Import {
	trimmed, lead, _ := text.TrackedTrim(strings.TrimPrefix(st.text, "@"))
	base := st.pos.Start() + 1 + lead
	tokens := text.InclusiveParse(trimmed, dotrainpattern.Any, base)

	imp := &ast.Import{Position: st.pos}
	if len(tokens) == 0 {
		imp.Problems = append(imp.Problems, errors.InvalidImport.ToProblem(nil, st.pos))
		return imp
	}

	idx := 0
	first := tokens[0]
	if dotrainpattern.Hash.MatchString(first.Text) {
		imp.Hash = first.Text
		imp.HashPosition = first.Offsets
	} else if dotrainpattern.Word.MatchString(first.Text) {
		imp.Name = first.Text
		imp.NamePosition = first.Offsets
		idx = 1
		if len(tokens) > 1 && dotrainpattern.Hash.MatchString(tokens[1].Text) {
			imp.Hash = tokens[1].Text
			imp.HashPosition = tokens[1].Offsets
			idx = 2
		} else {
			imp.Problems = append(imp.Problems, errors.InvalidImport.ToProblem(nil, st.pos))
			return imp
		}
	} else {
		imp.Problems = append(imp.Problems, errors.InvalidImport.ToProblem(nil, st.pos))
		return imp
	}

	if idx < len(tokens) {
		imp.Configuration = p.parseImportConfig(tokens[idx:])
		imp.Problems = append(imp.Problems, imp.Configuration.Problems...)
	}

	if imp.Hash == "" {
		return imp
	}
	p.fetchImport(imp)
	return imp
}

// isLiteralToken reports whether s is a numeric or string literal, the
// shape a rebinding's replacement value must take.
func isLiteralToken(s string) bool {
	return dotrainpattern.Numeric.MatchString(s) || dotrainpattern.StringLiteral.MatchString(s)
}

// groupExists reports whether cfg already has a group with the same
// (left, right) text pair, the signal for a repeated rename/rebind/elision.
func groupExists(groups []ast.ImportConfigGroup, leftText, rightText string) bool {
	for _, g := range groups {
		if g.Right != nil && g.Left.Text == leftText && g.Right.Text == rightText {
			return true
		}
	}
	return false
}

// parseImportConfig consumes the whitespace-delimited tokens trailing an
// import's name/hash two at a time: a bare word paired with a literal or
// `!` is a rebinding or elision of that binding; a `'name` paired with a
// word is a rename. A token left without a pair is reported as missing its
// rename (if quoted) or its elision/rebinding value (otherwise).
func (p *parser) parseImportConfig(tokens []text.ParsedItem) *ast.ImportConfiguration {
	cfg := &ast.ImportConfiguration{}
	i := 0
	for i < len(tokens) {
		first := tokens[i]
		if i+1 >= len(tokens) {
			cfg.Groups = append(cfg.Groups, ast.ImportConfigGroup{
				Left: ast.ParsedItem{Text: first.Text, Offsets: first.Offsets},
			})
			if strings.HasPrefix(first.Text, "'") {
				cfg.Problems = append(cfg.Problems, errors.ExpectedRename.ToProblem(nil, first.Offsets))
			} else {
				cfg.Problems = append(cfg.Problems, errors.ExpectedElisionOrRebinding.ToProblem(nil, first.Offsets))
			}
			i++
			continue
		}

		complement := tokens[i+1]
		group := ast.ImportConfigGroup{
			Left:  ast.ParsedItem{Text: first.Text, Offsets: first.Offsets},
			Right: &ast.ParsedItem{Text: complement.Text, Offsets: complement.Offsets},
		}

		switch {
		case dotrainpattern.Word.MatchString(first.Text):
			if isLiteralToken(complement.Text) || complement.Text == "!" {
				if groupExists(cfg.Groups, first.Text, complement.Text) {
					cfg.Problems = append(cfg.Problems, errors.DuplicateImportStatement.ToProblem(nil, errors.Offsets{first.Offsets.Start(), complement.Offsets.End()}))
				}
			} else {
				cfg.Problems = append(cfg.Problems, errors.UnexpectedToken.ToProblem(nil, complement.Offsets))
			}
		case strings.HasPrefix(first.Text, "'"):
			quote := strings.TrimPrefix(first.Text, "'")
			if dotrainpattern.Word.MatchString(quote) {
				if dotrainpattern.Word.MatchString(complement.Text) {
					if groupExists(cfg.Groups, first.Text, complement.Text) {
						cfg.Problems = append(cfg.Problems, errors.DuplicateImportStatement.ToProblem(nil, errors.Offsets{first.Offsets.Start(), complement.Offsets.End()}))
					}
				} else {
					cfg.Problems = append(cfg.Problems, errors.InvalidWordPattern.ToProblem([]string{complement.Text}, complement.Offsets))
				}
			} else {
				cfg.Problems = append(cfg.Problems, errors.InvalidWordPattern.ToProblem([]string{first.Text}, first.Offsets))
			}
		default:
			cfg.Problems = append(cfg.Problems, errors.UnexpectedToken.ToProblem(nil, first.Offsets))
		}

		cfg.Groups = append(cfg.Groups, group)
		i += 2
	}
	return cfg
}

func (p *parser) fetchImport(imp *ast.Import) {
	if p.depth+1 > MaxImportDepth {
		imp.Problems = append(imp.Problems, errors.DeepImport.ToProblem(nil, imp.Position))
		return
	}
	if p.opts.Store == nil {
		imp.Problems = append(imp.Problems, errors.UndefinedImport.ToProblem([]string{imp.Hash}, imp.HashPosition))
		return
	}
	d, err := digest.Parse("sha256:" + strings.TrimPrefix(imp.Hash, "0x"))
	if err != nil {
		imp.Problems = append(imp.Problems, errors.InvalidHash.ToProblem(nil, imp.HashPosition))
		return
	}
	blob, ok := p.opts.Store.Get(d)
	if !ok {
		fetched, err := p.opts.Store.Search(p.ctx, d, p.opts.Subgraphs)
		if err != nil {
			imp.Problems = append(imp.Problems, errors.UndefinedImport.ToProblem([]string{imp.Hash}, imp.HashPosition))
			return
		}
		p.opts.Store.UpdateWith(d, fetched)
		blob = fetched
	}
	items, err := meta.Decode(blob)
	if err != nil {
		imp.Problems = append(imp.Problems, errors.CorruptMeta.ToProblem(nil, imp.HashPosition))
		return
	}
	if !meta.IsConsumable(items) {
		imp.Problems = append(imp.Problems, errors.InconsumableMeta.ToProblem(nil, imp.HashPosition))
		return
	}
	payload, ok := meta.DotrainBytes(items)
	if !ok {
		return
	}
	nested := parseNested(p.ctx, string(payload), p.opts, p.depth+1)
	if nested.RuntimeError != nil {
		imp.Problems = append(imp.Problems, errors.InvalidRainDocument.ToProblem(nil, imp.HashPosition))
		return
	}
	for _, pr := range nested.Problems {
		if pr.Code != errors.NoneTopLevelImport {
			imp.Problems = append(imp.Problems, errors.InvalidRainDocument.ToProblem(nil, imp.HashPosition))
			break
		}
	}
	imp.Sequence = nested
}

// mergeImportNamespaces projects each resolved import's bindings into the
// document namespace, honoring rename/rebind/elide configuration groups and
// reporting OccupiedNamespace / CollidingNamespaceNodes on conflicts.
func (p *parser) mergeImportNamespaces() {
	for impIdx, imp := range p.doc.Imports {
		if imp.Sequence == nil {
			continue
		}
		ns := imp.Sequence.Namespace.Clone()
		renames := map[string]string{}
		if imp.Configuration != nil {
			for _, g := range imp.Configuration.Groups {
				if g.Right == nil {
					continue
				}
				if quote := strings.TrimPrefix(g.Left.Text, "'"); quote != g.Left.Text {
					renames[quote] = g.Right.Text
					continue
				}
				p.applyBindingOverride(ns, g)
			}
		}
		target := p.doc.Namespace
		if imp.Name != "" {
			item, exists := target[imp.Name]
			if exists && item.IsLeaf() {
				p.addProblem(errors.OccupiedNamespace, []string{imp.Name}, imp.NamePosition)
				continue
			}
			if !exists {
				item = ast.NamespaceItem{Node: ast.Namespace{}}
				target[imp.Name] = item
			}
			target = item.Node
		}
		p.mergeNamespaceTree(target, ns, renames, impIdx)
	}
}

// applyBindingOverride rebinds or elides a top-level leaf of an imported
// namespace in place, per a word-valued import configuration group (the
// complement is a literal value or the elision marker `!`).
func (p *parser) applyBindingOverride(ns ast.Namespace, g ast.ImportConfigGroup) {
	item, ok := ns[g.Left.Text]
	if !ok || !item.IsLeaf() {
		return
	}
	b := &ast.Binding{
		Name:            item.Leaf.Binding.Name,
		NamePosition:    item.Leaf.Binding.NamePosition,
		Position:        item.Leaf.Binding.Position,
		Content:         g.Right.Text,
		ContentPosition: g.Right.Offsets,
	}
	if g.Right.Text == "!" {
		b.Item = &ast.ElidedBindingItem{Msg: dotrainpattern.DefaultElision}
	} else {
		b.Item = &ast.ConstantBindingItem{Value: g.Right.Text}
	}
	ns[g.Left.Text] = ast.NamespaceItem{Leaf: &ast.NamespaceLeaf{ImportIndex: item.Leaf.ImportIndex, Binding: b}}
}

// applyRebinds overrides an existing top-level binding's content, or
// synthesizes a brand-new top-level constant binding when no `#binding`
// of that name was declared, for every CLI-supplied Rebind. A rebind
// value that is neither a numeric nor a string literal is rejected with
// SuppliedRebindings and left unapplied.
func (p *parser) applyRebinds() {
	for _, r := range p.opts.Rebinds {
		if !isLiteralToken(r.Value) {
			p.addProblem(errors.SuppliedRebindings, []string{r.Name}, errors.Offsets{0, 0})
			continue
		}
		if item, exists := p.doc.Namespace[r.Name]; exists && item.IsLeaf() {
			b := item.Leaf.Binding
			b.Content = r.Value
			b.ContentPosition = errors.Offsets{0, 0}
			b.Item = &ast.ConstantBindingItem{Value: r.Value}
			b.Dependencies = nil
			continue
		}
		b := &ast.Binding{
			Name:            r.Name,
			Content:         r.Value,
			ContentPosition: errors.Offsets{0, 0},
			Item:            &ast.ConstantBindingItem{Value: r.Value},
		}
		p.doc.Bindings = append(p.doc.Bindings, b)
		p.doc.Namespace[r.Name] = ast.NamespaceItem{Leaf: &ast.NamespaceLeaf{ImportIndex: -1, Binding: b}}
	}
}

func (p *parser) mergeNamespaceTree(dst, src ast.Namespace, renames map[string]string, impIdx int) {
	for name, item := range src {
		key := name
		if r, ok := renames[name]; ok {
			key = r
		}
		if item.IsLeaf() {
			item.Leaf.ImportIndex = impIdx
		}
		if existing, ok := dst[key]; ok {
			if existing.IsLeaf() != item.IsLeaf() {
				p.addProblem(errors.OccupiedNamespace, []string{key}, errors.Offsets{0, 0})
				continue
			}
			if !item.IsLeaf() {
				p.mergeNamespaceTree(existing.Node, item.Node, renames, impIdx)
				continue
			}
			p.addProblem(errors.CollidingNamespaceNodes, []string{key}, errors.Offsets{0, 0})
			continue
		}
		dst[key] = item
	}
}

// checkNonTopLevel reports any import statement occurring after the first
// binding marker, since imports may only be declared before all bindings.
func (p *parser) checkNonTopLevel(body string) {
	bindingMarks := text.InclusiveParse(body, dotrainpattern.Binding, 0)
	if len(bindingMarks) == 0 {
		return
	}
	firstBinding := bindingMarks[0].Offsets.Start()
	for _, imp := range p.doc.Imports {
		if imp.Position.Start() > firstBinding {
			p.addProblem(errors.NoneTopLevelImport, nil, imp.Position)
		}
	}
}

func (p *parser) processBindings(body string) {
	marks := text.InclusiveParse(body, dotrainpattern.Binding, 0)
	for i, m := range marks {
		start := m.Offsets.Start()
		end := len(body)
		if i+1 < len(marks) {
			end = marks[i+1].Offsets.Start()
		}
		p.processBinding(body[start:end], start)
	}
}

func (p *parser) processBinding(raw string, base int) {
	rest := strings.TrimPrefix(raw, "#")
	nameTokens := text.InclusiveParse(rest, dotrainpattern.Any, base+1)
	if len(nameTokens) == 0 {
		p.addProblem(errors.UndefinedIdentifier, nil, errors.Offsets{base, base + 1})
		return
	}
	nameTok := nameTokens[0]
	b := &ast.Binding{Name: nameTok.Text, NamePosition: nameTok.Offsets, Position: errors.Offsets{base, base + len(raw)}}

	if !dotrainpattern.Word.MatchString(b.Name) && b.Name != "_" {
		p.addProblem(errors.InvalidWordPattern, []string{b.Name}, b.NamePosition)
	}
	if _, exists := p.doc.Namespace[b.Name]; exists {
		p.addProblem(errors.DuplicateIdentifier, []string{b.Name}, b.NamePosition)
		return
	}

	contentStart := nameTok.Offsets.End()
	content := raw[contentStart-base:]
	trimmedContent, lead, trail := text.TrackedTrim(content)
	b.Content = trimmedContent
	b.ContentPosition = errors.Offsets{contentStart + lead, base + len(raw) - trail}

	switch {
	case trimmedContent == "":
		p.addProblem(errors.InvalidEmptyBinding, nil, b.ContentPosition)
		return
	case strings.HasPrefix(trimmedContent, "!"):
		msg := strings.TrimSpace(strings.TrimPrefix(trimmedContent, "!"))
		if msg == "" {
			msg = dotrainpattern.DefaultElision
		}
		b.Item = &ast.ElidedBindingItem{Msg: msg}
	case dotrainpattern.Numeric.MatchString(trimmedContent):
		if dotrainpattern.Hex.MatchString(trimmedContent) && text.IsOddLenHex(trimmedContent) {
			p.addProblem(errors.OddLenHex, nil, b.ContentPosition)
		}
		if _, err := text.ToU256(trimmedContent); err != nil {
			p.addProblem(errors.OutOfRangeValue, nil, b.ContentPosition)
		}
		b.Item = &ast.ConstantBindingItem{Value: trimmedContent}
	case dotrainpattern.StringLiteral.MatchString(trimmedContent):
		b.Item = &ast.ConstantBindingItem{Value: trimmedContent}
	default:
		b.Item = &ast.ExpressionBindingItem{}
	}

	p.doc.Bindings = append(p.doc.Bindings, b)
	p.doc.Namespace[b.Name] = ast.NamespaceItem{Leaf: &ast.NamespaceLeaf{ImportIndex: -1, Binding: b}}
}

// dependencyNames is a sortable, truncatable []string adapter so
// mpvl/unique can dedupe a binding's raw 'name occurrences in place,
// matching the package's sort-then-truncate contract.
type dependencyNames []string

func (d dependencyNames) Len() int           { return len(d) }
func (d dependencyNames) Less(i, j int) bool { return d[i] < d[j] }
func (d dependencyNames) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }
func (d *dependencyNames) Truncate(n int)    { *d = (*d)[:n] }

func (p *parser) buildDependencyGraph() {
	g := toposort.NewGraph()
	for _, b := range p.doc.Bindings {
		g.AddNode(b.Name)
		if !b.IsExpression() {
			continue
		}
		var deps dependencyNames
		for _, m := range dotrainpattern.Dependency.FindAllString(b.Content, -1) {
			dep := strings.TrimPrefix(m, "'")
			root := strings.SplitN(dep, ".", 2)[0]
			if root == b.Name {
				continue
			}
			if _, ok := p.doc.Namespace[root]; ok {
				deps = append(deps, dep)
			}
		}
		unique.Sort(&deps)
		for _, dep := range deps {
			root := strings.SplitN(dep, ".", 2)[0]
			b.Dependencies = append(b.Dependencies, dep)
			g.AddEdge(b.Name, root)
		}
	}
	_, cyclic, ok := g.Sort()
	if !ok {
		byName := map[string]*ast.Binding{}
		for _, b := range p.doc.Bindings {
			byName[b.Name] = b
		}
		var names []string
		for name := range cyclic {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if b, ok := byName[name]; ok {
				p.addProblem(errors.CircularDependency, nil, b.NamePosition)
			}
		}
	}
}

func (p *parser) parseExpressionBindings() {
	var wg sync.WaitGroup
	for _, b := range p.doc.Bindings {
		item, ok := b.Item.(*ast.ExpressionBindingItem)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(b *ast.Binding, item *ast.ExpressionBindingItem) {
			defer wg.Done()
			hasCircular := false
			for _, pr := range p.doc.Problems {
				if pr.Code == errors.CircularDependency && pr.Position == b.NamePosition {
					hasCircular = true
				}
			}
			if hasCircular {
				return
			}
			item.Doc = rainlang.Parse(b.Content, p.doc.Namespace, p.opts.KnownWords)
			start := b.ContentPosition.Start()
			for _, pr := range item.Doc.Problems {
				shifted := *pr
				shifted.Position = errors.Offsets{pr.Position.Start() + start, pr.Position.End() + start}
				b.Problems = append(b.Problems, &shifted)
			}
		}(b, item)
	}
	wg.Wait()
	for _, b := range p.doc.Bindings {
		p.doc.Problems = append(p.doc.Problems, b.Problems...)
	}
}

func (p *parser) applyIgnoreNextLine(original string) {
	for _, c := range p.doc.Comments {
		if !dotrainpattern.IgnoreNextLine.MatchString(c.Text) {
			continue
		}
		targetLine := text.LineNumber(original, c.Position.End()) + 1
		filtered := p.doc.Problems[:0]
		for _, pr := range p.doc.Problems {
			if text.LineNumber(original, pr.Position.Start()) == targetLine {
				continue
			}
			filtered = append(filtered, pr)
		}
		p.doc.Problems = filtered
	}
}

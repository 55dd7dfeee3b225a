// Copyright 2024 CUE Authors
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

// Package toposort sorts a binding dependency graph, adapted from the
// teacher's internal/core/toposort package: the same
// build-a-graph-then-Sort-it shape, but keyed by plain binding-name strings
// rather than CUE's adt.Feature, since a dotrain dependency graph has no
// structural/field-selector identity to preserve.
package toposort

// Graph is a directed graph of string-named nodes built incrementally via
// AddNode/AddEdge.
type Graph struct {
	nodes map[string]*node
	order []string
}

type node struct {
	name     string
	outgoing []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode ensures a node for name exists, even if it has no edges.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodes[name]; !ok {
		g.nodes[name] = &node{name: name}
		g.order = append(g.order, name)
	}
}

// AddEdge records that `from` depends on `to`. Both nodes are created if
// absent. Idempotent: duplicate edges are not added twice.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	n := g.nodes[from]
	for _, o := range n.outgoing {
		if o == to {
			return
		}
	}
	n.outgoing = append(n.outgoing, to)
}

// Sort runs Kahn's algorithm over the graph, returning the nodes in
// dependency-first order (every node after the nodes it depends on). If the
// graph has cycles, ok is false and cyclic marks every node on a cycle plus
// every node that depends, directly or transitively, on one — this is used
// to mark every node in an unresolved SCC with CircularDependency, not just
// one arbitrary member.
func (g *Graph) Sort() (sorted []string, cyclic map[string]bool, ok bool) {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, name := range g.order {
		indegree[name] = len(g.nodes[name].outgoing)
		for _, to := range g.nodes[name].outgoing {
			dependents[to] = append(dependents[to], name)
		}
	}

	var queue []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	visited := make(map[string]bool, len(g.nodes))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited[name] = true
		sorted = append(sorted, name)
		for _, from := range dependents[name] {
			indegree[from]--
			if indegree[from] == 0 {
				queue = append(queue, from)
			}
		}
	}

	if len(sorted) == len(g.nodes) {
		return sorted, nil, true
	}

	cyclic = make(map[string]bool)
	for _, name := range g.order {
		if !visited[name] {
			cyclic[name] = true
		}
	}
	// Any node, cyclic or not, that depends (transitively) on a cyclic
	// node is also considered part of the unresolved set: its dependency
	// chain can never be fully resolved either.
	changed := true
	for changed {
		changed = false
		for _, n := range g.nodes {
			if cyclic[n.name] {
				continue
			}
			for _, to := range n.outgoing {
				if cyclic[to] {
					cyclic[n.name] = true
					changed = true
					break
				}
			}
		}
	}
	return sorted, cyclic, false
}

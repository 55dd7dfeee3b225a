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

package toposort

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestSortAcyclic(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddNode("d")

	sorted, cyclic, ok := g.Sort()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsNil(cyclic))

	pos := map[string]int{}
	for i, n := range sorted {
		pos[n] = i
	}
	qt.Assert(t, qt.IsTrue(pos["c"] < pos["b"]))
	qt.Assert(t, qt.IsTrue(pos["b"] < pos["a"]))
}

func TestSortCycleMarksTransitiveDependents(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")
	g.AddNode("d")

	_, cyclic, ok := g.Sort()
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.IsTrue(cyclic["a"]))
	qt.Assert(t, qt.IsTrue(cyclic["b"]))
	qt.Assert(t, qt.IsTrue(cyclic["c"]))
	qt.Assert(t, qt.IsFalse(cyclic["d"]))
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	qt.Assert(t, qt.Equals(len(g.nodes["a"].outgoing), 1))
}

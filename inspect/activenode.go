// Copyright 2025 CUE Authors
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

package inspect

import (
	"sort"

	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/graph"
	"github.com/cuelabs/qlinspect/token"
)

// TryActiveNode is the ActiveNode resolver (C3): from leaf nodes and a
// caret, pick the closest leaf to the left, refine it against
// in-progress context nodes, and build its ancestry.
//
// Grounded on internal/lsp/definitions.go's ForOffset worklist: scan
// candidates, prefer by a priority rule, and the sorted-leaf binary
// search is modeled on internal/lsp/rangeset.RangeSet.Contains's
// sort.Search usage.
func TryActiveNode(cfg Config, g *graph.Graph, pos token.Position) (*ActiveNode, error) {
	if g.IsEmpty() {
		return nil, nil
	}

	leaves := g.SortedLeaves()
	// idx is the first leaf whose start is strictly after pos; the
	// qualifying candidate, if any, is just before it. Because leaves
	// are sorted by (start, id) ascending, this also picks the highest
	// id among leaves sharing the same start, per the tie-break rule.
	idx := sort.Search(len(leaves), func(i int) bool {
		n, _ := g.AstNode(leaves[i])
		return token.IsAfter(n.Range.Start, pos, false)
	})
	if idx == 0 {
		// Caret is before every token.
		return nil, nil
	}
	bestID := leaves[idx-1]

	for _, ctxID := range g.ContextsStartingAtOrBefore(pos) {
		if ctxID > bestID {
			bestID = ctxID
		}
	}

	bestHandle, err := g.XorNode(bestID)
	if err != nil {
		return nil, err
	}

	ident := identifierUnderPosition(g, bestHandle, pos)

	ancestry, err := g.Ancestry(bestID)
	if err != nil {
		return nil, err
	}

	return &ActiveNode{
		Position:                     pos,
		Ancestry:                     ancestry,
		MaybeIdentifierUnderPosition: ident,
	}, nil
}

func identifierUnderPosition(g *graph.Graph, h qlast.NodeHandle, pos token.Position) *IdentifierUnderPosition {
	if !h.IsAst() {
		return nil
	}
	n := h.AstNode
	switch n.Kind {
	case qlast.KindIdentifier, qlast.KindGeneralizedIdentifier:
		if token.IsInTokenRange(pos, n.Range, true, true) {
			return &IdentifierUnderPosition{Handle: h, Literal: n.Literal}
		}
	case qlast.KindConstant:
		if n.Literal == "@" {
			parent, ok, _ := g.Parent(n.ID)
			if ok && parent.Kind() == qlast.KindIdentifierExpression && parent.IsAst() {
				return &IdentifierUnderPosition{Handle: parent, Literal: parent.AstNode.Literal}
			}
		}
	}
	return nil
}

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

// Package graph is the node graph adapter (C2): uniform, id-indexed
// access to a node whether it is fully parsed or still in progress. It
// never owns a traversal policy itself (that's inspect's job); it only
// answers "what is this id", "who is its parent", and "which child sits
// at attribute index N".
//
// Grounded on internal/lsp/definitions.go's arena discipline: the only
// owning storage is a set of id-keyed maps (astByID, ctxByID,
// parentByID, childIDsByID); every other reference — parent links,
// child links, the leaf index — is an id, never a pointer, which is
// exactly how definitions.go's scope/navigableScope graph is built.
package graph

import (
	"log/slog"
	"sort"

	"github.com/kr/pretty"

	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/internal/engineerr"
	"github.com/cuelabs/qlinspect/token"
)

// Graph is the owned-externally, borrowed-by-the-core node graph.
// Zero value is not usable; construct with New.
type Graph struct {
	astByID      map[qlast.ID]*qlast.AstNode
	ctxByID      map[qlast.ID]*qlast.CtxNode
	parentByID   map[qlast.ID]qlast.ID
	childIDsByID map[qlast.ID][]qlast.ID
	leafIDs      map[qlast.ID]struct{}

	// sortedLeaves is leafIDs ordered by (start position, id), used by
	// the ActiveNode resolver (C3) to find "closest leaf at or before a
	// position" in O(log n). Grounded on
	// internal/lsp/rangeset.RangeSet.Contains's use of sort.Search over
	// a sorted slice.
	sortedLeaves []qlast.ID

	// paramInfo carries the grammar-level attributes (nullable,
	// optional, primitive type ascription) of Parameter nodes; see
	// parameter.go.
	paramInfo map[qlast.ID]ParameterInfo

	Logger *slog.Logger
}

// New builds an empty Graph. Callers populate it via a Builder (see
// builder.go) before handing it to the inspect package.
func New() *Graph {
	return &Graph{
		astByID:      make(map[qlast.ID]*qlast.AstNode),
		ctxByID:      make(map[qlast.ID]*qlast.CtxNode),
		parentByID:   make(map[qlast.ID]qlast.ID),
		childIDsByID: make(map[qlast.ID][]qlast.ID),
		leafIDs:      make(map[qlast.ID]struct{}),
	}
}

func (g *Graph) invariant(component string, id qlast.ID, format string, args ...interface{}) error {
	return engineerr.NewInvariantViolated(g.Logger, component, uint64(id), format, args...)
}

// XorNode looks up id as either an Ast or Context node.
func (g *Graph) XorNode(id qlast.ID) (qlast.NodeHandle, error) {
	if n, ok := g.astByID[id]; ok {
		return qlast.FromAst(n), nil
	}
	if n, ok := g.ctxByID[id]; ok {
		return qlast.FromContext(n), nil
	}
	return qlast.NodeHandle{}, g.invariant("graph.XorNode", id, "unknown node id %d", id)
}

// Parent returns the parent of id, or (zero, false, nil) if id is a
// root.
func (g *Graph) Parent(id qlast.ID) (qlast.NodeHandle, bool, error) {
	parentID, ok := g.parentByID[id]
	if !ok {
		return qlast.NodeHandle{}, false, nil
	}
	h, err := g.XorNode(parentID)
	if err != nil {
		return qlast.NodeHandle{}, false, err
	}
	return h, true, nil
}

// ChildAtAttributeIndex returns parentID's child at the given attribute
// index, filtered by allowedKinds when non-nil. It returns (zero, false,
// nil) when no such child exists (the common case for Context nodes
// whose parse stopped before that slot was filled). It returns an error
// if parentID or the child's id is unknown, or if the child's kind is
// not in a non-nil allowedKinds.
func (g *Graph) ChildAtAttributeIndex(parentID qlast.ID, index int, allowedKinds map[qlast.NodeKind]bool) (qlast.NodeHandle, bool, error) {
	children, ok := g.childIDsByID[parentID]
	if !ok {
		if _, err := g.XorNode(parentID); err != nil {
			return qlast.NodeHandle{}, false, err
		}
		return qlast.NodeHandle{}, false, nil
	}
	if index < 0 || index >= len(children) {
		return qlast.NodeHandle{}, false, nil
	}
	childID := children[index]
	if childID == 0 {
		// Sparse slot: the parser hasn't filled this attribute yet.
		return qlast.NodeHandle{}, false, nil
	}
	h, err := g.XorNode(childID)
	if err != nil {
		return qlast.NodeHandle{}, false, err
	}
	if allowedKinds != nil && !allowedKinds[h.Kind()] {
		return qlast.NodeHandle{}, false, g.invariant("graph.ChildAtAttributeIndex", childID,
			"child kind %s not in allowed set", h.Kind())
	}
	return h, true, nil
}

// Children returns parentID's children in attribute-index order,
// skipping unfilled (sparse) slots.
func (g *Graph) Children(parentID qlast.ID) ([]qlast.NodeHandle, error) {
	ids, ok := g.childIDsByID[parentID]
	if !ok {
		return nil, nil
	}
	out := make([]qlast.NodeHandle, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		h, err := g.XorNode(id)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Ancestry returns [self, parent, ..., root].
func (g *Graph) Ancestry(id qlast.ID) ([]qlast.NodeHandle, error) {
	self, err := g.XorNode(id)
	if err != nil {
		return nil, err
	}
	ancestry := []qlast.NodeHandle{self}
	cur := id
	for {
		parentID, ok := g.parentByID[cur]
		if !ok {
			break
		}
		h, err := g.XorNode(parentID)
		if err != nil {
			return nil, err
		}
		ancestry = append(ancestry, h)
		cur = parentID
	}
	return ancestry, nil
}

// LeftMost repeatedly descends attribute 0 until no further child
// exists, returning the final (leftmost) node.
func (g *Graph) LeftMost(id qlast.ID) (qlast.NodeHandle, error) {
	cur := id
	for {
		child, ok, err := g.ChildAtAttributeIndex(cur, 0, nil)
		if err != nil {
			return qlast.NodeHandle{}, err
		}
		if !ok {
			return g.XorNode(cur)
		}
		cur = child.ID()
	}
}

// InvokeExpressionName looks up the recursive-primary-expression head of
// the invocation (attribute 0) and, if it is a bare identifier
// expression, returns its literal (invoking the result of another call,
// e.g. f(g)(...), yields a non-IdentifierExpression head and so no
// name).
func (g *Graph) InvokeExpressionName(invokeID qlast.ID) (string, bool) {
	head, ok, err := g.ChildAtAttributeIndex(invokeID, 0, nil)
	if err != nil || !ok {
		return "", false
	}
	if head.Kind() != qlast.KindIdentifierExpression || !head.IsAst() {
		return "", false
	}
	return head.AstNode.Literal, true
}

// LeafIDs returns the set of Ast leaves, in no particular order.
func (g *Graph) LeafIDs() []qlast.ID {
	out := make([]qlast.ID, 0, len(g.leafIDs))
	for id := range g.leafIDs {
		out = append(out, id)
	}
	return out
}

// IsEmpty reports whether the graph has no nodes at all.
func (g *Graph) IsEmpty() bool {
	return len(g.astByID) == 0 && len(g.ctxByID) == 0
}

// SortedLeaves returns leaf ids ordered by (start position, id),
// building the index lazily on first use.
func (g *Graph) SortedLeaves() []qlast.ID {
	if g.sortedLeaves == nil && len(g.leafIDs) > 0 {
		leaves := make([]qlast.ID, 0, len(g.leafIDs))
		for id := range g.leafIDs {
			leaves = append(leaves, id)
		}
		sort.Slice(leaves, func(i, j int) bool {
			pi := g.astByID[leaves[i]].Range.Start
			pj := g.astByID[leaves[j]].Range.Start
			if pi.Line != pj.Line {
				return pi.Line < pj.Line
			}
			if pi.CodeUnit != pj.CodeUnit {
				return pi.CodeUnit < pj.CodeUnit
			}
			return leaves[i] < leaves[j]
		})
		g.sortedLeaves = leaves
	}
	return g.sortedLeaves
}

// ContextsStartingAtOrBefore returns every Context node whose known
// start position is <= pos, used by the ActiveNode resolver (C3 step
// 2). There are usually few in-progress contexts at any one time, so a
// linear scan (rather than another sorted index) is sufficient.
func (g *Graph) ContextsStartingAtOrBefore(pos token.Position) []qlast.ID {
	var out []qlast.ID
	for id, ctx := range g.ctxByID {
		if ctx.MaybeTokenStart == nil {
			continue
		}
		if token.IsBefore(*ctx.MaybeTokenStart, pos, true) {
			out = append(out, id)
		}
	}
	return out
}

// AstNode exposes the raw Ast node for id when the caller already knows
// the kind it expects (used by the leaf-position comparison in C3).
func (g *Graph) AstNode(id qlast.ID) (*qlast.AstNode, bool) {
	n, ok := g.astByID[id]
	return n, ok
}

// CtxNode exposes the raw Context node for id.
func (g *Graph) CtxNode(id qlast.ID) (*qlast.CtxNode, bool) {
	n, ok := g.ctxByID[id]
	return n, ok
}

// Dump renders id and its subtree as a human-readable, multi-line tree,
// one node per line indented by depth. It is a debug helper only,
// mirroring definitions.go's (*scope).dump: engine code never parses
// its own output, and callers should treat the exact formatting as
// unstable.
func (g *Graph) Dump(id qlast.ID) string {
	h, err := g.XorNode(id)
	if err != nil {
		return pretty.Sprintf("<dump error: %# v>", err)
	}
	var out []byte
	g.dumpNode(h, 0, &out)
	return string(out)
}

func (g *Graph) dumpNode(h qlast.NodeHandle, depth int, out *[]byte) {
	for i := 0; i < depth; i++ {
		*out = append(*out, ' ', ' ')
	}
	if h.IsAst() {
		*out = append(*out, pretty.Sprintf("#%d %s %v literal=%q\n",
			h.ID(), h.Kind(), h.AstNode.Range, h.AstNode.Literal)...)
	} else {
		*out = append(*out, pretty.Sprintf("#%d %s (context, attrs filled=%d)\n",
			h.ID(), h.Kind(), h.CtxNode.AttributeCounter)...)
	}
	children, err := g.Children(h.ID())
	if err != nil {
		return
	}
	for _, c := range children {
		g.dumpNode(c, depth+1, out)
	}
}

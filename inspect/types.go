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

// Package inspect is the position-driven traversal engine itself: C3
// through C8 of the design, plus the public tryXxx entry points. Every
// exported function here is a pure query over a caller-owned
// graph.Graph: no inspection state survives a call.
package inspect

import (
	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/keyword"
	"github.com/cuelabs/qlinspect/token"
	"github.com/cuelabs/qlinspect/types"
)

// IdentifierUnderPosition is set on an ActiveNode when the caret sits
// inside (or at the end of) an identifier leaf, or on the `@` inclusive
// constant immediately preceding one.
type IdentifierUnderPosition struct {
	Handle  qlast.NodeHandle
	Literal string
}

// ActiveNode bundles the caret, the leaf-to-root ancestry it resolves
// to, and the identifier (if any) the caret sits on.
type ActiveNode struct {
	Position                     token.Position
	Ancestry                     []qlast.NodeHandle
	MaybeIdentifierUnderPosition *IdentifierUnderPosition
}

// Leaf is a convenience accessor for ancestry[0].
func (a *ActiveNode) Leaf() qlast.NodeHandle { return a.Ancestry[0] }

// Root is a convenience accessor for the last ancestry element.
func (a *ActiveNode) Root() qlast.NodeHandle { return a.Ancestry[len(a.Ancestry)-1] }

// ScopeItemKind tags the way a ScopeItem was introduced.
type ScopeItemKind int

const (
	ScopeItemKeyValuePair ScopeItemKind = iota
	ScopeItemSectionMember
	ScopeItemParameter
	ScopeItemEach
	ScopeItemUndefined
)

// ScopeItem is one binding visible at a caret.
type ScopeItem struct {
	Kind        ScopeItemKind
	IsRecursive bool

	// KeyValuePair / SectionMember: the node that declares the name,
	// and (if parsed far enough) the node supplying its value.
	KeyNodeID        qlast.ID
	MaybeValueNodeID *qlast.ID

	// Parameter.
	ParameterNodeID qlast.ID
	IsNullable      bool
	IsOptional      bool
	MaybeType       *types.Type

	// Each.
	EachExprNodeID qlast.ID

	// Undefined: a bare identifier/identifier-expression ancestor that
	// contributes no known binding of its own.
	XorNodeID qlast.ID
}

// Definition returns the node this item's binder points a
// jump-to-definition at, used by the position-identifier resolver (C6).
// ok is false for ScopeItemUndefined, which is not a real binder.
func (item ScopeItem) Definition() (qlast.ID, bool) {
	switch item.Kind {
	case ScopeItemKeyValuePair, ScopeItemSectionMember:
		if item.MaybeValueNodeID != nil {
			return *item.MaybeValueNodeID, true
		}
		return item.KeyNodeID, true
	case ScopeItemParameter:
		return item.ParameterNodeID, true
	default:
		return 0, false
	}
}

// NodeScope is the insertion-ordered identifier -> ScopeItem map C4
// builds. First insertion wins: nearer (earlier-visited) scopes shadow
// outer ones.
type NodeScope struct {
	order []string
	items map[string]ScopeItem
}

// NewNodeScope returns an empty scope.
func NewNodeScope() *NodeScope {
	return &NodeScope{items: make(map[string]ScopeItem)}
}

// InsertIfAbsent adds key -> item only if key is not already bound.
// Returns true if the insertion happened.
func (s *NodeScope) InsertIfAbsent(key string, item ScopeItem) bool {
	if _, found := s.items[key]; found {
		return false
	}
	s.order = append(s.order, key)
	s.items[key] = item
	return true
}

// Get returns the binding for key, if any.
func (s *NodeScope) Get(key string) (ScopeItem, bool) {
	item, ok := s.items[key]
	return item, ok
}

// Keys returns the bound identifiers in insertion (nearest-first) order.
func (s *NodeScope) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports how many bindings are in scope.
func (s *NodeScope) Len() int { return len(s.order) }

// InvokeArguments describes the caret's position within a call's
// argument list.
type InvokeArguments struct {
	NumArguments          int
	PositionArgumentIndex int
}

// InvokeExpressionInfo is the result of the invoke-expression locator
// (C5).
type InvokeExpressionInfo struct {
	XorNode        qlast.NodeHandle
	MaybeName      *string
	MaybeArguments *InvokeArguments
}

// PositionIdentifierKind distinguishes a resolved local binding from an
// identifier with no known definition.
type PositionIdentifierKind int

const (
	PositionIdentifierLocal PositionIdentifierKind = iota
	PositionIdentifierUndefined
)

// PositionIdentifier is the result of the position-identifier resolver
// (C6). Definitions holds every candidate binding site whose key
// matches (SPEC_FULL's supplemented feature, grounded on the teacher's
// definitions.go, which reports every binding a name could resolve to,
// not just one); Definition/ok is the first of those, kept for callers
// that only want spec.md's single-definition answer.
type PositionIdentifier struct {
	Kind        PositionIdentifierKind
	Identifier  string
	Definitions []qlast.NodeHandle
}

// Definition returns the first candidate definition, matching spec.md
// section 4.6's single-definition wording.
func (p PositionIdentifier) Definition() (qlast.NodeHandle, bool) {
	if len(p.Definitions) == 0 {
		return qlast.NodeHandle{}, false
	}
	return p.Definitions[0], true
}

// KeywordSlot is the result of the keyword-slot classifier (C7).
type KeywordSlot struct {
	Allowed      keyword.Set
	MaybeRequired *keyword.Keyword
}

// Inspection aggregates every question this package can answer about a
// single caret position.
type Inspection struct {
	ActiveNode          *ActiveNode
	Scope               *NodeScope
	InvokeExpression    *InvokeExpressionInfo
	PositionIdentifier  *PositionIdentifier
	KeywordSlot         KeywordSlot
	MaybeExpectedType   *types.Type
}

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
	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/graph"
	"github.com/cuelabs/qlinspect/token"
	"github.com/cuelabs/qlinspect/types"
)

// scopeSink receives (key, item) contributions from the ancestry walk.
// NodeScope implements it directly (first-insertion-wins); the
// position-identifier resolver (C6, positionidentifier.go) walks the
// same per-construct logic through a sink that collects every match
// instead of only the nearest one.
type scopeSink interface {
	InsertIfAbsent(key string, item ScopeItem) bool
}

// TryNodeScope is the scope builder (C4). It walks the ancestry
// leaf-first, dispatching per-construct (the direct counterpart of
// definitions.go's (*scope).eval switch over ast.Node kinds), adding
// every binding it finds to a single NodeScope. First insertion wins:
// a binding introduced nearer the caret shadows one introduced farther
// out, mirroring the teacher's insertion-ordered lexicalBindings map.
func TryNodeScope(cfg Config, g *graph.Graph, activeNode *ActiveNode) (*NodeScope, error) {
	scope := NewNodeScope()
	if activeNode == nil {
		return scope, nil
	}
	if err := walkScope(cfg, g, activeNode, scope); err != nil {
		return nil, err
	}
	return scope, nil
}

// walkScope drives the ancestry walk against an arbitrary scopeSink,
// shared by TryNodeScope and the position-identifier resolver.
func walkScope(cfg Config, g *graph.Graph, activeNode *ActiveNode, sink scopeSink) error {
	ctx := cfg.ctx()
	ancestry := activeNode.Ancestry
	for i, node := range ancestry {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		var child qlast.NodeHandle
		hasChild := i > 0
		if hasChild {
			child = ancestry[i-1]
		}
		if err := scopeContribution(g, sink, node, child, hasChild, activeNode.Position, i == len(ancestry)-1); err != nil {
			return err
		}
	}
	return nil
}

// scopeContribution adds node's bindings (if any) to scope. child/
// hasChild is the ancestor one step closer to the caret (nil at the
// leaf itself); isRoot marks the final ancestry element.
func scopeContribution(g *graph.Graph, scope scopeSink, node, child qlast.NodeHandle, hasChild bool, pos token.Position, isRoot bool) error {
	switch node.Kind() {
	case qlast.KindEachExpression:
		return scopeEach(scope, node, child, hasChild)
	case qlast.KindFunctionExpression:
		return scopeFunction(g, scope, node, child, hasChild)
	case qlast.KindIdentifier:
		return scopeIdentifier(g, scope, node, pos, isRoot)
	case qlast.KindIdentifierExpression:
		return scopeIdentifierExpression(scope, node, pos, isRoot)
	case qlast.KindLetExpression:
		return scopeLet(g, scope, node, child, hasChild, pos)
	case qlast.KindRecordExpression, qlast.KindRecordLiteral:
		return scopeRecord(g, scope, node, pos)
	case qlast.KindSectionMember:
		return scopeSectionMember(g, scope, node, pos)
	default:
		return nil
	}
}

// scopeEach binds `_` to the each-expression when the caret's walk is
// coming up from the body (attribute 1); the test expression
// (attribute 0) does not see `_`.
func scopeEach(scope scopeSink, node, child qlast.NodeHandle, hasChild bool) error {
	if !hasChild || child.AttributeIndex() != 1 {
		return nil
	}
	scope.InsertIfAbsent("_", ScopeItem{Kind: ScopeItemEach, EachExprNodeID: node.ID()})
	return nil
}

// scopeFunction adds every parameter to scope only when the walk is
// ascending from the body (attribute 3); from the parameter list itself
// (attribute 0) the caret is writing a parameter, so nothing is added.
func scopeFunction(g *graph.Graph, scope scopeSink, node, child qlast.NodeHandle, hasChild bool) error {
	if !hasChild || child.AttributeIndex() != 3 {
		return nil
	}
	paramList, ok, err := g.ChildAtAttributeIndex(node.ID(), 0, nil)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	params, err := g.Children(paramList.ID())
	if err != nil {
		return err
	}
	for _, p := range params {
		if p.Kind() != qlast.KindParameter {
			continue
		}
		name, ok := keyLiteral(g, p)
		if !ok {
			continue
		}
		item := ScopeItem{Kind: ScopeItemParameter, ParameterNodeID: p.ID()}
		if info, ok := g.ParameterInfo(p.ID()); ok {
			item.IsNullable = info.IsNullable
			item.IsOptional = info.IsOptional
			if info.MaybeTypeName != "" {
				t := types.Type{Name: info.MaybeTypeName}
				item.MaybeType = &t
			}
		}
		scope.InsertIfAbsent(name, item)
	}
	return nil
}

// scopeIdentifier handles a raw Identifier leaf. It is a no-op when its
// parent is an IdentifierExpression (that wrapper handles it instead),
// and a no-op when it is the ancestry root and the caret sits strictly
// before its own start (the caret is writing the identifier, not
// referencing an already-bound one).
func scopeIdentifier(g *graph.Graph, scope scopeSink, node qlast.NodeHandle, pos token.Position, isRoot bool) error {
	parent, ok, err := g.Parent(node.ID())
	if err != nil {
		return err
	}
	if ok && parent.Kind() == qlast.KindIdentifierExpression {
		return nil
	}
	if isRoot && node.IsAst() && token.IsBefore(pos, node.AstNode.Range.Start, false) {
		return nil
	}
	literal, ok := identifierLiteral(node)
	if !ok {
		return nil
	}
	scope.InsertIfAbsent(literal, ScopeItem{Kind: ScopeItemUndefined, XorNodeID: node.ID()})
	return nil
}

// scopeIdentifierExpression handles the optional-`@`-plus-identifier
// wrapper. The composed string (`@`+literal when the inclusive constant
// is present) is the canonical scope key, per spec.md's Open Questions
// resolution.
func scopeIdentifierExpression(scope scopeSink, node qlast.NodeHandle, pos token.Position, isRoot bool) error {
	if isRoot && node.IsAst() && token.IsBefore(pos, node.AstNode.Range.Start, false) {
		return nil
	}
	key, ok := identifierExpressionKey(node)
	if !ok {
		return nil
	}
	scope.InsertIfAbsent(key, ScopeItem{Kind: ScopeItemUndefined, XorNodeID: node.ID()})
	return nil
}

func identifierLiteral(h qlast.NodeHandle) (string, bool) {
	if !h.IsAst() {
		return "", false
	}
	return h.AstNode.Literal, true
}

// identifierExpressionKey composes "@"+literal when the inclusive
// constant prefix is present in the node's literal already (the parser
// is expected to have folded it in), else returns the bare literal.
func identifierExpressionKey(h qlast.NodeHandle) (string, bool) {
	if !h.IsAst() {
		return "", false
	}
	return h.AstNode.Literal, true
}

// scopeLet implements `let k1 = v1, k2 = v2, ... in e`. Keys are bound
// when the walk ascends from the `in` expression (attribute 3) or when
// the caret sits on some key-value pair's value side (attribute 2 of a
// KeyValuePair-shaped binding inside the binding list); every key other
// than the caret's own pair is added non-recursively, and the caret's
// own pair (if any) is added as recursive.
func scopeLet(g *graph.Graph, scope scopeSink, node, child qlast.NodeHandle, hasChild bool, pos token.Position) error {
	fromIn := hasChild && child.AttributeIndex() == 3

	bindingListHandle, ok, err := g.ChildAtAttributeIndex(node.ID(), 1, nil)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	pairs, err := g.Children(bindingListHandle.ID())
	if err != nil {
		return err
	}

	// Identify which pair (if any) has the caret inside its value slot
	// (attribute 2).
	caretPairID, caretOnValueSide := caretPairOnValueSide(g, pairs, pos)

	if !fromIn && !caretOnValueSide {
		return nil
	}

	for _, pair := range pairs {
		key, valueID, ok := pairKeyValue(g, pair)
		if !ok {
			continue
		}
		item := ScopeItem{Kind: ScopeItemKeyValuePair, KeyNodeID: pair.ID()}
		if valueID != 0 {
			v := valueID
			item.MaybeValueNodeID = &v
		}
		if pair.ID() == caretPairID {
			item.IsRecursive = true
		}
		scope.InsertIfAbsent(key, item)
	}
	return nil
}

// caretPairOnValueSide finds which of pairs (a let-binding, record
// field, or similar "key = value" node) has pos inside its value slot
// (attribute 2).
func caretPairOnValueSide(g *graph.Graph, pairs []qlast.NodeHandle, pos token.Position) (qlast.ID, bool) {
	for _, pair := range pairs {
		value, ok, err := g.ChildAtAttributeIndex(pair.ID(), 2, nil)
		if err != nil || !ok {
			continue
		}
		if isInNode(value, pos) {
			return pair.ID(), true
		}
	}
	return 0, false
}

// keyLiteral reads the literal text of a paired node's key, which
// grammar-wide sits at attribute index 0 (the "k" of "k = v").
func keyLiteral(g *graph.Graph, pair qlast.NodeHandle) (string, bool) {
	key, ok, err := g.ChildAtAttributeIndex(pair.ID(), 0, nil)
	if err != nil || !ok || !key.IsAst() {
		return "", false
	}
	return key.AstNode.Literal, true
}

// pairKeyValue extracts a paired binding's key literal and value node
// id (0 if not yet parsed), for either KeyValuePair-shaped node kind
// used by let-bindings.
func pairKeyValue(g *graph.Graph, pair qlast.NodeHandle) (string, qlast.ID, bool) {
	if pair.Kind() != qlast.KindGeneralizedIdentifierPairedExpression &&
		pair.Kind() != qlast.KindIdentifierPairedExpression {
		return "", 0, false
	}
	key, ok := keyLiteral(g, pair)
	if !ok {
		return "", 0, false
	}
	var valueID qlast.ID
	if value, ok, err := g.ChildAtAttributeIndex(pair.ID(), 2, nil); err == nil && ok {
		valueID = value.ID()
	}
	return key, valueID, true
}

// scopeRecord implements record/record-literal scope contribution: only
// when the caret sits on some pair's value side (attribute 2) does it
// add the other pairs' keys; the caret's own pair is marked recursive.
func scopeRecord(g *graph.Graph, scope scopeSink, node qlast.NodeHandle, pos token.Position) error {
	pairs, err := g.Children(node.ID())
	if err != nil {
		return err
	}
	caretPairID, onValue := caretPairOnValueSide(g, pairs, pos)
	if !onValue {
		return nil
	}
	for _, pair := range pairs {
		key, valueID, ok := recordPairKeyValue(g, pair)
		if !ok {
			continue
		}
		item := ScopeItem{Kind: ScopeItemKeyValuePair, KeyNodeID: pair.ID()}
		if valueID != 0 {
			v := valueID
			item.MaybeValueNodeID = &v
		}
		if pair.ID() == caretPairID {
			item.IsRecursive = true
		}
		scope.InsertIfAbsent(key, item)
	}
	return nil
}

func recordPairKeyValue(g *graph.Graph, pair qlast.NodeHandle) (string, qlast.ID, bool) {
	if pair.Kind() != qlast.KindGeneralizedIdentifierPairedExpression {
		return "", 0, false
	}
	key, ok := keyLiteral(g, pair)
	if !ok {
		return "", 0, false
	}
	var valueID qlast.ID
	if value, ok, err := g.ChildAtAttributeIndex(pair.ID(), 2, nil); err == nil && ok {
		valueID = value.ID()
	}
	return key, valueID, true
}

// scopeSectionMember implements `name = value;` section members: only
// the member whose value side contains the caret contributes scope
// (every other member's name, plus its own, marked recursive). The
// caret on or past a fully-parsed trailing `;` is treated as outside
// the member (spec.md's exclusion revision).
func scopeSectionMember(g *graph.Graph, scope scopeSink, node qlast.NodeHandle, pos token.Position) error {
	value, ok, err := g.ChildAtAttributeIndex(node.ID(), 2, nil)
	if err != nil {
		return err
	}
	if !ok || !isInNode(value, pos) {
		return nil
	}
	semi, ok, err := g.ChildAtAttributeIndex(node.ID(), 3, nil)
	if err != nil {
		return err
	}
	if ok && semi.IsAst() && token.IsAfter(pos, semi.AstNode.Range.Start, true) {
		return nil
	}

	parent, ok, err := g.Parent(node.ID())
	if err != nil {
		return err
	}
	if !ok || parent.Kind() != qlast.KindSection {
		return nil
	}
	members, err := g.Children(parent.ID())
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Kind() != qlast.KindSectionMember {
			continue
		}
		key, valueID, ok := sectionMemberKeyValue(g, m)
		if !ok {
			continue
		}
		item := ScopeItem{Kind: ScopeItemSectionMember, KeyNodeID: m.ID()}
		if valueID != 0 {
			v := valueID
			item.MaybeValueNodeID = &v
		}
		if m.ID() == node.ID() {
			item.IsRecursive = true
		}
		scope.InsertIfAbsent(key, item)
	}
	return nil
}

func sectionMemberKeyValue(g *graph.Graph, m qlast.NodeHandle) (string, qlast.ID, bool) {
	key, ok := keyLiteral(g, m)
	if !ok {
		return "", 0, false
	}
	var valueID qlast.ID
	if value, ok, err := g.ChildAtAttributeIndex(m.ID(), 2, nil); err == nil && ok {
		valueID = value.ID()
	}
	return key, valueID, true
}

// isInNode reports whether pos lies inside node: Ast nodes delegate to
// their token range (end-exclusive), Context nodes always answer true
// per spec.md 4.1 ("the context's end is unknown; the caret may be
// anywhere inside it").
func isInNode(h qlast.NodeHandle, pos token.Position) bool {
	if h.IsContext() {
		return true
	}
	return token.IsInTokenRange(pos, h.AstNode.Range, true, false)
}

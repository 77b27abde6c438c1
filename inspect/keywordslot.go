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
	"github.com/cuelabs/qlinspect/keyword"
	"github.com/cuelabs/qlinspect/token"
)

// TryAutocompleteKeywords is the keyword-slot classifier (C7).
// maybeParseError is accepted for parity with the external interface
// (section 6) but is not consulted: a hybrid Ast/Context tree already
// tells the classifier everything it needs (an in-progress Context node
// IS the evidence that a parse failed at that point), so no extra
// signal comes from the error value itself.
//
// It walks the ancestry from the caret outward; the first ancestor
// whose (kind, attributeCounter) matches one of the grammar shapes in
// spec.md 4.7 supplies the answer, whether that answer is a required
// keyword or a plain allowed set. An ancestor that has no rule for its
// current attributeCounter (the "inherit current" rows of the table)
// contributes nothing, and the walk continues outward. No match at all
// falls back to the whole-document default: any expression-starter is
// allowed.
func TryAutocompleteKeywords(cfg Config, g *graph.Graph, activeNode *ActiveNode, maybeParseError error) (KeywordSlot, error) {
	_ = maybeParseError
	if activeNode == nil {
		return defaultKeywordSlot(), nil
	}
	ctx := cfg.ctx()
	for i := range activeNode.Ancestry {
		if err := checkCancelled(ctx); err != nil {
			return KeywordSlot{}, err
		}
		slot, matched, err := classifyConstruct(g, activeNode.Ancestry, i, activeNode.Position)
		if err != nil {
			return KeywordSlot{}, err
		}
		if matched {
			return slot, nil
		}
	}
	return defaultKeywordSlot(), nil
}

func defaultKeywordSlot() KeywordSlot {
	return KeywordSlot{Allowed: keyword.ExpressionStarters.Clone()}
}

func requiredSlot(k keyword.Keyword) KeywordSlot {
	kw := k
	return KeywordSlot{Allowed: keyword.NewSet(k), MaybeRequired: &kw}
}

func allowedSlot(s keyword.Set) KeywordSlot {
	return KeywordSlot{Allowed: s}
}

// classifyConstruct dispatches ancestry[idx] to its grammar-shape rule.
// matched is false when this node contributes no answer of its own
// (either it isn't a Context node, its kind has no rule, or its current
// attributeCounter is one of the "inherit current" slots) — the caller
// continues the walk outward in that case.
func classifyConstruct(g *graph.Graph, ancestry []qlast.NodeHandle, idx int, pos token.Position) (KeywordSlot, bool, error) {
	node := ancestry[idx]

	// Wrapped-array reasoning applies to both ArrayWrapper and Csv
	// ancestors and needs sibling/child lookups regardless of tag, so it
	// is dispatched before the Context-only gate below.
	if node.Kind() == qlast.KindArrayWrapper || node.Kind() == qlast.KindCsv {
		return classifyWrappedArray(g, node)
	}

	if !node.IsContext() {
		return KeywordSlot{}, false, nil
	}
	counter := node.CtxNode.AttributeCounter

	switch node.Kind() {
	case qlast.KindTryExpression:
		switch counter {
		case 0, 1:
			return requiredSlot(keyword.KeywordTry), true, nil
		case 2:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
	case qlast.KindErrorExpression:
		switch counter {
		case 0, 1:
			return requiredSlot(keyword.KeywordError), true, nil
		case 2:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
	case qlast.KindIfExpression:
		switch counter {
		case 0:
			return requiredSlot(keyword.KeywordIf), true, nil
		case 1, 3, 5:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		case 2:
			return requiredSlot(keyword.KeywordThen), true, nil
		case 4:
			return requiredSlot(keyword.KeywordElse), true, nil
		}
	case qlast.KindOtherwiseExpression:
		switch counter {
		case 0, 1:
			return requiredSlot(keyword.KeywordOtherwise), true, nil
		case 2:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
	case qlast.KindParenthesizedExpression:
		switch counter {
		case 0, 1, 3:
			return allowedSlot(keyword.Empty()), true, nil
		case 2:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
	case qlast.KindRangeExpression:
		switch counter {
		case 0, 1, 3:
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		case 2:
			return allowedSlot(keyword.Empty()), true, nil
		}
	case qlast.KindSectionMember:
		if counter == 2 {
			return allowedSlot(keyword.ExpressionStarters.Clone().Add(keyword.KeywordShared)), true, nil
		}
	}
	return KeywordSlot{}, false, nil
}

// classifyWrappedArray implements spec.md 4.7's wrapped-array table
// row: the caret is at an open wrapper or the start of a brand-new
// (empty) Csv, inside an existing Csv's value with more arguments still
// to come (trailing comma or a following sibling), or at the tail end
// of the last argument with nothing legally allowed to follow.
func classifyWrappedArray(g *graph.Graph, node qlast.NodeHandle) (KeywordSlot, bool, error) {
	switch node.Kind() {
	case qlast.KindArrayWrapper:
		if node.IsContext() && node.CtxNode.AttributeCounter == 0 {
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
		return KeywordSlot{}, false, nil

	case qlast.KindCsv:
		if node.IsContext() {
			if node.CtxNode.AttributeCounter == 0 {
				return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
			}
			return KeywordSlot{}, false, nil
		}

		comma, hasComma, err := g.ChildAtAttributeIndex(node.ID(), 1, nil)
		if err != nil {
			return KeywordSlot{}, false, err
		}
		if hasComma && comma.IsAst() {
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}

		hasNextSibling, err := csvHasNextSibling(g, node)
		if err != nil {
			return KeywordSlot{}, false, err
		}
		if hasNextSibling {
			return allowedSlot(keyword.ExpressionStarters.Clone()), true, nil
		}
		return allowedSlot(keyword.Empty()), true, nil
	}
	return KeywordSlot{}, false, nil
}

// csvHasNextSibling reports whether csv has a later sibling Csv under
// its ArrayWrapper parent.
func csvHasNextSibling(g *graph.Graph, csv qlast.NodeHandle) (bool, error) {
	parent, ok, err := g.Parent(csv.ID())
	if err != nil || !ok {
		return false, err
	}
	siblings, err := g.Children(parent.ID())
	if err != nil {
		return false, err
	}
	for i, s := range siblings {
		if s.ID() == csv.ID() {
			return i+1 < len(siblings), nil
		}
	}
	return false, nil
}

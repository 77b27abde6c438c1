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
	"strings"

	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/graph"
	"github.com/cuelabs/qlinspect/token"
)

// TryInvokeExpression is the invoke-expression locator (C5). The
// deepest (closest to the caret) InvokeExpression ancestor wins; once
// one is accepted, outer invocations are never considered. Grounded on
// definitions.go's *ast.CallExpr case treating a call's arguments as a
// distinguished, indexable list.
func TryInvokeExpression(cfg Config, g *graph.Graph, activeNode *ActiveNode) (*InvokeExpressionInfo, error) {
	if activeNode == nil {
		return nil, nil
	}
	ctx := cfg.ctx()

	for i, node := range activeNode.Ancestry {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		if node.Kind() != qlast.KindInvokeExpression {
			continue
		}
		if node.IsAst() && token.IsOn(activeNode.Position, node.AstNode.Range.End) {
			// Caret sits on the closing ')': outside this call. Keep
			// walking outward in case an enclosing call still contains
			// the caret.
			continue
		}
		return buildInvokeInfo(g, node, activeNode.Ancestry, i, activeNode.Position)
	}
	return nil, nil
}

func buildInvokeInfo(g *graph.Graph, invoke qlast.NodeHandle, ancestry []qlast.NodeHandle, invokeIdx int, pos token.Position) (*InvokeExpressionInfo, error) {
	info := &InvokeExpressionInfo{XorNode: invoke}

	if name, ok := g.InvokeExpressionName(invoke.ID()); ok {
		name = strings.TrimPrefix(name, "@")
		info.MaybeName = &name
	}

	arrayWrapper, ok, err := g.ChildAtAttributeIndex(invoke.ID(), 1, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return info, nil
	}

	csvs, err := g.Children(arrayWrapper.ID())
	if err != nil {
		return nil, err
	}

	argIdx, err := argumentIndexForCaret(g, ancestry, invokeIdx, pos)
	if err != nil {
		return nil, err
	}

	info.MaybeArguments = &InvokeArguments{
		NumArguments:          len(csvs),
		PositionArgumentIndex: argIdx,
	}
	return info, nil
}

// argumentIndexForCaret implements spec.md 4.5's index rule: the
// nearest Csv ancestor between the caret and the invoke (exclusive)
// supplies its own attribute index; a caret sitting exactly on that
// Csv's trailing comma bumps the index by one (the caret belongs to
// the next, not-yet-written argument). No Csv ancestor at all means the
// caret is inside the open paren before any argument: index 0.
func argumentIndexForCaret(g *graph.Graph, ancestry []qlast.NodeHandle, invokeIdx int, pos token.Position) (int, error) {
	for i := 0; i < invokeIdx; i++ {
		csv := ancestry[i]
		if csv.Kind() != qlast.KindCsv {
			continue
		}
		idx := csv.AttributeIndex()
		if idx < 0 {
			idx = 0
		}
		comma, ok, err := g.ChildAtAttributeIndex(csv.ID(), 1, nil)
		if err != nil {
			return 0, err
		}
		if ok && comma.IsAst() && token.IsOn(pos, comma.AstNode.Range.End) {
			return idx + 1, nil
		}
		return idx, nil
	}
	return 0, nil
}

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
)

// TryPositionIdentifier is the position-identifier resolver (C6). When
// the caret sits on an identifier, it finds every binding site in the
// caret's scope whose key matches that identifier's literal.
//
// Grounded on definitions.go's central thesis: "there can be several
// nodes that define a binding... you should see both x1 and x3 as
// targets", which this repo mirrors by collecting every matching
// binding site (PositionIdentifier.Definitions), not only the first,
// per SPEC_FULL's supplemented-feature note; Definition() still exposes
// a single answer for callers following spec.md's original wording.
func TryPositionIdentifier(cfg Config, g *graph.Graph, activeNode *ActiveNode, scope *NodeScope) (*PositionIdentifier, error) {
	if activeNode == nil || activeNode.MaybeIdentifierUnderPosition == nil {
		return nil, nil
	}
	literal := activeNode.MaybeIdentifierUnderPosition.Literal

	collector := &definitionCollector{graph: g, target: literal}
	if err := walkScope(cfg, g, activeNode, collector); err != nil {
		return nil, err
	}

	if len(collector.definitions) == 0 {
		return &PositionIdentifier{
			Kind:       PositionIdentifierUndefined,
			Identifier: literal,
		}, nil
	}
	return &PositionIdentifier{
		Kind:        PositionIdentifierLocal,
		Identifier:  literal,
		Definitions: collector.definitions,
	}, nil
}

// definitionCollector is a scopeSink that records every contribution
// whose key matches target, instead of the first-insertion-wins
// behaviour NodeScope provides.
type definitionCollector struct {
	graph       *graph.Graph
	target      string
	definitions []qlast.NodeHandle
}

func (c *definitionCollector) InsertIfAbsent(key string, item ScopeItem) bool {
	if key != c.target {
		return true
	}
	if defID, ok := item.Definition(); ok {
		if h, err := c.graph.XorNode(defID); err == nil {
			c.definitions = append(c.definitions, h)
		}
	}
	return true
}

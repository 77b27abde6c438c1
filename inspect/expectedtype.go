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
	"github.com/cuelabs/qlinspect/graph"
	"github.com/cuelabs/qlinspect/types"
)

// TryExpectedType is the expected-type bridge (C8). It walks from the
// caret's leaf outward only while the current node is the sole child of
// its parent, asking typeOracle at every step, and keeps the last
// non-NotApplicable answer: when several levels answer, the outermost
// one reached by the walk wins, and a NotApplicable answer further out
// leaves the previous answer standing.
//
// Unlike CUE's own structural-unification type inference (which this
// module does not implement; spec.md section 1 places the full type
// system out of scope), this is a short, self-contained walk directly
// off spec.md 4.8 — the oracle is the caller's sole connection to
// whatever real type system backs the language.
func TryExpectedType(cfg Config, g *graph.Graph, activeNode *ActiveNode, typeOracle types.Oracle) (*types.Type, error) {
	if activeNode == nil || typeOracle == nil {
		return nil, nil
	}
	ctx := cfg.ctx()

	var best *types.Type
	ancestry := activeNode.Ancestry
	for i := 0; i+1 < len(ancestry); i++ {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		child := ancestry[i]
		parent := ancestry[i+1]

		siblings, err := g.Children(parent.ID())
		if err != nil {
			return nil, err
		}
		if len(siblings) != 1 {
			break
		}

		attrIdx := child.AttributeIndex()
		if attrIdx < 0 {
			break
		}

		answer := typeOracle(parent.Kind(), attrIdx)
		if answer.IsApplicable() {
			a := answer
			best = &a
		}
	}
	return best, nil
}

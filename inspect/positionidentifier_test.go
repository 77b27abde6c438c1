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
	"testing"

	"github.com/go-quicktest/qt"

	qlast "github.com/cuelabs/qlinspect/ast"
	"github.com/cuelabs/qlinspect/graph"
)

func TestPositionIdentifierNilWhenCaretNotOnIdentifier(t *testing.T) {
	b := graph.NewBuilder()
	_, _, eqID := buildSectionUnused(b)
	_ = eqID
	g := b.Build()

	an, err := TryActiveNode(Config{}, g, p(3))
	qt.Assert(t, qt.IsNil(err))

	scope, err := TryNodeScope(Config{}, g, an)
	qt.Assert(t, qt.IsNil(err))

	pi, err := TryPositionIdentifier(Config{}, g, an, scope)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(pi), qt.Commentf("caret on \"=\" is not on any identifier"))
}

// Caret on a reference identifier whose name has no binding in scope:
// Undefined, with no Definitions.
func TestPositionIdentifierUndefined(t *testing.T) {
	b := graph.NewBuilder()
	_, bodyID, _, _ := buildLet(b)
	g := b.Build()

	an, err := TryActiveNode(Config{}, g, p(26))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(an.Leaf().ID(), bodyID))

	scope, err := TryNodeScope(Config{}, g, an)
	qt.Assert(t, qt.IsNil(err))

	pi, err := TryPositionIdentifier(Config{}, g, an, scope)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNotNil(pi))
	qt.Assert(t, qt.Equals(pi.Kind, PositionIdentifierUndefined))
	qt.Assert(t, qt.Equals(pi.Identifier, "body"))
	qt.Assert(t, qt.HasLen(pi.Definitions, 0))
}

// "m1 = v1; m2 = m1;" caret on m2's value, a reference to "m1": the
// resolver must walk past its own self-referential Identifier
// contribution (Undefined, no real definition) and still find the
// outer SectionMember binding of "m1", resolving to v1.
func TestPositionIdentifierLocalSingleDefinition(t *testing.T) {
	b := graph.NewBuilder()
	_, v1ID, refID := buildSectionWithReference(b)
	g := b.Build()

	an, err := TryActiveNode(Config{}, g, p(15))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(an.Leaf().ID(), refID))

	scope, err := TryNodeScope(Config{}, g, an)
	qt.Assert(t, qt.IsNil(err))

	pi, err := TryPositionIdentifier(Config{}, g, an, scope)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNotNil(pi))
	qt.Assert(t, qt.Equals(pi.Kind, PositionIdentifierLocal))
	qt.Assert(t, qt.Equals(pi.Identifier, "m1"))
	qt.Assert(t, qt.HasLen(pi.Definitions, 1))
	qt.Assert(t, qt.Equals(pi.Definitions[0].ID(), v1ID))

	def, ok := pi.Definition()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(def.ID(), v1ID))
}

func TestPositionIdentifierNilActiveNode(t *testing.T) {
	pi, err := TryPositionIdentifier(Config{}, graph.New(), nil, NewNodeScope())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(pi))
}

// buildSectionUnused returns a one-member section `m1 = v1;` laid out
// so position 3 (the "=" Constant leaf) is the closest active leaf, for
// the nil-identifier-under-position test above.
func buildSectionUnused(b *graph.Builder) (sectionID, v1ID, eqID qlast.ID) {
	s := &idSeq{}
	sectionID = s.id()
	addComposite(b, sectionID, qlast.KindSection, 0, 9, 0, -1)

	m1ID := s.id()
	addComposite(b, m1ID, qlast.KindSectionMember, 0, 9, sectionID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 0, 2, "m1", m1ID, 0)
	eqID = s.id()
	addLeaf(b, eqID, qlast.KindConstant, 3, 4, "=", m1ID, 1)
	v1ID = s.id()
	addLeaf(b, v1ID, qlast.KindIdentifier, 5, 7, "v1", m1ID, 2)
	addLeaf(b, s.id(), qlast.KindConstant, 7, 8, ";", m1ID, 3)

	return sectionID, v1ID, eqID
}

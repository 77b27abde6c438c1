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

// caretFromSource strips the single `|` caret marker spec.md section 8
// uses in its scenario table and returns the cleaned single-line source
// alongside the Position the marker denoted. Fixtures in this package
// are one line, matching the teacher's own short inline query-language
// snippets.
func caretFromSource(marked string) (string, token.Position) {
	i := strings.IndexByte(marked, '|')
	if i < 0 {
		panic("fixture source has no | caret marker: " + marked)
	}
	return marked[:i] + marked[i+1:], token.Position{Line: 0, CodeUnit: i}
}

func p(col int) token.Position { return token.Position{Line: 0, CodeUnit: col} }

func rng(start, end int) token.TokenRange {
	return token.TokenRange{Start: p(start), End: p(end)}
}

// addLeaf is a small convenience wrapper around Builder.AddAst for leaf
// identifier/constant/literal nodes, the overwhelming majority of nodes
// these fixtures need.
func addLeaf(b *graph.Builder, id qlast.ID, kind qlast.NodeKind, start, end int, literal string, parent qlast.ID, attr int) qlast.ID {
	b.AddAst(qlast.AstNode{ID: id, Kind: kind, Range: rng(start, end), Literal: literal}, parent, attr, true)
	return id
}

func addComposite(b *graph.Builder, id qlast.ID, kind qlast.NodeKind, start, end int, parent qlast.ID, attr int) qlast.ID {
	b.AddAst(qlast.AstNode{ID: id, Kind: kind, Range: rng(start, end)}, parent, attr, false)
	return id
}

// idSeq is a tiny monotonic id allocator so each fixture builder can
// hand out unique ids without threading a counter by hand.
type idSeq struct{ next qlast.ID }

func (s *idSeq) id() qlast.ID {
	s.next++
	return s.next
}

// buildLet builds `let k1 = v1, k2 = v2 in body` as a fully-parsed
// LetExpression:
//
//	LetExpression
//	  attr0: Constant "let"
//	  attr1: BindingList
//	    child0: GeneralizedIdentifierPairedExpression (k1 = v1)
//	      attr0: GeneralizedIdentifier k1
//	      attr2: Identifier v1 (bare reference, for simplicity)
//	    child1: GeneralizedIdentifierPairedExpression (k2 = v2)
//	  attr2: Constant "in"
//	  attr3: Identifier body (the `in` expression)
//
// text: "let k1 = v1, k2 = v2 in body"
//
//	0123456789...
func buildLet(b *graph.Builder) (letID qlast.ID, bodyID qlast.ID, v1ID qlast.ID, v2ID qlast.ID) {
	s := &idSeq{}
	letID = s.id()
	addComposite(b, letID, qlast.KindLetExpression, 0, 28, 0, -1)
	addLeaf(b, s.id(), qlast.KindConstant, 0, 3, "let", letID, 0)

	blID := s.id()
	addComposite(b, blID, qlast.KindBindingList, 4, 20, letID, 1)

	pair1ID := s.id()
	addComposite(b, pair1ID, qlast.KindGeneralizedIdentifierPairedExpression, 4, 11, blID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 4, 6, "k1", pair1ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 7, 8, "=", pair1ID, 1)
	v1ID = s.id()
	addLeaf(b, v1ID, qlast.KindIdentifier, 9, 11, "v1", pair1ID, 2)

	addLeaf(b, s.id(), qlast.KindConstant, 11, 12, ",", blID, -1)

	pair2ID := s.id()
	addComposite(b, pair2ID, qlast.KindGeneralizedIdentifierPairedExpression, 13, 20, blID, 1)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 13, 15, "k2", pair2ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 16, 17, "=", pair2ID, 1)
	v2ID = s.id()
	addLeaf(b, v2ID, qlast.KindIdentifier, 18, 20, "v2", pair2ID, 2)

	addLeaf(b, s.id(), qlast.KindConstant, 21, 23, "in", letID, 2)
	bodyID = s.id()
	addLeaf(b, bodyID, qlast.KindIdentifier, 24, 28, "body", letID, 3)

	return letID, bodyID, v1ID, v2ID
}

// buildRecord builds `{k1: v1, k2: v2}` as a fully-parsed
// RecordExpression whose direct children are two
// GeneralizedIdentifierPairedExpression pairs.
//
// text: "{k1: v1, k2: v2}"
func buildRecord(b *graph.Builder) (recordID qlast.ID, v1ID, v2ID qlast.ID) {
	s := &idSeq{}
	recordID = s.id()
	addComposite(b, recordID, qlast.KindRecordExpression, 0, 16, 0, -1)

	pair1ID := s.id()
	addComposite(b, pair1ID, qlast.KindGeneralizedIdentifierPairedExpression, 1, 7, recordID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 1, 3, "k1", pair1ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 3, 4, ":", pair1ID, 1)
	v1ID = s.id()
	addLeaf(b, v1ID, qlast.KindIdentifier, 5, 7, "v1", pair1ID, 2)

	pair2ID := s.id()
	addComposite(b, pair2ID, qlast.KindGeneralizedIdentifierPairedExpression, 9, 15, recordID, 1)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 9, 11, "k2", pair2ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 11, 12, ":", pair2ID, 1)
	v2ID = s.id()
	addLeaf(b, v2ID, qlast.KindIdentifier, 13, 15, "v2", pair2ID, 2)

	return recordID, v1ID, v2ID
}

// buildSection builds two `name = value;` SectionMembers under a
// Section, mirroring spec.md's section-member scope rule.
//
// text: "m1 = v1; m2 = v2;"
func buildSection(b *graph.Builder) (sectionID qlast.ID, v1ID, v2ID qlast.ID) {
	s := &idSeq{}
	sectionID = s.id()
	addComposite(b, sectionID, qlast.KindSection, 0, 18, 0, -1)

	m1ID := s.id()
	addComposite(b, m1ID, qlast.KindSectionMember, 0, 9, sectionID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 0, 2, "m1", m1ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 3, 4, "=", m1ID, 1)
	v1ID = s.id()
	addLeaf(b, v1ID, qlast.KindIdentifier, 5, 7, "v1", m1ID, 2)
	addLeaf(b, s.id(), qlast.KindConstant, 7, 8, ";", m1ID, 3)

	m2ID := s.id()
	addComposite(b, m2ID, qlast.KindSectionMember, 9, 18, sectionID, 1)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 9, 11, "m2", m2ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 12, 13, "=", m2ID, 1)
	v2ID = s.id()
	addLeaf(b, v2ID, qlast.KindIdentifier, 14, 16, "v2", m2ID, 2)
	addLeaf(b, s.id(), qlast.KindConstant, 16, 17, ";", m2ID, 3)

	return sectionID, v1ID, v2ID
}

// buildSectionWithReference builds `m1 = v1; m2 = m1;`: m2's value is a
// reference identifier whose literal happens to match m1's key, for
// testing the position-identifier resolver's definition lookup.
func buildSectionWithReference(b *graph.Builder) (sectionID, v1ID, refID qlast.ID) {
	s := &idSeq{}
	sectionID = s.id()
	addComposite(b, sectionID, qlast.KindSection, 0, 17, 0, -1)

	m1ID := s.id()
	addComposite(b, m1ID, qlast.KindSectionMember, 0, 8, sectionID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 0, 2, "m1", m1ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 3, 4, "=", m1ID, 1)
	v1ID = s.id()
	addLeaf(b, v1ID, qlast.KindIdentifier, 5, 7, "v1", m1ID, 2)
	addLeaf(b, s.id(), qlast.KindConstant, 7, 8, ";", m1ID, 3)

	m2ID := s.id()
	addComposite(b, m2ID, qlast.KindSectionMember, 9, 17, sectionID, 1)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 9, 11, "m2", m2ID, 0)
	addLeaf(b, s.id(), qlast.KindConstant, 12, 13, "=", m2ID, 1)
	refID = s.id()
	addLeaf(b, refID, qlast.KindIdentifier, 14, 16, "m1", m2ID, 2)
	addLeaf(b, s.id(), qlast.KindConstant, 16, 17, ";", m2ID, 3)

	return sectionID, v1ID, refID
}

// buildEach builds `each 0 > y` as a fully-parsed EachExpression: attr0
// a throwaway test expression, attr1 the body referencing an unrelated
// name `y` (distinct from the implicit `_` binding under test, so the
// self-inserting Identifier rule for the active leaf does not collide
// with the binding scopeEach contributes).
func buildEach(b *graph.Builder) (eachID qlast.ID, bodyID qlast.ID) {
	s := &idSeq{}
	eachID = s.id()
	addComposite(b, eachID, qlast.KindEachExpression, 0, 10, 0, -1)
	addLeaf(b, s.id(), qlast.KindConstant, 0, 4, "each", eachID, -1)

	testExprID := s.id()
	addLeaf(b, testExprID, qlast.KindLiteralExpression, 5, 6, "0", eachID, 0)

	bodyID = s.id()
	addLeaf(b, bodyID, qlast.KindIdentifier, 9, 10, "y", eachID, 1)

	return eachID, bodyID
}

// buildFunction builds `(x, y) => z` as a FunctionExpression: attr0
// ParameterList (x, y), attr3 body referencing an unrelated name `z` so
// the body leaf's own self-insertion doesn't collide with either
// parameter name under test.
func buildFunction(b *graph.Builder) (fnID qlast.ID, paramXID, paramYID qlast.ID, bodyID qlast.ID) {
	s := &idSeq{}
	fnID = s.id()
	addComposite(b, fnID, qlast.KindFunctionExpression, 0, 11, 0, -1)

	plID := s.id()
	addComposite(b, plID, qlast.KindParameterList, 0, 6, fnID, 0)

	paramXID = s.id()
	addComposite(b, paramXID, qlast.KindParameter, 1, 2, plID, 0)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 1, 2, "x", paramXID, 0)

	paramYID = s.id()
	addComposite(b, paramYID, qlast.KindParameter, 4, 5, plID, 1)
	addLeaf(b, s.id(), qlast.KindGeneralizedIdentifier, 4, 5, "y", paramYID, 0)

	addLeaf(b, s.id(), qlast.KindConstant, 7, 9, "=>", fnID, -1)

	bodyID = s.id()
	addLeaf(b, bodyID, qlast.KindIdentifier, 10, 11, "z", fnID, 3)

	return fnID, paramXID, paramYID, bodyID
}

// buildInvoke builds `f(a, b)` as an InvokeExpression with two Csv
// arguments, the same shape graph_test.go uses.
func buildInvoke(b *graph.Builder) (invokeID, aID, bID, commaID qlast.ID) {
	s := &idSeq{}
	invokeID = s.id()
	addComposite(b, invokeID, qlast.KindInvokeExpression, 0, 7, 0, -1)

	identExprID := s.id()
	addLeaf(b, identExprID, qlast.KindIdentifierExpression, 0, 1, "f", invokeID, 0)

	wrapperID := s.id()
	addComposite(b, wrapperID, qlast.KindArrayWrapper, 1, 7, invokeID, 1)

	csv0ID := s.id()
	addComposite(b, csv0ID, qlast.KindCsv, 2, 4, wrapperID, 0)
	aID = s.id()
	addLeaf(b, aID, qlast.KindIdentifier, 2, 3, "a", csv0ID, 0)
	commaID = s.id()
	addLeaf(b, commaID, qlast.KindConstant, 3, 4, ",", csv0ID, 1)

	csv1ID := s.id()
	addComposite(b, csv1ID, qlast.KindCsv, 5, 6, wrapperID, 1)
	bID = s.id()
	addLeaf(b, bID, qlast.KindIdentifier, 5, 6, "b", csv1ID, 0)

	return invokeID, aID, bID, commaID
}

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

package graph

import (
	qlast "github.com/cuelabs/qlinspect/ast"
)

// Builder incrementally assembles a Graph. Producing a Graph is the
// parser's job (out of scope per spec.md section 1); Builder is the
// seam a parser — or, in this repo, a test fixture — uses to populate
// one.
type Builder struct {
	g *Graph
}

// NewBuilder starts a fresh, empty graph.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

func attrIndexPtr(i int) *uint8 {
	if i < 0 {
		return nil
	}
	v := uint8(i)
	return &v
}

// AddAst records a completed node. attributeIndex is this node's slot
// within its parent (-1 if it has no parent, i.e. it's the document
// root). isLeaf marks it as a member of the leaf set used by C3.
func (b *Builder) AddAst(n qlast.AstNode, parentID qlast.ID, attributeIndex int, isLeaf bool) qlast.ID {
	n.MaybeAttributeIndex = attrIndexPtr(attributeIndex)
	cp := n
	b.g.astByID[n.ID] = &cp
	if isLeaf {
		b.g.leafIDs[n.ID] = struct{}{}
	}
	b.link(parentID, n.ID, attributeIndex)
	return n.ID
}

// AddContext records a partial (in-progress) node.
func (b *Builder) AddContext(n qlast.CtxNode, parentID qlast.ID, attributeIndex int) qlast.ID {
	n.MaybeAttributeIndex = attrIndexPtr(attributeIndex)
	if parentID != 0 {
		p := parentID
		n.MaybeParentID = &p
	}
	cp := n
	b.g.ctxByID[n.ID] = &cp
	b.link(parentID, n.ID, attributeIndex)
	return n.ID
}

func (b *Builder) link(parentID, childID qlast.ID, attributeIndex int) {
	if parentID == 0 {
		return
	}
	b.g.parentByID[childID] = parentID
	if attributeIndex < 0 {
		return
	}
	children := b.g.childIDsByID[parentID]
	for len(children) <= attributeIndex {
		children = append(children, 0)
	}
	children[attributeIndex] = childID
	b.g.childIDsByID[parentID] = children
}

// Build returns the assembled Graph. The Builder must not be reused
// afterwards.
func (b *Builder) Build() *Graph {
	return b.g
}

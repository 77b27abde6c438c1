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

package ast

import "github.com/cuelabs/qlinspect/token"

// ID is a process-unique node identifier, strictly increasing in
// creation order. Ties between candidates at the same source position
// are broken by preferring the higher id (spec.md section 4.3): the
// parser allocates ids in descent order, so a higher id at an equal
// position is nested deeper.
type ID uint64

// AstNode is a completed subtree: it has a full TokenRange and is done
// accepting children.
type AstNode struct {
	ID                 ID
	Kind               NodeKind
	Range              token.TokenRange
	MaybeAttributeIndex *uint8

	// Literal holds the textual content for leaf kinds (Identifier,
	// GeneralizedIdentifier, LiteralExpression, Constant). It is unused
	// for composite kinds.
	Literal string
}

// CtxNode is a partial node recorded by the parser before it failed. It
// has no end position and does not yet know all of its children.
type CtxNode struct {
	ID                  ID
	Kind                NodeKind
	MaybeAttributeIndex *uint8

	// MaybeTokenStart is the position of the first token this node
	// claimed, if the parser got that far before failing.
	MaybeTokenStart *token.Position

	// MaybeParentID is set once the parser has linked this context to
	// its parent; it is also tracked (redundantly, for O(1) access) in
	// Graph.parentByID.
	MaybeParentID *ID

	// AttributeCounter is how many attribute slots were successfully
	// filled before the parse of this node failed or paused.
	AttributeCounter int
}

// HandleTag distinguishes the two NodeHandle variants without a type
// switch at every call site.
type HandleTag int

const (
	TagAst HandleTag = iota
	TagContext
)

// NodeHandle is the tagged union ("xor node") described in spec.md
// section 3: either a completed Ast subtree or a parser Context node.
type NodeHandle struct {
	Tag     HandleTag
	AstNode *AstNode
	CtxNode *CtxNode
}

func FromAst(n *AstNode) NodeHandle     { return NodeHandle{Tag: TagAst, AstNode: n} }
func FromContext(n *CtxNode) NodeHandle { return NodeHandle{Tag: TagContext, CtxNode: n} }

// IsAst and IsContext are readability helpers over Tag.
func (h NodeHandle) IsAst() bool     { return h.Tag == TagAst }
func (h NodeHandle) IsContext() bool { return h.Tag == TagContext }

// ID returns the node id regardless of which variant is present.
func (h NodeHandle) ID() ID {
	if h.IsAst() {
		return h.AstNode.ID
	}
	return h.CtxNode.ID
}

// Kind returns the node kind regardless of which variant is present.
func (h NodeHandle) Kind() NodeKind {
	if h.IsAst() {
		return h.AstNode.Kind
	}
	return h.CtxNode.Kind
}

// MaybeAttributeIndex returns this node's slot number within its
// parent's attribute list, if known.
func (h NodeHandle) MaybeAttributeIndex() *uint8 {
	if h.IsAst() {
		return h.AstNode.MaybeAttributeIndex
	}
	return h.CtxNode.MaybeAttributeIndex
}

// AttributeIndex is a convenience accessor returning -1 when unset.
func (h NodeHandle) AttributeIndex() int {
	p := h.MaybeAttributeIndex()
	if p == nil {
		return -1
	}
	return int(*p)
}

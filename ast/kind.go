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

// Package ast defines the closed set of grammar tags (NodeKind) and the
// hybrid Ast/Context node representation (section 3 of the spec) that
// the rest of this module traverses. It mirrors the role cue/ast plays
// for the teacher repository: a pure data model with no traversal
// behaviour of its own.
package ast

// NodeKind is a fixed, closed set of grammar tags. New grammar constructs
// are never added dynamically; every traversal in this module switches
// exhaustively (with a default no-op) over this set.
type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Leaves.
	KindIdentifier
	KindGeneralizedIdentifier
	KindLiteralExpression
	KindConstant // punctuation/keyword leaves: "(", ")", ",", ";", "=", "=>", "@", "let", "in", etc.

	// Expressions.
	KindIdentifierExpression
	KindListExpression
	KindListLiteral
	KindRecordExpression
	KindRecordLiteral
	KindLetExpression
	KindEachExpression
	KindFunctionExpression
	KindParameterList
	KindParameter
	KindSection
	KindSectionMember
	KindIdentifierPairedExpression           // name = value, used by section members
	KindGeneralizedIdentifierPairedExpression // key = value, used by records
	KindInvokeExpression
	KindRecursivePrimaryExpression
	KindFieldSelector
	KindArrayWrapper
	KindCsv
	KindTryExpression
	KindOtherwiseExpression
	KindErrorExpression
	KindIfExpression
	KindParenthesizedExpression
	KindRangeExpression
	KindBindingList // LetExpression's k=v,k=v,... list, held as one attribute slot
)

var kindNames = map[NodeKind]string{
	KindInvalid:                                "Invalid",
	KindIdentifier:                             "Identifier",
	KindGeneralizedIdentifier:                  "GeneralizedIdentifier",
	KindLiteralExpression:                      "LiteralExpression",
	KindConstant:                               "Constant",
	KindIdentifierExpression:                   "IdentifierExpression",
	KindListExpression:                         "ListExpression",
	KindListLiteral:                            "ListLiteral",
	KindRecordExpression:                       "RecordExpression",
	KindRecordLiteral:                          "RecordLiteral",
	KindLetExpression:                          "LetExpression",
	KindEachExpression:                         "EachExpression",
	KindFunctionExpression:                     "FunctionExpression",
	KindParameterList:                          "ParameterList",
	KindParameter:                              "Parameter",
	KindSection:                                "Section",
	KindSectionMember:                          "SectionMember",
	KindIdentifierPairedExpression:             "IdentifierPairedExpression",
	KindGeneralizedIdentifierPairedExpression:  "GeneralizedIdentifierPairedExpression",
	KindInvokeExpression:                       "InvokeExpression",
	KindRecursivePrimaryExpression:              "RecursivePrimaryExpression",
	KindFieldSelector:                          "FieldSelector",
	KindArrayWrapper:                           "ArrayWrapper",
	KindCsv:                                    "Csv",
	KindTryExpression:                          "TryExpression",
	KindOtherwiseExpression:                    "OtherwiseExpression",
	KindErrorExpression:                        "ErrorExpression",
	KindIfExpression:                           "IfExpression",
	KindParenthesizedExpression:                "ParenthesizedExpression",
	KindRangeExpression:                        "RangeExpression",
	KindBindingList:                            "BindingList",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// RecordKinds and ListKinds group the expression/literal pair so callers
// can test both kinds with one lookup.
var (
	RecordKinds = map[NodeKind]bool{KindRecordExpression: true, KindRecordLiteral: true}
	ListKinds   = map[NodeKind]bool{KindListExpression: true, KindListLiteral: true}
)

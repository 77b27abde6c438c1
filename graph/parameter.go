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

import qlast "github.com/cuelabs/qlinspect/ast"

// ParameterInfo holds the grammar-level attributes of a function
// parameter that the scope builder (C4) must copy into a Parameter
// ScopeItem: nullability, optionality, and an optional primitive type
// name. These are simple syntactic markers (a leading "nullable"
// keyword, a leading "optional" keyword, an "as primitivetype"
// ascription) and are tracked separately from the generic attribute
// maps because Parameter is the only node kind that carries them.
type ParameterInfo struct {
	IsNullable    bool
	IsOptional    bool
	MaybeTypeName string
}

// SetParameterInfo records info for a Parameter node id.
func (b *Builder) SetParameterInfo(id qlast.ID, info ParameterInfo) {
	if b.g.paramInfo == nil {
		b.g.paramInfo = make(map[qlast.ID]ParameterInfo)
	}
	b.g.paramInfo[id] = info
}

// ParameterInfo looks up info previously recorded for id.
func (g *Graph) ParameterInfo(id qlast.ID) (ParameterInfo, bool) {
	info, ok := g.paramInfo[id]
	return info, ok
}

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

// Package types is the seam onto the full type system, which spec.md
// section 1 places out of scope: "The type system is referenced only
// where the engine consumes a type lookup for expected-type
// computation; its internal algorithms are not specified here." Type is
// therefore an opaque value the engine only ever passes through, and
// Oracle is the single pure function the engine calls into.
package types

import qlast "github.com/cuelabs/qlinspect/ast"

// Type is an opaque handle to whatever the external type system
// considers "a type". The engine never inspects its contents.
type Type struct {
	// Name is included only so tests and debug dumps have something
	// human-readable to print; production callers may ignore it.
	Name string
}

// NotApplicable is the sentinel Oracle returns when it has no opinion
// about the requested slot.
var NotApplicable = Type{}

// IsApplicable reports whether t is a real answer rather than
// NotApplicable.
func (t Type) IsApplicable() bool { return t != NotApplicable }

// Oracle answers "given parentKind and the attribute index of one of
// its children, what is the expected type of that child slot". It must
// be a pure function; per spec.md section 5 it must be safe to call
// concurrently if the caller parallelises inspections.
type Oracle func(parentKind qlast.NodeKind, childAttributeIndex int) Type

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
	"context"
	"log/slog"

	"github.com/cuelabs/qlinspect/graph"
	"github.com/cuelabs/qlinspect/internal/engineerr"
	"github.com/cuelabs/qlinspect/token"
	"github.com/cuelabs/qlinspect/types"
)

// Config carries the two options spec.md section 6 names, plus a
// Logger field.
type Config struct {
	// Locale is held for the caller; the errors this package returns do
	// not carry it, and the engine does not itself localize anything.
	Locale string

	// CancellationToken, when non-nil, is checked between ancestor
	// visits (section 5). A cancelled context aborts the inspection
	// with engineerr.Cancelled and no partial output.
	CancellationToken context.Context

	// Logger is not consulted by the entry points in this package:
	// InvariantViolated records raised by graph lookups are logged
	// through graph.Graph.Logger (slog.Default when that is nil).
	Logger *slog.Logger
}

func (c Config) ctx() context.Context {
	if c.CancellationToken != nil {
		return c.CancellationToken
	}
	return context.Background()
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return engineerr.NewCancelled()
	default:
		return nil
	}
}

// TryInspection is the combined convenience entry point: it runs every
// other tryXxx function over the same ActiveNode and aggregates the
// results, short-circuiting on the first error (section 7: "Callers
// combining multiple steps should short-circuit on the first Err").
// maybeParseError is forwarded to the keyword-slot classifier (C7) only,
// per section 6's tryAutocompleteKeywords signature.
func TryInspection(cfg Config, g *graph.Graph, pos token.Position, maybeParseError error, oracle types.Oracle) (*Inspection, error) {
	activeNode, err := TryActiveNode(cfg, g, pos)
	if err != nil {
		return nil, err
	}
	if activeNode == nil {
		return &Inspection{
			Scope:       NewNodeScope(),
			KeywordSlot: KeywordSlot{Allowed: defaultKeywordSlot().Allowed},
		}, nil
	}

	scope, err := TryNodeScope(cfg, g, activeNode)
	if err != nil {
		return nil, err
	}

	invoke, err := TryInvokeExpression(cfg, g, activeNode)
	if err != nil {
		return nil, err
	}

	posIdent, err := TryPositionIdentifier(cfg, g, activeNode, scope)
	if err != nil {
		return nil, err
	}

	kwSlot, err := TryAutocompleteKeywords(cfg, g, activeNode, maybeParseError)
	if err != nil {
		return nil, err
	}

	var expectedType *types.Type
	if oracle != nil {
		expectedType, err = TryExpectedType(cfg, g, activeNode, oracle)
		if err != nil {
			return nil, err
		}
	}

	return &Inspection{
		ActiveNode:         activeNode,
		Scope:              scope,
		InvokeExpression:   invoke,
		PositionIdentifier: posIdent,
		KeywordSlot:        kwSlot,
		MaybeExpectedType:  expectedType,
	}, nil
}

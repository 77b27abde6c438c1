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

// Package engineerr defines the two-member error taxonomy of section 7:
// InvariantViolated and Cancelled. It is a pared-down sibling of
// cue/errors: callers never need to batch, sort or pretty-print a list
// of these (diagnostics generation is an explicit non-goal), so this
// package keeps only the constructors, the Error interface, and the
// Is/As passthrough.
package engineerr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Error is the interface every error this package constructs satisfies.
type Error interface {
	error
	// NodeID is the id of the node the failure was detected at, or 0 if
	// none applies.
	NodeID() uint64
	Unwrap() error
}

type kind int

const (
	kindInvariantViolated kind = iota
	kindCancelled
)

type engineError struct {
	kind   kind
	nodeID uint64
	msg    string
	cause  error
}

func (e *engineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *engineError) NodeID() uint64 { return e.nodeID }
func (e *engineError) Unwrap() error  { return e.cause }

// sentinel values usable with errors.Is.
var (
	InvariantViolated = &engineError{kind: kindInvariantViolated, msg: "invariant violated"}
	Cancelled         = &engineError{kind: kindCancelled, msg: "inspection cancelled"}
)

func (e *engineError) Is(target error) bool {
	te, ok := target.(*engineError)
	if !ok {
		return false
	}
	return te.kind == e.kind
}

// NewInvariantViolated builds an InvariantViolated error attributed to
// nodeID, logging it through logger (or slog.Default if nil) the way
// internal/httplog wires log/slog: a structured record carrying the
// failing component and node id, never surfaced to the editor as a
// syntax error.
func NewInvariantViolated(logger *slog.Logger, component string, nodeID uint64, format string, args ...interface{}) Error {
	e := &engineError{
		kind:   kindInvariantViolated,
		nodeID: nodeID,
		msg:    fmt.Sprintf(format, args...),
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), slog.LevelError, e.msg,
		slog.String("component", component),
		slog.Uint64("nodeId", nodeID),
	)
	return e
}

// NewCancelled builds a Cancelled error.
func NewCancelled() Error {
	return &engineError{kind: kindCancelled, msg: "inspection cancelled"}
}

// Is reports whether err matches target, delegating to the standard
// errors package the same way cue/errors.Is does.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Copyright 2024 The g Authors.
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

package planner

import errors "gopkg.in/src-d/go-errors.v1"

// Semantic errors (spec §7): input the grammar accepts but planning
// rejects. Each gets its own Kind so callers and tests can match on it with
// errors.Is rather than string comparison. Syntax errors from the grammar
// package are forwarded unchanged and get no Kind of their own here; true
// programmer errors (e.g. no active scope) panic instead of returning an
// error — see Scope()/ScopeMut() in scope.go.
var (
	// ErrAmbiguousDirection is raised when a relationship pattern carries
	// both a left and a right arrowhead.
	ErrAmbiguousDirection = errors.NewKind("relationship can't be directed in both directions; leave the arrows out to match either direction")

	// ErrUndirectedCreate is raised when CREATE is given a relationship
	// pattern with no direction; the backend needs an explicit start/end.
	ErrUndirectedCreate = errors.NewKind("CREATE requires an explicit relationship direction")

	// ErrMissingRelType is raised when CREATE is given a relationship
	// pattern with no type; every created relationship must have one.
	ErrMissingRelType = errors.NewKind("CREATE requires an explicit relationship type")

	// ErrUnknownProcedure is raised when CALL names a procedure the
	// backend does not expose.
	ErrUnknownProcedure = errors.NewKind("unknown procedure: %s")

	// ErrUnknownFunction is raised when an expression calls a function the
	// backend does not expose.
	ErrUnknownFunction = errors.NewKind("unknown function: %s")

	// ErrUnsupportedRule is raised when the planner walks a parse-tree
	// node whose rule it has no case for in a context where one is
	// required — mirrors the original's unreachable!() panics, translated
	// to a returned error because the input triggering it is
	// attacker/user-controlled, not a planner bug.
	ErrUnsupportedRule = errors.NewKind("don't know how to plan rule: %s")
)

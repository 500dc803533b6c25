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

import (
	"fmt"

	"github.com/jakewins/g/backend"
	"github.com/jakewins/g/token"
)

// planArtifacts bundles a planned query with enough context (every scope
// that was live while planning it, plus the shared token table) for tests
// to ask "what slot did identifier X end up in" without re-deriving the
// planner's internal bookkeeping.
type planArtifacts struct {
	Plan   PlanNode
	Scopes []*Scope
	Tokens *token.Tokens
}

// Slot returns the row slot bound to tok, searching newest scope first. The
// planner itself only resolves identifiers against the active scope; the
// older scopes are searched so tests can find slots of identifiers that a
// WITH or RETURN has since left behind.
func (a *planArtifacts) Slot(tok token.Token) int {
	for _, s := range a.Scopes {
		if slot, ok := s.slots[tok]; ok {
			return slot
		}
	}
	name, _ := a.Tokens.Lookup(tok)
	panic(fmt.Sprintf("no slot for token: %s", name))
}

func (a *planArtifacts) Tokenize(content string) token.Token {
	return a.Tokens.Tokenize(content)
}

// testBackendDesc registers the one aggregating function the test suite
// needs (the grouped count of TestPropertyAggregationGrouping), mirroring the harness in
// original_source/src/frontend/mod.rs's #[cfg(test)] mod tests.
func testBackendDesc(tokens *token.Tokens) *backend.Desc {
	tokExpr := tokens.Tokenize("expr")
	fnCount := tokens.Tokenize("count")
	return backend.NewDesc([]backend.FuncSignature{
		{
			Name:     fnCount,
			FuncType: backend.Aggregating,
			Returns:  backend.Integer,
			Args:     []backend.FuncArg{{Name: tokExpr, Type: backend.Any}},
		},
	})
}

func planQuery(q string) (*planArtifacts, error) {
	tokens := token.NewTokens()
	bd := testBackendDesc(tokens)

	f := &Frontend{Tokens: tokens, BackendDesc: bd}
	pc := NewPlanningContext(tokens, bd)

	plan, err := f.PlanInContext(q, pc)
	if err != nil {
		return nil, err
	}

	history := pc.ScopeHistory()
	scopes := make([]*Scope, 0, len(history)+1)
	scopes = append(scopes, pc.scope)
	for i := len(history) - 1; i >= 0; i-- {
		scopes = append(scopes, history[i])
	}
	return &planArtifacts{Plan: plan, Scopes: scopes, Tokens: tokens}, nil
}

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

// Scope is a per-query-segment symbol table: it ties names to row slots,
// and tracks which identifiers the user named explicitly so that `RETURN *`
// and `WITH *` can expand correctly. New scopes are introduced at WITH
// boundaries.
type Scope struct {
	slots            map[token.Token]int
	nextSlot         int
	namedIdentifiers map[token.Token]struct{}
	tokens           *token.Tokens
}

func newScope(tokens *token.Tokens) *Scope {
	return &Scope{
		slots:            make(map[token.Token]int),
		nextSlot:         0,
		namedIdentifiers: make(map[token.Token]struct{}),
		tokens:           tokens,
	}
}

// NumSlots returns the number of distinct slots ever allocated in this
// scope. Not the same as len(slots): reserved-but-unnamed slots count too.
func (s *Scope) NumSlots() int {
	return s.nextSlot
}

// ReserveSlots bumps the slot counter without naming anything, for a
// sub-plan that needs private row space of its own.
func (s *Scope) ReserveSlots(n int) {
	s.nextSlot += n
}

func (s *Scope) tokenize(contents string) token.Token {
	return s.tokens.Tokenize(contents)
}

// DeclareTok marks tok as a named identifier, visible to wildcard
// projections. Returns true iff it was not already declared.
func (s *Scope) DeclareTok(tok token.Token) bool {
	if _, ok := s.namedIdentifiers[tok]; ok {
		return false
	}
	s.namedIdentifiers[tok] = struct{}{}
	return true
}

// Declare is tokenize + DeclareTok, used whenever a statement introduces a
// user-visible name.
func (s *Scope) Declare(contents string) token.Token {
	tok := s.tokenize(contents)
	s.DeclareTok(tok)
	return tok
}

// IsDeclared reports whether tok is a named identifier in this scope.
func (s *Scope) IsDeclared(tok token.Token) bool {
	_, ok := s.namedIdentifiers[tok]
	return ok
}

// NamedIdentifiers returns the tokens the user named explicitly, in no
// particular order; used by `*` projection expansion.
func (s *Scope) NamedIdentifiers() []token.Token {
	out := make([]token.Token, 0, len(s.namedIdentifiers))
	for tok := range s.namedIdentifiers {
		out = append(out, tok)
	}
	return out
}

// GetOrAllocSlot returns the slot already bound to tok, allocating a fresh
// one if this is the first reference to tok in this scope.
func (s *Scope) GetOrAllocSlot(tok token.Token) int {
	if slot, ok := s.slots[tok]; ok {
		return slot
	}
	slot := s.nextSlot
	s.nextSlot++
	s.slots[tok] = slot
	return slot
}

// scopeState models the detach/attach dance across a WITH boundary as an
// explicit two-state machine (spec §9), rather than a bare optional field,
// so Scope()/ScopeMut() can assert the invariant with a clear message.
type scopeState int

const (
	scopeActive scopeState = iota
	scopeProjecting
)

// PlanningContext holds everything shared across the planning of one query:
// the active scope, retired scopes (kept for diagnostics/tests), the shared
// token table, the backend's function catalog, and the anonymous-identifier
// sequence counters.
type PlanningContext struct {
	scopeHistory []*Scope
	scope        *Scope
	state        scopeState

	tokens      *token.Tokens
	backendDesc *backend.Desc

	anonRelSeq  uint32
	anonNodeSeq uint32
}

// NewPlanningContext creates a context with one fresh, active scope.
func NewPlanningContext(tokens *token.Tokens, bd *backend.Desc) *PlanningContext {
	return &PlanningContext{
		scope:       newScope(tokens),
		state:       scopeActive,
		tokens:      tokens,
		backendDesc: bd,
	}
}

// createScope builds a new scope sharing this context's token table; it
// does not attach it.
func (pc *PlanningContext) createScope() *Scope {
	return newScope(pc.tokens)
}

// Scope returns the active scope. Calling this with no scope attached (only
// possible mid-WITH-projection) is a programmer error: per spec §4.3/§7
// this is fatal, not a recoverable error, since it can only happen if a
// statement planner forgets to re-attach after detaching.
func (pc *PlanningContext) Scope() *Scope {
	if pc.state != scopeActive || pc.scope == nil {
		panic("there is no scope attached to the planning context; this is a programming bug")
	}
	return pc.scope
}

// ScopeMut is Scope's mutable-access twin; Go doesn't distinguish the two,
// but the name is kept to mirror the Rust source this is ported from.
func (pc *PlanningContext) ScopeMut() *Scope {
	return pc.Scope()
}

// DetachScope takes ownership of the active scope away from the context,
// used exclusively by the WITH/RETURN planner while it juggles the old and
// new scopes during a projection handoff.
func (pc *PlanningContext) DetachScope() *Scope {
	if pc.state != scopeActive {
		panic("DetachScope called while already detached; this is a programming bug")
	}
	s := pc.scope
	pc.scope = nil
	pc.state = scopeProjecting
	return s
}

// AttachScope sets s as the active scope, ending a projection handoff.
func (pc *PlanningContext) AttachScope(s *Scope) {
	pc.scope = s
	pc.state = scopeActive
}

// RetireScope appends s to the scope history (for diagnostics/tests).
func (pc *PlanningContext) RetireScope(s *Scope) {
	pc.scopeHistory = append(pc.scopeHistory, s)
}

// ScopeHistory returns every retired scope, oldest first.
func (pc *PlanningContext) ScopeHistory() []*Scope {
	return pc.scopeHistory
}

// Tokenize interns contents without declaring it as a named identifier.
func (pc *PlanningContext) Tokenize(contents string) token.Token {
	return pc.tokens.Tokenize(contents)
}

// Declare is Scope.Declare against the active scope.
func (pc *PlanningContext) Declare(contents string) token.Token {
	tok := pc.Tokenize(contents)
	pc.DeclareTok(tok)
	return tok
}

// DeclareTok is Scope.DeclareTok against the active scope.
func (pc *PlanningContext) DeclareTok(tok token.Token) bool {
	return pc.ScopeMut().DeclareTok(tok)
}

// IsDeclared is Scope.IsDeclared against the active scope.
func (pc *PlanningContext) IsDeclared(tok token.Token) bool {
	return pc.Scope().IsDeclared(tok)
}

// GetOrAllocSlot is Scope.GetOrAllocSlot against the active scope.
func (pc *PlanningContext) GetOrAllocSlot(tok token.Token) int {
	return pc.ScopeMut().GetOrAllocSlot(tok)
}

// NewAnonRel allocates a unique, but not declared, identifier for an
// anonymous relationship pattern position.
func (pc *PlanningContext) NewAnonRel() token.Token {
	seq := pc.anonRelSeq
	pc.anonRelSeq++
	return pc.Tokenize(fmt.Sprintf("AnonRel#%d", seq))
}

// NewAnonNode allocates a unique, but not declared, identifier for an
// anonymous node pattern position.
func (pc *PlanningContext) NewAnonNode() token.Token {
	seq := pc.anonNodeSeq
	pc.anonNodeSeq++
	return pc.Tokenize(fmt.Sprintf("AnonNode#%d", seq))
}

// BackendDesc returns the function/procedure catalog this query is being
// planned against.
func (pc *PlanningContext) BackendDesc() *backend.Desc {
	return pc.backendDesc
}

// Tokens returns the shared interning table.
func (pc *PlanningContext) Tokens() *token.Tokens {
	return pc.tokens
}

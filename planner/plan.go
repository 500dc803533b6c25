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

import "github.com/jakewins/g/token"

// Dir is the direction of a relationship, from the perspective of whichever
// node is currently considered the "left"/solved side of an Expand.
type Dir int

const (
	DirOut Dir = iota
	DirIn
)

func (d Dir) String() string {
	if d == DirIn {
		return "In"
	}
	return "Out"
}

// Reverse flips the direction, used when an Expand has to walk a pattern
// relationship from its right endpoint instead of its left.
func (d Dir) Reverse() Dir {
	if d == DirOut {
		return DirIn
	}
	return DirOut
}

// PlanNode is the marker interface every LogicalPlan variant implements.
// The tree is recursively owned: children are plain PlanNode values, no
// cycles exist, and equality is structural (used directly by tests via
// google/go-cmp, since these are plain comparable-by-field structs).
type PlanNode interface {
	planNode()
}

// Argument is the single-row leaf: the empty driving row every plan starts
// from.
type Argument struct{}

// NodeScan produces one row per graph node matching Label (or every node,
// if Label is nil), for each inbound row from Src.
type NodeScan struct {
	Src   PlanNode
	Slot  int
	Label *token.Token
}

// Expand traverses from the bound node in SrcSlot through a matching edge,
// binding the relationship in RelSlot and the far node in DstSlot.
type Expand struct {
	Src                       PlanNode
	SrcSlot, RelSlot, DstSlot int
	RelType                   *token.Token
	Dir                       *Dir
}

// Optional passes Src rows through unchanged; if Src produced no rows, it
// emits exactly one row with Slots set to null.
type Optional struct {
	Src   PlanNode
	Slots []int
}

// Selection filters Src's rows by Predicate.
type Selection struct {
	Src       PlanNode
	Predicate Expr
}

// Create instantiates Nodes and Rels for each row of Src.
type Create struct {
	Src   PlanNode
	Nodes []NodeSpec
	Rels  []RelSpec
}

// SetProperties applies Updates to each row of Src.
type SetProperties struct {
	Src     PlanNode
	Updates []SetAction
}

// ConditionalApply runs RHS once per LHS row, but only when every slot in
// Conditions is non-null after LHS; otherwise the LHS row passes through
// unchanged. Used for OPTIONAL MATCH whose pattern references identifiers
// already bound by an outer scope.
type ConditionalApply struct {
	LHS, RHS   PlanNode
	Conditions []int
}

// AntiConditionalApply is ConditionalApply with the condition inverted:
// RHS runs only when every slot in Conditions is null. Used by MERGE to run
// CREATE exactly when the try-MATCH found nothing.
type AntiConditionalApply struct {
	LHS, RHS   PlanNode
	Conditions []int
}

// AggEntry pairs a projected expression with the destination slot it's
// written to, used for both the grouping key and the aggregations list of
// Aggregate.
type AggEntry struct {
	Expr Expr
	Dst  int
}

// Aggregate groups Src's rows by Grouping and evaluates Aggregations once
// per group. An empty Grouping means a single global group; an empty
// Aggregations list is legal too (e.g. RETURN DISTINCT with no aggregating
// calls still routes through Aggregate so duplicates collapse).
type Aggregate struct {
	Src          PlanNode
	Grouping     []AggEntry
	Aggregations []AggEntry
}

// Unwind expands ListExpr into one row per element, bound in Alias.
type Unwind struct {
	Src      PlanNode
	ListExpr Expr
	Alias    int
}

// Call invokes the procedure Name once per row, with Args evaluated against
// that row.
type Call struct {
	Src  PlanNode
	Name token.Token
	Args []Expr
}

// NestLoop yields the cartesian product of Outer and Inner filtered by
// Predicate. Used as the general fallback join for disconnected pattern
// components.
type NestLoop struct {
	Outer, Inner PlanNode
	Predicate    Expr
}

// Projection is one `expr AS alias` entry of a Project.
type Projection struct {
	Expr  Expr
	Alias token.Token
	Dst   int
}

// Project evaluates Projections into their destination slots, for each row
// of Src.
type Project struct {
	Src         PlanNode
	Projections []Projection
}

// SortKey is one ORDER BY entry.
type SortKey struct {
	Expr       Expr
	Descending bool
}

// Sort orders Src's rows by SortBy, applying each key in order.
type Sort struct {
	Src    PlanNode
	SortBy []SortKey
}

// Limit bounds the row count of Src. Skip and LimitExpr are nil when absent.
type Limit struct {
	Src             PlanNode
	Skip, LimitExpr Expr
}

// Field is one named output column of a ProduceResult.
type Field struct {
	Name token.Token
	Slot int
}

// ProduceResult is the root of a query ending in RETURN; it names the
// output columns.
type ProduceResult struct {
	Src    PlanNode
	Fields []Field
}

func (Argument) planNode()             {}
func (NodeScan) planNode()             {}
func (Expand) planNode()               {}
func (Optional) planNode()             {}
func (Selection) planNode()            {}
func (Create) planNode()               {}
func (SetProperties) planNode()        {}
func (ConditionalApply) planNode()     {}
func (AntiConditionalApply) planNode() {}
func (Aggregate) planNode()            {}
func (Unwind) planNode()               {}
func (Call) planNode()                 {}
func (NestLoop) planNode()             {}
func (Project) planNode()              {}
func (Sort) planNode()                 {}
func (Limit) planNode()                {}
func (ProduceResult) planNode()        {}

// NodeSpec describes a node CREATE must instantiate.
type NodeSpec struct {
	Slot   int
	Labels []token.Token
	Props  []MapEntryExpr
}

// RelSpec describes a relationship CREATE must instantiate; its direction
// has already been resolved into a start/end slot pair.
type RelSpec struct {
	Slot                       int
	RelType                    token.Token
	StartNodeSlot, EndNodeSlot int
	Props                      []MapEntryExpr
}

// SetAction is one property mutation of a SET clause. Named SingleAssign/
// Append/Overwrite after original_source/src/frontend/set_stmt.rs's
// SetAction enum, which is more precise than spec.md's Single/Append/
// Overwrite naming about what each variant actually does.
type SetAction interface {
	setActionNode()
}

// SingleAssign sets one property (`a.name = expr`).
type SingleAssign struct {
	Entity int
	Key    token.Token
	Value  Expr
}

// Append merges a map's entries into an entity's properties, leaving
// properties not named in the map untouched (`a += {...}`).
type Append struct {
	Entity int
	Value  Expr
}

// Overwrite replaces all of an entity's properties (`a = expr`).
type Overwrite struct {
	Entity int
	Value  Expr
}

func (SingleAssign) setActionNode() {}
func (Append) setActionNode()       {}
func (Overwrite) setActionNode()    {}

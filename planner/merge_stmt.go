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

import "github.com/jakewins/g/grammar"

// planMerge implements spec §4.8: MERGE tries to MATCH its pattern against
// the current row; if that produces nothing, it falls back to CREATE-ing
// the pattern instead. Both branches are planned from the same parsed
// PatternGraph, so "bound before this statement" — which decides whether
// buildCreateSpecs instantiates a node or merely references it — is read
// once, before solvePatternGraph has a chance to mark anything Solved.
//
// Both branches are rooted at their own Argument leaf rather than at src,
// and src is not referenced at all: the returned plan does not contain the
// operators of any statement before the MERGE (see DESIGN.md).
func planMerge(pc *PlanningContext, src PlanNode, mergeStmt *grammar.Node) (PlanNode, error) {
	patternNode := mergeStmt.Child(grammar.RulePattern)
	if patternNode == nil {
		return nil, ErrUnsupportedRule.New(string(mergeStmt.Rule))
	}

	pg := newPatternGraph()
	if err := parsePatternSegment(pc, pg, patternNode); err != nil {
		return nil, err
	}

	matchPlan, err := solvePatternGraph(pc, Argument{}, pg)
	if err != nil {
		return nil, err
	}
	if pg.Predicate != nil {
		matchPlan = Selection{Src: matchPlan, Predicate: pg.Predicate}
	}

	nodes, rels, err := buildCreateSpecs(pc, pg)
	if err != nil {
		return nil, err
	}
	createPlan := PlanNode(Create{Src: Argument{}, Nodes: nodes, Rels: rels})

	var conditions []int
	for _, id := range pg.VOrder {
		conditions = append(conditions, pc.GetOrAllocSlot(id))
	}
	for _, rel := range pg.E {
		conditions = append(conditions, pc.GetOrAllocSlot(rel.Identifier))
	}

	return AntiConditionalApply{LHS: matchPlan, RHS: createPlan, Conditions: conditions}, nil
}

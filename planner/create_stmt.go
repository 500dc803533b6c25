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
	"github.com/jakewins/g/grammar"
	"github.com/jakewins/g/token"
)

// planCreate implements spec §4.7: identifiers already declared in the
// active scope are references (their slot is reused, nothing is
// instantiated for them); undeclared identifiers become NodeSpecs.
// Relationships always create, and require an explicit direction.
func planCreate(pc *PlanningContext, src PlanNode, createStmt *grammar.Node) (PlanNode, error) {
	pg := newPatternGraph()
	for _, pattern := range createStmt.ChildrenOf(grammar.RulePattern) {
		if err := parsePatternSegment(pc, pg, pattern); err != nil {
			return nil, err
		}
	}

	nodes, rels, err := buildCreateSpecs(pc, pg)
	if err != nil {
		return nil, err
	}
	return Create{Src: src, Nodes: nodes, Rels: rels}, nil
}

// buildCreateSpecs turns a pattern graph into the NodeSpec/RelSpec pairs a
// Create operator needs. A node contributes a NodeSpec only if it wasn't
// already bound before this pattern was parsed (Bound is captured at parse
// time by parsePatternNode, before parsePatternSegment declares it); every
// relationship contributes a RelSpec, since CREATE always creates edges.
func buildCreateSpecs(pc *PlanningContext, pg *PatternGraph) ([]NodeSpec, []RelSpec, error) {
	var nodes []NodeSpec
	for _, id := range pg.VOrder {
		n := pg.V[id]
		if n.Bound {
			continue
		}
		nodes = append(nodes, NodeSpec{Slot: pc.GetOrAllocSlot(n.Identifier), Labels: n.Labels, Props: n.Props})
	}

	var rels []RelSpec
	for _, rel := range pg.E {
		if rel.Dir == nil {
			return nil, nil, ErrUndirectedCreate.New()
		}
		if rel.RelType == nil {
			return nil, nil, ErrMissingRelType.New()
		}

		var startTok, endTok token.Token
		if *rel.Dir == DirOut {
			startTok, endTok = rel.LeftNode, *rel.RightNode
		} else {
			startTok, endTok = *rel.RightNode, rel.LeftNode
		}

		rels = append(rels, RelSpec{
			Slot:          pc.GetOrAllocSlot(rel.Identifier),
			RelType:       *rel.RelType,
			StartNodeSlot: pc.GetOrAllocSlot(startTok),
			EndNodeSlot:   pc.GetOrAllocSlot(endTok),
			Props:         rel.Props,
		})
	}

	return nodes, rels, nil
}

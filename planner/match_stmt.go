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

// planMatch implements spec §4.6: seed, expand, bridge disconnected
// components, apply label/property filters, apply WHERE, and — for
// OPTIONAL MATCH — wrap the result so a non-matching pattern still
// produces one row of nulls instead of none.
func planMatch(pc *PlanningContext, src PlanNode, matchStmt *grammar.Node) (PlanNode, error) {
	pg, err := parsePatternGraph(pc, matchStmt)
	if err != nil {
		return nil, err
	}

	if !pg.Optional {
		plan, err := solvePatternGraph(pc, src, pg)
		if err != nil {
			return nil, err
		}
		if pg.Predicate != nil {
			plan = Selection{Src: plan, Predicate: pg.Predicate}
		}
		return plan, nil
	}

	// The optional subplan is built independently of the prior plan,
	// starting from its own Argument leaf (spec §4.6 step 6).
	inner, err := solvePatternGraph(pc, Argument{}, pg)
	if err != nil {
		return nil, err
	}
	if pg.Predicate != nil {
		inner = Selection{Src: inner, Predicate: pg.Predicate}
	}

	boundSlots := boundIdentifierSlots(pc, pg)
	if len(boundSlots) > 0 {
		return ConditionalApply{LHS: src, RHS: inner, Conditions: boundSlots}, nil
	}

	return Optional{Src: inner, Slots: newlyBoundSlots(pc, pg)}, nil
}

// solvePatternGraph walks pg's nodes and relationships, emitting a
// NodeScan/Expand chain (bridging disconnected components with NestLoop),
// then wraps the result in a single Selection carrying every label and
// inline-property constraint the pattern names. Collecting those into one
// trailing Selection rather than one per binding event is a simplification
// of spec §4.6 step 4 chosen to match the worked example in spec §8
// scenario 3, where the label check on the pattern's first node appears
// after the Expand that binds its neighbor, not immediately after the
// NodeScan.
func solvePatternGraph(pc *PlanningContext, base PlanNode, pg *PatternGraph) (PlanNode, error) {
	plan := base

	if len(pg.VOrder) == 0 {
		return plan, nil
	}

	anySolved := false
	for _, id := range pg.VOrder {
		if pg.V[id].Solved {
			anySolved = true
			break
		}
	}
	if !anySolved {
		first := pg.V[pg.VOrder[0]]
		plan = NodeScan{Src: plan, Slot: pc.GetOrAllocSlot(first.Identifier), Label: firstLabel(first)}
		first.Solved = true
	}

	for {
		progressed := false
		for _, rel := range pg.E {
			if rel.Solved {
				continue
			}
			leftSolved := pg.V[rel.LeftNode].Solved
			rightSolved := rel.RightNode != nil && pg.V[*rel.RightNode].Solved
			if !leftSolved && !rightSolved {
				continue
			}

			var srcTok, dstTok token.Token
			var dir *Dir
			if leftSolved {
				srcTok, dstTok = rel.LeftNode, *rel.RightNode
				dir = rel.Dir
			} else {
				srcTok, dstTok = *rel.RightNode, rel.LeftNode
				if rel.Dir != nil {
					reversed := rel.Dir.Reverse()
					dir = &reversed
				}
			}

			plan = Expand{
				Src:     plan,
				SrcSlot: pc.GetOrAllocSlot(srcTok),
				RelSlot: pc.GetOrAllocSlot(rel.Identifier),
				DstSlot: pc.GetOrAllocSlot(dstTok),
				RelType: rel.RelType,
				Dir:     dir,
			}
			rel.Solved = true
			pg.V[dstTok].Solved = true
			progressed = true
		}
		if progressed {
			continue
		}

		next := firstUnsolvedNode(pg)
		if next == nil {
			break
		}
		inner := PlanNode(NodeScan{Src: Argument{}, Slot: pc.GetOrAllocSlot(next.Identifier), Label: firstLabel(next)})
		plan = NestLoop{Outer: plan, Inner: inner, Predicate: BoolExpr{Value: true}}
		next.Solved = true
	}

	if predicate := buildLabelPropPredicate(pc, pg); predicate != nil {
		plan = Selection{Src: plan, Predicate: predicate}
	}

	return plan, nil
}

func firstLabel(n *PatternNode) *token.Token {
	if len(n.Labels) == 0 {
		return nil
	}
	l := n.Labels[0]
	return &l
}

func firstUnsolvedNode(pg *PatternGraph) *PatternNode {
	for _, id := range pg.VOrder {
		if !pg.V[id].Solved {
			return pg.V[id]
		}
	}
	return nil
}

func buildLabelPropPredicate(pc *PlanningContext, pg *PatternGraph) Expr {
	var conjuncts []Expr

	for _, id := range pg.VOrder {
		node := pg.V[id]
		slot := pc.GetOrAllocSlot(node.Identifier)
		entity := SlotExpr{Slot: slot}
		for _, lbl := range node.Labels {
			conjuncts = append(conjuncts, HasLabelExpr{Entity: entity, Label: lbl})
		}
		for _, prop := range node.Props {
			conjuncts = append(conjuncts, BinOpExpr{Op: OpEq, LHS: PropExpr{Base: entity, Key: prop.Key}, RHS: prop.Val})
		}
	}
	for _, rel := range pg.E {
		if len(rel.Props) == 0 {
			continue
		}
		entity := SlotExpr{Slot: pc.GetOrAllocSlot(rel.Identifier)}
		for _, prop := range rel.Props {
			conjuncts = append(conjuncts, BinOpExpr{Op: OpEq, LHS: PropExpr{Base: entity, Key: prop.Key}, RHS: prop.Val})
		}
	}

	return andAll(conjuncts)
}

func andAll(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = BinOpExpr{Op: OpAnd, LHS: out, RHS: e}
	}
	return out
}

// boundIdentifierSlots returns the slots of identifiers this pattern
// referenced that were already bound in an enclosing scope — the
// conditions under which an OPTIONAL MATCH's subplan is even worth trying.
func boundIdentifierSlots(pc *PlanningContext, pg *PatternGraph) []int {
	var slots []int
	for _, id := range pg.VOrder {
		if pg.V[id].Bound {
			slots = append(slots, pc.GetOrAllocSlot(id))
		}
	}
	for _, rel := range pg.E {
		if rel.Bound {
			slots = append(slots, pc.GetOrAllocSlot(rel.Identifier))
		}
	}
	return slots
}

// newlyBoundSlots returns the slots of identifiers this pattern introduces
// (named or anonymous) — the slots an Optional must null out when its
// subplan produces no rows.
func newlyBoundSlots(pc *PlanningContext, pg *PatternGraph) []int {
	var slots []int
	for _, id := range pg.VOrder {
		node := pg.V[id]
		if !node.Bound {
			slots = append(slots, pc.GetOrAllocSlot(node.Identifier))
		}
	}
	for _, rel := range pg.E {
		if !rel.Bound {
			slots = append(slots, pc.GetOrAllocSlot(rel.Identifier))
		}
	}
	return slots
}

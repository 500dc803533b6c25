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

// planSet implements spec §4.10's SET planner, ported from
// original_source/src/frontend/set_stmt.rs's plan_set/parse_set_clause: each
// single_assignment/append_assignment/overwrite_assignment child becomes one
// SetAction against the active scope.
func planSet(pc *PlanningContext, src PlanNode, setStmt *grammar.Node) (PlanNode, error) {
	actions, err := parseSetClause(pc, setStmt)
	if err != nil {
		return nil, err
	}
	return SetProperties{Src: src, Updates: actions}, nil
}

func parseSetClause(pc *PlanningContext, setStmt *grammar.Node) ([]SetAction, error) {
	var actions []SetAction
	for _, assignment := range setStmt.Children {
		switch assignment.Rule {
		case grammar.RuleSingleAssignment:
			entity := pc.Tokenize(assignment.Children[0].Text)
			key := pc.Tokenize(assignment.Children[1].Text)
			val, err := planExpr(pc, assignment.Children[2])
			if err != nil {
				return nil, err
			}
			actions = append(actions, SingleAssign{Entity: pc.GetOrAllocSlot(entity), Key: key, Value: val})

		case grammar.RuleAppendAssignment:
			entity := pc.Tokenize(assignment.Children[0].Text)
			val, err := planExpr(pc, assignment.Children[1])
			if err != nil {
				return nil, err
			}
			actions = append(actions, Append{Entity: pc.GetOrAllocSlot(entity), Value: val})

		case grammar.RuleOverwriteAssignment:
			entity := pc.Tokenize(assignment.Children[0].Text)
			val, err := planExpr(pc, assignment.Children[1])
			if err != nil {
				return nil, err
			}
			actions = append(actions, Overwrite{Entity: pc.GetOrAllocSlot(entity), Value: val})

		default:
			return nil, ErrUnsupportedRule.New(string(assignment.Rule))
		}
	}
	return actions, nil
}

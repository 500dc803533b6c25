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

// planUnwind implements spec §4.10's UNWIND planner: plan the list
// expression against the current scope, then declare its alias and bind it
// a slot.
func planUnwind(pc *PlanningContext, src PlanNode, unwindStmt *grammar.Node) (PlanNode, error) {
	listExpr, err := planExpr(pc, unwindStmt.Children[0])
	if err != nil {
		return nil, err
	}

	aliasNode := unwindStmt.Children[1]
	alias := pc.Declare(aliasNode.Text)

	return Unwind{Src: src, ListExpr: listExpr, Alias: pc.GetOrAllocSlot(alias)}, nil
}

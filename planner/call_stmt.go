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

// planCall resolves the named procedure against the backend's catalog and
// plans each argument expression against the current scope.
func planCall(pc *PlanningContext, src PlanNode, callStmt *grammar.Node) (PlanNode, error) {
	nameNode := callStmt.Children[0]
	name := pc.Tokenize(nameNode.Text)

	if _, ok := pc.BackendDesc().Lookup(name); !ok {
		return nil, ErrUnknownProcedure.New(nameNode.Text)
	}

	var args []Expr
	for _, c := range callStmt.Children[1:] {
		arg, err := planExpr(pc, c)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return Call{Src: src, Name: name, Args: args}, nil
}

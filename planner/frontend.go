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

// Package planner turns a parsed query into a LogicalPlan tree: tokenizing
// identifiers, tracking scopes across WITH boundaries, normalizing patterns
// into a graph, and lowering each statement into its operators.
package planner

import (
	"github.com/sirupsen/logrus"

	"github.com/jakewins/g/backend"
	"github.com/jakewins/g/grammar"
	"github.com/jakewins/g/token"
)

// Frontend owns the shared token table and backend catalog a query is
// planned against. Every PlanningContext it plans in shares f.Tokens, which
// is mutated during planning without locking, so a Frontend must not plan
// two queries concurrently.
type Frontend struct {
	Tokens      *token.Tokens
	BackendDesc *backend.Desc
	Logger      *logrus.Logger
}

// Plan parses and plans query_str against a fresh PlanningContext.
func (f *Frontend) Plan(queryStr string) (PlanNode, error) {
	return f.PlanInContext(queryStr, NewPlanningContext(f.Tokens, f.BackendDesc))
}

// PlanInContext parses and plans query_str, threading the plan built so far
// from one statement into the next exactly as the query text orders them.
func (f *Frontend) PlanInContext(queryStr string, pc *PlanningContext) (PlanNode, error) {
	query, err := grammar.Parse(queryStr)
	if err != nil {
		return nil, err
	}

	var plan PlanNode = Argument{}
	for _, stmt := range query.Children {
		plan, err = f.planStatement(pc, plan, stmt)
		if err != nil {
			return nil, err
		}
	}

	f.logPlan(plan, pc)
	return plan, nil
}

func (f *Frontend) planStatement(pc *PlanningContext, plan PlanNode, stmt *grammar.Node) (PlanNode, error) {
	switch stmt.Rule {
	case grammar.RuleMatchStmt:
		return planMatch(pc, plan, stmt)
	case grammar.RuleUnwindStmt:
		return planUnwind(pc, plan, stmt)
	case grammar.RuleCreateStmt:
		return planCreate(pc, plan, stmt)
	case grammar.RuleMergeStmt:
		return planMerge(pc, plan, stmt)
	case grammar.RuleReturnStmt:
		return planReturn(pc, plan, stmt)
	case grammar.RuleCallStmt:
		return planCall(pc, plan, stmt)
	case grammar.RuleWithStmt:
		return planWith(pc, plan, stmt)
	case grammar.RuleSetStmt:
		return planSet(pc, plan, stmt)
	default:
		return nil, ErrUnsupportedRule.New(string(stmt.Rule))
	}
}

func (f *Frontend) logPlan(plan PlanNode, pc *PlanningContext) {
	logger := f.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("component", "planner").Debugf("plan: %s", Pretty(plan, pc.Tokens()))
}

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

// planWith implements spec §4.9's WITH planner: it detaches the old scope,
// plans every projection against it, declares each alias in a fresh scope,
// then attaches the fresh scope so everything downstream resolves
// identifiers against the post-WITH names only.
func planWith(pc *PlanningContext, src PlanNode, withStmt *grammar.Node) (PlanNode, error) {
	return planProjectionClause(pc, src, withStmt, false)
}

// planReturn is planWith's counterpart for RETURN: identical projection
// handling, plus a trailing ProduceResult naming the output fields.
func planReturn(pc *PlanningContext, src PlanNode, returnStmt *grammar.Node) (PlanNode, error) {
	return planProjectionClause(pc, src, returnStmt, true)
}

func planProjectionClause(pc *PlanningContext, src PlanNode, stmt *grammar.Node, produceResult bool) (PlanNode, error) {
	old := pc.DetachScope()

	distinct := stmt.Has(grammar.RuleDistinct)
	projNodes := stmt.ChildrenOf(grammar.RuleProjection)

	fresh := pc.createScope()

	var projections []Projection
	var fields []Field
	for _, p := range projNodes {
		if p.Text == "*" {
			for _, id := range old.NamedIdentifiers() {
				slot := old.GetOrAllocSlot(id)
				dst := fresh.GetOrAllocSlot(id)
				fresh.DeclareTok(id)
				projections = append(projections, Projection{Expr: SlotExpr{Slot: slot}, Alias: id, Dst: dst})
				fields = append(fields, Field{Name: id, Slot: dst})
			}
			continue
		}

		expr, err := planExprInScope(pc, old, p.Children[0])
		if err != nil {
			return nil, err
		}

		alias := projectionAlias(old, p, p.Children[0])
		dst := fresh.GetOrAllocSlot(alias)
		fresh.DeclareTok(alias)
		projections = append(projections, Projection{Expr: expr, Alias: alias, Dst: dst})
		fields = append(fields, Field{Name: alias, Slot: dst})
	}

	plan, err := buildProjectionOrAggregate(src, projections)
	if err != nil {
		return nil, err
	}

	// DISTINCT dedups immediately after projection (spec §4.9 step 4), so
	// ORDER BY/WHERE/SKIP/LIMIT below see already-deduplicated rows.
	if distinct {
		var grouping []AggEntry
		for _, f := range fields {
			grouping = append(grouping, AggEntry{Expr: SlotExpr{Slot: f.Slot}, Dst: f.Slot})
		}
		plan = Aggregate{Src: plan, Grouping: grouping}
	}

	pc.RetireScope(old)
	pc.AttachScope(fresh)

	if orderBy := stmt.Child(grammar.RuleOrderBy); orderBy != nil {
		var sortBy []SortKey
		for _, item := range orderBy.Children {
			e, err := planExpr(pc, item.Children[0])
			if err != nil {
				return nil, err
			}
			sortBy = append(sortBy, SortKey{Expr: e, Descending: item.Text == "DESC"})
		}
		plan = Sort{Src: plan, SortBy: sortBy}
	}

	if where := stmt.Child(grammar.RuleWhereClause); where != nil {
		pred, err := planExpr(pc, where.Children[0])
		if err != nil {
			return nil, err
		}
		plan = Selection{Src: plan, Predicate: pred}
	}

	var skipExpr, limitExpr Expr
	if skip := stmt.Child(grammar.RuleSkip); skip != nil {
		e, err := planExpr(pc, skip.Children[0])
		if err != nil {
			return nil, err
		}
		skipExpr = e
	}
	if limit := stmt.Child(grammar.RuleLimit); limit != nil {
		e, err := planExpr(pc, limit.Children[0])
		if err != nil {
			return nil, err
		}
		limitExpr = e
	}
	if skipExpr != nil || limitExpr != nil {
		plan = Limit{Src: plan, Skip: skipExpr, LimitExpr: limitExpr}
	}

	if produceResult {
		plan = ProduceResult{Src: plan, Fields: fields}
	}

	return plan, nil
}

// planExprInScope runs planExpr with old temporarily installed as the
// active scope, since projections resolve identifiers against the scope
// that's ending, not the one being built.
func planExprInScope(pc *PlanningContext, old *Scope, n *grammar.Node) (Expr, error) {
	pc.AttachScope(old)
	e, err := planExpr(pc, n)
	pc.DetachScope()
	return e, err
}

// projectionAlias returns the user-given "AS alias", or — for a bare
// identifier projection like "RETURN n" — the identifier itself, matching
// Cypher's implicit-alias convention.
func projectionAlias(old *Scope, proj, exprNode *grammar.Node) token.Token {
	if idNode := proj.Child(grammar.RuleID); idNode != nil {
		return old.tokenize(idNode.Text)
	}
	return old.tokenize(exprNode.Text)
}

// buildProjectionOrAggregate routes through Aggregate instead of Project
// when any projected expression contains an aggregating function call,
// splitting projections into grouping keys (non-aggregating) and
// aggregations (containing a call the backend marked Aggregating).
func buildProjectionOrAggregate(src PlanNode, projections []Projection) (PlanNode, error) {
	anyAggregating := false
	for _, p := range projections {
		if containsAggregatingCall(p.Expr) {
			anyAggregating = true
			break
		}
	}
	if !anyAggregating {
		return Project{Src: src, Projections: projections}, nil
	}

	var grouping, aggregations []AggEntry
	for _, p := range projections {
		entry := AggEntry{Expr: p.Expr, Dst: p.Dst}
		if containsAggregatingCall(p.Expr) {
			aggregations = append(aggregations, entry)
		} else {
			grouping = append(grouping, entry)
		}
	}
	return Aggregate{Src: src, Grouping: grouping, Aggregations: aggregations}, nil
}

func containsAggregatingCall(e Expr) bool {
	switch v := e.(type) {
	case FuncCallExpr:
		if v.Aggregating {
			return true
		}
		for _, a := range v.Args {
			if containsAggregatingCall(a) {
				return true
			}
		}
		return false
	case BinOpExpr:
		return containsAggregatingCall(v.LHS) || containsAggregatingCall(v.RHS)
	case UnaryOpExpr:
		return containsAggregatingCall(v.Expr)
	case PropExpr:
		return containsAggregatingCall(v.Base)
	case ListExpr:
		for _, item := range v.Items {
			if containsAggregatingCall(item) {
				return true
			}
		}
		return false
	case MapExpr:
		for _, entry := range v.Entries {
			if containsAggregatingCall(entry.Val) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

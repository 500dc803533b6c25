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
	"strconv"
	"strings"

	"github.com/jakewins/g/backend"
	"github.com/jakewins/g/grammar"
)

// planExpr walks an expression parse-tree fragment bottom-up into an Expr,
// allocating slots in the active scope as identifiers are referenced (spec
// §4.4). Map and list literals recurse; function calls resolve their
// aggregating flag against the backend's catalog.
func planExpr(pc *PlanningContext, n *grammar.Node) (Expr, error) {
	switch n.Rule {
	case grammar.RuleIntLit:
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, err
		}
		return IntExpr{Value: v}, nil

	case grammar.RuleFloatLit:
		v, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, err
		}
		return FloatExpr{Value: v}, nil

	case grammar.RuleStringLit:
		return StringExpr{Value: unquoteStringLiteral(n.Text)}, nil

	case grammar.RuleBoolLit:
		return BoolExpr{Value: n.Text == "true"}, nil

	case grammar.RuleNullLit:
		return NullExpr{}, nil

	case grammar.RuleList:
		items := make([]Expr, len(n.Children))
		for i, c := range n.Children {
			e, err := planExpr(pc, c)
			if err != nil {
				return nil, err
			}
			items[i] = e
		}
		return ListExpr{Items: items}, nil

	case grammar.RuleMap:
		entries, err := parseMapExpression(pc, n)
		if err != nil {
			return nil, err
		}
		return MapExpr{Entries: entries}, nil

	case grammar.RuleVariable:
		tok := pc.Tokenize(n.Text)
		return SlotExpr{Slot: pc.GetOrAllocSlot(tok)}, nil

	case grammar.RulePropLookup:
		base, err := planExpr(pc, n.Children[0])
		if err != nil {
			return nil, err
		}
		return PropExpr{Base: base, Key: pc.Tokenize(n.Text)}, nil

	case grammar.RuleFuncCall:
		return planFuncCall(pc, n)

	case grammar.RuleBinOp:
		lhs, err := planExpr(pc, n.Children[0])
		if err != nil {
			return nil, err
		}
		rhs, err := planExpr(pc, n.Children[1])
		if err != nil {
			return nil, err
		}
		return BinOpExpr{Op: Op(n.Text), LHS: lhs, RHS: rhs}, nil

	case grammar.RuleUnaryOp:
		inner, err := planExpr(pc, n.Children[0])
		if err != nil {
			return nil, err
		}
		op := OpNot
		if n.Text == "-" {
			op = OpNeg
		}
		return UnaryOpExpr{Op: op, Expr: inner}, nil

	default:
		return nil, ErrUnsupportedRule.New(string(n.Rule))
	}
}

func planFuncCall(pc *PlanningContext, n *grammar.Node) (Expr, error) {
	name := pc.Tokenize(n.Text)
	distinct := n.Has(grammar.RuleDistinct)

	var args []Expr
	for _, c := range n.Children {
		if c.Rule == grammar.RuleDistinct {
			continue
		}
		arg, err := planExpr(pc, c)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	sig, ok := pc.BackendDesc().Lookup(name)
	if !ok {
		return nil, ErrUnknownFunction.New(n.Text)
	}

	return FuncCallExpr{
		Name:        name,
		Args:        args,
		Aggregating: sig.FuncType == backend.Aggregating,
		Distinct:    distinct,
	}, nil
}

// parseMapExpression plans a map literal's entries (used both for plain map
// expressions and the inline property maps attached to pattern nodes/rels).
func parseMapExpression(pc *PlanningContext, n *grammar.Node) ([]MapEntryExpr, error) {
	entries := make([]MapEntryExpr, 0, len(n.Children))
	for _, c := range n.Children {
		val, err := planExpr(pc, c.Children[0])
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntryExpr{Key: pc.Tokenize(c.Text), Val: val})
	}
	return entries, nil
}

// unquoteStringLiteral strips the lexer's surrounding quote characters and
// drops each escaping backslash, keeping the character after it as-is (so
// \' yields ' and \n yields n, not a newline).
func unquoteStringLiteral(text string) string {
	if len(text) < 2 {
		return text
	}
	inner := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

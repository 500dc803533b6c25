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
	"fmt"

	"github.com/jakewins/g/token"
)

// Expr is one node of an expression tree. The concrete types below are the
// only implementations; a type switch in the pretty-printer and elsewhere
// covers all of them exhaustively.
type Expr interface {
	exprNode()
}

// Op names a binary or unary operator. It is a plain string rather than an
// enum since the grammar already hands us the operator spelling and there
// is no behavior keyed off anything but equality and formatting.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
	OpXor Op = "XOR"
	OpNot Op = "NOT"
	OpEq  Op = "="
	OpNeq Op = "<>"
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLe  Op = "<="
	OpGe  Op = ">="
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
	OpNeg Op = "NEG"
)

// IntExpr is an integer literal.
type IntExpr struct{ Value int64 }

// FloatExpr is a floating-point literal.
type FloatExpr struct{ Value float64 }

// StringExpr is a string literal, with quoting already stripped.
type StringExpr struct{ Value string }

// BoolExpr is a boolean literal.
type BoolExpr struct{ Value bool }

// NullExpr is the null literal; it carries no data.
type NullExpr struct{}

// ListExpr is a list literal; its elements may themselves be arbitrary
// expressions, including nested lists.
type ListExpr struct{ Items []Expr }

// MapExpr is a map literal; order of Entries is source order, and is
// preserved for pretty-printing even though map semantics are unordered.
type MapExpr struct{ Entries []MapEntryExpr }

// MapEntryExpr is one key/value pair of a map literal or an inline pattern
// property map.
type MapEntryExpr struct {
	Key token.Token
	Val Expr
}

// SlotExpr reads the value of a row slot — the result of resolving an
// identifier reference against the active scope.
type SlotExpr struct{ Slot int }

// PropExpr accesses a property by key off the value produced by Base.
type PropExpr struct {
	Base Expr
	Key  token.Token
}

// FuncCallExpr invokes a scalar or aggregating function. Aggregating is
// resolved from the BackendDesc at planning time so downstream planners
// don't need to re-resolve the signature to decide whether to route the
// call through Aggregate.
type FuncCallExpr struct {
	Name        token.Token
	Args        []Expr
	Aggregating bool
	Distinct    bool
}

// HasLabelExpr tests whether the node read by Entity carries Label. It is
// how the pattern-graph builder's label constraints (spec §4.6 step 4)
// become part of the Selection predicate.
type HasLabelExpr struct {
	Entity Expr
	Label  token.Token
}

// BinOpExpr is a binary operator application.
type BinOpExpr struct {
	Op       Op
	LHS, RHS Expr
}

// UnaryOpExpr is a unary operator application (NOT, unary minus).
type UnaryOpExpr struct {
	Op   Op
	Expr Expr
}

func (IntExpr) exprNode()      {}
func (FloatExpr) exprNode()    {}
func (StringExpr) exprNode()   {}
func (BoolExpr) exprNode()     {}
func (NullExpr) exprNode()     {}
func (ListExpr) exprNode()     {}
func (MapExpr) exprNode()      {}
func (SlotExpr) exprNode()     {}
func (PropExpr) exprNode()     {}
func (HasLabelExpr) exprNode() {}
func (FuncCallExpr) exprNode() {}
func (BinOpExpr) exprNode()    {}
func (UnaryOpExpr) exprNode()  {}

// fmtExpr renders e in the compact, Rust-Debug-like form the original
// pretty-printer used (spec §9 leaves the exact format unspecified but
// stable enough for golden tests).
func fmtExpr(e Expr, t *token.Tokens) string {
	switch v := e.(type) {
	case IntExpr:
		return fmt.Sprintf("Int(%d)", v.Value)
	case FloatExpr:
		return fmt.Sprintf("Float(%v)", v.Value)
	case StringExpr:
		return fmt.Sprintf("Str(%q)", v.Value)
	case BoolExpr:
		return fmt.Sprintf("Bool(%v)", v.Value)
	case NullExpr:
		return "Null"
	case ListExpr:
		s := "List(["
		for i, item := range v.Items {
			if i > 0 {
				s += ", "
			}
			s += fmtExpr(item, t)
		}
		return s + "])"
	case MapExpr:
		s := "Map({"
		for i, entry := range v.Entries {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s: %s", t.MustLookup(entry.Key), fmtExpr(entry.Val, t))
		}
		return s + "})"
	case SlotExpr:
		return fmt.Sprintf("Slot(%d)", v.Slot)
	case PropExpr:
		return fmt.Sprintf("Prop(%s, %s)", fmtExpr(v.Base, t), t.MustLookup(v.Key))
	case HasLabelExpr:
		return fmt.Sprintf("HasLabel(%s, %s)", fmtExpr(v.Entity, t), t.MustLookup(v.Label))
	case FuncCallExpr:
		s := fmt.Sprintf("FuncCall(%s, distinct=%v, [", t.MustLookup(v.Name), v.Distinct)
		for i, a := range v.Args {
			if i > 0 {
				s += ", "
			}
			s += fmtExpr(a, t)
		}
		return s + "])"
	case BinOpExpr:
		return fmt.Sprintf("(%s %s %s)", fmtExpr(v.LHS, t), v.Op, fmtExpr(v.RHS, t))
	case UnaryOpExpr:
		return fmt.Sprintf("(%s %s)", v.Op, fmtExpr(v.Expr, t))
	default:
		return fmt.Sprintf("%#v", e)
	}
}

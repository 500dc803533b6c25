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

// Package grammar implements a recursive-descent LL(1) parser for the
// Cypher-lite query language, producing a typed parse tree the planner
// walks structurally. It plays the role spec.md describes as an external,
// black-box grammar engine; this module gives that role one concrete
// implementation so the rest of the frontend is testable end to end.
package grammar

// Rule tags the kind of grammar production a Node represents. These are
// exactly the rule names enumerated in spec.md §6, plus the clause-level
// rules those statements are built from (map entries, SET assignments,
// projection/ORDER BY/SKIP/LIMIT parts) and a small, generic set of
// expression/operator rules that section calls out only collectively
// ("expression/operator rules").
type Rule string

const (
	RuleQuery           Rule = "query"
	RuleMatchStmt       Rule = "match_stmt"
	RuleOptionalClause  Rule = "optional_clause"
	RulePattern         Rule = "pattern"
	RuleNode            Rule = "node"
	RuleRel             Rule = "rel"
	RuleLeftArrow       Rule = "left_arrow"
	RuleRightArrow      Rule = "right_arrow"
	RuleRelType         Rule = "rel_type"
	RuleLabel           Rule = "label"
	RuleID              Rule = "id"
	RuleMap             Rule = "map"
	RuleMapEntry        Rule = "map_entry"
	RuleWhereClause     Rule = "where_clause"
	RuleCreateStmt      Rule = "create_stmt"
	RuleMergeStmt       Rule = "merge_stmt"
	RuleWithStmt        Rule = "with_stmt"
	RuleReturnStmt      Rule = "return_stmt"
	RuleUnwindStmt      Rule = "unwind_stmt"
	RuleCallStmt        Rule = "call_stmt"
	RuleSetStmt         Rule = "set_stmt"

	RuleSingleAssignment    Rule = "single_assignment"
	RuleAppendAssignment    Rule = "append_assignment"
	RuleOverwriteAssignment Rule = "overwrite_assignment"

	RuleProjection     Rule = "projection"
	RuleDistinct       Rule = "distinct_clause"
	RuleOrderBy        Rule = "order_by"
	RuleSortItem       Rule = "sort_item"
	RuleSkip           Rule = "skip_clause"
	RuleLimit          Rule = "limit_clause"

	RuleIntLit    Rule = "int_lit"
	RuleFloatLit  Rule = "float_lit"
	RuleStringLit Rule = "string_lit"
	RuleBoolLit   Rule = "bool_lit"
	RuleNullLit   Rule = "null_lit"
	RuleList      Rule = "list"
	RuleVariable  Rule = "variable"
	RulePropLookup Rule = "property_lookup"
	RuleFuncCall  Rule = "func_call"
	RuleBinOp     Rule = "binop"
	RuleUnaryOp   Rule = "unary_op"
)

// Node is one production of the parse tree: a rule tag, the raw source
// text it spans (meaningful for leaves like id/label/literals), and its
// children in source order.
type Node struct {
	Rule     Rule
	Text     string
	Children []*Node
}

// Child returns the first child tagged with rule, or nil.
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// ChildrenOf returns every direct child tagged with rule, in order.
func (n *Node) ChildrenOf(rule Rule) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether n has a direct child tagged with rule.
func (n *Node) Has(rule Rule) bool {
	return n.Child(rule) != nil
}

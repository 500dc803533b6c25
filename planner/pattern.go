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
	"sort"

	"github.com/jakewins/g/grammar"
	"github.com/jakewins/g/token"
)

// PatternNode is one node position of a MATCH/CREATE/MERGE pattern, after
// label canonicalization and identifier resolution but before scan/expand
// planning.
type PatternNode struct {
	Identifier token.Token
	Labels     []token.Token
	Props      []MapEntryExpr
	// Anonymous is true when the pattern never named this position, e.g.
	// the second node of "MATCH (a)-->()".
	Anonymous bool
	// Bound is true when Identifier was already declared in an enclosing
	// scope before this pattern was parsed.
	Bound bool
	// Solved starts equal to Bound and flips to true once the MATCH
	// planner has emitted an operator that binds Identifier.
	Solved bool
}

// PatternRel is one relationship segment of a pattern. Dir is interpreted
// from the perspective of LeftNode; nil means the pattern left it
// undirected ("--").
type PatternRel struct {
	Identifier token.Token
	RelType    *token.Token
	LeftNode   token.Token
	RightNode  *token.Token
	Dir        *Dir
	Props      []MapEntryExpr
	Anonymous  bool
	Bound      bool
	Solved     bool
}

// PatternGraph is the normalized form of a MATCH pattern: every node and
// relationship it mentions, in the order nodes were first named, plus any
// WHERE predicate and whether it's an OPTIONAL MATCH.
type PatternGraph struct {
	V      map[token.Token]*PatternNode
	VOrder []token.Token
	E      []*PatternRel

	// UnboundIdentifiers lists identifiers this pattern introduces that
	// weren't already declared in an enclosing scope.
	UnboundIdentifiers []token.Token

	Optional bool

	// Predicate must hold for the pattern to match. May be nested And/Or
	// of arbitrary depth; spec §9 notes this is evaluated only after all
	// scans/expands (acknowledged as suboptimal, kept for parity).
	Predicate Expr
}

func newPatternGraph() *PatternGraph {
	return &PatternGraph{V: make(map[token.Token]*PatternNode)}
}

func (pg *PatternGraph) mergeNode(n *PatternNode) {
	if existing, ok := pg.V[n.Identifier]; ok {
		// A later mention of the same identifier within one pattern
		// (e.g. "(a)-->(b)-->(a:Person)") adds its labels and property
		// constraints to the node already recorded.
		if len(n.Labels) > 0 {
			labels := append(append([]token.Token{}, existing.Labels...), n.Labels...)
			sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
			existing.Labels = dedupTokens(labels)
		}
		existing.Props = append(existing.Props, n.Props...)
		return
	}
	pg.VOrder = append(pg.VOrder, n.Identifier)
	pg.V[n.Identifier] = n
}

func (pg *PatternGraph) mergeRel(r *PatternRel) {
	pg.E = append(pg.E, r)
}

// parsePatternGraph builds a PatternGraph from a match_stmt node (or any
// node shaped the same way: an optional_clause, one or more patterns, and
// an optional where_clause, as produced by the grammar package).
func parsePatternGraph(pc *PlanningContext, matchStmt *grammar.Node) (*PatternGraph, error) {
	pg := newPatternGraph()

	for _, part := range matchStmt.Children {
		switch part.Rule {
		case grammar.RuleOptionalClause:
			pg.Optional = true

		case grammar.RulePattern:
			if err := parsePatternSegment(pc, pg, part); err != nil {
				return nil, err
			}

		case grammar.RuleWhereClause:
			pred, err := planExpr(pc, part.Children[0])
			if err != nil {
				return nil, err
			}
			pg.Predicate = pred

		default:
			return nil, ErrUnsupportedRule.New(string(part.Rule))
		}
	}

	return pg, nil
}

func parsePatternSegment(pc *PlanningContext, pg *PatternGraph, pattern *grammar.Node) error {
	var priorNodeID *token.Token
	var priorRel *PatternRel

	for _, segment := range pattern.Children {
		switch segment.Rule {
		case grammar.RuleNode:
			current, err := parsePatternNode(pc, segment)
			if err != nil {
				return err
			}
			if !current.Anonymous && !current.Bound {
				if isNew := pc.DeclareTok(current.Identifier); isNew {
					pg.UnboundIdentifiers = append(pg.UnboundIdentifiers, current.Identifier)
				}
			}
			id := current.Identifier
			priorNodeID = &id
			pg.mergeNode(current)
			if priorRel != nil {
				priorRel.RightNode = &id
				pg.mergeRel(priorRel)
				priorRel = nil
			}

		case grammar.RuleRel:
			if priorNodeID == nil {
				panic("pattern rel must be preceded by node; this is a programming bug in the grammar or planner")
			}
			current, err := parsePatternRel(pc, *priorNodeID, segment)
			if err != nil {
				return err
			}
			if !current.Anonymous && !current.Bound {
				if isNew := pc.DeclareTok(current.Identifier); isNew {
					pg.UnboundIdentifiers = append(pg.UnboundIdentifiers, current.Identifier)
				}
			}
			priorRel = current
			priorNodeID = nil

		default:
			return ErrUnsupportedRule.New(string(segment.Rule))
		}
	}
	return nil
}

func parsePatternNode(pc *PlanningContext, n *grammar.Node) (*PatternNode, error) {
	var identifier *token.Token
	var labels []token.Token
	var props []MapEntryExpr

	for _, part := range n.Children {
		switch part.Rule {
		case grammar.RuleID:
			tok := pc.Tokenize(part.Text)
			identifier = &tok
		case grammar.RuleLabel:
			labels = append(labels, pc.Tokenize(part.Text))
		case grammar.RuleMap:
			entries, err := parseMapExpression(pc, part)
			if err != nil {
				return nil, err
			}
			props = entries
		default:
			return nil, ErrUnsupportedRule.New(string(part.Rule))
		}
	}

	anonymous := identifier == nil
	var id token.Token
	if identifier != nil {
		id = *identifier
	} else {
		id = pc.NewAnonNode()
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	labels = dedupTokens(labels)

	bound := pc.IsDeclared(id)
	return &PatternNode{
		Identifier: id,
		Labels:     labels,
		Props:      props,
		Anonymous:  anonymous,
		Bound:      bound,
		Solved:     bound,
	}, nil
}

func parsePatternRel(pc *PlanningContext, leftNode token.Token, n *grammar.Node) (*PatternRel, error) {
	var identifier *token.Token
	var relType *token.Token
	var props []MapEntryExpr
	hasLeftArrow, hasRightArrow := false, false

	for _, part := range n.Children {
		switch part.Rule {
		case grammar.RuleID:
			tok := pc.Tokenize(part.Text)
			identifier = &tok
		case grammar.RuleRelType:
			tok := pc.Tokenize(part.Text)
			relType = &tok
		case grammar.RuleLeftArrow:
			hasLeftArrow = true
		case grammar.RuleRightArrow:
			hasRightArrow = true
		case grammar.RuleMap:
			entries, err := parseMapExpression(pc, part)
			if err != nil {
				return nil, err
			}
			props = entries
		default:
			return nil, ErrUnsupportedRule.New(string(part.Rule))
		}
	}

	if hasLeftArrow && hasRightArrow {
		return nil, ErrAmbiguousDirection.New()
	}

	var dir *Dir
	switch {
	case hasLeftArrow:
		d := DirIn
		dir = &d
	case hasRightArrow:
		d := DirOut
		dir = &d
	}

	anonymous := identifier == nil
	var id token.Token
	if identifier != nil {
		id = *identifier
	} else {
		id = pc.NewAnonRel()
	}

	bound := pc.IsDeclared(id)
	return &PatternRel{
		Identifier: id,
		RelType:    relType,
		LeftNode:   leftNode,
		RightNode:  nil,
		Dir:        dir,
		Props:      props,
		Anonymous:  anonymous,
		Bound:      bound,
		Solved:     bound,
	}, nil
}

func dedupTokens(toks []token.Token) []token.Token {
	if len(toks) == 0 {
		return toks
	}
	out := toks[:1]
	for _, t := range toks[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}

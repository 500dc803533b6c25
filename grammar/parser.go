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

package grammar

import (
	"fmt"

	"github.com/jakewins/g/lexer"
)

// Parse turns a query string into a parse tree rooted at a RuleQuery node.
// Errors returned here are syntax errors in the sense of spec §7: they come
// from the grammar layer, not from the planner, and are surfaced unchanged
// by the frontend.
func Parse(input string) (*Node, error) {
	p := &parser{l: newLLk(input)}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	l *llk
}

func (p *parser) errf(format string, args ...interface{}) error {
	t := p.l.current()
	return fmt.Errorf("syntax error at line %d, col %d near %q: %s", t.Line, t.Col, t.Text, fmt.Sprintf(format, args...))
}

func (p *parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	t, ok := p.l.consume(tt)
	if !ok {
		return lexer.Token{}, p.errf("expected %s, found %s", tt, p.l.current().Type)
	}
	return t, nil
}

func (p *parser) is(tt lexer.TokenType) bool {
	return p.l.is(tt)
}

func (p *parser) parseQuery() (*Node, error) {
	q := &Node{Rule: RuleQuery}
	for !p.is(lexer.ItemEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		q.Children = append(q.Children, stmt)
		p.l.consume(lexer.ItemSemicolon)
	}
	if _, err := p.expect(lexer.ItemEOF); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *parser) parseStatement() (*Node, error) {
	switch p.l.current().Type {
	case lexer.ItemMatch, lexer.ItemOptional:
		return p.parseMatchStmt()
	case lexer.ItemCreate:
		return p.parseCreateStmt()
	case lexer.ItemMerge:
		return p.parseMergeStmt()
	case lexer.ItemWith:
		return p.parseWithStmt()
	case lexer.ItemReturn:
		return p.parseReturnStmt()
	case lexer.ItemUnwind:
		return p.parseUnwindStmt()
	case lexer.ItemCall:
		return p.parseCallStmt()
	case lexer.ItemSet:
		return p.parseSetStmt()
	default:
		return nil, p.errf("expected a statement, found %s", p.l.current().Type)
	}
}

func (p *parser) parseMatchStmt() (*Node, error) {
	var children []*Node
	if _, ok := p.l.consume(lexer.ItemOptional); ok {
		children = append(children, &Node{Rule: RuleOptionalClause})
	}
	if _, err := p.expect(lexer.ItemMatch); err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	children = append(children, pat)
	for {
		if _, ok := p.l.consume(lexer.ItemComma); !ok {
			break
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		children = append(children, pat)
	}
	if _, ok := p.l.consume(lexer.ItemWhere); ok {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleWhereClause, Children: []*Node{expr}})
	}
	return &Node{Rule: RuleMatchStmt, Children: children}, nil
}

// parsePattern parses one connected chain: node (rel node)*.
func (p *parser) parsePattern() (*Node, error) {
	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	children := []*Node{n}
	for p.is(lexer.ItemMinus) || p.is(lexer.ItemLT) {
		rel, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		children = append(children, rel, node)
	}
	return &Node{Rule: RulePattern, Children: children}, nil
}

func (p *parser) parseNode() (*Node, error) {
	if _, err := p.expect(lexer.ItemLParen); err != nil {
		return nil, err
	}
	var children []*Node
	if p.is(lexer.ItemIdentifier) {
		id, _ := p.l.consume(lexer.ItemIdentifier)
		children = append(children, &Node{Rule: RuleID, Text: id.Text})
	}
	for {
		if _, ok := p.l.consume(lexer.ItemColon); !ok {
			break
		}
		lbl, err := p.expect(lexer.ItemIdentifier)
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleLabel, Text: lbl.Text})
	}
	if p.is(lexer.ItemLBrace) {
		m, err := p.parseMap()
		if err != nil {
			return nil, err
		}
		children = append(children, m)
	}
	if _, err := p.expect(lexer.ItemRParen); err != nil {
		return nil, err
	}
	return &Node{Rule: RuleNode, Children: children}, nil
}

// parseRel parses a relationship segment: [<] - [ [id] [:type] [map] ] - [>]
// Both arrowheads present is grammatically accepted (the planner's pattern
// builder rejects it as a semantic error per spec §4.5 step 4 — the same
// split the original Rust frontend makes, where the pest grammar accepts
// the shape and frontend code bails on it).
func (p *parser) parseRel() (*Node, error) {
	var children []*Node
	if _, ok := p.l.consume(lexer.ItemLT); ok {
		children = append(children, &Node{Rule: RuleLeftArrow})
	}
	if _, err := p.expect(lexer.ItemMinus); err != nil {
		return nil, err
	}
	if _, ok := p.l.consume(lexer.ItemLBracket); ok {
		if p.is(lexer.ItemIdentifier) {
			id, _ := p.l.consume(lexer.ItemIdentifier)
			children = append(children, &Node{Rule: RuleID, Text: id.Text})
		}
		if _, ok := p.l.consume(lexer.ItemColon); ok {
			rt, err := p.expect(lexer.ItemIdentifier)
			if err != nil {
				return nil, err
			}
			children = append(children, &Node{Rule: RuleRelType, Text: rt.Text})
		}
		if p.is(lexer.ItemLBrace) {
			m, err := p.parseMap()
			if err != nil {
				return nil, err
			}
			children = append(children, m)
		}
		if _, err := p.expect(lexer.ItemRBracket); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.ItemMinus); err != nil {
		return nil, err
	}
	if _, ok := p.l.consume(lexer.ItemGT); ok {
		children = append(children, &Node{Rule: RuleRightArrow})
	}
	return &Node{Rule: RuleRel, Children: children}, nil
}

func (p *parser) parseMap() (*Node, error) {
	if _, err := p.expect(lexer.ItemLBrace); err != nil {
		return nil, err
	}
	var children []*Node
	if !p.is(lexer.ItemRBrace) {
		entry, err := p.parseMapEntry()
		if err != nil {
			return nil, err
		}
		children = append(children, entry)
		for {
			if _, ok := p.l.consume(lexer.ItemComma); !ok {
				break
			}
			entry, err := p.parseMapEntry()
			if err != nil {
				return nil, err
			}
			children = append(children, entry)
		}
	}
	if _, err := p.expect(lexer.ItemRBrace); err != nil {
		return nil, err
	}
	return &Node{Rule: RuleMap, Children: children}, nil
}

func (p *parser) parseMapEntry() (*Node, error) {
	key, err := p.expect(lexer.ItemIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ItemColon); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Node{Rule: RuleMapEntry, Text: key.Text, Children: []*Node{val}}, nil
}

func (p *parser) parseCreateStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemCreate); err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	children := []*Node{pat}
	for {
		if _, ok := p.l.consume(lexer.ItemComma); !ok {
			break
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		children = append(children, pat)
	}
	return &Node{Rule: RuleCreateStmt, Children: children}, nil
}

func (p *parser) parseMergeStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemMerge); err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	return &Node{Rule: RuleMergeStmt, Children: []*Node{pat}}, nil
}

func (p *parser) parseWithStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemWith); err != nil {
		return nil, err
	}
	children, err := p.parseProjectionClauseBody()
	if err != nil {
		return nil, err
	}
	if _, ok := p.l.consume(lexer.ItemWhere); ok {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleWhereClause, Children: []*Node{expr}})
	}
	return &Node{Rule: RuleWithStmt, Children: children}, nil
}

func (p *parser) parseReturnStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemReturn); err != nil {
		return nil, err
	}
	children, err := p.parseProjectionClauseBody()
	if err != nil {
		return nil, err
	}
	return &Node{Rule: RuleReturnStmt, Children: children}, nil
}

// parseProjectionClauseBody parses the part shared by WITH and RETURN:
// [DISTINCT] projections [ORDER BY ...] [SKIP ...] [LIMIT ...].
func (p *parser) parseProjectionClauseBody() ([]*Node, error) {
	var children []*Node
	if _, ok := p.l.consume(lexer.ItemDistinct); ok {
		children = append(children, &Node{Rule: RuleDistinct})
	}
	projs, err := p.parseProjectionList()
	if err != nil {
		return nil, err
	}
	children = append(children, projs...)

	if p.is(lexer.ItemOrder) {
		ob, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		children = append(children, ob)
	}
	if p.is(lexer.ItemSkip) {
		p.l.consume(lexer.ItemSkip)
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleSkip, Children: []*Node{e}})
	}
	if p.is(lexer.ItemLimit) {
		p.l.consume(lexer.ItemLimit)
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleLimit, Children: []*Node{e}})
	}
	return children, nil
}

func (p *parser) parseProjectionList() ([]*Node, error) {
	if _, ok := p.l.consume(lexer.ItemStar); ok {
		return []*Node{{Rule: RuleProjection, Text: "*"}}, nil
	}
	proj, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	out := []*Node{proj}
	for {
		if _, ok := p.l.consume(lexer.ItemComma); !ok {
			break
		}
		proj, err := p.parseProjection()
		if err != nil {
			return nil, err
		}
		out = append(out, proj)
	}
	return out, nil
}

func (p *parser) parseProjection() (*Node, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	children := []*Node{e}
	if _, ok := p.l.consume(lexer.ItemAs); ok {
		id, err := p.expect(lexer.ItemIdentifier)
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{Rule: RuleID, Text: id.Text})
	}
	return &Node{Rule: RuleProjection, Children: children}, nil
}

func (p *parser) parseOrderBy() (*Node, error) {
	if _, err := p.expect(lexer.ItemOrder); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ItemBy); err != nil {
		return nil, err
	}
	item, err := p.parseSortItem()
	if err != nil {
		return nil, err
	}
	children := []*Node{item}
	for {
		if _, ok := p.l.consume(lexer.ItemComma); !ok {
			break
		}
		item, err := p.parseSortItem()
		if err != nil {
			return nil, err
		}
		children = append(children, item)
	}
	return &Node{Rule: RuleOrderBy, Children: children}, nil
}

func (p *parser) parseSortItem() (*Node, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	dir := "ASC"
	if _, ok := p.l.consume(lexer.ItemAsc); ok {
		dir = "ASC"
	} else if _, ok := p.l.consume(lexer.ItemDesc); ok {
		dir = "DESC"
	}
	return &Node{Rule: RuleSortItem, Text: dir, Children: []*Node{e}}, nil
}

func (p *parser) parseUnwindStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemUnwind); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ItemAs); err != nil {
		return nil, err
	}
	id, err := p.expect(lexer.ItemIdentifier)
	if err != nil {
		return nil, err
	}
	return &Node{Rule: RuleUnwindStmt, Children: []*Node{e, {Rule: RuleID, Text: id.Text}}}, nil
}

func (p *parser) parseCallStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemCall); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.ItemIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ItemLParen); err != nil {
		return nil, err
	}
	children := []*Node{{Rule: RuleID, Text: name.Text}}
	if !p.is(lexer.ItemRParen) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, e)
		for {
			if _, ok := p.l.consume(lexer.ItemComma); !ok {
				break
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, e)
		}
	}
	if _, err := p.expect(lexer.ItemRParen); err != nil {
		return nil, err
	}
	return &Node{Rule: RuleCallStmt, Children: children}, nil
}

func (p *parser) parseSetStmt() (*Node, error) {
	if _, err := p.expect(lexer.ItemSet); err != nil {
		return nil, err
	}
	item, err := p.parseSetItem()
	if err != nil {
		return nil, err
	}
	children := []*Node{item}
	for {
		if _, ok := p.l.consume(lexer.ItemComma); !ok {
			break
		}
		item, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		children = append(children, item)
	}
	return &Node{Rule: RuleSetStmt, Children: children}, nil
}

func (p *parser) parseSetItem() (*Node, error) {
	entity, err := p.expect(lexer.ItemIdentifier)
	if err != nil {
		return nil, err
	}
	entityNode := &Node{Rule: RuleID, Text: entity.Text}

	if _, ok := p.l.consume(lexer.ItemDot); ok {
		key, err := p.expect(lexer.ItemIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ItemEQ); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Node{Rule: RuleSingleAssignment, Children: []*Node{entityNode, {Rule: RuleID, Text: key.Text}, val}}, nil
	}
	if _, ok := p.l.consume(lexer.ItemPlusEq); ok {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Node{Rule: RuleAppendAssignment, Children: []*Node{entityNode, val}}, nil
	}
	if _, err := p.expect(lexer.ItemEQ); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Node{Rule: RuleOverwriteAssignment, Children: []*Node{entityNode, val}}, nil
}

// --- expressions, lowest to highest precedence ---

func (p *parser) parseExpr() (*Node, error) {
	return p.parseOr()
}

func newBinOp(op string, lhs, rhs *Node) *Node {
	return &Node{Rule: RuleBinOp, Text: op, Children: []*Node{lhs, rhs}}
}

func (p *parser) parseOr() (*Node, error) {
	lhs, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.l.consume(lexer.ItemOr); !ok {
			return lhs, nil
		}
		rhs, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		lhs = newBinOp("OR", lhs, rhs)
	}
}

func (p *parser) parseXor() (*Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.l.consume(lexer.ItemXor); !ok {
			return lhs, nil
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = newBinOp("XOR", lhs, rhs)
	}
}

func (p *parser) parseAnd() (*Node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.l.consume(lexer.ItemAnd); !ok {
			return lhs, nil
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = newBinOp("AND", lhs, rhs)
	}
}

func (p *parser) parseNot() (*Node, error) {
	if _, ok := p.l.consume(lexer.ItemNot); ok {
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Node{Rule: RuleUnaryOp, Text: "NOT", Children: []*Node{inner}}, nil
	}
	return p.parseComparison()
}

var cmpOps = map[lexer.TokenType]string{
	lexer.ItemEQ:  "=",
	lexer.ItemNEQ: "<>",
	lexer.ItemLT:  "<",
	lexer.ItemGT:  ">",
	lexer.ItemLE:  "<=",
	lexer.ItemGE:  ">=",
}

func (p *parser) parseComparison() (*Node, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for tt, opText := range cmpOps {
		if _, ok := p.l.consume(tt); ok {
			rhs, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			return newBinOp(opText, lhs, rhs), nil
		}
	}
	return lhs, nil
}

func (p *parser) parseAdd() (*Node, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var opText string
		switch {
		case p.l.is(lexer.ItemPlus):
			opText = "+"
		case p.l.is(lexer.ItemMinus):
			opText = "-"
		default:
			return lhs, nil
		}
		p.l.consume(p.l.current().Type)
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = newBinOp(opText, lhs, rhs)
	}
}

func (p *parser) parseMul() (*Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var opText string
		switch {
		case p.l.is(lexer.ItemStar):
			opText = "*"
		case p.l.is(lexer.ItemSlash):
			opText = "/"
		case p.l.is(lexer.ItemPercent):
			opText = "%"
		default:
			return lhs, nil
		}
		p.l.consume(p.l.current().Type)
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = newBinOp(opText, lhs, rhs)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if _, ok := p.l.consume(lexer.ItemMinus); ok {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Rule: RuleUnaryOp, Text: "-", Children: []*Node{inner}}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (*Node, error) {
	switch p.l.current().Type {
	case lexer.ItemInteger:
		t, _ := p.l.consume(lexer.ItemInteger)
		return &Node{Rule: RuleIntLit, Text: t.Text}, nil
	case lexer.ItemFloat:
		t, _ := p.l.consume(lexer.ItemFloat)
		return &Node{Rule: RuleFloatLit, Text: t.Text}, nil
	case lexer.ItemString:
		t, _ := p.l.consume(lexer.ItemString)
		return &Node{Rule: RuleStringLit, Text: t.Text}, nil
	case lexer.ItemTrue:
		p.l.consume(lexer.ItemTrue)
		return &Node{Rule: RuleBoolLit, Text: "true"}, nil
	case lexer.ItemFalse:
		p.l.consume(lexer.ItemFalse)
		return &Node{Rule: RuleBoolLit, Text: "false"}, nil
	case lexer.ItemNull:
		p.l.consume(lexer.ItemNull)
		return &Node{Rule: RuleNullLit}, nil
	case lexer.ItemLParen:
		p.l.consume(lexer.ItemLParen)
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ItemRParen); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.ItemLBracket:
		return p.parseListLiteral()
	case lexer.ItemLBrace:
		return p.parseMap()
	case lexer.ItemIdentifier:
		return p.parseIdentifierAtom()
	default:
		return nil, p.errf("expected an expression, found %s", p.l.current().Type)
	}
}

func (p *parser) parseListLiteral() (*Node, error) {
	if _, err := p.expect(lexer.ItemLBracket); err != nil {
		return nil, err
	}
	var children []*Node
	if !p.is(lexer.ItemRBracket) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, e)
		for {
			if _, ok := p.l.consume(lexer.ItemComma); !ok {
				break
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, e)
		}
	}
	if _, err := p.expect(lexer.ItemRBracket); err != nil {
		return nil, err
	}
	return &Node{Rule: RuleList, Children: children}, nil
}

func (p *parser) parseIdentifierAtom() (*Node, error) {
	name, _ := p.l.consume(lexer.ItemIdentifier)

	if p.is(lexer.ItemLParen) {
		p.l.consume(lexer.ItemLParen)
		var children []*Node
		if _, ok := p.l.consume(lexer.ItemDistinct); ok {
			children = append(children, &Node{Rule: RuleDistinct})
		}
		if !p.is(lexer.ItemRParen) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, e)
			for {
				if _, ok := p.l.consume(lexer.ItemComma); !ok {
					break
				}
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				children = append(children, e)
			}
		}
		if _, err := p.expect(lexer.ItemRParen); err != nil {
			return nil, err
		}
		return &Node{Rule: RuleFuncCall, Text: name.Text, Children: children}, nil
	}

	var n *Node = &Node{Rule: RuleVariable, Text: name.Text}
	for {
		if _, ok := p.l.consume(lexer.ItemDot); !ok {
			break
		}
		key, err := p.expect(lexer.ItemIdentifier)
		if err != nil {
			return nil, err
		}
		n = &Node{Rule: RulePropLookup, Text: key.Text, Children: []*Node{n}}
	}
	return n, nil
}

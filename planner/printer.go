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
	"strings"

	"github.com/jakewins/g/token"
)

// TreePrinter renders a tree of labeled nodes with box-drawing connectors.
// Its shape (WriteNode + WriteChildren, both called once per node) is
// observed from dolthub-go-mysql-server's sql.TreePrinter via its tests;
// that package's implementation wasn't part of the retrieval pack, so this
// is a from-scratch, standard-library-only reimplementation of the same
// small API rather than a grounded port — recorded in DESIGN.md.
type TreePrinter struct {
	node     string
	children []string
}

// NewTreePrinter returns an empty printer.
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// WriteNode sets this node's own label.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) {
	p.node = fmt.Sprintf(format, args...)
}

// WriteChildren appends already-rendered child trees, in order.
func (p *TreePrinter) WriteChildren(children ...string) {
	p.children = append(p.children, children...)
}

// String renders the accumulated tree.
func (p *TreePrinter) String() string {
	var b strings.Builder
	b.WriteString(p.node)
	for i, child := range p.children {
		last := i == len(p.children)-1
		lines := strings.Split(child, "\n")
		for j, line := range lines {
			b.WriteString("\n")
			switch {
			case j == 0 && last:
				b.WriteString("└─ ")
			case j == 0:
				b.WriteString("├─ ")
			case last:
				b.WriteString("   ")
			default:
				b.WriteString("│  ")
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

// Pretty renders p as a human-readable, multi-line tree. The exact format
// is diagnostic-only (spec §9): stable enough to golden-test, not a
// normative wire format.
func Pretty(p PlanNode, t *token.Tokens) string {
	switch v := p.(type) {
	case Argument:
		return "Argument()"

	case NodeScan:
		tp := NewTreePrinter()
		label := "<any>"
		if v.Label != nil {
			label = t.MustLookup(*v.Label)
		}
		tp.WriteNode("NodeScan(slot=%d, label=%s)", v.Slot, label)
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Expand:
		tp := NewTreePrinter()
		relType := "<any>"
		if v.RelType != nil {
			relType = t.MustLookup(*v.RelType)
		}
		dir := "either"
		if v.Dir != nil {
			dir = v.Dir.String()
		}
		tp.WriteNode("Expand(src_slot=%d, rel_slot=%d, dst_slot=%d, rel_type=%s, dir=%s)",
			v.SrcSlot, v.RelSlot, v.DstSlot, relType, dir)
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Optional:
		tp := NewTreePrinter()
		tp.WriteNode("Optional(slots=%v)", v.Slots)
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Selection:
		tp := NewTreePrinter()
		tp.WriteNode("Selection(predicate=%s)", fmtExpr(v.Predicate, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Create:
		tp := NewTreePrinter()
		tp.WriteNode("Create(nodes=%s, rels=%s)", fmtNodeSpecs(v.Nodes, t), fmtRelSpecs(v.Rels, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case SetProperties:
		tp := NewTreePrinter()
		tp.WriteNode("SetProperties(updates=%s)", fmtSetActions(v.Updates, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case ConditionalApply:
		tp := NewTreePrinter()
		tp.WriteNode("ConditionalApply(conditions=%v)", v.Conditions)
		tp.WriteChildren(Pretty(v.LHS, t), Pretty(v.RHS, t))
		return tp.String()

	case AntiConditionalApply:
		tp := NewTreePrinter()
		tp.WriteNode("AntiConditionalApply(conditions=%v)", v.Conditions)
		tp.WriteChildren(Pretty(v.LHS, t), Pretty(v.RHS, t))
		return tp.String()

	case Aggregate:
		tp := NewTreePrinter()
		tp.WriteNode("Aggregate(grouping=%s, aggregations=%s)", fmtAggEntries(v.Grouping, t), fmtAggEntries(v.Aggregations, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Unwind:
		tp := NewTreePrinter()
		tp.WriteNode("Unwind(list_expr=%s, alias=%d)", fmtExpr(v.ListExpr, t), v.Alias)
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Call:
		tp := NewTreePrinter()
		tp.WriteNode("Call(name=%s, args=%s)", t.MustLookup(v.Name), fmtExprs(v.Args, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case NestLoop:
		tp := NewTreePrinter()
		tp.WriteNode("NestLoop(predicate=%s)", fmtExpr(v.Predicate, t))
		tp.WriteChildren(Pretty(v.Outer, t), Pretty(v.Inner, t))
		return tp.String()

	case Project:
		tp := NewTreePrinter()
		tp.WriteNode("Project(projections=%s)", fmtProjections(v.Projections, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Sort:
		tp := NewTreePrinter()
		tp.WriteNode("Sort(by=%s)", fmtSortKeys(v.SortBy, t))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case Limit:
		tp := NewTreePrinter()
		skip, lim := "<none>", "<none>"
		if v.Skip != nil {
			skip = fmtExpr(v.Skip, t)
		}
		if v.LimitExpr != nil {
			lim = fmtExpr(v.LimitExpr, t)
		}
		tp.WriteNode("Limit(skip=%s, limit=%s)", skip, lim)
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	case ProduceResult:
		tp := NewTreePrinter()
		var fields []string
		for _, f := range v.Fields {
			fields = append(fields, fmt.Sprintf("%s=slot(%d)", t.MustLookup(f.Name), f.Slot))
		}
		tp.WriteNode("ProduceResult(fields=[%s])", strings.Join(fields, ", "))
		tp.WriteChildren(Pretty(v.Src, t))
		return tp.String()

	default:
		return fmt.Sprintf("NoPretty(%#v)", p)
	}
}

func fmtExprs(es []Expr, t *token.Tokens) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = fmtExpr(e, t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtSortKeys(ks []SortKey, t *token.Tokens) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", fmtExpr(k.Expr, t), dir)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtProjections(ps []Projection, t *token.Tokens) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s AS %s -> slot(%d)", fmtExpr(p.Expr, t), t.MustLookup(p.Alias), p.Dst)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtAggEntries(es []AggEntry, t *token.Tokens) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = fmt.Sprintf("%s -> slot(%d)", fmtExpr(e.Expr, t), e.Dst)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtNodeSpecs(ns []NodeSpec, t *token.Tokens) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		var labels []string
		for _, l := range n.Labels {
			labels = append(labels, t.MustLookup(l))
		}
		parts[i] = fmt.Sprintf("NodeSpec(slot=%d, labels=%v, props=%s)", n.Slot, labels, fmtMapEntries(n.Props, t))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtRelSpecs(rs []RelSpec, t *token.Tokens) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("RelSpec(slot=%d, rel_type=%s, start=%d, end=%d, props=%s)",
			r.Slot, t.MustLookup(r.RelType), r.StartNodeSlot, r.EndNodeSlot, fmtMapEntries(r.Props, t))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fmtMapEntries(es []MapEntryExpr, t *token.Tokens) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = fmt.Sprintf("%s: %s", t.MustLookup(e.Key), fmtExpr(e.Val, t))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func fmtSetActions(actions []SetAction, t *token.Tokens) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		switch v := a.(type) {
		case SingleAssign:
			parts[i] = fmt.Sprintf("SingleAssign(entity=%d, key=%s, value=%s)", v.Entity, t.MustLookup(v.Key), fmtExpr(v.Value, t))
		case Append:
			parts[i] = fmt.Sprintf("Append(entity=%d, value=%s)", v.Entity, fmtExpr(v.Value, t))
		case Overwrite:
			parts[i] = fmt.Sprintf("Overwrite(entity=%d, value=%s)", v.Entity, fmtExpr(v.Value, t))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

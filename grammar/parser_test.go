package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakewins/g/grammar"
)

func TestParseUnwind(t *testing.T) {
	tree, err := grammar.Parse("UNWIND [[1], [2, 1.0]] AS x")
	require.NoError(t, err)

	stmt := tree.Children[0]
	require.Equal(t, grammar.RuleUnwindStmt, stmt.Rule)
	require.Equal(t, grammar.RuleList, stmt.Children[0].Rule)
	require.Equal(t, grammar.RuleID, stmt.Children[1].Rule)
	require.Equal(t, "x", stmt.Children[1].Text)
}

func TestParseSimpleMatchReturn(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) RETURN a")
	require.NoError(t, err)
	require.Len(t, tree.Children, 2)

	match := tree.Children[0]
	require.Equal(t, grammar.RuleMatchStmt, match.Rule)
	pattern := match.Child(grammar.RulePattern)
	require.NotNil(t, pattern)
	require.Len(t, pattern.Children, 1)
	require.Equal(t, grammar.RuleNode, pattern.Children[0].Rule)

	ret := tree.Children[1]
	require.Equal(t, grammar.RuleReturnStmt, ret.Rule)
	proj := ret.Child(grammar.RuleProjection)
	require.NotNil(t, proj)
	require.Equal(t, grammar.RuleVariable, proj.Children[0].Rule)
}

func TestParseLabeledRelationshipPattern(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a:Person)-[:KNOWS]->(b) RETURN b")
	require.NoError(t, err)

	match := tree.Children[0]
	pattern := match.Child(grammar.RulePattern)
	require.Len(t, pattern.Children, 3)

	left := pattern.Children[0]
	require.Equal(t, grammar.RuleNode, left.Rule)
	require.NotNil(t, left.Child(grammar.RuleLabel))
	require.Equal(t, "Person", left.Child(grammar.RuleLabel).Text)

	rel := pattern.Children[1]
	require.Equal(t, grammar.RuleRel, rel.Rule)
	require.Nil(t, rel.Child(grammar.RuleLeftArrow))
	require.NotNil(t, rel.Child(grammar.RuleRightArrow))
	require.Equal(t, "KNOWS", rel.Child(grammar.RuleRelType).Text)
}

func TestParseBothArrowheadsIsSyntacticallyValid(t *testing.T) {
	// The grammar accepts both arrowheads; rejecting an ambiguous direction
	// is the planner's job, not the grammar's.
	tree, err := grammar.Parse("MATCH (a)<-[r]->(b) RETURN a")
	require.NoError(t, err)
	rel := tree.Children[0].Child(grammar.RulePattern).Children[1]
	require.NotNil(t, rel.Child(grammar.RuleLeftArrow))
	require.NotNil(t, rel.Child(grammar.RuleRightArrow))
}

func TestParseSetSingleProperty(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) SET a.name = 'bob'")
	require.NoError(t, err)
	set := tree.Children[1]
	require.Equal(t, grammar.RuleSetStmt, set.Rule)
	assign := set.Children[0]
	require.Equal(t, grammar.RuleSingleAssignment, assign.Rule)
	require.Equal(t, "a", assign.Children[0].Text)
	require.Equal(t, "name", assign.Children[1].Text)
	require.Equal(t, grammar.RuleStringLit, assign.Children[2].Rule)
}

func TestParseSetAppendMap(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) SET a += {name: 'bob', age: 42}")
	require.NoError(t, err)
	assign := tree.Children[1].Children[0]
	require.Equal(t, grammar.RuleAppendAssignment, assign.Rule)
	m := assign.Children[1]
	require.Equal(t, grammar.RuleMap, m.Rule)
	require.Len(t, m.Children, 2)
}

func TestParseDisconnectedPatterns(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a), (b) RETURN a, b")
	require.NoError(t, err)
	match := tree.Children[0]
	require.Len(t, match.ChildrenOf(grammar.RulePattern), 2)
}

func TestParseMergeWithMapProperties(t *testing.T) {
	tree, err := grammar.Parse("MERGE (a:Person {id: 1})")
	require.NoError(t, err)
	merge := tree.Children[0]
	require.Equal(t, grammar.RuleMergeStmt, merge.Rule)
	node := merge.Child(grammar.RulePattern).Children[0]
	require.NotNil(t, node.Child(grammar.RuleMap))
}

func TestParseOptionalMatchWithWhere(t *testing.T) {
	tree, err := grammar.Parse("OPTIONAL MATCH (a)-[r]->(b) WHERE a.age > 10 RETURN b")
	require.NoError(t, err)
	match := tree.Children[0]
	require.NotNil(t, match.Child(grammar.RuleOptionalClause))
	where := match.Child(grammar.RuleWhereClause)
	require.NotNil(t, where)
	cmp := where.Children[0]
	require.Equal(t, grammar.RuleBinOp, cmp.Rule)
	require.Equal(t, ">", cmp.Text)
}

func TestParseReturnDistinctOrderBySkipLimit(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) RETURN DISTINCT a.name AS n ORDER BY n DESC SKIP 1 LIMIT 10")
	require.NoError(t, err)
	ret := tree.Children[1]
	require.NotNil(t, ret.Child(grammar.RuleDistinct))

	proj := ret.Child(grammar.RuleProjection)
	require.Equal(t, grammar.RulePropLookup, proj.Children[0].Rule)
	require.Equal(t, grammar.RuleID, proj.Children[1].Rule)
	require.Equal(t, "n", proj.Children[1].Text)

	ob := ret.Child(grammar.RuleOrderBy)
	require.NotNil(t, ob)
	require.Equal(t, "DESC", ob.Children[0].Text)

	require.NotNil(t, ret.Child(grammar.RuleSkip))
	require.NotNil(t, ret.Child(grammar.RuleLimit))
}

func TestParseCallWithDistinctAggregatingArg(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) RETURN count(DISTINCT a.name)")
	require.NoError(t, err)
	ret := tree.Children[1]
	call := ret.Child(grammar.RuleProjection).Children[0]
	require.Equal(t, grammar.RuleFuncCall, call.Rule)
	require.Equal(t, "count", call.Text)
	require.NotNil(t, call.Child(grammar.RuleDistinct))
}

func TestParseWildcardProjection(t *testing.T) {
	tree, err := grammar.Parse("MATCH (a) RETURN *")
	require.NoError(t, err)
	ret := tree.Children[1]
	require.Equal(t, "*", ret.Child(grammar.RuleProjection).Text)
}

func TestParseSyntaxErrorHasLocation(t *testing.T) {
	_, err := grammar.Parse("MATCH (a RETURN a")
	require.Error(t, err)
	require.Contains(t, err.Error(), "syntax error")
	require.Contains(t, err.Error(), "at line")
}

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakewins/g/lexer"
)

func collect(input string) []lexer.Token {
	var out []lexer.Token
	for tok := range lexer.New(input) {
		out = append(out, tok)
	}
	return out
}

func TestLexesKeywordsCaseInsensitively(t *testing.T) {
	toks := collect("Match (a) RETURN a")
	types := make([]lexer.TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []lexer.TokenType{
		lexer.ItemMatch, lexer.ItemLParen, lexer.ItemIdentifier, lexer.ItemRParen,
		lexer.ItemReturn, lexer.ItemIdentifier, lexer.ItemEOF,
	}, types)
}

func TestLexesRelationshipArrowPieces(t *testing.T) {
	toks := collect("(a)-[r]->(b)")
	var types []lexer.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []lexer.TokenType{
		lexer.ItemLParen, lexer.ItemIdentifier, lexer.ItemRParen,
		lexer.ItemMinus, lexer.ItemLBracket, lexer.ItemIdentifier, lexer.ItemRBracket,
		lexer.ItemMinus, lexer.ItemGT, lexer.ItemLParen, lexer.ItemIdentifier, lexer.ItemRParen,
		lexer.ItemEOF,
	}, types)
}

func TestLexesNumbers(t *testing.T) {
	toks := collect("1 2.0 3e10")
	require.Equal(t, lexer.ItemInteger, toks[0].Type)
	require.Equal(t, lexer.ItemFloat, toks[1].Type)
	require.Equal(t, lexer.ItemFloat, toks[2].Type)
}

func TestLexesStrings(t *testing.T) {
	toks := collect(`'bob' "jane"`)
	require.Equal(t, lexer.ItemString, toks[0].Type)
	require.Equal(t, `'bob'`, toks[0].Text)
	require.Equal(t, lexer.ItemString, toks[1].Type)
}

func TestLexesComparisonOperators(t *testing.T) {
	toks := collect("<= >= <> < > =")
	var types []lexer.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []lexer.TokenType{
		lexer.ItemLE, lexer.ItemGE, lexer.ItemNEQ, lexer.ItemLT, lexer.ItemGT, lexer.ItemEQ, lexer.ItemEOF,
	}, types)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	toks := collect(`'unterminated`)
	require.Equal(t, lexer.ItemError, toks[0].Type)
	require.NotEmpty(t, toks[0].ErrorMessage)
}

package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakewins/g/token"
)

func TestTokenizeIsIdempotent(t *testing.T) {
	tks := token.NewTokens()

	a1 := tks.Tokenize("a")
	a2 := tks.Tokenize("a")
	b := tks.Tokenize("b")

	require.Equal(t, a1, a2)
	require.NotEqual(t, a1, b)
}

func TestTokenizeInterningProperty(t *testing.T) {
	tks := token.NewTokens()

	// tokenize(s1) == tokenize(s2) iff s1 == s2.
	require.Equal(t, tks.Tokenize("alpha"), tks.Tokenize("alpha"))
	require.NotEqual(t, tks.Tokenize("alpha"), tks.Tokenize("beta"))
}

func TestLookupRoundTrips(t *testing.T) {
	tks := token.NewTokens()
	tok := tks.Tokenize("Person")

	s, ok := tks.Lookup(tok)
	require.True(t, ok)
	require.Equal(t, "Person", s)
}

func TestLookupUnknownToken(t *testing.T) {
	tks := token.NewTokens()
	tks.Tokenize("only-one")

	_, ok := tks.Lookup(token.Token(99))
	require.False(t, ok)
	require.Equal(t, "?", tks.MustLookup(token.Token(99)))
}

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakewins/g/backend"
	"github.com/jakewins/g/token"
)

func TestDescLookup(t *testing.T) {
	tks := token.NewTokens()
	count := tks.Tokenize("count")

	desc := backend.NewDesc([]backend.FuncSignature{
		{
			Name:     count,
			FuncType: backend.Aggregating,
			Returns:  backend.Integer,
			Args:     []backend.FuncArg{{Name: tks.Tokenize("expr"), Type: backend.Any}},
		},
	})

	sig, ok := desc.Lookup(count)
	require.True(t, ok)
	require.Equal(t, backend.Aggregating, sig.FuncType)

	_, ok = desc.Lookup(tks.Tokenize("unknown"))
	require.False(t, ok)
}

func TestNilDescLookupIsSafe(t *testing.T) {
	var desc *backend.Desc
	_, ok := desc.Lookup(token.Token(0))
	require.False(t, ok)
}

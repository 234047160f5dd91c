package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}
		// Keywords are case sensitive.
		if LookupIdentifier(strings.ToUpper(key)) != IDENT {
			t.Errorf("Lookup of %s failed", key)
		}
	}
}

func TestSelfIsThis(t *testing.T) {
	require.Equal(t, THIS, LookupIdentifier("self"))
	require.Equal(t, THIS, LookupIdentifier("this"))
	require.True(t, IsKeyword("api"))
	require.False(t, IsKeyword("print"))
}

func TestOperators(t *testing.T) {
	tok, ok := LookupOperator("**")
	require.True(t, ok)
	require.Equal(t, POW, tok)

	_, ok = LookupOperator("=!")
	require.False(t, ok)

	tok, ok = LookupChar('~')
	require.True(t, ok)
	require.Equal(t, TILDE, tok)

	_, ok = LookupChar('#')
	require.False(t, ok)
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())

	end := tok.StartPosition.Advance(3)
	require.Equal(t, 4, end.ColumnNumber())
	require.True(t, end.IsValid())
	require.False(t, NoPos.IsValid())
}

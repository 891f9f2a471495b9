/*
File    : korc/lexer/lexer_test.go
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenizeCase struct {
	Input    string
	Expected []Token
}

func TestTokenize(t *testing.T) {
	tests := []tokenizeCase{
		{
			Input:    "fun",
			Expected: []Token{{Type: FUN}},
		},
		{
			Input: "this is a ident",
			Expected: []Token{
				{Type: IDENT, Literal: "this"},
				{Type: IDENT, Literal: "is"},
				{Type: IDENT, Literal: "a"},
				{Type: IDENT, Literal: "ident"},
			},
		},
		{
			Input: "use kaya();",
			Expected: []Token{
				{Type: USE},
				{Type: IDENT, Literal: "kaya"},
				{Type: OPENING_PARENTHESIS},
				{Type: CLOSING_PARENTHESIS},
				{Type: DELIMITER},
			},
		},
		{
			Input: "fun kaya() { 5 }",
			Expected: []Token{
				{Type: FUN},
				{Type: IDENT, Literal: "kaya"},
				{Type: OPENING_PARENTHESIS},
				{Type: CLOSING_PARENTHESIS},
				{Type: OPENING_BRACE},
				{Type: NUMBER, Value: 5},
				{Type: CLOSING_BRACE},
			},
		},
		{
			Input: "5 + 4 * 2",
			Expected: []Token{
				{Type: NUMBER, Value: 5},
				{Type: OPERATOR, Literal: "+"},
				{Type: NUMBER, Value: 4},
				{Type: OPERATOR, Literal: "*"},
				{Type: NUMBER, Value: 2},
			},
		},
		{
			Input: "if 5 { 1 } else { 2 }",
			Expected: []Token{
				{Type: IF},
				{Type: NUMBER, Value: 5},
				{Type: OPENING_BRACE},
				{Type: NUMBER, Value: 1},
				{Type: CLOSING_BRACE},
				{Type: ELSE},
				{Type: OPENING_BRACE},
				{Type: NUMBER, Value: 2},
				{Type: CLOSING_BRACE},
			},
		},
		{
			Input: "3.14 0.5 10",
			Expected: []Token{
				{Type: NUMBER, Value: 3.14},
				{Type: NUMBER, Value: 0.5},
				{Type: NUMBER, Value: 10},
			},
		},
		{
			Input: "a < b",
			Expected: []Token{
				{Type: IDENT, Literal: "a"},
				{Type: OPERATOR, Literal: "<"},
				{Type: IDENT, Literal: "b"},
			},
		},
	}

	for _, tc := range tests {
		got, err := Tokenize(tc.Input)
		require.NoError(t, err)
		assert.Equal(t, tc.Expected, got)
	}
}

func TestTokenize_ReservedWordsNeverBecomeIdentifiers(t *testing.T) {
	for word, want := range reservedWords {
		got, err := Tokenize(word)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0].Type)
		assert.Empty(t, got[0].Literal)
	}
}

func TestTokenize_CommentsAreTransparent(t *testing.T) {
	withComment := "fun kaya() {\n# this is a comment\n5\n}"
	without := "fun kaya() {\n5\n}"

	gotWith, err := Tokenize(withComment)
	require.NoError(t, err)
	gotWithout, err := Tokenize(without)
	require.NoError(t, err)

	assert.Equal(t, gotWithout, gotWith)
}

func TestTokenize_Determinism(t *testing.T) {
	src := "fun add(a, b) { a + b }"
	first, err := Tokenize(src)
	require.NoError(t, err)
	second, err := Tokenize(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "comparison chain",
			input: "a.b == 1 && a.c != 2",
			want: []TokenType{
				TokenIdent, TokenDot, TokenIdent, TokenEq, TokenInt,
				TokenAndAnd,
				TokenIdent, TokenDot, TokenIdent, TokenNeq, TokenInt,
				TokenEOF,
			},
		},
		{
			name:  "null safe access",
			input: "a?.b >= -3",
			want: []TokenType{
				TokenIdent, TokenQuestionDot, TokenIdent, TokenGte, TokenMinus, TokenInt,
				TokenEOF,
			},
		},
		{
			name:  "pattern tokens",
			input: "case { P: var v } when !v",
			want: []TokenType{
				TokenIdent, TokenLBrace, TokenIdent, TokenColon, TokenIdent, TokenIdent, TokenRBrace,
				TokenIdent, TokenBang, TokenIdent,
				TokenEOF,
			},
		},
		{
			name:  "relational operators",
			input: "< <= > >=",
			want:  []TokenType{TokenLt, TokenLte, TokenGt, TokenGte, TokenEOF},
		},
		{
			name:  "string literal",
			input: `s == "hi there"`,
			want:  []TokenType{TokenIdent, TokenEq, TokenString, TokenEOF},
		},
		{
			name:  "comment runs to end of line",
			input: "a == 1 // trailing note && ignored",
			want:  []TokenType{TokenIdent, TokenEq, TokenInt, TokenEOF},
		},
		{
			name:  "empty input",
			input: "",
			want:  []TokenType{TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			require.NoError(t, err)
			got := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				got[i] = tok.Type
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	t.Parallel()
	tokens, err := NewLexer("ab && cd").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, Token{Type: TokenIdent, Value: "ab", Pos: 0, End: 2}, tokens[0])
	assert.Equal(t, Token{Type: TokenAndAnd, Value: "&&", Pos: 3, End: 5}, tokens[1])
	assert.Equal(t, Token{Type: TokenIdent, Value: "cd", Pos: 6, End: 8}, tokens[2])
	assert.Equal(t, Token{Type: TokenEOF, Pos: 8, End: 8}, tokens[3])
}

func TestLexerStringValue(t *testing.T) {
	t.Parallel()
	tokens, err := NewLexer(`"hello"`).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "hello", tokens[0].Value)
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 7, tokens[0].End)
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()
	_, err := NewLexer(`"unterminated`).Tokenize()
	assert.ErrorIs(t, err, ErrUnterminatedString)

	_, err = NewLexer("a @ b").Tokenize()
	assert.Error(t, err)
}

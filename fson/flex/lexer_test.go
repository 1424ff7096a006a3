package flex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectTokens(t *testing.T, input string) []Token {
	lexer := NewLexer([]byte(input))
	tokens := make([]Token, 0)
	for {
		token, err := lexer.Next()
		assert.NoError(t, err)
		if token.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, token)
	}
}

func TestLexer_Next(t *testing.T) {
	tokens := collectTokens(t, ` {"a": [1, -2.5e3, true, false, null]} `)
	kinds := make([]TokenKind, 0, len(tokens))
	for _, token := range tokens {
		kinds = append(kinds, token.Kind)
	}
	assert.Equal(
		t,
		[]TokenKind{
			TokenCurlyOpen,
			TokenString, TokenColon,
			TokenSquareOpen,
			TokenNumber, TokenComma,
			TokenNumber, TokenComma,
			TokenBoolean, TokenComma,
			TokenBoolean, TokenComma,
			TokenNull,
			TokenSquareClose,
			TokenCurlyClose,
		},
		kinds,
	)
	assert.Equal(t, []byte("a"), tokens[1].Literal)
	assert.Equal(t, []byte("1"), tokens[4].Literal)
	assert.Equal(t, []byte("-2.5e3"), tokens[6].Literal)
	assert.True(t, tokens[8].Bool)
	assert.False(t, tokens[10].Bool)
}

func TestLexer_NextOffsets(t *testing.T) {
	tokens := collectTokens(t, `{"a": 12}`)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 1, tokens[1].Start)
	assert.Equal(t, 4, tokens[2].Start)
	assert.Equal(t, 6, tokens[3].Start)
	assert.Equal(t, 8, tokens[4].Start)
}

func TestLexer_StringZeroCopy(t *testing.T) {
	source := []byte(`"hello"`)
	lexer := NewLexer(source)
	token, err := lexer.Next()
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), token.Literal)
	// the literal aliases the source buffer when no escape is present
	assert.Equal(t, &source[1], &token.Literal[0])
}

func TestLexer_StringEscapes(t *testing.T) {
	expectedValues := map[string]string{
		`"a\nb"`:           "a\nb",
		`"a\"b\\c\/d"`:     `a"b\c/d`,
		`"\t\b\f\r"`:       "\t\b\f\r",
		`"Aé"`:        "Aé",
		`"😀"`:   "\U0001f600",
		`"plain ߿ x"`: "plain ߿ x",
	}
	for input, expected := range expectedValues {
		lexer := NewLexer([]byte(input))
		token, err := lexer.Next()
		assert.NoError(t, err)
		assert.Equal(t, expected, string(token.Literal))
	}
}

func TestLexer_Errors(t *testing.T) {
	_, err := NewLexer([]byte(`"abc`)).Next()
	assert.Equal(t, ErrUnterminatedString{Offset: 0}, err)

	_, err = NewLexer([]byte(`"a\x"`)).Next()
	assert.Equal(t, ErrInvalidEscape{Offset: 3, Byte: 'x'}, err)

	_, err = NewLexer([]byte(`  @`)).Next()
	assert.Equal(t, ErrUnexpectedByte{Offset: 2, Byte: '@'}, err)

	_, err = NewLexer([]byte(`1e`)).Next()
	assert.Equal(t, ErrMalformedNumber{Offset: 0, Literal: "1e"}, err)

	_, err = NewLexer([]byte(`-`)).Next()
	assert.Equal(t, ErrMalformedNumber{Offset: 0, Literal: "-"}, err)

	_, err = NewLexer([]byte(`tru`)).Next()
	assert.Equal(t, ErrUnexpectedByte{Offset: 0, Byte: 't'}, err)
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/logging"
	"gopkg.microglot.org/lexer.go/internal/stream"
)

func tok(kind idl.TokenKind, content string, line int, column int) idl.Token {
	return idl.Token{Kind: kind, Content: content, Position: idl.Position{Line: line, Column: column}}
}

func TestLexer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []idl.Token
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:  "declaration",
			input: "let foo: i32 = 5;",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "let", 1, 1),
				tok(idl.TokenKindWhitespace, " ", 1, 4),
				tok(idl.TokenKindSymbol, "foo", 1, 5),
				tok(idl.TokenKindColon, ":", 1, 8),
				tok(idl.TokenKindWhitespace, " ", 1, 9),
				tok(idl.TokenKindSymbol, "i32", 1, 10),
				tok(idl.TokenKindWhitespace, " ", 1, 13),
				tok(idl.TokenKindEquals, "=", 1, 14),
				tok(idl.TokenKindWhitespace, " ", 1, 15),
				tok(idl.TokenKindNumberWholePart, "5", 1, 16),
				tok(idl.TokenKindSemicolon, ";", 1, 17),
			},
		},
		{
			name:  "leading dot fraction",
			input: ".5",
			expected: []idl.Token{
				tok(idl.TokenKindNumberFractionalPart, ".5", 1, 1),
			},
		},
		{
			name:  "trailing dot",
			input: "5.",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "5", 1, 1),
				tok(idl.TokenKindNumberFractionalPart, ".", 1, 2),
			},
		},
		{
			name:  "unclassified",
			input: "@",
			expected: []idl.Token{
				tok(idl.TokenKindInvalid, "@", 1, 1),
			},
		},
		{
			name:  "fraction",
			input: "3.14159",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "3", 1, 1),
				tok(idl.TokenKindNumberFractionalPart, ".14159", 1, 2),
			},
		},
		{
			name:  "fraction only",
			input: ".375",
			expected: []idl.Token{
				tok(idl.TokenKindNumberFractionalPart, ".375", 1, 1),
			},
		},
		{
			name:  "exponent",
			input: "5e10",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "5", 1, 1),
				tok(idl.TokenKindNumberExponent, "e10", 1, 2),
			},
		},
		{
			name:  "full number",
			input: "12.5E3",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "12", 1, 1),
				tok(idl.TokenKindNumberFractionalPart, ".5", 1, 3),
				tok(idl.TokenKindNumberExponent, "E3", 1, 5),
			},
		},
		{
			name:  "exponent sign is not part of the number",
			input: "1e+5",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "1", 1, 1),
				tok(idl.TokenKindNumberExponent, "e", 1, 2),
				tok(idl.TokenKindInvalid, "+", 1, 3),
				tok(idl.TokenKindNumberWholePart, "5", 1, 4),
			},
		},
		{
			name:  "number followed by symbol",
			input: "10px",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "10", 1, 1),
				tok(idl.TokenKindSymbol, "px", 1, 3),
			},
		},
		{
			name:  "number then e symbol",
			input: "2else",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "2", 1, 1),
				tok(idl.TokenKindNumberExponent, "e", 1, 2),
				tok(idl.TokenKindSymbol, "lse", 1, 3),
			},
		},
		{
			name:  "repeated fractions",
			input: "1.2.3",
			expected: []idl.Token{
				tok(idl.TokenKindNumberWholePart, "1", 1, 1),
				tok(idl.TokenKindNumberFractionalPart, ".2", 1, 2),
				tok(idl.TokenKindNumberFractionalPart, ".3", 1, 4),
			},
		},
		{
			name:  "member access",
			input: "a.b",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "a", 1, 1),
				tok(idl.TokenKindDot, ".", 1, 2),
				tok(idl.TokenKindSymbol, "b", 1, 3),
			},
		},
		{
			name:  "member access with digit",
			input: "a.5",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "a", 1, 1),
				tok(idl.TokenKindNumberFractionalPart, ".5", 1, 2),
			},
		},
		{
			name:  "dots",
			input: "..",
			expected: []idl.Token{
				tok(idl.TokenKindDot, ".", 1, 1),
				tok(idl.TokenKindDot, ".", 1, 2),
			},
		},
		{
			name:  "lone dot",
			input: ".",
			expected: []idl.Token{
				tok(idl.TokenKindDot, ".", 1, 1),
			},
		},
		{
			name:  "single character tokens",
			input: "(){}:=;#",
			expected: []idl.Token{
				tok(idl.TokenKindParenStart, "(", 1, 1),
				tok(idl.TokenKindParenEnd, ")", 1, 2),
				tok(idl.TokenKindBracketStart, "{", 1, 3),
				tok(idl.TokenKindBracketEnd, "}", 1, 4),
				tok(idl.TokenKindColon, ":", 1, 5),
				tok(idl.TokenKindEquals, "=", 1, 6),
				tok(idl.TokenKindSemicolon, ";", 1, 7),
				tok(idl.TokenKindHash, "#", 1, 8),
			},
		},
		{
			name:  "quotes stay in base state",
			input: `"hi 2"`,
			expected: []idl.Token{
				tok(idl.TokenKindStringStart, `"`, 1, 1),
				tok(idl.TokenKindSymbol, "hi", 1, 2),
				tok(idl.TokenKindWhitespace, " ", 1, 4),
				tok(idl.TokenKindNumberWholePart, "2", 1, 5),
				tok(idl.TokenKindStringStart, `"`, 1, 6),
			},
		},
		{
			name:  "operators are invalid",
			input: "a->b",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "a", 1, 1),
				tok(idl.TokenKindInvalid, "-", 1, 2),
				tok(idl.TokenKindInvalid, ">", 1, 3),
				tok(idl.TokenKindSymbol, "b", 1, 4),
			},
		},
		{
			name:  "multiple lines",
			input: "a\n  b\r\n\tc",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "a", 1, 1),
				tok(idl.TokenKindWhitespace, "\n  ", 1, 2),
				tok(idl.TokenKindSymbol, "b", 2, 3),
				tok(idl.TokenKindWhitespace, "\r\n\t", 2, 4),
				tok(idl.TokenKindSymbol, "c", 3, 2),
			},
		},
		{
			name:  "unicode symbols",
			input: "_naïve ñ日本 x1Ⅻ ©x",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "_naïve", 1, 1),
				tok(idl.TokenKindWhitespace, " ", 1, 7),
				tok(idl.TokenKindSymbol, "ñ日本", 1, 8),
				tok(idl.TokenKindWhitespace, " ", 1, 11),
				tok(idl.TokenKindSymbol, "x1Ⅻ", 1, 12),
				tok(idl.TokenKindWhitespace, " ", 1, 15),
				tok(idl.TokenKindSymbol, "©x", 1, 16),
			},
		},
		{
			name:  "letter number cannot start a symbol",
			input: "Ⅻ",
			expected: []idl.Token{
				tok(idl.TokenKindInvalid, "Ⅻ", 1, 1),
			},
		},
		{
			name:  "unicode whitespace",
			input: "a\u2003\u00a0\ufeffb",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "a", 1, 1),
				tok(idl.TokenKindWhitespace, "\u2003\u00a0\ufeff", 1, 2),
				tok(idl.TokenKindSymbol, "b", 1, 5),
			},
		},
		{
			name:  "trailing whitespace",
			input: "x  \n",
			expected: []idl.Token{
				tok(idl.TokenKindSymbol, "x", 1, 1),
				tok(idl.TokenKindWhitespace, "  \n", 1, 2),
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			tokens, err := Collect(context.Background(), NewString(testCase.input))
			require.NoError(t, err)
			require.Equal(t, testCase.expected, tokens)
		})
	}
}

func TestLexerReproducesInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"let foo: i32 = 5;\nlet bar = foo.baz(1.5e3, .25);\n",
		"#!{}\r\n\"s\" @@ 1e+5 -> => ... ? x",
		"\n\n\n   ",
		"日本語 テキスト\t1234.5678",
		"a\xffb",
	}
	for _, input := range inputs {
		tokens, err := Collect(context.Background(), NewString(input))
		require.NoError(t, err)

		var builder strings.Builder
		position := StartPosition
		for _, token := range tokens {
			require.Equal(t, position, token.Position, "token %s", token)
			require.NotEmpty(t, token.Content)
			_, _ = builder.WriteString(token.Content)
			for _, r := range token.Content {
				position = UpdatePosition(idl.CodePoint(r), position)
			}
		}
		require.Equal(t, strings.ToValidUTF8(input, "�"), builder.String())
	}
}

func TestLexerSources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "let foo: i32 = 5;\nfoo.bar"
	expected, err := Collect(ctx, NewString(input))
	require.NoError(t, err)

	t.Run("parts", func(t *testing.T) {
		t.Parallel()
		tokens, err := Collect(ctx, NewStringParts([]string{"le", "t fo", "o: i3", "2 = 5", ";\nfoo.", "bar"}))
		require.NoError(t, err)
		require.Equal(t, expected, tokens)
	})

	t.Run("reader", func(t *testing.T) {
		t.Parallel()
		tokens, err := Collect(ctx, NewReader(strings.NewReader(input)))
		require.NoError(t, err)
		require.Equal(t, expected, tokens)
	})
}

func TestLexerPosition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewString("ab\ncd")
	require.Equal(t, idl.Position{Line: 1, Column: 1}, l.Position())
	_, err := l.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, idl.Position{Line: 1, Column: 3}, l.Position())
	_, err = l.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, idl.Position{Line: 2, Column: 1}, l.Position())
	_, err = l.Next(ctx)
	require.NoError(t, err)
	end, err := l.Next(ctx)
	require.NoError(t, err)
	require.False(t, end.IsPresent())
	again, err := l.Next(ctx)
	require.NoError(t, err)
	require.False(t, again.IsPresent())
	require.Equal(t, idl.Position{Line: 2, Column: 3}, l.Position())
	require.NoError(t, l.Close(ctx))
}

func TestLexerConcurrentAccessIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewString("abc")
	held, err := l.chars.Peek()
	require.NoError(t, err)

	_, err = l.Next(ctx)
	require.True(t, stream.IsConcurrentAccess(err))

	tokens := l.Tokens()
	require.False(t, tokens.Next(ctx).IsPresent())
	require.False(t, tokens.Next(ctx).IsPresent())
	require.True(t, stream.IsConcurrentAccess(tokens.Close(ctx)))

	require.NoError(t, held.Revoke())
}

func TestLexerTokenStream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewString("x = 1.5;")
	tokens := stream.New(l.Tokens(), 0, func(item idl.Token, previous int) int { return previous + 1 })

	p, err := tokens.Peek()
	require.NoError(t, err)
	require.NoError(t, p.NextWhile(ctx, func(item idl.Token) bool { return item.Kind != idl.TokenKindEquals }))
	require.Equal(t, []idl.Token{
		tok(idl.TokenKindSymbol, "x", 1, 1),
		tok(idl.TokenKindWhitespace, " ", 1, 2),
	}, p.Items())
	require.NoError(t, p.Revoke())
	require.Equal(t, 0, tokens.Status())

	all, err := tokens.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, all, 7)
	require.Equal(t, 7, tokens.Status())
	require.Equal(t, tok(idl.TokenKindNumberFractionalPart, ".5", 1, 6), all[5])
	require.NoError(t, tokens.Close(ctx))
}

func TestLexerLogsTransitions(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, err := Collect(context.Background(), NewString("a 1", WithLogger(logging.New(&out, true))))
	require.NoError(t, err)
	require.Contains(t, out.String(), "lexer state change")
	require.Contains(t, out.String(), "from=base to=number position=1:3")
}

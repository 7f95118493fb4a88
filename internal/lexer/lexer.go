// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/logging"
	"gopkg.microglot.org/lexer.go/internal/optional"
	"gopkg.microglot.org/lexer.go/internal/stream"
	"gopkg.microglot.org/lexer.go/internal/unicat"
)

var singleCharTokens = map[idl.CodePoint]idl.TokenKind{
	'"': idl.TokenKindStringStart,
	'(': idl.TokenKindParenStart,
	')': idl.TokenKindParenEnd,
	'{': idl.TokenKindBracketStart,
	'}': idl.TokenKindBracketEnd,
	':': idl.TokenKindColon,
	'=': idl.TokenKindEquals,
	';': idl.TokenKindSemicolon,
	'#': idl.TokenKindHash,
}

var symbolInitial = unicat.NewSet(
	unicat.LetterUppercase,
	unicat.LetterLowercase,
	unicat.LetterTitlecase,
	unicat.LetterModifier,
	unicat.LetterOther,
	unicat.PunctuationConnector,
	unicat.SymbolOther,
)

var symbolSuccessive = symbolInitial.With(unicat.NumberDecimal, unicat.NumberLetter)

type state uint8

const (
	stateBase state = iota
	stateNumber
	// stateString is reserved for string literal content. Nothing enters it
	// yet so a quotation mark is lexed as a lone StringStart token.
	stateString
)

func (s state) String() string {
	switch s {
	case stateBase:
		return "base"
	case stateNumber:
		return "number"
	case stateString:
		return "string"
	default:
		return "unknown"
	}
}

// Lexer converts a stream of code points into tokens. Each call to Next
// produces one token. A Lexer cannot be reset, create a new one for new input.
type Lexer struct {
	chars  *stream.Stream[idl.CodePoint, idl.Position]
	state  state
	logger *slog.Logger
}

type Option func(*Lexer)

// WithLogger installs a logger that receives state transitions at debug
// level. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// New creates a Lexer over the given code points. The Lexer takes ownership of
// the source and closes it in Close.
func New(source idl.Iterator[idl.CodePoint], options ...Option) *Lexer {
	l := &Lexer{
		chars: stream.New(source, StartPosition, UpdatePosition),
		state: stateBase,
	}
	for _, option := range options {
		option(l)
	}
	l.logger = logging.OrDiscard(l.logger)
	return l
}

// Position returns the position of the next code point to be lexed.
func (self *Lexer) Position() idl.Position {
	return self.chars.Status()
}

// Next returns the next token. The result is absent once the input is
// exhausted. An error is only returned when the cursor protocol is violated,
// which indicates a bug rather than bad input. Text that cannot be classified
// is returned as an Invalid token.
func (self *Lexer) Next(ctx context.Context) (optional.Optional[idl.Token], error) {
	for {
		position := self.chars.Status()
		peek, err := self.chars.Peek()
		if err != nil {
			return optional.None[idl.Token](), err
		}
		if err = peek.Next(ctx, 1); err != nil {
			return optional.None[idl.Token](), err
		}
		first := peek.Last()
		if !first.IsPresent() {
			return optional.None[idl.Token](), peek.Revoke()
		}

		var tok optional.Optional[idl.Token]
		switch self.state {
		case stateBase:
			tok, err = self.lexBase(ctx, peek, position, first.Value())
		case stateNumber:
			tok, err = self.lexNumber(ctx, peek, position, first.Value())
		default:
			self.transition(ctx, stateBase, position)
			err = peek.Revoke()
		}
		if err != nil {
			return optional.None[idl.Token](), err
		}
		if tok.IsPresent() {
			return tok, nil
		}
	}
}

func (self *Lexer) lexBase(ctx context.Context, peek *stream.Peek[idl.CodePoint, idl.Position], position idl.Position, first idl.CodePoint) (optional.Optional[idl.Token], error) {
	if kind, ok := singleCharTokens[first]; ok {
		return emit(peek, kind, position)
	}
	r := rune(first)
	switch {
	case isWhitespace(first):
		if err := peek.NextWhile(ctx, isWhitespace); err != nil {
			return optional.None[idl.Token](), err
		}
		return emit(peek, idl.TokenKindWhitespace, position)
	case symbolInitial.Contains(r):
		if err := peek.NextWhile(ctx, isSymbolSuccessive); err != nil {
			return optional.None[idl.Token](), err
		}
		return emit(peek, idl.TokenKindSymbol, position)
	case isDigit(first):
		self.transition(ctx, stateNumber, position)
		return optional.None[idl.Token](), peek.Revoke()
	case first == '.':
		if err := peek.Next(ctx, 1); err != nil {
			return optional.None[idl.Token](), err
		}
		// A digit after the dot makes it the start of a fractional part.
		if next := peek.Last(); next.IsPresent() && isDigit(next.Value()) {
			self.transition(ctx, stateNumber, position)
			return optional.None[idl.Token](), peek.Revoke()
		}
		if err := peek.Rewind(1); err != nil {
			return optional.None[idl.Token](), err
		}
		return emit(peek, idl.TokenKindDot, position)
	default:
		return emit(peek, idl.TokenKindInvalid, position)
	}
}

func (self *Lexer) lexNumber(ctx context.Context, peek *stream.Peek[idl.CodePoint, idl.Position], position idl.Position, first idl.CodePoint) (optional.Optional[idl.Token], error) {
	var kind idl.TokenKind
	switch {
	case first == '.':
		kind = idl.TokenKindNumberFractionalPart
	case first == 'e' || first == 'E':
		// A sign after the exponent marker is not part of the token.
		kind = idl.TokenKindNumberExponent
	case isDigit(first):
		kind = idl.TokenKindNumberWholePart
	default:
		self.transition(ctx, stateBase, position)
		return optional.None[idl.Token](), peek.Revoke()
	}
	if err := peek.NextWhile(ctx, isDigit); err != nil {
		return optional.None[idl.Token](), err
	}
	return emit(peek, kind, position)
}

func (self *Lexer) transition(ctx context.Context, next state, position idl.Position) {
	self.logger.DebugContext(ctx, "lexer state change",
		slog.String("from", self.state.String()),
		slog.String("to", next.String()),
		slog.String("position", position.String()),
	)
	self.state = next
}

// Close releases the underlying code point source.
func (self *Lexer) Close(ctx context.Context) error {
	return self.chars.Close(ctx)
}

func emit(peek *stream.Peek[idl.CodePoint, idl.Position], kind idl.TokenKind, position idl.Position) (optional.Optional[idl.Token], error) {
	points, err := peek.Consume()
	if err != nil {
		return optional.None[idl.Token](), err
	}
	var builder strings.Builder
	for _, point := range points {
		_, _ = builder.WriteRune(rune(point))
	}
	return optional.Some(idl.Token{
		Kind:     kind,
		Content:  builder.String(),
		Position: position,
	}), nil
}

func isDigit(point idl.CodePoint) bool {
	return point >= '0' && point <= '9'
}

// isWhitespace matches the white space class of common regular expression
// engines, which adds the byte order mark to the Unicode space characters.
func isWhitespace(point idl.CodePoint) bool {
	return unicode.IsSpace(rune(point)) || point == 0xFEFF
}

func isSymbolSuccessive(point idl.CodePoint) bool {
	return symbolSuccessive.Contains(rune(point))
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package reader groups lexer tokens into nodes. A node is one syntactic unit
// such as a symbol or a complete number, along with the whitespace and
// comments that surround it. Concatenating the text of every node reproduces
// the lexed input exactly.
package reader

import (
	"context"
	"strings"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/optional"
	"gopkg.microglot.org/lexer.go/internal/stream"
)

var nodeKinds = map[idl.TokenKind]idl.TokenNodeKind{
	idl.TokenKindInvalid:                  idl.TokenNodeKindInvalid,
	idl.TokenKindSymbol:                   idl.TokenNodeKindSymbol,
	idl.TokenKindNumberWholePart:          idl.TokenNodeKindNumber,
	idl.TokenKindNumberFractionalPart:     idl.TokenNodeKindNumber,
	idl.TokenKindNumberExponent:           idl.TokenNodeKindNumber,
	idl.TokenKindStringStart:              idl.TokenNodeKindString,
	idl.TokenKindStringEnd:                idl.TokenNodeKindString,
	idl.TokenKindStringContent:            idl.TokenNodeKindString,
	idl.TokenKindStringInterpolationStart: idl.TokenNodeKindString,
	idl.TokenKindStringInterpolationEnd:   idl.TokenNodeKindString,
	idl.TokenKindParenStart:               idl.TokenNodeKindParen,
	idl.TokenKindParenEnd:                 idl.TokenNodeKindParen,
	idl.TokenKindBracketStart:             idl.TokenNodeKindBracket,
	idl.TokenKindBracketEnd:               idl.TokenNodeKindBracket,
	idl.TokenKindColon:                    idl.TokenNodeKindColon,
	idl.TokenKindEquals:                   idl.TokenNodeKindEquals,
	idl.TokenKindSemicolon:                idl.TokenNodeKindSemicolon,
	idl.TokenKindDot:                      idl.TokenNodeKindDot,
	idl.TokenKindEllipsis:                 idl.TokenNodeKindEllipsis,
	idl.TokenKindThinArrow:                idl.TokenNodeKindThinArrow,
	idl.TokenKindFatArrow:                 idl.TokenNodeKindFatArrow,
	idl.TokenKindOperator:                 idl.TokenNodeKindOperator,
	idl.TokenKindOperatorEquals:           idl.TokenNodeKindOperatorEquals,
	idl.TokenKindHash:                     idl.TokenNodeKindHash,
	idl.TokenKindQuestionMark:             idl.TokenNodeKindQuestionMark,
}

// numberRank orders the parts of a number. A number node holds at most one
// part of each rank, in increasing rank order.
var numberRank = map[idl.TokenKind]int{
	idl.TokenKindNumberWholePart:      1,
	idl.TokenKindNumberFractionalPart: 2,
	idl.TokenKindNumberExponent:       3,
}

type Reader struct {
	tokens *stream.Stream[idl.Token, int]
	done   bool
}

// New creates a Reader that takes ownership of tokens.
func New(tokens idl.Iterator[idl.Token]) *Reader {
	return &Reader{
		tokens: stream.New(tokens, 0, countTokens),
	}
}

func countTokens(_ idl.Token, previous int) int {
	return previous + 1
}

// Count returns the number of tokens placed into nodes so far.
func (self *Reader) Count() int {
	return self.tokens.Status()
}

// Next returns the next node or an absent value at the end of input. Trivia
// left over at the end of input are returned in a final Invalid node that has
// no children.
func (self *Reader) Next(ctx context.Context) (optional.Optional[idl.TokenNode], error) {
	if self.done {
		return optional.None[idl.TokenNode](), nil
	}
	leading, err := self.takeWhile(ctx, isTrivia)
	if err != nil {
		return optional.None[idl.TokenNode](), err
	}

	peek, err := self.tokens.Peek()
	if err != nil {
		return optional.None[idl.TokenNode](), err
	}
	if err = peek.Next(ctx, 1); err != nil {
		return optional.None[idl.TokenNode](), err
	}
	first := peek.Last()
	if !first.IsPresent() {
		self.done = true
		if err = peek.Revoke(); err != nil {
			return optional.None[idl.TokenNode](), err
		}
		if len(leading) < 1 {
			return optional.None[idl.TokenNode](), nil
		}
		return optional.Some(idl.TokenNode{
			Kind:          idl.TokenNodeKindInvalid,
			LeadingTrivia: leading,
		}), nil
	}

	if rank, ok := numberRank[first.Value().Kind]; ok {
		for {
			if err = peek.Next(ctx, 1); err != nil {
				return optional.None[idl.TokenNode](), err
			}
			next := peek.Last()
			if !next.IsPresent() || numberRank[next.Value().Kind] <= rank {
				break
			}
			rank = numberRank[next.Value().Kind]
		}
		if err = peek.Rewind(1); err != nil {
			return optional.None[idl.TokenNode](), err
		}
	}
	children, err := peek.Consume()
	if err != nil {
		return optional.None[idl.TokenNode](), err
	}

	trailing, err := self.takeWhile(ctx, isInlineWhitespace)
	if err != nil {
		return optional.None[idl.TokenNode](), err
	}
	return optional.Some(idl.TokenNode{
		Kind:           nodeKinds[first.Value().Kind],
		Children:       children,
		LeadingTrivia:  leading,
		TrailingTrivia: trailing,
	}), nil
}

// Close releases the token source and reports any error it encountered.
func (self *Reader) Close(ctx context.Context) error {
	self.done = true
	return self.tokens.Close(ctx)
}

func (self *Reader) takeWhile(ctx context.Context, keep func(idl.Token) bool) ([]idl.Token, error) {
	peek, err := self.tokens.Peek()
	if err != nil {
		return nil, err
	}
	if err = peek.NextWhile(ctx, keep); err != nil {
		return nil, err
	}
	return peek.Consume()
}

func isTrivia(t idl.Token) bool {
	return t.Kind == idl.TokenKindWhitespace || t.Kind == idl.TokenKindComment
}

func isInlineWhitespace(t idl.Token) bool {
	return t.Kind == idl.TokenKindWhitespace && !strings.Contains(t.Content, "\n")
}

// Collect reads every remaining node and closes the Reader.
func Collect(ctx context.Context, r *Reader) ([]idl.TokenNode, error) {
	var result []idl.TokenNode
	for {
		node, err := r.Next(ctx)
		if err != nil {
			_ = r.Close(ctx)
			return result, err
		}
		if !node.IsPresent() {
			return result, r.Close(ctx)
		}
		result = append(result, node.Value())
	}
}

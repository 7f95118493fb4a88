// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/optional"
)

// Tokens adapts the Lexer to idl.Iterator so that it can feed anything that
// consumes iterators, including another stream.Stream. The iterator ends
// early on the first error and Close returns that error.
func (self *Lexer) Tokens() idl.Iterator[idl.Token] {
	return &lexerTokens{lexer: self}
}

type lexerTokens struct {
	lexer *Lexer
	err   error
}

func (self *lexerTokens) Next(ctx context.Context) optional.Optional[idl.Token] {
	if self.err != nil {
		return optional.None[idl.Token]()
	}
	tok, err := self.lexer.Next(ctx)
	if err != nil {
		self.err = err
		return optional.None[idl.Token]()
	}
	return tok
}

func (self *lexerTokens) Close(ctx context.Context) error {
	err := self.lexer.Close(ctx)
	if self.err != nil {
		return self.err
	}
	return err
}

// Collect lexes the remaining input and closes the Lexer.
func Collect(ctx context.Context, l *Lexer) ([]idl.Token, error) {
	var result []idl.Token
	for {
		tok, err := l.Next(ctx)
		if err != nil {
			_ = l.Close(ctx)
			return result, err
		}
		if !tok.IsPresent() {
			return result, l.Close(ctx)
		}
		result = append(result, tok.Value())
	}
}

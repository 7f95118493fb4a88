// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"
	"io"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/iter"
)

func NewString(s string, options ...Option) *Lexer {
	return New(iter.NewString(s), options...)
}

// NewStringParts lexes the concatenation of parts. Tokens may span parts.
func NewStringParts(parts []string, options ...Option) *Lexer {
	return New(iter.NewStringParts(parts), options...)
}

// NewFileBody lexes a byte stream such as a file or a network response body.
// All reads use ctx. Read failures end the token stream early and are
// returned by Close.
func NewFileBody(ctx context.Context, body idl.FileBody, options ...Option) *Lexer {
	return New(iter.NewUnicodeFileBodyCtx(ctx, body), options...)
}

// NewReader is the same as NewFileBody for a plain io.Reader.
func NewReader(r io.Reader, options ...Option) *Lexer {
	return New(iter.NewUnicodeReader(r), options...)
}

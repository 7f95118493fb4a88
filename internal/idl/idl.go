// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/lexer.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

// Iterator is a pull source of values. Next returns an absent value once the
// source is exhausted. Errors encountered while producing values are reported
// by Close.
type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindSource
	FileKindText
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindSource:
		return "source"
	case FileKindText:
		return "text"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

// Driver lexes a set of targets resolved through a FileSystem.
type Driver interface {
	Lex(ctx context.Context, req *LexRequest) (*LexResponse, error)
}

// LexRequest names the targets to lex. Each target is a file, a directory, or
// "-" for standard input. Tree also groups the tokens of each file into nodes
// and Strict reports every Invalid token as an exception.
type LexRequest struct {
	Files  []string
	Tree   bool
	Strict bool
}

type LexResponse struct {
	Files []*LexedFile
}

type LexedFile struct {
	URI    string
	Tokens []Token
	Nodes  []TokenNode
}

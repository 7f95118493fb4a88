// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/optional"
)

// NewUnicodeFileBody converts a FileBody into an iterator of code points.
func NewUnicodeFileBody(b idl.FileBody) idl.Iterator[idl.CodePoint] {
	return NewUnicodeFileBodyCtx(context.Background(), b)
}

// NewUnicodeFileBodyCtx is the same as NewUnicodeFileBody but uses the given
// context for all read operations for cancellation or other purposes.
//
// Reads may return any number of bytes. A UTF-8 sequence that is split across
// two reads is buffered until it is complete so the split is never visible in
// the resulting code points.
func NewUnicodeFileBodyCtx(ctx context.Context, b idl.FileBody) idl.Iterator[idl.CodePoint] {
	return NewUnicodeReader(&fileBodyIO{
		ctx:  ctx,
		body: b,
	})
}

// NewUnicodeReader converts any byte reader into an iterator of code points.
// The reader is closed by Close when it implements io.Closer.
func NewUnicodeReader(r io.Reader) idl.Iterator[idl.CodePoint] {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanRunes)
	return &fileBody{
		reader:  r,
		scanner: scanner,
	}
}

type fileBody struct {
	reader  io.Reader
	scanner *bufio.Scanner
	done    bool
}

func (f *fileBody) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if f.done {
		return optional.None[idl.CodePoint]()
	}
	if !f.scanner.Scan() {
		f.done = true
		return optional.None[idl.CodePoint]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(idl.CodePoint(r))
}

func (f *fileBody) Close(context.Context) error {
	f.done = true
	if c, ok := f.reader.(io.Closer); ok {
		_ = c.Close()
	}
	return f.scanner.Err()
}

type fileBodyIO struct {
	ctx  context.Context
	body idl.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	b, err := self.body.Read(self.ctx, int32(len(p)))
	if err != nil && !errors.Is(err, io.EOF) {
		return len(b), err
	}
	copy(p, b)
	if errors.Is(err, io.EOF) {
		return len(b), io.EOF
	}
	return len(b), nil
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}

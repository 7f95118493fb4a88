// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"
	"unicode/utf8"

	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/optional"
)

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) idl.Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	if it.offset+1 >= len(it.slice) {
		it.offset = len(it.slice)
		return optional.None[T]()
	}
	it.offset = it.offset + 1
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// NewString iterates over the code points of s. Invalid UTF-8 sequences are
// produced as utf8.RuneError, one per byte, matching a range loop.
func NewString(s string) idl.Iterator[idl.CodePoint] {
	return NewStringParts([]string{s})
}

// NewStringParts iterates over the code points of each part in order as if
// the parts had been concatenated. A code point must not be split across two
// parts.
func NewStringParts(parts []string) idl.Iterator[idl.CodePoint] {
	return &iteratorStrings{parts: parts}
}

type iteratorStrings struct {
	parts  []string
	offset int
}

func (it *iteratorStrings) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	for len(it.parts) > 0 {
		current := it.parts[0]
		if it.offset >= len(current) {
			it.parts = it.parts[1:]
			it.offset = 0
			continue
		}
		r, size := utf8.DecodeRuneInString(current[it.offset:])
		it.offset = it.offset + size
		return optional.Some(idl.CodePoint(r))
	}
	return optional.None[idl.CodePoint]()
}

func (it *iteratorStrings) Close(ctx context.Context) error {
	it.parts = nil
	return nil
}

// NewChannel adapts a channel into an Iterator. Next blocks until a value is
// available, the channel is closed, or the context given to Next is done.
// The latter two both end the iteration. Close reports the context error, if
// any, that ended the iteration.
//
// The channel is owned by the producer. Close does not close it, so the
// producer must watch its own context to avoid blocking forever on a send
// after the consumer has gone away.
func NewChannel[T any](ch <-chan T) idl.Iterator[T] {
	return &iteratorChannel[T]{ch: ch}
}

type iteratorChannel[T any] struct {
	ch   <-chan T
	done bool
	err  error
}

func (it *iteratorChannel[T]) Next(ctx context.Context) optional.Optional[T] {
	if it.done {
		return optional.None[T]()
	}
	select {
	case <-ctx.Done():
		it.done = true
		it.err = ctx.Err()
		return optional.None[T]()
	case v, ok := <-it.ch:
		if !ok {
			it.done = true
			return optional.None[T]()
		}
		return optional.Some(v)
	}
}

func (it *iteratorChannel[T]) Close(ctx context.Context) error {
	it.done = true
	return it.err
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it idl.Iterator[T], f idl.Filter[T]) idl.Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   idl.Iterator[T]
	filter idl.Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() {
			return v
		}
		if it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// Collect drains the iterator into a slice and closes it.
func Collect[T any](ctx context.Context, it idl.Iterator[T]) ([]T, error) {
	var result []T
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		result = append(result, v.Value())
	}
	return result, it.Close(ctx)
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
//
// Note that this type should never be referenced directly in any signature.
// Always use Filter as an input or output type.
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}

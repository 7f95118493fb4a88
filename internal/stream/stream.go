// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package stream wraps a pull iterator with a rolling status and a single
// lookahead window.
//
// A Stream hands out items one at a time through Next and folds each one into
// its status. Peek opens a window that can fetch any number of upcoming items
// without touching the status. The window is then either consumed, which
// commits its items as if they had been read with Next, or revoked, which puts
// them back for the next reader. Only one window may be open per Stream and
// Next may not be called while it is open.
package stream

import (
	"context"

	"gopkg.microglot.org/lexer.go/internal/exc"
	"gopkg.microglot.org/lexer.go/internal/idl"
	"gopkg.microglot.org/lexer.go/internal/optional"
)

// Updater folds a committed item into the previous status.
type Updater[T any, S any] func(item T, previous S) S

// Stream is a cursor over an idl.Iterator. It is not safe for concurrent use.
type Stream[T any, S any] struct {
	source idl.Iterator[T]
	buffer []T
	peek   *Peek[T, S]
	status S
	update Updater[T, S]
}

// New creates a Stream whose status starts at initial and is advanced by
// update once for every committed item. A nil update leaves the status at
// initial forever.
func New[T any, S any](source idl.Iterator[T], initial S, update Updater[T, S]) *Stream[T, S] {
	return &Stream[T, S]{
		source: source,
		status: initial,
		update: update,
	}
}

// NewUntracked creates a Stream without a meaningful status.
func NewUntracked[T any](source idl.Iterator[T]) *Stream[T, struct{}] {
	return New[T, struct{}](source, struct{}{}, nil)
}

// Status returns the status after every item committed so far. Items held by
// an open window are not reflected until the window is consumed.
func (self *Stream[T, S]) Status() S {
	return self.status
}

// Active reports whether a window is currently open.
func (self *Stream[T, S]) Active() bool {
	return self.peek != nil
}

// Next commits and returns the next item. The result is absent once the
// source is exhausted, in which case the status is unchanged.
func (self *Stream[T, S]) Next(ctx context.Context) (optional.Optional[T], error) {
	if self.peek != nil {
		return optional.None[T](), concurrentAccess("cannot continue in the stream while there is an active peek")
	}
	item := self.pull(ctx)
	if item.IsPresent() {
		self.commit(item.Value())
	}
	return item, nil
}

// Peek opens a lookahead window. The window must be closed with Consume or
// Revoke before the Stream can be used again.
func (self *Stream[T, S]) Peek() (*Peek[T, S], error) {
	if self.peek != nil {
		return nil, concurrentAccess("there already is an active peek")
	}
	p := &Peek[T, S]{
		stream: self,
		alive:  true,
	}
	self.peek = p
	return p, nil
}

// Drain commits every remaining item and returns them.
func (self *Stream[T, S]) Drain(ctx context.Context) ([]T, error) {
	var result []T
	for {
		item, err := self.Next(ctx)
		if err != nil {
			return result, err
		}
		if !item.IsPresent() {
			return result, nil
		}
		result = append(result, item.Value())
	}
}

// Close closes the underlying source. Buffered items are discarded.
func (self *Stream[T, S]) Close(ctx context.Context) error {
	self.buffer = nil
	return self.source.Close(ctx)
}

// pull takes the next item without committing it. Returned items are replayed
// before anything new is read from the source.
func (self *Stream[T, S]) pull(ctx context.Context) optional.Optional[T] {
	if len(self.buffer) > 0 {
		item := self.buffer[0]
		self.buffer = self.buffer[1:]
		return optional.Some(item)
	}
	return self.source.Next(ctx)
}

func (self *Stream[T, S]) commit(item T) {
	if self.update != nil {
		self.status = self.update(item, self.status)
	}
}

// giveBack places items in front of the replay buffer in their original order.
func (self *Stream[T, S]) giveBack(items []T) {
	if len(items) < 1 {
		return
	}
	buffer := make([]T, 0, len(items)+len(self.buffer))
	buffer = append(buffer, items...)
	self.buffer = append(buffer, self.buffer...)
}

func (self *Stream[T, S]) release(p *Peek[T, S]) {
	if self.peek == p {
		self.peek = nil
	}
}

func concurrentAccess(message string) exc.Exception {
	return exc.New(exc.Location{}, exc.CodeConcurrentAccess, message)
}

// IsConcurrentAccess reports whether err was caused by misuse of a Stream or
// one of its windows.
func IsConcurrentAccess(err error) bool {
	return exc.HasCode(err, exc.CodeConcurrentAccess)
}

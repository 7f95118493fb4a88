// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"

	"gopkg.microglot.org/lexer.go/internal/optional"
)

// Peek is a lookahead window over a Stream. Items fetched into the window are
// taken from the Stream but not committed. The end of input takes one slot in
// the window once it has been reached so that Rewind can step back over it.
//
// Every window must end with exactly one call to Consume or Revoke. Using a
// window after that returns a concurrent access exception.
type Peek[T any, S any] struct {
	stream *Stream[T, S]
	items  []T
	atEnd  bool
	alive  bool
}

func (self *Peek[T, S]) Alive() bool {
	return self.alive
}

// AtEnd reports whether the last fetch reached the end of input.
func (self *Peek[T, S]) AtEnd() bool {
	return self.atEnd
}

// Items returns a copy of the fetched items in order, without the end slot.
func (self *Peek[T, S]) Items() []T {
	result := make([]T, len(self.items))
	copy(result, self.items)
	return result
}

func (self *Peek[T, S]) Len() int {
	return len(self.items)
}

// Last returns the most recently fetched item. It is absent when the window is
// empty or when the end of input occupies the last slot.
func (self *Peek[T, S]) Last() optional.Optional[T] {
	if self.atEnd || len(self.items) < 1 {
		return optional.None[T]()
	}
	return optional.Some(self.items[len(self.items)-1])
}

// Next fetches up to n more items into the window. It stops early, marking
// the window at end, if the input runs out. A window already at end does not
// read from the source again.
func (self *Peek[T, S]) Next(ctx context.Context, n int) error {
	if !self.alive {
		return concurrentAccess("peek is no longer alive")
	}
	for ; n > 0 && !self.atEnd; n = n - 1 {
		item := self.stream.pull(ctx)
		if !item.IsPresent() {
			self.atEnd = true
			break
		}
		self.items = append(self.items, item.Value())
	}
	return nil
}

// NextWhile fetches items for as long as keep accepts them. The first item
// that keep rejects is given back to the Stream, as is the end of input, so
// the window grows by exactly the run of accepted items.
func (self *Peek[T, S]) NextWhile(ctx context.Context, keep func(item T) bool) error {
	for {
		if err := self.Next(ctx, 1); err != nil {
			return err
		}
		last := self.Last()
		if !last.IsPresent() || !keep(last.Value()) {
			return self.Rewind(1)
		}
	}
}

// Rewind gives the last n slots back to the Stream. Items go to the front of
// the replay buffer in their original order. Rewinding past the start of the
// window stops at the start.
func (self *Peek[T, S]) Rewind(n int) error {
	if !self.alive {
		return concurrentAccess("peek is no longer alive")
	}
	if n < 1 {
		return nil
	}
	if self.atEnd {
		self.atEnd = false
		n = n - 1
	}
	if n > len(self.items) {
		n = len(self.items)
	}
	split := len(self.items) - n
	returned := make([]T, n)
	copy(returned, self.items[split:])
	self.items = self.items[:split]
	self.stream.giveBack(returned)
	return nil
}

// Consume commits every item in the window, in the order they were fetched,
// and closes the window.
func (self *Peek[T, S]) Consume() ([]T, error) {
	if !self.alive {
		return nil, concurrentAccess("peek is no longer alive")
	}
	items := self.items
	for _, item := range items {
		self.stream.commit(item)
	}
	self.close()
	return items, nil
}

// Revoke returns every item in the window to the Stream untouched and closes
// the window.
func (self *Peek[T, S]) Revoke() error {
	if !self.alive {
		return concurrentAccess("peek is no longer alive")
	}
	self.stream.giveBack(self.items)
	self.close()
	return nil
}

func (self *Peek[T, S]) close() {
	self.alive = false
	self.items = nil
	self.atEnd = false
	self.stream.release(self)
}

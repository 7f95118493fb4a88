// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package optional provides a value that may or may not be present. It is the
// end-of-input signal for every iterator in this module so that no item value
// has to be reserved as a marker.
package optional

type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the contained value or the zero value of T when absent.
func (self Optional[T]) Value() T {
	return self.value
}

// ValueOr returns the contained value or def when absent.
func (self Optional[T]) ValueOr(def T) T {
	if !self.present {
		return def
	}
	return self.value
}

// Get returns the value and whether it was present.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

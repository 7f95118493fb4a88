// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"sort"
	"sync"
)

// Reporter is used to accumulate and report diagnostics found after lexing.
// The lexer itself never fails on malformed text. It emits Invalid tokens
// instead, and later stages decide whether each one is worth reporting. A
// stage can report an exception and keep going when the code is configured
// as non-fatal. The final set can then be shown to the user.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions.
	Reported() []Exception
}

// NewReporter returns a concurrent-safe implementation of Reporter.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	return r.reported
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	reported := r.Reporter.Reported()
	result := make([]Exception, len(reported))
	copy(result, reported)
	return result
}

// Sorted returns the reported exceptions ordered by URI and then by position.
// Reports arrive in completion order when files are processed concurrently so
// this is the order used when showing them to a user.
func Sorted(r Reporter) []Exception {
	reported := r.Reported()
	result := make([]Exception, len(reported))
	copy(result, reported)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Location(), result[j].Location()
		if a.URI != b.URI {
			return a.URI < b.URI
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return result
}

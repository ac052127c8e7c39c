// Package testutil provides deterministic helpers for tests: identifier
// sequences that replace random UUID assignment so inserted records get
// reproducible, ordered ids across runs.
package testutil

import (
	"fmt"
	"sync"
)

// IDSequence generates identifiers of the form "<prefix>-0001",
// "<prefix>-0002", ... for deterministic record ids in tests and
// scenario runs.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type IDSequence struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

// NewIDSequence creates a sequence starting at 1. The first call to
// Next() returns "<prefix>-0001".
func NewIDSequence(prefix string) *IDSequence {
	return &IDSequence{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (s *IDSequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%04d", s.prefix, s.n)
}

// Current returns the number of identifiers generated so far.
func (s *IDSequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset restarts the sequence. After Reset(), the next call to Next()
// returns "<prefix>-0001" again.
func (s *IDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}

package testutil

import (
	"strconv"
	"sync"
)

// IDSequence generates predictable ids: prefix followed by 1, 2, 3...
//
// It satisfies reconcile.IDGenerator, so tests can assert exact local ids
// without listing them up front. Reset makes a sequence reusable across
// subtests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type IDSequence struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewIDSequence returns a sequence whose first id is prefix+"1".
func NewIDSequence(prefix string) *IDSequence {
	return &IDSequence{prefix: prefix}
}

// Generate returns the next id.
func (s *IDSequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.prefix + strconv.FormatInt(s.seq, 10)
}

// Current returns how many ids have been generated.
func (s *IDSequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset restarts the sequence at 1.
func (s *IDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

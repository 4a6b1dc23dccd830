package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies "today" for week selection and resets.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sequence is a monotonic counter stamped on every commit.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
// However, the Engine's single-writer design means only the goroutine holding
// the engine lock calls Next().
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a new sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number and increments the counter.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}

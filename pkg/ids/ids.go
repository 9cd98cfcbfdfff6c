// Package ids provides id generators for board items and lists.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates predictable ids ("prefix-1", "prefix-2", ...).
// It is meant for tests and scripted replays where stable ids matter.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence creates a sequence generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

// Func adapts a plain function to ports.IDGenerator.
type Func func() string

// NewID calls f.
func (f Func) NewID() string {
	return f()
}

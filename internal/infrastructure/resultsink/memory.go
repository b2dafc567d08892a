// Package resultsink stores the most recent receipt record for
// inspection. It replaces what used to be process-global mutable state:
// the caller constructs the sink and injects it wherever needed, which
// also makes it trivial to fake in tests.
package resultsink

import (
	"sync"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

// MemorySink is a thread-safe in-memory last-result store
type MemorySink struct {
	mu   sync.RWMutex
	last *domain.ReceiptRecord
}

// NewMemorySink creates an empty sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Store replaces the held record
func (s *MemorySink) Store(record *domain.ReceiptRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = record
}

// Last returns the most recent record, or domain.ErrNoResult when no
// receipt has been processed yet
func (s *MemorySink) Last() (*domain.ReceiptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, domain.ErrNoResult
	}
	return s.last, nil
}

package logstore

import (
	"context"
	"sync"
)

// MemStore keeps the log in memory. Suitable for tests and for callers that
// do not need the history to survive a restart.
type MemStore struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an in-memory store retaining at most max entries.
// A max of zero or less falls back to [DefaultMaxEntries].
func NewMemStore(max int) *MemStore {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &MemStore{max: max}
}

func (s *MemStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}
	return nil
}

func (s *MemStore) All(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func (s *MemStore) Close() error {
	return nil
}

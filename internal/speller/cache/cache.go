// Package cache stores confirmed corrections so repeated misspellings skip
// the matching pipeline entirely. Keys are the lowercase misspelled word;
// values are the lowercase replacement.
package cache

import (
	"strings"
	"sync"
)

// Store is the correction cache. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached correction for word and whether one exists.
	Get(word string) (string, bool, error)
	// Set records that word should be corrected to replacement.
	Set(word, replacement string) error
	// Clear drops every cached correction.
	Clear() error
	// Len reports the number of cached corrections.
	Len() (int, error)
	// Close releases any resources held by the store.
	Close() error
}

// MemStore is an in-memory [Store]. The zero value is not usable; use
// [NewMemStore].
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

func (s *MemStore) Get(word string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.entries[normalizeKey(word)]
	return r, ok, nil
}

func (s *MemStore) Set(word, replacement string) error {
	word = normalizeKey(word)
	replacement = normalizeKey(replacement)
	if word == "" || replacement == "" || word == replacement {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[word] = replacement
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return nil
}

func (s *MemStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemStore) Close() error {
	return nil
}

func normalizeKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

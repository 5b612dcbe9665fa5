// Package logstore records the outcome of every context-resolver
// interaction so corrections can be audited after the fact. Stores keep a
// bounded history; once full, the oldest entries are dropped.
package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// DefaultMaxEntries is the history cap applied when a store is created
// without an explicit limit.
const DefaultMaxEntries = 100

// Triple is a single applied correction inside a logged check.
type Triple struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Source    string `json:"source"`
}

// Entry is one logged resolver interaction.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	Input       string    `json:"input"`
	RawResponse string    `json:"raw_response,omitempty"`
	Corrections []Triple  `json:"corrections"`
	Success     bool      `json:"success"`
}

// Stats summarises the logged history.
type Stats struct {
	Entries     int            `json:"entries"`
	Successes   int            `json:"successes"`
	Failures    int            `json:"failures"`
	Corrections int            `json:"corrections"`
	BySource    map[string]int `json:"by_source"`
}

// Store is the audit log. Implementations must be safe for concurrent use
// and must retain at most their configured number of entries, evicting the
// oldest first.
type Store interface {
	// Append records a new entry, evicting the oldest if the store is full.
	Append(ctx context.Context, e Entry) error
	// All returns the retained entries, oldest first.
	All(ctx context.Context) ([]Entry, error)
	// Clear drops the entire history.
	Clear(ctx context.Context) error
	// Close releases any resources held by the store.
	Close() error
}

// ComputeStats derives [Stats] from a set of entries.
func ComputeStats(entries []Entry) Stats {
	st := Stats{BySource: make(map[string]int)}
	for _, e := range entries {
		st.Entries++
		if e.Success {
			st.Successes++
		} else {
			st.Failures++
		}
		for _, c := range e.Corrections {
			st.Corrections++
			st.BySource[c.Source]++
		}
	}
	return st
}

// Export writes the retained entries of s to w as indented JSON.
func Export(ctx context.Context, s Store, w io.Writer) error {
	entries, err := s.All(ctx)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("logstore: export: %w", err)
	}
	return nil
}

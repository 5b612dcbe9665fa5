// Package vocab holds the word lists the correction engine is built from:
// the vocabulary of known-correct spellings and the closed set of
// always-valid function words that must never be flagged.
//
// Both lists are explicitly constructed and injected into the engine at
// startup — there is no package-level mutable state. The [List] grows through
// [List.Learn] when a reviewer accepts a new word; it never shrinks. The
// [AlwaysValid] set is immutable after construction.
package vocab

import (
	"strings"
	"sync"
)

// List is the vocabulary of known-correct spellings. Words are stored in
// lowercase canonical form and in insertion order. Safe for concurrent use.
type List struct {
	mu    sync.RWMutex
	words []string
	index map[string]struct{}
}

// NewList builds a [List] from words. Input is lowercased; duplicates and
// blank entries are dropped, first occurrence wins.
func NewList(words []string) *List {
	l := &List{
		words: make([]string, 0, len(words)),
		index: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		l.learn(w)
	}
	return l
}

// Learn adds word to the vocabulary. It is a no-op when the word is already
// present (case-insensitive). Returns true when the vocabulary grew.
func (l *List) Learn(word string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.learn(word)
}

// learn adds word without locking. Callers must hold l.mu for writing,
// except during construction.
func (l *List) learn(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return false
	}
	if _, ok := l.index[w]; ok {
		return false
	}
	l.words = append(l.words, w)
	l.index[w] = struct{}{}
	return true
}

// Contains reports whether word is a verbatim (case-insensitive) member of
// the vocabulary.
func (l *List) Contains(word string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[strings.ToLower(word)]
	return ok
}

// Words returns a copy of the vocabulary in insertion order.
func (l *List) Words() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

// Len returns the number of words in the vocabulary.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.words)
}

// AlwaysValid is a closed set of words exempt from correction: function
// words, pronouns, and high-frequency forms that a phonetic matcher would
// mis-rank. Immutable after construction.
type AlwaysValid struct {
	set map[string]struct{}
}

// NewAlwaysValid builds an [AlwaysValid] set from words (lowercased).
func NewAlwaysValid(words []string) *AlwaysValid {
	av := &AlwaysValid{set: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			av.set[w] = struct{}{}
		}
	}
	return av
}

// Contains reports whether word is in the set (case-insensitive).
func (av *AlwaysValid) Contains(word string) bool {
	_, ok := av.set[strings.ToLower(word)]
	return ok
}

// Len returns the number of words in the set.
func (av *AlwaysValid) Len() int {
	return len(av.set)
}

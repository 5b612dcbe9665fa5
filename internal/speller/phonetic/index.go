package phonetic

import (
	"slices"
	"sync"

	"github.com/antzucaro/matchr"
)

// codeLength caps phonetic codes at the classic Double Metaphone length so
// long words still collide on their leading sound.
const codeLength = 4

// Index maps Double Metaphone codes to the known words that produce them.
// A word is indexed under its primary code and, when the pronunciation is
// ambiguous, under its alternate code as well. Word lists per code preserve
// insertion order and contain no duplicates. The index only ever grows.
//
// Lookups tolerate near-miss codes: Double Metaphone encodes some common
// misspellings one consonant away from the canonical word ("enuff" is ANF,
// "enough" is ANK), so buckets whose code is a single edit from the token's
// are searched too. The similarity scorer downstream ranks out the noise
// this admits.
//
// Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	byCode  map[string][]string
	indexed map[string]struct{}
}

// NewIndex builds an [Index] over words. Blank and duplicate words are
// ignored.
func NewIndex(words []string) *Index {
	idx := &Index{
		byCode:  make(map[string][]string),
		indexed: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		idx.add(w)
	}
	return idx
}

// Add inserts word under both of its phonetic codes. It is a no-op when the
// word is already indexed or produces no code (too short, no consonants).
func (idx *Index) Add(word string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.add(word)
}

// add inserts without locking. Callers must hold idx.mu for writing, except
// during construction.
func (idx *Index) add(word string) {
	w := Normalize(word)
	if w == "" {
		return
	}
	if _, ok := idx.indexed[w]; ok {
		return
	}
	primary, alternate := encode(w)
	if primary == "" && alternate == "" {
		return
	}
	if primary != "" {
		idx.byCode[primary] = append(idx.byCode[primary], w)
	}
	if alternate != "" && alternate != primary {
		idx.byCode[alternate] = append(idx.byCode[alternate], w)
	}
	idx.indexed[w] = struct{}{}
}

// Candidates returns the union of words indexed under token's primary and
// alternate phonetic codes, followed by words under codes a single edit
// away, in insertion order with duplicates removed. The token itself is
// excluded — a word that resolves to itself is spelled correctly.
func (idx *Index) Candidates(token string) []string {
	t := Normalize(token)
	if t == "" {
		return nil
	}
	primary, alternate := encode(t)
	codes := make([]string, 0, 2)
	for _, code := range []string{primary, alternate} {
		if code != "" && !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	collect := func(code string) {
		for _, w := range idx.byCode[code] {
			if w == t {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	for _, code := range codes {
		collect(code)
	}
	for _, code := range idx.neighborCodes(codes) {
		collect(code)
	}
	return out
}

// neighborCodes returns the indexed codes within edit distance one of any
// code in codes, excluding exact matches, sorted for deterministic output.
// Callers must hold idx.mu for reading.
func (idx *Index) neighborCodes(codes []string) []string {
	var out []string
	for key := range idx.byCode {
		if slices.Contains(codes, key) {
			continue
		}
		for _, code := range codes {
			if adjacentCodes(key, code) {
				out = append(out, key)
				break
			}
		}
	}
	slices.Sort(out)
	return out
}

// adjacentCodes reports whether two phonetic codes differ by a single edit.
func adjacentCodes(a, b string) bool {
	if d := len(a) - len(b); d < -1 || d > 1 {
		return false
	}
	return matchr.Levenshtein(a, b) == 1
}

// encode returns word's clipped primary and alternate phonetic codes.
func encode(word string) (string, string) {
	primary, alternate := matchr.DoubleMetaphone(word)
	return clipCode(primary), clipCode(alternate)
}

func clipCode(code string) string {
	if len(code) > codeLength {
		return code[:codeLength]
	}
	return code
}

// Contains reports whether word has been indexed.
func (idx *Index) Contains(word string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.indexed[Normalize(word)]
	return ok
}

// Len returns the number of indexed words.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.indexed)
}

// Codes returns the clipped phonetic codes for word: primary first, then
// the alternate when it exists and differs. Exposed for diagnostics.
func Codes(word string) []string {
	primary, alternate := encode(Normalize(word))
	var codes []string
	if primary != "" {
		codes = append(codes, primary)
	}
	if alternate != "" && alternate != primary {
		codes = append(codes, alternate)
	}
	return codes
}

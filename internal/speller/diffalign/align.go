// Package diffalign reconciles an original sentence with a corrected
// rendition of it into word-level (original, corrected) pairs.
//
// The context resolver sometimes answers with a fully corrected sentence
// rather than a structured change list. Plain positional zipping breaks as
// soon as the resolver merges, splits, or inserts a word, so the aligner
// searches a bounded window around each position and scores candidates with
// the same similarity measure the phonetic matcher uses. A resolver output
// whose word count diverges too far from the input is treated as a
// hallucination and discarded wholesale — surfacing a garbled alignment is
// worse than surfacing nothing.
package diffalign

import (
	"strings"
	"unicode"

	"github.com/MrWong99/orthograph/internal/speller/phonetic"
	"github.com/MrWong99/orthograph/internal/vocab"
)

const (
	defaultBailoutThreshold = 3
	defaultWindow           = 2
	defaultMinSimilarity    = 0.3
	defaultPositionBonus    = 0.1
)

// Pair is a word-level substitution recovered from the two sentences.
// Both sides are stripped of leading/trailing punctuation; Original keeps
// the casing it had in the source sentence and Corrected is case-matched
// to it.
type Pair struct {
	Original  string
	Corrected string
}

// Option is a functional option for configuring an [Aligner].
type Option func(*Aligner)

// WithBailoutThreshold sets the maximum absolute word-count difference
// between the two sentences before the whole alignment is discarded.
// Default: 3.
func WithBailoutThreshold(n int) Option {
	return func(a *Aligner) {
		a.bailout = n
	}
}

// WithWindow sets how many positions to search either side of each original
// word. Default: 2.
func WithWindow(n int) Option {
	return func(a *Aligner) {
		a.window = n
	}
}

// WithMinSimilarity sets the raw similarity a candidate must exceed to be
// accepted as the counterpart of an original word. Default: 0.3.
func WithMinSimilarity(s float64) Option {
	return func(a *Aligner) {
		a.minSimilarity = s
	}
}

// WithAlwaysValid sets the word set that is never emitted as a pair, even
// when the resolver rewrote it. A resolver that adds articles or swaps
// pronouns is editing grammar, not spelling.
func WithAlwaysValid(av *vocab.AlwaysValid) Option {
	return func(a *Aligner) {
		a.alwaysValid = av
	}
}

// Aligner performs bounded-window fuzzy alignment. It is pure and safe for
// concurrent use after construction.
type Aligner struct {
	scorer        *phonetic.Scorer
	bailout       int
	window        int
	minSimilarity float64
	positionBonus float64
	alwaysValid   *vocab.AlwaysValid
}

// New returns an [Aligner] with the supplied options.
func New(opts ...Option) *Aligner {
	a := &Aligner{
		scorer:        phonetic.NewScorer(),
		bailout:       defaultBailoutThreshold,
		window:        defaultWindow,
		minSimilarity: defaultMinSimilarity,
		positionBonus: defaultPositionBonus,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Align extracts (original, corrected) pairs from original and the
// resolver's output. Returns nil when the outputs diverge beyond the
// bail-out threshold or when no word actually changed.
func (a *Aligner) Align(original, resolved string) []Pair {
	resolved = StripPreamble(resolved)
	original = strings.TrimSpace(original)
	if original == "" || resolved == "" {
		return nil
	}

	origWords := strings.Fields(original)
	corrWords := strings.Fields(resolved)

	diff := len(origWords) - len(corrWords)
	if diff < 0 {
		diff = -diff
	}
	if diff > a.bailout {
		return nil
	}

	var pairs []Pair
	for i, ow := range origWords {
		owCore := TrimPunct(ow)
		if owCore == "" {
			continue
		}
		if a.alwaysValid != nil && a.alwaysValid.Contains(owCore) {
			continue
		}

		best, ok := a.bestCandidate(owCore, corrWords, i)
		if !ok {
			continue
		}
		if phonetic.Normalize(best) == phonetic.Normalize(owCore) {
			continue
		}
		pairs = append(pairs, Pair{
			Original:  owCore,
			Corrected: MatchCase(owCore, best),
		})
	}
	return pairs
}

// bestCandidate searches corrWords in the window around position i for the
// word most similar to core. Reports ok=false when nothing clears the
// minimum similarity.
func (a *Aligner) bestCandidate(core string, corrWords []string, i int) (string, bool) {
	lo := i - a.window
	if lo < 0 {
		lo = 0
	}
	hi := i + a.window
	if hi > len(corrWords)-1 {
		hi = len(corrWords) - 1
	}

	var best string
	bestScore := -1.0
	for j := lo; j <= hi; j++ {
		cand := TrimPunct(corrWords[j])
		if cand == "" {
			continue
		}
		raw := a.scorer.Score(core, cand)
		if raw <= a.minSimilarity {
			continue
		}
		score := raw
		if j == i {
			score += a.positionBonus
		}
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	return best, best != ""
}

// preambleMarkers are lowercase fragments that identify a conversational
// lead-in the resolver sometimes produces before the actual sentence.
var preambleMarkers = []string{
	"here is",
	"here's",
	"corrected sentence",
	"corrected text",
	"sure",
	"output",
}

// StripPreamble removes a conversational lead-in such as "Here is the
// corrected sentence:" from the start of s. Only text up to the first colon
// is considered, and only when it matches a known marker — a colon inside
// the sentence itself is left alone.
func StripPreamble(s string) string {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, ":")
	if idx < 0 || idx > 60 {
		return s
	}
	head := strings.ToLower(s[:idx])
	for _, marker := range preambleMarkers {
		if strings.Contains(head, marker) {
			return strings.TrimSpace(s[idx+1:])
		}
	}
	return s
}

// TrimPunct strips leading and trailing non-word runes from w. Interior
// punctuation (apostrophes, hyphens) is preserved.
func TrimPunct(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// MatchCase reshapes corrected to follow original's casing: an all-uppercase
// original uppercases the whole correction, a capitalized original
// capitalizes only the first letter, anything else leaves the correction as
// produced by its source.
func MatchCase(original, corrected string) string {
	if original == "" || corrected == "" {
		return corrected
	}
	if original == strings.ToUpper(original) && strings.ContainsFunc(original, unicode.IsLetter) && len([]rune(original)) > 1 {
		return strings.ToUpper(corrected)
	}
	runes := []rune(original)
	if unicode.IsUpper(runes[0]) {
		cr := []rune(strings.ToLower(corrected))
		cr[0] = unicode.ToUpper(cr[0])
		return string(cr)
	}
	return corrected
}

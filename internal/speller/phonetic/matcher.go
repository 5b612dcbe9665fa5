// Package phonetic implements the in-process stage of the correction engine:
// a Double Metaphone index over the known vocabulary (via
// github.com/antzucaro/matchr) combined with a weighted similarity scorer
// for ranked, confidence-calibrated candidate selection.
//
// The algorithm proceeds in two stages:
//
//  1. Phonetic candidate filtering: the misspelled token's primary and
//     alternate Double Metaphone codes select every known word that shares a
//     code — words that sound alike collide regardless of how differently
//     they are spelled ("fone" and "phone" share a code).
//
//  2. Similarity ranking: candidates are scored by the [Scorer] and sorted
//     best-first. The top candidate's score becomes the match confidence.
//     When the runner-up scores within the ambiguity window of the top
//     candidate the result is ambiguous (homophone groups such as
//     by/buy/bye) and must be deferred to context resolution, never
//     auto-applied.
package phonetic

import (
	"sort"
)

const (
	defaultActionableThreshold = 0.5
	defaultAmbiguityWindow     = 0.8
	defaultAmbiguityDiscount   = 0.7
)

// State classifies a [MatchResult].
type State int

const (
	// StateUnresolved means the index produced no candidates at all; the
	// token must be deferred to context resolution.
	StateUnresolved State = iota

	// StateAmbiguous means candidates exist but none is safe to auto-apply,
	// either because the confidence is below the actionable threshold or
	// because two candidates score too close together.
	StateAmbiguous

	// StateActionable means the best candidate is confident enough to
	// surface as a correction without external context.
	StateActionable
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateAmbiguous:
		return "ambiguous"
	case StateActionable:
		return "actionable"
	default:
		return "unknown"
	}
}

// Candidate is a scored correction candidate.
type Candidate struct {
	// Word is the known word, lowercase canonical form.
	Word string

	// Score is the similarity to the looked-up token in [0,1].
	Score float64
}

// MatchResult is the outcome of a [Matcher.Lookup].
type MatchResult struct {
	// Original is the token as passed to Lookup.
	Original string

	// Candidates is ordered best-first. Empty when the index had no words
	// sharing a phonetic code with the token.
	Candidates []Candidate

	// BestMatch is Candidates[0].Word, or "" when there are no candidates.
	BestMatch string

	// Confidence is the calibrated confidence in BestMatch, in [0,1].
	// Discounted when the top two candidates score close together.
	Confidence float64

	// State classifies the result; only [StateActionable] results may be
	// applied without context resolution.
	State State
}

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithActionableThreshold sets the confidence above which a match is
// actionable. Default: 0.5.
func WithActionableThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.actionableThreshold = threshold
	}
}

// WithAmbiguityWindow sets the fraction of the top score within which a
// runner-up marks the result ambiguous. Default: 0.8.
func WithAmbiguityWindow(window float64) Option {
	return func(m *Matcher) {
		m.ambiguityWindow = window
	}
}

// WithAmbiguityDiscount sets the factor applied to the confidence of an
// ambiguous result. Default: 0.7.
func WithAmbiguityDiscount(discount float64) Option {
	return func(m *Matcher) {
		m.ambiguityDiscount = discount
	}
}

// Matcher ranks phonetic candidates from an [Index] and calibrates a
// confidence for the best one. Safe for concurrent use.
type Matcher struct {
	index  *Index
	scorer *Scorer

	actionableThreshold float64
	ambiguityWindow     float64
	ambiguityDiscount   float64
}

// NewMatcher returns a [Matcher] over index with the supplied options.
func NewMatcher(index *Index, opts ...Option) *Matcher {
	m := &Matcher{
		index:               index,
		scorer:              NewScorer(),
		actionableThreshold: defaultActionableThreshold,
		ambiguityWindow:     defaultAmbiguityWindow,
		ambiguityDiscount:   defaultAmbiguityDiscount,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Index returns the underlying [Index], so callers can extend it when a new
// word is learned.
func (m *Matcher) Index() *Index {
	return m.index
}

// Lookup scores token against every known word sharing one of its phonetic
// codes and returns a confidence-calibrated [MatchResult].
//
// An empty candidate set yields [StateUnresolved] with confidence 0. A
// runner-up within the ambiguity window of the top score yields
// [StateAmbiguous] with the confidence discounted — close scores mean the
// sound alone cannot pick a winner (by/buy/bye) and guessing would be worse
// than deferring.
func (m *Matcher) Lookup(token string) MatchResult {
	result := MatchResult{Original: token}

	words := m.index.Candidates(token)
	if len(words) == 0 {
		return result
	}

	result.Candidates = make([]Candidate, 0, len(words))
	for _, w := range words {
		result.Candidates = append(result.Candidates, Candidate{
			Word:  w,
			Score: m.scorer.Score(token, w),
		})
	}
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Score > result.Candidates[j].Score
	})

	top := result.Candidates[0]
	result.BestMatch = top.Word
	result.Confidence = top.Score

	ambiguous := false
	if len(result.Candidates) > 1 {
		runnerUp := result.Candidates[1]
		if runnerUp.Score >= top.Score*m.ambiguityWindow {
			ambiguous = true
			result.Confidence = top.Score * m.ambiguityDiscount
		}
	}

	switch {
	case ambiguous:
		result.State = StateAmbiguous
	case result.Confidence > m.actionableThreshold:
		result.State = StateActionable
	default:
		result.State = StateAmbiguous
	}
	return result
}

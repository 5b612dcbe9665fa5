// Package speller implements the hybrid correction engine: a cache-first,
// phonetics-second, context-last pipeline that fixes spelling in a child's
// sentence while leaving word choice and grammar alone.
//
// The [Orchestrator] ties the stages together:
//
//  1. The correction cache replays previously confirmed corrections.
//  2. The phonetic matcher settles misspellings that sound like exactly one
//     vocabulary word.
//  3. The context resolver — a language model — settles the rest: ambiguous
//     matches and words with no phonetic candidate. At most one resolver
//     call is made per checked sentence.
//
// Resolver failures are absorbed: a check always returns the corrections
// the local stages produced, never an error caused by the model backend.
package speller

import (
	"context"

	"github.com/MrWong99/orthograph/internal/speller/contextres"
)

// Source identifies which pipeline stage produced a correction.
type Source string

const (
	// SourceCache marks corrections replayed from the correction cache.
	SourceCache Source = "cache"

	// SourcePhonetic marks corrections the phonetic matcher settled alone.
	SourcePhonetic Source = "phonetic"

	// SourceContext marks corrections the context resolver settled.
	SourceContext Source = "context"
)

// Correction is a single word-level substitution applied to the input.
type Correction struct {
	// Original is the misspelled word as it appeared in the input, without
	// surrounding punctuation.
	Original string

	// Corrected is the replacement, case-matched to the original.
	Corrected string

	// Offset is the byte offset of the word within the input sentence.
	Offset int

	// Source is the stage that produced this correction.
	Source Source
}

// CheckResult is the outcome of checking one sentence.
type CheckResult struct {
	// Input is the sentence as submitted.
	Input string

	// Corrected is the sentence with all corrections applied. Punctuation,
	// casing and whitespace of the input are preserved.
	Corrected string

	// Corrections lists the applied substitutions in input order.
	Corrections []Correction
}

// Changed reports whether any correction was applied.
func (r *CheckResult) Changed() bool {
	return len(r.Corrections) > 0
}

// ContextResolver settles words that need sentence context. Implementations
// must be safe for concurrent use.
type ContextResolver interface {
	// Resolve proposes corrections for sentence. attention lists the words
	// needing a decision; known lists the vocabulary offered to the model.
	Resolve(ctx context.Context, sentence string, attention, known []string) (*contextres.Result, error)
}

var _ ContextResolver = (*contextres.Resolver)(nil)

// Package contextres implements a language-model-based resolution stage for
// misspellings the phonetic matcher could not settle on its own — ambiguous
// matches where several vocabulary words are phonetically plausible, and
// residual words with no phonetic candidate at all.
//
// The [Resolver] sends the full sentence to an [llm.Provider] together with
// the words that need attention. The model is instructed (via a conservative
// system prompt) to fix only spelling and to answer with a structured change
// list. When the model answers with a rewritten sentence instead, the
// response is reconciled against the input with a [diffalign.Aligner].
// When the response cannot be interpreted at all, the resolver returns no
// pairs and a nil error rather than surfacing a failure — a garbled model
// reply must never break the correction flow.
package contextres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrWong99/orthograph/internal/speller/diffalign"
	"github.com/MrWong99/orthograph/internal/vocab"
	"github.com/MrWong99/orthograph/pkg/provider/llm"
)

const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 256
)

// ErrUnavailable is returned when the resolver cannot reach its backend,
// either because the request failed or because the breaker is open after
// repeated failures.
var ErrUnavailable = errors.New("contextres: resolver unavailable")

// systemPromptTemplate is the base system prompt. The known-word list is
// appended at call time so each request carries the current vocabulary.
const systemPromptTemplate = `You are a spelling assistant for a child learning to write.

Your task: fix spelling mistakes in the provided sentence.

Rules:
- ONLY fix words that are misspelled. Do NOT change grammar, word order, word choice, or punctuation.
- Be conservative — if a word could be correct, leave it unchanged.
- Use the surrounding sentence to decide between plausible corrections.
- Prefer corrections from the known words listed below when they fit the sentence.

Known words:
%s

Respond with ONLY one line in this exact format (no markdown, no prose):
CHANGES: wrong1->right1, wrong2->right2

If nothing is misspelled, respond with exactly:
CHANGES: none`

// WordPair is a single word-level correction extracted from the model's
// response. Both sides are clean lowercase words without punctuation.
type WordPair struct {
	Original  string
	Corrected string
}

// Result carries the outcome of one resolver interaction.
type Result struct {
	// Pairs are the corrections the model proposed, already filtered.
	Pairs []WordPair

	// RawResponse is the model's unprocessed reply, kept for the audit log.
	RawResponse string
}

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithTemperature sets the LLM sampling temperature. Lower values produce
// more deterministic corrections. Default: 0.1.
func WithTemperature(temp float64) Option {
	return func(r *Resolver) {
		r.temperature = temp
	}
}

// WithMaxTokens caps the completion length. Default: 256. A change list for
// a child's sentence never needs more.
func WithMaxTokens(n int) Option {
	return func(r *Resolver) {
		r.maxTokens = n
	}
}

// WithAligner sets the aligner used to recover corrections when the model
// answers with a rewritten sentence instead of a change list. When nil,
// such responses yield no corrections.
func WithAligner(a *diffalign.Aligner) Option {
	return func(r *Resolver) {
		r.aligner = a
	}
}

// WithAlwaysValid sets the word set that is filtered out of the model's
// proposed corrections on the original side.
func WithAlwaysValid(av *vocab.AlwaysValid) Option {
	return func(r *Resolver) {
		r.alwaysValid = av
	}
}

// WithBreaker attaches a [Breaker] so that a persistently failing backend is
// skipped for a cooldown period instead of being hammered on every check.
func WithBreaker(b *Breaker) Option {
	return func(r *Resolver) {
		r.breaker = b
	}
}

// Resolver uses an [llm.Provider] to settle corrections that need sentence
// context. It is safe for concurrent use.
//
// Model selection follows the one-provider-per-model pattern: to use a
// specific model, construct the [llm.Provider] with that model configured.
type Resolver struct {
	llm         llm.Provider
	temperature float64
	maxTokens   int
	aligner     *diffalign.Aligner
	alwaysValid *vocab.AlwaysValid
	breaker     *Breaker
}

// New returns a [Resolver] backed by the given provider.
func New(provider llm.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		llm:         provider,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve sends sentence to the model and extracts word-level corrections.
// attention lists the words the earlier stages flagged (ambiguous matches
// and residuals); known lists the vocabulary offered to the model.
//
// A transport failure or an open breaker returns an error wrapping
// [ErrUnavailable]. A reply that cannot be interpreted returns an empty
// [Result] with the raw response and a nil error.
func (r *Resolver) Resolve(ctx context.Context, sentence string, attention, known []string) (*Result, error) {
	if r.breaker != nil && !r.breaker.Allow() {
		return nil, ErrUnavailable
	}

	req := llm.CompletionRequest{
		SystemPrompt: buildSystemPrompt(known),
		Temperature:  r.temperature,
		MaxTokens:    r.maxTokens,
		Messages: []llm.Message{
			{Role: "user", Content: buildUserMessage(sentence, attention)},
		},
	}

	resp, err := r.llm.Complete(ctx, req)
	if err != nil {
		if r.breaker != nil {
			r.breaker.Failure()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if r.breaker != nil {
		r.breaker.Success()
	}

	raw := resp.Content
	result := &Result{RawResponse: raw}

	pairs, found := ParseChanges(raw)
	if !found && r.aligner != nil {
		// The model ignored the format and rewrote the sentence.
		for _, p := range r.aligner.Align(sentence, raw) {
			pairs = append(pairs, WordPair{
				Original:  strings.ToLower(p.Original),
				Corrected: strings.ToLower(p.Corrected),
			})
		}
	}
	result.Pairs = r.filter(pairs)
	return result, nil
}

// filter drops pairs that are empty, self-referential or whose original word
// is always valid.
func (r *Resolver) filter(pairs []WordPair) []WordPair {
	out := pairs[:0]
	for _, p := range pairs {
		if p.Original == "" || p.Corrected == "" || p.Original == p.Corrected {
			continue
		}
		if r.alwaysValid != nil && r.alwaysValid.Contains(p.Original) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// buildSystemPrompt formats the system prompt template with the known-word list.
func buildSystemPrompt(known []string) string {
	var sb strings.Builder
	for _, w := range known {
		sb.WriteString("- ")
		sb.WriteString(w)
		sb.WriteByte('\n')
	}
	if sb.Len() == 0 {
		sb.WriteString("(none)\n")
	}
	return fmt.Sprintf(systemPromptTemplate, sb.String())
}

// buildUserMessage attaches the flagged words to the sentence so the model
// knows where to look.
func buildUserMessage(sentence string, attention []string) string {
	if len(attention) == 0 {
		return sentence
	}
	return fmt.Sprintf(
		"Sentence: %s\n\nWords that may be misspelled: %s",
		sentence,
		strings.Join(attention, ", "),
	)
}

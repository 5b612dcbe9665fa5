package speller

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrWong99/orthograph/internal/logstore"
	"github.com/MrWong99/orthograph/internal/observe"
	"github.com/MrWong99/orthograph/internal/speller/cache"
	"github.com/MrWong99/orthograph/internal/speller/diffalign"
	"github.com/MrWong99/orthograph/internal/speller/phonetic"
	"github.com/MrWong99/orthograph/internal/vocab"
)

// Option is a functional option for configuring an [Orchestrator].
type Option func(*Orchestrator)

// WithVocabulary sets the learnable vocabulary. Default: [vocab.DefaultList].
func WithVocabulary(list *vocab.List) Option {
	return func(o *Orchestrator) {
		o.vocab = list
	}
}

// WithAlwaysValid sets the word set that is never flagged or corrected.
// Default: [vocab.DefaultAlwaysValid].
func WithAlwaysValid(av *vocab.AlwaysValid) Option {
	return func(o *Orchestrator) {
		o.alwaysValid = av
	}
}

// WithMatcherOptions forwards options to the phonetic matcher built over the
// vocabulary.
func WithMatcherOptions(opts ...phonetic.Option) Option {
	return func(o *Orchestrator) {
		o.matcherOpts = opts
	}
}

// WithCache sets the correction cache. Default: an in-memory store.
func WithCache(c cache.Store) Option {
	return func(o *Orchestrator) {
		o.cache = c
	}
}

// WithResolver attaches a [ContextResolver] for ambiguous and residual
// words. When nil (the default), such words are left unchanged.
func WithResolver(r ContextResolver) Option {
	return func(o *Orchestrator) {
		o.resolver = r
	}
}

// WithLogStore sets the audit log for resolver interactions. Default: an
// in-memory store with the default cap.
func WithLogStore(s logstore.Store) Option {
	return func(o *Orchestrator) {
		o.logStore = s
	}
}

// WithMetrics sets the metrics instance. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithLogger sets the structured logger. Default: [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Orchestrator runs the correction pipeline. It is safe for concurrent use;
// concurrent checks of the same sentence are collapsed into a single run so
// the resolver is never called twice for the same input at the same time.
type Orchestrator struct {
	vocab       *vocab.List
	alwaysValid *vocab.AlwaysValid
	matcher     *phonetic.Matcher
	matcherOpts []phonetic.Option
	cache       cache.Store
	resolver    ContextResolver
	logStore    logstore.Store
	metrics     *observe.Metrics
	logger      *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	lastInput  string
	lastResult *CheckResult
}

// New constructs an [Orchestrator] with the supplied options and indexes the
// vocabulary into the phonetic matcher.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	if o.vocab == nil {
		o.vocab = vocab.DefaultList()
	}
	if o.alwaysValid == nil {
		o.alwaysValid = vocab.DefaultAlwaysValid()
	}
	if o.cache == nil {
		o.cache = cache.NewMemStore()
	}
	if o.logStore == nil {
		o.logStore = logstore.NewMemStore(0)
	}
	if o.metrics == nil {
		o.metrics = observe.DefaultMetrics()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	index := phonetic.NewIndex(o.vocab.Words())
	o.matcher = phonetic.NewMatcher(index, o.matcherOpts...)
	o.metrics.VocabWords.Add(context.Background(), int64(o.vocab.Len()))

	return o
}

// Learn adds word to the vocabulary and the phonetic index. Reports whether
// the word was new.
func (o *Orchestrator) Learn(ctx context.Context, word string) bool {
	clean := strings.ToLower(diffalign.TrimPunct(word))
	if clean == "" {
		return false
	}
	if !o.vocab.Learn(clean) {
		return false
	}
	o.matcher.Index().Add(clean)
	o.metrics.VocabWords.Add(ctx, 1)
	o.invalidateMemo()
	o.logger.Debug("learned word", "word", clean, "vocab_size", o.vocab.Len())
	return true
}

// Check corrects the spelling of input and returns the result. The input is
// never rejected: an empty sentence, an unknown word the pipeline cannot
// settle, or a failing resolver all yield a result with whatever corrections
// could be made.
func (o *Orchestrator) Check(ctx context.Context, input string) (*CheckResult, error) {
	start := time.Now()
	defer func() {
		o.metrics.CheckDuration.Record(ctx, time.Since(start).Seconds())
	}()

	if strings.TrimSpace(input) == "" {
		return &CheckResult{Input: input, Corrected: input}, nil
	}

	o.mu.Lock()
	if input == o.lastInput && o.lastResult != nil {
		res := copyResult(o.lastResult)
		o.mu.Unlock()
		return res, nil
	}
	o.mu.Unlock()

	v, err, _ := o.group.Do(input, func() (any, error) {
		return o.check(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	result := v.(*CheckResult)

	o.mu.Lock()
	o.lastInput = input
	o.lastResult = result
	o.mu.Unlock()

	return copyResult(result), nil
}

// decision is the settled replacement for one clean word within a check.
type decision struct {
	replacement string
	source      Source
}

// check runs the pipeline for one sentence.
func (o *Orchestrator) check(ctx context.Context, input string) (*CheckResult, error) {
	tokens := tokenize(input)
	decisions := make(map[string]decision)
	var attention []string

	for _, t := range tokens {
		if !t.checkable() {
			continue
		}
		if o.alwaysValid.Contains(t.clean) {
			continue
		}
		if _, done := decisions[t.clean]; done {
			continue
		}

		if replacement, ok, err := o.cache.Get(t.clean); err != nil {
			o.logger.Warn("correction cache lookup failed", "word", t.clean, "error", err)
		} else if ok {
			o.metrics.CacheHits.Add(ctx, 1)
			decisions[t.clean] = decision{replacement: replacement, source: SourceCache}
			continue
		} else {
			o.metrics.CacheMisses.Add(ctx, 1)
		}

		if o.vocab.Contains(t.clean) {
			continue
		}

		match := o.matcher.Lookup(t.clean)
		switch match.State {
		case phonetic.StateActionable:
			decisions[t.clean] = decision{replacement: match.BestMatch, source: SourcePhonetic}
			o.cacheSet(t.clean, match.BestMatch)
		default:
			if !slices.Contains(attention, t.clean) {
				attention = append(attention, t.clean)
			}
		}
	}

	entry := logstore.Entry{
		Timestamp: time.Now().UTC(),
		Input:     input,
		Success:   true,
	}
	if len(attention) > 0 && o.resolver != nil {
		raw, err := o.resolve(ctx, input, attention, decisions)
		entry.RawResponse = raw
		entry.Success = err == nil
	}

	result := o.materialize(ctx, input, tokens, decisions)
	for _, c := range result.Corrections {
		entry.Corrections = append(entry.Corrections, logstore.Triple{
			Original:  c.Original,
			Corrected: c.Corrected,
			Source:    string(c.Source),
		})
	}
	if err := o.logStore.Append(ctx, entry); err != nil {
		o.logger.Warn("audit log append failed", "error", err)
	}

	return result, nil
}

// resolve performs the single context-resolver call for this check and folds
// the proposed pairs into decisions. It returns the model's raw reply for
// the audit log; failures are logged and absorbed.
func (o *Orchestrator) resolve(ctx context.Context, input string, attention []string, decisions map[string]decision) (string, error) {
	start := time.Now()
	res, err := o.resolver.Resolve(ctx, input, attention, o.vocab.Words())
	o.metrics.ResolverDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		o.metrics.RecordResolverRequest(ctx, "error")
		o.logger.Warn("context resolver unavailable", "error", err, "flagged_words", attention)
		return "", err
	}

	o.metrics.RecordResolverRequest(ctx, "ok")
	for _, p := range res.Pairs {
		if _, done := decisions[p.Original]; done {
			continue
		}
		// A proposal for a correctly spelled word is the model editing
		// word choice, not spelling.
		if o.vocab.Contains(p.Original) || o.alwaysValid.Contains(p.Original) {
			continue
		}
		decisions[p.Original] = decision{replacement: p.Corrected, source: SourceContext}
		o.cacheSet(p.Original, p.Corrected)
	}
	return res.RawResponse, nil
}

// materialize rebuilds the corrected sentence, preserving whitespace,
// punctuation and casing, and records the applied corrections. Every
// occurrence of a settled word is replaced in the sentence, but the
// corrections list carries one entry per distinct lowercase original, the
// first occurrence winning.
func (o *Orchestrator) materialize(ctx context.Context, input string, tokens []token, decisions map[string]decision) *CheckResult {
	result := &CheckResult{Input: input}

	var sb strings.Builder
	pos := 0
	reported := make(map[string]struct{})
	for _, t := range tokens {
		d, ok := decisions[t.clean]
		if !ok || !t.checkable() {
			continue
		}
		cased := diffalign.MatchCase(t.core, d.replacement)

		sb.WriteString(input[pos:t.offset])
		sb.WriteString(t.replaceCore(cased))
		pos = t.offset + len(t.text)

		if _, dup := reported[t.clean]; dup {
			continue
		}
		reported[t.clean] = struct{}{}
		result.Corrections = append(result.Corrections, Correction{
			Original:  t.core,
			Corrected: cased,
			Offset:    t.coreOff,
			Source:    d.source,
		})
		o.metrics.RecordCorrection(ctx, string(d.source))
	}
	sb.WriteString(input[pos:])
	result.Corrected = sb.String()

	if result.Changed() {
		o.logger.Info("corrected sentence",
			"input", input,
			"corrected", result.Corrected,
			"corrections", len(result.Corrections),
		)
	}
	return result
}

func (o *Orchestrator) cacheSet(word, replacement string) {
	if err := o.cache.Set(word, replacement); err != nil {
		o.logger.Warn("correction cache write failed", "word", word, "error", err)
	}
}

func (o *Orchestrator) invalidateMemo() {
	o.mu.Lock()
	o.lastInput = ""
	o.lastResult = nil
	o.mu.Unlock()
}

// ClearCache drops all cached corrections.
func (o *Orchestrator) ClearCache(ctx context.Context) error {
	o.invalidateMemo()
	return o.cache.Clear()
}

// ClearLog drops the audit log.
func (o *Orchestrator) ClearLog(ctx context.Context) error {
	return o.logStore.Clear(ctx)
}

// ExportLog writes the audit log to w as indented JSON.
func (o *Orchestrator) ExportLog(ctx context.Context, w io.Writer) error {
	return logstore.Export(ctx, o.logStore, w)
}

// Log returns the retained audit log entries, oldest first.
func (o *Orchestrator) Log(ctx context.Context) ([]logstore.Entry, error) {
	return o.logStore.All(ctx)
}

// LogStats summarises the audit log.
func (o *Orchestrator) LogStats(ctx context.Context) (logstore.Stats, error) {
	entries, err := o.logStore.All(ctx)
	if err != nil {
		return logstore.Stats{}, err
	}
	return logstore.ComputeStats(entries), nil
}

// Close releases the cache and log store resources.
func (o *Orchestrator) Close() error {
	cacheErr := o.cache.Close()
	logErr := o.logStore.Close()
	if cacheErr != nil {
		return cacheErr
	}
	return logErr
}

func copyResult(r *CheckResult) *CheckResult {
	out := &CheckResult{
		Input:     r.Input,
		Corrected: r.Corrected,
	}
	if len(r.Corrections) > 0 {
		out.Corrections = make([]Correction, len(r.Corrections))
		copy(out.Corrections, r.Corrections)
	}
	return out
}

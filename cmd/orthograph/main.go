// Command orthograph runs the spelling correction service: an interactive
// check loop on stdin plus an optional metrics/health HTTP endpoint.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/orthograph/internal/config"
	"github.com/MrWong99/orthograph/internal/health"
	"github.com/MrWong99/orthograph/internal/logstore"
	"github.com/MrWong99/orthograph/internal/observe"
	"github.com/MrWong99/orthograph/internal/speller"
	"github.com/MrWong99/orthograph/internal/speller/cache"
	"github.com/MrWong99/orthograph/internal/speller/contextres"
	"github.com/MrWong99/orthograph/internal/speller/diffalign"
	"github.com/MrWong99/orthograph/internal/speller/phonetic"
	"github.com/MrWong99/orthograph/internal/vocab"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "orthograph: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "orthograph: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logLevel := new(slog.LevelVar)
	logLevel.Set(cfg.Server.LogLevel.Level())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("orthograph starting",
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	metricsShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}

	// ── Vocabulary ────────────────────────────────────────────────────────────
	words := vocab.DefaultList()
	for _, path := range cfg.Wordlists {
		if err := importWordlist(path, words.Learn); err != nil {
			slog.Error("failed to import wordlist", "path", path, "err", err)
			return 1
		}
	}
	alwaysValid := vocab.DefaultAlwaysValid()

	// ── Stores ────────────────────────────────────────────────────────────────
	cacheStore, err := buildCache(cfg.Cache)
	if err != nil {
		slog.Error("failed to open correction cache", "err", err)
		return 1
	}

	logStore, closeLogDB, err := buildLogStore(ctx, cfg.Log)
	if err != nil {
		slog.Error("failed to open audit log store", "err", err)
		return 1
	}
	if closeLogDB != nil {
		defer closeLogDB()
	}

	// ── Context resolver ──────────────────────────────────────────────────────
	resolver, err := buildResolver(cfg, alwaysValid)
	if err != nil {
		slog.Error("failed to build context resolver", "err", err)
		return 1
	}

	// ── Correction engine ─────────────────────────────────────────────────────
	orchOpts := []speller.Option{
		speller.WithVocabulary(words),
		speller.WithAlwaysValid(alwaysValid),
		speller.WithMatcherOptions(matcherOptions(cfg.Engine)...),
		speller.WithCache(cacheStore),
		speller.WithLogStore(logStore),
		speller.WithLogger(logger),
	}
	if resolver != nil {
		orchOpts = append(orchOpts, speller.WithResolver(resolver))
	}
	orch := speller.New(orchOpts...)

	// ── Metrics + health endpoint ─────────────────────────────────────────────
	var metricsSrv *http.Server
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		health.New(
			health.NamedCheck("cache", func(context.Context) error {
				_, err := cacheStore.Len()
				return err
			}),
			health.NamedCheck("audit_log", func(ctx context.Context) error {
				_, err := logStore.All(ctx)
				return err
			}),
		).Register(mux)

		metricsSrv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}
		go func() {
			slog.Info("metrics endpoint listening", "addr", cfg.Server.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "err", err)
			}
		}()
	}

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		applyConfigChange(config.Diff(old, new), logLevel, orch)
	})
	if err != nil {
		slog.Warn("config watcher disabled", "err", err)
	} else {
		defer watcher.Stop()
	}

	printStartupSummary(cfg, words.Len())

	// ── Interactive check loop ────────────────────────────────────────────────
	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		if err := runREPL(ctx, orch); err != nil {
			slog.Error("input error", "err", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping…")
	case <-replDone:
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown error", "err", err)
		}
	}
	if err := orch.Close(); err != nil {
		slog.Warn("engine close error", "err", err)
	}
	if err := metricsShutdown(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// ── Component wiring ──────────────────────────────────────────────────────────

// importWordlist loads the wordlist file at path and feeds every word into
// learn, logging the outcome.
func importWordlist(path string, learn func(string) bool) error {
	wf, err := vocab.LoadWordlistFile(path)
	if err != nil {
		return err
	}
	added := 0
	for _, w := range wf.Words {
		if learn(w) {
			added++
		}
	}
	slog.Info("wordlist imported", "path", path, "name", wf.Wordlist.Name, "added", added)
	return nil
}

func buildCache(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.CacheBadger:
		store, err := cache.OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("correction cache opened", "backend", "badger", "path", cfg.Path)
		return store, nil
	default:
		slog.Info("correction cache opened", "backend", "memory")
		return cache.NewMemStore(), nil
	}
}

// buildLogStore returns the configured audit log store. For the postgres
// backend it also returns a cleanup function closing the connection pool.
func buildLogStore(ctx context.Context, cfg config.LogConfig) (logstore.Store, func(), error) {
	switch cfg.Backend {
	case config.LogFile:
		slog.Info("audit log opened", "backend", "file", "path", cfg.Path)
		return logstore.NewFileStore(cfg.Path, cfg.MaxEntries), nil, nil
	case config.LogPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := logstore.NewPostgresStore(pool, cfg.MaxEntries)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("audit log opened", "backend", "postgres")
		return store, pool.Close, nil
	default:
		slog.Info("audit log opened", "backend", "memory")
		return logstore.NewMemStore(cfg.MaxEntries), nil, nil
	}
}

// buildResolver constructs the LLM-backed context resolver, or returns nil
// when no resolver provider is configured.
func buildResolver(cfg *config.Config, av *vocab.AlwaysValid) (*contextres.Resolver, error) {
	if cfg.Resolver.Provider == "" {
		slog.Info("running without a context resolver; ambiguous words stay untouched")
		return nil, nil
	}

	provider, err := config.DefaultRegistry().CreateResolver(cfg.Resolver)
	if err != nil {
		return nil, err
	}
	slog.Info("context resolver ready", "provider", cfg.Resolver.Provider, "model", cfg.Resolver.Model)

	alignOpts := []diffalign.Option{diffalign.WithAlwaysValid(av)}
	if cfg.Engine.BailoutThreshold > 0 {
		alignOpts = append(alignOpts, diffalign.WithBailoutThreshold(cfg.Engine.BailoutThreshold))
	}

	resOpts := []contextres.Option{
		contextres.WithAligner(diffalign.New(alignOpts...)),
		contextres.WithAlwaysValid(av),
		contextres.WithBreaker(contextres.NewBreaker(
			cfg.Resolver.Breaker.FailureThreshold,
			time.Duration(cfg.Resolver.Breaker.CooldownSeconds)*time.Second,
		)),
	}
	if cfg.Resolver.Temperature > 0 {
		resOpts = append(resOpts, contextres.WithTemperature(cfg.Resolver.Temperature))
	}
	if cfg.Resolver.MaxTokens > 0 {
		resOpts = append(resOpts, contextres.WithMaxTokens(cfg.Resolver.MaxTokens))
	}
	return contextres.New(provider, resOpts...), nil
}

func matcherOptions(cfg config.EngineConfig) []phonetic.Option {
	var opts []phonetic.Option
	if cfg.ActionableThreshold > 0 {
		opts = append(opts, phonetic.WithActionableThreshold(cfg.ActionableThreshold))
	}
	if cfg.AmbiguityWindow > 0 {
		opts = append(opts, phonetic.WithAmbiguityWindow(cfg.AmbiguityWindow))
	}
	if cfg.AmbiguityDiscount > 0 {
		opts = append(opts, phonetic.WithAmbiguityDiscount(cfg.AmbiguityDiscount))
	}
	return opts
}

// applyConfigChange hot-applies what it can and warns about the rest.
func applyConfigChange(d config.ConfigDiff, logLevel *slog.LevelVar, orch *speller.Orchestrator) {
	if d.LogLevelChanged {
		logLevel.Set(d.NewLogLevel.Level())
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	for _, path := range d.WordlistsAdded {
		if err := importWordlist(path, func(w string) bool {
			return orch.Learn(context.Background(), w)
		}); err != nil {
			slog.Warn("failed to import added wordlist", "path", path, "err", err)
		}
	}
	if len(d.WordlistsRemoved) > 0 {
		slog.Warn("wordlists removed from config; the vocabulary never shrinks at runtime", "paths", d.WordlistsRemoved)
	}
	if d.EngineChanged || d.RestartRequired {
		slog.Warn("config change requires a restart to take effect")
	}
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, vocabSize int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║       orthograph — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	resolver := "(not configured)"
	if cfg.Resolver.Provider != "" {
		resolver = cfg.Resolver.Provider + " / " + cfg.Resolver.Model
	}
	printSummaryLine("Resolver", resolver)
	printSummaryLine("Cache", orDefault(string(cfg.Cache.Backend), "memory"))
	printSummaryLine("Audit log", orDefault(string(cfg.Log.Backend), "memory"))
	printSummaryLine("Vocabulary", fmt.Sprintf("%d words", vocabSize))
	printSummaryLine("Wordlists", fmt.Sprintf("%d", len(cfg.Wordlists)))
	if cfg.Server.MetricsAddr != "" {
		printSummaryLine("Metrics", cfg.Server.MetricsAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printSummaryLine(kind, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ── Interactive loop ──────────────────────────────────────────────────────────

const replHelp = `Type a sentence to check it. Commands:
  :learn <word>    add a word to the vocabulary
  :clear-cache     forget confirmed corrections
  :clear-log       drop the audit log
  :log             show retained audit log entries
  :stats           summarise the audit log
  :export [file]   write the audit log as JSON (stdout by default)
  :quit            exit`

func runREPL(ctx context.Context, orch *speller.Orchestrator) error {
	fmt.Println(replHelp)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if done := runCommand(ctx, orch, line); done {
				return nil
			}
			continue
		}

		res, err := orch.Check(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			continue
		}
		fmt.Println(res.Corrected)
		for _, c := range res.Corrections {
			fmt.Printf("  %s → %s (%s)\n", c.Original, c.Corrected, c.Source)
		}
	}
}

// runCommand executes one ":" command. Returns true when the loop should end.
func runCommand(ctx context.Context, orch *speller.Orchestrator, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit":
		return true

	case ":learn":
		if len(fields) < 2 {
			fmt.Println("usage: :learn <word>")
			return false
		}
		if orch.Learn(ctx, fields[1]) {
			fmt.Printf("learned %q\n", fields[1])
		} else {
			fmt.Printf("%q is already known\n", fields[1])
		}

	case ":clear-cache":
		if err := orch.ClearCache(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "clear-cache: %v\n", err)
		} else {
			fmt.Println("cache cleared")
		}

	case ":clear-log":
		if err := orch.ClearLog(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "clear-log: %v\n", err)
		} else {
			fmt.Println("audit log cleared")
		}

	case ":log":
		entries, err := orch.Log(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: %v\n", err)
			return false
		}
		if len(entries) == 0 {
			fmt.Println("audit log is empty")
			return false
		}
		for _, e := range entries {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			fmt.Printf("%s  %-6s  %q  (%d corrections)\n",
				e.Timestamp.Format(time.RFC3339), status, e.Input, len(e.Corrections))
		}

	case ":stats":
		st, err := orch.LogStats(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stats: %v\n", err)
			return false
		}
		fmt.Printf("entries=%d successes=%d failures=%d corrections=%d\n",
			st.Entries, st.Successes, st.Failures, st.Corrections)
		for source, n := range st.BySource {
			fmt.Printf("  %s: %d\n", source, n)
		}

	case ":export":
		out := os.Stdout
		if len(fields) > 1 {
			f, err := os.Create(fields[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "export: %v\n", err)
				return false
			}
			defer f.Close()
			out = f
		}
		if err := orch.ExportLog(ctx, out); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
		} else if out != os.Stdout {
			fmt.Printf("audit log written to %s\n", fields[1])
		}

	default:
		fmt.Printf("unknown command %q\n", fields[0])
		fmt.Println(replHelp)
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// KnownResolverProviders lists the LLM provider names the resolver backend
// understands. Used by [Validate] to warn about unrecognised names.
var KnownResolverProviders = []string{
	"openai", "anthropic", "gemini", "ollama", "deepseek",
	"mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Resolver
	if cfg.Resolver.Provider == "" {
		slog.Warn("no resolver provider configured; ambiguous words will be left untouched")
	} else {
		if !slices.Contains(KnownResolverProviders, cfg.Resolver.Provider) {
			slog.Warn("unknown resolver provider — may be a typo or third-party provider",
				"provider", cfg.Resolver.Provider,
				"known", KnownResolverProviders,
			)
		}
		if cfg.Resolver.Model == "" {
			errs = append(errs, fmt.Errorf("resolver.model is required when resolver.provider is set"))
		}
	}
	if cfg.Resolver.Temperature < 0 || cfg.Resolver.Temperature > 2 {
		errs = append(errs, fmt.Errorf("resolver.temperature %.2f is out of range [0, 2]", cfg.Resolver.Temperature))
	}
	if cfg.Resolver.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("resolver.max_tokens must not be negative"))
	}
	if cfg.Resolver.Breaker.FailureThreshold < 0 {
		errs = append(errs, fmt.Errorf("resolver.breaker.failure_threshold must not be negative"))
	}
	if cfg.Resolver.Breaker.CooldownSeconds < 0 {
		errs = append(errs, fmt.Errorf("resolver.breaker.cooldown_seconds must not be negative"))
	}

	// Engine thresholds — zero means "use built-in default", so only
	// explicit out-of-range values are rejected.
	checkUnitRange := func(name string, v float64) {
		if v != 0 && (v <= 0 || v > 1) {
			errs = append(errs, fmt.Errorf("engine.%s %.2f is out of range (0, 1]", name, v))
		}
	}
	checkUnitRange("actionable_threshold", cfg.Engine.ActionableThreshold)
	checkUnitRange("ambiguity_window", cfg.Engine.AmbiguityWindow)
	checkUnitRange("ambiguity_discount", cfg.Engine.AmbiguityDiscount)
	if cfg.Engine.BailoutThreshold < 0 {
		errs = append(errs, fmt.Errorf("engine.bailout_threshold must not be negative"))
	}

	// Cache
	if cfg.Cache.Backend != "" && !cfg.Cache.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("cache.backend %q is invalid; valid values: memory, badger", cfg.Cache.Backend))
	}
	if cfg.Cache.Backend == CacheBadger && cfg.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache.path is required when cache.backend is badger"))
	}
	if cfg.Cache.Backend == CacheMemory || cfg.Cache.Backend == "" {
		if cfg.Cache.Path != "" {
			slog.Warn("cache.path is set but the memory cache backend ignores it", "path", cfg.Cache.Path)
		}
	}

	// Log store
	if cfg.Log.Backend != "" && !cfg.Log.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("log.backend %q is invalid; valid values: memory, file, postgres", cfg.Log.Backend))
	}
	if cfg.Log.Backend == LogFile && cfg.Log.Path == "" {
		errs = append(errs, fmt.Errorf("log.path is required when log.backend is file"))
	}
	if cfg.Log.Backend == LogPostgres && cfg.Log.PostgresDSN == "" {
		errs = append(errs, fmt.Errorf("log.postgres_dsn is required when log.backend is postgres"))
	}
	if cfg.Log.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("log.max_entries must not be negative"))
	}

	return errors.Join(errs...)
}

package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/orthograph/internal/config"
)

const fullValidYAML = `
server:
  metrics_addr: ":9090"
  log_level: info
resolver:
  provider: ollama
  model: llama3.2
  base_url: "http://localhost:11434"
  temperature: 0.1
  max_tokens: 256
  breaker:
    failure_threshold: 3
    cooldown_seconds: 30
engine:
  actionable_threshold: 0.5
  ambiguity_window: 0.8
  ambiguity_discount: 0.7
  bailout_threshold: 3
cache:
  backend: badger
  path: /var/lib/orthograph/cache
log:
  backend: file
  path: /var/lib/orthograph/corrections.jsonl
  max_entries: 100
wordlists:
  - /etc/orthograph/year4.yaml
`

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(fullValidYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("server.log_level: got %q, want %q", cfg.Server.LogLevel, config.LogInfo)
	}
	if cfg.Resolver.Provider != "ollama" {
		t.Errorf("resolver.provider: got %q, want ollama", cfg.Resolver.Provider)
	}
	if cfg.Resolver.Breaker.CooldownSeconds != 30 {
		t.Errorf("resolver.breaker.cooldown_seconds: got %d, want 30", cfg.Resolver.Breaker.CooldownSeconds)
	}
	if cfg.Engine.AmbiguityDiscount != 0.7 {
		t.Errorf("engine.ambiguity_discount: got %v, want 0.7", cfg.Engine.AmbiguityDiscount)
	}
	if cfg.Cache.Backend != config.CacheBadger {
		t.Errorf("cache.backend: got %q, want badger", cfg.Cache.Backend)
	}
	if cfg.Log.Backend != config.LogFile {
		t.Errorf("log.backend: got %q, want file", cfg.Log.Backend)
	}
	if len(cfg.Wordlists) != 1 {
		t.Errorf("wordlists: got %d entries, want 1", len(cfg.Wordlists))
	}
}

func TestLoadFromReader_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_levle: info
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: bananas
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_ResolverRequiresModel(t *testing.T) {
	t.Parallel()
	yaml := `
resolver:
  provider: openai
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for resolver without model, got nil")
	}
	if !strings.Contains(err.Error(), "resolver.model") {
		t.Errorf("error should mention resolver.model, got: %v", err)
	}
}

func TestValidate_BadgerRequiresPath(t *testing.T) {
	t.Parallel()
	yaml := `
cache:
  backend: badger
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for badger cache without path, got nil")
	}
	if !strings.Contains(err.Error(), "cache.path") {
		t.Errorf("error should mention cache.path, got: %v", err)
	}
}

func TestValidate_FileLogRequiresPath(t *testing.T) {
	t.Parallel()
	yaml := `
log:
  backend: file
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for file log without path, got nil")
	}
	if !strings.Contains(err.Error(), "log.path") {
		t.Errorf("error should mention log.path, got: %v", err)
	}
}

func TestValidate_PostgresLogRequiresDSN(t *testing.T) {
	t.Parallel()
	yaml := `
log:
  backend: postgres
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for postgres log without DSN, got nil")
	}
	if !strings.Contains(err.Error(), "log.postgres_dsn") {
		t.Errorf("error should mention log.postgres_dsn, got: %v", err)
	}
}

func TestValidate_EngineThresholdRange(t *testing.T) {
	t.Parallel()
	yaml := `
engine:
  actionable_threshold: 1.5
  ambiguity_discount: -0.2
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for out-of-range thresholds, got nil")
	}
	if !strings.Contains(err.Error(), "actionable_threshold") {
		t.Errorf("error should mention actionable_threshold, got: %v", err)
	}
	if !strings.Contains(err.Error(), "ambiguity_discount") {
		t.Errorf("error should mention ambiguity_discount, got: %v", err)
	}
}

func TestValidate_ZeroThresholdsAreDefaults(t *testing.T) {
	t.Parallel()
	// An empty engine block means "use built-in defaults" and must validate.
	cfg, err := config.LoadFromReader(strings.NewReader(`
engine: {}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.ActionableThreshold != 0 {
		t.Errorf("actionable_threshold: got %v, want 0", cfg.Engine.ActionableThreshold)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	if _, err := config.Load("/nonexistent/orthograph.yaml"); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

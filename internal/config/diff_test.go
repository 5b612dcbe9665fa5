package config_test

import (
	"slices"
	"testing"

	"github.com/MrWong99/orthograph/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			MetricsAddr: ":9090",
			LogLevel:    config.LogInfo,
		},
		Resolver: config.ResolverConfig{
			Provider: "ollama",
			Model:    "llama3.2",
		},
		Engine: config.EngineConfig{
			ActionableThreshold: 0.5,
			AmbiguityWindow:     0.8,
			AmbiguityDiscount:   0.7,
		},
		Wordlists: []string{"a.yaml", "b.yaml"},
	}
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()

	d := config.Diff(old, new)

	if d.LogLevelChanged || d.EngineChanged || d.WordlistsChanged || d.RestartRequired {
		t.Errorf("Diff of identical configs reported changes: %+v", d)
	}
}

func TestDiff_LogLevel(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Server.LogLevel = config.LogDebug

	d := config.Diff(old, new)

	if !d.LogLevelChanged {
		t.Error("LogLevelChanged = false, want true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("NewLogLevel = %q, want %q", d.NewLogLevel, config.LogDebug)
	}
	if d.RestartRequired {
		t.Error("log level change should not require a restart")
	}
}

func TestDiff_EngineThresholds(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Engine.AmbiguityDiscount = 0.6

	d := config.Diff(old, new)

	if !d.EngineChanged {
		t.Error("EngineChanged = false, want true")
	}
	if d.RestartRequired {
		t.Error("engine threshold change should not require a restart")
	}
}

func TestDiff_Wordlists(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Wordlists = []string{"a.yaml", "c.yaml"}

	d := config.Diff(old, new)

	if !d.WordlistsChanged {
		t.Error("WordlistsChanged = false, want true")
	}
	if !slices.Equal(d.WordlistsAdded, []string{"c.yaml"}) {
		t.Errorf("WordlistsAdded = %v, want [c.yaml]", d.WordlistsAdded)
	}
	if !slices.Equal(d.WordlistsRemoved, []string{"b.yaml"}) {
		t.Errorf("WordlistsRemoved = %v, want [b.yaml]", d.WordlistsRemoved)
	}
}

func TestDiff_ResolverChangeRequiresRestart(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Resolver.Model = "llama3.3"

	d := config.Diff(old, new)

	if !d.RestartRequired {
		t.Error("RestartRequired = false, want true after resolver change")
	}
}

func TestDiff_CacheBackendChangeRequiresRestart(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Cache = config.CacheConfig{Backend: config.CacheBadger, Path: "/tmp/cache"}

	d := config.Diff(old, new)

	if !d.RestartRequired {
		t.Error("RestartRequired = false, want true after cache change")
	}
}

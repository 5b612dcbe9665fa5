package config_test

import (
	"log/slog"
	"testing"

	"github.com/MrWong99/orthograph/internal/config"
)

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level config.LogLevel
		want  bool
	}{
		{config.LogDebug, true},
		{config.LogInfo, true},
		{config.LogWarn, true},
		{config.LogError, true},
		{config.LogLevel(""), false},
		{config.LogLevel("verbose"), false},
	}
	for _, tt := range tests {
		if got := tt.level.IsValid(); got != tt.want {
			t.Errorf("LogLevel(%q).IsValid() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLogLevel_Level(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level config.LogLevel
		want  slog.Level
	}{
		{config.LogDebug, slog.LevelDebug},
		{config.LogInfo, slog.LevelInfo},
		{config.LogWarn, slog.LevelWarn},
		{config.LogError, slog.LevelError},
		{config.LogLevel(""), slog.LevelInfo},
		{config.LogLevel("bananas"), slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := tt.level.Level(); got != tt.want {
			t.Errorf("LogLevel(%q).Level() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCacheBackend_IsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		backend config.CacheBackend
		want    bool
	}{
		{config.CacheMemory, true},
		{config.CacheBadger, true},
		{config.CacheBackend(""), false},
		{config.CacheBackend("redis"), false},
	}
	for _, tt := range tests {
		if got := tt.backend.IsValid(); got != tt.want {
			t.Errorf("CacheBackend(%q).IsValid() = %v, want %v", tt.backend, got, tt.want)
		}
	}
}

func TestLogBackend_IsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		backend config.LogBackend
		want    bool
	}{
		{config.LogMemory, true},
		{config.LogFile, true},
		{config.LogPostgres, true},
		{config.LogBackend(""), false},
		{config.LogBackend("sqlite"), false},
	}
	for _, tt := range tests {
		if got := tt.backend.IsValid(); got != tt.want {
			t.Errorf("LogBackend(%q).IsValid() = %v, want %v", tt.backend, got, tt.want)
		}
	}
}

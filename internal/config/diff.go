package config

import "slices"

// ConfigDiff describes what changed between two configs. Log level, engine
// thresholds, and wordlists can be applied to a running service; backend
// changes (cache, log store, resolver, server) need a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	EngineChanged bool

	WordlistsChanged bool
	WordlistsAdded   []string // paths present in new but not old
	WordlistsRemoved []string // paths present in old but not new

	// RestartRequired is set when a change cannot be hot-applied.
	RestartRequired bool
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Engine != new.Engine {
		d.EngineChanged = true
	}

	for _, p := range new.Wordlists {
		if !slices.Contains(old.Wordlists, p) {
			d.WordlistsAdded = append(d.WordlistsAdded, p)
		}
	}
	for _, p := range old.Wordlists {
		if !slices.Contains(new.Wordlists, p) {
			d.WordlistsRemoved = append(d.WordlistsRemoved, p)
		}
	}
	d.WordlistsChanged = len(d.WordlistsAdded) > 0 || len(d.WordlistsRemoved) > 0

	if old.Resolver != new.Resolver ||
		old.Cache != new.Cache ||
		old.Log != new.Log ||
		old.Server.MetricsAddr != new.Server.MetricsAddr {
		d.RestartRequired = true
	}

	return d
}

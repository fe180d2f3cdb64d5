package config

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// ReloadFunc is notified after a reload with the config it replaced.
type ReloadFunc func(prev, next *Config)

// Reloader holds the live gateway config and swaps it on Reload. Only
// settings read per request or per event (log level, debug, CORS origins,
// the /config view) take effect without a restart.
type Reloader struct {
	configPath string
	dotenvPath string
	current    atomic.Pointer[Config]

	mu        sync.Mutex // serializes reload
	overrides []func(*Config)
	listeners []ReloadFunc
}

// NewReloader creates a Reloader with the given initial config.
func NewReloader(configPath, dotenvPath string, initial *Config) *Reloader {
	r := &Reloader{
		configPath: configPath,
		dotenvPath: dotenvPath,
	}
	r.current.Store(initial)
	return r
}

// Current returns the live config.
func (r *Reloader) Current() *Config {
	return r.current.Load()
}

// Override registers fn to run on every freshly loaded config before it is
// compared and stored. CLI flags that beat the file go here.
func (r *Reloader) Override(fn func(*Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append(r.overrides, fn)
}

// OnReload registers a callback invoked after a successful reload.
func (r *Reloader) OnReload(fn ReloadFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload re-reads the .env file and the config, stores the result and
// notifies listeners. On failure the live config is kept.
func (r *Reloader) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ReloadDotenv(r.dotenvPath); err != nil {
		return fmt.Errorf("reload dotenv: %w", err)
	}

	next, err := Load(r.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	for _, fn := range r.overrides {
		fn(next)
	}

	prev := r.current.Swap(next)
	if keys := RestartRequired(prev, next); len(keys) > 0 {
		slog.Warn("config changes need a gateway restart", "keys", keys)
	}
	slog.Info("config reloaded", "path", r.configPath, "log_level", next.Log.Level, "cors_origins", len(next.Gateway.CORSOrigins))

	for _, fn := range r.listeners {
		fn(prev, next)
	}
	return nil
}

// RestartRequired lists the changed settings that are only read at
// gateway startup.
func RestartRequired(prev, next *Config) []string {
	var keys []string
	if prev.Gateway.Host != next.Gateway.Host {
		keys = append(keys, "gateway.host")
	}
	if prev.Gateway.Port != next.Gateway.Port {
		keys = append(keys, "gateway.port")
	}
	if !slices.Equal(prev.Skills.Dirs, next.Skills.Dirs) {
		keys = append(keys, "skills.dirs")
	}
	if prev.Agents.TaskDelay != next.Agents.TaskDelay {
		keys = append(keys, "agents.task_delay")
	}
	if prev.Events.BufferSize != next.Events.BufferSize {
		keys = append(keys, "events.buffer_size")
	}
	if prev.Events.LogDir != next.Events.LogDir {
		keys = append(keys, "events.log_dir")
	}
	if prev.Telemetry.Exporter != next.Telemetry.Exporter {
		keys = append(keys, "telemetry.exporter")
	}
	return keys
}

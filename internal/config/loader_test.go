package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearOverrides blanks the env vars that win over the config file.
func clearOverrides(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOST", "PORT", "DEBUG", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearOverrides(t)
	content := `{
	// This is a JSONC comment
	"gateway": {
		"host": "127.0.0.1",
		"port": 9999,
		"cors_origins": ["http://example.test"],
	},
	"skills": {
		"dirs": ["${{ .Env.ATHENA_TEST_SKILLS }}"],
		"cache_ttl": "10m"
	},
	"agents": { "task_delay": "5ms" }
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ATHENA_TEST_SKILLS", "/srv/skills")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Gateway.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Gateway.Port)
	}
	if len(cfg.Gateway.CORSOrigins) != 1 || cfg.Gateway.CORSOrigins[0] != "http://example.test" {
		t.Errorf("unexpected cors origins: %v", cfg.Gateway.CORSOrigins)
	}
	if len(cfg.Skills.Dirs) != 1 || cfg.Skills.Dirs[0] != "/srv/skills" {
		t.Errorf("expected expanded skills dir, got %v", cfg.Skills.Dirs)
	}
	if cfg.Skills.CacheTTL.Duration() != 10*time.Minute {
		t.Errorf("expected cache_ttl 10m, got %s", cfg.Skills.CacheTTL.Duration())
	}
	if cfg.Agents.TaskDelay.Duration() != 5*time.Millisecond {
		t.Errorf("expected task_delay 5ms, got %s", cfg.Agents.TaskDelay.Duration())
	}
}

func TestLoadDefaults(t *testing.T) {
	clearOverrides(t)
	t.Setenv("ATHENA_PATH", "/tmp/athena-test")

	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Gateway.Port)
	}
	if len(cfg.Gateway.CORSOrigins) != 4 {
		t.Errorf("expected 4 default cors origins, got %d", len(cfg.Gateway.CORSOrigins))
	}
	if cfg.Skills.Dirs[0] != "/tmp/athena-test/skills" {
		t.Errorf("unexpected default skills dir %q", cfg.Skills.Dirs[0])
	}
	if cfg.Skills.CacheTTL.Duration() != time.Hour {
		t.Errorf("expected cache_ttl 1h, got %s", cfg.Skills.CacheTTL.Duration())
	}
	if cfg.Skills.MaxConcurrent != 10 {
		t.Errorf("expected max_concurrent 10, got %d", cfg.Skills.MaxConcurrent)
	}
	if cfg.Agents.MaxAgents != 6 {
		t.Errorf("expected max_agents 6, got %d", cfg.Agents.MaxAgents)
	}
	if cfg.Agents.Timeout.Duration() != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.Agents.Timeout.Duration())
	}
	if cfg.Events.BufferSize != 1024 {
		t.Errorf("expected default buffer 1024, got %d", cfg.Events.BufferSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}
	if cfg.Telemetry.Exporter != "none" {
		t.Errorf("expected default exporter none, got %q", cfg.Telemetry.Exporter)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearOverrides(t)
	t.Setenv("HOST", "10.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "TRUE")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Parse([]byte(`{"gateway": {"host": "127.0.0.1", "port": 1}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gateway.Addr() != "10.0.0.1:9090" {
		t.Errorf("expected env override addr, got %s", cfg.Gateway.Addr())
	}
	if !cfg.App.Debug {
		t.Error("expected debug enabled from env")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}
}

func TestLoadBadPort(t *testing.T) {
	clearOverrides(t)
	t.Setenv("PORT", "eighty")

	if _, err := Parse([]byte(`{}`)); err == nil {
		t.Fatal("expected error for non-numeric PORT")
	}
}

func TestLoadInvalidJSONC(t *testing.T) {
	clearOverrides(t)
	if _, err := Parse([]byte(`{"gateway": `)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonc")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}

func TestSettingsView(t *testing.T) {
	clearOverrides(t)
	cfg := Default()
	s := cfg.Settings()

	if s["port"] != 8000 {
		t.Errorf("expected port 8000 in settings, got %v", s["port"])
	}
	if s["agent_timeout"] != "30s" {
		t.Errorf("expected agent_timeout 30s, got %v", s["agent_timeout"])
	}
	if s["skills_cache_ttl"] != "1h0m0s" {
		t.Errorf("expected skills_cache_ttl 1h0m0s, got %v", s["skills_cache_ttl"])
	}
}

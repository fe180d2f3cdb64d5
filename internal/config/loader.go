package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// DefaultCORSOrigins are the origins allowed when none are configured.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://athenaagent.tech",
	"https://www.athenaagent.tech",
}

// Load reads a JSONC config file, expands ${{ .Env.VAR }} templates,
// unmarshals it into Config, applies env overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes JSONC bytes into a Config with overrides and defaults applied.
func Parse(data []byte) (*Config, error) {
	// Templates live inside strings, so expand before standardizing.
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a Config built only from env overrides and defaults.
func Default() *Config {
	cfg := &Config{}
	_ = applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyEnvOverrides lets HOST, PORT, DEBUG and LOG_LEVEL win over the file.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Gateway.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PORT %q: %w", v, err)
		}
		cfg.Gateway.Port = port
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.App.Debug = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "Athena Agent"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "2.0.0"
	}
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = "0.0.0.0"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8000
	}
	if len(cfg.Gateway.CORSOrigins) == 0 {
		cfg.Gateway.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if len(cfg.Skills.Dirs) == 0 {
		cfg.Skills.Dirs = []string{filepath.Join(AthenaPath(), "skills")}
	}
	if cfg.Skills.CacheTTL == 0 {
		cfg.Skills.CacheTTL = Duration(time.Hour)
	}
	if cfg.Skills.MaxConcurrent == 0 {
		cfg.Skills.MaxConcurrent = 10
	}
	if cfg.Agents.MaxAgents == 0 {
		cfg.Agents.MaxAgents = 6
	}
	if cfg.Agents.Timeout == 0 {
		cfg.Agents.Timeout = Duration(30 * time.Second)
	}
	if cfg.Agents.TaskDelay == 0 {
		cfg.Agents.TaskDelay = Duration(100 * time.Millisecond)
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Telemetry.Exporter == "" {
		cfg.Telemetry.Exporter = "none"
	}
}

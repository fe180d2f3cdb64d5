package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Athena gateway.
type Config struct {
	App       AppConfig       `json:"app"`
	Gateway   GatewayConfig   `json:"gateway"`
	Skills    SkillsConfig    `json:"skills"`
	Agents    AgentsConfig    `json:"agents"`
	Events    EventsConfig    `json:"events"`
	Log       LogConfig       `json:"log"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// AppConfig holds application identity.
type AppConfig struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Debug   bool   `json:"debug"`
}

// GatewayConfig holds the HTTP server settings.
type GatewayConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
}

// Addr returns host:port.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// SkillsConfig configures the skill registry.
// CacheTTL and MaxConcurrent are declared but not enforced.
type SkillsConfig struct {
	Dirs          []string `json:"dirs"` // extra *.jsonc skill definitions, searched recursively
	CacheTTL      Duration `json:"cache_ttl"`
	MaxConcurrent int      `json:"max_concurrent"`
}

// AgentsConfig configures the agent orchestrator.
// MaxAgents and Timeout are declared but not enforced.
type AgentsConfig struct {
	MaxAgents int      `json:"max_agents"`
	Timeout   Duration `json:"timeout"`
	TaskDelay Duration `json:"task_delay"` // simulated execution time per task
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int    `json:"buffer_size"`
	LogDir     string `json:"log_dir"` // JSONL audit log; empty disables it
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"` // debug | info | warn | error
}

// TelemetryConfig selects the metrics exporter.
type TelemetryConfig struct {
	Exporter string `json:"exporter"` // "none" | "stdout"
}

// Settings returns the flat key/value view exposed by the /config command.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"app_name":              c.App.Name,
		"version":               c.App.Version,
		"debug":                 c.App.Debug,
		"host":                  c.Gateway.Host,
		"port":                  c.Gateway.Port,
		"cors_origins":          c.Gateway.CORSOrigins,
		"skills_cache_ttl":      c.Skills.CacheTTL.Duration().String(),
		"max_concurrent_skills": c.Skills.MaxConcurrent,
		"max_agents":            c.Agents.MaxAgents,
		"agent_timeout":         c.Agents.Timeout.Duration().String(),
		"log_level":             c.Log.Level,
	}
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

package config

import (
	"os"
	"path/filepath"
)

// AthenaPath returns the root directory for Athena data.
// It uses $ATHENA_PATH if set, otherwise defaults to ~/.athena.
func AthenaPath() string {
	if v := os.Getenv("ATHENA_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".athena")
	}
	return filepath.Join(home, ".athena")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(AthenaPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(AthenaPath(), ".env")
}

// HeartbeatPath returns the path the gateway writes its liveness file to.
func HeartbeatPath() string {
	return filepath.Join(AthenaPath(), "heartbeat.json")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAthenaPath_Default(t *testing.T) {
	t.Setenv("ATHENA_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := AthenaPath()
	want := filepath.Join(home, ".athena")
	if got != want {
		t.Errorf("AthenaPath() = %q, want %q", got, want)
	}
}

func TestAthenaPath_EnvOverride(t *testing.T) {
	t.Setenv("ATHENA_PATH", "/tmp/custom-athena")

	if got := AthenaPath(); got != "/tmp/custom-athena" {
		t.Errorf("AthenaPath() = %q, want %q", got, "/tmp/custom-athena")
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv("ATHENA_PATH", "/tmp/test-athena")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ConfigPath(), "/tmp/test-athena/config.jsonc"},
		{"dotenv", DotenvPath(), "/tmp/test-athena/.env"},
		{"heartbeat", HeartbeatPath(), "/tmp/test-athena/heartbeat.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

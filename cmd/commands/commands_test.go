package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/athena-agent/athena/clients/api"
	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/gateway"
	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
)

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand()
	root.Writer = &buf
	root.ErrWriter = &buf
	err := root.Run(context.Background(), append([]string{"athena"}, args...))
	return buf.String(), err
}

// startGateway serves a fully initialized gateway and returns its API URL.
func startGateway(t *testing.T) string {
	t.Helper()
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	reg := skills.NewRegistry(skills.RegistryConfig{Bus: bus})
	orch := agents.NewOrchestrator(agents.OrchestratorConfig{Executor: agents.SimulatedExecutor{}, Bus: bus})
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := orch.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	srv := gateway.NewServer(gateway.Config{
		Name:     "Athena Agent",
		Version:  "2.0.0",
		Bus:      bus,
		Skills:   reg,
		Agents:   orch,
		Commands: &slash.Dispatcher{Skills: reg, Agents: orch, Bus: bus},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Tool", "my-tool"},
		{"  web--scraper  ", "web-scraper"},
		{"PDF 2 Text!", "pdf-2-text"},
		{"***", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScaffoldSkill(t *testing.T) {
	for _, name := range []string{templateBasic, templateAdvanced} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			data := skillScaffold{ID: "my-tool", Name: `My "Tool"`, Category: "cli-utilities", Author: "Tester"}

			path, err := scaffoldSkill(dir, name, data)
			if err != nil {
				t.Fatalf("scaffoldSkill: %v", err)
			}
			if want := filepath.Join(dir, "my-tool", "skill.jsonc"); path != want {
				t.Errorf("path = %q, want %q", path, want)
			}

			s, err := skills.LoadSkillFile(path)
			if err != nil {
				t.Fatalf("LoadSkillFile: %v", err)
			}
			if s.ID != "my-tool" || s.Name != `My "Tool"` || s.Version != "0.1.0" || !s.IsActive {
				t.Errorf("skill = %+v", s)
			}
			if name == templateAdvanced && s.Config["retries"] != float64(3) {
				t.Errorf("config = %v", s.Config)
			}

			if _, err := scaffoldSkill(dir, name, data); err == nil || !strings.Contains(err.Error(), "already exists") {
				t.Errorf("second scaffold error = %v", err)
			}
		})
	}
}

func TestScaffoldSkill_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		tmpl string
		data skillScaffold
	}{
		{"unknown template", "fancy", skillScaffold{ID: "x", Name: "x", Category: "cli-utilities"}},
		{"unknown category", templateBasic, skillScaffold{ID: "x", Name: "x", Category: "nope"}},
		{"empty id", templateBasic, skillScaffold{Name: "***", Category: "cli-utilities"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := scaffoldSkill(dir, tt.tmpl, tt.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("invalid scaffolds left %d entries", len(entries))
	}
}

func TestWsURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "http://localhost:8000/api", want: "ws://localhost:8000/api/ws"},
		{in: "https://athenaagent.tech/api/", want: "wss://athenaagent.tech/api/ws"},
		{in: "ftp://host/api", wantErr: true},
	}
	for _, tt := range tests {
		got, err := wsURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("wsURL(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("wsURL(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(path, []byte(`{
		// local override
		"gateway": {"port": 9000},
	}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", path, "-o", "json", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(out), &settings); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if settings["port"] != float64(9000) || settings["app_name"] != "Athena Agent" {
		t.Errorf("settings = %v", settings)
	}

	out, err = runCLI(t, "--config", path, "config", "port")
	if err != nil || !strings.Contains(out, "port = 9000") {
		t.Errorf("config port = %q, %v", out, err)
	}

	out, err = runCLI(t, "--config", path, "-o", "yaml", "config", "port")
	if err != nil || !strings.Contains(out, "port: 9000") {
		t.Errorf("yaml config port = %q, %v", out, err)
	}

	if _, err := runCLI(t, "--config", path, "config", "nope"); err == nil {
		t.Error("unknown key: expected error")
	}
	if _, err := runCLI(t, "--config", path, "config", "port", "1"); err == nil {
		t.Error("set: expected read-only error")
	}
}

func TestOutputFlagValidation(t *testing.T) {
	if _, err := runCLI(t, "-o", "xml", "config"); err == nil {
		t.Error("expected invalid output format error")
	}
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, "help", "/search")
	if err != nil || !strings.Contains(out, "/search <query>") {
		t.Errorf("help /search = %q, %v", out, err)
	}

	out, err = runCLI(t, "help", "search")
	if err != nil || !strings.Contains(out, "Search the skill registry") {
		t.Errorf("help search = %q, %v", out, err)
	}

	out, err = runCLI(t, "help")
	if err != nil || !strings.Contains(out, "gateway") || !strings.Contains(out, "/install") {
		t.Errorf("help = %q, %v", out, err)
	}

	if _, err := runCLI(t, "help", "nope"); err == nil {
		t.Error("expected unknown command error")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "init", "--dir", dir, "-t", templateAdvanced, "Log", "Parser")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	path := filepath.Join(dir, "log-parser", "skill.jsonc")
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}
	if _, err := skills.LoadSkillFile(path); err != nil {
		t.Errorf("LoadSkillFile: %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "-o", "json", "search", "docker")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var page api.SkillPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(page.Skills) != 1 || page.Skills[0].ID != "docker-essentials" || page.Limit != 10 {
		t.Errorf("page = %+v", page)
	}

	out, err = runCLI(t, "--api-url", url, "search", "nothing-matches-this")
	if err != nil || !strings.Contains(out, "No skills found.") {
		t.Errorf("empty search = %q, %v", out, err)
	}
}

func TestInstallCommand(t *testing.T) {
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "install", "docker-essentials")
	if err != nil || !strings.Contains(out, "docker-essentials installed") {
		t.Errorf("install = %q, %v", out, err)
	}
	if _, err := runCLI(t, "--api-url", url, "install", "missing-skill"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("install missing error = %v", err)
	}
}

func TestListCommand(t *testing.T) {
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "list", "agents")
	if err != nil || !strings.Contains(out, "coding-agent") || !strings.Contains(out, "general-agent") {
		t.Errorf("list agents = %q, %v", out, err)
	}

	out, err = runCLI(t, "--api-url", url, "list", "commands")
	if err != nil || !strings.Contains(out, "/search") {
		t.Errorf("list commands = %q, %v", out, err)
	}

	out, err = runCLI(t, "--api-url", url, "list", "categories")
	if err != nil || !strings.Contains(out, "ai-llms") {
		t.Errorf("list categories = %q, %v", out, err)
	}
}

func TestTaskCommand(t *testing.T) {
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "-o", "json", "task", "coding-agent", "write", "a", "test")
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	var res api.TaskResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Status != agents.TaskCompleted || res.Output == nil || *res.Output != "Task completed by Coding Agent" {
		t.Errorf("result = %+v", res)
	}

	if _, err := runCLI(t, "--api-url", url, "task", "ghost-agent", "hello"); err == nil {
		t.Error("unknown agent: expected error")
	}
}

func TestRunCommand(t *testing.T) {
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "run", "brave-search", "AI news")
	if err != nil || !strings.Contains(out, "/run: success") {
		t.Errorf("run = %q, %v", out, err)
	}
}

func TestStatusCommand(t *testing.T) {
	t.Setenv("ATHENA_PATH", t.TempDir())
	url := startGateway(t)

	out, err := runCLI(t, "--api-url", url, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "NOT RUNNING") || !strings.Contains(out, "Agents: 6 total") {
		t.Errorf("status = %q", out)
	}

	out, err = runCLI(t, "--api-url", url, "status", "research-agent")
	if err != nil || !strings.Contains(out, "Research Agent") {
		t.Errorf("status research-agent = %q, %v", out, err)
	}
}

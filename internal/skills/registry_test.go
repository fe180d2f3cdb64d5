package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/athena-agent/athena/internal/events"
)

func newTestRegistry(t *testing.T, dirs ...string) *Registry {
	t.Helper()
	r := NewRegistry(RegistryConfig{Dirs: dirs})
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return r
}

func ids(skills []*Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.ID)
	}
	return out
}

func TestRegistry_SeedCatalog(t *testing.T) {
	r := newTestRegistry(t)

	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
	if r.Count() != TotalSkills {
		t.Errorf("Count() = %d, want %d", r.Count(), TotalSkills)
	}

	s := r.Get("github")
	if s == nil {
		t.Fatal("expected github skill")
	}
	if s.Name != "GitHub" || s.Category != "git-github" || s.Version != "1.0.0" || !s.IsActive {
		t.Errorf("unexpected github skill: %+v", s)
	}
	if r.Get("nope") != nil {
		t.Error("expected nil for missing skill")
	}
}

func TestRegistry_InitializeIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	r.Install(context.Background(), "github")

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d after re-initialize", r.Len())
	}
	if got := r.Get("github").UsageCount; got != 1 {
		t.Errorf("re-initialize reset usage count to %d", got)
	}
}

func TestRegistry_SearchAll(t *testing.T) {
	r := newTestRegistry(t)
	got := ids(r.Search(SearchParams{}))
	want := []string{"brave-search", "github", "frontend-design", "docker-essentials", "deep-research"}

	if len(got) != len(want) {
		t.Fatalf("Search() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_SearchFilters(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name   string
		params SearchParams
		want   []string
	}{
		{"category", SearchParams{Category: "web-frontend"}, []string{"frontend-design"}},
		{"query on name", SearchParams{Query: "brave"}, []string{"brave-search"}},
		{"query case-insensitive", SearchParams{Query: "DOCKER"}, []string{"docker-essentials"}},
		// "research" in the deep-research description contains "search"
		{"query substring", SearchParams{Query: "search"}, []string{"brave-search", "deep-research"}},
		{"query on description", SearchParams{Query: "gh cli"}, []string{"github"}},
		{"tags any", SearchParams{Tags: []string{"vcs", "docker"}}, []string{"github", "docker-essentials"}},
		{"tags and category", SearchParams{Tags: []string{"ai"}, Category: "ai-llms"}, []string{"deep-research"}},
		{"conjunctive miss", SearchParams{Query: "brave", Category: "ai-llms"}, nil},
		{"no match", SearchParams{Query: "kubernetes"}, nil},
		// "vcs" is only a tag on github; the text query skips tags
		{"query ignores tags", SearchParams{Query: "vcs"}, nil},
		{"unknown category", SearchParams{Category: "nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(r.Search(tt.params))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRegistry_SearchPagination(t *testing.T) {
	r := newTestRegistry(t)

	page := ids(r.Search(SearchParams{Limit: 2, Offset: 1}))
	if len(page) != 2 || page[0] != "github" || page[1] != "frontend-design" {
		t.Errorf("page = %v", page)
	}

	if got := r.Search(SearchParams{Offset: 10}); len(got) != 0 {
		t.Errorf("expected empty page past the end, got %v", ids(got))
	}
	if got := r.Search(SearchParams{Offset: -3}); len(got) != 5 {
		t.Errorf("negative offset should be treated as 0, got %d results", len(got))
	}
	if got := r.Search(SearchParams{Limit: 1}); len(got) != 1 || got[0].ID != "brave-search" {
		t.Errorf("limit 1 = %v", ids(got))
	}
}

func TestRegistry_SearchReturnsCopies(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Search(SearchParams{Query: "brave"})
	res[0].UsageCount = 99
	res[0].Tags[0] = "mutated"

	s := r.Get("brave-search")
	if s.UsageCount != 0 || s.Tags[0] != "search" {
		t.Errorf("registry state mutated through search result: %+v", s)
	}
}

func TestRegistry_Install(t *testing.T) {
	r := newTestRegistry(t)
	before := r.Get("brave-search")

	time.Sleep(time.Millisecond)
	if !r.Install(context.Background(), "brave-search") {
		t.Fatal("expected install to succeed")
	}
	if !r.Install(context.Background(), "brave-search") {
		t.Fatal("expected second install to succeed")
	}

	after := r.Get("brave-search")
	if after.UsageCount != before.UsageCount+2 {
		t.Errorf("UsageCount = %d, want %d", after.UsageCount, before.UsageCount+2)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
	if r.Install(context.Background(), "nonexistent") {
		t.Error("expected install of unknown skill to fail")
	}
}

func TestRegistry_InstallPublishesEvent(t *testing.T) {
	bus := events.NewBus(16)
	defer bus.Close()

	r := NewRegistry(RegistryConfig{Bus: bus})
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	ch, unsubscribe := bus.SubscribeChan(4, events.EventSkillInstalled)
	defer unsubscribe()

	r.Install(context.Background(), "github")

	select {
	case e := <-ch:
		p, ok := events.ExtractPayload[events.SkillInstalledPayload](e)
		if !ok {
			t.Fatalf("unexpected payload: %+v", e)
		}
		if p.SkillID != "github" || p.UsageCount != 1 {
			t.Errorf("payload = %+v", p)
		}
		if e.Source != events.SourceSkills {
			t.Errorf("source = %q", e.Source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for skill.installed")
	}
}

func TestRegistry_CategoryIndex(t *testing.T) {
	r := newTestRegistry(t)

	if got := r.SkillsInCategory("devops-cloud"); len(got) != 1 || got[0] != "docker-essentials" {
		t.Errorf("devops-cloud = %v", got)
	}
	if got := r.SkillsInCategory("finance"); len(got) != 0 {
		t.Errorf("finance = %v, want empty", got)
	}
	if len(r.Categories()) != 32 {
		t.Errorf("expected 32 categories")
	}
}

func TestRegistry_Cleanup(t *testing.T) {
	r := newTestRegistry(t)
	r.Cleanup()

	if r.Get("brave-search") != nil {
		t.Error("expected skills to be gone after cleanup")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", r.Len())
	}
	if got := r.Search(SearchParams{}); len(got) != 0 {
		t.Errorf("Search after cleanup = %v", ids(got))
	}
	if r.Count() != TotalSkills {
		t.Error("Count stays constant")
	}

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d after re-initialize", r.Len())
	}
}

func writeSkill(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, filepath.Join(dir, "weather.jsonc"), `{
		// forecast lookup
		"id": "weather",
		"name": "Weather",
		"description": "City forecasts",
		"category": "productivity-tasks",
		"tags": ["weather"],
	}`)
	writeSkill(t, filepath.Join(dir, "nested", "deep", "notes.jsonc"), `{
		"id": "notes", "name": "Notes", "description": "Take notes", "category": "notes-pkm"
	}`)
	// invalid, duplicate and non-matching files are skipped
	writeSkill(t, filepath.Join(dir, "broken.jsonc"), `{"id": "broken"`)
	writeSkill(t, filepath.Join(dir, "dup.jsonc"), `{
		"id": "github", "name": "Dup", "description": "dup", "category": "git-github"
	}`)
	writeSkill(t, filepath.Join(dir, "readme.md"), `# not a skill`)

	r := newTestRegistry(t, dir, filepath.Join(dir, "missing"))

	if r.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", r.Len())
	}
	if r.Get("notes") == nil {
		t.Error("expected nested skill to be loaded")
	}
	if got := r.Get("github").Name; got != "GitHub" {
		t.Errorf("duplicate overwrote seed skill: %q", got)
	}
	if got := r.SkillsInCategory("notes-pkm"); len(got) != 1 || got[0] != "notes" {
		t.Errorf("notes-pkm = %v", got)
	}

	res := r.Search(SearchParams{Tags: []string{"weather"}})
	if len(res) != 1 || res[0].ID != "weather" {
		t.Errorf("search by tag = %v", ids(res))
	}
}

func TestRegistry_LoadDirNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.jsonc")
	writeSkill(t, file, `{}`)

	r := NewRegistry(RegistryConfig{Dirs: []string{file}})
	if err := r.Initialize(context.Background()); err == nil {
		t.Fatal("expected error for non-directory skills dir")
	}
}

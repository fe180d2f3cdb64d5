package skills

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSkill_Defaults(t *testing.T) {
	data := []byte(`{
		// trailing commas and comments are allowed
		"id": "weather",
		"name": "Weather",
		"description": "Forecasts by city",
		"category": "productivity-tasks",
		"author": "someone",
		"tags": ["weather", "api",],
	}`)

	s, err := ParseSkill(data)
	if err != nil {
		t.Fatalf("ParseSkill: %v", err)
	}
	if s.Version != DefaultVersion {
		t.Errorf("Version = %q, want %q", s.Version, DefaultVersion)
	}
	if !s.IsActive {
		t.Error("expected is_active to default to true")
	}
	if s.UsageCount != 0 || s.Rating != 0 {
		t.Errorf("expected zero usage and rating, got %d / %v", s.UsageCount, s.Rating)
	}
	if s.Dependencies == nil || s.Config == nil {
		t.Error("expected empty dependencies and config, not nil")
	}
	if s.CreatedAt.IsZero() || !s.UpdatedAt.Equal(s.CreatedAt) {
		t.Errorf("timestamps not defaulted: created=%v updated=%v", s.CreatedAt, s.UpdatedAt)
	}
}

func TestParseSkill_ExplicitInactive(t *testing.T) {
	s, err := ParseSkill([]byte(`{"id":"x","name":"X","description":"d","category":"finance","is_active":false}`))
	if err != nil {
		t.Fatalf("ParseSkill: %v", err)
	}
	if s.IsActive {
		t.Error("expected is_active false to be kept")
	}
}

func TestParseSkill_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing id", `{"name":"X","description":"d","category":"c"}`, "id is required"},
		{"missing name", `{"id":"x","description":"d","category":"c"}`, "name is required"},
		{"missing category", `{"id":"x","name":"X","description":"d"}`, "category is required"},
		{"bad version", `{"id":"x","name":"X","description":"d","category":"c","version":"one"}`, "invalid version"},
		{"negative usage", `{"id":"x","name":"X","description":"d","category":"c","usage_count":-1}`, "usage_count"},
		{"not json", `{"id":`, "parse skill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSkill([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadSkillFile_Missing(t *testing.T) {
	_, err := LoadSkillFile(filepath.Join(t.TempDir(), "nope.jsonc"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSkill_Clone(t *testing.T) {
	s := NewSkill("a", "A", "desc", "finance", "me", "one", "two")
	s.Config["k"] = "v"

	c := s.Clone()
	c.Tags[0] = "changed"
	c.Config["k"] = "changed"
	c.UsageCount = 10

	if s.Tags[0] != "one" || s.Config["k"] != "v" || s.UsageCount != 0 {
		t.Errorf("clone shares state with original: %+v", s)
	}
}

func TestSkill_HasAnyTag(t *testing.T) {
	s := NewSkill("a", "A", "desc", "finance", "me", "docker", "devops")

	if !s.HasAnyTag([]string{"nope", "devops"}) {
		t.Error("expected match on devops")
	}
	if s.HasAnyTag([]string{"nope"}) {
		t.Error("unexpected match")
	}
	if s.HasAnyTag(nil) {
		t.Error("empty tag list must not match")
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 32 {
		t.Fatalf("expected 32 categories, got %d", len(cats))
	}
	got := cats["ai-llms"]
	if got.Name != "AI & LLMs" || got.Count != 286 {
		t.Errorf("ai-llms = %+v", got)
	}

	cats["ai-llms"] = Category{Name: "mutated"}
	if c, _ := LookupCategory("ai-llms"); c.Name != "AI & LLMs" {
		t.Error("Categories must return a copy")
	}
	if _, ok := LookupCategory("nope"); ok {
		t.Error("expected unknown category to be absent")
	}
}

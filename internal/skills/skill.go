package skills

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/tailscale/hujson"
)

// DefaultVersion is assigned to skills that do not declare one.
const DefaultVersion = "1.0.0"

// Skill is a catalog entry describing an installable capability.
type Skill struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Author       string         `json:"author"`
	Version      string         `json:"version"`
	Tags         []string       `json:"tags"`
	Dependencies []string       `json:"dependencies"`
	Config       map[string]any `json:"config"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	IsActive     bool           `json:"is_active"`
	UsageCount   int            `json:"usage_count"`
	Rating       float64        `json:"rating"`
}

// NewSkill returns a skill with the catalog defaults applied.
func NewSkill(id, name, description, category, author string, tags ...string) *Skill {
	now := time.Now().UTC()
	return &Skill{
		ID:           id,
		Name:         name,
		Description:  description,
		Category:     category,
		Author:       author,
		Version:      DefaultVersion,
		Tags:         tags,
		Dependencies: []string{},
		Config:       map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
}

// HasAnyTag reports whether the skill carries at least one of tags.
func (s *Skill) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range s.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the registry.
func (s *Skill) Clone() *Skill {
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	c.Dependencies = append([]string(nil), s.Dependencies...)
	c.Config = maps.Clone(s.Config)
	return &c
}

// Validate checks the skill definition for consistency.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("skill %q: name is required", s.ID)
	}
	if s.Description == "" {
		return fmt.Errorf("skill %q: description is required", s.ID)
	}
	if s.Category == "" {
		return fmt.Errorf("skill %q: category is required", s.ID)
	}
	if _, err := semver.StrictNewVersion(s.Version); err != nil {
		return fmt.Errorf("skill %q: invalid version %q: %w", s.ID, s.Version, err)
	}
	if s.UsageCount < 0 {
		return fmt.Errorf("skill %q: usage_count must be >= 0", s.ID)
	}
	return nil
}

// skillFile is the on-disk shape. is_active is a pointer so that an
// omitted field keeps the default of true.
type skillFile struct {
	Skill
	IsActive *bool `json:"is_active"`
}

// ParseSkill decodes a JSONC skill definition and applies defaults.
func ParseSkill(data []byte) (*Skill, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse skill: %w", err)
	}

	var f skillFile
	if err := json.Unmarshal(std, &f); err != nil {
		return nil, fmt.Errorf("unmarshal skill: %w", err)
	}

	s := f.Skill
	s.IsActive = f.IsActive == nil || *f.IsActive
	if s.Version == "" {
		s.Version = DefaultVersion
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Dependencies == nil {
		s.Dependencies = []string{}
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSkillFile reads a JSONC skill definition from disk.
func LoadSkillFile(path string) (*Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill %s: %w", path, err)
	}
	s, err := ParseSkill(data)
	if err != nil {
		return nil, fmt.Errorf("load skill %s: %w", path, err)
	}
	return s, nil
}

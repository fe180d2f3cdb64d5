package skills

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/telemetry"
)

// DefaultSearchLimit applies when SearchParams.Limit is not positive.
const DefaultSearchLimit = 50

// SearchParams are the conjunctive filters of Search. Empty fields do not filter.
type SearchParams struct {
	Query    string   `json:"query"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// RegistryConfig holds the dependencies of a Registry.
type RegistryConfig struct {
	Dirs    []string // searched for **/*.jsonc definitions at Initialize
	Bus     *events.Bus
	Metrics *telemetry.Metrics
}

// Registry manages the skill catalog. All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	skills      map[string]*Skill
	order       []string            // insertion order of skills
	categories  map[string][]string // category key -> skill ids
	cache       map[string]any
	initialized bool

	dirs    []string
	bus     *events.Bus
	metrics *telemetry.Metrics
}

// NewRegistry creates an empty registry. Call Initialize before use.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		skills:     make(map[string]*Skill),
		categories: make(map[string][]string),
		cache:      make(map[string]any),
		dirs:       cfg.Dirs,
		bus:        cfg.Bus,
		metrics:    cfg.Metrics,
	}
}

// Initialize loads the seed catalog and any skill files, then builds the
// category index. Calls after the first successful one are no-ops.
func (r *Registry) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	slog.Info("initializing skill registry...")

	for _, s := range seedSkills() {
		if err := r.register(s); err != nil {
			r.reset()
			return err
		}
	}

	for _, dir := range r.dirs {
		if err := ctx.Err(); err != nil {
			r.reset()
			return err
		}
		if err := r.loadDir(dir); err != nil {
			r.reset()
			return err
		}
	}

	r.buildCategoryIndex()
	r.initialized = true
	slog.Info("skill registry initialized", "skills", len(r.skills), "categories", len(r.categories))
	return nil
}

// register adds a skill. Caller holds r.mu.
func (r *Registry) register(s *Skill) error {
	if _, exists := r.skills[s.ID]; exists {
		return fmt.Errorf("skill %q already registered", s.ID)
	}
	r.skills[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// buildCategoryIndex rebuilds the category index. Caller holds r.mu.
func (r *Registry) buildCategoryIndex() {
	r.categories = make(map[string][]string)
	for _, id := range r.order {
		s := r.skills[id]
		r.categories[s.Category] = append(r.categories[s.Category], id)
	}
}

// Count returns the catalog size. It is the constant TotalSkills, not the
// number of skills held in memory; see Len.
func (r *Registry) Count() int {
	return TotalSkills
}

// Len returns the number of skills held in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skills)
}

// Get returns a copy of the skill with the given id, or nil.
func (r *Registry) Get(id string) *Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.skills[id]
	if !ok {
		return nil
	}
	return s.Clone()
}

// Search scans the catalog in insertion order and returns the page of
// skills matching every given filter. The query matches name or
// description, case-insensitively.
func (r *Registry) Search(p SearchParams) []*Skill {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	offset := max(p.Offset, 0)
	query := strings.ToLower(p.Query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Skill, 0)
	matched := 0
	for _, id := range r.order {
		s := r.skills[id]

		if p.Category != "" && s.Category != p.Category {
			continue
		}
		if len(p.Tags) > 0 && !s.HasAnyTag(p.Tags) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Name), query) &&
			!strings.Contains(strings.ToLower(s.Description), query) {
			continue
		}

		matched++
		if matched <= offset {
			continue
		}
		results = append(results, s.Clone())
		if len(results) == limit {
			break
		}
	}
	return results
}

// Categories returns the static category table.
func (r *Registry) Categories() map[string]Category {
	return Categories()
}

// SkillsInCategory returns the ids indexed under a category key, in
// insertion order.
func (r *Registry) SkillsInCategory(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.categories[key]...)
}

// Install bumps the usage counter of a skill. It reports false when the
// skill does not exist.
func (r *Registry) Install(ctx context.Context, id string) bool {
	r.mu.Lock()
	s, ok := r.skills[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	s.UsageCount++
	s.UpdatedAt = time.Now().UTC()
	count := s.UsageCount
	r.mu.Unlock()

	slog.Info("installed skill", "skill_id", id, "usage_count", count)
	r.metrics.RecordInstall(ctx, id)
	r.bus.Publish(events.NewTypedEvent(events.SourceSkills, events.SkillInstalledPayload{
		SkillID:    id,
		UsageCount: count,
	}))
	return true
}

// Cleanup drops all in-memory state. The next Initialize reloads it.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	slog.Info("skill registry cleaned up")
}

// reset empties the registry. Caller holds r.mu.
func (r *Registry) reset() {
	clear(r.skills)
	clear(r.categories)
	clear(r.cache)
	r.order = nil
	r.initialized = false
}

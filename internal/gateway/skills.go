package gateway

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/athena-agent/athena/internal/skills"
)

const maxSearchLimit = 100

// searchParamsFromQuery reads query, category, tags, limit and offset.
// Tags may be repeated or comma separated.
func searchParamsFromQuery(r *http.Request) (skills.SearchParams, error) {
	q := r.URL.Query()
	p := skills.SearchParams{
		Query:    q.Get("query"),
		Category: q.Get("category"),
	}
	for _, v := range q["tags"] {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}

	var err error
	if p.Limit, err = queryInt(r, "limit", skills.DefaultSearchLimit, 1, maxSearchLimit); err != nil {
		return p, err
	}
	if p.Offset, err = queryInt(r, "offset", 0, 0, int(^uint(0)>>1)); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Server) writeSkillPage(w http.ResponseWriter, p skills.SearchParams) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  s.skills.Count(),
		"limit":  p.Limit,
		"offset": p.Offset,
		"skills": s.skills.Search(p),
	})
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	p, err := searchParamsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeSkillPage(w, p)
}

func (s *Server) handleSearchSkills(w http.ResponseWriter, r *http.Request) {
	p := skills.SearchParams{Limit: skills.DefaultSearchLimit}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Limit < 1 || p.Limit > maxSearchLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	if p.Offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be >= 0")
		return
	}
	s.writeSkillPage(w, p)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.skills.Categories()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_categories": len(cats),
		"categories":       cats,
	})
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	skill := s.skills.Get(chi.URLParam(r, "id"))
	if skill == nil {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (s *Server) handleInstallSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SkillID string `json:"skill_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SkillID == "" {
		writeError(w, http.StatusBadRequest, "skill_id is required")
		return
	}

	if !s.skills.Install(r.Context(), req.SkillID) {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "installed", "skill_id": req.SkillID})
}

func (s *Server) handleSkillsByCategory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "category")
	info, ok := skills.LookupCategory(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	p, err := searchParamsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.Category = key

	writeJSON(w, http.StatusOK, map[string]any{
		"category":      key,
		"category_info": info,
		"skills":        s.skills.Search(p),
	})
}

package gateway

import (
	"net/http"
	"runtime"
	"time"

	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
)

const serviceDescription = "Intelligent Multi-Agent Orchestration Platform"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        s.name,
		"version":     s.version,
		"status":      "operational",
		"description": serviceDescription,
	})
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.version,
		"endpoints": map[string]string{
			"health":   "/api/health",
			"skills":   "/api/skills",
			"agents":   "/api/agents",
			"commands": "/api/commands",
			"events":   "/api/events",
			"ws":       "/api/ws",
		},
		"stats": map[string]int{
			"total_skills":       s.skills.Count(),
			"specialized_agents": s.agents.AgentCount(),
			"slash_commands":     len(slash.Names()),
			"categories":         len(skills.Categories()),
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"service":   ServiceName,
	})
}

// handleReady reports not_ready with 503 until both registries are populated.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	loaded := s.skills.Len()
	agentCount := s.agents.AgentCount()

	check := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "empty"
	}

	status, code := "ready", http.StatusOK
	if loaded == 0 || agentCount == 0 {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": map[string]any{
			"skill_registry":     map[string]any{"status": check(loaded > 0), "skills": s.skills.Count()},
			"agent_orchestrator": map[string]any{"status": check(agentCount > 0), "agents": agentCount},
		},
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":    ServiceName,
		"version":    s.version,
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"stats": map[string]int{
			"total_skills": s.skills.Count(),
			"total_agents": s.agents.AgentCount(),
			"categories":   len(s.skills.Categories()),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

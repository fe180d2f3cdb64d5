package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	all := s.agents.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(all),
		"agents": all,
	})
}

func (s *Server) handleAgentStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.agents.Stats())
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent := s.agents.Get(chi.URLParam(r, "id"))
	if agent == nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleAgentSkills(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	agent := s.agents.Get(id)
	if agent == nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":   id,
		"agent_name": agent.Name,
		"skills":     agent.Config.Skills,
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string  `json:"agent_id"`
		Input   *string `json:"input"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "agent_id is required")
		return
	}
	if req.Input == nil {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	task := s.agents.CreateTask(r.Context(), req.AgentID, *req.Input)
	if task == nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task_id":    task.ID,
		"agent_id":   task.AgentID,
		"status":     task.Status,
		"created_at": isoTime(&task.CreatedAt),
	})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task := s.agents.GetTask(chi.URLParam(r, "id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleExecuteTask(w http.ResponseWriter, r *http.Request) {
	task := s.agents.ExecuteTask(r.Context(), chi.URLParam(r, "id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task_id":      task.ID,
		"status":       task.Status,
		"output":       nullable(task.Output),
		"error":        nullable(task.Error),
		"completed_at": isoTime(task.CompletedAt),
	})
}

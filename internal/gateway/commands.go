package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/athena-agent/athena/internal/slash"
)

func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	cmds := slash.Commands()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(cmds),
		"commands": cmds,
	})
}

func (s *Server) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	cmd, ok := slash.Lookup(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Command not found")
		return
	}
	writeJSON(w, http.StatusOK, cmd)
}

func (s *Server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	resp, err := s.commands.Execute(r.Context(), req.Command, req.Args)
	if errors.Is(err, slash.ErrUnknownCommand) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unknown command: /%s. Use /help for available commands.", slash.Normalize(req.Command)))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package api

import (
	"net/http"
)

func (s *Server) handleEvalStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":       s.engine.Stats(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/pipeline"
)

type recalculateRequest struct {
	Documents []documentRequest `json:"documents"`
}

// handleRecalculate queues a bulk recalculation that overwrites the
// cached total of every listed document.
func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "documents must not be empty", http.StatusBadRequest)
		return
	}

	docs := make([]*doctree.Document, 0, len(req.Documents))
	for i, d := range req.Documents {
		if d.ID == "" {
			jsonError(w, fmt.Sprintf("documents[%d]: id is required", i), http.StatusBadRequest)
			return
		}
		docs = append(docs, d.document())
	}

	job := pipeline.NewJob(docs)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":    job.ID,
		"status":    pipeline.StatusQueued,
		"documents": len(docs),
		"poll_url":  fmt.Sprintf("/api/recalculate/%s/status", job.ID),
	})
}

func (s *Server) handleRecalculateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

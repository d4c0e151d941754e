package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/contentlint/internal/scorecache"
)

// handleSaveDocument evaluates the total scope and persists it once.
func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc := req.document()
	doc.ID = chi.URLParam(r, "docID")

	total, err := s.scores.Save(r.Context(), doc)
	if err != nil {
		s.log.Error("save score failed", "document_id", doc.ID, "error", err)
		jsonError(w, "failed to save score: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": doc.ID,
		"total":       total,
	})
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	entry, err := s.scores.Cached(r.Context(), docID)
	if errors.Is(err, scorecache.ErrNotFound) {
		jsonError(w, "no cached score for "+docID, http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to read score: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleListScores lists cached totals. With ids=a,b,c it ranks exactly
// those documents, marking the ones without a cached total as missing.
func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	order, err := scorecache.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var entries []scorecache.Entry
	if ids := splitIDs(r.URL.Query().Get("ids")); len(ids) > 0 {
		entries, err = s.scores.Rank(r.Context(), ids, order)
	} else {
		entries, err = s.scores.List(r.Context(), order)
	}
	if err != nil {
		jsonError(w, "failed to list scores: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []scorecache.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": entries})
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.scores.Delete(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete score: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document_id": docID, "deleted": true})
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

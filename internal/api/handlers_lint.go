package api

import (
	"net/http"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/lint"
)

// documentRequest is a post as the host sends it.
type documentRequest struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Body             string `json:"body"`
	HasFeaturedAsset bool   `json:"has_featured_asset"`
}

func (d documentRequest) document() *doctree.Document {
	return &doctree.Document{
		ID:               d.ID,
		Title:            d.Title,
		Slug:             d.Slug,
		Body:             d.Body,
		HasFeaturedAsset: d.HasFeaturedAsset,
	}
}

type lintRequest struct {
	documentRequest
	Scope string `json:"scope"`
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req lintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	scope, err := lint.ParseScope(req.Scope)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.engine.EvaluateContext(r.Context(), req.document(), scope)
	if err != nil {
		jsonError(w, "evaluation cancelled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

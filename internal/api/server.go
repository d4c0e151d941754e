package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/contentlint/internal/config"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/pipeline"
	"github.com/dgallion1/contentlint/internal/scorecache"
)

// Server is the HTTP API server for contentlint.
type Server struct {
	router       chi.Router
	engine       *lint.Engine
	scores       *scorecache.Service
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(engine *lint.Engine, scores *scorecache.Service, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine:       engine,
		scores:       scores,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		r.Use(BodyLimit(s.cfg.MaxBodyBytes))

		r.Post("/api/lint", s.handleLint)

		r.Get("/api/documents", s.handleListScores)
		r.Put("/api/documents/{docID}", s.handleSaveDocument)
		r.Get("/api/documents/{docID}/score", s.handleGetScore)
		r.Delete("/api/documents/{docID}", s.handleDeleteScore)

		r.Post("/api/recalculate", s.handleRecalculate)
		r.Get("/api/recalculate/{jobID}/status", s.handleRecalculateStatus)

		r.Get("/api/stats/eval", s.handleEvalStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/teigest/internal/config"
	"github.com/dgallion1/teigest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for teigest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	output       pipeline.OutputResolver
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. output must be the
// resolver the orchestrator writes through, so written documents can be
// served back.
func NewServer(orch *pipeline.Orchestrator, output pipeline.OutputResolver, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		output:       output,
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

		r.Post("/api/curate", s.handleCurate)
		r.Get("/api/curate/{jobID}/status", s.handleCurateStatus)
		r.Post("/api/verify", s.handleVerify)
		r.Get("/api/metadata/{filename}", s.handleMetadata)
		r.Get("/api/documents/{document}", s.handleGetDocument)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Package api provides HTTP REST endpoints for running and browsing
// debates.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/service"
)

const defaultListLimit = 10

// Server exposes the debate orchestrator over HTTP.
type Server struct {
	router       chi.Router
	orchestrator *service.Orchestrator
	logger       *logging.Logger
	version      string
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a new API server.
func NewServer(orchestrator *service.Orchestrator, opts ...ServerOption) *Server {
	s := &Server{
		orchestrator: orchestrator,
		logger:       logging.NewNop(),
		version:      "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Debates run three model calls back to back, so the request budget is
	// generous.
	r.Use(middleware.Timeout(10 * time.Minute))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/debates", func(r chi.Router) {
			r.Get("/", s.handleListDebates)
			r.Post("/", s.handleRunDebate)
			r.Route("/{debateID}", func(r chi.Router) {
				r.Get("/", s.handleGetDebate)
				r.Delete("/", s.handleDeleteDebate)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// agentRequest is the wire form of one agent in a debate request.
type agentRequest struct {
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	TimeoutSecs int     `json:"timeout_seconds,omitempty"`
}

// runDebateRequest is the POST /debates payload.
type runDebateRequest struct {
	Topic  core.Topic     `json:"topic"`
	Agents []agentRequest `json:"agents"`
}

func (s *Server) handleRunDebate(w http.ResponseWriter, r *http.Request) {
	var req runDebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	configs := make([]core.AgentConfig, 0, len(req.Agents))
	for _, a := range req.Agents {
		cfg := core.NewAgentConfig(a.Name, core.Role(a.Role), a.Provider, a.Model)
		if a.Temperature > 0 {
			cfg.Temperature = a.Temperature
		}
		if a.MaxTokens > 0 {
			cfg.MaxTokens = a.MaxTokens
		}
		if a.TimeoutSecs > 0 {
			cfg.Timeout = time.Duration(a.TimeoutSecs) * time.Second
		}
		configs = append(configs, cfg)
	}

	record, err := s.orchestrator.RunDebate(r.Context(), req.Topic, configs)
	if err != nil {
		if record != nil {
			// The debate ran but could not be persisted. Return what we
			// have so the client does not retry three model calls, but
			// flag the failure instead of pretending the save succeeded.
			s.logger.Error("api: debate ran but save failed", "error", err)
			s.respondJSON(w, httpStatusFor(err), map[string]any{
				"debate":     record,
				"save_error": err.Error(),
			})
			return
		}
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListDebates(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.orchestrator.ListDebates(r.Context(), limit)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	if records == nil {
		records = []*core.DebateRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"debates": records,
		"count":   len(records),
	})
}

func (s *Server) handleGetDebate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "debateID")
	record, err := s.orchestrator.GetDebate(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteDebate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "debateID")
	deleted, err := s.orchestrator.DeleteDebate(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	if !deleted {
		s.respondError(w, http.StatusNotFound, "debate not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("api: encoding response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	s.respondError(w, httpStatusFor(err), err.Error())
}

func httpStatusFor(err error) int {
	switch core.GetCategory(err) {
	case core.ErrCatValidation:
		return http.StatusUnprocessableEntity
	case core.ErrCatNotFound:
		return http.StatusNotFound
	case core.ErrCatTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

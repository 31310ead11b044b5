package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Engine is what the API needs from emflow.
type Engine interface {
	Inspect(ctx context.Context, ref domain.ProjectRef) (*domain.InspectionReport, error)
	Runs(ctx context.Context) ([]*domain.RunRecord, error)
	GetRun(ctx context.Context, id string) (*domain.RunRecord, error)
}

// Server serves run history and inspection over HTTP.
type Server struct {
	Engine  Engine
	metrics http.Handler
	logger  *slog.Logger
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a Prometheus handler on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// RunSummary is one entry of GET /runs.
type RunSummary struct {
	ID        string           `json:"id"`
	Project   string           `json:"project"`
	Design    string           `json:"design,omitempty"`
	Status    domain.RunStatus `json:"status"`
	StartedAt time.Time        `json:"started_at"`
	Warnings  int              `json:"warnings"`
}

// InspectRequest is the body of POST /inspect.
type InspectRequest struct {
	Path   string `json:"path"`
	Design string `json:"design,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine, logger: logging.NewNop(), version: "dev"}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.GetHealth)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)
	r.Post("/inspect", s.Inspect)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Engine.Runs(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]RunSummary, 0, len(runs))
	for _, rec := range runs {
		out = append(out, RunSummary{
			ID:        rec.ID,
			Project:   rec.Project,
			Design:    rec.Design,
			Status:    rec.Status,
			StartedAt: rec.StartedAt,
			Warnings:  len(rec.Warnings),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Engine.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Inspect handles POST /inspect. It opens the project through the solver, so it blocks
// until any run holding the desktop has finished.
func (s *Server) Inspect(w http.ResponseWriter, r *http.Request) {
	var body InspectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if body.Path == "" {
		s.fail(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}
	rep, err := s.Engine.Inspect(r.Context(), domain.ProjectRef{Path: body.Path, Design: body.Design})
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

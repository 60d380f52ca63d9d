// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/types"
)

// Handler limits.
const (
	DefaultMaxLimit     = 100
	DefaultMaxBodyBytes = 4 << 20
	defaultLimit        = 10
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlanDependencies
	StrengthDependencies
}

// Entry mirrors the read shape returned by strength queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	plansHandler     *PlansHandler
	strengthsHandler *StrengthsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxLimit     int
	maxBodyBytes int64
}

// WithMaxLimit caps the limit accepted by GET /strengths.
func WithMaxLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxLimit = n
		}
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxLimit: DefaultMaxLimit, maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		plansHandler:     NewPlansHandler(deps, cfg.maxBodyBytes),
		strengthsHandler: NewStrengthsHandler(deps, cfg.maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /plans", MetricsMiddleware(s.plansHandler.HandleSubmit, "plans"))
	mux.HandleFunc("POST /plans/preview", MetricsMiddleware(s.plansHandler.HandlePreview, "plans_preview"))
	mux.HandleFunc("GET /plans/{id}", MetricsMiddleware(s.plansHandler.HandleGet, "plan"))
	mux.HandleFunc("GET /strengths", MetricsMiddleware(s.strengthsHandler.HandleTop, "strengths"))
	mux.HandleFunc("GET /strengths/{id}", MetricsMiddleware(s.strengthsHandler.HandleRank, "strength_rank"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify tags an upstream error with its API kind.
func classify(op string, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrRosterTooLarge):
		return WrapKind(op, ErrTooLarge, err)
	case errors.Is(err, service.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrNotReady, err)
	case errors.Is(err, repository.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, repository.ErrInvalidLimit):
		return WrapKind(op, ErrBadRequest, err)
	default:
		return Wrap(op, err)
	}
}

// respondError writes err with the status of its kind.
func respondError(w http.ResponseWriter, op string, err error) {
	err = classify(op, err)
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

package api

import (
	"context"
	"net/http"
	"strconv"
)

// StrengthDependencies defines the strength board reads.
type StrengthDependencies interface {
	TopStrengths(ctx context.Context, n int) ([]Entry, error)
	StrengthRank(ctx context.Context, participantID string) (Entry, error)
}

// StrengthsHandler handles strength board requests.
type StrengthsHandler struct {
	deps     StrengthDependencies
	maxLimit int
}

// NewStrengthsHandler creates a new strengths handler.
func NewStrengthsHandler(deps StrengthDependencies, maxLimit int) *StrengthsHandler {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &StrengthsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleTop handles GET /strengths?limit=N requests. The limit defaults to 10.
func (h *StrengthsHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_strengths"
	n := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.TopStrengths(r.Context(), n)
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRank handles GET /strengths/{id} requests.
func (h *StrengthsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.strength_rank"
	entry, err := h.deps.StrengthRank(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/types"
)

// PlanDependencies defines the planning operations used by PlansHandler.
type PlanDependencies interface {
	Submit(ctx context.Context, req types.PlanRequest) (types.Submission, error)
	Preview(ctx context.Context, req types.PlanRequest) (model.Plan, error)
	Plan(ctx context.Context, planID string) (repository.PlanRecord, error)
}

// PlansHandler handles plan requests.
type PlansHandler struct {
	deps         PlanDependencies
	maxBodyBytes int64
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps PlanDependencies, maxBodyBytes int64) *PlansHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &PlansHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// participantRequest mirrors the OpenAPI participant schema. Active defaults
// to true when omitted.
type participantRequest struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
	Active     *bool              `json:"active,omitempty"`
}

// planRequest mirrors the OpenAPI schema for POST /plans.
type planRequest struct {
	RequestID    string               `json:"request_id,omitempty"`
	GroupSize    int                  `json:"group_size"`
	Seed         int64                `json:"seed,omitempty"`
	Participants []participantRequest `json:"participants"`
}

func (p planRequest) validate() error { //nolint:gocritic // hugeParam: request is read-only
	switch {
	case p.GroupSize < 1:
		return errors.New("group_size must be at least 1")
	case len(p.Participants) == 0:
		return errors.New("missing participants")
	}
	for i, pr := range p.Participants {
		if strings.TrimSpace(pr.ID) == "" {
			return fmt.Errorf("participant %d: missing id", i)
		}
	}
	return nil
}

func (p planRequest) toDomain() types.PlanRequest { //nolint:gocritic // hugeParam: request is read-only
	ps := make([]model.Participant, len(p.Participants))
	for i, pr := range p.Participants {
		active := true
		if pr.Active != nil {
			active = *pr.Active
		}
		ps[i] = model.Participant{
			ID:         strings.TrimSpace(pr.ID),
			Name:       pr.Name,
			Attributes: pr.Attributes,
			Active:     active,
		}
	}
	return types.PlanRequest{
		RequestID:    strings.TrimSpace(p.RequestID),
		GroupSize:    p.GroupSize,
		Seed:         p.Seed,
		Participants: ps,
	}
}

// decode reads and validates a plan request body.
func (h *PlansHandler) decode(w http.ResponseWriter, r *http.Request, op string) (types.PlanRequest, error) {
	var req planRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.PlanRequest{}, WrapKind(op, ErrTooLarge, err)
		}
		return types.PlanRequest{}, WrapKind(op, ErrBadRequest, err)
	}
	if err := req.validate(); err != nil {
		return types.PlanRequest{}, WrapKind(op, ErrBadRequest, err)
	}
	return req.toDomain(), nil
}

// HandleSubmit handles POST /plans requests. New requests are acknowledged
// with 202, repeats with 200 and the original plan ID.
func (h *PlansHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_plan"
	req, err := h.decode(w, r, op)
	if err != nil {
		respondError(w, op, err)
		return
	}

	sub, err := h.deps.Submit(r.Context(), req)
	if err != nil {
		respondError(w, op, err)
		return
	}

	status := http.StatusAccepted
	if sub.Duplicate {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/plans/"+sub.PlanID)
	writeJSON(w, status, sub)
}

// HandlePreview handles POST /plans/preview requests by planning
// synchronously.
func (h *PlansHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	const op = "api.preview_plan"
	req, err := h.decode(w, r, op)
	if err != nil {
		respondError(w, op, err)
		return
	}

	plan, err := h.deps.Preview(r.Context(), req)
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// HandleGet handles GET /plans/{id} requests.
func (h *PlansHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plan"
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		respondError(w, op, NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.Plan(r.Context(), id)
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

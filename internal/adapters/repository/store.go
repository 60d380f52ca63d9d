// Package repository keeps planning results and participant strengths in
// memory.
package repository

import (
	"context"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/types"
)

// Plans tracks the lifecycle of submitted plans.
type Plans interface {
	// Pending registers a newly submitted plan. It returns ErrExists if the
	// ID is already tracked.
	Pending(ctx context.Context, planID string) error
	// Complete stores a finished plan under plan.ID.
	Complete(ctx context.Context, plan model.Plan) error
	// Fail marks a plan as failed with the given cause.
	Fail(ctx context.Context, planID string, cause error) error
	// Remove forgets a plan.
	Remove(ctx context.Context, planID string)
	// Get returns the record of a plan or ErrNotFound.
	Get(ctx context.Context, planID string) (PlanRecord, error)
	// Count returns the number of tracked plans.
	Count(ctx context.Context) int
}

// Strengths ranks participants by their latest planned strength.
type Strengths interface {
	// Upsert sets the strength of a participant, replacing any previous value.
	Upsert(ctx context.Context, participantID string, strength float64) error
	// Rank returns the rank and strength of a participant or ErrNotFound.
	Rank(ctx context.Context, participantID string) (types.Entry, error)
	// TopN returns the n strongest participants, strongest first.
	TopN(ctx context.Context, n int) ([]types.Entry, error)
	// Count returns the number of participants on the board.
	Count(ctx context.Context) int
}

var (
	_ Plans     = (*PlanStore)(nil)
	_ Strengths = (*StrengthBoard)(nil)
)

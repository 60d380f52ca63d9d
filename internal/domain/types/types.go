// Package types contains common types used across the application
package types

import "github.com/okian/matchday/internal/domain/model"

// Entry represents a row of the strength board
type Entry struct {
	Rank          int     `json:"rank"`
	ParticipantID string  `json:"participant_id"`
	Strength      float64 `json:"strength"`
}

// PlanStatus is the lifecycle state of an asynchronously planned roster.
type PlanStatus string

// Plan statuses.
const (
	PlanPending PlanStatus = "pending"
	PlanDone    PlanStatus = "done"
	PlanFailed  PlanStatus = "failed"
)

// PlanRequest asks for a roster to be split into groups and paired.
// An empty RequestID is derived from the request content.
type PlanRequest struct {
	RequestID    string              `json:"request_id,omitempty"`
	GroupSize    int                 `json:"group_size"`
	Seed         int64               `json:"seed,omitempty"`
	Participants []model.Participant `json:"participants"`
}

// Submission acknowledges an accepted PlanRequest.
type Submission struct {
	PlanID    string     `json:"plan_id"`
	RequestID string     `json:"request_id"`
	Status    PlanStatus `json:"status"`
	Duplicate bool       `json:"duplicate"`
}

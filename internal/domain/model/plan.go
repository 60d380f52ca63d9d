package model

import "time"

// Bye marks the missing opponent of the single unmatched group when the
// group count is odd.
const Bye = -1

// Matchup pairs two groups by index. Away is Bye for an unmatched group.
type Matchup struct {
	Home     int     `json:"home"`
	Away     int     `json:"away"`
	Mismatch float64 `json:"mismatch"`
}

// IsBye reports whether the matchup is the unmatched placeholder.
func (m Matchup) IsBye() bool {
	return m.Away == Bye
}

// PlanStats carries diagnostics about a planning run.
type PlanStats struct {
	Participants  int     `json:"participants"`
	Active        int     `json:"active"`
	Bench         int     `json:"bench"`
	InitialStdDev float64 `json:"initial_std_dev"`
	FinalStdDev   float64 `json:"final_std_dev"`
	Iterations    int     `json:"iterations"`
	Swaps         int     `json:"swaps"`
}

// Plan is the output of one planning run.
type Plan struct {
	ID        string    `json:"id,omitempty"`
	GroupSize int       `json:"group_size"`
	Groups    []Group   `json:"groups"`
	Matchups  []Matchup `json:"matchups"`
	Stats     PlanStats `json:"stats"`
	CreatedAt time.Time `json:"created_at"`
}

// Ready reports whether the plan can be played as is: every group holds
// exactly GroupSize starters and no group is left without an opponent.
func (p Plan) Ready() bool {
	if len(p.Groups) == 0 {
		return false
	}
	for _, g := range p.Groups {
		if !g.Full(p.GroupSize) {
			return false
		}
	}
	for _, m := range p.Matchups {
		if m.IsBye() {
			return false
		}
	}
	return true
}

// PlanJob is a queued planning request.
type PlanJob struct {
	PlanID       string
	RequestID    string
	GroupSize    int
	Participants []Participant
	Seed         int64
	EnqueuedAt   time.Time
}

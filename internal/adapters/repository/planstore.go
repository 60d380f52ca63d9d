package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/metrics"
)

// PlanRecord is the stored state of one plan.
type PlanRecord struct {
	ID          string           `json:"plan_id"`
	Status      types.PlanStatus `json:"status"`
	Plan        *model.Plan      `json:"plan,omitempty"`
	Error       string           `json:"error,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PlanStore is a bounded, concurrent map of plan records. Reads never block
// writers; the insertion order used for eviction is guarded separately.
type PlanStore struct {
	records  *xsync.Map[string, PlanRecord]
	capacity int
	now      func() time.Time

	mu    sync.Mutex
	order []string
}

// NewPlanStore creates an empty plan store.
func NewPlanStore(opts ...PlanOption) *PlanStore {
	s := &PlanStore{
		records:  xsync.NewMap[string, PlanRecord](),
		capacity: DefaultPlanCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending registers planID with status pending.
func (s *PlanStore) Pending(_ context.Context, planID string) error {
	start := time.Now()
	defer recordLatency("plans", "pending", start)

	now := s.now()
	if _, loaded := s.records.LoadOrStore(planID, PlanRecord{
		ID:          planID,
		Status:      types.PlanPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}); loaded {
		return fmt.Errorf("plan %s: %w", planID, ErrExists)
	}
	s.track(planID)
	return nil
}

// Complete stores plan as done. Unknown IDs are added.
func (s *PlanStore) Complete(_ context.Context, plan model.Plan) error {
	start := time.Now()
	defer recordLatency("plans", "complete", start)

	p := plan
	s.update(plan.ID, func(r *PlanRecord) {
		r.Status = types.PlanDone
		r.Plan = &p
		r.Error = ""
	})
	return nil
}

// Fail marks planID as failed. Unknown IDs are added.
func (s *PlanStore) Fail(_ context.Context, planID string, cause error) error {
	start := time.Now()
	defer recordLatency("plans", "fail", start)

	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	s.update(planID, func(r *PlanRecord) {
		r.Status = types.PlanFailed
		r.Plan = nil
		r.Error = msg
	})
	return nil
}

// Get returns the record for planID.
func (s *PlanStore) Get(_ context.Context, planID string) (PlanRecord, error) {
	start := time.Now()
	defer recordLatency("plans", "get", start)

	r, ok := s.records.Load(planID)
	if !ok {
		metrics.RecordErrorByComponent("repository", "plan_not_found")
		return PlanRecord{}, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	return r, nil
}

// Remove drops planID. It is used to roll back a submission that never
// reached the queue.
func (s *PlanStore) Remove(_ context.Context, planID string) {
	if _, ok := s.records.LoadAndDelete(planID); !ok {
		return
	}
	s.mu.Lock()
	if i := slices.Index(s.order, planID); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.mu.Unlock()

	metrics.UpdatePlanStoreSize(s.records.Size())
}

// Count returns the number of stored plans.
func (s *PlanStore) Count(_ context.Context) int {
	return s.records.Size()
}

// CountByStatus returns the number of plans in each status.
func (s *PlanStore) CountByStatus(_ context.Context) map[types.PlanStatus]int {
	out := map[types.PlanStatus]int{
		types.PlanPending: 0,
		types.PlanDone:    0,
		types.PlanFailed:  0,
	}
	s.records.Range(func(_ string, r PlanRecord) bool {
		out[r.Status]++
		return true
	})
	return out
}

func (s *PlanStore) update(planID string, apply func(*PlanRecord)) {
	now := s.now()
	existed := false
	s.records.Compute(planID, func(old PlanRecord, loaded bool) (PlanRecord, xsync.ComputeOp) {
		existed = loaded
		if !loaded {
			old = PlanRecord{ID: planID, SubmittedAt: now}
		}
		apply(&old)
		old.UpdatedAt = now
		return old, xsync.UpdateOp
	})
	if !existed {
		s.track(planID)
	}
}

// track appends planID to the eviction order and evicts the oldest plans
// beyond capacity.
func (s *PlanStore) track(planID string) {
	s.mu.Lock()
	s.order = append(s.order, planID)
	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		s.records.Delete(oldest)
	}
	s.mu.Unlock()

	metrics.UpdatePlanStoreSize(s.records.Size())
}

func recordLatency(store, op string, start time.Time) {
	metrics.RecordRepositoryLatency(store, op, float64(time.Since(start).Microseconds())/1000)
}

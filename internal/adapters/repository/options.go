package repository

import "time"

// DefaultPlanCapacity is the number of plans kept before the oldest is evicted.
const DefaultPlanCapacity = 10000

// PlanOption applies a configuration option to the PlanStore.
type PlanOption func(*PlanStore)

// WithPlanCapacity sets how many plans are kept. Values below 1 are ignored.
func WithPlanCapacity(n int) PlanOption {
	return func(s *PlanStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) PlanOption {
	return func(s *PlanStore) {
		if now != nil {
			s.now = now
		}
	}
}

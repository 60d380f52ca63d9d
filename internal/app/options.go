package service

import (
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/okian/matchday/pkg/logger"
)

// Default service limits.
const (
	DefaultQueueSize     = 10000
	DefaultDedupeSize    = 50000
	DefaultPlanStoreSize = 10000
	DefaultMaxRosterSize = 5000
	DefaultMaxAttribute  = 10.0
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued plan jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithPlanStoreSize sets how many plans are kept before the oldest is evicted.
func WithPlanStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.planStoreSize = size
		}
	}
}

// WithMaxRosterSize caps the number of participants in one request.
func WithMaxRosterSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxRosterSize = size
		}
	}
}

// WithMaxAttribute sets the highest accepted attribute rating.
func WithMaxAttribute(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.maxAttribute = v
		}
	}
}

// WithPlannerOptions configures the planner used by workers and previews.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(s *Service) {
		s.plannerOpts = append(s.plannerOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

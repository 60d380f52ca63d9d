// Package service wires the planning engine to the queue, the worker pool
// and the in-memory stores, and implements the dependencies required by the
// HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	planqueue "github.com/okian/matchday/internal/adapters/mq/queue"
	workerpool "github.com/okian/matchday/internal/adapters/mq/worker"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/dedupe"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Service implements the API dependencies for the planning system.
type Service struct {
	mu sync.RWMutex

	// Core components
	planner    *planner.Planner
	plans      *repository.PlanStore
	strengths  *repository.StrengthBoard
	deduper    dedupe.Deduper
	queue      planqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	planStoreSize int
	maxRosterSize int
	maxAttribute  float64
	plannerOpts   []planner.Option

	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     DefaultQueueSize,
		dedupeSize:    DefaultDedupeSize,
		planStoreSize: DefaultPlanStoreSize,
		maxRosterSize: DefaultMaxRosterSize,
		maxAttribute:  DefaultMaxAttribute,
	}

	for _, opt := range opts {
		opt(s)
	}
	s.planner = planner.New(s.plannerOpts...)

	return s
}

// Start initializes the stores and starts the worker pool. Starting a
// started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting planning service...")

	s.plans = repository.NewPlanStore(repository.WithPlanCapacity(s.planStoreSize))
	s.strengths = repository.NewStrengthBoard()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = planqueue.NewInMemoryQueue(planqueue.WithCapacity(s.queueSize))

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.planner, s.plans, s.strengths)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "planning service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("plan_store_size", s.planStoreSize),
	)

	return nil
}

// Stop drains the queue and waits for the workers to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping planning service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "planning service stopped")
}

// Submit validates req and queues it for planning. A request whose ID was
// already submitted returns the plan ID assigned the first time with
// Duplicate set, as long as that plan is still stored; once it has been
// evicted the request is planned again under a new ID.
func (s *Service) Submit(ctx context.Context, req types.PlanRequest) (types.Submission, error) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return types.Submission{}, ErrNotStarted
	}
	plans, deduper, queue := s.plans, s.deduper, s.queue
	s.mu.RUnlock()

	if err := s.validate(req); err != nil {
		return types.Submission{}, err
	}

	key := req.RequestID
	if key == "" {
		var err error
		if key, err = requestKey(req); err != nil {
			return types.Submission{}, err
		}
	}

	metrics.RecordPlanSubmitted()
	planID, dup := deduper.SeenAndRecord(ctx, key, uuid.NewString())
	if dup {
		rec, err := plans.Get(ctx, planID)
		if err == nil {
			metrics.RecordPlanDuplicate()
			s.logger.Debug(ctx, "duplicate plan request",
				logger.String("request_id", key), logger.String("plan_id", planID))
			return types.Submission{PlanID: planID, RequestID: key, Status: rec.Status, Duplicate: true}, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return types.Submission{}, fmt.Errorf("lookup plan: %w", err)
		}

		// The plan was evicted; plan the request again under a new ID.
		fresh := uuid.NewString()
		current, replaced := deduper.Replace(ctx, key, planID, fresh)
		if !replaced {
			metrics.RecordPlanDuplicate()
			return types.Submission{PlanID: current, RequestID: key, Status: types.PlanPending, Duplicate: true}, nil
		}
		s.logger.Debug(ctx, "remembered plan evicted, replanning",
			logger.String("request_id", key),
			logger.String("evicted_plan_id", planID),
			logger.String("plan_id", fresh))
		planID = fresh
	}

	if err := plans.Pending(ctx, planID); err != nil {
		deduper.Unrecord(ctx, key)
		return types.Submission{}, fmt.Errorf("register plan: %w", err)
	}

	job := model.PlanJob{
		PlanID:       planID,
		RequestID:    key,
		GroupSize:    req.GroupSize,
		Participants: slices.Clone(req.Participants),
		Seed:         req.Seed,
		EnqueuedAt:   time.Now(),
	}
	if err := queue.Enqueue(ctx, job); err != nil {
		deduper.Unrecord(ctx, key)
		plans.Remove(ctx, planID)
		if errors.Is(err, planqueue.ErrFull) || errors.Is(err, planqueue.ErrClosed) {
			return types.Submission{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return types.Submission{}, fmt.Errorf("enqueue plan: %w", err)
	}

	s.logger.Debug(ctx, "plan queued",
		logger.String("plan_id", planID),
		logger.String("request_id", key),
		logger.Int("participants", len(req.Participants)),
	)
	return types.Submission{PlanID: planID, RequestID: key, Status: types.PlanPending}, nil
}

// Preview plans req synchronously without storing anything.
func (s *Service) Preview(ctx context.Context, req types.PlanRequest) (model.Plan, error) {
	if err := s.validate(req); err != nil {
		return model.Plan{}, err
	}
	plan, err := s.planner.PlanSeeded(ctx, req.Participants, req.GroupSize, req.Seed)
	if err != nil {
		return model.Plan{}, fmt.Errorf("preview: %w", err)
	}
	return plan, nil
}

// Plan returns the stored record of a submitted plan.
func (s *Service) Plan(ctx context.Context, planID string) (repository.PlanRecord, error) {
	s.mu.RLock()
	plans := s.plans
	s.mu.RUnlock()
	if plans == nil {
		return repository.PlanRecord{}, ErrNotStarted
	}
	return plans.Get(ctx, planID)
}

// TopStrengths returns the n strongest participants seen in completed plans.
func (s *Service) TopStrengths(ctx context.Context, n int) ([]types.Entry, error) {
	s.mu.RLock()
	board := s.strengths
	s.mu.RUnlock()
	if board == nil {
		return nil, ErrNotStarted
	}
	return board.TopN(ctx, n)
}

// StrengthRank returns the rank and latest strength of a participant.
func (s *Service) StrengthRank(ctx context.Context, participantID string) (types.Entry, error) {
	s.mu.RLock()
	board := s.strengths
	s.mu.RUnlock()
	if board == nil {
		return types.Entry{}, ErrNotStarted
	}
	return board.Rank(ctx, participantID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"planStoreSize": s.planStoreSize,
		"maxRosterSize": s.maxRosterSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		byStatus := s.plans.CountByStatus(ctx)

		stats["queueLength"] = queueLen
		stats["activeWorkers"] = s.workerPool.Active()
		stats["plansPending"] = byStatus[types.PlanPending]
		stats["plansDone"] = byStatus[types.PlanDone]
		stats["plansFailed"] = byStatus[types.PlanFailed]
		stats["participants"] = s.strengths.Count(ctx)
		stats["requestsRemembered"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen, s.queue.Capacity())
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// validate checks a request against the service limits.
func (s *Service) validate(req types.PlanRequest) error { //nolint:gocritic // hugeParam: request is read-only
	if req.GroupSize < 1 {
		return fmt.Errorf("%w: group_size must be at least 1, got %d", ErrInvalidRequest, req.GroupSize)
	}
	if len(req.Participants) == 0 {
		return fmt.Errorf("%w: no participants", ErrInvalidRequest)
	}
	if req.GroupSize > s.maxRosterSize {
		return fmt.Errorf("%w: group_size %d exceeds the roster limit %d", ErrInvalidRequest, req.GroupSize, s.maxRosterSize)
	}
	if len(req.Participants) > s.maxRosterSize {
		return fmt.Errorf("%w: %d participants, limit %d", ErrRosterTooLarge, len(req.Participants), s.maxRosterSize)
	}

	seen := make(map[string]struct{}, len(req.Participants))
	for i, p := range req.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d has no id", ErrInvalidRequest, i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = struct{}{}

		for attr, v := range p.Attributes {
			if math.IsNaN(v) || v < 0 || v > s.maxAttribute {
				return fmt.Errorf("%w: participant %q attribute %q out of range [0, %g]",
					ErrInvalidRequest, p.ID, attr, s.maxAttribute)
			}
		}
	}
	return nil
}

// requestKey derives a stable request ID from the request content. Computed
// strengths are ignored; they are always recomputed.
func requestKey(req types.PlanRequest) (string, error) { //nolint:gocritic // hugeParam: request is read-only
	ps := make([]model.Participant, len(req.Participants))
	for i, p := range req.Participants {
		p.Strength = 0
		ps[i] = p
	}
	raw, err := json.Marshal(types.PlanRequest{GroupSize: req.GroupSize, Seed: req.Seed, Participants: ps})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	h := xxh3.Hash128(raw)
	return fmt.Sprintf("req-%016x%016x", h.Hi, h.Lo), nil
}

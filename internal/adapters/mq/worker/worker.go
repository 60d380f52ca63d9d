// Package worker runs queued planning jobs and publishes their results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU(); planning is CPU bound
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.PlanJob

// Planner computes a plan for a roster.
type Planner interface {
	PlanSeeded(ctx context.Context, participants []model.Participant, groupSize int, seed int64) (model.Plan, error)
}

// Results stores the outcome of a job.
type Results interface {
	Complete(ctx context.Context, plan model.Plan) error
	Fail(ctx context.Context, planID string, cause error) error
}

// StrengthRecorder keeps the latest strength seen for each participant.
type StrengthRecorder interface {
	Upsert(ctx context.Context, participantID string, strength float64) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in hand, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for planning jobs.
type InMemoryWorker struct {
	queue      Queue
	planner    Planner
	results    Results
	strengths  StrengthRecorder
	name       string
	jobTimeout time.Duration
	active     *atomic.Int64

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options. A nil
// strengths recorder skips strength tracking.
func NewInMemoryWorker(queue Queue, planner Planner, results Results, strengths StrengthRecorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		planner:   planner,
		results:   results,
		strengths: strengths,
		name:      "worker",
		active:    &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing plan job",
					logger.String("plan_id", job.PlanID), logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process plans a single job and stores the outcome.
func (w *InMemoryWorker) process(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	planCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	plan, err := w.planner.PlanSeeded(planCtx, job.Participants, job.GroupSize, job.Seed)
	if err != nil {
		metrics.RecordPlanFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "planning_error")
		if ferr := w.results.Fail(ctx, job.PlanID, err); ferr != nil {
			return fmt.Errorf("record failure of plan %s: %w", job.PlanID, ferr)
		}
		return fmt.Errorf("plan %s: %w", job.PlanID, err)
	}
	plan.ID = job.PlanID

	if err := w.results.Complete(ctx, plan); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store plan %s: %w", job.PlanID, err)
	}

	if w.strengths != nil {
		for _, g := range plan.Groups {
			for _, m := range g.Members {
				if err := w.strengths.Upsert(ctx, m.ID, m.Strength); err != nil {
					metrics.RecordErrorByComponent("worker", "strength_error")
					w.logger.Warn(ctx, "strength update failed",
						logger.String("participant_id", m.ID), logger.Error(err))
				}
			}
		}
	}

	byes := 0
	for _, m := range plan.Matchups {
		if m.IsBye() {
			byes++
		}
	}
	metrics.RecordPlanCompleted(
		float64(time.Since(job.EnqueuedAt).Milliseconds()),
		plan.Stats.Iterations, plan.Stats.Swaps,
		len(plan.Groups), plan.Stats.Bench, byes, plan.Stats.FinalStdDev,
	)
	w.logger.Debug(ctx, "plan completed",
		logger.String("plan_id", plan.ID),
		logger.Int("groups", len(plan.Groups)),
		logger.Int("swaps", plan.Stats.Swaps),
		logger.Bool("ready", plan.Ready()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64

	logger logger.Logger
}

// NewPool creates a new worker pool. A workerCount below one selects a
// multiple of the CPU count.
func NewPool(workerCount int, queue Queue, planner Planner, results Results, strengths StrengthRecorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(queue, planner, results, strengths, wopts...)
		w.active = &pool.active
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Active returns the number of workers currently planning.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}

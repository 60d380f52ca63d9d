package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
)

// Errors reported by Run once the whole batch has been processed.
var (
	ErrInvalidConfig = errors.New("invalid load test config")
	ErrViolations    = errors.New("plans failed verification")
	ErrIncomplete    = errors.New("not every roster was planned")
)

// outcome is the result of one roster's round trip.
type outcome struct {
	index     int
	accepted  bool
	duplicate bool
	rejected  bool
	completed bool
	failed    bool
	timedOut  bool
	violation error
}

// Run generates rosters, submits them concurrently, waits for every plan and
// verifies it. The returned stats are filled in even when an error is
// returned.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadtest")

	if err := cfg.validate(); err != nil {
		return stats, err
	}

	log.Info(ctx, "starting matchday load test",
		logger.String("url", cfg.BaseURL),
		logger.Int("rosters", cfg.Rosters),
		logger.Int("roster_size", cfg.RosterSize),
		logger.Int("group_size", cfg.GroupSize),
		logger.Int("workers", cfg.Workers),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	reqs, err := NewGenerator(cfg.Seed).Requests(cfg)
	if err != nil {
		return stats, fmt.Errorf("roster generation failed: %w", err)
	}
	stats.RostersGenerated = len(reqs)

	if cfg.OutputFile != "" {
		if err := saveRosters(cfg.OutputFile, reqs); err != nil {
			log.Warn(ctx, "failed to save rosters", logger.Error(err))
		}
	}

	jobs := make(chan int)
	results := make(chan outcome, len(reqs))
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- roundTrip(ctx, client, cfg, i, reqs[i], log)
			}
		}()
	}

feed:
	for i := range reqs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	for r := range results {
		stats.Submitted++
		switch {
		case r.rejected:
			stats.Rejected++
			continue
		case r.duplicate:
			stats.Duplicate++
		case r.accepted:
			stats.Accepted++
		}
		switch {
		case r.timedOut:
			stats.TimedOut++
		case r.failed:
			stats.Failed++
		case r.completed:
			stats.Completed++
			if r.violation != nil {
				stats.Violations++
				log.Error(ctx, "plan failed verification",
					logger.Int("roster", r.index), logger.Error(r.violation))
			} else {
				stats.Verified++
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "load test finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("completed", stats.Completed),
		logger.Int("failed", stats.Failed),
		logger.Int("timed_out", stats.TimedOut),
		logger.Int("verified", stats.Verified),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
	)

	switch {
	case stats.Violations > 0:
		return stats, fmt.Errorf("%w: %d of %d", ErrViolations, stats.Violations, stats.Completed)
	case stats.Verified < stats.RostersGenerated:
		return stats, fmt.Errorf("%w: %d of %d verified", ErrIncomplete, stats.Verified, stats.RostersGenerated)
	}
	return stats, nil
}

func roundTrip(ctx context.Context, client *Client, cfg *Config, i int, req types.PlanRequest, log logger.Logger) outcome { //nolint:gocritic // hugeParam: read-only
	out := outcome{index: i}

	sub, _, err := client.Submit(ctx, req)
	if err != nil {
		log.Warn(ctx, "submit failed", logger.Int("roster", i), logger.Error(err))
		out.rejected = true
		return out
	}
	out.accepted = !sub.Duplicate
	out.duplicate = sub.Duplicate

	waitCtx, cancel := context.WithTimeout(ctx, cfg.PollTimeout)
	defer cancel()
	rec, err := client.WaitPlan(waitCtx, sub.PlanID, cfg.PollInterval)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		out.timedOut = true
		return out
	case err != nil:
		log.Warn(ctx, "plan lookup failed", logger.String("plan_id", sub.PlanID), logger.Error(err))
		out.failed = true
		return out
	case rec.Status == types.PlanFailed || rec.Plan == nil:
		log.Warn(ctx, "plan failed", logger.String("plan_id", sub.PlanID), logger.String("error", rec.Error))
		out.failed = true
		return out
	}

	out.completed = true
	out.violation = Verify(req, *rec.Plan)
	if cfg.Verbose {
		log.Info(ctx, "plan done",
			logger.String("plan_id", sub.PlanID),
			logger.Int("groups", len(rec.Plan.Groups)),
			logger.Int("matchups", len(rec.Plan.Matchups)),
			logger.Float64("std_dev", rec.Plan.Stats.FinalStdDev),
			logger.Bool("ready", rec.Plan.Ready()),
		)
	}
	return out
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	case c.Rosters < 1, c.RosterSize < 1, c.GroupSize < 1, c.Workers < 1:
		return fmt.Errorf("%w: rosters, roster-size, group-size and workers must be positive", ErrInvalidConfig)
	case c.InactivePct < 0 || c.InactivePct > percentageMultiplier:
		return fmt.Errorf("%w: inactive must be within 0-100", ErrInvalidConfig)
	case c.Timeout <= 0, c.PollInterval <= 0, c.PollTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}

// saveRosters writes the generated requests as an indented JSON array.
func saveRosters(path string, reqs []types.PlanRequest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rosters: %w", err)
	}
	if err := os.WriteFile(path, raw, filePermission); err != nil {
		return fmt.Errorf("write rosters: %w", err)
	}
	return nil
}

// Package planner runs the full team planning pipeline: score, draft,
// balance, finalize and pair.
//
// A Planner holds only immutable configuration plus a call counter, so one
// instance can serve concurrent callers. Every Plan call draws from its own
// random source derived from the base seed and the call number; a Planner
// built with a fixed seed therefore replays the same sequence of plans.
package planner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/matchday/internal/domain/balance"
	"github.com/okian/matchday/internal/domain/draft"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/pairing"
	"github.com/okian/matchday/internal/domain/roster"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Planner turns rosters into plans.
type Planner struct {
	model       *scoring.Model
	seed        int64
	balanceOpts []balance.Option
	groupCount  int
	now         func() time.Time

	calls atomic.Uint64
}

// New creates a Planner. Without options it scores with the default weights,
// uses the default optimizer settings and seed 1.
func New(opts ...Option) *Planner {
	p := &Planner{
		model: scoring.NewModel(),
		seed:  defaultSeed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanTeams plans a roster with the given weights and default settings.
// A nil weights map selects the default weighting.
func PlanTeams(participants []model.Participant, groupSize int, weights scoring.Weights) (model.Plan, error) {
	return New(WithWeights(weights)).Plan(context.Background(), participants, groupSize)
}

// Plan splits the active participants into balanced groups of groupSize
// starters and pairs the groups into matchups. The input is not modified.
//
// Fewer than 2*groupSize active participants yield two under-filled groups;
// no active participants yield two empty groups and no matchups. The only
// errors are ErrInvalidGroupSize and ErrCancelled.
func (p *Planner) Plan(ctx context.Context, participants []model.Participant, groupSize int) (model.Plan, error) {
	return p.plan(ctx, participants, groupSize, deriveSeed(p.seed, p.calls.Add(1)-1))
}

// PlanSeeded is Plan with an explicit seed. The same seed and roster always
// give the same plan. Seed 0 behaves like Plan.
func (p *Planner) PlanSeeded(ctx context.Context, participants []model.Participant, groupSize int, seed int64) (model.Plan, error) {
	if seed == 0 {
		return p.Plan(ctx, participants, groupSize)
	}
	return p.plan(ctx, participants, groupSize, deriveSeed(seed, 0))
}

// Weights returns the weights the planner scores with.
func (p *Planner) Weights() scoring.Weights {
	return p.model.Weights()
}

func (p *Planner) plan(ctx context.Context, participants []model.Participant, groupSize int, seed int64) (model.Plan, error) {
	if groupSize < 1 {
		return model.Plan{}, fmt.Errorf("%w: %d", ErrInvalidGroupSize, groupSize)
	}
	if err := ctx.Err(); err != nil {
		return model.Plan{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	rated := p.model.Annotate(participants)
	active := len(model.ActiveOnly(rated))

	draftOpts := []draft.Option{draft.WithRand(newRand(seed))}
	if p.groupCount > 0 {
		draftOpts = append(draftOpts, draft.WithGroupCount(p.groupCount))
	}
	groups := draft.Partition(rated, groupSize, draftOpts...)

	if err := ctx.Err(); err != nil {
		return model.Plan{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	res := balance.Optimize(groups, p.balanceOpts...)
	final := roster.Finalize(res.Groups, groupSize)

	matchups := []model.Matchup{}
	if active > 0 {
		matchups = pairing.Pair(final)
	}

	bench := 0
	for _, g := range final {
		bench += len(g.Members) - g.StarterCount()
	}

	return model.Plan{
		GroupSize: groupSize,
		Groups:    final,
		Matchups:  matchups,
		Stats: model.PlanStats{
			Participants:  len(participants),
			Active:        active,
			Bench:         bench,
			InitialStdDev: res.InitialStdDev,
			FinalStdDev:   res.FinalStdDev,
			Iterations:    res.Iterations,
			Swaps:         res.Swaps,
		},
		CreatedAt: p.now(),
	}, nil
}

package planner

import (
	"time"

	"github.com/okian/matchday/internal/domain/balance"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithModel sets the scoring model. A nil model is ignored.
func WithModel(m *scoring.Model) Option {
	return func(p *Planner) {
		if m != nil {
			p.model = m
		}
	}
}

// WithWeights builds a scoring model from weights and the default attribute
// value. A nil map keeps the default weights; an empty map rates everyone
// the same.
func WithWeights(w scoring.Weights) Option {
	return func(p *Planner) {
		if w != nil {
			p.model = scoring.NewModel(scoring.WithWeights(w))
		}
	}
}

// WithSeed sets the base seed from which every Plan call derives its own
// random source. Seed 0 selects the default seed.
func WithSeed(seed int64) Option {
	return func(p *Planner) {
		if seed == 0 {
			seed = defaultSeed
		}
		p.seed = seed
	}
}

// WithBalance appends optimizer options.
func WithBalance(opts ...balance.Option) Option {
	return func(p *Planner) {
		p.balanceOpts = append(p.balanceOpts, opts...)
	}
}

// WithGroupCount forces the number of groups. Values below 1 are ignored.
// An odd count leaves one group with a bye.
func WithGroupCount(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.groupCount = n
		}
	}
}

// WithClock sets the time source used for Plan.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

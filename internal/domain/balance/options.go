package balance

import "fmt"

// Default optimizer settings.
const (
	DefaultMaxIterations = 30
	DefaultThreshold     = 0.05
)

// Mode selects how a swap is chosen within one iteration.
type Mode int

const (
	// FirstImprovement keeps the first swap, in member order, that lowers
	// the standard deviation.
	FirstImprovement Mode = iota
	// BestImprovement tries every swap of the tier and keeps the one that
	// lowers the standard deviation the most.
	BestImprovement
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case FirstImprovement:
		return "first"
	case BestImprovement:
		return "best"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "first" or "best". An empty string selects FirstImprovement.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "first":
		return FirstImprovement, nil
	case "best":
		return BestImprovement, nil
	default:
		return FirstImprovement, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Option applies a configuration option to an Optimize call.
type Option func(*settings)

type settings struct {
	maxIterations int
	threshold     float64
	mode          Mode
}

// WithMaxIterations caps the number of improvement rounds.
func WithMaxIterations(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithThreshold sets the standard deviation under which the groups count as
// balanced.
func WithThreshold(th float64) Option {
	return func(s *settings) {
		if th >= 0 {
			s.threshold = th
		}
	}
}

// WithMode selects first- or best-improvement swap search.
func WithMode(m Mode) Option {
	return func(s *settings) {
		s.mode = m
	}
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   a YAML file and the environment on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/matchday/internal/domain/balance"
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory plan queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of planning workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many request IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// PlanStoreSize sets how many plans are kept before the oldest is evicted.
	PlanStoreSize int `koanf:"plan_store_size"`

	// MaxRosterSize caps the participants accepted in one request.
	MaxRosterSize int `koanf:"max_roster_size"`

	// MaxStrengthLimit caps GET /strengths?limit.
	MaxStrengthLimit int `koanf:"max_strength_limit"`

	// MaxAttributeValue is the highest accepted attribute rating.
	MaxAttributeValue float64 `koanf:"max_attribute_value"`

	// MaxBodyBytes caps HTTP request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// GroupSize is the number of starters per group used by tools when
	// none is given.
	GroupSize int `koanf:"group_size"`

	// AttributeWeights maps attribute names to scoring weights.
	AttributeWeights map[string]float64 `koanf:"attribute_weights"`

	// DefaultAttributeValue is assumed for attributes a participant lacks.
	DefaultAttributeValue float64 `koanf:"default_attribute_value"`

	// MaxIterations bounds the balance optimizer.
	MaxIterations int `koanf:"max_iterations"`

	// ConvergenceThreshold stops the optimizer once the standard deviation
	// of group strengths falls below it.
	ConvergenceThreshold float64 `koanf:"convergence_threshold"`

	// SwapMode selects the optimizer search: first or best.
	SwapMode string `koanf:"swap_mode"`

	// Seed is the planner's base seed. Zero selects the default seed.
	Seed int64 `koanf:"seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            50_000,
		PlanStoreSize:         10_000,
		MaxRosterSize:         5_000,
		MaxStrengthLimit:      100,
		MaxAttributeValue:     10,
		MaxBodyBytes:          4 << 20,
		GroupSize:             5,
		AttributeWeights:      scoring.DefaultWeights(),
		DefaultAttributeValue: scoring.DefaultAttributeValue,
		MaxIterations:         balance.DefaultMaxIterations,
		ConvergenceThreshold:  balance.DefaultThreshold,
		SwapMode:              balance.FirstImprovement.String(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"queue_size", c.QueueSize},
		{"worker_count", c.WorkerCount},
		{"dedupe_size", c.DedupeSize},
		{"plan_store_size", c.PlanStoreSize},
		{"max_roster_size", c.MaxRosterSize},
		{"max_strength_limit", c.MaxStrengthLimit},
		{"group_size", c.GroupSize},
		{"max_iterations", c.MaxIterations},
	}

	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.MaxBodyBytes < 1:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.MaxAttributeValue <= 0:
		return fmt.Errorf("%w: max_attribute_value must be positive", ErrInvalidConfig)
	case c.DefaultAttributeValue < 0:
		return fmt.Errorf("%w: default_attribute_value must not be negative", ErrInvalidConfig)
	case c.ConvergenceThreshold < 0:
		return fmt.Errorf("%w: convergence_threshold must not be negative", ErrInvalidConfig)
	}
	for _, p := range positive {
		if p.value < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	for attr, w := range c.AttributeWeights {
		if w < 0 {
			return fmt.Errorf("%w: weight of %q must not be negative", ErrInvalidConfig, attr)
		}
	}
	if _, err := balance.ParseMode(c.SwapMode); err != nil {
		return fmt.Errorf("%w: swap_mode: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PlannerOptions translates the scoring and optimizer settings into
// planner options. An unknown swap mode is reported as ErrInvalidConfig.
func (c *Config) PlannerOptions() ([]planner.Option, error) {
	mode, err := balance.ParseMode(c.SwapMode)
	if err != nil {
		return nil, fmt.Errorf("%w: swap_mode: %w", ErrInvalidConfig, err)
	}
	return []planner.Option{
		planner.WithModel(scoring.NewModel(
			scoring.WithWeights(c.AttributeWeights),
			scoring.WithDefaultAttributeValue(c.DefaultAttributeValue),
		)),
		planner.WithSeed(c.Seed),
		planner.WithBalance(
			balance.WithMaxIterations(c.MaxIterations),
			balance.WithThreshold(c.ConvergenceThreshold),
			balance.WithMode(mode),
		),
	}, nil
}

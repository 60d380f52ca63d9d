// Package scoring turns a participant's multi-attribute rating into a single
// strength value.
package scoring

import (
	"maps"
	"slices"

	"github.com/okian/matchday/internal/domain/model"
)

// DefaultAttributeValue is the midpoint of the 1-10 rating scale, used for
// attributes a participant was never rated on.
const DefaultAttributeValue = 5.0

// Weights maps attribute names to non-negative coefficients.
type Weights map[string]float64

// DefaultWeights returns the standard seven-attribute weighting. A fresh map
// is returned on every call.
func DefaultWeights() Weights {
	return Weights{
		"shooting":  0.20,
		"passing":   0.15,
		"dribbling": 0.15,
		"defense":   0.15,
		"speed":     0.10,
		"stamina":   0.10,
		"teamwork":  0.15,
	}
}

// Sum returns the total of all coefficients.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithWeights sets the attribute weights. Negative coefficients are dropped.
func WithWeights(weights Weights) Option {
	return func(m *Model) {
		// Copy the weights map to avoid external modifications
		m.weights = make(Weights, len(weights))
		for attr, weight := range weights {
			if weight >= 0 {
				m.weights[attr] = weight
			}
		}
	}
}

// WithDefaultAttributeValue sets the value assumed for unrated attributes.
func WithDefaultAttributeValue(v float64) Option {
	return func(m *Model) {
		m.defaultValue = v
	}
}

// Model computes participant strength as a weighted attribute sum.
// A Model is immutable after construction and safe for concurrent use.
type Model struct {
	weights      Weights
	attrs        []string // sorted keys of weights; fixes summation order
	defaultValue float64
}

// NewModel creates a scoring model. Without options it uses DefaultWeights
// and DefaultAttributeValue.
func NewModel(opts ...Option) *Model {
	m := &Model{
		weights:      DefaultWeights(),
		defaultValue: DefaultAttributeValue,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}
	m.attrs = slices.Sorted(maps.Keys(m.weights))

	return m
}

// Strength returns sum(weight[attr] * value[attr]) over the weighted
// attributes. Attributes the participant lacks use the default value;
// attributes without a weight are ignored.
func (m *Model) Strength(p model.Participant) float64 {
	strength := 0.0
	for _, attr := range m.attrs {
		weight := m.weights[attr]
		v, ok := p.Attributes[attr]
		if !ok {
			v = m.defaultValue
		}
		strength += weight * v
	}
	return strength
}

// Annotate returns a copy of ps with Strength filled in. The input slice is
// not modified.
func (m *Model) Annotate(ps []model.Participant) []model.Participant {
	out := make([]model.Participant, len(ps))
	for i, p := range ps {
		p.Strength = m.Strength(p)
		out[i] = p
	}
	return out
}

// Weights returns a copy of the model's weights.
func (m *Model) Weights() Weights {
	return maps.Clone(m.weights)
}

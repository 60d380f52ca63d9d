// Package model contains domain models passed between layers.
package model

// Participant is a rated roster entry. Attributes hold the raw skill ratings
// (1-10 scale in the default configuration); Strength is filled in once per
// planning run by the scoring model and must not change while a plan is built.
type Participant struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name,omitempty" yaml:"name"`
	Attributes map[string]float64 `json:"attributes,omitempty" yaml:"attributes"`
	Active     bool               `json:"active" yaml:"active"`
	Strength   float64            `json:"strength" yaml:"-"`
}

// Member is a participant placed in a group.
type Member struct {
	Participant
	IsBench bool `json:"is_bench"`
}

// ActiveOnly returns the active participants in their original order.
func ActiveOnly(ps []Participant) []Participant {
	out := make([]Participant, 0, len(ps))
	for _, p := range ps {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

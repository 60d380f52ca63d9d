package model

// GroupStrength weighting between the starter and bench averages.
const (
	StarterShare = 0.9
	BenchShare   = 0.1
)

// Group is a team. Its identity is Index, not its membership: the optimizer
// moves members between groups while every group keeps its slot.
type Group struct {
	Index   int      `json:"index"`
	Members []Member `json:"members"`
}

// Starters returns the non-bench members in member order.
func (g Group) Starters() []Member {
	out := make([]Member, 0, len(g.Members))
	for _, m := range g.Members {
		if !m.IsBench {
			out = append(out, m)
		}
	}
	return out
}

// Bench returns the bench members in member order.
func (g Group) Bench() []Member {
	var out []Member
	for _, m := range g.Members {
		if m.IsBench {
			out = append(out, m)
		}
	}
	return out
}

// StarterCount returns the number of non-bench members.
func (g Group) StarterCount() int {
	n := 0
	for _, m := range g.Members {
		if !m.IsBench {
			n++
		}
	}
	return n
}

// RawSum returns the plain sum of all member strengths, bench included.
func (g Group) RawSum() float64 {
	sum := 0.0
	for _, m := range g.Members {
		sum += m.Strength
	}
	return sum
}

// Strength returns the weighted group strength:
// avg(starters)*StarterShare + avg(bench)*BenchShare. An empty side adds 0.
func (g Group) Strength() float64 {
	var (
		starterSum, benchSum float64
		starters, bench      int
	)
	for _, m := range g.Members {
		if m.IsBench {
			benchSum += m.Strength
			bench++
			continue
		}
		starterSum += m.Strength
		starters++
	}

	strength := 0.0
	if starters > 0 {
		strength += starterSum / float64(starters) * StarterShare
	}
	if bench > 0 {
		strength += benchSum / float64(bench) * BenchShare
	}
	return strength
}

// Full reports whether the group has groupSize starters.
func (g Group) Full(groupSize int) bool {
	return g.StarterCount() == groupSize
}

// Clone returns a copy whose member slice does not alias g.
func (g Group) Clone() Group {
	members := make([]Member, len(g.Members))
	copy(members, g.Members)
	return Group{Index: g.Index, Members: members}
}

// CloneGroups deep-copies a group list.
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

// Strengths returns the GroupStrength of every group, by position.
func Strengths(groups []Group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Strength()
	}
	return out
}

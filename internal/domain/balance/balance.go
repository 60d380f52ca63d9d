// Package balance evens out group strengths by swapping members between the
// strongest and the weakest group.
//
// The search is a bounded hill climb: each round looks only at the two
// extreme groups, tries starter-for-starter swaps first and bench-for-bench
// swaps second, and accepts a swap only if it strictly lowers the population
// standard deviation of group strengths. It stops at the iteration cap, when
// the deviation drops under the threshold, or when no swap helps. The result
// is a local optimum reachable from the draft, not a global one.
package balance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/okian/matchday/internal/domain/model"
)

// Result holds the optimized groups and search diagnostics.
type Result struct {
	Groups        []model.Group
	Iterations    int
	Swaps         int
	InitialStdDev float64
	FinalStdDev   float64
}

// StdDev returns the population standard deviation of group strengths.
func StdDev(groups []model.Group) float64 {
	if len(groups) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(model.Strengths(groups), nil)
	return std
}

// Optimize improves the balance of a copy of groups. The input is never
// modified; callers should use Result.Groups.
func Optimize(groups []model.Group, opts ...Option) Result {
	s := settings{
		maxIterations: DefaultMaxIterations,
		threshold:     DefaultThreshold,
		mode:          FirstImprovement,
	}
	for _, opt := range opts {
		opt(&s)
	}

	work := model.CloneGroups(groups)
	res := Result{Groups: work, InitialStdDev: StdDev(work)}
	current := res.InitialStdDev

	for res.Iterations < s.maxIterations {
		if current < s.threshold {
			break
		}
		strong, weak := extremes(work)
		if strong == weak {
			break
		}
		res.Iterations++

		improved, std := trySwaps(work, strong, weak, false, current, s.mode)
		if !improved {
			improved, std = trySwaps(work, strong, weak, true, current, s.mode)
		}
		if !improved {
			break
		}
		res.Swaps++
		current = std
	}

	res.FinalStdDev = current
	return res
}

// extremes returns the indexes of the first strongest and the first weakest
// group.
func extremes(groups []model.Group) (strong, weak int) {
	if len(groups) == 0 {
		return 0, 0
	}
	hi, lo := groups[0].Strength(), groups[0].Strength()
	for i := 1; i < len(groups); i++ {
		v := groups[i].Strength()
		if v > hi {
			hi, strong = v, i
		}
		if v < lo {
			lo, weak = v, i
		}
	}
	return strong, weak
}

// trySwaps searches swaps between members of one tier (starters or bench) of
// groups a and b. On success the chosen swap is left applied and the new
// standard deviation is returned; otherwise groups are unchanged.
func trySwaps(groups []model.Group, a, b int, bench bool, current float64, mode Mode) (bool, float64) {
	ia := tierIndexes(groups[a], bench)
	ib := tierIndexes(groups[b], bench)

	bestI, bestJ, best := -1, -1, current
	for _, i := range ia {
		for _, j := range ib {
			swap(groups, a, i, b, j)
			std := StdDev(groups)
			if std < best {
				if mode == FirstImprovement {
					return true, std
				}
				bestI, bestJ, best = i, j, std
			}
			swap(groups, a, i, b, j)
		}
	}

	if bestI < 0 {
		return false, current
	}
	swap(groups, a, bestI, b, bestJ)
	return true, best
}

// swap exchanges the participants at two member slots. The bench flag stays
// with the slot, so tier sizes never change.
func swap(groups []model.Group, a, i, b, j int) {
	ma, mb := &groups[a].Members[i], &groups[b].Members[j]
	ma.Participant, mb.Participant = mb.Participant, ma.Participant
}

func tierIndexes(g model.Group, bench bool) []int {
	out := make([]int, 0, len(g.Members))
	for i, m := range g.Members {
		if m.IsBench == bench {
			out = append(out, i)
		}
	}
	return out
}

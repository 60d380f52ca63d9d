// Package pairing matches groups into head-to-head contests with as little
// strength mismatch as it can find.
//
// Four groups are paired exhaustively: there are only three ways to split
// them into two pairs. Any other count falls back to a nearest-neighbour
// greedy pass over the groups sorted by strength, which is not guaranteed
// optimal for six or more groups.
package pairing

import (
	"math"
	"slices"

	"github.com/okian/matchday/internal/domain/model"
)

// exhaustiveCount is the group count paired by full enumeration.
const exhaustiveCount = 4

// fourWay lists the three ways of splitting positions 0..3 into two pairs.
var fourWay = [3][2][2]int{
	{{0, 1}, {2, 3}},
	{{0, 2}, {1, 3}},
	{{0, 3}, {1, 2}},
}

// Pair returns the matchups for groups. Every group appears in exactly one
// matchup; with an odd count the group left over gets a Bye matchup.
// Matchups reference groups by Group.Index.
func Pair(groups []model.Group) []model.Matchup {
	if len(groups) == exhaustiveCount {
		return pairFour(groups)
	}
	return pairGreedy(groups)
}

// Mismatch returns the total strength difference over matchups. Byes add 0.
func Mismatch(matchups []model.Matchup) float64 {
	total := 0.0
	for _, m := range matchups {
		total += m.Mismatch
	}
	return total
}

func pairFour(groups []model.Group) []model.Matchup {
	strengths := model.Strengths(groups)

	best, bestCost := 0, math.Inf(1)
	for i, option := range fourWay {
		cost := 0.0
		for _, p := range option {
			cost += math.Abs(strengths[p[0]] - strengths[p[1]])
		}
		if cost < bestCost {
			best, bestCost = i, cost
		}
	}

	out := make([]model.Matchup, 0, 2)
	for _, p := range fourWay[best] {
		out = append(out, model.Matchup{
			Home:     groups[p[0]].Index,
			Away:     groups[p[1]].Index,
			Mismatch: math.Abs(strengths[p[0]] - strengths[p[1]]),
		})
	}
	return out
}

type rated struct {
	index    int
	strength float64
}

func pairGreedy(groups []model.Group) []model.Matchup {
	remaining := make([]rated, len(groups))
	for i, g := range groups {
		remaining[i] = rated{index: g.Index, strength: g.Strength()}
	}
	slices.SortStableFunc(remaining, func(a, b rated) int {
		switch {
		case a.strength > b.strength:
			return -1
		case a.strength < b.strength:
			return 1
		default:
			return 0
		}
	})

	out := make([]model.Matchup, 0, (len(groups)+1)/2)
	for len(remaining) > 1 {
		home := remaining[0]
		remaining = remaining[1:]

		bestIdx, bestD := 0, math.Inf(1)
		for i, r := range remaining {
			if d := math.Abs(home.strength - r.strength); d < bestD {
				bestIdx, bestD = i, d
			}
		}
		away := remaining[bestIdx]
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)

		out = append(out, model.Matchup{Home: home.index, Away: away.index, Mismatch: bestD})
	}
	if len(remaining) == 1 {
		out = append(out, model.Matchup{Home: remaining[0].index, Away: model.Bye})
	}
	return out
}

package draft

import (
	"slices"

	"github.com/okian/matchday/internal/domain/model"
)

// minGroups is the smallest group count Partition produces on its own.
const minGroups = 2

// GroupCount returns the number of groups for active participants at the
// given group size: floor(active/groupSize) rounded down to an even number,
// never less than two.
func GroupCount(active, groupSize int) int {
	if groupSize < 1 {
		groupSize = 1
	}
	n := active / groupSize
	if n%2 != 0 {
		n--
	}
	return max(minGroups, n)
}

// Partition splits the active participants into groups of groupSize
// starters, placing any overflow on the bench. Participants must already
// carry their Strength. The input slice is not modified.
//
// Groups are returned in index order. With no active participants the
// result is GroupCount(0, groupSize) empty groups.
func Partition(participants []model.Participant, groupSize int, opts ...Option) []model.Group {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		WithSeed(defaultSeed)(&s)
	}
	if groupSize < 1 {
		groupSize = 1
	}

	pool := model.ActiveOnly(participants)
	numGroups := s.groupCount
	if numGroups == 0 {
		numGroups = GroupCount(len(pool), groupSize)
	}

	perGroup := min(groupSize, len(pool))
	groups := make([]model.Group, numGroups)
	for i := range groups {
		groups[i] = model.Group{Index: i, Members: make([]model.Member, 0, perGroup)}
	}
	if len(pool) == 0 {
		return groups
	}

	// Shuffle first so equal strengths land in a random order, then a stable
	// sort keeps that order among ties.
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	slices.SortStableFunc(pool, func(a, b model.Participant) int {
		switch {
		case a.Strength > b.Strength:
			return -1
		case a.Strength < b.Strength:
			return 1
		default:
			return 0
		}
	})

	// groupSize may be far larger than the pool; compare by division so the
	// product never overflows.
	starterSlots := len(pool)
	if groupSize <= len(pool)/numGroups {
		starterSlots = numGroups * groupSize
	}
	for i := 0; i < starterSlots; i++ {
		g := snakeSlot(i, numGroups)
		groups[g].Members = append(groups[g].Members, model.Member{Participant: pool[i]})
	}

	for _, p := range pool[starterSlots:] {
		g := weakestBySum(groups)
		groups[g].Members = append(groups[g].Members, model.Member{Participant: p, IsBench: true})
	}

	return groups
}

// snakeSlot returns the group receiving draft pick i: forward on even
// rounds, reversed on odd rounds.
func snakeSlot(pick, numGroups int) int {
	round, pos := pick/numGroups, pick%numGroups
	if round%2 == 0 {
		return pos
	}
	return numGroups - 1 - pos
}

// weakestBySum returns the index of the group with the lowest raw strength
// sum; the lowest index wins ties.
func weakestBySum(groups []model.Group) int {
	best, bestSum := 0, groups[0].RawSum()
	for i := 1; i < len(groups); i++ {
		if sum := groups[i].RawSum(); sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}

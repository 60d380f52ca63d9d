// Package roster settles which members of each group start and which sit on
// the bench once the optimizer is done moving people around.
package roster

import (
	"slices"

	"github.com/okian/matchday/internal/domain/model"
)

// Finalize returns new groups whose members are ordered by strength,
// strongest first, with the top groupSize marked as starters and the rest
// as bench. Ties keep their current member order, so calling Finalize on
// its own output changes nothing. The input is not modified.
func Finalize(groups []model.Group, groupSize int) []model.Group {
	if groupSize < 1 {
		groupSize = 1
	}
	out := model.CloneGroups(groups)
	for gi := range out {
		members := out[gi].Members
		slices.SortStableFunc(members, byStrengthDesc)
		for i := range members {
			members[i].IsBench = i >= groupSize
		}
	}
	return out
}

func byStrengthDesc(a, b model.Member) int {
	switch {
	case a.Strength > b.Strength:
		return -1
	case a.Strength < b.Strength:
		return 1
	default:
		return 0
	}
}

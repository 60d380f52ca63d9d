package loadtest

import (
	"errors"
	"fmt"

	"github.com/okian/matchday/internal/domain/draft"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/types"
)

// Verify checks a finished plan against the request it was built from and
// returns every violation found, joined.
func Verify(req types.PlanRequest, plan model.Plan) error { //nolint:gocritic // hugeParam: read-only
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	active := make(map[string]bool, len(req.Participants))
	for _, p := range req.Participants {
		active[p.ID] = p.Active
	}
	activeCount := len(model.ActiveOnly(req.Participants))
	gs := req.GroupSize

	if want := draft.GroupCount(activeCount, gs); len(plan.Groups) != want {
		fail("group count %d, want %d", len(plan.Groups), want)
	}
	if plan.Stats.Active != activeCount {
		fail("stats report %d active, want %d", plan.Stats.Active, activeCount)
	}
	if plan.Stats.FinalStdDev > plan.Stats.InitialStdDev {
		fail("balance got worse: %.4f -> %.4f", plan.Stats.InitialStdDev, plan.Stats.FinalStdDev)
	}

	placed := make(map[string]int, activeCount)
	for _, g := range plan.Groups {
		if want := min(gs, len(g.Members)); g.StarterCount() != want {
			fail("group %d has %d starters, want %d", g.Index, g.StarterCount(), want)
		}
		if activeCount >= 2*gs && !g.Full(gs) {
			fail("group %d is not full", g.Index)
		}
		for _, m := range g.Members {
			isActive, known := active[m.ID]
			switch {
			case !known:
				fail("group %d holds unknown participant %q", g.Index, m.ID)
			case !isActive:
				fail("group %d holds inactive participant %q", g.Index, m.ID)
			}
			placed[m.ID]++
		}
	}
	for _, p := range req.Participants {
		if p.Active && placed[p.ID] != 1 {
			fail("participant %q placed %d times", p.ID, placed[p.ID])
		}
	}

	errs = append(errs, verifyMatchups(plan, activeCount)...)
	return errors.Join(errs...)
}

func verifyMatchups(plan model.Plan, activeCount int) []error { //nolint:gocritic // hugeParam: read-only
	if activeCount == 0 {
		if len(plan.Matchups) != 0 {
			return []error{fmt.Errorf("%d matchups without active participants", len(plan.Matchups))}
		}
		return nil
	}

	var errs []error
	seen := make(map[int]int, len(plan.Groups))
	byes := 0
	for _, m := range plan.Matchups {
		seen[m.Home]++
		if m.IsBye() {
			byes++
			continue
		}
		seen[m.Away]++
	}
	for _, g := range plan.Groups {
		if seen[g.Index] != 1 {
			errs = append(errs, fmt.Errorf("group %d appears in %d matchups", g.Index, seen[g.Index]))
		}
	}
	if want := len(plan.Groups) % 2; byes != want {
		errs = append(errs, fmt.Errorf("%d byes, want %d", byes, want))
	}
	return errs
}

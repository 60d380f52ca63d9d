package planner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/balance"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/okian/matchday/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// roster returns n active participants with varied ratings.
func roster(n int) []model.Participant {
	out := make([]model.Participant, n)
	for i := range out {
		v := float64(1 + (i*7)%10)
		out[i] = model.Participant{
			ID:     fmt.Sprintf("p%02d", i),
			Name:   fmt.Sprintf("Player %d", i),
			Active: true,
			Attributes: map[string]float64{
				"shooting": v,
				"passing":  11 - v,
				"speed":    float64(1 + i%10),
			},
		}
	}
	return out
}

func uniform(n int) []model.Participant {
	out := make([]model.Participant, n)
	for i := range out {
		out[i] = model.Participant{ID: fmt.Sprintf("u%02d", i), Active: true}
	}
	return out
}

// seen counts how often each participant ID appears across groups.
func seen(plan model.Plan) map[string]int {
	out := make(map[string]int)
	for _, g := range plan.Groups {
		for _, m := range g.Members {
			out[m.ID]++
		}
	}
	return out
}

func TestPlan_EvenSplit(t *testing.T) {
	Convey("Given 12 equally rated participants and groups of 3", t, func() {
		plan, err := planner.PlanTeams(uniform(12), 3, nil)
		So(err, ShouldBeNil)

		Convey("Then four full groups without bench are formed", func() {
			So(len(plan.Groups), ShouldEqual, 4)
			for _, g := range plan.Groups {
				So(g.StarterCount(), ShouldEqual, 3)
				So(g.Bench(), ShouldBeEmpty)
			}
			So(plan.Stats.Bench, ShouldEqual, 0)
		})

		Convey("And two matchups pair them", func() {
			So(len(plan.Matchups), ShouldEqual, 2)
			So(plan.Ready(), ShouldBeTrue)
		})

		Convey("And every group has the same strength", func() {
			first := plan.Groups[0].Strength()
			for _, g := range plan.Groups {
				So(g.Strength(), ShouldAlmostEqual, first, 1e-9)
			}
			So(plan.Stats.FinalStdDev, ShouldAlmostEqual, 0, 1e-9)
		})
	})
}

func TestPlan_Overflow(t *testing.T) {
	Convey("Given 13 participants and groups of 3", t, func() {
		plan, err := planner.New(planner.WithSeed(42)).Plan(context.Background(), roster(13), 3)
		So(err, ShouldBeNil)

		Convey("Then four groups are formed with one bench member", func() {
			So(len(plan.Groups), ShouldEqual, 4)
			So(plan.Stats.Bench, ShouldEqual, 1)
			benched := 0
			for _, g := range plan.Groups {
				So(g.StarterCount(), ShouldEqual, 3)
				benched += len(g.Bench())
			}
			So(benched, ShouldEqual, 1)
		})

		Convey("And everyone is placed exactly once", func() {
			counts := seen(plan)
			So(len(counts), ShouldEqual, 13)
			for _, c := range counts {
				So(c, ShouldEqual, 1)
			}
		})

		Convey("And the plan is playable", func() {
			So(len(plan.Matchups), ShouldEqual, 2)
			So(plan.Ready(), ShouldBeTrue)
		})
	})
}

func TestPlan_DegeneratePool(t *testing.T) {
	Convey("Given 3 participants and groups of 5", t, func() {
		plan, err := planner.PlanTeams(roster(3), 5, scoring.DefaultWeights())
		So(err, ShouldBeNil)

		Convey("Then two under-filled groups are returned without error", func() {
			So(len(plan.Groups), ShouldEqual, 2)
			So(plan.Groups[0].StarterCount()+plan.Groups[1].StarterCount(), ShouldEqual, 3)
			So(plan.Groups[0].Full(5), ShouldBeFalse)
			So(plan.Ready(), ShouldBeFalse)
		})

		Convey("And the two groups still meet each other", func() {
			So(len(plan.Matchups), ShouldEqual, 1)
			So(plan.Matchups[0].IsBye(), ShouldBeFalse)
		})
	})
}

func TestPlan_NoActiveParticipants(t *testing.T) {
	Convey("Given a roster where nobody is active", t, func() {
		ps := roster(4)
		for i := range ps {
			ps[i].Active = false
		}
		plan, err := planner.PlanTeams(ps, 2, nil)
		So(err, ShouldBeNil)

		Convey("Then two empty groups and no matchups are returned", func() {
			So(len(plan.Groups), ShouldEqual, 2)
			So(plan.Groups[0].Members, ShouldBeEmpty)
			So(plan.Groups[1].Members, ShouldBeEmpty)
			So(plan.Matchups, ShouldNotBeNil)
			So(plan.Matchups, ShouldBeEmpty)
			So(plan.Stats.Participants, ShouldEqual, 4)
			So(plan.Stats.Active, ShouldEqual, 0)
		})
	})
}

func TestPlan_Invariants(t *testing.T) {
	Convey("Given rosters of many sizes", t, func() {
		p := planner.New(planner.WithSeed(7))
		for n := 7; n <= 40; n++ {
			ps := roster(n)
			ps[0].Active = false
			plan, err := p.Plan(context.Background(), ps, 3)
			So(err, ShouldBeNil)

			counts := seen(plan)
			So(len(counts), ShouldEqual, n-1)
			So(counts, ShouldNotContainKey, ps[0].ID)

			for _, g := range plan.Groups {
				So(g.StarterCount(), ShouldEqual, 3)
			}
			So(len(plan.Groups)%2, ShouldEqual, 0)
			So(len(plan.Matchups), ShouldEqual, len(plan.Groups)/2)
			So(plan.Stats.FinalStdDev, ShouldBeLessThanOrEqualTo, plan.Stats.InitialStdDev)
		}
	})
}

func TestPlan_Reproducible(t *testing.T) {
	Convey("Given two planners with the same seed", t, func() {
		fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return fixed }
		a := planner.New(planner.WithSeed(99), planner.WithClock(clock))
		b := planner.New(planner.WithSeed(99), planner.WithClock(clock))
		ps := roster(17)

		Convey("Then their n-th plans match", func() {
			for i := 0; i < 3; i++ {
				pa, err := a.Plan(context.Background(), ps, 4)
				So(err, ShouldBeNil)
				pb, err := b.Plan(context.Background(), ps, 4)
				So(err, ShouldBeNil)
				So(pa, ShouldResemble, pb)
			}
		})

		Convey("And an explicit seed replays the same plan", func() {
			p1, err := a.PlanSeeded(context.Background(), ps, 4, 1234)
			So(err, ShouldBeNil)
			p2, err := b.PlanSeeded(context.Background(), ps, 4, 1234)
			So(err, ShouldBeNil)
			So(p1, ShouldResemble, p2)
			So(p1.CreatedAt.Equal(fixed), ShouldBeTrue)
		})
	})
}

func TestPlan_Options(t *testing.T) {
	Convey("Given a forced odd group count", t, func() {
		p := planner.New(planner.WithGroupCount(3))
		plan, err := p.Plan(context.Background(), roster(9), 3)
		So(err, ShouldBeNil)

		Convey("Then one group gets a bye", func() {
			So(len(plan.Groups), ShouldEqual, 3)
			So(len(plan.Matchups), ShouldEqual, 2)
			byes := 0
			for _, m := range plan.Matchups {
				if m.IsBye() {
					byes++
				}
			}
			So(byes, ShouldEqual, 1)
			So(plan.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a threshold nothing can exceed", t, func() {
		p := planner.New(planner.WithBalance(balance.WithThreshold(1e6)))
		plan, err := p.Plan(context.Background(), roster(12), 3)
		So(err, ShouldBeNil)

		Convey("Then the optimizer does not run", func() {
			So(plan.Stats.Iterations, ShouldEqual, 0)
			So(plan.Stats.Swaps, ShouldEqual, 0)
		})
	})

	Convey("Given custom weights", t, func() {
		p := planner.New(planner.WithWeights(scoring.Weights{"speed": 1}))

		Convey("Then the planner reports them", func() {
			So(p.Weights(), ShouldResemble, scoring.Weights{"speed": 1})
		})
	})
}

func TestPlan_Errors(t *testing.T) {
	Convey("Given a group size below one", t, func() {
		_, err := planner.PlanTeams(roster(4), 0, nil)

		Convey("Then ErrInvalidGroupSize is returned", func() {
			So(errors.Is(err, planner.ErrInvalidGroupSize), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := planner.New().Plan(ctx, roster(8), 2)

		Convey("Then ErrCancelled wraps the context error", func() {
			So(errors.Is(err, planner.ErrCancelled), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestPlan_InputUntouched(t *testing.T) {
	Convey("Given a roster", t, func() {
		ps := roster(10)
		_, err := planner.PlanTeams(ps, 2, nil)
		So(err, ShouldBeNil)

		Convey("Then strengths are not written back to the caller", func() {
			for _, p := range ps {
				So(p.Strength, ShouldEqual, 0)
			}
			So(ps[0].ID, ShouldEqual, "p00")
		})
	})
}

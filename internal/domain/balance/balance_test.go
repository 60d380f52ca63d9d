package balance_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/matchday/internal/domain/balance"
	"github.com/okian/matchday/internal/domain/draft"
	"github.com/okian/matchday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func grp(index int, starters, bench []float64) model.Group {
	g := model.Group{Index: index}
	for i, s := range starters {
		g.Members = append(g.Members, model.Member{
			Participant: model.Participant{ID: fmt.Sprintf("g%d-s%d", index, i), Active: true, Strength: s},
		})
	}
	for i, s := range bench {
		g.Members = append(g.Members, model.Member{
			Participant: model.Participant{ID: fmt.Sprintf("g%d-b%d", index, i), Active: true, Strength: s},
			IsBench:     true,
		})
	}
	return g
}

func strengthsOf(g model.Group) []float64 {
	out := make([]float64, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.Strength
	}
	return out
}

func TestStdDev(t *testing.T) {
	Convey("Given groups with known strengths", t, func() {
		groups := []model.Group{
			grp(0, []float64{10, 8}, nil), // 8.1
			grp(1, []float64{2, 4}, nil),  // 2.7
		}

		Convey("Then the population standard deviation is half the spread", func() {
			So(balance.StdDev(groups), ShouldAlmostEqual, 2.7, 1e-9)
		})

		Convey("And an empty list has no deviation", func() {
			So(balance.StdDev(nil), ShouldEqual, 0)
		})
	})
}

func TestOptimize_FirstImprovement(t *testing.T) {
	Convey("Given two unbalanced groups of starters", t, func() {
		groups := []model.Group{
			grp(0, []float64{10, 8}, nil),
			grp(1, []float64{2, 4}, nil),
		}

		res := balance.Optimize(groups)

		Convey("Then the first improving swap is taken each round until balanced", func() {
			So(res.Iterations, ShouldEqual, 2)
			So(res.Swaps, ShouldEqual, 2)
			So(res.InitialStdDev, ShouldAlmostEqual, 2.7, 1e-9)
			So(res.FinalStdDev, ShouldAlmostEqual, 0, 1e-9)
			So(res.Groups[0].RawSum(), ShouldEqual, 12)
			So(res.Groups[1].RawSum(), ShouldEqual, 12)
		})

		Convey("And the input groups are left untouched", func() {
			So(strengthsOf(groups[0]), ShouldResemble, []float64{10, 8})
			So(strengthsOf(groups[1]), ShouldResemble, []float64{2, 4})
		})

		Convey("And group identity stays positional", func() {
			So(res.Groups[0].Index, ShouldEqual, 0)
			So(res.Groups[1].Index, ShouldEqual, 1)
		})
	})
}

func TestOptimize_BestImprovement(t *testing.T) {
	Convey("Given the same groups optimized with best-improvement", t, func() {
		groups := []model.Group{
			grp(0, []float64{10, 8}, nil),
			grp(1, []float64{2, 4}, nil),
		}

		res := balance.Optimize(groups, balance.WithMode(balance.BestImprovement))

		Convey("Then the best swap balances the groups in one round", func() {
			So(res.Iterations, ShouldEqual, 1)
			So(res.Swaps, ShouldEqual, 1)
			So(res.FinalStdDev, ShouldAlmostEqual, 0, 1e-9)
			So(strengthsOf(res.Groups[0]), ShouldResemble, []float64{4, 8})
			So(strengthsOf(res.Groups[1]), ShouldResemble, []float64{2, 10})
		})
	})
}

func TestOptimize_BenchSwap(t *testing.T) {
	Convey("Given groups whose starters cannot be improved", t, func() {
		groups := []model.Group{
			grp(0, []float64{5}, []float64{7, 3}), // 4.5 + 0.5
			grp(1, []float64{5}, []float64{5, 1}), // 4.5 + 0.3
		}

		res := balance.Optimize(groups)

		Convey("Then a bench-for-bench swap is used", func() {
			So(res.Swaps, ShouldEqual, 1)
			So(res.FinalStdDev, ShouldBeLessThan, res.InitialStdDev)
			So(strengthsOf(res.Groups[0]), ShouldResemble, []float64{5, 5, 3})
			So(strengthsOf(res.Groups[1]), ShouldResemble, []float64{5, 7, 1})
		})

		Convey("And tier sizes are unchanged", func() {
			for _, g := range res.Groups {
				So(g.StarterCount(), ShouldEqual, 1)
				So(len(g.Bench()), ShouldEqual, 2)
			}
		})
	})
}

func TestOptimize_StopConditions(t *testing.T) {
	Convey("Given groups already under the threshold", t, func() {
		groups := []model.Group{
			grp(0, []float64{5, 5}, nil),
			grp(1, []float64{5, 5}, nil),
		}
		res := balance.Optimize(groups)

		Convey("Then no iteration runs", func() {
			So(res.Iterations, ShouldEqual, 0)
			So(res.Swaps, ShouldEqual, 0)
		})
	})

	Convey("Given a generous threshold", t, func() {
		groups := []model.Group{
			grp(0, []float64{10, 8}, nil),
			grp(1, []float64{2, 4}, nil),
		}
		res := balance.Optimize(groups, balance.WithThreshold(5))

		Convey("Then the draft is returned as is", func() {
			So(res.Iterations, ShouldEqual, 0)
			So(strengthsOf(res.Groups[0]), ShouldResemble, []float64{10, 8})
		})
	})

	Convey("Given an iteration cap of one", t, func() {
		groups := []model.Group{
			grp(0, []float64{10, 8}, nil),
			grp(1, []float64{2, 4}, nil),
		}
		res := balance.Optimize(groups, balance.WithMaxIterations(1))

		Convey("Then only one swap is made", func() {
			So(res.Iterations, ShouldEqual, 1)
			So(res.Swaps, ShouldEqual, 1)
			So(res.FinalStdDev, ShouldAlmostEqual, 0.9, 1e-9)
		})
	})

	Convey("Given groups where no swap helps", t, func() {
		groups := []model.Group{
			grp(0, []float64{9}, nil),
			grp(1, []float64{1}, nil),
		}
		res := balance.Optimize(groups)

		Convey("Then the search stops after one fruitless round", func() {
			So(res.Iterations, ShouldEqual, 1)
			So(res.Swaps, ShouldEqual, 0)
			So(res.FinalStdDev, ShouldEqual, res.InitialStdDev)
		})
	})

	Convey("Given a single group", t, func() {
		res := balance.Optimize([]model.Group{grp(0, []float64{9, 1}, nil)})

		Convey("Then strongest and weakest coincide and nothing runs", func() {
			So(res.Iterations, ShouldEqual, 0)
		})
	})
}

func TestOptimize_Monotone(t *testing.T) {
	Convey("Given drafted rosters of many shapes", t, func() {
		for seed := int64(1); seed <= 20; seed++ {
			ps := make([]model.Participant, 10+int(seed))
			for i := range ps {
				ps[i] = model.Participant{
					ID:       fmt.Sprintf("p%d", i),
					Active:   true,
					Strength: float64((i*7+int(seed)*3)%11) + 0.5,
				}
			}
			groups := draft.Partition(ps, 3, draft.WithSeed(seed))

			for _, mode := range []balance.Mode{balance.FirstImprovement, balance.BestImprovement} {
				res := balance.Optimize(groups, balance.WithMode(mode))

				So(res.FinalStdDev, ShouldBeLessThanOrEqualTo, res.InitialStdDev)
				So(res.Iterations, ShouldBeLessThanOrEqualTo, balance.DefaultMaxIterations)
				So(len(res.Groups), ShouldEqual, len(groups))
				for i := range groups {
					So(len(res.Groups[i].Members), ShouldEqual, len(groups[i].Members))
					So(res.Groups[i].StarterCount(), ShouldEqual, groups[i].StarterCount())
				}
			}
		}
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode names", t, func() {
		m, err := balance.ParseMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, balance.FirstImprovement)

		m, err = balance.ParseMode("best")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, balance.BestImprovement)
		So(m.String(), ShouldEqual, "best")

		_, err = balance.ParseMode("greedy")
		So(errors.Is(err, balance.ErrUnknownMode), ShouldBeTrue)
	})
}

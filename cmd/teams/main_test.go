package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/smartystreets/goconvey/convey"
)

const yamlRoster = `
group_size: 2
seed: 4
participants:
  - id: ana
    attributes: {speed: 9, passing: 8}
  - id: ben
    attributes: {speed: 3, passing: 4}
  - id: cai
    attributes: {speed: 7, passing: 6}
  - id: dev
    attributes: {speed: 5, passing: 5}
  - id: eli
    active: false
    attributes: {speed: 10}
`

const jsonRoster = `[
  {"id": "a", "name": "Alpha", "attributes": {"speed": 8}},
  {"id": "b", "attributes": {"speed": 2}},
  {"id": "c", "attributes": {"speed": 6}},
  {"id": "d", "attributes": {"speed": 4}},
  {"id": "e", "attributes": {"speed": 5}},
  {"id": "f", "attributes": {"speed": 5}}
]`

func runTeams(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestReadRoster(t *testing.T) {
	convey.Convey("Given a YAML roster document", t, func() {
		rf, err := readRoster(strings.NewReader(yamlRoster))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then its settings and participants are read", func() {
			convey.So(rf.GroupSize, convey.ShouldEqual, 2)
			convey.So(rf.Seed, convey.ShouldEqual, int64(4))

			ps := rf.participants()
			convey.So(len(ps), convey.ShouldEqual, 5)
			convey.So(ps[0].Active, convey.ShouldBeTrue)
			convey.So(ps[0].Attributes["speed"], convey.ShouldEqual, 9.0)
			convey.So(ps[4].Active, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a JSON list of participants", t, func() {
		rf, err := readRoster(strings.NewReader(jsonRoster))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then it is read as a bare roster", func() {
			convey.So(rf.GroupSize, convey.ShouldEqual, 0)
			convey.So(len(rf.Participants), convey.ShouldEqual, 6)
			convey.So(rf.participants()[0].Name, convey.ShouldEqual, "Alpha")
		})
	})

	convey.Convey("Given malformed rosters", t, func() {
		_, err := readRoster(strings.NewReader(""))
		convey.So(errors.Is(err, errEmptyRoster), convey.ShouldBeTrue)

		_, err = readRoster(strings.NewReader("participants: []"))
		convey.So(errors.Is(err, errEmptyRoster), convey.ShouldBeTrue)

		_, err = readRoster(strings.NewReader("- id: ''"))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "missing id")

		_, err = readRoster(strings.NewReader("just a string"))
		convey.So(err, convey.ShouldNotBeNil)

		_, err = readRoster(strings.NewReader("participants: [\n"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a roster on stdin", t, func() {
		convey.Convey("When the plan is printed as JSON", func() {
			out, err := runTeams(yamlRoster, "-o", "json")
			convey.So(err, convey.ShouldBeNil)

			var plan model.Plan
			convey.So(json.Unmarshal([]byte(out), &plan), convey.ShouldBeNil)

			convey.Convey("Then the roster settings are used", func() {
				convey.So(plan.GroupSize, convey.ShouldEqual, 2)
				convey.So(len(plan.Groups), convey.ShouldEqual, 2)
				convey.So(len(plan.Matchups), convey.ShouldEqual, 1)
				convey.So(plan.Stats.Active, convey.ShouldEqual, 4)
				convey.So(plan.Ready(), convey.ShouldBeTrue)
			})

			convey.Convey("And the result matches the library planner", func() {
				rf, _ := readRoster(strings.NewReader(yamlRoster))
				want, err := planner.New().PlanSeeded(context.Background(), rf.participants(), 2, 4)
				convey.So(err, convey.ShouldBeNil)
				convey.So(plan.Stats.FinalStdDev, convey.ShouldAlmostEqual, want.Stats.FinalStdDev, 1e-9)
			})
		})

		convey.Convey("When the plan is printed as text", func() {
			out, err := runTeams(jsonRoster, "-g", "3")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then groups and matchups are listed", func() {
				convey.So(out, convey.ShouldContainSubstring, "Group 1")
				convey.So(out, convey.ShouldContainSubstring, "Group 2")
				convey.So(out, convey.ShouldContainSubstring, "Matchups")
				convey.So(out, convey.ShouldContainSubstring, " vs Group ")
				convey.So(out, convey.ShouldContainSubstring, "Alpha")
				convey.So(out, convey.ShouldNotContainSubstring, "warning")
			})
		})

		convey.Convey("When the roster cannot fill two groups", func() {
			out, err := runTeams(jsonRoster, "-g", "5")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "warning")
		})

		convey.Convey("When the group size is invalid", func() {
			_, err := runTeams(jsonRoster, "-g", "0")
			convey.So(errors.Is(err, planner.ErrInvalidGroupSize), convey.ShouldBeTrue)
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := runTeams(jsonRoster, "-o", "xml")
			convey.So(errors.Is(err, errUnknownOutput), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a roster file", t, func() {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		convey.So(os.WriteFile(path, []byte(yamlRoster), 0o600), convey.ShouldBeNil)

		out, err := runTeams("", "-f", path)

		convey.Convey("Then it is read from disk", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Group 2")
		})

		convey.Convey("And a missing file is reported", func() {
			_, err := runTeams("", "-f", path+".missing")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "open roster")
		})
	})
}

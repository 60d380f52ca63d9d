package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/matchday/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		entry := types.Entry{Rank: 1, ParticipantID: "p-123", Strength: 7.25}

		Convey("When encoding it to JSON", func() {
			raw, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			Convey("Then it should use snake_case field names", func() {
				So(string(raw), ShouldEqual, `{"rank":1,"participant_id":"p-123","strength":7.25}`)
			})
		})

		Convey("When creating an entry with zero values", func() {
			zero := types.Entry{}

			Convey("Then it should have default values", func() {
				So(zero.Rank, ShouldEqual, 0)
				So(zero.ParticipantID, ShouldEqual, "")
				So(zero.Strength, ShouldEqual, 0.0)
			})
		})
	})
}

func TestPlanStatus(t *testing.T) {
	Convey("Given the plan statuses", t, func() {
		Convey("Then they should serialise as lowercase words", func() {
			So(string(types.PlanPending), ShouldEqual, "pending")
			So(string(types.PlanDone), ShouldEqual, "done")
			So(string(types.PlanFailed), ShouldEqual, "failed")
		})
	})
}

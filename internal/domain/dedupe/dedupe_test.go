package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/okian/matchday/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording requests", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the request is new", func() {
				planID, seen := d.SeenAndRecord(ctx, "req-1", "plan-1")

				Convey("Then it should be recorded with the given plan", func() {
					So(seen, ShouldBeFalse)
					So(planID, ShouldEqual, "plan-1")
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the request was already seen", func() {
				d.SeenAndRecord(ctx, "req-1", "plan-1")
				planID, seen := d.SeenAndRecord(ctx, "req-1", "plan-2")

				Convey("Then the original plan ID should be returned", func() {
					So(seen, ShouldBeTrue)
					So(planID, ShouldEqual, "plan-1")
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording requests", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "req-1", "plan-1")

			Convey("And the request exists", func() {
				d.Unrecord(ctx, "req-1")

				Convey("Then it can be recorded again with a new plan", func() {
					So(d.Size(), ShouldEqual, 0)
					planID, seen := d.SeenAndRecord(ctx, "req-1", "plan-9")
					So(seen, ShouldBeFalse)
					So(planID, ShouldEqual, "plan-9")
				})
			})

			Convey("And the request doesn't exist", func() {
				d.Unrecord(ctx, "missing")

				Convey("Then the size is unchanged", func() {
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When replacing a recorded plan", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "req-1", "plan-1")

			Convey("And the old plan ID still matches", func() {
				planID, ok := d.Replace(ctx, "req-1", "plan-1", "plan-2")

				Convey("Then the new plan is on record", func() {
					So(ok, ShouldBeTrue)
					So(planID, ShouldEqual, "plan-2")
					So(d.Size(), ShouldEqual, 1)
					current, seen := d.SeenAndRecord(ctx, "req-1", "plan-x")
					So(seen, ShouldBeTrue)
					So(current, ShouldEqual, "plan-2")
				})
			})

			Convey("And another plan was recorded in between", func() {
				planID, ok := d.Replace(ctx, "req-1", "plan-0", "plan-2")

				Convey("Then the record is left alone", func() {
					So(ok, ShouldBeFalse)
					So(planID, ShouldEqual, "plan-1")
				})
			})

			Convey("And the key was forgotten", func() {
				d.Unrecord(ctx, "req-1")
				planID, ok := d.Replace(ctx, "req-1", "plan-1", "plan-3")

				Convey("Then the key is recorded again", func() {
					So(ok, ShouldBeTrue)
					So(planID, ShouldEqual, "plan-3")
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 1; i <= 3; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), fmt.Sprintf("plan-%d", i))
			}

			Convey("And the deduper is at capacity", func() {
				d.SeenAndRecord(ctx, "req-4", "plan-4")

				Convey("Then the oldest request should be evicted", func() {
					So(d.Size(), ShouldEqual, 3)
					_, seen := d.SeenAndRecord(ctx, "req-1", "plan-x")
					So(seen, ShouldBeFalse)
				})

				Convey("And newer requests should be kept", func() {
					planID, seen := d.SeenAndRecord(ctx, "req-4", "plan-x")
					So(seen, ShouldBeTrue)
					So(planID, ShouldEqual, "plan-4")
				})
			})

			Convey("And a middle entry is unrecorded", func() {
				d.Unrecord(ctx, "req-2")
				d.SeenAndRecord(ctx, "req-4", "plan-4")

				Convey("Then no eviction is needed", func() {
					So(d.Size(), ShouldEqual, 3)
					_, seen := d.SeenAndRecord(ctx, "req-1", "plan-x")
					So(seen, ShouldBeTrue)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), "plan")
			}

			Convey("Then all requests should be kept", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})

		Convey("When recording unusual keys", func() {
			d := dedupe.NewInMemoryDeduper()
			long := strings.Repeat("k", 10000)

			Convey("Then empty and long keys should be handled", func() {
				_, seen := d.SeenAndRecord(ctx, "", "plan-empty")
				So(seen, ShouldBeFalse)
				_, seen = d.SeenAndRecord(ctx, long, "plan-long")
				So(seen, ShouldBeFalse)
				_, seen = d.SeenAndRecord(ctx, long, "plan-other")
				So(seen, ShouldBeTrue)
			})
		})
	})

	Convey("Given a deduper with concurrent access", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))

		Convey("When many goroutines record the same keys", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fresh int
			)
			for g := 0; g < 10; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if _, seen := d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), "plan"); !seen {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key should be new exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}

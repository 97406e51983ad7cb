package store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/paiv/icfpc2023/pkg/problem"
)

func solution(score int64) *problem.Solution {
	return &problem.Solution{
		Score:      score,
		Placements: []problem.Point{{X: 10, Y: 20}, {X: 30, Y: 40}},
		Volumes:    []uint32{10, 1},
	}
}

func TestRecordBaseline(t *testing.T) {
	Convey("Given records in different states", t, func() {
		v := func(n int64) *int64 { return &n }

		Convey("An unknown problem has no baseline", func() {
			var rec *Record
			So(rec.Baseline(), ShouldEqual, int64(math.MinInt64))
			So(rec.Improves(0, DefaultImproveThreshold), ShouldBeTrue)
			So(rec.Improves(-5, DefaultImproveThreshold), ShouldBeFalse)
		})

		Convey("A solved problem uses the reported score", func() {
			rec := &Record{Score: 5_000_000, Solution: solution(5_000_000)}
			So(rec.Baseline(), ShouldEqual, int64(5_000_000))
			So(rec.Improves(5_999_999, DefaultImproveThreshold), ShouldBeFalse)
			So(rec.Improves(6_000_000, DefaultImproveThreshold), ShouldBeTrue)
		})

		Convey("A lower verified score wins", func() {
			rec := &Record{Score: 5_000_000, Solution: solution(5_000_000), Verified: v(-1)}
			So(rec.Baseline(), ShouldEqual, int64(-1))
		})

		Convey("A higher verified score does not", func() {
			rec := &Record{Score: 5_000_000, Solution: solution(5_000_000), Verified: v(9_000_000)}
			So(rec.Baseline(), ShouldEqual, int64(5_000_000))
		})
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given an empty file store", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		st, err := NewFileStore(dir)
		So(err, ShouldBeNil)

		Convey("Unknown problems have no record", func() {
			rec, err := st.Get(ctx, 1)
			So(err, ShouldBeNil)
			So(rec, ShouldBeNil)
			So(st.Touch(ctx, 1), ShouldBeNil)
		})

		Convey("When a solution is saved", func() {
			So(st.Save(ctx, 7, solution(4_000_000), "run-1"), ShouldBeNil)

			Convey("Then it is written in the contest layout", func() {
				_, err := os.Stat(filepath.Join(dir, "solution-7.json"))
				So(err, ShouldBeNil)
				So(st.SolutionPath(7), ShouldEqual, filepath.Join(dir, "solution-7.json"))
			})

			Convey("Then Get returns it with its score and run ID", func() {
				rec, err := st.Get(ctx, 7)
				So(err, ShouldBeNil)
				So(rec, ShouldNotBeNil)
				So(rec.Score, ShouldEqual, int64(4_000_000))
				So(rec.RunID, ShouldEqual, "run-1")
				So(rec.Solution.Placements, ShouldResemble, solution(0).Placements)
				So(rec.Solution.Volumes, ShouldResemble, []uint32{10, 1})
				So(rec.Pending(), ShouldBeFalse)
			})

			Convey("Then Touch moves its timestamp", func() {
				later := time.Now().Add(time.Hour).Truncate(time.Second)
				st.now = func() time.Time { return later }
				So(st.Touch(ctx, 7), ShouldBeNil)
				rec, _ := st.Get(ctx, 7)
				So(rec.UpdatedAt.Equal(later), ShouldBeTrue)
			})

			Convey("And a submission is pending", func() {
				So(st.SetSubmission(ctx, 7, "sub-1"), ShouldBeNil)
				rec, _ := st.Get(ctx, 7)
				So(rec.Pending(), ShouldBeTrue)
				So(rec.SubmissionID, ShouldEqual, "sub-1")

				Convey("When the verdict arrives", func() {
					So(st.SetVerified(ctx, 7, 3_900_000), ShouldBeNil)

					Convey("Then the submission is cleared and the score kept", func() {
						rec, _ := st.Get(ctx, 7)
						So(rec.Pending(), ShouldBeFalse)
						So(*rec.Verified, ShouldEqual, int64(3_900_000))
						So(rec.Baseline(), ShouldEqual, int64(3_900_000))
						_, err := os.Stat(filepath.Join(dir, "solution-7.submission.json"))
						So(os.IsNotExist(err), ShouldBeTrue)
					})
				})
			})
		})

		Convey("When files come from the contest scripts", func() {
			os.WriteFile(filepath.Join(dir, "solution-3.json"), []byte(`{"placements":[{"x":1,"y":2}]}`), 0o644)
			os.WriteFile(filepath.Join(dir, "solution-3.score.txt"), []byte("1234.0"), 0o644)
			os.WriteFile(filepath.Join(dir, "solution-9.submission.json"), []byte(`{"_id":"abc","problem_id":9}`), 0o644)
			os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

			Convey("Then List finds every problem", func() {
				records, err := st.List(ctx)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 2)
				So(records[0].ProblemID, ShouldEqual, 3)
				So(records[0].Score, ShouldEqual, int64(1234))
				So(*records[0].Verified, ShouldEqual, int64(1234))
				So(records[1].ProblemID, ShouldEqual, 9)
				So(records[1].SubmissionID, ShouldEqual, "abc")
				So(records[1].Solution, ShouldBeNil)
			})
		})

		Convey("A corrupt solution is reported", func() {
			os.WriteFile(filepath.Join(dir, "solution-4.json"), []byte(`{`), 0o644)
			_, err := st.Get(ctx, 4)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("STAGEPLACE_TEST_MONGO")
	if uri == "" {
		t.Skip("STAGEPLACE_TEST_MONGO not set")
	}

	Convey("Given a mongo store", t, func() {
		ctx := context.Background()
		st, err := NewMongoStore(ctx, uri, "stageplace_test")
		So(err, ShouldBeNil)
		Reset(func() {
			st.coll.Drop(ctx)
			st.Close()
		})

		Convey("Records round-trip through the collection", func() {
			So(st.Save(ctx, 11, solution(2_000_000), "run-m"), ShouldBeNil)
			So(st.SetSubmission(ctx, 11, "sub-m"), ShouldBeNil)

			rec, err := st.Get(ctx, 11)
			So(err, ShouldBeNil)
			So(rec.Score, ShouldEqual, int64(2_000_000))
			So(rec.Pending(), ShouldBeTrue)

			So(st.SetVerified(ctx, 11, 1_900_000), ShouldBeNil)
			rec, _ = st.Get(ctx, 11)
			So(rec.Pending(), ShouldBeFalse)
			So(*rec.Verified, ShouldEqual, int64(1_900_000))

			records, err := st.List(ctx)
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
		})

		Convey("Unknown problems have no record", func() {
			rec, err := st.Get(ctx, 12345)
			So(err, ShouldBeNil)
			So(rec, ShouldBeNil)
		})
	})
}

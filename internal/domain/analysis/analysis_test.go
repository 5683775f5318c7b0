package analysis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/analysis"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var clip = model.SubmissionFile{Name: "pads.mp4", SizeBytes: 4096, MIMEType: "video/mp4"}

func TestAnalyzer(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given an analyzer on a fake clock", t, func() {
		clock := clockwork.NewFakeClock()
		a := analysis.NewAnalyzer(analysis.WithClock(clock))

		Convey("When the delay elapses", func() {
			type result struct {
				res model.AnalysisResult
				err error
			}
			out := make(chan result, 1)
			go func() {
				res, err := a.Process(context.Background(), clip)
				out <- result{res, err}
			}()
			clock.BlockUntil(1)
			clock.Advance(analysis.DefaultDelay)

			Convey("Then the canned breakdown is returned", func() {
				r := <-out
				So(r.err, ShouldBeNil)
				So(r.res.TechniqueScore, ShouldEqual, 78)
				So(r.res.Speed, ShouldEqual, 82)
				So(r.res.Power, ShouldEqual, 75)
				So(r.res.Balance, ShouldEqual, 68)
				So(r.res.Strengths, ShouldHaveLength, 3)
				So(r.res.Improvements[2], ShouldEqual, "More power in left hook")
			})
		})

		Convey("When the context is cancelled first", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := a.Process(ctx, clip)

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given an analyzer with no delay", t, func() {
		a := analysis.NewAnalyzer(analysis.WithDelay(0))

		Convey("Then it answers immediately", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			res, err := a.Process(ctx, clip)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, analysis.Canned())
		})
	})
}

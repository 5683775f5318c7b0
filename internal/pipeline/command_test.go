package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/fightlab/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDo_ReportsAcceptedCommand(t *testing.T) {
	Convey("Given a started pipeline", t, func() {
		p := New[string]("cmd", func(context.Context, model.SubmissionFile) (string, error) { return "ok", nil })
		p.Start(context.Background())
		defer p.Close()

		Convey("When the caller's context ends while the command runs", func() {
			ctx, cancel := context.WithCancel(context.Background())
			ran := false
			err := p.do(ctx, func() error {
				cancel()
				ran = true
				p.selectFile(model.SubmissionFile{Name: "bout.mp4", SizeBytes: 1, MIMEType: "video/mp4"})
				return nil
			})

			Convey("Then the command's own result is returned", func() {
				So(err, ShouldBeNil)
				So(ran, ShouldBeTrue)
				st, err := p.State(context.Background())
				So(err, ShouldBeNil)
				So(st.Phase, ShouldEqual, PhaseSelected)
			})
		})

		Convey("When an accepted command fails after the context ends", func() {
			ctx, cancel := context.WithCancel(context.Background())
			err := p.do(ctx, func() error {
				cancel()
				return &StateError{Op: "begin upload", Phase: PhaseIdle}
			})

			Convey("Then the command error wins over the context error", func() {
				So(errors.Is(err, ErrInvalidState), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeFalse)
			})
		})

		Convey("When the context is already done before submission", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			ran := false
			err := p.do(ctx, func() error { ran = true; return nil })

			Convey("Then either it was refused or it ran and succeeded", func() {
				if err != nil {
					So(errors.Is(err, context.Canceled), ShouldBeTrue)
				} else {
					So(ran, ShouldBeTrue)
				}
			})
		})
	})
}

package media_test

import (
	"errors"
	"testing"

	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateMedia(t *testing.T) {
	Convey("Given the default validator", t, func() {
		Convey("When the file is an accepted video", func() {
			for _, mt := range []string{"video/mp4", "video/webm", "video/quicktime", "VIDEO/MP4", "video/mp4; codecs=avc1"} {
				err := media.ValidateMedia(model.SubmissionFile{Name: "bout.mp4", SizeBytes: 1024, MIMEType: mt})
				So(err, ShouldBeNil)
			}
		})

		Convey("When the file is a PDF", func() {
			err := media.ValidateMedia(model.SubmissionFile{Name: "notes.pdf", SizeBytes: 1024, MIMEType: "application/pdf"})

			Convey("Then it is rejected as an unsupported format", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, media.ErrValidation), ShouldBeTrue)
				So(media.ReasonOf(err), ShouldEqual, media.ReasonUnsupportedFormat)
			})
		})

		Convey("When an unsupported file is also oversized", func() {
			err := media.ValidateMedia(model.SubmissionFile{Name: "x.avi", SizeBytes: media.DefaultMaxSizeBytes * 2, MIMEType: "video/x-msvideo"})

			Convey("Then the format reason wins", func() {
				So(media.ReasonOf(err), ShouldEqual, media.ReasonUnsupportedFormat)
			})
		})

		Convey("When the file is larger than 200MB", func() {
			err := media.ValidateMedia(model.SubmissionFile{Name: "long.mp4", SizeBytes: media.DefaultMaxSizeBytes + 1, MIMEType: "video/mp4"})
			So(media.ReasonOf(err), ShouldEqual, media.ReasonFileTooLarge)
		})

		Convey("When the file is exactly 200MB", func() {
			err := media.ValidateMedia(model.SubmissionFile{Name: "edge.mp4", SizeBytes: media.DefaultMaxSizeBytes, MIMEType: "video/mp4"})
			So(err, ShouldBeNil)
		})

		Convey("When the file is empty", func() {
			err := media.ValidateMedia(model.SubmissionFile{Name: "empty.mp4", MIMEType: "video/mp4"})
			So(media.ReasonOf(err), ShouldEqual, media.ReasonEmptyFile)
		})
	})
}

func TestValidatorOptions(t *testing.T) {
	Convey("Given a validator without size enforcement", t, func() {
		v := media.NewValidator(media.WithSizeLimit(false))

		Convey("Then oversized files pass", func() {
			err := v.Validate(model.SubmissionFile{Name: "huge.webm", SizeBytes: 1 << 40, MIMEType: "video/webm"})
			So(err, ShouldBeNil)
			So(v.MaxSizeBytes(), ShouldEqual, 0)
		})
	})

	Convey("Given a validator with a custom cap and allow-list", t, func() {
		v := media.NewValidator(media.WithMaxSizeBytes(10), media.WithAcceptedTypes("video/mp4"))

		Convey("Then the cap and allow-list apply", func() {
			So(v.MaxSizeBytes(), ShouldEqual, 10)
			So(media.ReasonOf(v.Validate(model.SubmissionFile{SizeBytes: 11, MIMEType: "video/mp4"})), ShouldEqual, media.ReasonFileTooLarge)
			So(media.ReasonOf(v.Validate(model.SubmissionFile{SizeBytes: 5, MIMEType: "video/webm"})), ShouldEqual, media.ReasonUnsupportedFormat)
		})
	})

	Convey("Given a non-validation error", t, func() {
		So(media.ReasonOf(errors.New("boom")), ShouldEqual, "")
	})
}

package errkind_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/pathwise/internal/errkind"
	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorKinds(t *testing.T) {
	Convey("Given errors built with the kind helpers", t, func() {
		cause := errors.New("open roadmap_model.json: no such file")

		Convey("When wrapping a cause with a kind", func() {
			err := errkind.WrapKind("classifier.load", errkind.ErrModelUnavailable, cause)

			Convey("Then both the kind and the cause are reachable", func() {
				So(errors.Is(err, errkind.ErrModelUnavailable), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(errkind.KindOf(err), ShouldEqual, errkind.ErrModelUnavailable)
				So(err.Error(), ShouldEqual, "classifier.load: model unavailable: open roadmap_model.json: no such file")
			})

			Convey("And an outer Wrap keeps the kind", func() {
				outer := errkind.Wrap("api.predict", err)
				So(errkind.KindOf(outer), ShouldEqual, errkind.ErrModelUnavailable)
			})

			Convey("And fmt wrapping keeps the kind", func() {
				outer := fmt.Errorf("startup: %w", err)
				So(errkind.Is(outer, errkind.ErrModelUnavailable), ShouldBeTrue)
			})
		})

		Convey("When creating a bare kind", func() {
			err := errkind.NewKind("demand.rank", errkind.ErrInvalidInput)
			So(err.Error(), ShouldEqual, "demand.rank: invalid input")
			So(errkind.KindOf(err), ShouldEqual, errkind.ErrInvalidInput)
		})

		Convey("When an error carries no kind", func() {
			So(errkind.KindOf(cause), ShouldEqual, errkind.ErrInternal)
			So(errkind.KindOf(nil), ShouldBeNil)
			So(errkind.Wrap("op", nil), ShouldBeNil)
		})
	})
}

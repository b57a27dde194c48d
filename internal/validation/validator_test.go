package validation_test

import (
	"errors"
	"testing"

	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/internal/validation"
	. "github.com/smartystreets/goconvey/convey"
)

type scoreRequest struct {
	Score *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Level *int     `json:"level,omitempty" validate:"omitempty,gte=0,lte=2"`
	Name  string   `json:"name" validate:"omitempty,max=3"`
}

func ptr[T any](v T) *T { return &v }

func TestStruct(t *testing.T) {
	Convey("Given the shared validator", t, func() {
		Convey("When a request is valid", func() {
			err := validation.Struct(&scoreRequest{Score: ptr(0.0), Level: ptr(2)})

			Convey("Then no error is returned", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a required field is missing", func() {
			err := validation.Struct(&scoreRequest{})

			Convey("Then the JSON field name is reported", func() {
				var verr *validation.RequestValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldHaveLength, 1)
				So(verr.Fields[0].Field, ShouldEqual, "score")
				So(verr.Fields[0].Tag, ShouldEqual, "required")
				So(err.Error(), ShouldEqual, "score is required")
			})

			Convey("Then the error is of the invalid-input kind", func() {
				So(errors.Is(err, errkind.ErrInvalidInput), ShouldBeTrue)
				So(errkind.KindOf(err), ShouldEqual, errkind.ErrInvalidInput)
			})
		})

		Convey("When several rules fail", func() {
			err := validation.Struct(&scoreRequest{Score: ptr(150.0), Level: ptr(-1), Name: "toolong"})

			Convey("Then every failure is collected", func() {
				var verr *validation.RequestValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldHaveLength, 3)
				So(err.Error(), ShouldContainSubstring, "score must be less than or equal to 100")
				So(err.Error(), ShouldContainSubstring, "level must be greater than or equal to 0")
				So(err.Error(), ShouldContainSubstring, "name must be at most 3")
			})
		})

		Convey("When the validator is requested twice", func() {
			Convey("Then the same instance is returned", func() {
				So(validation.Validator(), ShouldEqual, validation.Validator())
			})
		})
	})
}

package loadgen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/pathwise/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService labels predictions by engagement and fails every failEvery-th request.
func fakeService(t *testing.T, healthy bool, failEvery int32) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			if !healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/predict-difficulty":
			n := atomic.AddInt32(&calls, 1)
			if r.Header.Get("X-Request-ID") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if failEvery > 0 && n%failEvery == 0 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			var m model.MetricVector
			if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			label := "beginner"
			switch {
			case m.Engagement >= 70:
				label = "advanced"
			case m.Engagement >= 35:
				label = "intermediate"
			}
			_, _ = w.Write([]byte(`{"success":true,"label":"` + label + `"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &calls
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		g := NewGenerator(11)

		Convey("Then every vector is within the accepted ranges", func() {
			for _, m := range g.Batch(500) {
				So(m.Validate(), ShouldBeNil)
			}
		})

		Convey("Then equal seeds reproduce the same batch", func() {
			So(NewGenerator(5).Batch(20), ShouldResemble, NewGenerator(5).Batch(20))
		})

		Convey("Then the batch spans several profiles", func() {
			low, high := 0, 0
			for _, m := range g.Batch(500) {
				if m.Engagement < 30 {
					low++
				}
				if m.Engagement > 80 {
					high++
				}
			}
			So(low, ShouldBeGreaterThan, 0)
			So(high, ShouldBeGreaterThan, 0)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given load run configs", t, func() {
		valid := Config{BaseURL: "http://localhost:8000", Requests: 1, Workers: 1, Timeout: time.Second}

		Convey("Then a complete config is accepted", func() {
			So(valid.validate(), ShouldBeNil)
		})

		Convey("Then missing fields are rejected", func() {
			cases := []func(c *Config){
				func(c *Config) { c.BaseURL = "" },
				func(c *Config) { c.Requests = 0 },
				func(c *Config) { c.Workers = 0 },
				func(c *Config) { c.Timeout = 0 },
			}
			for _, mutate := range cases {
				c := valid
				mutate(&c)
				So(errors.Is(c.validate(), ErrInvalidConfig), ShouldBeTrue)
			}
		})
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a healthy service", t, func() {
		srv, calls := fakeService(t, true, 0)
		defer srv.Close()

		Convey("When running a load", func() {
			stats, err := Run(ctx, &Config{
				BaseURL: srv.URL, Requests: 60, Workers: 4, Timeout: time.Second, Seed: 3,
			}, nil)

			Convey("Then every request succeeds and is tallied by tier", func() {
				So(err, ShouldBeNil)
				So(int(atomic.LoadInt32(calls)), ShouldEqual, 60)
				So(stats.Generated, ShouldEqual, 60)
				So(stats.Submitted, ShouldEqual, 60)
				So(stats.Successful, ShouldEqual, 60)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Statuses[http.StatusOK], ShouldEqual, 60)
				total := 0
				for _, n := range stats.Tiers {
					total += n
				}
				So(total, ShouldEqual, 60)
				So(stats.SuccessRate(), ShouldEqual, 100.0)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service that sheds some requests", t, func() {
		srv, _ := fakeService(t, true, 4)
		defer srv.Close()

		Convey("When running a load", func() {
			stats, err := Run(ctx, &Config{
				BaseURL: srv.URL, Requests: 40, Workers: 2, Timeout: time.Second,
			}, nil)

			Convey("Then failures are counted", func() {
				So(err, ShouldBeNil)
				So(stats.Failed, ShouldEqual, 10)
				So(stats.Successful, ShouldEqual, 30)
				So(stats.Statuses[http.StatusServiceUnavailable], ShouldEqual, 10)
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv, calls := fakeService(t, false, 0)
		defer srv.Close()

		Convey("When running a load", func() {
			_, err := Run(ctx, &Config{
				BaseURL: srv.URL, Requests: 5, Workers: 1, Timeout: time.Second,
			}, nil)

			Convey("Then no predictions are submitted", func() {
				So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
				So(int(atomic.LoadInt32(calls)), ShouldEqual, 0)
			})
		})
	})
}

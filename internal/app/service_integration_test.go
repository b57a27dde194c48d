package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	service "github.com/okian/pathwise/internal/app"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/errkind"
	. "github.com/smartystreets/goconvey/convey"
)

func jobMarketAPI(t *testing.T, healthy *atomic.Bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`{"listings": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"listings": [
			{"id": "a", "title": "Backend Engineer", "skills": ["Go", "PostgreSQL"]},
			{"id": "b", "title": "Platform Engineer", "skills": "go, kubernetes"},
			{"id": "c", "title": "Data Engineer", "description": "Python and SQL pipelines"}
		]}`))
	}))
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to an HTTP job-market API", t, func() {
		var healthy atomic.Bool
		healthy.Store(true)
		api := jobMarketAPI(t, &healthy)
		defer api.Close()

		a := writeBaseline(t)
		svc := service.New(
			service.WithArtifacts(a.ModelPath, a.ScalerPath),
			service.WithJobMarketAPI(api.URL, "token"),
			service.WithRateLimit(1000, 100),
			service.WithRoadmapTopSkills(3),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When requesting market trends", func() {
			ranked, err := svc.MarketTrends(ctx, 50, 10)

			Convey("Then skills from every listing shape are ranked", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Skill, ShouldEqual, "go")
				So(ranked[0].DemandScore, ShouldAlmostEqual, 2.0/8.0, 1e-9)
				skills := make([]string, len(ranked))
				for i, r := range ranked {
					skills[i] = r.Skill
				}
				So(skills, ShouldContain, "postgresql")
				So(skills, ShouldContain, "pipelines")
			})

			Convey("And the stats should name the HTTP source", func() {
				stats := svc.GetStats()
				So(stats["listingSource"], ShouldEqual, "http")
				So(stats["circuitBreaker"], ShouldEqual, "closed")
			})
		})

		Convey("When generating a market-driven roadmap", func() {
			cfg, err := svc.GenerateRoadmap(ctx, 2, "platform", true)

			Convey("Then the configured ranking size is attached", func() {
				So(err, ShouldBeNil)
				So(cfg.SkillPriority, ShouldHaveLength, 3)
				So(*cfg.MarketDrivenSkillsCount, ShouldEqual, 3)
				So(cfg.MarketUpdatedAt, ShouldNotBeNil)
			})
		})

		Convey("When the job-market API is down", func() {
			healthy.Store(false)

			Convey("Then market trends fail as listings unavailable", func() {
				_, err := svc.MarketTrends(ctx, 50, 10)
				So(errors.Is(err, errkind.ErrListingsUnavailable), ShouldBeTrue)
			})

			Convey("Then roadmap generation degrades to the static config", func() {
				cfg, err := svc.GenerateRoadmap(ctx, 2, "platform", true)
				So(err, ShouldBeNil)
				So(cfg.MarketDriven(), ShouldBeFalse)
				So(cfg.SkillPriority, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started service", t, func() {
		a := writeBaseline(t)
		svc := service.New(service.WithArtifacts(a.ModelPath, a.ScalerPath))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When many goroutines predict and rank concurrently", func() {
			const workers = 16
			var wg sync.WaitGroup
			errs := make(chan error, workers*2)
			tiers := make([]model.Tier, workers)

			for i := 0; i < workers; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					p, err := svc.Predict(ctx, model.MetricVector{
						Engagement: 90, Velocity: 85, Mastery: 88, Credibility: 80, ExperienceLevel: 2,
					})
					if err != nil {
						errs <- err
						return
					}
					tiers[i] = p.Tier
				}(i)
				go func(i int) {
					defer wg.Done()
					if _, err := svc.MarketTrends(ctx, 20+i, 5); err != nil {
						errs <- fmt.Errorf("worker %d: %w", i, err)
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then every call succeeds with the same answer", func() {
				So(len(errs), ShouldEqual, 0)
				for _, tier := range tiers {
					So(tier, ShouldEqual, model.Advanced)
				}
			})
		})
	})
}

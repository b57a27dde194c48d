package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/pathwise/internal/app"
	"github.com/okian/pathwise/internal/config"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/scaler"
	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/internal/training"
	"github.com/okian/pathwise/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// writeBaseline writes baseline artifacts into a fresh temp dir.
func writeBaseline(t *testing.T) training.Artifacts {
	t.Helper()
	a, err := training.WriteArtifacts(t.TempDir(), training.Baseline(), scaler.Identity())
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	return a
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be ready before starting", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a service built from configuration", t, func() {
		cfg := config.New()
		cfg.MarketDecayEnabled = true
		svc := service.New(service.OptionsFromConfig(cfg)...)

		Convey("Then the configuration is reflected in its stats", func() {
			stats := svc.GetStats()
			So(stats["modelPath"], ShouldEqual, cfg.ModelPath)
			So(stats["decayEnabled"], ShouldEqual, true)
			So(stats["roadmapTopSkills"], ShouldEqual, cfg.RoadmapMarketTopSkills)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with baseline artifacts", t, func() {
		a := writeBaseline(t)
		svc := service.New(service.WithArtifacts(a.ModelPath, a.ScalerPath))
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully and be ready", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})

			Convey("And the stats should describe the running service", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["modelReady"], ShouldEqual, true)
				So(stats["scalerFallback"], ShouldEqual, false)
				So(stats["listingSource"], ShouldEqual, "simulator")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service whose model artifact is missing", t, func() {
		dir := t.TempDir()
		svc := service.New(service.WithArtifacts(filepath.Join(dir, "missing.json"), filepath.Join(dir, "scaler.json")))
		defer svc.Stop()
		ctx := context.Background()
		err := svc.Start(ctx)

		Convey("Then it starts but is not ready", func() {
			So(err, ShouldBeNil)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.GetStats()["modelError"], ShouldNotBeNil)
		})

		Convey("Then predictions report the model unavailable", func() {
			_, err := svc.Predict(ctx, model.MetricVector{})
			So(errors.Is(err, errkind.ErrModelUnavailable), ShouldBeTrue)
		})

		Convey("Then roadmaps are still generated", func() {
			cfg, err := svc.GenerateRoadmap(ctx, 1, "backend", false)
			So(err, ShouldBeNil)
			So(cfg.DifficultyLabel, ShouldEqual, "intermediate")
		})
	})

	Convey("Given a service whose scaler artifact is missing", t, func() {
		a := writeBaseline(t)
		So(os.Remove(a.ScalerPath), ShouldBeNil)

		Convey("When the scaler is not strict", func() {
			svc := service.New(service.WithArtifacts(a.ModelPath, a.ScalerPath))
			defer svc.Stop()
			err := svc.Start(context.Background())

			Convey("Then identity scaling is used", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
				So(svc.GetStats()["scalerFallback"], ShouldEqual, true)
			})
		})

		Convey("When the scaler is strict", func() {
			svc := service.New(service.WithArtifacts(a.ModelPath, a.ScalerPath), service.WithStrictScaler(true))
			defer svc.Stop()
			err := svc.Start(context.Background())

			Convey("Then the model is not loaded", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a service whose model artifact is corrupt", t, func() {
		dir := t.TempDir()
		modelPath := filepath.Join(dir, "roadmap_model.json")
		So(os.WriteFile(modelPath, []byte("{not json"), 0o600), ShouldBeNil)
		svc := service.New(service.WithArtifacts(modelPath, filepath.Join(dir, "scaler.json")))

		Convey("Then start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})

	Convey("Given a service with an invalid job-market URL", t, func() {
		a := writeBaseline(t)
		svc := service.New(
			service.WithArtifacts(a.ModelPath, a.ScalerPath),
			service.WithJobMarketAPI("::not a url", ""),
		)

		Convey("Then start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		a := writeBaseline(t)
		svc := service.New(service.WithArtifacts(a.ModelPath, a.ScalerPath))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
				So(svc.Ready(), ShouldBeFalse)
			})

			Convey("And operations should be refused", func() {
				_, err := svc.MarketTrends(ctx, 10, 5)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

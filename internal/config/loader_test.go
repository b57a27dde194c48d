package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/pathwise/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PATHWISE_ADDR", ":8080")
			_ = os.Setenv("PATHWISE_STRICT_SCALER", "true")
			_ = os.Setenv("PATHWISE_JOB_MARKET_API_URL", "https://jobs.example.com/v1/listings")
			_ = os.Setenv("PATHWISE_JOB_MARKET_RATE_LIMIT", "2.5")
			_ = os.Setenv("PATHWISE_MARKET_DECAY_ENABLED", "true")
			_ = os.Setenv("PATHWISE_SIMULATOR_SEED", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StrictScaler, convey.ShouldBeTrue)
				convey.So(cfg.JobMarketAPIURL, convey.ShouldEqual, "https://jobs.example.com/v1/listings")
				convey.So(cfg.JobMarketRateLimit, convey.ShouldEqual, 2.5)
				convey.So(cfg.MarketDecayEnabled, convey.ShouldBeTrue)
				convey.So(cfg.SimulatorSeed, convey.ShouldEqual, int64(7))
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
model_path: "/models/roadmap_model.json"
default_top_skills: 10
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PATHWISE_CONFIG", tmpFile)
			_ = os.Setenv("PATHWISE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                           // env
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/models/roadmap_model.json") // file
				convey.So(cfg.DefaultTopSkills, convey.ShouldEqual, 10)                    // file
				convey.So(cfg.DefaultListingsLimit, convey.ShouldEqual, 200)               // default
			})
		})

		convey.Convey("When loading metrics settings from file and env", func() {
			tmpFile := createTempConfigFile(`
metrics_subsystem: "api"
metrics_latency_buckets_ms: [5, 50, 500]
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PATHWISE_CONFIG", tmpFile)
			_ = os.Setenv("PATHWISE_METRICS_NAMESPACE", "pw")
			_ = os.Setenv("PATHWISE_METRICS_ENVIRONMENT", "staging")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they reach the metrics options", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "pw")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "api")
				convey.So(cfg.MetricsLatencyBucketsMS, convey.ShouldResemble, []float64{5, 50, 500})
				convey.So(cfg.MetricsEnvironment, convey.ShouldEqual, "staging")
				convey.So(cfg.MetricsOptions(), convey.ShouldHaveLength, 4)
			})
		})

		convey.Convey("When loading config with a dotenv file", func() {
			dir := t.TempDir()
			dotenv := filepath.Join(dir, "test.env")
			content := "PATHWISE_LOG_LEVEL=debug\nPATHWISE_ADDR=:7000\n"
			convey.So(os.WriteFile(dotenv, []byte(content), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("PATHWISE_ENV_FILE", dotenv)
			_ = os.Setenv("PATHWISE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then dotenv fills unset variables without overriding set ones", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PATHWISE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PATHWISE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PATHWISE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-numeric limit", func() {
			_ = os.Setenv("PATHWISE_MAX_TOP_SKILLS", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pathwise-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

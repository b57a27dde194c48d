// Package config defines service configuration and its loader.
//
// Values are layered from defaults, an optional .env file, an optional
// YAML file and PATHWISE_ environment variables, in that order.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/okian/pathwise/pkg/metrics"
)

var metricNamePart = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ModelPath and ScalerPath locate the classifier artifacts.
	ModelPath  string `koanf:"model_path"`
	ScalerPath string `koanf:"scaler_path"`

	// StrictScaler refuses to start on identity scaling when the scaler
	// artifact is missing.
	StrictScaler bool `koanf:"strict_scaler"`

	// JobMarketAPIURL selects the HTTP listing source; empty uses the simulator.
	JobMarketAPIURL   string `koanf:"job_market_api_url"`
	JobMarketAPIToken string `koanf:"job_market_api_token"`

	// JobMarketTimeoutMS bounds one listing fetch.
	JobMarketTimeoutMS int `koanf:"job_market_timeout_ms"`

	// JobMarketRateLimit and JobMarketRateBurst throttle the HTTP source.
	JobMarketRateLimit float64 `koanf:"job_market_rate_limit"`
	JobMarketRateBurst int     `koanf:"job_market_rate_burst"`

	// MarketTrendDecayDays is the half-life used when MarketDecayEnabled is set.
	MarketTrendDecayDays int  `koanf:"market_trend_decay_days"`
	MarketDecayEnabled   bool `koanf:"market_decay_enabled"`

	// DefaultListingsLimit and DefaultTopSkills apply when a market-trends
	// request omits them.
	DefaultListingsLimit int `koanf:"default_listings_limit"`
	DefaultTopSkills     int `koanf:"default_top_skills"`

	// RoadmapMarketTopSkills is the ranking size attached to market-driven roadmaps.
	RoadmapMarketTopSkills int `koanf:"roadmap_market_top_skills"`

	// MaxListingsLimit and MaxTopSkills cap market-trends requests.
	MaxListingsLimit int `koanf:"max_listings_limit"`
	MaxTopSkills     int `koanf:"max_top_skills"`

	// SimulatorSeed seeds the simulated listing source.
	SimulatorSeed int64 `koanf:"simulator_seed"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBucketsMS overrides the latency histogram buckets.
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`

	// MetricsEnvironment, when set, is attached to every metric as the
	// "environment" label.
	MetricsEnvironment string `koanf:"metrics_environment"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "json",
		Addr:                   ":8000",
		ModelPath:              "roadmap_model.json",
		ScalerPath:             "scaler.json",
		JobMarketTimeoutMS:     10_000,
		JobMarketRateLimit:     5,
		JobMarketRateBurst:     5,
		MarketTrendDecayDays:   30,
		DefaultListingsLimit:   200,
		DefaultTopSkills:       30,
		RoadmapMarketTopSkills: 25,
		MaxListingsLimit:       1000,
		MaxTopSkills:           100,
		SimulatorSeed:          42,
		MetricsNamespace:       "pathwise",
		MetricsSubsystem:       "recommender",
	}
}

// MetricsOptions translates the metrics settings into metrics options.
func (c *Config) MetricsOptions() []metrics.Option {
	opts := []metrics.Option{
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithSubsystem(c.MetricsSubsystem),
		metrics.WithHistogramBuckets(c.MetricsLatencyBucketsMS),
	}
	if c.MetricsEnvironment != "" {
		opts = append(opts, metrics.WithConstLabels(map[string]string{"environment": c.MetricsEnvironment}))
	}
	return opts
}

// JobMarketTimeout returns the listing fetch timeout.
func (c *Config) JobMarketTimeout() time.Duration {
	return time.Duration(c.JobMarketTimeoutMS) * time.Millisecond
}

// DecayHalfLifeDays returns the decay half-life, or 0 when decay is off.
func (c *Config) DecayHalfLifeDays() float64 {
	if !c.MarketDecayEnabled {
		return 0
	}
	return float64(c.MarketTrendDecayDays)
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json")
	case c.ModelPath == "":
		return invalid("model_path must not be empty")
	case c.JobMarketTimeoutMS <= 0:
		return invalid("job_market_timeout_ms must be positive")
	case c.JobMarketRateLimit <= 0 || c.JobMarketRateBurst <= 0:
		return invalid("job_market_rate_limit and job_market_rate_burst must be positive")
	case c.MarketDecayEnabled && c.MarketTrendDecayDays <= 0:
		return invalid("market_trend_decay_days must be positive when decay is enabled")
	case c.MaxListingsLimit <= 0 || c.MaxTopSkills <= 0:
		return invalid("max_listings_limit and max_top_skills must be positive")
	case c.DefaultListingsLimit <= 0 || c.DefaultListingsLimit > c.MaxListingsLimit:
		return invalid("default_listings_limit must be in [1, max_listings_limit]")
	case c.DefaultTopSkills <= 0 || c.DefaultTopSkills > c.MaxTopSkills:
		return invalid("default_top_skills must be in [1, max_top_skills]")
	case c.RoadmapMarketTopSkills <= 0:
		return invalid("roadmap_market_top_skills must be positive")
	case !metricNamePart.MatchString(c.MetricsNamespace):
		return invalid("metrics_namespace must be a valid metric name prefix")
	case c.MetricsSubsystem != "" && !metricNamePart.MatchString(c.MetricsSubsystem):
		return invalid("metrics_subsystem must be a valid metric name part")
	case !validBuckets(c.MetricsLatencyBucketsMS):
		return invalid("metrics_latency_buckets_ms must be positive and strictly increasing")
	}
	if c.JobMarketAPIURL != "" {
		if _, err := url.ParseRequestURI(c.JobMarketAPIURL); err != nil {
			return fmt.Errorf("%w: job_market_api_url: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

func validBuckets(b []float64) bool {
	prev := 0.0
	for _, v := range b {
		if v <= prev {
			return false
		}
		prev = v
	}
	return true
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

// Package service builds the recommendation components once at startup and
// exposes them to the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/pathwise/internal/adapters/listings"
	"github.com/okian/pathwise/internal/config"
	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/demand"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/recommend"
	"github.com/okian/pathwise/internal/domain/types"
	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/pkg/logger"
	"github.com/okian/pathwise/pkg/metrics"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	classifier   *classifier.Classifier
	source       listings.Source
	orchestrator *recommend.Orchestrator

	// Configuration
	modelPath        string
	scalerPath       string
	strictScaler     bool
	apiURL           string
	apiToken         string
	fetchTimeout     time.Duration
	rateLimit        float64
	rateBurst        int
	decayHalfLife    float64
	simulatorSeed    int64
	roadmapTopSkills int

	// State
	started   bool
	startedAt time.Time
	modelErr  error

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifacts sets the classifier artifact paths.
func WithArtifacts(modelPath, scalerPath string) Option {
	return func(s *Service) {
		if modelPath != "" {
			s.modelPath = modelPath
		}
		if scalerPath != "" {
			s.scalerPath = scalerPath
		}
	}
}

// WithStrictScaler makes a missing scaler artifact fatal for the model.
func WithStrictScaler(strict bool) Option {
	return func(s *Service) { s.strictScaler = strict }
}

// WithJobMarketAPI selects the HTTP listing source.
func WithJobMarketAPI(url, token string) Option {
	return func(s *Service) {
		s.apiURL = url
		s.apiToken = token
	}
}

// WithFetchTimeout bounds each listing fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithRateLimit throttles the HTTP listing source.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Service) {
		if perSecond > 0 && burst > 0 {
			s.rateLimit = perSecond
			s.rateBurst = burst
		}
	}
}

// WithDecay enables time-decay weighting of listings with the given half-life.
func WithDecay(halfLifeDays float64) Option {
	return func(s *Service) { s.decayHalfLife = halfLifeDays }
}

// WithSimulatorSeed seeds the simulated listing source.
func WithSimulatorSeed(seed int64) Option {
	return func(s *Service) { s.simulatorSeed = seed }
}

// WithRoadmapTopSkills sets the ranking size attached to market-driven roadmaps.
func WithRoadmapTopSkills(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.roadmapTopSkills = n
		}
	}
}

// WithSource injects a listing source, bypassing source selection.
func WithSource(src listings.Source) Option {
	return func(s *Service) { s.source = src }
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OptionsFromConfig maps loaded configuration onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithArtifacts(cfg.ModelPath, cfg.ScalerPath),
		WithStrictScaler(cfg.StrictScaler),
		WithJobMarketAPI(cfg.JobMarketAPIURL, cfg.JobMarketAPIToken),
		WithFetchTimeout(cfg.JobMarketTimeout()),
		WithRateLimit(cfg.JobMarketRateLimit, cfg.JobMarketRateBurst),
		WithDecay(cfg.DecayHalfLifeDays()),
		WithSimulatorSeed(cfg.SimulatorSeed),
		WithRoadmapTopSkills(cfg.RoadmapMarketTopSkills),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath:        "roadmap_model.json",
		scalerPath:       "scaler.json",
		fetchTimeout:     recommend.DefaultFetchTimeout,
		rateLimit:        listings.DefaultRateLimit,
		rateBurst:        listings.DefaultRateBurst,
		simulatorSeed:    listings.DefaultSimulatorSeed,
		roadmapTopSkills: 25,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the classifier artifacts, selects the listing source and
// wires the orchestrator. A missing model does not prevent startup: the
// service comes up not ready and predictions report the model unavailable.
// A corrupt artifact is returned as an error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	c, err := classifier.Load(s.modelPath, s.scalerPath, s.strictScaler)
	switch {
	case err == nil:
		s.classifier = c
		s.modelErr = nil
		if c.ScalerFallback() {
			s.logger.Warn(ctx, "scaler artifact missing, using identity scaling",
				logger.String("scalerPath", s.scalerPath),
			)
		}
	case errors.Is(err, errkind.ErrModelUnavailable):
		s.modelErr = err
		s.logger.Warn(ctx, "classifier unavailable, predictions disabled",
			logger.String("modelPath", s.modelPath),
			logger.Error(err),
		)
	default:
		return errkind.Wrap("service.start", err)
	}
	metrics.UpdateModelReady(s.classifier != nil)
	metrics.UpdateScalerFallback(s.classifier != nil && s.classifier.ScalerFallback())

	if s.source == nil {
		src, err := s.buildSource()
		if err != nil {
			return errkind.Wrap("service.start", err)
		}
		s.source = src
	}

	opts := []recommend.Option{
		recommend.WithFetchTimeout(s.fetchTimeout),
		recommend.WithLogger(s.logger.Named("recommend")),
	}
	if s.classifier != nil {
		opts = append(opts, recommend.WithPredictor(s.classifier))
	}
	if s.decayHalfLife > 0 {
		opts = append(opts, recommend.WithAnalyzer(demand.NewAnalyzer(demand.WithDecay(s.decayHalfLife))))
	}
	orch, err := recommend.New(s.source, opts...)
	if err != nil {
		return errkind.Wrap("service.start", err)
	}
	s.orchestrator = orch

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "recommendation service started",
		logger.Bool("modelReady", s.classifier != nil),
		logger.String("listingSource", s.sourceName()),
		logger.Bool("decay", s.decayHalfLife > 0),
	)

	return nil
}

func (s *Service) buildSource() (listings.Source, error) {
	if s.apiURL == "" {
		return listings.NewSimulator(listings.WithSeed(s.simulatorSeed)), nil
	}
	return listings.NewHTTPSource(s.apiURL,
		listings.WithToken(s.apiToken),
		listings.WithTimeout(s.fetchTimeout),
		listings.WithRateLimit(s.rateLimit, s.rateBurst),
		listings.WithSourceLogger(s.logger.Named("listings")),
	)
}

func (s *Service) sourceName() string {
	switch s.source.(type) {
	case *listings.Simulator:
		return "simulator"
	case *listings.HTTPSource:
		return "http"
	default:
		return "custom"
	}
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

func (s *Service) running() (*recommend.Orchestrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.orchestrator, nil
}

// Ready reports whether the service is started with a loaded classifier.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && s.classifier != nil
}

// Predict classifies a learner's metrics.
func (s *Service) Predict(ctx context.Context, m model.MetricVector) (classifier.Prediction, error) {
	o, err := s.running()
	if err != nil {
		return classifier.Prediction{}, errkind.WrapKind("service.predict", errkind.ErrModelUnavailable, err)
	}
	return o.Predict(ctx, m)
}

// GenerateRoadmap builds a roadmap configuration. Market-driven requests
// use the configured roadmap ranking size.
func (s *Service) GenerateRoadmap(ctx context.Context, tier int, topic string, includeMarket bool) (model.RoadmapConfig, error) {
	o, err := s.running()
	if err != nil {
		return model.RoadmapConfig{}, errkind.WrapKind("service.generate_roadmap", errkind.ErrInternal, err)
	}
	return o.GenerateConfig(ctx, recommend.Request{
		Tier:                tier,
		Topic:               topic,
		IncludeMarketSkills: includeMarket,
		TopSkills:           s.roadmapTopSkills,
	})
}

// MarketTrends ranks the topN skills across up to limit listings.
func (s *Service) MarketTrends(ctx context.Context, limit, topN int) ([]types.SkillRank, error) {
	o, err := s.running()
	if err != nil {
		return nil, errkind.WrapKind("service.market_trends", errkind.ErrListingsUnavailable, err)
	}
	return o.MarketRanking(ctx, limit, topN)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"modelReady":       s.classifier != nil,
		"modelPath":        s.modelPath,
		"scalerPath":       s.scalerPath,
		"strictScaler":     s.strictScaler,
		"decayEnabled":     s.decayHalfLife > 0,
		"roadmapTopSkills": s.roadmapTopSkills,
	}
	if s.classifier != nil {
		stats["scalerFallback"] = s.classifier.ScalerFallback()
	}
	if s.modelErr != nil {
		stats["modelError"] = s.modelErr.Error()
	}
	if s.started {
		stats["listingSource"] = s.sourceName()
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
		if h, ok := s.source.(*listings.HTTPSource); ok {
			stats["circuitBreaker"] = h.BreakerState()
		}
	}
	return stats
}

// Package recommend composes the classifier, roadmap builder and demand
// analyzer into the operations the API exposes.
//
// Config generation never fails because of the job market: when listings
// cannot be fetched or ranked the static configuration is returned and the
// degradation is logged and counted. The market-trends path is strict and
// surfaces source failures as errkind.ErrListingsUnavailable.
package recommend

import (
	"context"
	"time"

	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/demand"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/roadmap"
	"github.com/okian/pathwise/internal/domain/types"
	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/pkg/logger"
	"github.com/okian/pathwise/pkg/metrics"
)

// Defaults applied when a request leaves a bound unset.
const (
	DefaultListingLimit = 200
	DefaultTopSkills    = 30
	DefaultFetchTimeout = 10 * time.Second
)

// Config paths recorded in metrics.
const (
	pathStatic   = "static"
	pathMarket   = "market"
	pathDegraded = "degraded"
)

// Source supplies job listings for market ranking.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]model.JobListing, error)
}

// Request describes one roadmap configuration request.
type Request struct {
	Tier                int
	Topic               string
	IncludeMarketSkills bool
	ListingLimit        int
	TopSkills           int
}

// Orchestrator wires the recommendation components together. All
// collaborators are built before the orchestrator and never mutated, so it
// is safe for concurrent use.
type Orchestrator struct {
	source       Source
	predictor    classifier.Predictor
	analyzer     *demand.Analyzer
	fetchTimeout time.Duration
	logger       logger.Logger
	now          func() time.Time
}

// New creates an orchestrator over a listing source.
func New(source Source, opts ...Option) (*Orchestrator, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	o := &Orchestrator{
		source:       source,
		analyzer:     demand.NewAnalyzer(),
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger.Nop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// ModelReady reports whether a classifier is wired in.
func (o *Orchestrator) ModelReady() bool {
	return o.predictor != nil
}

// Predict classifies a metric vector.
func (o *Orchestrator) Predict(ctx context.Context, m model.MetricVector) (classifier.Prediction, error) {
	const op = "recommend.predict"
	if o.predictor == nil {
		err := errkind.NewKind(op, errkind.ErrModelUnavailable)
		metrics.RecordPredictionError(kindLabel(err))
		return classifier.Prediction{}, err
	}

	start := time.Now()
	p, err := o.predictor.Predict(ctx, m)
	if err != nil {
		metrics.RecordPredictionError(kindLabel(err))
		return classifier.Prediction{}, errkind.Wrap(op, err)
	}
	metrics.RecordPrediction(p.Label, float64(time.Since(start).Microseconds())/1000)
	return p, nil
}

// GenerateConfig builds a roadmap configuration, optionally enriched with
// the current skill demand ranking.
func (o *Orchestrator) GenerateConfig(ctx context.Context, req Request) (model.RoadmapConfig, error) {
	if err := ctx.Err(); err != nil {
		return model.RoadmapConfig{}, errkind.Wrap("recommend.generate_config", err)
	}
	if !req.IncludeMarketSkills {
		metrics.RecordRoadmapConfig(pathStatic)
		return roadmap.Build(req.Tier, req.Topic, nil), nil
	}

	limit := req.ListingLimit
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	topN := req.TopSkills
	if topN <= 0 {
		topN = DefaultTopSkills
	}

	ranked, err := o.MarketRanking(ctx, limit, topN)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.RoadmapConfig{}, errkind.Wrap("recommend.generate_config", ctxErr)
		}
		o.logger.Warn(ctx, "market data unavailable, using static roadmap config",
			logger.Int("tier", req.Tier),
			logger.Error(err),
		)
		metrics.RecordMarketDegraded()
		metrics.RecordRoadmapConfig(pathDegraded)
		return roadmap.Build(req.Tier, req.Topic, nil), nil
	}

	cfg := roadmap.Build(req.Tier, req.Topic, ranked)
	updated := o.now().UTC()
	count := len(ranked)
	cfg.MarketUpdatedAt = &updated
	cfg.MarketDrivenSkillsCount = &count
	metrics.RecordRoadmapConfig(pathMarket)
	return cfg, nil
}

// MarketRanking fetches up to limit listings and ranks the topN skills.
func (o *Orchestrator) MarketRanking(ctx context.Context, limit, topN int) ([]types.SkillRank, error) {
	const op = "recommend.market_ranking"
	if limit <= 0 {
		return nil, errkind.WrapKind(op, errkind.ErrInvalidInput, ErrInvalidLimit)
	}
	if topN <= 0 {
		return nil, errkind.WrapKind(op, errkind.ErrInvalidInput, demand.ErrInvalidTopN)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	batch, err := o.source.Fetch(fetchCtx, limit)
	if err != nil {
		return nil, errkind.WrapKind(op, errkind.ErrListingsUnavailable, err)
	}

	ranked, err := o.analyzer.Analyze(batch, topN)
	if err != nil {
		return nil, errkind.Wrap(op, err)
	}
	metrics.RecordSkillsRanked(len(ranked))
	o.logger.Debug(ctx, "market ranking computed",
		logger.Int("listings", len(batch)),
		logger.Int("skills", len(ranked)),
		logger.Bool("decay", o.analyzer.Decaying()),
	)
	return ranked, nil
}

func kindLabel(err error) string {
	switch errkind.KindOf(err) {
	case errkind.ErrInvalidInput:
		return "invalid_input"
	case errkind.ErrModelUnavailable:
		return "model_unavailable"
	case errkind.ErrListingsUnavailable:
		return "listings_unavailable"
	default:
		return "internal"
	}
}

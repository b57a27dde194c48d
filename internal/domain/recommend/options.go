package recommend

import (
	"time"

	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/demand"
	"github.com/okian/pathwise/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithPredictor sets the difficulty classifier. Without one Predict reports
// the model as unavailable.
func WithPredictor(p classifier.Predictor) Option {
	return func(o *Orchestrator) { o.predictor = p }
}

// WithAnalyzer replaces the demand analyzer.
func WithAnalyzer(a *demand.Analyzer) Option {
	return func(o *Orchestrator) {
		if a != nil {
			o.analyzer = a
		}
	}
}

// WithFetchTimeout bounds each listing fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the clock used for market timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Package demand mines skill mentions from job listings and ranks skills by
// their share of demand.
package demand

import (
	"time"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/types"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithDecay enables time-decay weighting with the given half-life in days.
func WithDecay(halfLifeDays float64) Option {
	return func(a *Analyzer) {
		if halfLifeDays > 0 {
			a.halfLifeDays = halfLifeDays
		}
	}
}

// WithClock overrides the reference time used for decay.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// Analyzer runs extraction and ranking as one step. It is immutable and
// safe for concurrent use.
type Analyzer struct {
	halfLifeDays float64
	now          func() time.Time
}

// NewAnalyzer creates an analyzer; without WithDecay it ranks by raw frequency.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decaying reports whether time-decay weighting is enabled.
func (a *Analyzer) Decaying() bool { return a.halfLifeDays > 0 }

// Frequency extracts mentions from listings using the configured weighting.
func (a *Analyzer) Frequency(listings []model.JobListing) *Frequency {
	if !a.Decaying() {
		return Extract(listings)
	}
	return ExtractWeighted(listings, a.now(), a.halfLifeDays)
}

// Analyze extracts and ranks in one call.
func (a *Analyzer) Analyze(listings []model.JobListing, topN int) ([]types.SkillRank, error) {
	return Rank(a.Frequency(listings), topN)
}

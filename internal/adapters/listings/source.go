// Package listings provides job listing sources: a seeded simulator and an
// HTTP client for an external job-market API.
package listings

import (
	"context"
	"time"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/pkg/metrics"
)

// Source returns a batch of at most limit listings.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]model.JobListing, error)
}

// Fetch outcomes recorded in metrics.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

func recordFetch(source string, start time.Time, n int, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	metrics.RecordListingFetch(source, outcome, float64(time.Since(start).Microseconds())/1000, n)
}

package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// outcome is the result of one submitted prediction.
type outcome struct {
	status int
	label  string
	err    error
}

// Run checks service health, submits cfg.Requests generated predictions
// with cfg.Workers workers and returns the aggregated statistics.
func Run(ctx context.Context, cfg *Config, l logger.Logger) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Nop()
	}

	stats := &Stats{
		Tiers:     map[string]int{},
		Statuses:  map[int]int{},
		StartTime: time.Now(),
	}

	l.Info(ctx, "starting prediction load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	status, err := c.health(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}

	vectors := NewGenerator(cfg.Seed).Batch(cfg.Requests)
	stats.Generated = len(vectors)

	jobs := make(chan model.MetricVector, cfg.Workers*workerChannelMultiplier)
	results := make(chan outcome, cfg.Workers*workerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				status, p, err := c.predict(ctx, m)
				results <- outcome{status: status, label: p.Label, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, m := range vectors {
			select {
			case <-ctx.Done():
				return
			case jobs <- m:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	lastReport := time.Now()
	for r := range results {
		stats.Submitted++
		if r.status != 0 {
			stats.Statuses[r.status]++
		}
		if r.err == nil && r.status == http.StatusOK {
			stats.Successful++
			stats.Tiers[r.label]++
		} else {
			stats.Failed++
			if cfg.Verbose {
				l.Warn(ctx, "prediction failed", logger.Int("status", r.status), logger.Error(r.err))
			}
		}
		if time.Since(lastReport) >= progressInterval {
			lastReport = time.Now()
			l.Info(ctx, "progress",
				logger.Int("submitted", stats.Submitted),
				logger.Int("total", len(vectors)),
				logger.Int("failed", stats.Failed),
			)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report(ctx, l, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load run interrupted: %w", err)
	}
	return stats, nil
}

// report logs the final statistics.
func report(ctx context.Context, l logger.Logger, s *Stats) {
	fields := []logger.Field{
		logger.Int("generated", s.Generated),
		logger.Int("submitted", s.Submitted),
		logger.Int("successful", s.Successful),
		logger.Int("failed", s.Failed),
		logger.Duration("duration", s.Duration),
		logger.Float64("successRate", s.SuccessRate()),
		logger.Float64("requestsPerSecond", s.Throughput()),
	}
	for t := model.Tier(0); t < model.NumTiers; t++ {
		fields = append(fields, logger.Int(t.String(), s.Tiers[t.String()]))
	}
	l.Info(ctx, "final statistics", fields...)
}

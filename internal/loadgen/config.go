// Package loadgen drives concurrent prediction traffic against a running
// service and summarizes the outcome.
package loadgen

import (
	"errors"
	"time"
)

// Errors returned by Run.
var (
	ErrInvalidConfig = errors.New("loadgen: invalid config")
	ErrUnhealthy     = errors.New("loadgen: service is not healthy")
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of predictions to submit
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Seed for metric generation
	Verbose  bool          // Log every failed request
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base URL is required"))
	case c.Requests < 1:
		return errors.Join(ErrInvalidConfig, errors.New("requests must be at least 1"))
	case c.Workers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be at least 1"))
	case c.Timeout <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("timeout must be positive"))
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Failed     int
	Tiers      map[string]int // predicted label -> count
	Statuses   map[int]int    // HTTP status -> count
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// SuccessRate is the successful share of submitted requests, in percent.
func (s *Stats) SuccessRate() float64 {
	if s.Submitted == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Submitted) * 100
}

// Throughput is submitted requests per second.
func (s *Stats) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Submitted) / s.Duration.Seconds()
}

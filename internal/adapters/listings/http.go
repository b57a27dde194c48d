package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/pathwise/internal/domain/dedupe"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/pkg/logger"
	"github.com/okian/pathwise/pkg/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const httpSource = "http"

// HTTP source defaults.
const (
	DefaultBreakerName     = "job-market-api"
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultPageSize        = 100
	DefaultRateLimit       = 5.0
	DefaultRateBurst       = 5
	defaultMaxPages        = 50
	defaultTripFailures    = 5
	defaultHalfOpenProbes  = 1
	defaultBreakerInterval = time.Minute
	defaultBreakerTimeout  = 30 * time.Second
	maxErrorBody           = 512
)

// ErrNoBaseURL indicates an HTTPSource without an endpoint.
var ErrNoBaseURL = errors.New("listings: base URL is required")

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithToken sets the bearer token.
func WithToken(token string) HTTPOption {
	return func(s *HTTPSource) { s.token = token }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithRateLimit sets the client-side request rate and burst.
func WithRateLimit(perSecond float64, burst int) HTTPOption {
	return func(s *HTTPSource) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithPageSize sets the number of listings requested per page.
func WithPageSize(n int) HTTPOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithBreaker tunes the circuit breaker: it opens after tripAfter
// consecutive failures and probes again after openFor.
func WithBreaker(tripAfter uint32, openFor time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if tripAfter > 0 {
			s.tripAfter = tripAfter
		}
		if openFor > 0 {
			s.openFor = openFor
		}
	}
}

// WithSourceLogger sets the logger for breaker transitions.
func WithSourceLogger(l logger.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// HTTPSource pages through an external job-market API. Each page request
// waits on a rate limiter and runs through a circuit breaker. Listings
// repeated across pages are dropped by ID.
type HTTPSource struct {
	base      *url.URL
	token     string
	client    *http.Client
	limiter   *rate.Limiter
	pageSize  int
	maxPages  int
	tripAfter uint32
	openFor   time.Duration
	cb        *gobreaker.CircuitBreaker[[]model.JobListing]
	logger    logger.Logger
}

// NewHTTPSource creates a source for the API at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) (*HTTPSource, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("listings: invalid base URL: %w", err)
	}
	s := &HTTPSource{
		base:      base,
		client:    &http.Client{Timeout: DefaultHTTPTimeout},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateBurst),
		pageSize:  DefaultPageSize,
		maxPages:  defaultMaxPages,
		tripAfter: defaultTripFailures,
		openFor:   defaultBreakerTimeout,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateCircuitBreakerState(DefaultBreakerName, stateToFloat(gobreaker.StateClosed))
	s.cb = gobreaker.NewCircuitBreaker[[]model.JobListing](gobreaker.Settings{
		Name:        DefaultBreakerName,
		MaxRequests: defaultHalfOpenProbes,
		Interval:    defaultBreakerInterval,
		Timeout:     s.openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.tripAfter
		},
		// A caller that goes away says nothing about the API's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", stateToString(from)),
				logger.String("to", stateToString(to)),
			)
			metrics.UpdateCircuitBreakerState(name, stateToFloat(to))
			metrics.RecordCircuitBreakerTransition(name, stateToString(from), stateToString(to))
		},
	})
	return s, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, limit int) ([]model.JobListing, error) {
	start := time.Now()
	out, err := s.fetch(ctx, limit)
	recordFetch(httpSource, start, len(out), err)
	return out, err
}

// BreakerState reports the current circuit breaker state.
func (s *HTTPSource) BreakerState() string {
	return stateToString(s.cb.State())
}

func (s *HTTPSource) fetch(ctx context.Context, limit int) ([]model.JobListing, error) {
	if limit <= 0 {
		return []model.JobListing{}, nil
	}
	// Page size stays fixed for the whole fetch so page offsets line up.
	size := min(s.pageSize, limit)
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.maxPages * size))
	out := make([]model.JobListing, 0, limit)

	for page := 1; page <= s.maxPages && len(out) < limit; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("listings: rate limiter: %w", err)
		}
		raw, err := s.page(ctx, page, size)
		if err != nil {
			return nil, err
		}
		fresh := dedupe.Filter(ctx, seen, raw, func(l model.JobListing) string { return l.ID })
		out = append(out, fresh[:min(len(fresh), limit-len(out))]...)

		// A short page is the last one; a page with nothing new means the
		// API is not advancing.
		if len(raw) < size || len(fresh) == 0 {
			break
		}
	}
	return out, nil
}

func (s *HTTPSource) page(ctx context.Context, page, size int) ([]model.JobListing, error) {
	batch, err := s.cb.Execute(func() ([]model.JobListing, error) {
		return s.get(ctx, page, size)
	})
	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(DefaultBreakerName, "success")
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(DefaultBreakerName, "rejected")
	case errors.Is(err, context.Canceled):
		metrics.RecordCircuitBreakerRequest(DefaultBreakerName, "cancelled")
	default:
		metrics.RecordCircuitBreakerRequest(DefaultBreakerName, "failure")
	}
	if err != nil {
		return nil, fmt.Errorf("listings: page %d: %w", page, err)
	}
	return batch, nil
}

func (s *HTTPSource) get(ctx context.Context, page, size int) ([]model.JobListing, error) {
	u := *s.base
	q := u.Query()
	q.Set("limit", strconv.Itoa(size))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return decodeListings(body)
}

// decodeListings accepts a bare array or an object with a "listings" array.
func decodeListings(body []byte) ([]model.JobListing, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var out []model.JobListing
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode listings: %w", err)
		}
		return out, nil
	}
	var env struct {
		Listings []model.JobListing `json:"listings"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return env.Listings, nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

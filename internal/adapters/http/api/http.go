// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/types"
	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/internal/validation"
	"github.com/okian/pathwise/pkg/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	RoadmapDependencies
	MarketDependencies
	ReadyChecker
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	roadmapHandler *RoadmapHandler
	marketHandler  *MarketHandler
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	marketLimits MarketLimits
	logger       logger.Logger
}

// WithMarketLimits sets defaults and caps for market-trends requests.
func WithMarketLimits(l MarketLimits) Option {
	return func(o *serverOptions) { o.marketLimits = l }
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{marketLimits: DefaultMarketLimits(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		predictHandler: NewPredictHandler(deps, o.logger),
		roadmapHandler: NewRoadmapHandler(deps, o.logger),
		marketHandler:  NewMarketHandler(deps, o.marketLimits, o.logger),
		logger:         o.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.Handler {
		return Chain(MetricsMiddleware(h, endpoint), RequestIDMiddleware, CORSMiddleware)
	}
	mux.Handle("/health", wrap(s.healthHandler.HandleHealth, "health"))
	mux.Handle("/readyz", wrap(s.healthHandler.HandleReady, "readyz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.Handle("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/predict-difficulty", wrap(s.predictHandler.HandlePredict, "predict_difficulty"))
	mux.Handle("/generate-roadmap", wrap(s.roadmapHandler.HandleGenerate, "generate_roadmap"))
	mux.Handle("/update-market-trends", wrap(s.marketHandler.HandleUpdate, "update_market_trends"))
}

// predictRequest mirrors the OpenAPI schema for POST /predict-difficulty.
// Pointers distinguish a missing field from an explicit zero.
type predictRequest struct {
	Engagement      *float64 `json:"engagement" validate:"required,gte=0,lte=100"`
	Velocity        *float64 `json:"velocity" validate:"required,gte=0,lte=100"`
	Mastery         *float64 `json:"mastery" validate:"required,gte=0,lte=100"`
	Credibility     *float64 `json:"credibility" validate:"required,gte=0,lte=100"`
	ExperienceLevel *int     `json:"experience_level" validate:"required,gte=0,lte=2"`
}

func (r predictRequest) metrics() model.MetricVector {
	return model.MetricVector{
		Engagement:      *r.Engagement,
		Velocity:        *r.Velocity,
		Mastery:         *r.Mastery,
		Credibility:     *r.Credibility,
		ExperienceLevel: *r.ExperienceLevel,
	}
}

type predictResponse struct {
	Success           bool                    `json:"success"`
	RoadmapDifficulty int                     `json:"roadmap_difficulty"`
	Difficulty        int                     `json:"difficulty"`
	Label             string                  `json:"label"`
	Probabilities     [model.NumTiers]float64 `json:"probabilities"`
}

func newPredictResponse(p classifier.Prediction) predictResponse {
	return predictResponse{
		Success:           true,
		RoadmapDifficulty: int(p.Tier),
		Difficulty:        int(p.Tier),
		Label:             p.Label,
		Probabilities:     p.Probabilities,
	}
}

// roadmapRequest mirrors the OpenAPI schema for POST /generate-roadmap.
type roadmapRequest struct {
	RoadmapDifficulty   *int    `json:"roadmap_difficulty" validate:"required,gte=0,lte=2"`
	Topic               *string `json:"topic"`
	IncludeMarketSkills bool    `json:"include_market_skills"`
}

type roadmapResponse struct {
	Success       bool                `json:"success"`
	RoadmapConfig model.RoadmapConfig `json:"roadmap_config"`
}

// marketRequest mirrors the OpenAPI schema for POST /update-market-trends.
// Bounds are checked against MarketLimits after defaults are applied.
type marketRequest struct {
	JobListingsLimit *int `json:"job_listings_limit" validate:"omitempty,gte=1"`
	TopSkills        *int `json:"top_skills" validate:"omitempty,gte=1"`
}

type marketResponse struct {
	Success     bool              `json:"success"`
	SkillDemand []types.SkillRank `json:"skill_demand"`
	Count       int               `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor maps an error kind to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch errkind.KindOf(err) {
	case errkind.ErrInvalidInput:
		return http.StatusBadRequest, "bad_request"
	case errkind.ErrModelUnavailable:
		return http.StatusServiceUnavailable, "model_unavailable"
	case errkind.ErrListingsUnavailable:
		return http.StatusServiceUnavailable, "listings_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeKindError writes err with its mapped status. Server-side failures are
// logged and their detail is not sent to the client.
func writeKindError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, "request failed",
			logger.String("op", op),
			logger.String("requestId", RequestIDFrom(ctx)),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	if status == http.StatusInternalServerError {
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}

// decodeBody decodes a JSON body into v. An empty body is allowed only when
// allowEmpty is set; unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	const op = "api.decode"
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return errkind.WrapKind(op, errkind.ErrInvalidInput, ErrBodyTooBig)
		}
		return errkind.WrapKind(op, errkind.ErrInvalidInput, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if allowEmpty {
			return nil
		}
		return errkind.WrapKind(op, errkind.ErrInvalidInput, fmt.Errorf("%w: empty body", ErrBadRequest))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errkind.WrapKind(op, errkind.ErrInvalidInput, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}
	return nil
}

// decodeAndValidate decodes the body and runs struct validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	if err := decodeBody(w, r, v, allowEmpty); err != nil {
		return err
	}
	return validation.Struct(v)
}

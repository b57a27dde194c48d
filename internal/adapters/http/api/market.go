package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/pathwise/internal/domain/types"
	"github.com/okian/pathwise/internal/errkind"
	"github.com/okian/pathwise/pkg/logger"
)

// MarketDependencies defines the interface for market trend ranking.
type MarketDependencies interface {
	MarketTrends(ctx context.Context, limit, topN int) ([]types.SkillRank, error)
}

// MarketLimits holds the defaults and caps of market-trends requests.
type MarketLimits struct {
	DefaultListings int
	DefaultTop      int
	MaxListings     int
	MaxTop          int
}

// DefaultMarketLimits returns the stock request bounds.
func DefaultMarketLimits() MarketLimits {
	return MarketLimits{DefaultListings: 200, DefaultTop: 30, MaxListings: 1000, MaxTop: 100}
}

// MarketHandler handles market trend requests.
type MarketHandler struct {
	deps   MarketDependencies
	limits MarketLimits
	logger logger.Logger
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(deps MarketDependencies, limits MarketLimits, l logger.Logger) *MarketHandler {
	return &MarketHandler{deps: deps, limits: limits, logger: l}
}

// HandleUpdate handles POST /update-market-trends requests. The body is optional.
func (h *MarketHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_market_trends"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req marketRequest
	if err := decodeAndValidate(w, r, &req, true); err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	limit, top, err := h.bounds(req)
	if err != nil {
		writeKindError(r.Context(), w, h.logger, op, errkind.WrapKind(op, errkind.ErrInvalidInput, err))
		return
	}
	ranked, err := h.deps.MarketTrends(r.Context(), limit, top)
	if err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, marketResponse{Success: true, SkillDemand: ranked, Count: len(ranked)})
}

func (h *MarketHandler) bounds(req marketRequest) (int, int, error) {
	limit, top := h.limits.DefaultListings, h.limits.DefaultTop
	if req.JobListingsLimit != nil {
		limit = *req.JobListingsLimit
	}
	if req.TopSkills != nil {
		top = *req.TopSkills
	}
	if limit > h.limits.MaxListings {
		return 0, 0, fmt.Errorf("job_listings_limit must be less than or equal to %d", h.limits.MaxListings)
	}
	if top > h.limits.MaxTop {
		return 0, 0, fmt.Errorf("top_skills must be less than or equal to %d", h.limits.MaxTop)
	}
	return limit, top, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/pkg/logger"
)

// RoadmapDependencies defines the interface for roadmap generation.
type RoadmapDependencies interface {
	GenerateRoadmap(ctx context.Context, tier int, topic string, includeMarket bool) (model.RoadmapConfig, error)
}

// RoadmapHandler handles roadmap generation requests.
type RoadmapHandler struct {
	deps   RoadmapDependencies
	logger logger.Logger
}

// NewRoadmapHandler creates a new roadmap handler.
func NewRoadmapHandler(deps RoadmapDependencies, l logger.Logger) *RoadmapHandler {
	return &RoadmapHandler{deps: deps, logger: l}
}

// HandleGenerate handles POST /generate-roadmap requests.
func (h *RoadmapHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_roadmap"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req roadmapRequest
	if err := decodeAndValidate(w, r, &req, false); err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	var topic string
	if req.Topic != nil {
		topic = *req.Topic
	}
	cfg, err := h.deps.GenerateRoadmap(r.Context(), *req.RoadmapDifficulty, topic, req.IncludeMarketSkills)
	if err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, roadmapResponse{Success: true, RoadmapConfig: cfg})
}

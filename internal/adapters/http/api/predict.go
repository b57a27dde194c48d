package api

import (
	"context"
	"net/http"

	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/pkg/logger"
)

// PredictDependencies defines the interface for difficulty prediction.
type PredictDependencies interface {
	Predict(ctx context.Context, m model.MetricVector) (classifier.Prediction, error)
}

// PredictHandler handles difficulty prediction requests.
type PredictHandler struct {
	deps   PredictDependencies
	logger logger.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies, l logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, logger: l}
}

// HandlePredict handles POST /predict-difficulty requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_difficulty"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req predictRequest
	if err := decodeAndValidate(w, r, &req, false); err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	p, err := h.deps.Predict(r.Context(), req.metrics())
	if err != nil {
		writeKindError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newPredictResponse(p))
}

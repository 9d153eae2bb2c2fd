package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/riskboard/pkg/logger"
)

const predictionFailed = "Prediction failed"

type predictResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// PredictHandler answers POST /predict.
type PredictHandler struct {
	model PredictModel
	log   logger.Logger
}

// NewPredictHandler creates a prediction handler scoring with m.
func NewPredictHandler(m PredictModel) *PredictHandler {
	return &PredictHandler{model: m, log: logger.Nop()}
}

// HandlePredict scores the posted form fields. Any failure answers 500 with
// an error body.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var inputs map[string]any
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil || inputs == nil {
		h.log.Warn(r.Context(), "prediction input rejected", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, failureResponse{Error: predictionFailed})
		return
	}

	class, p, err := h.model.Score(inputs)
	if err != nil {
		h.log.Warn(r.Context(), "prediction failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, failureResponse{Error: predictionFailed})
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Prediction: class, Probability: p})
}

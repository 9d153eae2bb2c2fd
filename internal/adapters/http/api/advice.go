package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/riskboard/pkg/logger"
)

const noAdviceText = "⚠️ No advice generated."

type adviceRequest struct {
	Inputs map[string]any `json:"inputs"`
}

type adviceResponse struct {
	AIResponse string `json:"ai_response"`
}

// AdviceHandler answers POST /ask_ai.
type AdviceHandler struct {
	advice string
	log    logger.Logger
}

// NewAdviceHandler creates an advice handler replying with advice.
func NewAdviceHandler(advice string) *AdviceHandler {
	return &AdviceHandler{advice: advice, log: logger.Nop()}
}

// HandleAskAI accepts any body, an absent or malformed one included, and
// replies with the canned advice.
func (h *AdviceHandler) HandleAskAI(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn(r.Context(), "advice input unreadable", logger.Error(err))
	} else {
		h.log.Debug(r.Context(), "advice requested", logger.Int("inputs", len(req.Inputs)))
	}

	text := h.advice
	if text == "" {
		text = noAdviceText
	}
	writeJSON(w, http.StatusOK, adviceResponse{AIResponse: text})
}

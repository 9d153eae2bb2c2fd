package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// StatsHandler answers GET /stats_data/{attribute}.
type StatsHandler struct {
	stats map[string]StatsFixture
}

// NewStatsHandler creates a stats handler over per-attribute counts.
func NewStatsHandler(stats map[string]StatsFixture) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStatsData writes the counts for the attribute in the path, or a 400
// with an error body when the attribute is unknown.
func (h *StatsHandler) HandleStatsData(w http.ResponseWriter, r *http.Request) {
	s, ok := h.stats[chi.URLParam(r, "attribute")]
	if !ok {
		writeJSON(w, http.StatusBadRequest, failureResponse{Error: "Invalid attribute"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

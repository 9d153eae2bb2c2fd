package api

import (
	"net/http"
	"sync/atomic"
)

const noFactText = "⚠️ No fact generated."

type factResponse struct {
	Fact string `json:"fact"`
}

// FactHandler answers GET /get_fact, cycling through its facts.
type FactHandler struct {
	facts []string
	next  atomic.Uint64
}

// NewFactHandler creates a fact handler.
func NewFactHandler(facts []string) *FactHandler {
	return &FactHandler{facts: facts}
}

// HandleGetFact writes the next fact.
func (h *FactHandler) HandleGetFact(w http.ResponseWriter, _ *http.Request) {
	if len(h.facts) == 0 {
		writeJSON(w, http.StatusOK, factResponse{Fact: noFactText})
		return
	}
	i := (h.next.Add(1) - 1) % uint64(len(h.facts))
	writeJSON(w, http.StatusOK, factResponse{Fact: h.facts[i]})
}

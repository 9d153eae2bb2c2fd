// Package model contains the request and response shapes exchanged between
// the dashboard and its backend, plus the display state of alert regions.
package model

import (
	"encoding/json"
)

// FormInputs is a flat snapshot of form field names to their current values.
type FormInputs map[string]string

// Clone returns an independent copy.
func (f FormInputs) Clone() FormInputs {
	out := make(FormInputs, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// PredictionResponse is the body of POST /predict. A truthy Error marks an
// application failure regardless of the other fields.
type PredictionResponse struct {
	Prediction  any             `json:"prediction,omitempty"`
	Probability json.RawMessage `json:"probability,omitempty"`
	Error       any             `json:"error,omitempty"`
}

// Failed reports whether the backend rejected the prediction.
func (r PredictionResponse) Failed() bool { return Truthy(r.Error) }

// HighRisk reports whether the prediction is exactly the number 1.
func (r PredictionResponse) HighRisk() bool {
	n, ok := r.Prediction.(float64)
	return ok && n == 1
}

// ProbabilityValue coerces the probability the way a numeric context does:
// absent is NaN, null is 0, numeric strings parse.
func (r PredictionResponse) ProbabilityValue() float64 {
	if r.Probability == nil {
		return nan()
	}
	var v any
	if err := json.Unmarshal(r.Probability, &v); err != nil {
		return nan()
	}
	return ToNumber(v)
}

// AdviceRequest is the body of POST /ask_ai.
type AdviceRequest struct {
	Inputs FormInputs `json:"inputs"`
}

// AdviceResponse is the body returned by POST /ask_ai.
type AdviceResponse struct {
	AIResponse any `json:"ai_response,omitempty"`
}

// FactResponse is the body of GET /get_fact.
type FactResponse struct {
	Fact any `json:"fact"`
}

// Text returns the fact when it is a string.
func (r FactResponse) Text() (string, bool) {
	s, ok := r.Fact.(string)
	return s, ok
}

// StatsResponse is the body of GET /stats_data/{attribute}.
type StatsResponse struct {
	Labels   []string `json:"labels"`
	Stroke   []int    `json:"stroke"`
	NoStroke []int    `json:"no_stroke"`
	Error    any      `json:"error,omitempty"`
}

// Failed reports whether the backend rejected the attribute.
func (r StatsResponse) Failed() bool { return Truthy(r.Error) }

// Alert styles applied to display regions.
const (
	StyleNone      = ""
	StyleInfo      = "alert alert-info"
	StyleDanger    = "alert alert-danger"
	StyleSecondary = "alert alert-secondary"
	StyleTable     = "table"
)

// Display is the state of one alert region: its class and inner HTML.
// Class is nil when the region's class should be left untouched.
type Display struct {
	Class *string
	HTML  string
}

// Styled builds a Display that also sets the region class.
func Styled(class, html string) Display {
	return Display{Class: &class, HTML: html}
}

// Content builds a Display that only replaces the inner HTML.
func Content(html string) Display {
	return Display{HTML: html}
}

// StyleName returns a short label for the class, used in logs and metrics.
func (d Display) StyleName() string {
	if d.Class == nil {
		return "unchanged"
	}
	switch *d.Class {
	case StyleInfo:
		return "info"
	case StyleDanger:
		return "danger"
	case StyleSecondary:
		return "secondary"
	case StyleTable:
		return "table"
	case StyleNone:
		return "plain"
	default:
		return "custom"
	}
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// members splits a JSON object into its members, matching keys exactly. A
// well-formed body that is not an object has no members.
func members(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON body")
		}
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// member decodes the member called key into dst when present.
func member(m map[string]json.RawMessage, key string, dst any) error {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

// UnmarshalJSON reads prediction, probability and error by their exact names.
func (r *PredictionResponse) UnmarshalJSON(data []byte) error {
	m, err := members(data)
	if err != nil {
		return err
	}
	*r = PredictionResponse{}
	if err := member(m, "prediction", &r.Prediction); err != nil {
		return err
	}
	if raw, ok := m["probability"]; ok {
		r.Probability = append(json.RawMessage(nil), raw...)
	}
	return member(m, "error", &r.Error)
}

// UnmarshalJSON reads ai_response by its exact name.
func (r *AdviceResponse) UnmarshalJSON(data []byte) error {
	m, err := members(data)
	if err != nil {
		return err
	}
	*r = AdviceResponse{}
	return member(m, "ai_response", &r.AIResponse)
}

// UnmarshalJSON reads fact by its exact name.
func (r *FactResponse) UnmarshalJSON(data []byte) error {
	m, err := members(data)
	if err != nil {
		return err
	}
	*r = FactResponse{}
	return member(m, "fact", &r.Fact)
}

// UnmarshalJSON reads labels, stroke, no_stroke and error by their exact names.
func (r *StatsResponse) UnmarshalJSON(data []byte) error {
	m, err := members(data)
	if err != nil {
		return err
	}
	*r = StatsResponse{}
	for _, f := range []struct {
		key string
		dst any
	}{
		{"labels", &r.Labels},
		{"stroke", &r.Stroke},
		{"no_stroke", &r.NoStroke},
		{"error", &r.Error},
	} {
		if err := member(m, f.key, f.dst); err != nil {
			return err
		}
	}
	return nil
}

package api

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_fixtures.yaml
var defaultFixtures []byte

// Fixtures are the canned data the stub backend answers from.
type Fixtures struct {
	Facts   []string                `yaml:"facts"`
	Predict PredictModel            `yaml:"predict"`
	Advice  string                  `yaml:"advice"`
	Stats   map[string]StatsFixture `yaml:"stats"`
}

// PredictModel is a toy additive risk score standing in for the trained
// classifier.
type PredictModel struct {
	Threshold float64                       `yaml:"threshold"`
	Base      float64                       `yaml:"base"`
	Weights   map[string]float64            `yaml:"weights"`
	Flags     map[string]map[string]float64 `yaml:"flags"`
}

// StatsFixture holds stroke and no-stroke counts per attribute value.
type StatsFixture struct {
	Labels   []string `yaml:"labels" json:"labels"`
	Stroke   []int    `yaml:"stroke" json:"stroke"`
	NoStroke []int    `yaml:"no_stroke" json:"no_stroke"`
}

// DefaultFixtures returns the embedded fixture set.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads fixtures from a YAML file; an empty path yields the
// embedded defaults.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixtures, err)
	}
	return ParseFixtures(b)
}

// ParseFixtures decodes and validates a YAML fixture document.
func ParseFixtures(b []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixtures, err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks that every stats series lines up with its labels.
func (f *Fixtures) Validate() error {
	if f.Predict.Threshold < 0 || f.Predict.Threshold > 1 {
		return fmt.Errorf("%w: predict.threshold %v outside [0,1]", ErrFixtures, f.Predict.Threshold)
	}
	for attr, s := range f.Stats {
		if len(s.Stroke) != len(s.Labels) || len(s.NoStroke) != len(s.Labels) {
			return fmt.Errorf("%w: stats.%s has %d labels, %d stroke and %d no_stroke counts",
				ErrFixtures, attr, len(s.Labels), len(s.Stroke), len(s.NoStroke))
		}
	}
	return nil
}

// Score returns the class and probability for the submitted fields. A
// weighted field that is not numeric fails the prediction, as the real
// model does.
func (m PredictModel) Score(inputs map[string]any) (int, float64, error) {
	p := m.Base
	for field, w := range m.Weights {
		v, ok := inputs[field]
		if !ok {
			continue
		}
		n, err := number(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: field %s: %w", ErrBadRequest, field, err)
		}
		p += w * n
	}
	for field, values := range m.Flags {
		v, ok := inputs[field]
		if !ok {
			continue
		}
		p += values[fmt.Sprint(v)]
	}
	p = math.Max(0, math.Min(1, p))

	class := 0
	if p >= m.Threshold {
		class = 1
	}
	return class, p, nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}

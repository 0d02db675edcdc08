// Package classifier consumes the trained model's inference contract. Training
// happens outside this process; the artifact on disk carries the fixed feature
// order the model was trained on plus its coefficients, and is loaded once and
// never mutated afterwards.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier scores an ordered feature vector with a probability in [0,1].
type Classifier interface {
	// FeatureOrder returns the exact ordered feature names the model expects.
	FeatureOrder() []string
	// PredictProba returns the probability for a vector matching FeatureOrder.
	PredictProba(vec []float64) (float64, error)
}

// LinearModel is a logistic model loaded from a JSON artifact.
type LinearModel struct {
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

// Load reads a model artifact from disk and verifies its shape.
func Load(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(m.Features) == 0 {
		return nil, fmt.Errorf("model %s: empty feature list", path)
	}
	if len(m.Features) != len(m.Weights) {
		return nil, fmt.Errorf("model %s: %d features but %d weights",
			path, len(m.Features), len(m.Weights))
	}
	return &m, nil
}

func (m *LinearModel) FeatureOrder() []string { return m.Features }

// PredictProba computes sigmoid(w . x + b).
func (m *LinearModel) PredictProba(vec []float64) (float64, error) {
	if len(vec) != len(m.Weights) {
		return 0, fmt.Errorf("feature vector length %d, model expects %d", len(vec), len(m.Weights))
	}
	z := m.Bias
	for i, w := range m.Weights {
		z += w * vec[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, fmt.Errorf("prediction is not a number")
	}
	return p, nil
}

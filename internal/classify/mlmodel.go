package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/lumina-receipts/lumina/internal/common"
	"github.com/lumina-receipts/lumina/internal/model"
)

// Model is the immutable trained classifier artifact: a linear model over
// the fixed feature schema, scored with softmax. It is loaded once at
// process start and read-only thereafter.
type Model struct {
	SchemaVersion string      `json:"schema_version"`
	Labels        []string    `json:"labels"`
	FeatureNames  []string    `json:"feature_names"`
	Weights       [][]float64 `json:"weights"`
	Bias          []float64   `json:"bias"`
}

// LoadModel reads and validates a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrModelLoad, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid artifact: %v", common.ErrModelLoad, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Model) validate() error {
	if m.SchemaVersion == "" {
		return fmt.Errorf("%w: artifact missing schema version", common.ErrModelLoad)
	}
	if len(m.Labels) == 0 || len(m.FeatureNames) == 0 {
		return fmt.Errorf("%w: artifact missing labels or features", common.ErrModelLoad)
	}
	if len(m.Weights) != len(m.Labels) || len(m.Bias) != len(m.Labels) {
		return fmt.Errorf("%w: weight rows (%d) and bias (%d) must match labels (%d)",
			common.ErrModelLoad, len(m.Weights), len(m.Bias), len(m.Labels))
	}
	for i, row := range m.Weights {
		if len(row) != len(m.FeatureNames) {
			return fmt.Errorf("%w: weight row %d has %d columns, want %d",
				common.ErrModelLoad, i, len(row), len(m.FeatureNames))
		}
	}
	return nil
}

// Loader performs the one-time model initialization. Concurrent callers
// cannot race to load the model twice or observe a partially-initialized
// handle; after the first call the outcome is fixed for the process.
type Loader struct {
	model *Model
	err   error
	once  sync.Once
}

// Load returns the process-wide model handle, loading it on first call.
func (l *Loader) Load(path string) (*Model, error) {
	l.once.Do(func() {
		l.model, l.err = LoadModel(path)
	})
	return l.model, l.err
}

// MLStrategy wraps the immutable trained model.
type MLStrategy struct {
	model *Model
}

// NewMLStrategy builds the model-backed strategy.
func NewMLStrategy(m *Model) *MLStrategy {
	return &MLStrategy{model: m}
}

// Method reports ml.
func (s *MLStrategy) Method() model.CategorizationMethod {
	return model.MethodML
}

// Predict scores the feature vector and returns the full probability
// distribution. A vector whose schema version differs from the one the
// model was trained against is a fatal mismatch.
func (s *MLStrategy) Predict(_ context.Context, in Input) (model.CategoryPrediction, error) {
	if in.Features == nil {
		return model.CategoryPrediction{}, fmt.Errorf("%w: no feature vector", common.ErrInvalidInput)
	}
	if in.Features.Schema != s.model.SchemaVersion {
		return model.CategoryPrediction{}, &common.SchemaMismatchError{
			Want: s.model.SchemaVersion,
			Got:  in.Features.Schema,
		}
	}

	x := in.Features.Slice(s.model.FeatureNames)
	scores := make([]float64, len(s.model.Labels))
	for i, row := range s.model.Weights {
		score := s.model.Bias[i]
		for j, w := range row {
			score += w * x[j]
		}
		scores[i] = score
	}
	probs := softmax(scores)

	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}

	dist := make(map[string]float64, len(s.model.Labels))
	for i, label := range s.model.Labels {
		dist[label] = probs[i]
	}

	return model.CategoryPrediction{
		Category:      s.model.Labels[best],
		Confidence:    probs[best],
		Method:        model.MethodML,
		Probabilities: dist,
	}, nil
}

func softmax(scores []float64) []float64 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	sum := 0.0
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

package classify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lumina-receipts/lumina/internal/common"
	"github.com/lumina-receipts/lumina/internal/model"
)

// Hybrid arbitrates between the trained model and the keyword rules.
// Availability of the model is decided once at construction, so the
// reported method can never flap between calls.
type Hybrid struct {
	ml        Strategy
	rules     Strategy
	threshold float64
}

// NewHybrid builds the arbitrating classifier. A nil model means the
// trained model did not load; rule-based is then selected permanently for
// the process lifetime.
func NewHybrid(m *Model, rules Strategy, confidenceThreshold float64) *Hybrid {
	h := &Hybrid{
		rules:     rules,
		threshold: confidenceThreshold,
	}
	if m != nil {
		h.ml = NewMLStrategy(m)
	}
	return h
}

// MLAvailable reports whether the trained model loaded at startup.
func (h *Hybrid) MLAvailable() bool {
	return h.ml != nil
}

// Method reports which strategy is the primary for this process.
func (h *Hybrid) Method() model.CategorizationMethod {
	if h.ml != nil {
		return model.MethodML
	}
	return model.MethodRuleBased
}

// Predict uses the model prediction only when its top probability clears
// the configured threshold; otherwise it falls back to the rules and
// reports method=rule_based truthfully. Schema mismatches surface as
// errors instead of being papered over by the fallback.
func (h *Hybrid) Predict(ctx context.Context, in Input) (model.CategoryPrediction, error) {
	if h.ml == nil {
		return h.rules.Predict(ctx, in)
	}

	prediction, err := h.ml.Predict(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrSchemaMismatch) {
			return model.CategoryPrediction{}, err
		}
		slog.Warn("model prediction failed, using rules", "error", err)
		return h.rules.Predict(ctx, in)
	}

	if prediction.Confidence < h.threshold {
		slog.Debug("model prediction below threshold, using rules",
			"category", prediction.Category,
			"confidence", prediction.Confidence,
			"threshold", h.threshold)
		return h.rules.Predict(ctx, in)
	}

	return prediction, nil
}

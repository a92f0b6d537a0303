// Package classify implements the hybrid category classifier: a trained
// model strategy, a deterministic keyword-rule strategy, and the
// arbitration between them.
package classify

import (
	"context"

	"github.com/lumina-receipts/lumina/internal/feature"
	"github.com/lumina-receipts/lumina/internal/model"
)

// Input carries what a strategy may consult. The model strategy reads the
// feature vector; the rule strategy reads merchant name and raw text.
type Input struct {
	Features *feature.Vector
	Merchant string
	RawText  string
}

// Strategy is the contract both classifier variants satisfy. Strategies
// are pure: no per-call mutable state, safe for concurrent use.
type Strategy interface {
	Predict(ctx context.Context, in Input) (model.CategoryPrediction, error)
	Method() model.CategorizationMethod
}

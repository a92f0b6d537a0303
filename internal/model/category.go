package model

// CategorizationMethod indicates which strategy produced a prediction.
type CategorizationMethod string

const (
	// MethodML means the trained model produced the accepted prediction.
	MethodML CategorizationMethod = "ml"
	// MethodRuleBased means the keyword rules produced the prediction.
	MethodRuleBased CategorizationMethod = "rule_based"
)

// Uncategorized is the reserved fallback label used when no rule matches.
const Uncategorized = "Uncategorized"

// CategoryPrediction is the classifier output: a winning category, the full
// probability distribution over the configured labels (summing to 1), and
// the strategy that produced it.
type CategoryPrediction struct {
	Probabilities map[string]float64
	Category      string
	Method        CategorizationMethod
	Confidence    float64
}

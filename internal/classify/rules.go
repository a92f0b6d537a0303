package classify

import (
	"context"
	"strings"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

// RuleStrategy is the deterministic keyword-matching fallback categorizer.
// It is always available, regardless of whether a trained model loaded.
type RuleStrategy struct {
	rules  []config.CategoryRule
	labels []string
	floor  float64
}

// NewRuleStrategy builds the rule strategy from the ordered rule table.
func NewRuleStrategy(rules []config.CategoryRule, labels []string, uncategorizedConfidence float64) *RuleStrategy {
	return &RuleStrategy{
		rules:  rules,
		labels: labels,
		floor:  uncategorizedConfidence,
	}
}

// Method reports rule_based.
func (s *RuleStrategy) Method() model.CategorizationMethod {
	return model.MethodRuleBased
}

// Predict scans the rules in configured order against merchant name and raw
// text, case-insensitive. The first matching rule wins; a later rule
// displaces it only when its matched keyword is strictly longer (more
// specific). With no match at all the prediction is Uncategorized at the
// fixed floor confidence.
func (s *RuleStrategy) Predict(_ context.Context, in Input) (model.CategoryPrediction, error) {
	haystack := strings.ToLower(in.Merchant + " " + in.RawText)

	winner := ""
	winnerConfidence := 0.0
	longestMatch := 0
	for _, rule := range s.rules {
		matched := longestKeywordMatch(haystack, rule.Keywords)
		if matched > longestMatch {
			winner = rule.Category
			winnerConfidence = rule.Confidence
			longestMatch = matched
		}
	}

	if winner == "" {
		return s.uncategorized(), nil
	}

	return model.CategoryPrediction{
		Category:      winner,
		Confidence:    winnerConfidence,
		Method:        model.MethodRuleBased,
		Probabilities: s.distribution(winner, winnerConfidence),
	}, nil
}

// longestKeywordMatch returns the length of the longest keyword present in
// the haystack, zero when none match.
func longestKeywordMatch(haystack string, keywords []string) int {
	longest := 0
	for _, kw := range keywords {
		if len(kw) > longest && strings.Contains(haystack, kw) {
			longest = len(kw)
		}
	}
	return longest
}

func (s *RuleStrategy) uncategorized() model.CategoryPrediction {
	return model.CategoryPrediction{
		Category:      model.Uncategorized,
		Confidence:    s.floor,
		Method:        model.MethodRuleBased,
		Probabilities: s.distribution(model.Uncategorized, s.floor),
	}
}

// distribution assigns the winner its confidence and spreads the remaining
// probability mass uniformly over the other labels so the result sums to 1.
func (s *RuleStrategy) distribution(winner string, confidence float64) map[string]float64 {
	probs := make(map[string]float64, len(s.labels)+1)
	others := 0
	for _, label := range s.labels {
		if label != winner {
			others++
		}
	}
	if winner != model.Uncategorized {
		probs[model.Uncategorized] = 0
	}
	rest := 0.0
	if others > 0 {
		rest = (1 - confidence) / float64(others)
	}
	for _, label := range s.labels {
		if label == winner {
			probs[label] = confidence
		} else {
			probs[label] = rest
		}
	}
	if winner == model.Uncategorized {
		probs[model.Uncategorized] = confidence
	}
	return probs
}

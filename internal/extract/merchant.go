package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

// Scoring weights for merchant candidates.
const (
	merchantOCRWeight    = 0.5
	merchantCasingWeight = 0.3
	merchantLengthWeight = 0.2
)

// boilerplate shapes that never contain a merchant name.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[\d\s\-/#.*]+$`),                     // pure digits and punctuation
	regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`), // phone number shapes
	regexp.MustCompile(`(?i)^\d+\s+\S+\s+(st|street|ave|avenue|rd|road|blvd|dr|drive|ln|lane|hwy|highway|suite|ste)\b`),
	regexp.MustCompile(`(?i)\b(receipt|invoice|order\s*#|customer\s+copy|thank\s+you|welcome|cashier|register|tel|fax|www\.|https?://)\b`),
}

// MerchantExtractor finds the most likely merchant name line.
type MerchantExtractor struct {
	windowLines int
	minTokenLen int
	maxTokenLen int
}

// NewMerchantExtractor builds an extractor from the configured window and
// token-length bounds.
func NewMerchantExtractor(cfg config.MerchantConfig) *MerchantExtractor {
	return &MerchantExtractor{
		windowLines: cfg.WindowLines,
		minTokenLen: cfg.MinTokenLen,
		maxTokenLen: cfg.MaxTokenLen,
	}
}

// Extract searches the first few lines (merchant names print near the top),
// discards boilerplate shapes, and scores the survivors by OCR confidence,
// casing plausibility, and length bounds. If every line is filtered out the
// field is missing.
func (e *MerchantExtractor) Extract(lines []model.Line) model.Field[string] {
	window := lines
	if len(window) > e.windowLines {
		window = window[:e.windowLines]
	}

	bestScore := 0.0
	var best *model.Line
	for i := range window {
		line := window[i]
		text := strings.TrimSpace(line.Text)
		if text == "" || isBoilerplate(text) {
			continue
		}

		score := merchantOCRWeight*clamp01(line.Confidence) +
			merchantCasingWeight*casingScore(text) +
			merchantLengthWeight*e.lengthScore(text)
		if score > bestScore {
			bestScore = score
			best = &window[i]
		}
	}

	if best == nil {
		return model.MissingField[string]()
	}
	name := strings.TrimSpace(best.Text)
	return model.FieldOf(name, clamp01(bestScore), name)
}

func isBoilerplate(text string) bool {
	for _, re := range boilerplatePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// casingScore rewards plausible name casing: mixed-case or all-caps words
// rather than digit soup or punctuation.
func casingScore(text string) float64 {
	letters, digits, upper := 0, 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case unicode.IsDigit(r):
			digits++
		}
	}
	if letters == 0 {
		return 0
	}

	score := float64(letters) / float64(letters+digits)
	// All-caps headers and Title Case names both look like storefronts.
	if upper == letters || (upper > 0 && upper < letters) {
		score = (score + 1) / 2
	}
	return clamp01(score)
}

func (e *MerchantExtractor) lengthScore(text string) float64 {
	n := len(text)
	if n < e.minTokenLen || n > e.maxTokenLen {
		return 0
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

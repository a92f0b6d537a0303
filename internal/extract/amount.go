// Package extract implements the field extractors for amount, merchant, and
// date. All extractors are pure functions over normalized lines: they
// record failures as missing fields rather than returning errors.
package extract

import (
	"regexp"
	"strings"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

// bareCurrencyConfidence is reported when the amount came from a trailing
// currency token with no label at all.
const bareCurrencyConfidence = 0.5

// amountToken matches a currency-ish numeric token after a label.
const amountToken = `(?:(?:USD|EUR|GBP|INR|CAD|AUD)\s*)?[$€£₹]?\s*([0-9][0-9.,]*)`

// AmountExtractor finds the most likely total monetary value.
type AmountExtractor struct {
	bare   *regexp.Regexp
	labels []labelPattern
}

type labelPattern struct {
	re       *regexp.Regexp
	label    string
	priority int
}

type amountCandidate struct {
	span     string
	priority int
	lineIdx  int
	cents    int64
}

// NewAmountExtractor compiles the configured label priority list. Earlier
// labels outrank later ones; a bare currency token at the end of a line is
// the lowest-priority fallback.
func NewAmountExtractor(cfg config.AmountConfig) *AmountExtractor {
	e := &AmountExtractor{
		bare: regexp.MustCompile(`[$€£₹]\s*([0-9][0-9.,]*)\s*$`),
	}
	for i, label := range cfg.Labels {
		e.labels = append(e.labels, labelPattern{
			label:    label,
			priority: i,
			re:       regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `\b\s*:?\s*` + amountToken),
		})
	}
	return e
}

// Extract scans all lines for labeled amounts and selects the best
// candidate: highest label priority first, then the candidate closest to
// the end of the document, then the larger value. Candidates whose numeric
// token fails cleaning are discarded so the next-best survives.
func (e *AmountExtractor) Extract(lines []model.Line) model.Field[model.Amount] {
	var candidates []amountCandidate

	for _, line := range lines {
		for _, lp := range e.labels {
			for _, m := range lp.re.FindAllStringSubmatch(line.Text, -1) {
				if cents, ok := cleanAmountToken(m[1]); ok {
					candidates = append(candidates, amountCandidate{
						priority: lp.priority,
						lineIdx:  line.Index,
						cents:    cents,
						span:     strings.TrimSpace(m[0]),
					})
				}
			}
		}
		if m := e.bare.FindStringSubmatch(line.Text); m != nil {
			if cents, ok := cleanAmountToken(m[1]); ok {
				candidates = append(candidates, amountCandidate{
					priority: len(e.labels),
					lineIdx:  line.Index,
					cents:    cents,
					span:     strings.TrimSpace(m[0]),
				})
			}
		}
	}

	if len(candidates) == 0 {
		return model.MissingField[model.Amount]()
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterAmountCandidate(c, best) {
			best = c
		}
	}

	confidence := e.confidenceFor(best.priority)
	return model.FieldOf(model.Amount(best.cents), confidence, best.span)
}

// betterAmountCandidate orders candidates by label priority, then proximity
// to the end of the document (totals print near the receipt's end), then
// larger value.
func betterAmountCandidate(a, b amountCandidate) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.lineIdx != b.lineIdx {
		return a.lineIdx > b.lineIdx
	}
	return a.cents > b.cents
}

func (e *AmountExtractor) confidenceFor(priority int) float64 {
	if priority >= len(e.labels) {
		return bareCurrencyConfidence
	}
	conf := 0.95 - 0.08*float64(priority)
	if conf < bareCurrencyConfidence {
		conf = bareCurrencyConfidence
	}
	return conf
}

// cleanAmountToken converts a matched numeric token into cents. It strips
// thousands separators, normalizes a decimal comma, and rejects tokens
// with more than one decimal point, non-digit residue, or an ambiguous
// undecimaled digit run longer than three digits (never guessed as cents).
func cleanAmountToken(tok string) (int64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}

	hasComma := strings.Contains(tok, ",")
	hasDot := strings.Contains(tok, ".")

	switch {
	case hasComma && hasDot:
		// Comma is a thousands separator.
		tok = strings.ReplaceAll(tok, ",", "")
	case hasComma:
		// A single comma followed by exactly two digits is a decimal
		// comma; anything else is a thousands separator.
		idx := strings.LastIndex(tok, ",")
		if strings.Count(tok, ",") == 1 && len(tok)-idx-1 == 2 {
			tok = tok[:idx] + "." + tok[idx+1:]
		} else {
			tok = strings.ReplaceAll(tok, ",", "")
		}
	}

	if strings.Count(tok, ".") > 1 {
		return 0, false
	}

	whole, frac, hasFrac := strings.Cut(tok, ".")
	if !allDigits(whole) || whole == "" {
		return 0, false
	}
	if len(whole) > 10 {
		return 0, false
	}

	if !hasFrac {
		// Long undecimaled digit runs are IDs or phone fragments, not
		// amounts.
		if len(whole) > 3 {
			return 0, false
		}
		return parseDigits(whole) * 100, true
	}

	if !allDigits(frac) {
		return 0, false
	}
	switch len(frac) {
	case 1:
		return parseDigits(whole)*100 + parseDigits(frac)*10, true
	case 2:
		return parseDigits(whole)*100 + parseDigits(frac), true
	default:
		return 0, false
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseDigits(s string) int64 {
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n
}

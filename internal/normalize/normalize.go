// Package normalize cleans raw OCR lines before extraction. It is a pure
// transform: line count and order are always preserved and there are no
// failure modes.
package normalize

import (
	"strings"
	"unicode"

	"github.com/lumina-receipts/lumina/internal/model"
)

// glyphFolds maps common OCR glyph confusions back to digits. The folds are
// applied only inside numeric-looking tokens; alphabetic merchant-name
// tokens must never be rewritten.
var glyphFolds = map[rune]rune{
	'O': '0',
	'o': '0',
	'S': '5',
	's': '5',
	'l': '1',
	'I': '1',
	'B': '8',
}

// Lines cleans every input line: strips non-printable characters, collapses
// whitespace runs, and folds OCR glyph confusions inside numeric tokens.
func Lines(lines []model.Line) []model.Line {
	out := make([]model.Line, len(lines))
	for i, line := range lines {
		out[i] = model.Line{
			Text:       Line(line.Text),
			Confidence: line.Confidence,
			Index:      line.Index,
		}
	}
	return out
}

// Line cleans a single line of text.
func Line(text string) string {
	text = stripNonPrintable(text)
	text = collapseWhitespace(text)

	tokens := strings.Split(text, " ")
	for i, tok := range tokens {
		if looksNumeric(tok) {
			tokens[i] = foldGlyphs(tok)
		}
	}
	return strings.Join(tokens, " ")
}

func stripNonPrintable(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// looksNumeric reports whether a token is a candidate for glyph folding:
// it carries a digit or currency marker, and every rune is a digit, a
// foldable glyph, a currency symbol, or numeric punctuation. A token with
// any other letter is a word and is left alone.
func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	anchored := false
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			anchored = true
		case r == '$' || r == '€' || r == '£' || r == '₹':
			anchored = true
		case r == '.' || r == ',' || r == ':' || r == '-' || r == '#' || r == '%':
		default:
			if _, foldable := glyphFolds[r]; !foldable {
				return false
			}
		}
	}
	return anchored
}

func foldGlyphs(tok string) string {
	runes := []rune(tok)
	for i, r := range runes {
		if folded, ok := glyphFolds[r]; ok {
			runes[i] = folded
		}
	}
	return string(runes)
}

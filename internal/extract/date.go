package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	reISO = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	// Month-name forms carry an optional year; RE2 has no lookahead, so
	// the year-less variant is detected by an empty capture group.
	reMonthFirst  = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	reDayFirst    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthAlt + `)(?:,?\s+(\d{4}))?\b`)
	reNumeric4    = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	reNumeric2    = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2})\b`)
	reHasDigit = regexp.MustCompile(`\d`)
)

// Confidence per pattern family, in priority order.
var datePatternConfidence = []float64{0.95, 0.90, 0.85, 0.70, 0.60}

// DateExtractor finds and normalizes the transaction date.
type DateExtractor struct {
	futureTolerance time.Duration
	maxPastYears    int
}

// NewDateExtractor builds an extractor from the configured plausibility
// horizon and future tolerance.
func NewDateExtractor(cfg config.DateConfig) *DateExtractor {
	return &DateExtractor{
		futureTolerance: cfg.FutureTolerance,
		maxPastYears:    cfg.MaxPastYears,
	}
}

type dateCandidate struct {
	date     time.Time
	span     string
	priority int
	lineIdx  int
	matchPos int
}

// Extract applies the ordered date patterns to every line and returns the
// best surviving candidate. Dates beyond the future tolerance relative to
// the capture timestamp, or older than the configured horizon, are rejected
// rather than returned wrong.
func (e *DateExtractor) Extract(lines []model.Line, capturedAt time.Time) model.Field[time.Time] {
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	var candidates []dateCandidate
	for _, line := range lines {
		if !reHasDigit.MatchString(line.Text) {
			continue
		}
		candidates = append(candidates, e.lineCandidates(line, capturedAt)...)
	}

	if len(candidates) == 0 {
		return model.MissingField[time.Time]()
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterDateCandidate(c, best) {
			best = c
		}
	}
	return model.FieldOf(best.date, datePatternConfidence[best.priority], best.span)
}

// betterDateCandidate orders candidates by pattern priority, then earlier
// line, then earlier position in the line.
func betterDateCandidate(a, b dateCandidate) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.lineIdx != b.lineIdx {
		return a.lineIdx < b.lineIdx
	}
	return a.matchPos < b.matchPos
}

func (e *DateExtractor) lineCandidates(line model.Line, capturedAt time.Time) []dateCandidate {
	var out []dateCandidate
	add := func(priority int, pos int, span string, t time.Time, ok bool) {
		if !ok || !e.plausible(t, capturedAt) {
			return
		}
		out = append(out, dateCandidate{
			date:     t,
			span:     span,
			priority: priority,
			lineIdx:  line.Index,
			matchPos: pos,
		})
	}

	text := line.Text

	for _, m := range reISO.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		t, ok := makeDate(atoi(g[0]), atoi(g[1]), atoi(g[2]))
		add(0, m[0], text[m[0]:m[1]], t, ok)
	}

	for _, m := range reMonthFirst.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		if g[2] != "" {
			t, ok := makeDate(atoi(g[2]), monthNumber(g[0]), atoi(g[1]))
			add(1, m[0], text[m[0]:m[1]], t, ok)
		} else {
			t, ok := yearlessDate(monthNumber(g[0]), atoi(g[1]), capturedAt, e.futureTolerance)
			add(4, m[0], text[m[0]:m[1]], t, ok)
		}
	}
	for _, m := range reDayFirst.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		if g[2] != "" {
			t, ok := makeDate(atoi(g[2]), monthNumber(g[1]), atoi(g[0]))
			add(1, m[0], text[m[0]:m[1]], t, ok)
		} else {
			t, ok := yearlessDate(monthNumber(g[1]), atoi(g[0]), capturedAt, e.futureTolerance)
			add(4, m[0], text[m[0]:m[1]], t, ok)
		}
	}

	for _, m := range reNumeric4.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		t, ok := disambiguate(atoi(g[0]), atoi(g[1]), atoi(g[2]))
		add(2, m[0], text[m[0]:m[1]], t, ok)
	}

	for _, m := range reNumeric2.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, m)
		t, ok := disambiguate(atoi(g[0]), atoi(g[1]), expandYear(atoi(g[2])))
		add(3, m[0], text[m[0]:m[1]], t, ok)
	}

	return out
}

// disambiguate resolves a numeric a/b/year match. The first field is the
// month whenever it can be (≤12, month-first default); a first field above
// 12 forces day-first.
func disambiguate(a, b, year int) (time.Time, bool) {
	switch {
	case a >= 1 && a <= 12:
		return makeDate(year, a, b)
	case b >= 1 && b <= 12:
		return makeDate(year, b, a)
	default:
		return time.Time{}, false
	}
}

// expandYear widens a 2-digit year: 00-30 map to 20xx, 31-99 to 19xx.
func expandYear(y int) int {
	if y <= 30 {
		return 2000 + y
	}
	return 1900 + y
}

// yearlessDate assumes the capture year for a month-day match, stepping
// back one year if that would land in the future.
func yearlessDate(month, day int, capturedAt time.Time, tolerance time.Duration) (time.Time, bool) {
	t, ok := makeDate(capturedAt.Year(), month, day)
	if !ok {
		return time.Time{}, false
	}
	if t.After(capturedAt.Add(tolerance)) {
		return makeDate(capturedAt.Year()-1, month, day)
	}
	return t, true
}

// makeDate validates calendar bounds (no silent rollover).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func (e *DateExtractor) plausible(t, capturedAt time.Time) bool {
	if t.After(capturedAt.Add(e.futureTolerance)) {
		return false
	}
	if t.Year() < capturedAt.Year()-e.maxPastYears {
		return false
	}
	return true
}

func monthNumber(name string) int {
	if m, ok := monthNames[strings.ToLower(name)]; ok {
		return int(m)
	}
	return 0
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// groups returns the captured submatch strings for an index match.
func groups(text string, idx []int) []string {
	var out []string
	for i := 2; i < len(idx); i += 2 {
		if idx[i] < 0 {
			out = append(out, "")
			continue
		}
		out = append(out, text[idx[i]:idx[i+1]])
	}
	return out
}

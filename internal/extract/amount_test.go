package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

func newAmountExtractor() *AmountExtractor {
	return NewAmountExtractor(config.Default().Amount)
}

func makeLines(texts ...string) []model.Line {
	lines := make([]model.Line, len(texts))
	for i, text := range texts {
		lines[i] = model.Line{Text: text, Confidence: 0.9, Index: i}
	}
	return lines
}

func TestAmountExtractor_Extract(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantFound bool
		want      string
	}{
		{
			name:      "labeled total with currency symbol",
			lines:     []string{"STARBUCKS", "TOTAL: $15.92"},
			wantFound: true,
			want:      "$15.92",
		},
		{
			name:      "grand total outranks total",
			lines:     []string{"TOTAL 5.00", "GRAND TOTAL 20.00"},
			wantFound: true,
			want:      "$20.00",
		},
		{
			name:      "equal priority prefers line closer to the end",
			lines:     []string{"TOTAL 5.00", "ITEMS 3", "TOTAL 7.50"},
			wantFound: true,
			want:      "$7.50",
		},
		{
			name:      "amount due label",
			lines:     []string{"AMOUNT DUE: 42.00"},
			wantFound: true,
			want:      "$42.00",
		},
		{
			name:      "thousands separator stripped",
			lines:     []string{"TOTAL 1,234.56"},
			wantFound: true,
			want:      "$1234.56",
		},
		{
			name:      "decimal comma normalized",
			lines:     []string{"TOTAL 15,92"},
			wantFound: true,
			want:      "$15.92",
		},
		{
			name:      "bare currency token at end of line",
			lines:     []string{"LATTE  $4.50"},
			wantFound: true,
			want:      "$4.50",
		},
		{
			name:      "long undecimaled digit run is never guessed as cents",
			lines:     []string{"TOTAL 123456"},
			wantFound: false,
		},
		{
			name:      "short undecimaled run is whole dollars",
			lines:     []string{"TOTAL 299"},
			wantFound: true,
			want:      "$299.00",
		},
		{
			name:      "multiple decimal points rejected, next best used",
			lines:     []string{"GRAND TOTAL 12.34.56", "TOTAL 9.99"},
			wantFound: true,
			want:      "$9.99",
		},
		{
			name:      "subtotal does not match the total label",
			lines:     []string{"SUBTOTAL 99.99"},
			wantFound: false,
		},
		{
			name:      "no amount at all",
			lines:     []string{"THANK YOU", "COME AGAIN"},
			wantFound: false,
		},
	}

	e := newAmountExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := e.Extract(makeLines(tt.lines...))
			if !tt.wantFound {
				assert.False(t, field.Present)
				assert.Zero(t, field.Confidence)
				return
			}
			require.True(t, field.Present)
			assert.Equal(t, tt.want, field.Value.String())
			assert.Greater(t, field.Confidence, 0.0)
			assert.LessOrEqual(t, field.Confidence, 1.0)
		})
	}
}

func TestAmountExtractor_ValueTieBreak(t *testing.T) {
	// Same priority, same line: the larger value wins.
	e := newAmountExtractor()
	field := e.Extract(makeLines("TOTAL 5.00 TOTAL 9.00"))
	require.True(t, field.Present)
	assert.Equal(t, "$9.00", field.Value.String())
}

func TestAmountExtractor_LabelConfidenceOrdering(t *testing.T) {
	e := newAmountExtractor()

	labeled := e.Extract(makeLines("GRAND TOTAL 12.00"))
	bare := e.Extract(makeLines("WIDGET $12.00"))

	require.True(t, labeled.Present)
	require.True(t, bare.Present)
	assert.Greater(t, labeled.Confidence, bare.Confidence)
	assert.Equal(t, bareCurrencyConfidence, bare.Confidence)
}

func TestCleanAmountToken(t *testing.T) {
	tests := []struct {
		token  string
		cents  int64
		wantOK bool
	}{
		{"15.92", 1592, true},
		{"1,234.56", 123456, true},
		{"15,92", 1592, true},
		{"12,345", 12345 * 100, false}, // 5-digit whole after separator strip
		{"299", 29900, true},
		{"4.5", 450, true},
		{"1234", 0, false},
		{"12.345", 0, false},
		{"12.34.56", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			cents, ok := cleanAmountToken(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.cents, cents)
			}
		})
	}
}

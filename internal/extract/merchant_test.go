package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

func newMerchantExtractor() *MerchantExtractor {
	return NewMerchantExtractor(config.Default().Merchant)
}

func TestMerchantExtractor_Extract(t *testing.T) {
	tests := []struct {
		name      string
		lines     []model.Line
		wantFound bool
		want      string
	}{
		{
			name: "storefront header on first line",
			lines: []model.Line{
				{Text: "STARBUCKS #1234", Confidence: 0.95, Index: 0},
				{Text: "123 Main St", Confidence: 0.90, Index: 1},
				{Text: "TOTAL $6.75", Confidence: 0.92, Index: 2},
			},
			wantFound: true,
			want:      "STARBUCKS #1234",
		},
		{
			name: "boilerplate header lines are skipped",
			lines: []model.Line{
				{Text: "RECEIPT", Confidence: 0.99, Index: 0},
				{Text: "Whole Foods Market", Confidence: 0.88, Index: 1},
			},
			wantFound: true,
			want:      "Whole Foods Market",
		},
		{
			name: "phone and address shapes are never merchants",
			lines: []model.Line{
				{Text: "555-123-4567", Confidence: 0.99, Index: 0},
				{Text: "482 Oak Avenue", Confidence: 0.99, Index: 1},
				{Text: "CHIPOTLE", Confidence: 0.75, Index: 2},
			},
			wantFound: true,
			want:      "CHIPOTLE",
		},
		{
			name: "all boilerplate yields no merchant",
			lines: []model.Line{
				{Text: "RECEIPT", Confidence: 0.99, Index: 0},
				{Text: "555-123-4567", Confidence: 0.99, Index: 1},
				{Text: "1234567890", Confidence: 0.99, Index: 2},
			},
			wantFound: false,
		},
		{
			name: "merchant outside the search window is missed",
			lines: []model.Line{
				{Text: "###", Confidence: 0.2, Index: 0},
				{Text: "***", Confidence: 0.2, Index: 1},
				{Text: "---", Confidence: 0.2, Index: 2},
				{Text: "///", Confidence: 0.2, Index: 3},
				{Text: "...", Confidence: 0.2, Index: 4},
				{Text: "TRADER JOES", Confidence: 0.95, Index: 5},
			},
			wantFound: false,
		},
		{
			name:      "empty input",
			lines:     nil,
			wantFound: false,
		},
	}

	e := newMerchantExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := e.Extract(tt.lines)
			if !tt.wantFound {
				assert.False(t, field.Present)
				assert.Zero(t, field.Confidence)
				return
			}
			require.True(t, field.Present)
			assert.Equal(t, tt.want, field.Value)
			assert.Greater(t, field.Confidence, 0.0)
			assert.LessOrEqual(t, field.Confidence, 1.0)
		})
	}
}

func TestMerchantExtractor_PrefersHigherOCRConfidence(t *testing.T) {
	e := newMerchantExtractor()
	field := e.Extract([]model.Line{
		{Text: "Garbled Text Here", Confidence: 0.30, Index: 0},
		{Text: "COSTCO WHOLESALE", Confidence: 0.97, Index: 1},
	})

	require.True(t, field.Present)
	assert.Equal(t, "COSTCO WHOLESALE", field.Value)
}

func TestCasingScore(t *testing.T) {
	assert.Greater(t, casingScore("STARBUCKS"), casingScore("$$$111"))
	assert.Greater(t, casingScore("Whole Foods"), 0.5)
	assert.Zero(t, casingScore("12345"))
}

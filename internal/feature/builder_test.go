package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

func newTestBuilder() *Builder {
	cfg := config.Default()
	return NewBuilder(cfg.Features, cfg.Classifier.Rules)
}

func buildInput() Input {
	return Input{
		CapturedAt: time.Date(2024, time.June, 15, 12, 30, 0, 0, time.UTC),
		Lines: []model.Line{
			{Text: "STARBUCKS #1234", Confidence: 0.95, Index: 0},
			{Text: "TOTAL: $6.75", Confidence: 0.92, Index: 1},
		},
		Amount:   model.FieldOf(model.Amount(675), 0.95, "TOTAL: $6.75"),
		Merchant: model.FieldOf("STARBUCKS #1234", 0.9, "STARBUCKS #1234"),
		Date:     model.FieldOf(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), 0.9, "2024-06-15"),
	}
}

func TestBuilder_AmountFeatures(t *testing.T) {
	b := newTestBuilder()
	v := b.Build(buildInput())

	// $6.75 falls in the [5, 15) bucket and nowhere else.
	assert.Equal(t, 1.0, v.Get("amount_bucket_small"))
	assert.Equal(t, 0.0, v.Get("amount_bucket_micro"))
	assert.Equal(t, 0.0, v.Get("amount_bucket_medium_small"))
	assert.Equal(t, 0.0, v.Get("amount_unknown"))
	assert.Equal(t, 0.0, v.Get("is_round_amount"))
	assert.Equal(t, 0.0, v.Get("is_subscription_price"))
	assert.InDelta(t, 2.0476928, v.Get("amount_log"), 1e-6)
}

func TestBuilder_AmountBucketBoundaries(t *testing.T) {
	tests := []struct {
		cents  int64
		bucket string
	}{
		{499, "micro"},
		{500, "small"},
		{1499, "small"},
		{1500, "medium_small"},
		{4999, "medium_small"},
		{5000, "medium"},
		{15000, "large"},
		{50000, "xlarge"},
		{123456, "xlarge"},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		in := buildInput()
		in.Amount = model.FieldOf(model.Amount(tt.cents), 0.9, "")
		v := b.Build(in)
		assert.Equal(t, 1.0, v.Get("amount_bucket_"+tt.bucket), "cents=%d", tt.cents)
	}
}

func TestBuilder_SubscriptionPrice(t *testing.T) {
	b := newTestBuilder()
	in := buildInput()
	in.Amount = model.FieldOf(model.Amount(999), 0.9, "")

	v := b.Build(in)

	assert.Equal(t, 1.0, v.Get("is_subscription_price"))
	assert.Equal(t, 0.0, v.Get("is_round_amount"))
}

func TestBuilder_RoundAmount(t *testing.T) {
	b := newTestBuilder()
	in := buildInput()
	in.Amount = model.FieldOf(model.Amount(2000), 0.9, "")

	v := b.Build(in)

	assert.Equal(t, 1.0, v.Get("is_round_amount"))
	assert.Equal(t, 0.0, v.Get("is_subscription_price"))
}

func TestBuilder_MissingFieldsUseSentinels(t *testing.T) {
	b := newTestBuilder()
	in := Input{
		CapturedAt: time.Date(2024, time.June, 15, 12, 30, 0, 0, time.UTC),
		Lines:      []model.Line{{Text: "unreadable", Confidence: 0.1, Index: 0}},
		Amount:     model.MissingField[model.Amount](),
		Merchant:   model.MissingField[string](),
		Date:       model.MissingField[time.Time](),
	}

	v := b.Build(in)

	assert.Equal(t, 1.0, v.Get("amount_unknown"))
	assert.Equal(t, 0.0, v.Get("amount_log"))
	assert.Equal(t, 1.0, v.Get("merchant_unknown"))
	assert.Equal(t, 0.0, v.Get("merchant_token_count"))
	// Capture time still supplies the temporal block when the date is missing.
	assert.Equal(t, 0.0, v.Get("date_unknown"))
	assert.Equal(t, float64(time.Saturday), v.Get("day_of_week"))
	assert.Equal(t, 1.0, v.Get("is_weekend"))
}

func TestBuilder_MerchantFeatures(t *testing.T) {
	b := newTestBuilder()
	v := b.Build(buildInput())

	assert.Equal(t, 2.0, v.Get("merchant_token_count"))
	assert.Equal(t, 1.0, v.Get("merchant_has_digits"))

	// The two tokens land somewhere in the hash block.
	total := 0.0
	for i := 0; i < merchantHashBuckets; i++ {
		total += v.Get(hashBucketName(i))
	}
	assert.Equal(t, 2.0, total)
}

func TestBuilder_TimeOfDay(t *testing.T) {
	b := newTestBuilder()
	in := buildInput()

	v := b.Build(in)
	assert.Equal(t, 1.0, v.Get("tod_lunch"))
	assert.Equal(t, 0.0, v.Get("tod_morning"))

	in.CapturedAt = time.Date(2024, time.June, 15, 23, 5, 0, 0, time.UTC)
	v = b.Build(in)
	assert.Equal(t, 1.0, v.Get("tod_late_night"))
	assert.Equal(t, 0.0, v.Get("tod_lunch"))
}

func TestBuilder_KeywordAndPaymentFeatures(t *testing.T) {
	b := newTestBuilder()
	in := buildInput()
	in.Lines = []model.Line{
		{Text: "STARBUCKS COFFEE", Confidence: 0.95, Index: 0},
		{Text: "VISA CARD ****1234", Confidence: 0.9, Index: 1},
	}

	v := b.Build(in)

	assert.Equal(t, 1.0, v.Get("kw_has_dining"))
	assert.GreaterOrEqual(t, v.Get("kw_count_dining"), 2.0)
	assert.Equal(t, 0.0, v.Get("kw_has_travel"))
	assert.Equal(t, 1.0, v.Get("pay_card"))
	assert.Equal(t, 0.0, v.Get("pay_cash"))
}

func TestBuilder_Deterministic(t *testing.T) {
	b := newTestBuilder()
	in := buildInput()

	first := b.Build(in)
	second := b.Build(in)

	require.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		assert.Equal(t, first.Get(name), second.Get(name), name)
	}
}

func TestBuilder_SchemaVersion(t *testing.T) {
	b := newTestBuilder()
	assert.Equal(t, "v1", b.SchemaVersion())
	assert.Equal(t, "v1", b.Build(buildInput()).Schema)
}

func TestVector_Slice(t *testing.T) {
	v := NewVector("v1")
	v.Set("a", 1)
	v.Set("b", 2)

	got := v.Slice([]string{"b", "missing", "a"})
	assert.Equal(t, []float64{2, 0, 1}, got)
}

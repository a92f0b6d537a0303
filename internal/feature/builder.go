package feature

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
)

// merchantHashBuckets is the size of the hashed bag-of-tokens block used to
// generalize to unseen merchants.
const merchantHashBuckets = 16

// amountBuckets are the fixed one-hot bucket boundaries, in dollars.
var amountBuckets = []struct {
	name string
	min  float64
	max  float64
}{
	{"micro", 0, 5},
	{"small", 5, 15},
	{"medium_small", 15, 50},
	{"medium", 50, 150},
	{"large", 150, 500},
	{"xlarge", 500, math.Inf(1)},
}

// subscriptionPrices are common recurring price points.
var subscriptionPrices = []float64{9.99, 14.99, 15.99, 19.99, 29.99, 39.99, 49.99, 79.99, 99.99}

var paymentKeywords = map[string][]string{
	"card":   {"card", "credit", "debit", "visa", "mastercard", "amex"},
	"mobile": {"upi", "apple pay", "google pay", "wallet", "contactless"},
	"auto":   {"auto-pay", "autopay", "automatically charged", "recurring"},
	"cash":   {"cash", "change due"},
}

var reDigit = regexp.MustCompile(`\d`)

// Input carries everything the builder consumes. Missing fields are
// tolerated: they contribute sentinel "unknown" values instead of failing.
type Input struct {
	CapturedAt time.Time
	Lines      []model.Line
	Amount     model.Field[model.Amount]
	Merchant   model.Field[string]
	Date       model.Field[time.Time]
}

// Builder constructs feature vectors for one schema version. It is pure
// and safe for concurrent use.
type Builder struct {
	schema        string
	keywordGroups []config.CategoryRule
}

// NewBuilder builds a feature builder bound to the configured schema
// version. Keyword groups come from the category rule table so the flags
// stay aligned with the configured label set.
func NewBuilder(cfg config.FeatureConfig, rules []config.CategoryRule) *Builder {
	return &Builder{
		schema:        cfg.SchemaVersion,
		keywordGroups: rules,
	}
}

// SchemaVersion returns the schema version this builder emits.
func (b *Builder) SchemaVersion() string {
	return b.schema
}

// Build produces the fixed-schema vector for one input.
func (b *Builder) Build(in Input) *Vector {
	v := NewVector(b.schema)
	text := strings.ToLower(linesText(in.Lines))

	b.amountFeatures(v, in.Amount)
	b.merchantFeatures(v, in.Merchant)
	b.timeFeatures(v, in.Date, in.CapturedAt)
	b.keywordFeatures(v, text)
	b.paymentFeatures(v, text)

	return v
}

func (b *Builder) amountFeatures(v *Vector, amount model.Field[model.Amount]) {
	for _, bucket := range amountBuckets {
		v.Set("amount_bucket_"+bucket.name, 0)
	}
	v.Set("amount_unknown", boolFeature(!amount.Present))
	if !amount.Present {
		v.Set("amount_log", 0)
		v.Set("is_round_amount", 0)
		v.Set("is_subscription_price", 0)
		return
	}

	dollars := amount.Value.Float64()
	for _, bucket := range amountBuckets {
		if dollars >= bucket.min && dollars < bucket.max {
			v.Set("amount_bucket_"+bucket.name, 1)
			break
		}
	}
	v.Set("amount_log", math.Log(dollars+1))
	v.Set("is_round_amount", boolFeature(amount.Value.Cents()%100 == 0))

	subscription := false
	for _, price := range subscriptionPrices {
		if model.NearlyEqual(dollars, price) {
			subscription = true
			break
		}
	}
	v.Set("is_subscription_price", boolFeature(subscription))
}

func (b *Builder) merchantFeatures(v *Vector, merchant model.Field[string]) {
	for i := 0; i < merchantHashBuckets; i++ {
		v.Set(hashBucketName(i), 0)
	}
	v.Set("merchant_unknown", boolFeature(!merchant.Present))
	if !merchant.Present {
		v.Set("merchant_token_count", 0)
		v.Set("merchant_has_digits", 0)
		return
	}

	name := strings.ToLower(merchant.Value)
	tokens := strings.Fields(name)
	v.Set("merchant_token_count", float64(len(tokens)))
	v.Set("merchant_has_digits", boolFeature(reDigit.MatchString(name)))

	// Bag of hashed tokens: stable generalization to unseen merchants
	// without a vocabulary.
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		bucket := int(h.Sum32() % merchantHashBuckets)
		v.Set(hashBucketName(bucket), v.Get(hashBucketName(bucket))+1)
	}
}

func (b *Builder) timeFeatures(v *Vector, date model.Field[time.Time], capturedAt time.Time) {
	ref := capturedAt
	if date.Present {
		ref = date.Value
	}
	v.Set("date_unknown", boolFeature(!date.Present && capturedAt.IsZero()))
	if ref.IsZero() {
		v.Set("day_of_week", 0)
		v.Set("is_weekend", 0)
		v.Set("is_month_start", 0)
		v.Set("is_month_end", 0)
	} else {
		v.Set("day_of_week", float64(ref.Weekday()))
		v.Set("is_weekend", boolFeature(ref.Weekday() == time.Saturday || ref.Weekday() == time.Sunday))
		v.Set("is_month_start", boolFeature(ref.Day() <= 5))
		v.Set("is_month_end", boolFeature(ref.Day() >= 25))
	}

	hour := -1
	if !capturedAt.IsZero() {
		hour = capturedAt.Hour()
	}
	v.Set("tod_morning", boolFeature(hour >= 6 && hour <= 10))
	v.Set("tod_lunch", boolFeature(hour >= 11 && hour <= 14))
	v.Set("tod_dinner", boolFeature(hour >= 17 && hour <= 21))
	v.Set("tod_late_night", boolFeature(hour >= 22 || (hour >= 0 && hour <= 5)))
}

func (b *Builder) keywordFeatures(v *Vector, text string) {
	for _, group := range b.keywordGroups {
		count := 0
		for _, kw := range group.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		name := groupFeatureName(group.Category)
		v.Set("kw_count_"+name, float64(count))
		v.Set("kw_has_"+name, boolFeature(count > 0))
	}
}

func (b *Builder) paymentFeatures(v *Vector, text string) {
	for method, keywords := range paymentKeywords {
		found := false
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				found = true
				break
			}
		}
		v.Set("pay_"+method, boolFeature(found))
	}
}

func hashBucketName(i int) string {
	return "merchant_hash_" + string(rune('a'+i))
}

func groupFeatureName(category string) string {
	return strings.ReplaceAll(strings.ToLower(category), " ", "_")
}

func linesText(lines []model.Line) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

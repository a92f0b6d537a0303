// Package processor sequences normalization, field extraction, feature
// building, and categorization into one pipeline and assembles the final
// transaction record.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lumina-receipts/lumina/internal/classify"
	"github.com/lumina-receipts/lumina/internal/common"
	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/extract"
	"github.com/lumina-receipts/lumina/internal/feature"
	"github.com/lumina-receipts/lumina/internal/model"
	"github.com/lumina-receipts/lumina/internal/normalize"
)

// stage tracks pipeline progress for one input. Finalized is terminal;
// there is no internal retry state.
type stage string

const (
	stageReceived         stage = "received"
	stageNormalized       stage = "normalized"
	stageFieldsExtracted  stage = "fields_extracted"
	stageFeaturesComputed stage = "features_computed"
	stageCategoryAssigned stage = "category_assigned"
	stageFinalized        stage = "finalized"
)

// Processor runs the full extraction and categorization pipeline. It holds
// no per-call mutable state and is safe for concurrent use.
type Processor struct {
	amounts    *extract.AmountExtractor
	merchants  *extract.MerchantExtractor
	dates      *extract.DateExtractor
	features   *feature.Builder
	classifier classify.Strategy
	weights    config.ConfidenceWeights
}

// New wires the pipeline from configuration and the chosen classifier.
func New(cfg *config.Config, classifier classify.Strategy) *Processor {
	return &Processor{
		amounts:    extract.NewAmountExtractor(cfg.Amount),
		merchants:  extract.NewMerchantExtractor(cfg.Merchant),
		dates:      extract.NewDateExtractor(cfg.Date),
		features:   feature.NewBuilder(cfg.Features, cfg.Classifier.Rules),
		classifier: classifier,
		weights:    cfg.Weights,
	}
}

// Process runs one input through the pipeline and returns the immutable
// transaction record. A failed field extraction never aborts the pipeline;
// the field is simply missing. Empty input and feature schema mismatches
// surface as errors.
func (p *Processor) Process(ctx context.Context, in model.RawInput) (*model.Transaction, error) {
	current := stageReceived
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: no text lines", common.ErrInvalidInput)
	}

	lines := normalize.Lines(in.Lines)
	current = stageNormalized

	amount := p.amounts.Extract(lines)
	merchant := p.merchants.Extract(lines)
	date := p.dates.Extract(lines, in.CapturedAt)
	current = stageFieldsExtracted
	slog.Debug("fields extracted",
		"amount_found", amount.Present,
		"merchant_found", merchant.Present,
		"date_found", date.Present)

	vector := p.features.Build(feature.Input{
		CapturedAt: in.CapturedAt,
		Lines:      lines,
		Amount:     amount,
		Merchant:   merchant,
		Date:       date,
	})
	current = stageFeaturesComputed

	merchantName := ""
	if merchant.Present {
		merchantName = merchant.Value
	}
	prediction, err := p.classifier.Predict(ctx, classify.Input{
		Features: vector,
		Merchant: merchantName,
		RawText:  in.Text(),
	})
	if err != nil {
		return nil, fmt.Errorf("categorization failed at stage %s: %w", current, err)
	}
	current = stageCategoryAssigned

	txn := p.assemble(in, amount, merchant, date, prediction)
	current = stageFinalized

	slog.Info("transaction finalized",
		"stage", current,
		"category", txn.Category,
		"method", txn.Method,
		"confidence", txn.Confidence)
	return txn, nil
}

func (p *Processor) assemble(
	in model.RawInput,
	amount model.Field[model.Amount],
	merchant model.Field[string],
	date model.Field[time.Time],
	prediction model.CategoryPrediction,
) *model.Transaction {
	txn := &model.Transaction{
		Category:   prediction.Category,
		Method:     prediction.Method,
		RawText:    in.Text(),
		Confidence: p.aggregateConfidence(amount, merchant, date, prediction),
	}
	if amount.Present {
		a := amount.Value
		txn.TotalAmount = &a
	}
	if merchant.Present {
		m := merchant.Value
		txn.MerchantName = &m
	}
	if date.Present {
		d := model.Date{Time: date.Value}
		txn.ReceiptDate = &d
	}
	return txn
}

// aggregateConfidence combines the field-level confidences and the
// classifier confidence with the configured weights. Missing fields
// contribute zero, so a transaction with garbled fields finishes with a
// reduced score instead of failing.
func (p *Processor) aggregateConfidence(
	amount model.Field[model.Amount],
	merchant model.Field[string],
	date model.Field[time.Time],
	prediction model.CategoryPrediction,
) float64 {
	total := p.weights.Amount + p.weights.Merchant + p.weights.Date + p.weights.Category
	sum := p.weights.Amount*amount.Confidence +
		p.weights.Merchant*merchant.Confidence +
		p.weights.Date*date.Confidence +
		p.weights.Category*prediction.Confidence
	// Round to three decimals so serialized output is stable.
	return math.Round(sum/total*1000) / 1000
}

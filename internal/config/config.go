// Package config defines the structured configuration consumed by the
// pipeline. All tunables are enumerated, validated fields loaded once and
// passed explicitly; no loosely-typed maps flow through the engine.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lumina-receipts/lumina/internal/common"
)

// LoggingConfig controls the global slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CategoryRule is one ordered keyword rule for the rule-based strategy.
type CategoryRule struct {
	Category   string   `mapstructure:"category"`
	Keywords   []string `mapstructure:"keywords"`
	Confidence float64  `mapstructure:"confidence"`
}

// ClassifierConfig holds categorization tunables.
type ClassifierConfig struct {
	Rules []CategoryRule `mapstructure:"rules"`
	// ConfidenceThreshold is the minimum top probability for an ML
	// prediction to be accepted instead of falling back to rules.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// UncategorizedConfidence is the fixed floor confidence reported when
	// no rule matches.
	UncategorizedConfidence float64 `mapstructure:"uncategorized_confidence"`
}

// AmountConfig holds the ordered label priority list for amount extraction.
// Earlier labels outrank later ones; the trailing bare-currency-token
// fallback always ranks below every configured label.
type AmountConfig struct {
	Labels []string `mapstructure:"labels"`
}

// MerchantConfig holds merchant extraction tunables.
type MerchantConfig struct {
	// WindowLines is how many leading lines are searched for the merchant.
	WindowLines int `mapstructure:"window_lines"`
	MinTokenLen int `mapstructure:"min_token_len"`
	MaxTokenLen int `mapstructure:"max_token_len"`
}

// DateConfig holds date extraction tunables.
type DateConfig struct {
	// FutureTolerance is how far past the capture timestamp a parsed date
	// may fall before it is rejected.
	FutureTolerance time.Duration `mapstructure:"future_tolerance"`
	// MaxPastYears is the horizon beyond which dates are implausible.
	MaxPastYears int `mapstructure:"max_past_years"`
}

// FeatureConfig binds the feature builder to a schema version.
type FeatureConfig struct {
	SchemaVersion string `mapstructure:"schema_version"`
}

// ConfidenceWeights combines field confidences into the aggregate score.
type ConfidenceWeights struct {
	Amount   float64 `mapstructure:"amount"`
	Merchant float64 `mapstructure:"merchant"`
	Date     float64 `mapstructure:"date"`
	Category float64 `mapstructure:"category"`
}

// Config is the full engine configuration.
type Config struct {
	Logging    LoggingConfig     `mapstructure:"logging"`
	ModelPath  string            `mapstructure:"model_path"`
	DBPath     string            `mapstructure:"db_path"`
	Categories []string          `mapstructure:"categories"`
	Classifier ClassifierConfig  `mapstructure:"classifier"`
	Amount     AmountConfig      `mapstructure:"amount"`
	Merchant   MerchantConfig    `mapstructure:"merchant"`
	Date       DateConfig        `mapstructure:"date"`
	Features   FeatureConfig     `mapstructure:"features"`
	Weights    ConfidenceWeights `mapstructure:"weights"`
}

// Load builds the configuration from defaults overlaid with whatever the
// given viper instance read from file, environment, and bound flags.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the closed label set and tunable ranges.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories configured", common.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat == "" {
			return fmt.Errorf("%w: empty category label", common.ErrInvalidConfig)
		}
		if seen[cat] {
			return fmt.Errorf("%w: duplicate category %q", common.ErrInvalidConfig, cat)
		}
		seen[cat] = true
	}

	for _, rule := range c.Classifier.Rules {
		if !seen[rule.Category] {
			return fmt.Errorf("%w: rule references unknown category %q", common.ErrInvalidConfig, rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("%w: rule for %q has no keywords", common.ErrInvalidConfig, rule.Category)
		}
		if rule.Confidence <= 0 || rule.Confidence > 1 {
			return fmt.Errorf("%w: rule for %q has confidence %v outside (0,1]", common.ErrInvalidConfig, rule.Category, rule.Confidence)
		}
	}

	if t := c.Classifier.ConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("%w: confidence threshold %v outside [0,1]", common.ErrInvalidConfig, t)
	}
	if u := c.Classifier.UncategorizedConfidence; u < 0 || u > 1 {
		return fmt.Errorf("%w: uncategorized confidence %v outside [0,1]", common.ErrInvalidConfig, u)
	}
	if len(c.Amount.Labels) == 0 {
		return fmt.Errorf("%w: no amount labels configured", common.ErrInvalidConfig)
	}
	if c.Merchant.WindowLines <= 0 {
		return fmt.Errorf("%w: merchant window must be positive", common.ErrInvalidConfig)
	}
	if c.Date.MaxPastYears <= 0 {
		return fmt.Errorf("%w: date horizon must be positive", common.ErrInvalidConfig)
	}
	if c.Features.SchemaVersion == "" {
		return fmt.Errorf("%w: feature schema version required", common.ErrInvalidConfig)
	}

	sum := c.Weights.Amount + c.Weights.Merchant + c.Weights.Date + c.Weights.Category
	if sum <= 0 {
		return fmt.Errorf("%w: confidence weights must sum to a positive value", common.ErrInvalidConfig)
	}

	return nil
}

// IsKnownCategory reports whether the label belongs to the closed set
// (configured categories plus the reserved Uncategorized label).
func (c *Config) IsKnownCategory(label string) bool {
	if label == "Uncategorized" {
		return true
	}
	for _, cat := range c.Categories {
		if cat == label {
			return true
		}
	}
	return false
}

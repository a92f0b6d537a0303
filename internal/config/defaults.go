package config

import "time"

// Default returns the built-in configuration. Every value here can be
// overridden from the config file or environment.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		ModelPath: "",
		DBPath:    "",
		Categories: []string{
			"Dining",
			"Groceries",
			"Transportation",
			"Entertainment",
			"Utilities",
			"Shopping",
			"Healthcare",
			"Travel",
			"Subscriptions",
			"Services",
		},
		Classifier: ClassifierConfig{
			ConfidenceThreshold:     0.3,
			UncategorizedConfidence: 0.1,
			Rules:                   defaultRules(),
		},
		Amount: AmountConfig{
			Labels: []string{
				"GRAND TOTAL",
				"TOTAL",
				"AMOUNT DUE",
				"BALANCE",
			},
		},
		Merchant: MerchantConfig{
			WindowLines: 5,
			MinTokenLen: 2,
			MaxTokenLen: 40,
		},
		Date: DateConfig{
			FutureTolerance: 24 * time.Hour,
			MaxPastYears:    10,
		},
		Features: FeatureConfig{
			SchemaVersion: "v1",
		},
		Weights: ConfidenceWeights{
			Amount:   0.30,
			Merchant: 0.20,
			Date:     0.15,
			Category: 0.35,
		},
	}
}

// defaultRules is the ordered rule table for the rule-based strategy.
// Order matters: earlier rules win unless a later rule matches a strictly
// longer keyword.
func defaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Category:   "Entertainment",
			Keywords:   []string{"netflix", "spotify", "disney", "hulu", "youtube", "steam", "apple music", "amazon prime", "streaming", "cinema", "theater", "concert"},
			Confidence: 0.95,
		},
		{
			Category:   "Subscriptions",
			Keywords:   []string{"microsoft 365", "office 365", "adobe", "dropbox", "icloud", "annual plan", "software license", "membership renewal"},
			Confidence: 0.93,
		},
		{
			Category:   "Utilities",
			Keywords:   []string{"verizon", "at&t", "t-mobile", "comcast", "electric bill", "water bill", "internet service", "utility", "wireless", "power company"},
			Confidence: 0.92,
		},
		{
			Category:   "Groceries",
			Keywords:   []string{"walmart", "costco", "kroger", "safeway", "whole foods", "trader joe", "aldi", "grocery", "supermarket", "produce", "organic market"},
			Confidence: 0.90,
		},
		{
			Category:   "Travel",
			Keywords:   []string{"delta", "united airlines", "southwest", "marriott", "hilton", "airbnb", "booking.com", "expedia", "hotel", "flight", "airline", "airport", "resort"},
			Confidence: 0.90,
		},
		{
			Category:   "Dining",
			Keywords:   []string{"mcdonald", "starbucks", "chipotle", "subway", "kfc", "domino", "pizza", "dunkin", "restaurant", "cafe", "coffee", "diner", "takeout", "burger", "bakery"},
			Confidence: 0.88,
		},
		{
			Category:   "Healthcare",
			Keywords:   []string{"cvs", "walgreens", "pharmacy", "hospital", "clinic", "dental", "prescription", "medical", "urgent care", "optometry"},
			Confidence: 0.88,
		},
		{
			Category:   "Transportation",
			Keywords:   []string{"uber", "lyft", "shell", "chevron", "exxon", "gas station", "fuel", "parking", "toll", "metro", "taxi", "transit"},
			Confidence: 0.85,
		},
		{
			Category:   "Shopping",
			Keywords:   []string{"amazon", "ebay", "best buy", "home depot", "target", "ikea", "clothing", "outlet", "department store", "mall"},
			Confidence: 0.75,
		},
		{
			Category:   "Services",
			Keywords:   []string{"salon", "barber", "laundry", "dry clean", "repair", "plumbing", "locksmith", "notary", "cleaning service", "car wash"},
			Confidence: 0.70,
		},
	}
}

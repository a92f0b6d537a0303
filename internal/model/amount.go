package model

import (
	"fmt"
	"math"
)

// Amount is a monetary value in integer cents. Arithmetic and comparison
// stay exact; floating point appears only at the feature-computation edge.
type Amount int64

// AmountFromCents validates and wraps a cent count. Negative amounts are
// rejected: receipts and charge notifications only carry charges.
func AmountFromCents(cents int64) (Amount, error) {
	if cents < 0 {
		return 0, fmt.Errorf("amount cannot be negative: %d cents", cents)
	}
	return Amount(cents), nil
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Float64 returns the value in dollars for feature computation.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// String renders the canonical "$XX.XX" form.
func (a Amount) String() string {
	return fmt.Sprintf("$%d.%02d", int64(a)/100, int64(a)%100)
}

// MarshalJSON renders the amount as its canonical string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", a.String())), nil
}

// NearlyEqual compares two dollar values within half a cent.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

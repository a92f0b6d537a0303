package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Date is a calendar date rendered as ISO-8601 (YYYY-MM-DD) in JSON.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to the calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.Format("2006-01-02"))), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(data))
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	d.Time = t
	return nil
}

// Transaction is the final structured record for one processed input.
// It is constructed once by the processor and immutable thereafter.
type Transaction struct {
	MerchantName *string              `json:"merchant_name"`
	TotalAmount  *Amount              `json:"total_amount"`
	ReceiptDate  *Date                `json:"receipt_date"`
	Category     string               `json:"category"`
	Confidence   float64              `json:"confidence"`
	Method       CategorizationMethod `json:"categorization_method"`
	RawText      string               `json:"raw_text"`
}

// Hash returns a content hash for duplicate detection.
func (t *Transaction) Hash() string {
	merchant := ""
	if t.MerchantName != nil {
		merchant = *t.MerchantName
	}
	amount := ""
	if t.TotalAmount != nil {
		amount = t.TotalAmount.String()
	}
	date := ""
	if t.ReceiptDate != nil {
		date = t.ReceiptDate.Format("2006-01-02")
	}
	data := fmt.Sprintf("%s:%s:%s:%s", date, amount, merchant, t.RawText)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(data)))
}

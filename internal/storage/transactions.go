package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumina-receipts/lumina/internal/model"
)

// Record is a stored transaction with its storage identity.
type Record struct {
	ProcessedAt time.Time
	ID          string
	Hash        string
	Transaction model.Transaction
}

// SaveTransaction stores one finalized transaction and returns its record
// ID. Duplicate content (same hash) is stored again deliberately; callers
// can dedupe on the hash index.
func (s *SQLiteStore) SaveTransaction(ctx context.Context, txn *model.Transaction) (string, error) {
	if txn == nil {
		return "", fmt.Errorf("transaction cannot be nil")
	}

	id := uuid.New().String()
	var merchant, amount, date sql.NullString
	if txn.MerchantName != nil {
		merchant = sql.NullString{String: *txn.MerchantName, Valid: true}
	}
	if txn.TotalAmount != nil {
		amount = sql.NullString{String: txn.TotalAmount.String(), Valid: true}
	}
	if txn.ReceiptDate != nil {
		date = sql.NullString{String: txn.ReceiptDate.Format("2006-01-02"), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, hash, merchant_name, total_amount, receipt_date, category, confidence, categorization_method, raw_text, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, txn.Hash(), merchant, amount, date,
		txn.Category, txn.Confidence, string(txn.Method), txn.RawText,
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save transaction: %w", err)
	}
	return id, nil
}

// ListTransactions returns stored records, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, merchant_name, total_amount, receipt_date, category, confidence, categorization_method, raw_text, processed_at
		FROM transactions
		ORDER BY processed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			merchant sql.NullString
			amount   sql.NullString
			date     sql.NullString
			method   string
		)
		if err := rows.Scan(&rec.ID, &rec.Hash, &merchant, &amount, &date,
			&rec.Transaction.Category, &rec.Transaction.Confidence, &method,
			&rec.Transaction.RawText, &rec.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		rec.Transaction.Method = model.CategorizationMethod(method)
		if merchant.Valid {
			m := merchant.String
			rec.Transaction.MerchantName = &m
		}
		if amount.Valid {
			if cents, ok := parseStoredAmount(amount.String); ok {
				a := model.Amount(cents)
				rec.Transaction.TotalAmount = &a
			}
		}
		if date.Valid {
			if t, err := time.Parse("2006-01-02", date.String); err == nil {
				d := model.Date{Time: t}
				rec.Transaction.ReceiptDate = &d
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return records, nil
}

// parseStoredAmount reads back the "$XX.XX" column format.
func parseStoredAmount(s string) (int64, bool) {
	var dollars, cents int64
	if _, err := fmt.Sscanf(s, "$%d.%02d", &dollars, &cents); err != nil {
		return 0, false
	}
	return dollars*100 + cents, true
}

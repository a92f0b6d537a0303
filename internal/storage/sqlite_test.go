package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-receipts/lumina/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lumina.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTransaction() *model.Transaction {
	merchant := "STARBUCKS #1234"
	amount := model.Amount(1592)
	date := model.NewDate(2024, 8, 5)
	return &model.Transaction{
		MerchantName: &merchant,
		TotalAmount:  &amount,
		ReceiptDate:  &date,
		Category:     "Dining",
		Confidence:   0.874,
		Method:       model.MethodRuleBased,
		RawText:      "STARBUCKS #1234\nTOTAL: $15.92",
	}
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	txn := sampleTransaction()
	id, err := store.SaveTransaction(ctx, txn)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := store.ListTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, txn.Hash(), rec.Hash)
	require.NotNil(t, rec.Transaction.MerchantName)
	assert.Equal(t, "STARBUCKS #1234", *rec.Transaction.MerchantName)
	require.NotNil(t, rec.Transaction.TotalAmount)
	assert.Equal(t, "$15.92", rec.Transaction.TotalAmount.String())
	require.NotNil(t, rec.Transaction.ReceiptDate)
	assert.Equal(t, "2024-08-05", rec.Transaction.ReceiptDate.Format("2006-01-02"))
	assert.Equal(t, "Dining", rec.Transaction.Category)
	assert.Equal(t, 0.874, rec.Transaction.Confidence)
	assert.Equal(t, model.MethodRuleBased, rec.Transaction.Method)
	assert.False(t, rec.ProcessedAt.IsZero())
}

func TestSQLiteStore_NullableFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	txn := &model.Transaction{
		Category:   model.Uncategorized,
		Confidence: 0.12,
		Method:     model.MethodRuleBased,
		RawText:    "unreadable scan",
	}
	_, err := store.SaveTransaction(ctx, txn)
	require.NoError(t, err)

	records, err := store.ListTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Nil(t, records[0].Transaction.MerchantName)
	assert.Nil(t, records[0].Transaction.TotalAmount)
	assert.Nil(t, records[0].Transaction.ReceiptDate)
}

func TestSQLiteStore_NilTransaction(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveTransaction(context.Background(), nil)
	assert.Error(t, err)
}

func TestSQLiteStore_DuplicatesKeepDistinctIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	txn := sampleTransaction()
	first, err := store.SaveTransaction(ctx, txn)
	require.NoError(t, err)
	second, err := store.SaveTransaction(ctx, txn)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	records, err := store.ListTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, records[0].Hash, records[1].Hash)
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.SaveTransaction(ctx, sampleTransaction())
		require.NoError(t, err)
	}

	records, err := store.ListTransactions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestParseStoredAmount(t *testing.T) {
	cents, ok := parseStoredAmount("$15.92")
	require.True(t, ok)
	assert.Equal(t, int64(1592), cents)

	cents, ok = parseStoredAmount("$1234.00")
	require.True(t, ok)
	assert.Equal(t, int64(123400), cents)

	_, ok = parseStoredAmount("15.92")
	assert.False(t, ok)
}

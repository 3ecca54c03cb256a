// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ModifiedAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	assert.Equal(t, created, Record{CreatedAt: created}.ModifiedAt())
	assert.Equal(t, updated, Record{CreatedAt: created, UpdatedAt: &updated}.ModifiedAt())
}

func TestRecord_Normalize(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	created := time.Date(2026, 1, 1, 13, 0, 0, 123456789, loc)
	updated := created.Add(time.Nanosecond * 999)

	r := Record{CreatedAt: created, UpdatedAt: &updated}.Normalize()

	assert.Equal(t, time.UTC, r.CreatedAt.Location())
	assert.Equal(t, 123456000, r.CreatedAt.Nanosecond())
	require.NotNil(t, r.UpdatedAt)
	assert.Equal(t, 123457000, r.UpdatedAt.Nanosecond())
	// the original pointer is left untouched
	assert.Equal(t, 123457788, updated.Nanosecond())
}

func TestRecord_Fingerprint(t *testing.T) {
	a := Record{Fields: map[string]any{"amount": "10.50", "category": "food"}}
	b := Record{Fields: map[string]any{"category": "food", "amount": "10.50"}}
	c := Record{Fields: map[string]any{"amount": "10.51", "category": "food"}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestCollectionType_Valid(t *testing.T) {
	for _, c := range Collections() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, CollectionType("budgets").Valid())
	assert.False(t, CollectionType("").Valid())
}

func TestTransaction_RecordRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	tx := Transaction{
		ID:          "tx-1",
		AccountID:   "acc-1",
		Amount:      decimal.RequireFromString("-12.34"),
		Currency:    "EUR",
		Category:    "groceries",
		Description: "market",
		OccurredAt:  created.Add(-time.Hour),
		CreatedAt:   created,
	}

	r := tx.ToRecord()
	assert.Equal(t, CollectionTransactions, r.Collection)
	assert.Equal(t, "-12.34", r.Fields["amount"])

	got, err := TransactionFromRecord(r)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(got.Amount))
	assert.Equal(t, tx.OccurredAt, got.OccurredAt)
	assert.Equal(t, tx.AccountID, got.AccountID)
}

func TestAccountFromRecord_NumericBalance(t *testing.T) {
	r := Record{ID: "a1", Fields: map[string]any{"name": "cash", "balance": float64(250)}}

	acc, err := AccountFromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, "cash", acc.Name)
	assert.True(t, decimal.NewFromInt(250).Equal(acc.Balance))
}

func TestAccountFromRecord_BadBalance(t *testing.T) {
	_, err := AccountFromRecord(Record{Fields: map[string]any{"balance": true}})
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = AccountFromRecord(Record{Fields: map[string]any{"balance": "abc"}})
	assert.Error(t, err)
}

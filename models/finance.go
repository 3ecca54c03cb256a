// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrFieldType is returned when a record field cannot be decoded into the
// typed view.
var ErrFieldType = errors.New("unexpected field type")

// Transaction is the typed view of a record in the transactions collection.
// The sync core moves it around as an opaque Record; only host-facing code
// reads these fields.
type Transaction struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Account is the typed view of a record in the accounts collection.
type Account struct {
	ID        string
	Name      string
	Kind      string
	Currency  string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ToRecord encodes the transaction as a sync record. Amounts are stored as
// decimal strings so they survive a JSON round trip without float rounding.
func (t Transaction) ToRecord() Record {
	return Record{
		ID:         t.ID,
		Collection: CollectionTransactions,
		Fields: map[string]any{
			"account_id":  t.AccountID,
			"amount":      t.Amount.String(),
			"currency":    t.Currency,
			"category":    t.Category,
			"description": t.Description,
			"occurred_at": NormalizeTime(t.OccurredAt).Format(time.RFC3339Nano),
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}.Normalize()
}

// TransactionFromRecord decodes r into a Transaction.
func TransactionFromRecord(r Record) (Transaction, error) {
	amount, err := decimalField(r.Fields, "amount")
	if err != nil {
		return Transaction{}, err
	}

	var occurredAt time.Time
	if raw := stringField(r.Fields, "occurred_at"); raw != "" {
		occurredAt, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Transaction{}, fmt.Errorf("occurred_at: %w", err)
		}
	}

	return Transaction{
		ID:          r.ID,
		AccountID:   stringField(r.Fields, "account_id"),
		Amount:      amount,
		Currency:    stringField(r.Fields, "currency"),
		Category:    stringField(r.Fields, "category"),
		Description: stringField(r.Fields, "description"),
		OccurredAt:  occurredAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// ToRecord encodes the account as a sync record.
func (a Account) ToRecord() Record {
	return Record{
		ID:         a.ID,
		Collection: CollectionAccounts,
		Fields: map[string]any{
			"name":     a.Name,
			"kind":     a.Kind,
			"currency": a.Currency,
			"balance":  a.Balance.String(),
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}.Normalize()
}

// AccountFromRecord decodes r into an Account.
func AccountFromRecord(r Record) (Account, error) {
	balance, err := decimalField(r.Fields, "balance")
	if err != nil {
		return Account{}, err
	}

	return Account{
		ID:        r.ID,
		Name:      stringField(r.Fields, "name"),
		Kind:      stringField(r.Fields, "kind"),
		Currency:  stringField(r.Fields, "currency"),
		Balance:   balance,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// decimalField accepts both the string form written by ToRecord and plain
// JSON numbers written by other clients.
func decimalField(fields map[string]any, key string) (decimal.Decimal, error) {
	switch v := fields[key].(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Zero, fmt.Errorf("%s: %w: %T", key, ErrFieldType, v)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/blake2b"
)

// CollectionType names a synchronized collection of user records.
type CollectionType string

const (
	// CollectionTransactions holds income/expense entries.
	CollectionTransactions CollectionType = "transactions"
	// CollectionAccounts holds wallets, bank accounts and cards.
	CollectionAccounts CollectionType = "accounts"
)

// Collections returns every collection the sync core reconciles, in the order
// a sync pass visits them.
func Collections() []CollectionType {
	return []CollectionType{CollectionTransactions, CollectionAccounts}
}

// Valid reports whether c is one of the known collections.
func (c CollectionType) Valid() bool {
	switch c {
	case CollectionTransactions, CollectionAccounts:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (c CollectionType) String() string {
	return string(c)
}

// Record is a single user-owned document as both stores see it.
//
// Fields is opaque to the sync core: only ID, CreatedAt and UpdatedAt take
// part in reconciliation decisions. Deleted is set only on copies returned by
// the remote store and marks a soft-deleted document (deletion marker); local
// copies never carry it.
type Record struct {
	ID         string         `json:"id"`
	Collection CollectionType `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
	Deleted    bool           `json:"deleted,omitempty"`
}

// ModifiedAt returns the record's last-modified time: UpdatedAt when present,
// CreatedAt otherwise.
func (r Record) ModifiedAt() time.Time {
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	return r.CreatedAt
}

// Normalize returns a copy of r with timestamps in UTC truncated to
// microseconds, the precision both stores keep.
func (r Record) Normalize() Record {
	r.CreatedAt = NormalizeTime(r.CreatedAt)
	if r.UpdatedAt != nil {
		u := NormalizeTime(*r.UpdatedAt)
		r.UpdatedAt = &u
	}
	return r
}

// Fingerprint returns a hex BLAKE2b-256 digest of the canonical JSON encoding
// of Fields. encoding/json sorts map keys, so equal field sets always produce
// equal fingerprints.
func (r Record) Fingerprint() string {
	payload, err := json.Marshal(r.Fields)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// NormalizeTime converts t to UTC with microsecond precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// TimePtr returns a pointer to a normalized copy of t.
func TimePtr(t time.Time) *time.Time {
	n := NormalizeTime(t)
	return &n
}

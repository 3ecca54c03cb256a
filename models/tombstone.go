// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Tombstone remembers that a record was deleted locally and that the deletion
// has not yet been confirmed by the remote store.
type Tombstone struct {
	Collection CollectionType `json:"collection"`
	ID         string         `json:"id"`
	DeletedAt  time.Time      `json:"deleted_at"`
}

// TombstoneKey identifies a tombstone inside the ledger.
type TombstoneKey struct {
	Collection CollectionType
	ID         string
}

// Key returns the ledger key of t.
func (t Tombstone) Key() TombstoneKey {
	return TombstoneKey{Collection: t.Collection, ID: t.ID}
}

// TombstoneSet is an immutable snapshot of one collection's tombstones,
// keyed by record id and holding the deletion time.
type TombstoneSet map[string]time.Time

// Has reports whether id is tombstoned in the snapshot.
func (s TombstoneSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

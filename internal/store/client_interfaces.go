// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// LocalRecordRepository is the client's embedded, offline-capable record
// store. One instance serves every collection; methods are scoped by the
// collection argument.
//
// Implementations must return fully materialized snapshots from ListAll and
// treat Delete of a missing id as success.
type LocalRecordRepository interface {
	// ListAll returns every record of the collection.
	ListAll(ctx context.Context, collection models.CollectionType) ([]models.Record, error)
	// Get returns a single record or ErrRecordNotFound.
	Get(ctx context.Context, collection models.CollectionType, id string) (models.Record, error)
	// Insert writes the record, replacing any existing copy with the same id.
	Insert(ctx context.Context, record models.Record) error
	// Update merges fields into an existing record and sets its updated_at.
	// Returns ErrRecordNotFound when the id does not exist.
	Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) error
	// Delete removes the record. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection models.CollectionType, id string) error
}

// TombstoneStorage is the durable surface behind the tombstone ledger: a
// read-all/write-all store. Save must not return before the data is flushed.
type TombstoneStorage interface {
	Load(ctx context.Context) ([]models.Tombstone, error)
	Save(ctx context.Context, tombstones []models.Tombstone) error
}

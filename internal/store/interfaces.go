// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// RecordRepository is the remote backend's multi-tenant document store.
// Every method is scoped to one user; records of other users are never
// visible.
type RecordRepository interface {
	// ListAll returns every record of the user's collection, including
	// soft-deleted ones (Deleted == true).
	ListAll(ctx context.Context, filter models.RecordFilter) ([]models.Record, error)
	// Insert writes the record, replacing any existing copy and clearing its
	// deletion marker.
	Insert(ctx context.Context, userID string, record models.Record) error
	// Update merges fields into a live record and returns the stored result.
	// Returns ErrRecordNotFound when the record is missing or deleted.
	Update(ctx context.Context, userID string, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error)
	// Delete soft-deletes the record, stamping deletedAt as its updated_at.
	// Deleting a missing or already deleted record is not an error.
	Delete(ctx context.Context, userID string, collection models.CollectionType, id string, deletedAt time.Time) error
}

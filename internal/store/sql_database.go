// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

// DB wraps a database/sql handle together with the backend-specific error
// classifier and migration routine.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	migrate            func(ctx context.Context, db *sql.DB) error
	logger             *logger.Logger
}

// ErrorClassificator decides whether a driver error is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// Migrate applies the embedded schema of the backend.
func (db *DB) Migrate(ctx context.Context) error {
	return db.migrate(ctx, db.DB)
}

// IsRetryable reports whether err is a transient backend failure.
func (db *DB) IsRetryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
)

// sqliteTombstoneStorage keeps the ledger in the tombstones table of the
// local store. Save replaces the whole table inside one transaction; SQLite
// commits are durable before Commit returns.
type sqliteTombstoneStorage struct {
	*DB
	logger *logger.Logger
}

func NewSQLiteTombstoneStorage(db *DB, logger *logger.Logger) TombstoneStorage {
	return &sqliteTombstoneStorage{
		DB:     db,
		logger: logger,
	}
}

func (s *sqliteTombstoneStorage) Load(ctx context.Context) ([]models.Tombstone, error) {
	rows, err := s.DB.QueryContext(ctx, localListTombstones)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteTombstoneStorage.Load").Msg("failed to query tombstones")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tombstones := make([]models.Tombstone, 0, 16)
	for rows.Next() {
		var (
			t         models.Tombstone
			deletedAt string
		)
		if err := rows.Scan(&t.Collection, &t.ID, &deletedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		parsed, err := time.Parse(sqliteTimeLayout, deletedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: deleted_at: %w", ErrScanningRow, err)
		}
		t.DeletedAt = parsed.UTC()
		tombstones = append(tombstones, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tombstones, nil
}

func (s *sqliteTombstoneStorage) Save(ctx context.Context, tombstones []models.Tombstone) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteTombstoneStorage.Save").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, localClearTombstones); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	stmt, err := tx.PrepareContext(ctx, localInsertTombstone)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for _, t := range tombstones {
		if _, err := stmt.ExecContext(ctx, string(t.Collection), t.ID, formatLocalTime(t.DeletedAt)); err != nil {
			s.logger.Err(err).
				Str("func", "sqliteTombstoneStorage.Save").
				Str("collection", string(t.Collection)).
				Str("id", t.ID).
				Msg("failed to insert tombstone")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

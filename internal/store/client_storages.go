// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

// ClientStorages groups the client-side persistence: the local record store
// and the durable backend of the tombstone ledger.
type ClientStorages struct {
	// RecordRepository is the SQLite-backed local copy of every collection.
	RecordRepository LocalRecordRepository
	// TombstoneStorage persists the tombstone ledger. It is a JSON file when
	// cfg.Tombstones.Path is set, otherwise the tombstones table of the
	// local store.
	TombstoneStorage TombstoneStorage

	db *DB
}

// NewClientStorages opens the local SQLite store (creating the file on first
// use), applies pending migrations and picks the tombstone backend.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg.LocalDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	tombstones := NewSQLiteTombstoneStorage(db, logger)
	if cfg.Tombstones.Path != "" {
		tombstones, err = NewFileTombstoneStorage(cfg.Tombstones.Path)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Debug().Str("path", cfg.Tombstones.Path).Msg("tombstones kept in file")
	}

	return &ClientStorages{
		RecordRepository: NewLocalRecordRepository(db, logger),
		TombstoneStorage: tombstones,
		db:               db,
	}, nil
}

// Close releases the SQLite handle.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

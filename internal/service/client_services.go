// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
)

// ClientServices groups the client-side services around one local store and
// one remote store.
type ClientServices struct {
	Ledger        TombstoneLedger
	Cache         SnapshotCache
	RecordService ClientRecordService
	SyncService   ClientSyncService
	Orchestrator  SyncOrchestrator
}

// NewClientServices loads the tombstone ledger and wires the sync stack.
// The orchestrator is returned uninitialized.
func NewClientServices(
	ctx context.Context,
	storages *store.ClientStorages,
	remote adapter.RemoteStore,
	identity adapter.IdentityProvider,
	connectivity adapter.ConnectivitySignal,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) (*ClientServices, error) {
	ledger, err := NewTombstoneLedger(ctx, storages.TombstoneStorage, cfg.Storage.Tombstones, logger)
	if err != nil {
		return nil, fmt.Errorf("tombstone ledger: %w", err)
	}

	cache := NewSnapshotCache()
	syncSvc := NewClientSyncService(storages.RecordRepository, remote, ledger, cache, cfg.Workers.ApplyConcurrency, logger)

	return &ClientServices{
		Ledger:        ledger,
		Cache:         cache,
		RecordService: NewClientRecordService(storages.RecordRepository, remote, ledger, connectivity, logger),
		SyncService:   syncSvc,
		Orchestrator:  NewSyncOrchestrator(syncSvc, identity, connectivity, remote, cache, cfg.Workers, logger),
	}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// ReconcileService computes what a sync pass has to do for one collection.
// It is a pure function of its inputs and performs no I/O.
type ReconcileService interface {
	// BuildReconcilePlan compares the local and remote snapshots of
	// collection, consulting the tombstone snapshot, and returns one or more
	// actions per id, ordered by id. All decisions are made before anything
	// is applied.
	BuildReconcilePlan(ctx context.Context, collection models.CollectionType, local, remote []models.Record, tombstones models.TombstoneSet) (models.ReconcilePlan, error)
}

// TombstoneLedger tracks ids deleted on this device so a stale remote copy
// is never pulled back into the local store.
type TombstoneLedger interface {
	// MarkDeleted records the deletion and flushes the ledger before
	// returning. Marking an id twice keeps the first deletion time.
	MarkDeleted(ctx context.Context, collection models.CollectionType, id string)
	// IsDeleted reports whether the id is tombstoned.
	IsDeleted(collection models.CollectionType, id string) bool
	// Clear removes one tombstone.
	Clear(ctx context.Context, collection models.CollectionType, id string)
	// ClearAll empties the ledger.
	ClearAll(ctx context.Context)
	// List returns every tombstone ordered by collection and id.
	List() []models.Tombstone
	// Snapshot returns an immutable copy of the collection's tombstones.
	Snapshot(collection models.CollectionType) models.TombstoneSet
	// Prune drops expired and excess entries and returns how many were
	// removed.
	Prune(ctx context.Context) int
}

// ClientSyncService is the apply driver of a sync pass.
type ClientSyncService interface {
	// SyncCollection reconciles one collection. A collection whose local or
	// remote snapshot cannot be read is skipped and the error returned.
	SyncCollection(ctx context.Context, collection models.CollectionType) (models.SyncReport, error)
	// SyncAll reconciles every collection; one failing collection does not
	// stop the others.
	SyncAll(ctx context.Context) ([]models.SyncReport, error)
}

// ClientSyncJob periodically asks for a sync pass.
type ClientSyncJob interface {
	Run(ctx context.Context) error
}

// SyncTriggerer accepts asynchronous requests for a sync pass.
type SyncTriggerer interface {
	// TriggerSync asks for a pass and returns immediately. The request is
	// dropped when the orchestrator is uninitialized, offline or already
	// syncing.
	TriggerSync(trigger models.SyncTrigger)
}

// SyncOrchestrator owns the sync lifecycle: it gates on identity, keeps the
// online overlay, guarantees that passes never overlap and feeds every
// trigger source into one consumer.
type SyncOrchestrator interface {
	SyncTriggerer

	// Initialize resolves the current user. Without one the orchestrator
	// stays uninitialized and ErrIdentityUnavailable is returned; the caller
	// decides when to retry. On success the background workers are started
	// and a startup pass is triggered.
	Initialize(ctx context.Context) error
	// ForceSync runs a pass synchronously and reports whether it ran.
	ForceSync(ctx context.Context) bool
	// Status is a lock-free read of the current state.
	Status() models.SyncStatus
	// Reset stops the workers and restores the initial state.
	Reset()
	// Stop stops the workers and waits for running passes to return.
	Stop()
}

// SnapshotCache holds the latest remote snapshot of every collection. Both
// sync passes and live subscriptions write to it.
type SnapshotCache interface {
	// Put replaces the collection's snapshot with a copy of records.
	Put(collection models.CollectionType, records []models.Record)
	// Counts returns the number of live records per cached collection.
	Counts() map[models.CollectionType]int
}

// ClientRecordService is what the UI layer calls to change records. Writes
// go to the local store first and through to the remote when online.
type ClientRecordService interface {
	Create(ctx context.Context, collection models.CollectionType, fields map[string]any) (models.Record, error)
	Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any) (models.Record, error)
	Delete(ctx context.Context, collection models.CollectionType, id string) error
	Restore(ctx context.Context, record models.Record) (models.Record, error)
	List(ctx context.Context, collection models.CollectionType) ([]models.Record, error)
	Get(ctx context.Context, collection models.CollectionType, id string) (models.Record, error)
}

// Clock returns the current time. Tests replace it to get deterministic
// timestamps.
type Clock func() time.Time

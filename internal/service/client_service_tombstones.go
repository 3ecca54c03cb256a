// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

// tombstoneLedger keeps the authoritative set in memory and rewrites the
// whole set through store.TombstoneStorage after every mutation. A failed
// save is logged and leaves the ledger dirty; the next mutation (or Prune)
// retries it.
type tombstoneLedger struct {
	storage store.TombstoneStorage

	mu      sync.Mutex
	entries map[models.TombstoneKey]time.Time
	dirty   bool

	retention  time.Duration
	maxEntries int
	now        Clock

	logger *logger.Logger
}

// NewTombstoneLedger loads the persisted set and prunes it. A storage that
// cannot be read is an error: starting from an empty ledger would let stale
// remote copies come back.
func NewTombstoneLedger(ctx context.Context, storage store.TombstoneStorage, cfg config.Tombstones, logger *logger.Logger) (TombstoneLedger, error) {
	return newTombstoneLedger(ctx, storage, cfg, time.Now, logger)
}

func newTombstoneLedger(ctx context.Context, storage store.TombstoneStorage, cfg config.Tombstones, now Clock, logger *logger.Logger) (*tombstoneLedger, error) {
	persisted, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tombstones: %w", err)
	}

	l := &tombstoneLedger{
		storage:    storage,
		entries:    make(map[models.TombstoneKey]time.Time, len(persisted)),
		retention:  cfg.Retention,
		maxEntries: cfg.MaxEntries,
		now:        now,
		logger:     logger,
	}
	for _, t := range persisted {
		if prev, ok := l.entries[t.Key()]; ok && !t.DeletedAt.Before(prev) {
			continue
		}
		l.entries[t.Key()] = t.DeletedAt
	}

	logger.Debug().
		Str("func", "NewTombstoneLedger").
		Int("tombstones", len(l.entries)).
		Msg("tombstone ledger loaded")

	l.Prune(ctx)
	return l, nil
}

func (l *tombstoneLedger) MarkDeleted(ctx context.Context, collection models.CollectionType, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := models.TombstoneKey{Collection: collection, ID: id}
	if _, ok := l.entries[key]; ok {
		if !l.dirty {
			return
		}
	} else {
		l.entries[key] = models.NormalizeTime(l.now())
	}

	l.pruneLocked()
	l.persistLocked(ctx)
}

func (l *tombstoneLedger) IsDeleted(collection models.CollectionType, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.entries[models.TombstoneKey{Collection: collection, ID: id}]
	return ok
}

func (l *tombstoneLedger) Clear(ctx context.Context, collection models.CollectionType, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := models.TombstoneKey{Collection: collection, ID: id}
	if _, ok := l.entries[key]; !ok && !l.dirty {
		return
	}
	delete(l.entries, key)

	l.persistLocked(ctx)
}

func (l *tombstoneLedger) ClearAll(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = make(map[models.TombstoneKey]time.Time)
	l.persistLocked(ctx)
}

func (l *tombstoneLedger) List() []models.Tombstone {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.listLocked()
}

func (l *tombstoneLedger) Snapshot(collection models.CollectionType) models.TombstoneSet {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := make(models.TombstoneSet)
	for key, deletedAt := range l.entries {
		if key.Collection == collection {
			set[key.ID] = deletedAt
		}
	}
	return set
}

func (l *tombstoneLedger) Prune(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	pruned := l.pruneLocked()
	if pruned > 0 || l.dirty {
		l.persistLocked(ctx)
	}
	return pruned
}

// pruneLocked drops entries older than the retention window, then the
// oldest entries beyond maxEntries.
func (l *tombstoneLedger) pruneLocked() int {
	pruned := 0

	if l.retention > 0 {
		cutoff := l.now().Add(-l.retention)
		for key, deletedAt := range l.entries {
			if deletedAt.Before(cutoff) {
				delete(l.entries, key)
				pruned++
			}
		}
	}

	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		all := l.listLocked()
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].DeletedAt.Before(all[j].DeletedAt)
		})
		for _, t := range all[:len(all)-l.maxEntries] {
			delete(l.entries, t.Key())
			pruned++
		}
	}

	if pruned > 0 {
		l.logger.Warn().
			Str("func", "tombstoneLedger.Prune").
			Int("pruned", pruned).
			Int("remaining", len(l.entries)).
			Msg("tombstones pruned")
	}
	return pruned
}

func (l *tombstoneLedger) persistLocked(ctx context.Context) {
	if err := l.storage.Save(ctx, l.listLocked()); err != nil {
		l.dirty = true
		l.logger.Err(err).
			Str("func", "tombstoneLedger.persist").
			Int("tombstones", len(l.entries)).
			Msg("failed to persist tombstones; keeping in-memory state")
		return
	}
	l.dirty = false
}

func (l *tombstoneLedger) listLocked() []models.Tombstone {
	list := make([]models.Tombstone, 0, len(l.entries))
	for key, deletedAt := range l.entries {
		list = append(list, models.Tombstone{Collection: key.Collection, ID: key.ID, DeletedAt: deletedAt})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Collection != list[j].Collection {
			return list[i].Collection < list[j].Collection
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-fin-sync/models"
)

type snapshotCache struct {
	mu        sync.RWMutex
	snapshots map[models.CollectionType][]models.Record
}

// NewSnapshotCache returns an empty in-memory [SnapshotCache].
func NewSnapshotCache() SnapshotCache {
	return newSnapshotCache()
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{snapshots: make(map[models.CollectionType][]models.Record)}
}

func (c *snapshotCache) Put(collection models.CollectionType, records []models.Record) {
	copied := make([]models.Record, len(records))
	copy(copied, records)

	c.mu.Lock()
	c.snapshots[collection] = copied
	c.mu.Unlock()
}

func (c *snapshotCache) Counts() map[models.CollectionType]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[models.CollectionType]int, len(c.snapshots))
	for collection, records := range c.snapshots {
		n := 0
		for _, r := range records {
			if !r.Deleted {
				n++
			}
		}
		counts[collection] = n
	}
	return counts
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-fin-sync/models"
)

type feedKey struct {
	userID     string
	collection models.CollectionType
}

// feed is one versioned change stream. wake is closed and replaced on every
// bump, which releases all current waiters at once.
type feed struct {
	version uint64
	wake    chan struct{}
}

// changeNotifier keeps versions in memory. Versions start at 1 so a client
// with cursor 0 always receives the current snapshot first. After a server
// restart versions start over; a cursor that differs from the current
// version counts as changed, so stale cursors resynchronize immediately.
type changeNotifier struct {
	mu    sync.Mutex
	feeds map[feedKey]*feed
}

func NewChangeNotifier() ChangeNotifier {
	return &changeNotifier{feeds: make(map[feedKey]*feed)}
}

func (n *changeNotifier) Notify(userID string, collection models.CollectionType) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	f := n.feedLocked(userID, collection)
	f.version++
	close(f.wake)
	f.wake = make(chan struct{})
	return f.version
}

func (n *changeNotifier) Version(userID string, collection models.CollectionType) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.feedLocked(userID, collection).version
}

func (n *changeNotifier) Wait(ctx context.Context, userID string, collection models.CollectionType, cursor uint64) (uint64, bool) {
	for {
		n.mu.Lock()
		f := n.feedLocked(userID, collection)
		version, wake := f.version, f.wake
		n.mu.Unlock()

		if version != cursor {
			return version, true
		}

		select {
		case <-ctx.Done():
			return version, false
		case <-wake:
		}
	}
}

func (n *changeNotifier) feedLocked(userID string, collection models.CollectionType) *feed {
	key := feedKey{userID: userID, collection: collection}
	f, ok := n.feeds[key]
	if !ok {
		f = &feed{version: 1, wake: make(chan struct{})}
		n.feeds[key] = f
	}
	return f
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	subscribeBackoffBase = 500 * time.Millisecond
	subscribeBackoffCap  = 30 * time.Second
)

// Subscribe implements [RemoteStore] with a long-poll loop over
// GET /api/records/{collection}/changes. Every answered poll delivers the
// fresh collection snapshot to callback; failed polls are retried with a
// capped exponential backoff until the subscription is cancelled.
func (h *httpRemoteStore) Subscribe(ctx context.Context, collection models.CollectionType, callback SnapshotCallback) (Unsubscribe, error) {
	if !collection.Valid() {
		return nil, ErrInvalidCollection
	}

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		h.pollLoop(subCtx, collection, callback)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

func (h *httpRemoteStore) pollLoop(ctx context.Context, collection models.CollectionType, callback SnapshotCallback) {
	log := h.logger.With().
		Str("func", "httpRemoteStore.Subscribe").
		Str("collection", string(collection)).
		Logger()

	var cursor uint64
	backoff := newSubscribeBackoff()

	for ctx.Err() == nil {
		changes, changed, err := h.pollChanges(ctx, collection, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait, _ := backoff.Next()
			log.Warn().Err(err).Dur("retry_in", wait).Msg("change feed poll failed")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			continue
		}

		backoff = newSubscribeBackoff()
		if !changed {
			continue
		}

		cursor = changes.Cursor
		log.Debug().Uint64("cursor", cursor).Int("records", len(changes.Records)).Msg("remote collection changed")
		callback(collection, changes.Records)
	}
}

func newSubscribeBackoff() retry.Backoff {
	return retry.WithCappedDuration(subscribeBackoffCap,
		retry.WithJitterPercent(10, retry.NewExponential(subscribeBackoffBase)))
}

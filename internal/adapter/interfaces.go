// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the client's view of the outside world: the remote
// record store, the identity of the signed-in user and the connectivity
// signal.
//
// The HTTP implementation of [RemoteStore] ([NewHTTPRemoteStore]) talks to
// the go-fin-sync server. Error values defined in errors.go are mapped from
// HTTP status codes by mapHTTPError so that callers can use [errors.Is]
// (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SnapshotCallback receives a fresh, fully materialized snapshot of a remote
// collection.
type SnapshotCallback func(collection models.CollectionType, records []models.Record)

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// RemoteStore is the cloud-hosted per-user collection store.
//
// Every call may fail because of connectivity loss or a backend error;
// callers treat such a failure as "remote state unknown" for the affected
// record and carry on with the rest.
type RemoteStore interface {
	// ListAll returns the full snapshot of the collection, including
	// deletion markers (Deleted == true).
	ListAll(ctx context.Context, collection models.CollectionType) ([]models.Record, error)

	// Insert writes the record, replacing any existing copy.
	Insert(ctx context.Context, record models.Record) error

	// Update merges fields into an existing record and stamps updatedAt.
	Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) error

	// Delete removes the record. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection models.CollectionType, id string) error

	// Subscribe invokes callback whenever the remote collection changes
	// until the returned Unsubscribe is called or ctx is done.
	Subscribe(ctx context.Context, collection models.CollectionType, callback SnapshotCallback) (Unsubscribe, error)
}

// IdentityProvider resolves the current user.
type IdentityProvider interface {
	// CurrentUserID returns the user id and true when an identity is
	// available.
	CurrentUserID() (string, bool)
}

// ConnectivitySignal reports network reachability of the remote backend.
type ConnectivitySignal interface {
	// IsOnline returns the last known state.
	IsOnline() bool

	// Subscribe returns a channel receiving every online/offline transition
	// and a function that detaches it. Slow receivers miss intermediate
	// transitions but always see the latest one.
	Subscribe() (<-chan bool, func())
}

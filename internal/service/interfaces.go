// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// RecordService is the remote backend's per-user document store. Every
// method is scoped to userID.
type RecordService interface {
	// ListAll returns the collection snapshot including deletion markers.
	ListAll(ctx context.Context, userID string, collection models.CollectionType) ([]models.Record, error)
	// Insert stores the record, replacing any existing copy.
	Insert(ctx context.Context, userID string, record models.Record) (models.Record, error)
	// Update merges fields into a live record. A zero updatedAt means now.
	Update(ctx context.Context, userID string, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error)
	// Delete soft-deletes the record. Deleting a missing record succeeds.
	Delete(ctx context.Context, userID string, collection models.CollectionType, id string) error
	// Changes blocks until the collection version moves past cursor or wait
	// elapses. changed is false on timeout.
	Changes(ctx context.Context, userID string, collection models.CollectionType, cursor uint64, wait time.Duration) (resp models.ChangesResponse, changed bool, err error)
}

// ChangeNotifier versions every (user, collection) pair and wakes waiters
// when a version moves.
type ChangeNotifier interface {
	// Notify bumps the version and returns the new value.
	Notify(userID string, collection models.CollectionType) uint64
	// Version returns the current version.
	Version(userID string, collection models.CollectionType) uint64
	// Wait blocks until the version differs from cursor or ctx is done. It
	// returns the version seen last and whether it moved.
	Wait(ctx context.Context, userID string, collection models.CollectionType, cursor uint64) (uint64, bool)
}

type AuthService interface {
	CreateToken(ctx context.Context, userID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// logging or validating.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

// clientRecordService applies user edits to the local store and writes them
// through to the remote store when online. Write-through is best effort: a
// failed remote call is logged and the next sync pass repairs the
// divergence.
type clientRecordService struct {
	local        store.LocalRecordRepository
	remote       adapter.RemoteStore
	ledger       TombstoneLedger
	connectivity adapter.ConnectivitySignal

	ids    *utils.UUIDGenerator
	now    Clock
	logger *logger.Logger
}

func NewClientRecordService(
	local store.LocalRecordRepository,
	remote adapter.RemoteStore,
	ledger TombstoneLedger,
	connectivity adapter.ConnectivitySignal,
	logger *logger.Logger,
) ClientRecordService {
	return &clientRecordService{
		local:        local,
		remote:       remote,
		ledger:       ledger,
		connectivity: connectivity,
		ids:          utils.NewUUIDGenerator(),
		now:          time.Now,
		logger:       logger,
	}
}

func (s *clientRecordService) Create(ctx context.Context, collection models.CollectionType, fields map[string]any) (models.Record, error) {
	if !collection.Valid() {
		return models.Record{}, ErrInvalidCollection
	}
	if fields == nil {
		return models.Record{}, ErrValidationNoFields
	}

	record := models.Record{
		ID:         s.ids.Generate(),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  models.NormalizeTime(s.now()),
	}
	if err := s.local.Insert(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("create local record: %w", err)
	}

	s.writeThrough(ctx, "Create", record.Collection, record.ID, func(ctx context.Context) error {
		return s.remote.Insert(ctx, record)
	})
	return record, nil
}

func (s *clientRecordService) Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any) (models.Record, error) {
	if len(fields) == 0 {
		return models.Record{}, ErrValidationNoFields
	}
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return models.Record{}, err
	}

	updatedAt := s.nextModifiedAt(existing)
	if err = s.local.Update(ctx, collection, id, fields, updatedAt); err != nil {
		return models.Record{}, mapLocalError(err)
	}
	updated, err := s.Get(ctx, collection, id)
	if err != nil {
		return models.Record{}, err
	}

	s.writeThrough(ctx, "Update", collection, id, func(ctx context.Context) error {
		err := s.remote.Update(ctx, collection, id, fields, updatedAt)
		if errors.Is(err, adapter.ErrNotFound) {
			// Not pushed yet; send the whole record.
			return s.remote.Insert(ctx, updated)
		}
		return err
	})
	return updated, nil
}

// Delete tombstones the id before removing the local copy. A failed local
// delete clears the tombstone again.
func (s *clientRecordService) Delete(ctx context.Context, collection models.CollectionType, id string) error {
	if !collection.Valid() {
		return ErrInvalidCollection
	}
	if id == "" {
		return ErrValidationNoRecordID
	}

	s.ledger.MarkDeleted(ctx, collection, id)
	if err := s.local.Delete(ctx, collection, id); err != nil {
		s.ledger.Clear(ctx, collection, id)
		return fmt.Errorf("delete local record: %w", err)
	}

	s.writeThrough(ctx, "Delete", collection, id, func(ctx context.Context) error {
		if err := s.remote.Delete(ctx, collection, id); err != nil {
			return err
		}
		s.ledger.Clear(ctx, collection, id)
		return nil
	})
	return nil
}

// Restore brings back a deleted record, e.g. after the user undid a delete.
// The record gets a fresh modification time so it wins over the remote
// deletion marker.
func (s *clientRecordService) Restore(ctx context.Context, record models.Record) (models.Record, error) {
	if !record.Collection.Valid() {
		return models.Record{}, ErrInvalidCollection
	}
	if record.ID == "" {
		return models.Record{}, ErrValidationNoRecordID
	}
	if record.CreatedAt.IsZero() {
		return models.Record{}, ErrValidationBadTime
	}

	record.Deleted = false
	record.UpdatedAt = models.TimePtr(s.nextModifiedAt(record))
	record = record.Normalize()

	if err := s.local.Insert(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("restore local record: %w", err)
	}
	s.ledger.Clear(ctx, record.Collection, record.ID)

	s.writeThrough(ctx, "Restore", record.Collection, record.ID, func(ctx context.Context) error {
		return s.remote.Insert(ctx, record)
	})
	return record, nil
}

func (s *clientRecordService) List(ctx context.Context, collection models.CollectionType) ([]models.Record, error) {
	if !collection.Valid() {
		return nil, ErrInvalidCollection
	}
	records, err := s.local.ListAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list local records: %w", err)
	}
	return records, nil
}

func (s *clientRecordService) Get(ctx context.Context, collection models.CollectionType, id string) (models.Record, error) {
	if !collection.Valid() {
		return models.Record{}, ErrInvalidCollection
	}
	record, err := s.local.Get(ctx, collection, id)
	if err != nil {
		return models.Record{}, mapLocalError(err)
	}
	return record, nil
}

// nextModifiedAt returns now, or one microsecond past the record's current
// modification time when the clock has not moved past it.
func (s *clientRecordService) nextModifiedAt(record models.Record) time.Time {
	now := models.NormalizeTime(s.now())
	if floor := record.ModifiedAt().Add(time.Microsecond); now.Before(floor) {
		return models.NormalizeTime(floor)
	}
	return now
}

func (s *clientRecordService) writeThrough(ctx context.Context, op string, collection models.CollectionType, id string, call func(ctx context.Context) error) {
	if s.remote == nil || s.connectivity == nil || !s.connectivity.IsOnline() {
		return
	}
	if err := call(ctx); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "clientRecordService."+op).
			Str("collection", string(collection)).
			Str("id", id).
			Msg("write-through failed; the next sync pass will retry")
	}
}

func mapLocalError(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	return err
}

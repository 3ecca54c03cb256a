// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

// recordService stores user documents through store.RecordRepository and
// publishes every successful write to the ChangeNotifier.
type recordService struct {
	repository store.RecordRepository
	notifier   ChangeNotifier
	now        Clock
	logger     *logger.Logger
}

func NewRecordService(repository store.RecordRepository, notifier ChangeNotifier, logger *logger.Logger) RecordService {
	return &recordService{
		repository: repository,
		notifier:   notifier,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *recordService) ListAll(ctx context.Context, userID string, collection models.CollectionType) ([]models.Record, error) {
	records, err := s.repository.ListAll(ctx, models.RecordFilter{UserID: userID, Collection: collection})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (s *recordService) Insert(ctx context.Context, userID string, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	record.Deleted = false
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	record = record.Normalize()

	if err := s.repository.Insert(ctx, userID, record); err != nil {
		log.Err(err).
			Str("func", "recordService.Insert").
			Str("collection", string(record.Collection)).
			Str("id", record.ID).
			Msg("failed to insert record")
		if errors.Is(err, store.ErrInvalidRecord) {
			return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
		return models.Record{}, fmt.Errorf("insert record: %w", err)
	}

	s.notifier.Notify(userID, record.Collection)
	return record, nil
}

func (s *recordService) Update(ctx context.Context, userID string, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error) {
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	record, err := s.repository.Update(ctx, userID, collection, id, fields, updatedAt)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Record{}, fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("update record: %w", err)
	}

	s.notifier.Notify(userID, collection)
	return record, nil
}

// Delete stamps the deletion marker with server time.
func (s *recordService) Delete(ctx context.Context, userID string, collection models.CollectionType, id string) error {
	if err := s.repository.Delete(ctx, userID, collection, id, s.now()); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	s.notifier.Notify(userID, collection)
	return nil
}

func (s *recordService) Changes(ctx context.Context, userID string, collection models.CollectionType, cursor uint64, wait time.Duration) (models.ChangesResponse, bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	version, changed := s.notifier.Wait(waitCtx, userID, collection, cursor)
	if !changed {
		return models.ChangesResponse{Cursor: version}, false, ctx.Err()
	}

	records, err := s.ListAll(ctx, userID, collection)
	if err != nil {
		return models.ChangesResponse{}, false, err
	}
	return models.ChangesResponse{Cursor: version, Records: records}, true, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository]. Documents live in the "records" table keyed by
// (user_id, collection, id); fields are stored as jsonb.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that database interactions carry the request's
// trace id.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// ListAll returns the user's records of filter.Collection, including deletion
// markers, ordered by id. When filter.IDs is non-empty only those ids are
// returned.
func (r *recordRepository) ListAll(ctx context.Context, filter models.RecordFilter) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecordsQuery(filter)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListAll").
			Str("user_id", filter.UserID).
			Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListAll").
			Str("user_id", filter.UserID).
			Str("collection", string(filter.Collection)).
			Msg("failed to execute query for listing records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0, 64)
	for rows.Next() {
		record, scanErr := scanRemoteRecord(rows.Scan, filter.Collection)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.ListAll").
				Str("user_id", filter.UserID).
				Msg("failed to scan record row")
			return nil, scanErr
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListAll").
			Str("user_id", filter.UserID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// Insert upserts the record. A previously soft-deleted copy is revived.
func (r *recordRepository) Insert(ctx context.Context, userID string, record models.Record) error {
	log := logger.FromContext(ctx)

	if record.ID == "" || !record.Collection.Valid() {
		return ErrInvalidRecord
	}
	record = record.Normalize()

	fields, err := encodeFields(record.Fields)
	if err != nil {
		return err
	}

	query, args, err := buildUpsertRecordQuery(userID, record, fields)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Insert").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Insert").
			Str("user_id", userID).
			Str("collection", string(record.Collection)).
			Str("id", record.ID).
			Str("pg_code", postgresError(err)).
			Bool("retryable", r.IsRetryable(err)).
			Msg("failed to upsert record")
		if isInvalidTextRepresentation(err) {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotSaved
	}

	return nil
}

// Update merges fields into the stored jsonb document (top-level keys only)
// and returns the updated record.
func (r *recordRepository) Update(ctx context.Context, userID string, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error) {
	log := logger.FromContext(ctx)

	patch, err := encodeFields(fields)
	if err != nil {
		return models.Record{}, err
	}

	query, args, err := buildPatchRecordQuery(userID, collection, id, patch, models.NormalizeTime(updatedAt))
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Update").Msg("failed to build query")
		return models.Record{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	record, err := scanRemoteRecord(row.Scan, collection)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Update").
			Str("user_id", userID).
			Str("collection", string(collection)).
			Str("id", id).
			Msg("failed to patch record")
		return models.Record{}, err
	}

	return record, nil
}

// Delete marks the record deleted. Missing and already deleted records are
// left as they are.
func (r *recordRepository) Delete(ctx context.Context, userID string, collection models.CollectionType, id string, deletedAt time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSoftDeleteRecordQuery(userID, collection, id, models.NormalizeTime(deletedAt))
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Delete").
			Str("user_id", userID).
			Str("collection", string(collection)).
			Str("id", id).
			Msg("failed to soft-delete record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		log.Debug().
			Str("func", "recordRepository.Delete").
			Str("collection", string(collection)).
			Str("id", id).
			Msg("record already absent")
	}

	return nil
}

func scanRemoteRecord(scan func(dest ...any) error, collection models.CollectionType) (models.Record, error) {
	var (
		record    models.Record
		fields    []byte
		updatedAt sql.NullTime
	)

	if err := scan(&record.ID, &fields, &record.CreatedAt, &updatedAt, &record.Deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, err
		}
		return models.Record{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.Collection = collection
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &record.Fields); err != nil {
			return models.Record{}, fmt.Errorf("%w: fields: %w", ErrScanningRow, err)
		}
	}
	if updatedAt.Valid {
		record.UpdatedAt = &updatedAt.Time
	}

	return record.Normalize(), nil
}

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

// localRecordRepository is the SQLite implementation of
// [LocalRecordRepository]. Fields are stored as a JSON text column and
// timestamps as fixed-width UTC strings.
type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localRecordRepository) ListAll(ctx context.Context, collection models.CollectionType) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, localListRecords, string(collection))
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ListAll").
			Str("collection", string(collection)).
			Msg("failed to execute query for listing records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0, 64)
	for rows.Next() {
		record, scanErr := scanLocalRecord(rows.Scan, collection)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localRecordRepository.ListAll").
				Str("collection", string(collection)).
				Msg("failed to scan record row")
			return nil, scanErr
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ListAll").
			Str("collection", string(collection)).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (r *localRecordRepository) Get(ctx context.Context, collection models.CollectionType, id string) (models.Record, error) {
	row := r.DB.QueryRowContext(ctx, localGetRecord, string(collection), id)

	record, err := scanLocalRecord(row.Scan, collection)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localRecordRepository.Get").
			Str("collection", string(collection)).
			Str("id", id).
			Msg("failed to get record")
		return models.Record{}, err
	}

	return record, nil
}

func (r *localRecordRepository) Insert(ctx context.Context, record models.Record) error {
	if record.ID == "" || !record.Collection.Valid() {
		return ErrInvalidRecord
	}
	record = record.Normalize()

	fields, err := encodeFields(record.Fields)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, localUpsertRecord,
		string(record.Collection),
		record.ID,
		fields,
		formatLocalTime(record.CreatedAt),
		formatLocalTimePtr(record.UpdatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localRecordRepository.Insert").
			Str("collection", string(record.Collection)).
			Str("id", record.ID).
			Msg("failed to upsert record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *localRecordRepository) Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) error {
	patch, err := encodeFields(fields)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, localPatchRecord,
		patch,
		formatLocalTime(updatedAt),
		string(collection),
		id,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localRecordRepository.Update").
			Str("collection", string(collection)).
			Str("id", id).
			Msg("failed to patch record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *localRecordRepository) Delete(ctx context.Context, collection models.CollectionType, id string) error {
	_, err := r.DB.ExecContext(ctx, localDeleteRecord, string(collection), id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localRecordRepository.Delete").
			Str("collection", string(collection)).
			Str("id", id).
			Msg("failed to delete record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func scanLocalRecord(scan func(dest ...any) error, collection models.CollectionType) (models.Record, error) {
	var (
		record    models.Record
		fields    string
		createdAt string
		updatedAt sql.NullString
	)

	if err := scan(&record.ID, &fields, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, err
		}
		return models.Record{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.Collection = collection
	if err := json.Unmarshal([]byte(fields), &record.Fields); err != nil {
		return models.Record{}, fmt.Errorf("%w: fields: %w", ErrScanningRow, err)
	}

	created, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: created_at: %w", ErrScanningRow, err)
	}
	record.CreatedAt = created.UTC()

	if updatedAt.Valid {
		updated, err := time.Parse(sqliteTimeLayout, updatedAt.String)
		if err != nil {
			return models.Record{}, fmt.Errorf("%w: updated_at: %w", ErrScanningRow, err)
		}
		record.UpdatedAt = models.TimePtr(updated)
	}

	return record, nil
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFields, err)
	}
	return string(payload), nil
}

func formatLocalTime(t time.Time) string {
	return models.NormalizeTime(t).Format(sqliteTimeLayout)
}

func formatLocalTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatLocalTime(*t)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-fin-sync/models"
)

const recordsTable = "records"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	recordColumns = []string{"id", "fields", "created_at", "updated_at", "deleted"}
)

func buildListRecordsQuery(filter models.RecordFilter) (string, []any, error) {
	where := sq.Eq{
		"user_id":    filter.UserID,
		"collection": string(filter.Collection),
	}
	if len(filter.IDs) > 0 {
		where["id"] = filter.IDs
	}

	return psql.Select(recordColumns...).
		From(recordsTable).
		Where(where).
		OrderBy("id").
		ToSql()
}

func buildUpsertRecordQuery(userID string, record models.Record, fields string) (string, []any, error) {
	return psql.Insert(recordsTable).
		Columns("user_id", "collection", "id", "fields", "created_at", "updated_at", "deleted").
		Values(userID, string(record.Collection), record.ID, sq.Expr("?::jsonb", fields), record.CreatedAt, record.UpdatedAt, false).
		Suffix(`ON CONFLICT (user_id, collection, id) DO UPDATE SET
			fields = EXCLUDED.fields,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			deleted = FALSE`).
		ToSql()
}

func buildPatchRecordQuery(userID string, collection models.CollectionType, id string, patch string, updatedAt time.Time) (string, []any, error) {
	return psql.Update(recordsTable).
		Set("fields", sq.Expr("fields || ?::jsonb", patch)).
		Set("updated_at", updatedAt).
		Where(sq.Eq{
			"user_id":    userID,
			"collection": string(collection),
			"id":         id,
			"deleted":    false,
		}).
		Suffix("RETURNING id, fields, created_at, updated_at, deleted").
		ToSql()
}

func buildSoftDeleteRecordQuery(userID string, collection models.CollectionType, id string, deletedAt time.Time) (string, []any, error) {
	return psql.Update(recordsTable).
		Set("deleted", true).
		Set("updated_at", deletedAt).
		Where(sq.Eq{
			"user_id":    userID,
			"collection": string(collection),
			"id":         id,
			"deleted":    false,
		}).
		ToSql()
}

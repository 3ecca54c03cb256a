// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-sync/models"
)

func Test_buildListRecordsQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.RecordFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "whole collection",
			filter:   models.RecordFilter{UserID: "u1", Collection: models.CollectionTransactions},
			wantSQL:  "SELECT id, fields, created_at, updated_at, deleted FROM records WHERE collection = $1 AND user_id = $2 ORDER BY id",
			wantArgs: []any{"transactions", "u1"},
		},
		{
			name: "restricted to ids",
			filter: models.RecordFilter{
				UserID:     "u1",
				Collection: models.CollectionAccounts,
				IDs:        []string{"a", "b"},
			},
			wantSQL:  "SELECT id, fields, created_at, updated_at, deleted FROM records WHERE collection = $1 AND id IN ($2,$3) AND user_id = $4 ORDER BY id",
			wantArgs: []any{"accounts", "a", "b", "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListRecordsQuery(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildUpsertRecordQuery(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := models.Record{ID: "r1", Collection: models.CollectionTransactions, CreatedAt: created}

	query, args, err := buildUpsertRecordQuery("u1", record, `{"amount":"1"}`)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO records (user_id,collection,id,fields,created_at,updated_at,deleted)")
	assert.Contains(t, query, "VALUES ($1,$2,$3,$4::jsonb,$5,$6,$7)")
	assert.Contains(t, query, "ON CONFLICT (user_id, collection, id) DO UPDATE SET")
	assert.Contains(t, query, "deleted = FALSE")
	require.Len(t, args, 7)
	assert.Equal(t, "u1", args[0])
	assert.Equal(t, `{"amount":"1"}`, args[3])
	assert.Equal(t, false, args[6])
}

func Test_buildPatchRecordQuery(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildPatchRecordQuery("u1", models.CollectionAccounts, "a1", `{"name":"x"}`, at)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE records SET fields = fields || $1::jsonb, updated_at = $2 "+
			"WHERE collection = $3 AND deleted = $4 AND id = $5 AND user_id = $6 "+
			"RETURNING id, fields, created_at, updated_at, deleted",
		query)
	assert.Equal(t, []any{`{"name":"x"}`, at, "accounts", false, "a1", "u1"}, args)
}

func Test_buildSoftDeleteRecordQuery(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildSoftDeleteRecordQuery("u1", models.CollectionAccounts, "a1", at)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE records SET deleted = $1, updated_at = $2 WHERE collection = $3 AND deleted = $4 AND id = $5 AND user_id = $6",
		query)
	assert.Equal(t, []any{true, at, "accounts", false, "a1", "u1"}, args)
}

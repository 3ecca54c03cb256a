// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	localListRecords = `
		SELECT id, fields, created_at, updated_at
		FROM records
		WHERE collection = ?
		ORDER BY id;`

	localGetRecord = `
		SELECT id, fields, created_at, updated_at
		FROM records
		WHERE collection = ? AND id = ?;`

	localUpsertRecord = `
		INSERT INTO records (collection, id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			fields     = excluded.fields,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at;`

	localPatchRecord = `
		UPDATE records
		SET fields = json_patch(fields, ?), updated_at = ?
		WHERE collection = ? AND id = ?;`

	localDeleteRecord = `
		DELETE FROM records
		WHERE collection = ? AND id = ?;`

	localListTombstones = `
		SELECT collection, id, deleted_at
		FROM tombstones
		ORDER BY collection, id;`

	localClearTombstones = `DELETE FROM tombstones;`

	localInsertTombstone = `
		INSERT INTO tombstones (collection, id, deleted_at)
		VALUES (?, ?, ?);`
)

// sqliteTimeLayout is used for every timestamp column of the local store.
// Values are written in UTC with a fixed width so they also sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

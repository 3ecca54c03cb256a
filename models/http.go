// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RecordsResponse is returned by GET /api/records/{collection}.
// It contains every record the user owns in the collection, including
// soft-deleted ones (Deleted == true) so clients can apply remote deletions.
type RecordsResponse struct {
	// Records is the full collection snapshot.
	Records []Record `json:"records"`

	// Length is the number of entries in Records.
	Length int `json:"length"`
}

// ChangesResponse is returned by the long-poll endpoint
// GET /api/records/{collection}/changes once the collection version moves
// past the client's cursor.
type ChangesResponse struct {
	// Cursor is the collection version the snapshot corresponds to.
	// Clients send it back on the next poll.
	Cursor uint64 `json:"cursor"`

	// Records is the fresh collection snapshot.
	Records []Record `json:"records"`
}

// UpdateRequest is the body of PATCH /api/records/{collection}/{id}.
// Fields are merged into the stored document; keys not present are kept.
type UpdateRequest struct {
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RecordFilter selects records owned by one user inside a collection.
// IDs narrows the selection when non-empty.
type RecordFilter struct {
	UserID     string
	Collection CollectionType
	IDs        []string
}

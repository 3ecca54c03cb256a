// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Domain-level errors.
var (
	// ErrRecordNotFound is returned when the requested record does not exist
	// (or, on the remote backend, is soft-deleted).
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordNotSaved is returned when a write affected no rows.
	ErrRecordNotSaved = errors.New("record was not saved")

	// ErrInvalidRecord is returned for records missing an id or collection.
	ErrInvalidRecord = errors.New("invalid record")
)

// Infrastructure errors wrapped around driver failures.
var (
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery = errors.New("error executing sql query")

	ErrBeginningTransaction = errors.New("failed to begin transaction")

	ErrCommitingTransaction = errors.New("failed to commit transaction")

	ErrPreparingStatement = errors.New("failed to prepare statement")

	ErrExecutingStatement = errors.New("failed to executing statement")

	ErrScanningRow = errors.New("failed to scan record row")

	ErrScanningRows = errors.New("failed to scan record rows")

	ErrEncodingFields = errors.New("failed to encode record fields")

	ErrPersistingTombstones = errors.New("failed to persist tombstones")
)

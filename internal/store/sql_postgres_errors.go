// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the caller whether a failed statement may
// succeed on a later attempt.
type ErrorClassification int

const (
	// NonRetryable errors fail the same way every time (constraint
	// violations, bad input, schema mismatches).
	NonRetryable ErrorClassification = iota

	// Retryable errors are transient (lost connection, serialization
	// failure, server starting up).
	Retryable
)

// PostgresErrorClassifier classifies pgx errors by SQLSTATE.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return Retryable

	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return Retryable

	case pgerrcode.CannotConnectNow, // 57P03
		pgerrcode.AdminShutdown,
		pgerrcode.QueryCanceled:
		return Retryable
	}

	return NonRetryable
}

// isInvalidTextRepresentation reports a malformed value such as a jsonb
// payload Postgres could not parse.
func isInvalidTextRepresentation(err error) bool {
	code := postgresError(err)
	return code == pgerrcode.InvalidTextRepresentation || code == pgerrcode.InvalidJSONText
}

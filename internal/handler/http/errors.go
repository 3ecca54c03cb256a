// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the transport layer. Callers can match against them
// with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	ErrInvalidJSON   = errors.New("invalid JSON was passed")
	ErrInvalidCursor = errors.New("cursor must be a non-negative integer")
	ErrInvalidWait   = errors.New("wait must be a non-negative duration")

	// ErrCollectionMismatch is returned when a record body names a different
	// collection than the URL.
	ErrCollectionMismatch = errors.New("record collection does not match the URL")

	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	ErrInvalidCollection = errors.New("unknown collection")
	ErrRecordNotFound    = errors.New("record not found")
)

// Sync errors.
var (
	// ErrIdentityUnavailable is returned by Initialize when no current user
	// can be resolved.
	ErrIdentityUnavailable = errors.New("no current user identity")

	ErrLocalSnapshot  = errors.New("failed to read local snapshot")
	ErrRemoteSnapshot = errors.New("failed to read remote snapshot")
	ErrBuildingPlan   = errors.New("failed to build reconcile plan")
)

// Validation errors of the record service.
var (
	ErrValidationNoUserID   = errors.New("no user ID was given")
	ErrValidationNoRecordID = errors.New("record id is required")
	ErrValidationNoFields   = errors.New("record fields are required")
	ErrValidationBadTime    = errors.New("record created_at is required")
)

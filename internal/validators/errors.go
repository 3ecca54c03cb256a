// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrInvalidID         = errors.New("invalid record id")
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidCreatedAt  = errors.New("created_at is required")
	ErrInvalidUpdatedAt  = errors.New("invalid updated_at")
	ErrEmptyFields       = errors.New("fields are required")
	ErrInvalidFields     = errors.New("invalid record fields")
	ErrNoFieldsToUpdate  = errors.New("at least one field must be provided for update")
)

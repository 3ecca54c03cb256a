// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the caller-assigned record id.
	FieldID = "id"

	// FieldCollection targets the record's collection name.
	FieldCollection = "collection"

	// FieldUserID targets the owner of a record filter.
	FieldUserID = "user_id"

	// FieldCreatedAt targets the record creation time.
	FieldCreatedAt = "created_at"

	// FieldFields targets the record payload. Payloads of known collections
	// must decode into their typed view.
	FieldFields = "fields"

	// FieldUpdatedAt targets the modification time of an update request.
	FieldUpdatedAt = "updated_at"
)

const maxIDLength = 128

type RecordValidator struct {
}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Record:
		return v.validateRecord(ctx, value, fields...)
	case *models.Record:
		return v.validateRecord(ctx, *value, fields...)

	case models.UpdateRequest:
		return v.validateUpdateRequest(ctx, value, fields...)
	case *models.UpdateRequest:
		return v.validateUpdateRequest(ctx, *value, fields...)

	case models.RecordFilter:
		return v.validateFilter(ctx, value, fields...)
	case *models.RecordFilter:
		return v.validateFilter(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateRecord(_ context.Context, record models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldCollection, FieldCreatedAt, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if err := validateID(record.ID); err != nil {
				return err
			}
		case FieldCollection:
			if !record.Collection.Valid() {
				return ErrInvalidCollection
			}
		case FieldCreatedAt:
			if record.CreatedAt.IsZero() {
				return ErrInvalidCreatedAt
			}
			if record.UpdatedAt != nil && record.UpdatedAt.Before(record.CreatedAt) {
				return ErrInvalidUpdatedAt
			}
		case FieldFields:
			if record.Fields == nil {
				return ErrEmptyFields
			}
			if err := validatePayload(record); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateUpdateRequest(_ context.Context, request models.UpdateRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldFields:
			if len(request.Fields) == 0 {
				return ErrNoFieldsToUpdate
			}
		case FieldUpdatedAt:
			if request.UpdatedAt.IsZero() {
				return ErrInvalidUpdatedAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateFilter(_ context.Context, filter models.RecordFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldCollection}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if filter.UserID == "" {
				return ErrInvalidUserID
			}
		case FieldCollection:
			if !filter.Collection.Valid() {
				return ErrInvalidCollection
			}
		case FieldID:
			for _, id := range filter.IDs {
				if err := validateID(id); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateID(id string) error {
	if id == "" || len(id) > maxIDLength {
		return ErrInvalidID
	}
	return nil
}

// validatePayload decodes the typed view of known collections so that
// malformed amounts never reach storage.
func validatePayload(record models.Record) error {
	var err error
	switch record.Collection {
	case models.CollectionTransactions:
		_, err = models.TransactionFromRecord(record)
	case models.CollectionAccounts:
		_, err = models.AccountFromRecord(record)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFields, err)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/validators"
	"github.com/MKhiriev/go-fin-sync/models"
)

// RecordValidationService rejects malformed input before it reaches the
// wrapped RecordService. Every failure wraps ErrInvalidDataProvided.
type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRecordValidator(),
	}
}

func (v *RecordValidationService) ListAll(ctx context.Context, userID string, collection models.CollectionType) ([]models.Record, error) {
	if err := v.validateScope(ctx, userID, collection); err != nil {
		return nil, err
	}
	return v.inner.ListAll(ctx, userID, collection)
}

func (v *RecordValidationService) Insert(ctx context.Context, userID string, record models.Record) (models.Record, error) {
	if err := v.validateScope(ctx, userID, record.Collection); err != nil {
		return models.Record{}, err
	}
	if record.CreatedAt.IsZero() {
		// The backend stamps creation time for records created server side.
		if err := v.validator.Validate(ctx, record, validators.FieldID, validators.FieldFields); err != nil {
			return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	} else if err := v.validator.Validate(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Insert(ctx, userID, record)
}

func (v *RecordValidationService) Update(ctx context.Context, userID string, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error) {
	if err := v.validateScope(ctx, userID, collection, id); err != nil {
		return models.Record{}, err
	}
	if err := v.validator.Validate(ctx, models.UpdateRequest{Fields: fields, UpdatedAt: updatedAt}); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Update(ctx, userID, collection, id, fields, updatedAt)
}

func (v *RecordValidationService) Delete(ctx context.Context, userID string, collection models.CollectionType, id string) error {
	if err := v.validateScope(ctx, userID, collection, id); err != nil {
		return err
	}
	return v.inner.Delete(ctx, userID, collection, id)
}

func (v *RecordValidationService) Changes(ctx context.Context, userID string, collection models.CollectionType, cursor uint64, wait time.Duration) (models.ChangesResponse, bool, error) {
	if err := v.validateScope(ctx, userID, collection); err != nil {
		return models.ChangesResponse{}, false, err
	}
	if wait < 0 {
		return models.ChangesResponse{}, false, ErrInvalidDataProvided
	}
	return v.inner.Changes(ctx, userID, collection, cursor, wait)
}

func (v *RecordValidationService) Wrap(inner RecordService) RecordService {
	v.inner = inner
	return v
}

func (v *RecordValidationService) validateScope(ctx context.Context, userID string, collection models.CollectionType, ids ...string) error {
	filter := models.RecordFilter{UserID: userID, Collection: collection, IDs: ids}
	fields := []string{validators.FieldUserID, validators.FieldCollection}
	if len(ids) > 0 {
		fields = append(fields, validators.FieldID)
	}
	if err := v.validator.Validate(ctx, filter, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-sync/internal/validators"
	"github.com/MKhiriev/go-fin-sync/models"
)

// recordingRecordService counts the calls that made it past validation.
type recordingRecordService struct {
	calls int
}

func (r *recordingRecordService) ListAll(context.Context, string, models.CollectionType) ([]models.Record, error) {
	r.calls++
	return nil, nil
}

func (r *recordingRecordService) Insert(_ context.Context, _ string, record models.Record) (models.Record, error) {
	r.calls++
	return record, nil
}

func (r *recordingRecordService) Update(context.Context, string, models.CollectionType, string, map[string]any, time.Time) (models.Record, error) {
	r.calls++
	return models.Record{}, nil
}

func (r *recordingRecordService) Delete(context.Context, string, models.CollectionType, string) error {
	r.calls++
	return nil
}

func (r *recordingRecordService) Changes(context.Context, string, models.CollectionType, uint64, time.Duration) (models.ChangesResponse, bool, error) {
	r.calls++
	return models.ChangesResponse{}, false, nil
}

func newValidated() (RecordService, *recordingRecordService) {
	inner := &recordingRecordService{}
	return NewRecordValidationService().Wrap(inner), inner
}

func TestRecordValidationService_Insert(t *testing.T) {
	validTx := models.Record{
		ID:         "tx-1",
		Collection: models.CollectionTransactions,
		Fields:     map[string]any{"amount": "10.25", "account_id": "acc"},
		CreatedAt:  baseTime,
	}
	noCreatedAt := validTx
	noCreatedAt.CreatedAt = time.Time{}
	badAmount := validTx
	badAmount.Fields = map[string]any{"amount": "ten"}
	noID := validTx
	noID.ID = ""
	noFields := validTx
	noFields.Fields = nil
	badCollection := validTx
	badCollection.Collection = "budgets"

	tests := []struct {
		name    string
		userID  string
		record  models.Record
		wantErr error
	}{
		{name: "valid", userID: "u1", record: validTx},
		{name: "server stamps created_at", userID: "u1", record: noCreatedAt},
		{name: "no user", userID: "", record: validTx, wantErr: validators.ErrInvalidUserID},
		{name: "unknown collection", userID: "u1", record: badCollection, wantErr: validators.ErrInvalidCollection},
		{name: "no id", userID: "u1", record: noID, wantErr: validators.ErrInvalidID},
		{name: "no fields", userID: "u1", record: noFields, wantErr: validators.ErrEmptyFields},
		{name: "malformed amount", userID: "u1", record: badAmount, wantErr: validators.ErrInvalidFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, inner := newValidated()

			_, err := svc.Insert(context.Background(), tt.userID, tt.record)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, ErrInvalidDataProvided)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, inner.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, inner.calls)
		})
	}
}

func TestRecordValidationService_Update(t *testing.T) {
	svc, inner := newValidated()
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", models.CollectionAccounts, "acc", nil, baseTime)
	assert.ErrorIs(t, err, validators.ErrNoFieldsToUpdate)

	_, err = svc.Update(ctx, "u1", models.CollectionAccounts, "", map[string]any{"name": "x"}, baseTime)
	assert.ErrorIs(t, err, validators.ErrInvalidID)
	assert.Zero(t, inner.calls)

	_, err = svc.Update(ctx, "u1", models.CollectionAccounts, "acc", map[string]any{"name": "x"}, time.Time{})
	require.NoError(t, err, "a zero updated_at is stamped downstream")
	assert.Equal(t, 1, inner.calls)
}

func TestRecordValidationService_ScopeChecks(t *testing.T) {
	svc, inner := newValidated()
	ctx := context.Background()

	_, err := svc.ListAll(ctx, "u1", "nope")
	assert.ErrorIs(t, err, validators.ErrInvalidCollection)

	err = svc.Delete(ctx, "", models.CollectionTransactions, "a")
	assert.ErrorIs(t, err, validators.ErrInvalidUserID)

	_, _, err = svc.Changes(ctx, "u1", models.CollectionTransactions, 0, -time.Second)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Zero(t, inner.calls)

	_, err = svc.ListAll(ctx, "u1", models.CollectionTransactions)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u1", models.CollectionTransactions, "a"))
	_, _, err = svc.Changes(ctx, "u1", models.CollectionTransactions, 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/internal/validators"
	"github.com/MKhiriev/go-fin-sync/models"
)

var createdAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func serve(h *Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, r)
	return rec
}

func TestListRecords(t *testing.T) {
	records := []models.Record{
		{ID: "a", Collection: models.CollectionAccounts, Fields: map[string]any{"name": "cash"}, CreatedAt: createdAt},
		{ID: "b", Collection: models.CollectionAccounts, CreatedAt: createdAt, Deleted: true},
	}
	h := newTestHandler(&mockRecordService{
		listAllFn: func(_ context.Context, userID string, c models.CollectionType) ([]models.Record, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, models.CollectionAccounts, c)
			return records, nil
		},
	})

	rec := serve(h, authorize(httptest.NewRequest(http.MethodGet, "/api/records/accounts", nil)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Length)
	assert.True(t, body.Records[1].Deleted)
}

func TestListRecords_EmptyCollectionIsAnArray(t *testing.T) {
	h := newTestHandler(&mockRecordService{
		listAllFn: func(context.Context, string, models.CollectionType) ([]models.Record, error) {
			return nil, nil
		},
	})

	rec := serve(h, authorize(httptest.NewRequest(http.MethodGet, "/api/records/transactions", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"records":[],"length":0}`, rec.Body.String())
}

func TestListRecords_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown collection", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrInvalidCollection), http.StatusNotFound},
		{"bad input", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"storage failure", store.ErrExecutingQuery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockRecordService{
				listAllFn: func(context.Context, string, models.CollectionType) ([]models.Record, error) {
					return nil, tt.err
				},
			})

			rec := serve(h, authorize(httptest.NewRequest(http.MethodGet, "/api/records/budgets", nil)))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "sql", "internal errors are not echoed")
			}
		})
	}
}

func TestRecordRoutes_RequireToken(t *testing.T) {
	h := newTestHandler(&mockRecordService{})

	for _, header := range []string{"", "Bearer", "Bearer wrong-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/records/accounts", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := serve(h, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestInsertRecord(t *testing.T) {
	var got models.Record
	h := newTestHandler(&mockRecordService{
		insertFn: func(_ context.Context, userID string, r models.Record) (models.Record, error) {
			assert.Equal(t, testUserID, userID)
			got = r
			return r, nil
		},
	})

	body := `{"id":"tx-1","fields":{"amount":"9.99"},"created_at":"2026-03-01T12:00:00Z"}`
	req := authorize(httptest.NewRequest(http.MethodPost, "/api/records/transactions", strings.NewReader(body)))
	rec := serve(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.CollectionTransactions, got.Collection, "collection comes from the URL")
	assert.Equal(t, "tx-1", got.ID)
	assert.Equal(t, createdAt, got.CreatedAt)
}

func TestInsertRecord_BadRequests(t *testing.T) {
	h := newTestHandler(&mockRecordService{
		insertFn: func(context.Context, string, models.Record) (models.Record, error) {
			t.Fatal("service must not be called")
			return models.Record{}, nil
		},
	})

	for name, body := range map[string]string{
		"malformed json":      `{"id":`,
		"collection mismatch": `{"id":"a","collection":"accounts","fields":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := authorize(httptest.NewRequest(http.MethodPost, "/api/records/transactions", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, serve(h, req).Code)
		})
	}
}

func TestInsertRecord_VerifiesSignature(t *testing.T) {
	calls := 0
	h := newTestHandler(&mockRecordService{
		insertFn: func(_ context.Context, _ string, r models.Record) (models.Record, error) {
			calls++
			return r, nil
		},
	})
	body := []byte(`{"id":"a","fields":{"amount":"1"},"created_at":"2026-03-01T12:00:00Z"}`)

	signed := authorize(httptest.NewRequest(http.MethodPost, "/api/records/transactions", strings.NewReader(string(body))))
	signed.Header.Set(utils.HashHeader, utils.NewHasher("hash-key").Sum(body))
	assert.Equal(t, http.StatusCreated, serve(h, signed).Code)

	forged := authorize(httptest.NewRequest(http.MethodPost, "/api/records/transactions", strings.NewReader(string(body))))
	forged.Header.Set(utils.HashHeader, utils.NewHasher("other-key").Sum(body))
	assert.Equal(t, http.StatusBadRequest, serve(h, forged).Code)

	assert.Equal(t, 1, calls)
}

func TestUpdateRecord(t *testing.T) {
	updatedAt := createdAt.Add(time.Minute)
	h := newTestHandler(&mockRecordService{
		updateFn: func(_ context.Context, userID string, c models.CollectionType, id string, fields map[string]any, at time.Time) (models.Record, error) {
			assert.Equal(t, models.CollectionAccounts, c)
			assert.Equal(t, map[string]any{"name": "savings"}, fields)
			assert.True(t, updatedAt.Equal(at))
			if id == "missing" {
				return models.Record{}, service.ErrRecordNotFound
			}
			return models.Record{ID: id, Collection: c, Fields: fields, CreatedAt: createdAt, UpdatedAt: &at}, nil
		},
	})
	body := `{"fields":{"name":"savings"},"updated_at":"2026-03-01T12:01:00Z"}`

	rec := serve(h, authorize(httptest.NewRequest(http.MethodPatch, "/api/records/accounts/acc-1", strings.NewReader(body))))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "acc-1", got.ID)

	rec = serve(h, authorize(httptest.NewRequest(http.MethodPatch, "/api/records/accounts/missing", strings.NewReader(body))))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRecord(t *testing.T) {
	var deleted string
	h := newTestHandler(&mockRecordService{
		deleteFn: func(_ context.Context, userID string, c models.CollectionType, id string) error {
			assert.Equal(t, testUserID, userID)
			deleted = id
			return nil
		},
	})

	rec := serve(h, authorize(httptest.NewRequest(http.MethodDelete, "/api/records/transactions/tx-9", nil)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tx-9", deleted)
}

func TestChanges(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		changed    bool
		wantStatus int
		wantCursor uint64
		wantWait   time.Duration
	}{
		{name: "first poll", query: "", changed: true, wantStatus: http.StatusOK, wantCursor: 0, wantWait: 2 * time.Second},
		{name: "wait is capped", query: "?cursor=7&wait=1m", changed: false, wantStatus: http.StatusNoContent, wantCursor: 7, wantWait: 2 * time.Second},
		{name: "short wait kept", query: "?cursor=3&wait=250ms", changed: true, wantStatus: http.StatusOK, wantCursor: 3, wantWait: 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockRecordService{
				changesFn: func(_ context.Context, userID string, c models.CollectionType, cursor uint64, wait time.Duration) (models.ChangesResponse, bool, error) {
					assert.Equal(t, testUserID, userID)
					assert.Equal(t, tt.wantCursor, cursor)
					assert.Equal(t, tt.wantWait, wait)
					if !tt.changed {
						return models.ChangesResponse{Cursor: cursor}, false, nil
					}
					return models.ChangesResponse{Cursor: cursor + 1}, true, nil
				},
			})

			rec := serve(h, authorize(httptest.NewRequest(http.MethodGet, "/api/records/transactions/changes"+tt.query, nil)))
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.changed {
				var body models.ChangesResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCursor+1, body.Cursor)
				assert.NotNil(t, body.Records)
			} else {
				assert.Empty(t, rec.Body.Bytes())
			}
		})
	}
}

func TestChanges_BadQuery(t *testing.T) {
	h := newTestHandler(&mockRecordService{})

	for _, query := range []string{"?cursor=-1", "?cursor=abc", "?wait=soon", "?wait=-5s"} {
		rec := serve(h, authorize(httptest.NewRequest(http.MethodGet, "/api/records/transactions/changes"+query, nil)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

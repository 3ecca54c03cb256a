// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	testToken  = "good-token"
	testUserID = "user-42"
)

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// mockAuthService accepts testToken only, unless parseTokenFn overrides it.
type mockAuthService struct {
	parseTokenFn func(ctx context.Context, token string) (models.Token, error)
}

func (m *mockAuthService) CreateToken(context.Context, string) (models.Token, error) {
	return models.Token{}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, token string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, token)
	}
	if token != testToken {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return models.Token{UserID: testUserID}, nil
}

type mockRecordService struct {
	listAllFn func(ctx context.Context, userID string, c models.CollectionType) ([]models.Record, error)
	insertFn  func(ctx context.Context, userID string, r models.Record) (models.Record, error)
	updateFn  func(ctx context.Context, userID string, c models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error)
	deleteFn  func(ctx context.Context, userID string, c models.CollectionType, id string) error
	changesFn func(ctx context.Context, userID string, c models.CollectionType, cursor uint64, wait time.Duration) (models.ChangesResponse, bool, error)
}

func (m *mockRecordService) ListAll(ctx context.Context, userID string, c models.CollectionType) ([]models.Record, error) {
	return m.listAllFn(ctx, userID, c)
}

func (m *mockRecordService) Insert(ctx context.Context, userID string, r models.Record) (models.Record, error) {
	return m.insertFn(ctx, userID, r)
}

func (m *mockRecordService) Update(ctx context.Context, userID string, c models.CollectionType, id string, fields map[string]any, updatedAt time.Time) (models.Record, error) {
	return m.updateFn(ctx, userID, c, id, fields, updatedAt)
}

func (m *mockRecordService) Delete(ctx context.Context, userID string, c models.CollectionType, id string) error {
	return m.deleteFn(ctx, userID, c, id)
}

func (m *mockRecordService) Changes(ctx context.Context, userID string, c models.CollectionType, cursor uint64, wait time.Duration) (models.ChangesResponse, bool, error) {
	return m.changesFn(ctx, userID, c, cursor, wait)
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		App:    config.App{HashKey: "hash-key", Version: "test-version"},
		Server: config.Server{LongPollTimeout: 2 * time.Second},
	}
}

// newTestHandler builds a Handler over the given record service with the
// fake auth and app-info services.
func newTestHandler(records service.RecordService) *Handler {
	return NewHandler(&service.Services{
		AuthService:    &mockAuthService{},
		RecordService:  records,
		AppInfoService: &mockAppInfoService{version: "test-version"},
	}, testServerConfig(), logger.Nop())
}

func authorize(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer "+testToken)
	return r
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		parseErr   error
		wantStatus int
		wantUserID string
	}{
		{name: "valid token", header: "Bearer tok", wantStatus: http.StatusOK, wantUserID: "user-7"},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "too many parts", header: "Bearer a b", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer tok", parseErr: service.ErrTokenIsExpiredOrInvalid, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{
				logger: logger.Nop(),
				services: &service.Services{AuthService: &mockAuthService{
					parseTokenFn: func(_ context.Context, token string) (models.Token, error) {
						assert.Equal(t, "tok", token)
						return models.Token{UserID: "user-7"}, tt.parseErr
					},
				}},
			}

			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/records/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUserID, gotUserID)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			}
		})
	}
}

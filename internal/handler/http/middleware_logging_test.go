// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantFields []string
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte("done"))
			},
			wantFields: []string{`"level":"info"`, `"status":201`, `"size":4`, `"method":"POST"`, `"route":"/api/records/{collection}"`},
		},
		{
			name:       "implicit 200",
			handler:    func(w http.ResponseWriter, r *http.Request) {},
			wantFields: []string{`"status":200`, `"size":0`},
		},
		{
			name: "server error logs at error level",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantFields: []string{`"level":"error"`, `"status":500`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: logger.Nop()}

			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					l := zerolog.New(&buf)
					next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
				})
			}, h.withLogging)
			router.Post("/api/records/{collection}", tt.handler)

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/records/accounts", nil))

			for _, field := range tt.wantFields {
				assert.Contains(t, buf.String(), field)
			}
			assert.Contains(t, buf.String(), `"uri":"/api/records/accounts"`)
		})
	}
}

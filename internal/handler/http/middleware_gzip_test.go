// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestGZip_Responses(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		status         int
		body           string
		wantGzip       bool
	}{
		{name: "accepts gzip", acceptEncoding: "gzip", status: http.StatusOK, body: `{"records":[]}`, wantGzip: true},
		{name: "gzip among others", acceptEncoding: "deflate, gzip;q=1.0, br", status: http.StatusOK, body: "ok", wantGzip: true},
		{name: "no accept-encoding", acceptEncoding: "", status: http.StatusOK, body: "plain"},
		{name: "no content is left alone", acceptEncoding: "gzip", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.wantGzip {
				assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, gunzip(t, rec.Body.Bytes()))
				return
			}
			assert.Empty(t, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestGZip_ImplicitStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", gunzip(t, rec.Body.Bytes()))
}

func TestGZip_Requests(t *testing.T) {
	payload := []byte(`{"id":"a"}`)

	t.Run("compressed body is decoded", func(t *testing.T) {
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			r.Body.Close()
			seen = string(b)
			assert.Empty(t, r.Header.Get("Content-Encoding"))
		})

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipBytes(t, payload)))
		req.Header.Set("Content-Encoding", "gzip")
		rec := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, string(payload), seen)
	})

	t.Run("corrupt body is rejected", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next must not run")
		})

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
		req.Header.Set("Content-Encoding", "gzip")
		rec := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

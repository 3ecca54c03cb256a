// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient(HTTPClientOptions{})
	client2 := NewHTTPClient(HTTPClientOptions{})

	require.NotNil(t, client1.Client)
	assert.NotSame(t, client1.Client, client2.Client)
}

func TestNewHTTPClient_SetsAuthAndHash(t *testing.T) {
	hasher := NewHasher("key")
	body := []byte(`{"a":1}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		assert.Equal(t, hasher.Sum(got), r.Header.Get(HashHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPClientOptions{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Token:   "jwt",
		Hasher:  hasher,
	})

	resp, err := client.R().SetBody(body).Post("/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestNewHTTPClient_NoHashWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HashHeader))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, Hasher: NewHasher("key")})
	_, err := client.R().Get("/y")
	require.NoError(t, err)
}

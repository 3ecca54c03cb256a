// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.HTTPClientOptions{BaseURL: "http://localhost:8080"})
//	resp, err := client.R().Get("/api/ping")
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOptions configures NewHTTPClient. Zero values leave the resty
// defaults in place.
type HTTPClientOptions struct {
	BaseURL string
	Timeout time.Duration
	// Token is sent as "Authorization: Bearer <Token>" on every request.
	Token string
	// Hasher, when set, signs every request body into the HashSHA256 header.
	Hasher *Hasher
}

// NewHTTPClient creates an independent HTTPClient with its own connection
// pool configured from opts.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Encoding", "gzip")

	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	if opts.Hasher != nil {
		hasher := opts.Hasher
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if body, ok := r.Body.([]byte); ok && len(body) > 0 {
				r.SetHeader(HashHeader, hasher.Sum(body))
			}
			return nil
		})
	}

	return &HTTPClient{Client: client}
}

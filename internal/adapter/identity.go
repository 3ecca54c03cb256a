// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"strings"
	"sync"

	"github.com/MKhiriev/go-fin-sync/internal/utils"
)

// TokenIdentity derives the current user from the subject of the configured
// bearer token. The signature is not checked here; the server does that on
// every request.
type TokenIdentity struct {
	mu    sync.RWMutex
	token string
}

// NewTokenIdentity returns an [IdentityProvider] backed by token. An empty or
// malformed token yields no identity.
func NewTokenIdentity(token string) *TokenIdentity {
	return &TokenIdentity{token: strings.TrimSpace(token)}
}

// SetToken replaces the token, e.g. after the user signs in again.
func (t *TokenIdentity) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = strings.TrimSpace(token)
}

func (t *TokenIdentity) CurrentUserID() (string, bool) {
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()

	if token == "" {
		return "", false
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return "", false
	}
	return userID, true
}

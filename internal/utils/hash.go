// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request or response body.
const HashHeader = "HashSHA256"

// Hasher computes keyed HMAC-SHA256 digests of request bodies. Hash
// instances are pooled; a Hasher is safe for concurrent use.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher keyed with hashKey.
//
// Example usage:
//
//	h := utils.NewHasher("my-secret-key")
//	req.Header.Set(utils.HashHeader, h.Sum(body))
func NewHasher(hashKey string) *Hasher {
	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Hash returns the raw HMAC-SHA256 digest of data.
func (h *Hasher) Hash(data []byte) []byte {
	hasher := h.pool.Get().(hash.Hash)
	hasher.Reset()

	hasher.Write(data)
	sum := hasher.Sum(nil)

	hasher.Reset()
	h.pool.Put(hasher)

	return sum
}

// Sum returns the hex-encoded HMAC-SHA256 digest of data.
func (h *Hasher) Sum(data []byte) string {
	return hex.EncodeToString(h.Hash(data))
}

// Verify reports whether signature is the hex digest of data. The comparison
// runs in constant time.
func (h *Hasher) Verify(data []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Hash(data), expected)
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Unlike Hasher, this function creates a new HMAC instance on each call.
// Suitable for one-off hashing.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}

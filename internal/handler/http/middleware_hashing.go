// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
)

// verifyHash checks the HMAC-SHA256 signature carried in the HashSHA256
// header against the raw request body. Requests without the header pass
// through unchecked; so does everything when no hash key is configured.
func (h *Handler) verifyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(utils.HashHeader)
		if h.hasher == nil || signature == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.verifyHash").Msg("failed to read request body")
			utils.WriteError(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, signature) {
			log.Warn().Str("func", "*Handler.verifyHash").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			utils.WriteError(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/internal/validators"
)

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []struct {
	target error
	status int
}{
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrInvalidCursor, http.StatusBadRequest},
	{ErrInvalidWait, http.StatusBadRequest},
	{ErrCollectionMismatch, http.StatusBadRequest},
	{ErrIntegrityCheckFailed, http.StatusBadRequest},

	// Checked before ErrInvalidDataProvided, which wraps it.
	{validators.ErrInvalidCollection, http.StatusNotFound},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrInvalidCollection, http.StatusNotFound},
	{service.ErrRecordNotFound, http.StatusNotFound},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{service.ErrValidationNoUserID, http.StatusUnauthorized},

	{store.ErrRecordNotFound, http.StatusNotFound},
	{store.ErrInvalidRecord, http.StatusBadRequest},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with its mapped status. Internal
// errors are not echoed to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", fn).Int("status", status).Send()

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	utils.WriteError(w, message, status)
}

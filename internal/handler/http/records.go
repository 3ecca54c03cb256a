// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	collection := collectionParam(r)

	records, err := h.services.RecordService.ListAll(r.Context(), userID, collection)
	if err != nil {
		writeServiceError(w, r, "*Handler.listRecords", err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	utils.WriteJSON(w, models.RecordsResponse{Records: records, Length: len(records)}, http.StatusOK)
}

func (h *Handler) insertRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	collection := collectionParam(r)

	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeServiceError(w, r, "*Handler.insertRecord", ErrInvalidJSON)
		return
	}
	if record.Collection == "" {
		record.Collection = collection
	}
	if record.Collection != collection {
		writeServiceError(w, r, "*Handler.insertRecord", ErrCollectionMismatch)
		return
	}

	stored, err := h.services.RecordService.Insert(r.Context(), userID, record)
	if err != nil {
		writeServiceError(w, r, "*Handler.insertRecord", err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusCreated)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var request models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeServiceError(w, r, "*Handler.updateRecord", ErrInvalidJSON)
		return
	}

	updated, err := h.services.RecordService.Update(r.Context(), userID, collectionParam(r), chi.URLParam(r, "id"), request.Fields, request.UpdatedAt)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateRecord", err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.services.RecordService.Delete(r.Context(), userID, collectionParam(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "*Handler.deleteRecord", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// changes serves the long-poll change feed.
//
// Query parameters: cursor, the last version the client has seen (0 on the
// first poll), and wait, a Go duration capped by the server's long-poll
// timeout. The answer is 200 with a fresh snapshot once the version moves
// past cursor, or 204 No Content when wait elapses first.
func (h *Handler) changes(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	cursor, wait, err := h.parsePoll(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.changes", err)
		return
	}

	resp, changed, err := h.services.RecordService.Changes(r.Context(), userID, collectionParam(r), cursor, wait)
	if err != nil {
		writeServiceError(w, r, "*Handler.changes", err)
		return
	}
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if resp.Records == nil {
		resp.Records = []models.Record{}
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) parsePoll(r *http.Request) (uint64, time.Duration, error) {
	query := r.URL.Query()

	var cursor uint64
	if raw := query.Get("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, 0, ErrInvalidCursor
		}
		cursor = parsed
	}

	wait := h.longPollTimeout
	if raw := query.Get("wait"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			return 0, 0, ErrInvalidWait
		}
		wait = min(parsed, h.longPollTimeout)
	}

	return cursor, wait, nil
}

func collectionParam(r *http.Request) models.CollectionType {
	return models.CollectionType(chi.URLParam(r, "collection"))
}

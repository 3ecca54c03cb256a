// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	recordsPath = "/api/records/{collection}"
	recordPath  = "/api/records/{collection}/{id}"
	changesPath = "/api/records/{collection}/changes"
	pingPath    = "/api/ping"
)

type httpRemoteStore struct {
	client *utils.HTTPClient
	// poller has a longer timeout than client so a held change-feed request
	// is not cut short.
	poller *utils.HTTPClient

	longPollTimeout time.Duration

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the HTTP/REST implementation of
// [RemoteStore]. Requests carry appCfg.Token as a bearer token and, when
// appCfg.HashKey is set, an HMAC-SHA256 signature of the body.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	token := strings.TrimSpace(appCfg.Token)
	if token == "" {
		return nil, ErrNoToken
	}

	var hasher *utils.Hasher
	if appCfg.HashKey != "" {
		hasher = utils.NewHasher(appCfg.HashKey)
	}

	longPoll := adapterCfg.LongPollTimeout
	if longPoll <= 0 {
		longPoll = config.DefaultLongPollTimeout
	}

	return &httpRemoteStore{
		client: utils.NewHTTPClient(utils.HTTPClientOptions{
			BaseURL: baseURL,
			Timeout: adapterCfg.RequestTimeout,
			Token:   token,
			Hasher:  hasher,
		}),
		poller: utils.NewHTTPClient(utils.HTTPClientOptions{
			BaseURL: baseURL,
			Timeout: longPoll + adapterCfg.RequestTimeout,
			Token:   token,
		}),
		longPollTimeout: longPoll,
		logger:          logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ListAll implements [RemoteStore]. GET /api/records/{collection}.
func (h *httpRemoteStore) ListAll(ctx context.Context, collection models.CollectionType) ([]models.Record, error) {
	if !collection.Valid() {
		return nil, ErrInvalidCollection
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("collection", string(collection)).
		Get(recordsPath)
	if err != nil {
		return nil, fmt.Errorf("list records request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body models.RecordsResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode records response: %w", err)
	}

	return withCollection(body.Records, collection), nil
}

// Insert implements [RemoteStore]. POST /api/records/{collection}.
func (h *httpRemoteStore) Insert(ctx context.Context, record models.Record) error {
	if !record.Collection.Valid() {
		return ErrInvalidCollection
	}

	payload, err := json.Marshal(record.Normalize())
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	resp, err := h.jsonRequest(ctx, payload).
		SetPathParam("collection", string(record.Collection)).
		Post(recordsPath)
	if err != nil {
		return fmt.Errorf("insert record request: %w", err)
	}

	return mapHTTPError(resp)
}

// Update implements [RemoteStore]. PATCH /api/records/{collection}/{id}.
func (h *httpRemoteStore) Update(ctx context.Context, collection models.CollectionType, id string, fields map[string]any, updatedAt time.Time) error {
	if !collection.Valid() {
		return ErrInvalidCollection
	}

	payload, err := json.Marshal(models.UpdateRequest{Fields: fields, UpdatedAt: models.NormalizeTime(updatedAt)})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	resp, err := h.jsonRequest(ctx, payload).
		SetPathParams(map[string]string{"collection": string(collection), "id": id}).
		Patch(recordPath)
	if err != nil {
		return fmt.Errorf("update record request: %w", err)
	}

	return mapHTTPError(resp)
}

// Delete implements [RemoteStore]. DELETE /api/records/{collection}/{id}; a
// 404 answer counts as success.
func (h *httpRemoteStore) Delete(ctx context.Context, collection models.CollectionType, id string) error {
	if !collection.Valid() {
		return ErrInvalidCollection
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"collection": string(collection), "id": id}).
		Delete(recordPath)
	if err != nil {
		return fmt.Errorf("delete record request: %w", err)
	}

	err = mapHTTPError(resp)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// jsonRequest prepares a request with an already encoded body. Passing []byte
// lets the signing hook see the exact bytes that go on the wire.
func (h *httpRemoteStore) jsonRequest(ctx context.Context, payload []byte) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
}

// pollChanges performs one change-feed poll. changed is false when the
// server answered 204 (nothing new within its wait window).
func (h *httpRemoteStore) pollChanges(ctx context.Context, collection models.CollectionType, cursor uint64) (models.ChangesResponse, bool, error) {
	resp, err := h.poller.R().
		SetContext(ctx).
		SetPathParam("collection", string(collection)).
		SetQueryParam("cursor", fmt.Sprint(cursor)).
		SetQueryParam("wait", h.longPollTimeout.String()).
		Get(changesPath)
	if err != nil {
		return models.ChangesResponse{}, false, fmt.Errorf("changes request: %w", err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return models.ChangesResponse{}, false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ChangesResponse{}, false, err
	}

	var body models.ChangesResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.ChangesResponse{}, false, fmt.Errorf("decode changes response: %w", err)
	}
	body.Records = withCollection(body.Records, collection)

	return body, true, nil
}

func withCollection(records []models.Record, collection models.CollectionType) []models.Record {
	if records == nil {
		return []models.Record{}
	}
	for i := range records {
		records[i].Collection = collection
		records[i] = records[i].Normalize()
	}
	return records
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
)

type Handler struct {
	services *service.Services

	// hasher verifies the HashSHA256 header of request bodies. Nil disables
	// the check.
	hasher *utils.Hasher

	// longPollTimeout caps the wait of one change-feed request.
	longPollTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.ServerConfig, logger *logger.Logger) *Handler {
	var hasher *utils.Hasher
	if cfg.App.HashKey != "" {
		hasher = utils.NewHasher(cfg.App.HashKey)
	}

	longPoll := cfg.Server.LongPollTimeout
	if longPoll <= 0 {
		longPoll = config.DefaultLongPollTimeout
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:        services,
		hasher:          hasher,
		longPollTimeout: longPoll,
		logger:          logger,
	}
}

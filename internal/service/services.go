// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
)

// Services groups the remote backend's services.
type Services struct {
	AuthService    AuthService
	RecordService  RecordService
	AppInfoService AppInfoService
}

// NewServices wires the backend services. RecordService is wrapped by the
// validation layer so that handlers only ever reach storage with checked
// input.
func NewServices(storages *store.Storages, cfg config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	records := NewRecordService(storages.RecordRepository, NewChangeNotifier(), logger)

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		RecordService:  NewRecordValidationService().Wrap(records),
		AppInfoService: appInfo,
	}, nil
}

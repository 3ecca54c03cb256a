// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks invariants that hold for every binary. Role-specific
// requirements are checked by the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.ApplyConcurrency < 0 || cfg.Storage.Tombstones.MaxEntries < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.LocalDSN == "" || strings.Contains(cfg.Storage.LocalDSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Tombstones.Retention <= 0 || cfg.Storage.Tombstones.MaxEntries <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.WatchdogTimeout <= 0 ||
		cfg.Workers.ProbeInterval <= 0 || cfg.Workers.ApplyConcurrency <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.HashKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout == 0 || cfg.Server.LongPollTimeout == 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.HashKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

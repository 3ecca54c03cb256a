// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used by the client for payload integrity checks.
	HashKey string
	// Token is the bearer token presented to the remote backend.
	Token string
	// Version is reported in the dashboard.
	Version string
	// LogLevel and LogFile configure the client logger.
	LogLevel string
	LogFile  string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address used by the client.
	HTTPAddress string
	// GRPCAddress is the gRPC health endpoint used by the connectivity probe.
	GRPCAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// LongPollTimeout is the wait of one change-feed poll.
	LongPollTimeout time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// LocalDSN is the SQLite DSN of the local store.
	LocalDSN string
	// Tombstones configures the tombstone ledger.
	Tombstones Tombstones
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncInterval     time.Duration
	DebounceInterval time.Duration
	WatchdogTimeout  time.Duration
	ProbeInterval    time.Duration
	ApplyConcurrency int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			Token:    cfg.App.Token,
			Version:  cfg.App.Version,
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:     cfg.Adapter.HTTPAddress,
			GRPCAddress:     cfg.Adapter.GRPCAddress,
			RequestTimeout:  cfg.Adapter.RequestTimeout,
			LongPollTimeout: cfg.Adapter.LongPollTimeout,
		},
		Storage: ClientStorage{
			LocalDSN:   cfg.Storage.Local.DSN,
			Tombstones: cfg.Storage.Tombstones,
		},
		Workers: ClientWorkers{
			SyncInterval:     cfg.Workers.SyncInterval,
			DebounceInterval: cfg.Workers.DebounceInterval,
			WatchdogTimeout:  cfg.Workers.WatchdogTimeout,
			ProbeInterval:    cfg.Workers.ProbeInterval,
			ApplyConcurrency: cfg.Workers.ApplyConcurrency,
		},
	}

	return clientCfg, clientCfg.validate()
}

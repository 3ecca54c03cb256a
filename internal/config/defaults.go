// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultSyncInterval       = 5 * time.Minute
	DefaultDebounceInterval   = 500 * time.Millisecond
	DefaultWatchdogTimeout    = 10 * time.Minute
	DefaultProbeInterval      = 15 * time.Second
	DefaultApplyConcurrency   = 4
	DefaultRequestTimeout     = 30 * time.Second
	DefaultLongPollTimeout    = 25 * time.Second
	DefaultTombstoneRetention = 30 * 24 * time.Hour
	DefaultTombstoneMax       = 10000
	DefaultTokenDuration      = 24 * time.Hour
	DefaultTokenIssuer        = "go-fin-sync"
	DefaultLocalDSN           = "file:fin-sync.db?_busy_timeout=5000&_foreign_keys=on"
	DefaultEnvFile            = ".env"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
			LogLevel:      "info",
		},
		Storage: Storage{
			Local: Local{DSN: DefaultLocalDSN},
			Tombstones: Tombstones{
				Retention:  DefaultTombstoneRetention,
				MaxEntries: DefaultTombstoneMax,
			},
		},
		Server: Server{
			RequestTimeout:  DefaultRequestTimeout,
			LongPollTimeout: DefaultLongPollTimeout,
		},
		Adapter: Adapter{
			RequestTimeout:  DefaultRequestTimeout,
			LongPollTimeout: DefaultLongPollTimeout,
		},
		Workers: Workers{
			SyncInterval:     DefaultSyncInterval,
			DebounceInterval: DefaultDebounceInterval,
			WatchdogTimeout:  DefaultWatchdogTimeout,
			ProbeInterval:    DefaultProbeInterval,
			ApplyConcurrency: DefaultApplyConcurrency,
		},
		EnvFilePath: DefaultEnvFile,
	}
}

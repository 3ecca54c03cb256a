// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		HashKey       string   `json:"hash_key"`
		Version       string   `json:"version"`
		Token         string   `json:"token"`
		LogLevel      string   `json:"log_level"`
		LogFile       string   `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`

		Tombstones struct {
			Path       string   `json:"path"`
			Retention  Duration `json:"retention"`
			MaxEntries int      `json:"max_entries"`
		} `json:"tombstones,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		LongPollTimeout Duration `json:"long_poll_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		LongPollTimeout Duration `json:"long_poll_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval     Duration `json:"sync_interval"`
		DebounceInterval Duration `json:"debounce_interval"`
		WatchdogTimeout  Duration `json:"watchdog_timeout"`
		ProbeInterval    Duration `json:"probe_interval"`
		ApplyConcurrency int      `json:"apply_concurrency"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			HashKey:       jsonCfg.App.HashKey,
			Version:       jsonCfg.App.Version,
			Token:         jsonCfg.App.Token,
			LogLevel:      jsonCfg.App.LogLevel,
			LogFile:       jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{DSN: jsonCfg.Storage.Local.DSN},
			Tombstones: Tombstones{
				Path:       jsonCfg.Storage.Tombstones.Path,
				Retention:  time.Duration(jsonCfg.Storage.Tombstones.Retention),
				MaxEntries: jsonCfg.Storage.Tombstones.MaxEntries,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			LongPollTimeout: time.Duration(jsonCfg.Server.LongPollTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:     jsonCfg.Adapter.HTTPAddress,
			GRPCAddress:     jsonCfg.Adapter.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Adapter.RequestTimeout),
			LongPollTimeout: time.Duration(jsonCfg.Adapter.LongPollTimeout),
		},
		Workers: Workers{
			SyncInterval:     time.Duration(jsonCfg.Workers.SyncInterval),
			DebounceInterval: time.Duration(jsonCfg.Workers.DebounceInterval),
			WatchdogTimeout:  time.Duration(jsonCfg.Workers.WatchdogTimeout),
			ProbeInterval:    time.Duration(jsonCfg.Workers.ProbeInterval),
			ApplyConcurrency: jsonCfg.Workers.ApplyConcurrency,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// ServerConfig is the configuration view used by cmd/server and cmd/token.
// It shares the App, Storage.DB and Server groups with [StructuredConfig].
type ServerConfig struct {
	App     App
	DB      DB
	Server  Server
	Version string
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newServerConfig(cfg)
}

func newServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		DB:      cfg.Storage.DB,
		Server:  cfg.Server,
		Version: cfg.App.Version,
	}

	return serverCfg, serverCfg.validate()
}

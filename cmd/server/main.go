// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/handler"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/server"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := printBuildInfo()

	log := logger.NewLogger("go-fin-sync-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.Version
		cfg.Version = buildInfo.Version
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)
	return info
}

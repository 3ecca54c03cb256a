// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/client"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/internal/tui"
	"github.com/MKhiriev/go-fin-sync/internal/workers"
	"github.com/MKhiriev/go-fin-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("go-fin-sync-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("go-fin-sync-client", cfg.App.LogFile)
	logger.SetLevel(cfg.App.LogLevel)

	ctx := context.Background()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store adapter")
	}

	probe, closeProbe, err := newProbe(cfg.Adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("create connectivity probe")
	}
	defer closeProbe()
	connectivity := adapter.NewProbeConnectivity(probe, cfg.Workers.ProbeInterval, cfg.Adapter.RequestTimeout, log)

	services, err := service.NewClientServices(ctx, storages, remote, adapter.NewTokenIdentity(cfg.App.Token), connectivity, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	ui := tui.New(services, buildInfo, log)
	app := client.NewApp(services, ui, workers.New(connectivity), log)

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

// newProbe prefers the gRPC health service when its address is configured
// and falls back to the HTTP ping endpoint.
func newProbe(cfg config.ClientAdapter) (adapter.ProbeFunc, func(), error) {
	if cfg.GRPCAddress != "" {
		probe, err := adapter.NewGRPCHealthProbe(cfg.GRPCAddress)
		if err != nil {
			return nil, nil, err
		}
		return probe.Probe, func() { _ = probe.Close() }, nil
	}

	probe, err := adapter.NewHTTPPingProbe(cfg.HTTPAddress)
	if err != nil {
		return nil, nil, err
	}
	return probe, func() {}, nil
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)
	return info
}

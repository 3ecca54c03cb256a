// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/workers"
)

// App runs the dashboard in the foreground while background workers and the
// sync orchestrator keep the local store in step with the remote one.
type App struct {
	services   *service.ClientServices
	ui         UI
	background *workers.Workers
	logger     *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, background *workers.Workers, logger *logger.Logger) *App {
	if background == nil {
		background = workers.New()
	}
	return &App{services: services, ui: ui, background: background, logger: logger}
}

// Run blocks until the UI returns or the process receives SIGINT/SIGTERM.
// A missing identity does not stop the client: the dashboard still shows the
// local data and the orchestrator stays uninitialized.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bgCtx, cancelBackground := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(bgCtx)
	g.Go(func() error {
		return a.background.Run(gctx)
	})

	if err := a.services.Orchestrator.Initialize(ctx); err != nil {
		a.logger.Warn().Err(err).
			Str("func", "App.Run").
			Msg("sync orchestrator not initialized; running offline")
	}

	uiErr := a.ui.Run(ctx)

	a.services.Orchestrator.Stop()
	cancelBackground()
	bgErr := g.Wait()
	if errors.Is(bgErr, context.Canceled) {
		bgErr = nil
	}

	a.logger.Info().Str("func", "App.Run").Msg("client stopped")

	if uiErr != nil {
		return fmt.Errorf("ui: %w", uiErr)
	}
	if bgErr != nil {
		return fmt.Errorf("background worker: %w", bgErr)
	}
	return nil
}

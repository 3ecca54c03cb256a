// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/models"
)

const defaultRefreshInterval = 2 * time.Second

// TUI is the terminal dashboard of the sync client.
type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// Run shows the dashboard until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	model := newDashboardModel(ctx, t.services, t.buildInfo, t.logger)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled from outside, e.g. by a signal.
		return nil
	}
	return err
}

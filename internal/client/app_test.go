// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/workers"
	"github.com/MKhiriev/go-fin-sync/models"
)

type stubOrchestrator struct {
	service.SyncOrchestrator
	initErr     error
	initialized atomic.Bool
	stopped     atomic.Bool
}

func (s *stubOrchestrator) Initialize(context.Context) error {
	s.initialized.Store(true)
	return s.initErr
}

func (s *stubOrchestrator) Stop() { s.stopped.Store(true) }

func (s *stubOrchestrator) Status() models.SyncStatus { return models.SyncStatus{} }

type uiFunc func(ctx context.Context) error

func (f uiFunc) Run(ctx context.Context) error { return f(ctx) }

func TestApp_Run(t *testing.T) {
	tests := []struct {
		name    string
		initErr error
		uiErr   error
		bgErr   error
		wantErr string
	}{
		{name: "clean exit"},
		{name: "identity missing still runs ui", initErr: service.ErrIdentityUnavailable},
		{name: "ui failure", uiErr: errors.New("tty gone"), wantErr: "ui: tty gone"},
		{name: "worker failure", bgErr: errors.New("probe broke"), wantErr: "background worker: probe broke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orchestrator := &stubOrchestrator{initErr: tt.initErr}
			var workerStopped atomic.Bool

			background := workers.New(workers.WorkerFunc(func(ctx context.Context) error {
				if tt.bgErr != nil {
					return tt.bgErr
				}
				<-ctx.Done()
				workerStopped.Store(true)
				return nil
			}))
			ui := uiFunc(func(context.Context) error {
				assert.True(t, orchestrator.initialized.Load(), "orchestrator initialized before the ui starts")
				return tt.uiErr
			})

			app := NewApp(&service.ClientServices{Orchestrator: orchestrator}, ui, background, logger.Nop())
			err := app.Run(context.Background())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				require.NoError(t, err)
				assert.True(t, workerStopped.Load(), "background workers stop with the ui")
			}
			assert.True(t, orchestrator.stopped.Load())
		})
	}
}

func TestApp_RunWithoutBackground(t *testing.T) {
	orchestrator := &stubOrchestrator{}
	app := NewApp(&service.ClientServices{Orchestrator: orchestrator}, uiFunc(func(context.Context) error { return nil }), nil, logger.Nop())

	require.NoError(t, app.Run(context.Background()))
	assert.True(t, orchestrator.stopped.Load())
}

func TestApp_RunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	orchestrator := &stubOrchestrator{}
	ui := uiFunc(func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return nil
	})

	app := NewApp(&service.ClientServices{Orchestrator: orchestrator}, ui, nil, logger.Nop())
	require.NoError(t, app.Run(ctx))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/models"
)

type clientSyncJob struct {
	triggerer SyncTriggerer
	interval  time.Duration
}

// NewClientSyncJob creates a job that asks triggerer for a periodic pass
// every interval. If interval is zero or negative it defaults to
// config.DefaultSyncInterval.
func NewClientSyncJob(triggerer SyncTriggerer, interval time.Duration) ClientSyncJob {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &clientSyncJob{triggerer: triggerer, interval: interval}
}

// Run implements ClientSyncJob. It blocks until ctx is cancelled and always
// returns nil.
func (j *clientSyncJob) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			j.triggerer.TriggerSync(models.TriggerPeriodic)
		}
	}
}

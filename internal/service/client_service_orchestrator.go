// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/workers"
	"github.com/MKhiriev/go-fin-sync/models"
)

const triggerQueueSize = 8

// syncOrchestrator drives sync passes.
//
// Every producer (startup, periodic job, connectivity watcher, remote
// subscriptions) sends a trigger to one consumer. The consumer debounces
// remote-change triggers and starts passes; ForceSync starts one directly.
// A pass only starts after winning the inProgress compare-and-swap, so
// triggers that arrive mid-pass are dropped rather than queued.
//
// State lives in atomics so Status never blocks. generation identifies the
// pass that currently owns the state; a pass abandoned by the watchdog (or
// by Reset) finds the generation moved on and leaves the state alone.
type syncOrchestrator struct {
	syncer       ClientSyncService
	identity     adapter.IdentityProvider
	connectivity adapter.ConnectivitySignal
	remote       adapter.RemoteStore
	cache        SnapshotCache

	cfg    config.ClientWorkers
	now    Clock
	logger *logger.Logger

	state      atomic.Int32
	online     atomic.Bool
	inProgress atomic.Bool
	lastSync   atomic.Pointer[time.Time]
	initErr    atomic.Pointer[string]
	generation atomic.Uint64

	events chan models.SyncTrigger

	mu      sync.Mutex
	cancel  context.CancelFunc
	workers sync.WaitGroup
	passes  sync.WaitGroup
}

// NewSyncOrchestrator wires the orchestrator. remote and cache may be nil, in
// which case no live subscriptions are opened.
func NewSyncOrchestrator(
	syncer ClientSyncService,
	identity adapter.IdentityProvider,
	connectivity adapter.ConnectivitySignal,
	remote adapter.RemoteStore,
	cache SnapshotCache,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) SyncOrchestrator {
	return newSyncOrchestrator(syncer, identity, connectivity, remote, cache, cfg, time.Now, logger)
}

func newSyncOrchestrator(
	syncer ClientSyncService,
	identity adapter.IdentityProvider,
	connectivity adapter.ConnectivitySignal,
	remote adapter.RemoteStore,
	cache SnapshotCache,
	cfg config.ClientWorkers,
	now Clock,
	logger *logger.Logger,
) *syncOrchestrator {
	if cfg.WatchdogTimeout <= 0 {
		cfg.WatchdogTimeout = config.DefaultWatchdogTimeout
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = config.DefaultSyncInterval
	}

	o := &syncOrchestrator{
		syncer:       syncer,
		identity:     identity,
		connectivity: connectivity,
		remote:       remote,
		cache:        cache,
		cfg:          cfg,
		now:          now,
		logger:       logger,
		events:       make(chan models.SyncTrigger, triggerQueueSize),
	}
	o.online.Store(connectivity.IsOnline())
	return o
}

// Initialize implements SyncOrchestrator. ctx bounds the lifetime of the
// background workers. Calling it again after a successful call is a no-op.
func (o *syncOrchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.currentState() != models.StateUninitialized {
		return nil
	}

	userID, ok := o.identity.CurrentUserID()
	if !ok {
		msg := ErrIdentityUnavailable.Error()
		o.initErr.Store(&msg)
		o.logger.Warn().
			Str("func", "syncOrchestrator.Initialize").
			Msg("no current user; staying uninitialized")
		return ErrIdentityUnavailable
	}

	o.initErr.Store(nil)
	o.online.Store(o.connectivity.IsOnline())

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.state.Store(int32(models.StateIdle))

	ws := workers.New(
		workers.WorkerFunc(o.consume),
		workers.WorkerFunc(o.watchConnectivity),
		NewClientSyncJob(o, o.cfg.SyncInterval),
	)
	if o.remote != nil {
		ws.Add(workers.WorkerFunc(o.subscribe))
	}

	o.workers.Add(1)
	go func() {
		defer o.workers.Done()
		if err := ws.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Err(err).
				Str("func", "syncOrchestrator.Initialize").
				Msg("sync workers stopped")
		}
	}()

	o.logger.Info().
		Str("func", "syncOrchestrator.Initialize").
		Str("user_id", userID).
		Bool("online", o.online.Load()).
		Int("workers", ws.Len()).
		Msg("sync orchestrator initialized")

	o.TriggerSync(models.TriggerStartup)
	return nil
}

// ForceSync implements SyncOrchestrator.
func (o *syncOrchestrator) ForceSync(ctx context.Context) bool {
	return o.runPass(ctx, models.TriggerManual)
}

// TriggerSync implements SyncTriggerer.
func (o *syncOrchestrator) TriggerSync(trigger models.SyncTrigger) {
	if o.currentState() == models.StateUninitialized {
		o.logger.Debug().
			Str("func", "syncOrchestrator.TriggerSync").
			Str("trigger", string(trigger)).
			Msg("not initialized; trigger dropped")
		return
	}

	select {
	case o.events <- trigger:
	default:
		o.logger.Debug().
			Str("func", "syncOrchestrator.TriggerSync").
			Str("trigger", string(trigger)).
			Msg("trigger queue full; dropped")
	}
}

// Status implements SyncOrchestrator.
func (o *syncOrchestrator) Status() models.SyncStatus {
	status := models.SyncStatus{
		State:          o.currentState(),
		IsOnline:       o.online.Load(),
		SyncInProgress: o.inProgress.Load(),
	}
	if t := o.lastSync.Load(); t != nil {
		last := *t
		status.LastSyncTime = &last
	}
	if msg := o.initErr.Load(); msg != nil {
		status.InitError = *msg
	}
	return status
}

// Stop implements SyncOrchestrator.
func (o *syncOrchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.cancel = nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.workers.Wait()
	o.passes.Wait()
}

// Reset implements SyncOrchestrator.
func (o *syncOrchestrator) Reset() {
	o.Stop()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation.Add(1)
	o.state.Store(int32(models.StateUninitialized))
	o.inProgress.Store(false)
	o.online.Store(o.connectivity.IsOnline())
	o.lastSync.Store(nil)
	o.initErr.Store(nil)

	for {
		select {
		case <-o.events:
		default:
			return
		}
	}
}

func (o *syncOrchestrator) currentState() models.OrchestratorState {
	return models.OrchestratorState(o.state.Load())
}

// runPass runs one pass unless the orchestrator is uninitialized, offline or
// already syncing. It reports whether the pass ran to completion.
func (o *syncOrchestrator) runPass(ctx context.Context, trigger models.SyncTrigger) bool {
	log := o.logger.With().
		Str("func", "syncOrchestrator.runPass").
		Str("trigger", string(trigger)).
		Logger()

	if o.currentState() == models.StateUninitialized {
		log.Debug().Msg("not initialized; pass dropped")
		return false
	}
	if !o.online.Load() {
		log.Debug().Msg("offline; pass dropped")
		return false
	}
	if !o.inProgress.CompareAndSwap(false, true) {
		log.Debug().Msg("pass already running; trigger dropped")
		return false
	}

	gen := o.generation.Add(1)
	o.state.Store(int32(models.StateSyncing))
	started := o.now()

	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchdog := time.AfterFunc(o.cfg.WatchdogTimeout, func() {
		cancel()
		if o.generation.CompareAndSwap(gen, gen+1) {
			log.Warn().
				Dur("timeout", o.cfg.WatchdogTimeout).
				Msg("sync pass exceeded watchdog timeout; in-progress flag force-reset")
			o.finishPass()
		}
	})

	reports, err := o.syncer.SyncAll(passCtx)
	watchdog.Stop()

	if !o.generation.CompareAndSwap(gen, gen+1) {
		log.Warn().Msg("stale sync pass returned; state left untouched")
		return false
	}
	defer o.finishPass()

	if passCtx.Err() != nil {
		log.Info().Msg("sync pass cancelled")
		return false
	}

	finished := o.now()
	o.lastSync.Store(&finished)

	applied, failed, skipped := 0, 0, 0
	for _, r := range reports {
		applied += r.Applied
		failed += r.Failed
		if r.Skipped {
			skipped++
		}
	}
	event := log.Info()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.
		Int("applied", applied).
		Int("failed", failed).
		Int("skipped_collections", skipped).
		Dur("took", finished.Sub(started)).
		Msg("sync pass finished")

	return true
}

func (o *syncOrchestrator) finishPass() {
	o.state.CompareAndSwap(int32(models.StateSyncing), int32(models.StateIdle))
	o.inProgress.Store(false)
}

// consume is the single consumer of trigger events. Remote-change triggers
// restart the debounce timer; every other trigger starts a pass at once.
func (o *syncOrchestrator) consume(ctx context.Context) error {
	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case trigger := <-o.events:
			if trigger == models.TriggerRemoteChange && o.cfg.DebounceInterval > 0 {
				if debounce == nil {
					debounce = time.NewTimer(o.cfg.DebounceInterval)
				} else {
					debounce.Reset(o.cfg.DebounceInterval)
				}
				fire = debounce.C
				continue
			}
			o.startPass(ctx, trigger)

		case <-fire:
			fire = nil
			o.startPass(ctx, models.TriggerRemoteChange)
		}
	}
}

func (o *syncOrchestrator) startPass(ctx context.Context, trigger models.SyncTrigger) {
	o.passes.Add(1)
	go func() {
		defer o.passes.Done()
		o.runPass(ctx, trigger)
	}()
}

// watchConnectivity keeps the online overlay current and triggers a pass on
// every offline to online transition.
func (o *syncOrchestrator) watchConnectivity(ctx context.Context) error {
	changes, unsubscribe := o.connectivity.Subscribe()
	defer unsubscribe()

	o.setOnline(o.connectivity.IsOnline())

	for {
		select {
		case <-ctx.Done():
			return nil
		case online := <-changes:
			o.setOnline(online)
		}
	}
}

func (o *syncOrchestrator) setOnline(online bool) {
	was := o.online.Swap(online)
	switch {
	case online && !was:
		o.logger.Info().Str("func", "syncOrchestrator.setOnline").Msg("back online")
		o.TriggerSync(models.TriggerReconnect)
	case !online && was:
		o.logger.Warn().Str("func", "syncOrchestrator.setOnline").Msg("gone offline; new passes are paused")
	}
}

// subscribe opens a live query per collection. Each snapshot refreshes the
// cache and asks for a debounced pass.
func (o *syncOrchestrator) subscribe(ctx context.Context) error {
	var unsubscribes []adapter.Unsubscribe
	for _, collection := range models.Collections() {
		unsubscribe, err := o.remote.Subscribe(ctx, collection, o.onSnapshot)
		if err != nil {
			o.logger.Err(err).
				Str("func", "syncOrchestrator.subscribe").
				Str("collection", string(collection)).
				Msg("failed to subscribe to remote changes")
			continue
		}
		unsubscribes = append(unsubscribes, unsubscribe)
	}

	<-ctx.Done()
	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
	return nil
}

func (o *syncOrchestrator) onSnapshot(collection models.CollectionType, records []models.Record) {
	if o.cache != nil {
		o.cache.Put(collection, records)
	}
	o.TriggerSync(models.TriggerRemoteChange)
}

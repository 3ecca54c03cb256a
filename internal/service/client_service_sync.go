// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

// clientSyncService reads both snapshots of a collection, asks the
// reconciler for a plan and applies it. Actions of different ids run
// concurrently; actions of one id run in plan order.
type clientSyncService struct {
	local      store.LocalRecordRepository
	remote     adapter.RemoteStore
	ledger     TombstoneLedger
	reconciler ReconcileService
	cache      SnapshotCache

	concurrency int
	logger      *logger.Logger
}

// NewClientSyncService builds the apply driver. concurrency bounds how many
// ids are applied at once; values below 1 mean one at a time.
func NewClientSyncService(
	local store.LocalRecordRepository,
	remote adapter.RemoteStore,
	ledger TombstoneLedger,
	cache SnapshotCache,
	concurrency int,
	logger *logger.Logger,
) ClientSyncService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &clientSyncService{
		local:       local,
		remote:      remote,
		ledger:      ledger,
		reconciler:  NewReconcileService(),
		cache:       cache,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *clientSyncService) SyncAll(ctx context.Context) ([]models.SyncReport, error) {
	reports := make([]models.SyncReport, 0, len(models.Collections()))
	var errs []error

	for _, collection := range models.Collections() {
		report, err := s.SyncCollection(ctx, collection)
		reports = append(reports, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", collection, err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	return reports, errors.Join(errs...)
}

func (s *clientSyncService) SyncCollection(ctx context.Context, collection models.CollectionType) (models.SyncReport, error) {
	report := models.SyncReport{Collection: collection}

	// Taken first so that a delete racing the snapshot reads is seen by
	// deletedSinceSnapshot.
	tombstones := s.ledger.Snapshot(collection)

	local, err := s.local.ListAll(ctx, collection)
	if err != nil {
		s.logger.Err(err).
			Str("func", "clientSyncService.SyncCollection").
			Str("collection", string(collection)).
			Msg("local snapshot unavailable; skipping collection")
		report.Skipped = true
		return report, fmt.Errorf("%w: %w", ErrLocalSnapshot, err)
	}

	remote, err := s.remote.ListAll(ctx, collection)
	if err != nil {
		s.logger.Err(err).
			Str("func", "clientSyncService.SyncCollection").
			Str("collection", string(collection)).
			Msg("remote snapshot unavailable; skipping collection")
		report.Skipped = true
		return report, fmt.Errorf("%w: %w", ErrRemoteSnapshot, err)
	}
	if s.cache != nil {
		s.cache.Put(collection, remote)
	}

	plan, err := s.reconciler.BuildReconcilePlan(ctx, collection, local, remote, tombstones)
	if err != nil {
		report.Skipped = true
		return report, fmt.Errorf("%w: %w", ErrBuildingPlan, err)
	}
	report.Planned = len(plan.Actions)
	if plan.Empty() {
		return report, nil
	}

	var applied, failed, superseded atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, group := range groupByID(plan.Actions) {
		g.Go(func() error {
			for _, action := range group {
				if ctx.Err() != nil {
					return nil
				}
				switch err := s.apply(ctx, action, tombstones); {
				case errors.Is(err, errSuperseded):
					superseded.Add(1)
				case err != nil:
					failed.Add(1)
					s.logger.Err(err).
						Str("func", "clientSyncService.apply").
						Str("collection", string(collection)).
						Str("id", action.ID).
						Stringer("action", action.Kind).
						Msg("action failed; retrying on the next pass")
					// The rest of this id's actions depend on the failed one.
					return nil
				default:
					applied.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Applied = int(applied.Load())
	report.Failed = int(failed.Load())
	report.Superseded = int(superseded.Load())

	s.logger.Info().
		Str("func", "clientSyncService.SyncCollection").
		Str("collection", string(collection)).
		Int("planned", report.Planned).
		Int("applied", report.Applied).
		Int("failed", report.Failed).
		Int("superseded", report.Superseded).
		Msg("collection reconciled")

	return report, ctx.Err()
}

var errSuperseded = errors.New("superseded by a local deletion")

func (s *clientSyncService) apply(ctx context.Context, action models.Action, tombstones models.TombstoneSet) error {
	switch action.Kind {
	case models.ActionPullToLocal:
		if s.deletedSinceSnapshot(action, tombstones) {
			return errSuperseded
		}
		record := *action.Record
		record.Deleted = false
		return s.local.Insert(ctx, record)

	case models.ActionPushToRemote:
		if s.deletedSinceSnapshot(action, tombstones) {
			return errSuperseded
		}
		return s.remote.Insert(ctx, *action.Record)

	case models.ActionDeleteFromRemote:
		if err := s.remote.Delete(ctx, action.Collection, action.ID); err != nil {
			return err
		}
		s.ledger.Clear(ctx, action.Collection, action.ID)
		return nil

	case models.ActionDeleteFromLocal:
		return s.local.Delete(ctx, action.Collection, action.ID)

	case models.ActionClearTombstone:
		s.ledger.Clear(ctx, action.Collection, action.ID)
		return nil
	}

	return fmt.Errorf("unknown action %v", action.Kind)
}

// deletedSinceSnapshot reports whether the id was tombstoned after the
// ledger snapshot was taken. Applying a pull or push then would undo the
// user's delete.
func (s *clientSyncService) deletedSinceSnapshot(action models.Action, tombstones models.TombstoneSet) bool {
	return !tombstones.Has(action.ID) && s.ledger.IsDeleted(action.Collection, action.ID)
}

// groupByID splits plan-ordered actions into runs sharing an id.
func groupByID(actions []models.Action) [][]models.Action {
	var groups [][]models.Action
	for i, a := range actions {
		if i > 0 && actions[i-1].ID == a.ID {
			groups[len(groups)-1] = append(groups[len(groups)-1], a)
			continue
		}
		groups = append(groups, []models.Action{a})
	}
	return groups
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sort"

	"github.com/MKhiriev/go-fin-sync/models"
)

// reconcileService is the concrete implementation of ReconcileService.
// It performs a purely in-memory comparison of two snapshots; no storage
// layer or logger is required because the operation has no side effects.
type reconcileService struct{}

// NewReconcileService constructs a ReconcileService ready for use.
func NewReconcileService() ReconcileService {
	return &reconcileService{}
}

// BuildReconcilePlan implements ReconcileService.
//
// Both snapshots are indexed by id first; when a snapshot carries the same id
// twice the copy with the later modification time wins. Every id seen in the
// local snapshot, the remote snapshot or the tombstone set is then classified
// exactly once, in id order:
//
//   - remote live, no local: pull, unless tombstoned, then delete from remote;
//   - local, no remote: push;
//   - both live: last writer wins, remote wins ties unless the contents are
//     identical, in which case nothing is done;
//   - remote deletion marker with a local copy: delete locally unless the
//     local edit is newer than the deletion, then push;
//   - tombstoned id with nothing live anywhere: clear the tombstone;
//   - tombstoned id that still exists locally: no action. The local delete
//     is still in flight, and a restore clears the tombstone itself.
//
// ctx cancellation is checked for every id so callers can abort early.
func (s *reconcileService) BuildReconcilePlan(
	ctx context.Context,
	collection models.CollectionType,
	local, remote []models.Record,
	tombstones models.TombstoneSet,
) (models.ReconcilePlan, error) {
	plan := models.ReconcilePlan{Collection: collection}

	localIndex := indexLatest(local)
	remoteIndex := indexLatest(remote)

	ids := make([]string, 0, len(localIndex)+len(remoteIndex))
	seen := make(map[string]struct{}, cap(ids))
	for _, index := range []map[string]models.Record{localIndex, remoteIndex} {
		for id := range index {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	for id := range tombstones {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return models.ReconcilePlan{}, err
		}

		l, hasLocal := localIndex[id]
		r, hasRemote := remoteIndex[id]
		tombstoned := tombstones.Has(id)
		remoteLive := hasRemote && !r.Deleted

		if hasLocal && tombstoned {
			continue
		}

		switch {
		case hasLocal && remoteLive:
			lm, rm := l.ModifiedAt(), r.ModifiedAt()
			switch {
			case lm.After(rm):
				plan.Actions = append(plan.Actions, newAction(models.ActionPushToRemote, collection, id, &l))
			case rm.After(lm):
				plan.Actions = append(plan.Actions, newAction(models.ActionPullToLocal, collection, id, &r))
			case l.Fingerprint() == r.Fingerprint():
				// same moment, same content: already in sync
			default:
				plan.Actions = append(plan.Actions, newAction(models.ActionPullToLocal, collection, id, &r))
			}

		case hasLocal && hasRemote: // remote carries a deletion marker
			if l.ModifiedAt().After(r.ModifiedAt()) {
				plan.Actions = append(plan.Actions, newAction(models.ActionPushToRemote, collection, id, &l))
			} else {
				plan.Actions = append(plan.Actions, newAction(models.ActionDeleteFromLocal, collection, id, nil))
			}

		case hasLocal:
			plan.Actions = append(plan.Actions, newAction(models.ActionPushToRemote, collection, id, &l))

		case remoteLive:
			if tombstoned {
				// the driver clears the tombstone once the remote delete is confirmed
				plan.Actions = append(plan.Actions, newAction(models.ActionDeleteFromRemote, collection, id, nil))
				continue
			}
			plan.Actions = append(plan.Actions, newAction(models.ActionPullToLocal, collection, id, &r))
			continue
		}

		if tombstoned {
			plan.Actions = append(plan.Actions, newAction(models.ActionClearTombstone, collection, id, nil))
		}
	}

	return plan, nil
}

func indexLatest(records []models.Record) map[string]models.Record {
	index := make(map[string]models.Record, len(records))
	for _, rec := range records {
		if prev, ok := index[rec.ID]; ok && !rec.ModifiedAt().After(prev.ModifiedAt()) {
			continue
		}
		index[rec.ID] = rec
	}
	return index
}

func newAction(kind models.ActionKind, collection models.CollectionType, id string, record *models.Record) models.Action {
	action := models.Action{Kind: kind, Collection: collection, ID: id}
	if record != nil {
		rec := *record
		action.Record = &rec
	}
	return action
}

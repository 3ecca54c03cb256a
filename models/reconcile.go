// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ActionKind enumerates the outcomes of reconciling a single record id.
type ActionKind int

const (
	// ActionPullToLocal writes the remote copy into the local store.
	ActionPullToLocal ActionKind = iota + 1
	// ActionPushToRemote writes the local copy into the remote store.
	ActionPushToRemote
	// ActionDeleteFromRemote deletes the remote copy of a locally deleted
	// record and clears its tombstone once confirmed.
	ActionDeleteFromRemote
	// ActionDeleteFromLocal removes a local copy the remote store deleted.
	ActionDeleteFromLocal
	// ActionClearTombstone drops a tombstone that no longer guards anything.
	ActionClearTombstone
)

// String implements fmt.Stringer.
func (k ActionKind) String() string {
	switch k {
	case ActionPullToLocal:
		return "pull_to_local"
	case ActionPushToRemote:
		return "push_to_remote"
	case ActionDeleteFromRemote:
		return "delete_from_remote"
	case ActionDeleteFromLocal:
		return "delete_from_local"
	case ActionClearTombstone:
		return "clear_tombstone"
	default:
		return "unknown"
	}
}

// Action is one step of a reconcile plan. Record carries the winning copy for
// pull and push actions and is nil otherwise.
type Action struct {
	Kind       ActionKind
	Collection CollectionType
	ID         string
	Record     *Record
}

// ReconcilePlan lists the actions for one collection, ordered by record id.
type ReconcilePlan struct {
	Collection CollectionType
	Actions    []Action
}

// Empty reports whether the plan has nothing to apply.
func (p ReconcilePlan) Empty() bool {
	return len(p.Actions) == 0
}

// Count returns the number of actions of the given kind.
func (p ReconcilePlan) Count(kind ActionKind) int {
	n := 0
	for _, a := range p.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OrchestratorState is the lifecycle state of the sync orchestrator.
type OrchestratorState int32

const (
	// StateUninitialized means no identity is available yet; no pass may run.
	StateUninitialized OrchestratorState = iota
	// StateIdle means the orchestrator is ready and no pass is running.
	StateIdle
	// StateSyncing means a sync pass is in flight.
	StateSyncing
)

// String implements fmt.Stringer.
func (s OrchestratorState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	default:
		return "unknown"
	}
}

// SyncStatus is the host-facing view of the orchestrator. It is assembled from
// atomics and may be read at any time without blocking a running pass.
type SyncStatus struct {
	State          OrchestratorState `json:"state"`
	IsOnline       bool              `json:"is_online"`
	SyncInProgress bool              `json:"sync_in_progress"`
	LastSyncTime   *time.Time        `json:"last_sync_time,omitempty"`
	InitError      string            `json:"init_error,omitempty"`
}

// SyncTrigger names the producer that asked for a sync pass.
type SyncTrigger string

const (
	TriggerStartup      SyncTrigger = "startup"
	TriggerPeriodic     SyncTrigger = "periodic"
	TriggerReconnect    SyncTrigger = "reconnect"
	TriggerRemoteChange SyncTrigger = "remote_change"
	TriggerManual       SyncTrigger = "manual"
)

// SyncReport summarizes how one collection fared during a pass. Skipped is
// set when a snapshot could not be read and no action was planned.
// Superseded counts pulls and pushes dropped because the id was deleted
// locally after the snapshots were taken.
type SyncReport struct {
	Collection CollectionType `json:"collection"`
	Skipped    bool           `json:"skipped,omitempty"`
	Planned    int            `json:"planned"`
	Applied    int            `json:"applied"`
	Failed     int            `json:"failed"`
	Superseded int            `json:"superseded,omitempty"`
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

type tickMsg time.Time

type snapshotMsg struct {
	status     models.SyncStatus
	remote     map[models.CollectionType]int
	tombstones []models.Tombstone
}

type recordsLoadedMsg struct {
	collection models.CollectionType
	records    []models.Record
	err        error
}

type syncDoneMsg struct {
	ran bool
}

type recordDeletedMsg struct {
	record models.Record
	err    error
}

type recordRestoredMsg struct {
	record models.Record
	err    error
}

type copiedMsg struct {
	err error
}

type clearNoticeMsg struct{}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	noticeTTL     = 2 * time.Second
	maxRecordRows = 15
	maxLedgerRows = 5
)

type dashboardModel struct {
	ctx       context.Context
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger

	collections []models.CollectionType
	active      int
	records     []models.Record
	cursor      int
	loading     bool

	status     models.SyncStatus
	remote     map[models.CollectionType]int
	tombstones []models.Tombstone

	syncing     bool
	spinner     spinner.Model
	lastDeleted *models.Record
	notice      string

	showBuildInfo bool
	showError     bool
	errorOverlay  errorOverlayModel

	refreshInterval time.Duration
	writeClipboard  func(string) error
}

func newDashboardModel(ctx context.Context, services *service.ClientServices, buildInfo models.AppBuildInfo, log *logger.Logger) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return dashboardModel{
		ctx:             ctx,
		services:        services,
		buildInfo:       buildInfo,
		logger:          log,
		collections:     models.Collections(),
		loading:         true,
		spinner:         s,
		refreshInterval: defaultRefreshInterval,
		writeClipboard:  clipboard.WriteAll,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.cmdRefresh(), m.cmdLoadRecords(), m.cmdTick())
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.cmdRefresh(), m.cmdLoadRecords(), m.cmdTick())

	case snapshotMsg:
		m.status = msg.status
		m.remote = msg.remote
		m.tombstones = msg.tombstones
		return m, nil

	case recordsLoadedMsg:
		if msg.collection != m.activeCollection() {
			// Stale answer for a tab the user already left.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.records = msg.records
		m.cursor = clamp(m.cursor, len(m.records))
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		notice := "sync finished"
		if !msg.ran {
			notice = "sync skipped: offline, busy or not signed in"
		}
		return m.withNotice(notice), tea.Batch(m.cmdRefresh(), m.cmdLoadRecords(), cmdClearNotice())

	case recordDeletedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		deleted := msg.record
		m.lastDeleted = &deleted
		return m.withNotice("deleted " + deleted.ID + " (u: undo)"), tea.Batch(m.cmdRefresh(), m.cmdLoadRecords(), cmdClearNotice())

	case recordRestoredMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.lastDeleted = nil
		return m.withNotice("restored " + msg.record.ID), tea.Batch(m.cmdRefresh(), m.cmdLoadRecords(), cmdClearNotice())

	case copiedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		return m.withNotice("status copied to clipboard"), cmdClearNotice()

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		if !m.syncing && !m.status.SyncInProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showError {
		if key.Matches(msg, keys.esc) {
			m.showError = false
		}
		return m, nil
	}
	if m.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.version) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit

	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.tab):
		return m.switchCollection(1)
	case key.Matches(msg, keys.backtab):
		return m.switchCollection(-1)

	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, tea.Batch(m.spinner.Tick, m.cmdForceSync())

	case key.Matches(msg, keys.delete):
		record, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.cmdDelete(record)

	case key.Matches(msg, keys.undo):
		if m.lastDeleted == nil {
			return m.withNotice("nothing to undo"), cmdClearNotice()
		}
		return m, m.cmdRestore(*m.lastDeleted)

	case key.Matches(msg, keys.copy):
		return m, m.cmdCopyStatus()

	case key.Matches(msg, keys.version):
		m.showBuildInfo = true
	}

	return m, nil
}

func (m dashboardModel) switchCollection(step int) (tea.Model, tea.Cmd) {
	n := len(m.collections)
	m.active = ((m.active+step)%n + n) % n
	m.records = nil
	m.cursor = 0
	m.loading = true
	return m, m.cmdLoadRecords()
}

func (m dashboardModel) activeCollection() models.CollectionType {
	return m.collections[m.active]
}

func (m dashboardModel) selected() (models.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return models.Record{}, false
	}
	return m.records[m.cursor], true
}

func (m dashboardModel) withNotice(notice string) dashboardModel {
	m.notice = notice
	return m
}

func (m dashboardModel) withError(err error) dashboardModel {
	m.logger.Err(err).Str("func", "dashboardModel.Update").Msg("dashboard action failed")
	m.showError = true
	m.errorOverlay = errorOverlayModel{message: err.Error()}
	return m
}

func (m dashboardModel) cmdTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) cmdRefresh() tea.Cmd {
	services := m.services
	return func() tea.Msg {
		return snapshotMsg{
			status:     services.Orchestrator.Status(),
			remote:     services.Cache.Counts(),
			tombstones: services.Ledger.List(),
		}
	}
}

func (m dashboardModel) cmdLoadRecords() tea.Cmd {
	ctx, records, collection := m.ctx, m.services.RecordService, m.activeCollection()
	return func() tea.Msg {
		list, err := records.List(ctx, collection)
		return recordsLoadedMsg{collection: collection, records: list, err: err}
	}
}

func (m dashboardModel) cmdForceSync() tea.Cmd {
	ctx, orchestrator := m.ctx, m.services.Orchestrator
	return func() tea.Msg {
		return syncDoneMsg{ran: orchestrator.ForceSync(ctx)}
	}
}

func (m dashboardModel) cmdDelete(record models.Record) tea.Cmd {
	ctx, records := m.ctx, m.services.RecordService
	return func() tea.Msg {
		err := records.Delete(ctx, record.Collection, record.ID)
		return recordDeletedMsg{record: record, err: err}
	}
}

func (m dashboardModel) cmdRestore(record models.Record) tea.Cmd {
	ctx, records := m.ctx, m.services.RecordService
	return func() tea.Msg {
		restored, err := records.Restore(ctx, record)
		return recordRestoredMsg{record: restored, err: err}
	}
}

func (m dashboardModel) cmdCopyStatus() tea.Cmd {
	status, write := m.status, m.writeClipboard
	return func() tea.Msg {
		payload, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return copiedMsg{err: fmt.Errorf("encode status: %w", err)}
		}
		if err = write(string(payload)); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearNotice() tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

func (m dashboardModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}
	if m.showError {
		return appStyle.Render(m.errorOverlay.View())
	}

	var b strings.Builder
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderRecords())
	b.WriteString("\n")
	b.WriteString(m.renderLedger())
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
	}

	return appStyle.Render(renderPage("go-fin-sync", b.String(), keys.hotKeys()))
}

func (m dashboardModel) renderStatus() string {
	var b strings.Builder

	connectivity := offlineStyle.Render("offline")
	if m.status.IsOnline {
		connectivity = onlineStyle.Render("online")
	}
	fmt.Fprintf(&b, "state: %s  %s", m.status.State, connectivity)
	if m.syncing || m.status.SyncInProgress {
		b.WriteString("  " + m.spinner.View() + " syncing")
	}
	fmt.Fprintf(&b, "\nlast sync: %s", timeOrDash(m.status.LastSyncTime))
	if m.status.InitError != "" {
		b.WriteString("\n" + errorStyle.Render("init: "+m.status.InitError))
	}
	return b.String()
}

func (m dashboardModel) renderTabs() string {
	tabs := make([]string, 0, len(m.collections))
	for i, c := range m.collections {
		remote := "-"
		if n, ok := m.remote[c]; ok {
			remote = fmt.Sprint(n)
		}
		label := c.String() + " (remote " + remote + ")"
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	return strings.Join(tabs, "   ")
}

func (m dashboardModel) renderRecords() string {
	if m.loading {
		return "loading..."
	}
	if len(m.records) == 0 {
		return "no records"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "local: %d\n", len(m.records))

	start := 0
	if m.cursor >= maxRecordRows {
		start = m.cursor - maxRecordRows + 1
	}
	end := min(start+maxRecordRows, len(m.records))
	for i := start; i < end; i++ {
		line := "  " + describeRecord(m.records[i])
		if i == m.cursor {
			line = selectedStyle.Render("> " + describeRecord(m.records[i]))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) renderLedger() string {
	if len(m.tombstones) == 0 {
		return "pending deletions: none"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "pending deletions: %d", len(m.tombstones))
	for i, t := range m.tombstones {
		if i == maxLedgerRows {
			fmt.Fprintf(&b, "\n  ... and %d more", len(m.tombstones)-maxLedgerRows)
			break
		}
		fmt.Fprintf(&b, "\n  %s/%s  %s", t.Collection, fitText(t.ID, 36), t.DeletedAt.Local().Format(time.DateTime))
	}
	return b.String()
}

// describeRecord renders one list row using the typed view of the record
// when its fields decode, and the bare id otherwise.
func describeRecord(r models.Record) string {
	switch r.Collection {
	case models.CollectionTransactions:
		if t, err := models.TransactionFromRecord(r); err == nil {
			return fmt.Sprintf("%s  %s %s  %s", t.OccurredAt.Local().Format(time.DateOnly),
				t.Amount.StringFixed(2), t.Currency, fitText(valueOrDash(t.Description), 30))
		}
	case models.CollectionAccounts:
		if a, err := models.AccountFromRecord(r); err == nil {
			return fmt.Sprintf("%s  %s %s", fitText(valueOrDash(a.Name), 30), a.Balance.StringFixed(2), a.Currency)
		}
	}
	return r.ID
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

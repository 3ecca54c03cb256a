// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(line), &entry))
	return entry
}

func TestNewLogger_SyncEntryFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("go-fin-sync-server")
	l.Logger = l.Output(&buf)

	l.Info().
		Str("collection", "transactions").
		Int("applied", 3).
		Msg("collection reconciled")

	entry := decode(t, buf.Bytes())
	assert.Equal(t, "go-fin-sync-server", entry["role"])
	assert.Equal(t, "transactions", entry["collection"])
	assert.EqualValues(t, 3, entry["applied"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Contains(t, entry, "func")
}

func TestNewClientLogger_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	first := NewClientLogger("go-fin-sync-client", path)
	first.Info().Str("trigger", "periodic").Msg("sync pass started")

	second := NewClientLogger("go-fin-sync-client", path)
	second.Warn().Str("id", "t1").Msg("action superseded")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, decode(t, scanner.Bytes()))
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2, "a restarted client appends to the same file")

	assert.Equal(t, "go-fin-sync-client", lines[0]["role"])
	assert.Equal(t, "periodic", lines[0]["trigger"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "t1", lines[1]["id"])
}

func TestNewClientLogger_UnwritablePathFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "client.log")

	l := NewClientLogger("go-fin-sync-client", path)
	require.NotNil(t, l)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	l := NewLogger("go-fin-sync-client")
	l.Logger = l.Output(&buf)

	assert.True(t, SetLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	l.Info().Msg("remote snapshot cached")
	assert.Empty(t, buf.String(), "info is filtered at warn")

	assert.False(t, SetLevel(""))
	assert.False(t, SetLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel(), "bad levels keep the current one")
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Error().Str("collection", "accounts").Msg("remote snapshot failed")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger_FieldsStayOnChild(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("go-fin-sync-client")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	require.NotSame(t, parent, child)
	child.Logger = child.With().Str("collection", "accounts").Logger()

	child.Info().Msg("from child")
	parent.Info().Msg("from parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	fromChild := decode(t, []byte(lines[0]))
	fromParent := decode(t, []byte(lines[1]))
	assert.Equal(t, "go-fin-sync-client", fromChild["role"], "child inherits the role")
	assert.Equal(t, "accounts", fromChild["collection"])
	assert.NotContains(t, fromParent, "collection")
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "0190f1c2").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("pass finished")

	assert.Equal(t, "0190f1c2", decode(t, buf.Bytes())["trace_id"])
	require.NotNil(t, FromContext(context.Background()), "bare contexts still get a logger")
}

func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "0190f1c3").Logger()

	req := httptest.NewRequest(http.MethodGet, "/api/records/transactions", nil)
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("snapshot served")

	assert.Equal(t, "0190f1c3", decode(t, buf.Bytes())["trace_id"])
}

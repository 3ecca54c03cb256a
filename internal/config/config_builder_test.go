// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceWins verifies that non-zero fields of later configs
// override earlier ones while zero fields keep earlier values.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0", TokenIssuer: "first"}},
		&StructuredConfig{App: App{TokenIssuer: "second"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "second", cfg.App.TokenIssuer)
}

// TestBuild_RejectsNegativeConcurrency verifies the shared validation.
func TestBuild_RejectsNegativeConcurrency(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Workers: Workers{ApplyConcurrency: -1}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

// ── withDefaults ──────────────────────────────────────────────────────────────

func TestWithDefaults_FillsWorkerSettings(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
	assert.Equal(t, DefaultWatchdogTimeout, cfg.Workers.WatchdogTimeout)
	assert.Equal(t, DefaultApplyConcurrency, cfg.Workers.ApplyConcurrency)
	assert.Equal(t, DefaultTombstoneRetention, cfg.Storage.Tombstones.Retention)
	assert.Equal(t, DefaultTombstoneMax, cfg.Storage.Tombstones.MaxEntries)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("WORKERS_SYNC_INTERVAL", "90s")
	t.Setenv("STORAGE_TOMBSTONES_MAX_ENTRIES", "42")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, 90*time.Second, b.configs[0].Workers.SyncInterval)
	assert.Equal(t, 42, b.configs[0].Storage.Tombstones.MaxEntries)
}

// TestWithEnv_InvalidValueSetsError verifies that unparsable values are
// collected into b.err.
func TestWithEnv_InvalidValueSetsError(t *testing.T) {
	t.Setenv("WORKERS_SYNC_INTERVAL", "often")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

func TestWithDotEnv_LoadsFileWithoutOverridingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path,
		[]byte("APP_TOKEN_ISSUER=from-file\nAPP_HASH_KEY=file-key\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("APP_TOKEN_ISSUER", "from-env")
	// registered so t.Setenv restores the variable the file sets
	t.Setenv("APP_HASH_KEY", "")
	require.NoError(t, os.Unsetenv("APP_HASH_KEY"))

	cfg, err := newConfigBuilder().withDotEnv().withEnv().build()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.App.TokenIssuer)
	assert.Equal(t, "file-key", cfg.App.HashKey)
}

func TestWithDotEnv_MissingFileIgnored(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	b := newConfigBuilder().withDotEnv()
	assert.NoError(t, b.err)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_OverridesEnv(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := newConfigBuilder().
		withEnv().
		withFlags([]string{"-log-level", "warn", "-remote", "http://localhost:8080"}).
		build()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
}

func TestWithFlags_UnknownFlagSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-nope"})
	assert.Error(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoPathIsNoop verifies that withJSON appends nothing when no
// config carries a JSON path.
func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

// TestWithJSON_LoadsFromFlagPath verifies the JSON file named by a flag is
// parsed and merged last.
func TestWithJSON_LoadsFromFlagPath(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"workers": map[string]any{"sync_interval": "2m", "apply_concurrency": 8},
		"storage": map[string]any{"tombstones": map[string]any{"path": "/tmp/ts.json"}},
	})

	cfg, err := newConfigBuilder().
		withDefaults().
		withFlags([]string{"-c", path, "-sync-interval", "1m"}).
		withJSON().
		build()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 8, cfg.Workers.ApplyConcurrency)
	assert.Equal(t, "/tmp/ts.json", cfg.Storage.Tombstones.Path)
	assert.Equal(t, DefaultWatchdogTimeout, cfg.Workers.WatchdogTimeout)
}

// TestWithJSON_MissingFileSetsError verifies that an unreadable file is
// reported.
func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/no/such/file.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

// ── views ─────────────────────────────────────────────────────────────────────

func TestNewClientConfig(t *testing.T) {
	base := defaultConfig()
	base.Adapter.HTTPAddress = "http://localhost:8080"
	base.App.HashKey = "k"

	cfg, err := newClientConfig(base)
	require.NoError(t, err)
	assert.Equal(t, DefaultLocalDSN, cfg.Storage.LocalDSN)
	assert.Equal(t, DefaultDebounceInterval, cfg.Workers.DebounceInterval)
}

func TestNewClientConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StructuredConfig)
		want   error
	}{
		{"in-memory local store", func(c *StructuredConfig) { c.Storage.Local.DSN = ":memory:" }, ErrInvalidStorageConfigs},
		{"zero retention", func(c *StructuredConfig) { c.Storage.Tombstones.Retention = 0 }, ErrInvalidStorageConfigs},
		{"missing remote", func(c *StructuredConfig) { c.Adapter.HTTPAddress = "" }, ErrInvalidAdapterConfigs},
		{"zero watchdog", func(c *StructuredConfig) { c.Workers.WatchdogTimeout = 0 }, ErrInvalidWorkerConfigs},
		{"missing hash key", func(c *StructuredConfig) { c.App.HashKey = "" }, ErrInvalidAppConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := defaultConfig()
			base.Adapter.HTTPAddress = "http://localhost:8080"
			base.App.HashKey = "k"
			tt.mutate(base)

			_, err := newClientConfig(base)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewServerConfig_Validation(t *testing.T) {
	base := defaultConfig()
	base.Storage.DB.DSN = "postgres://localhost/fin"
	base.Server.HTTPAddress = "localhost:8080"
	base.App.TokenSignKey = "sign"
	base.App.HashKey = "hash"

	cfg, err := newServerConfig(base)
	require.NoError(t, err)
	assert.Equal(t, DefaultLongPollTimeout, cfg.Server.LongPollTimeout)

	base.App.TokenSignKey = ""
	_, err = newServerConfig(base)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)

	base.Storage.DB.DSN = ""
	_, err = newServerConfig(base)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

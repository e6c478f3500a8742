package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.LegacyDBPath)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("db_path: /data/store.db\nlegacy_db_path: /data/old.db\n"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/store.db", cfg.DBPath)
	assert.Equal(t, "/data/old.db", cfg.LegacyDBPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WORKSTORE_DB", "/env/store.db")
	t.Setenv("WORKSTORE_LEGACY_DB", "/env/old.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/store.db", cfg.DBPath)
	assert.Equal(t, "/env/old.db", cfg.LegacyDBPath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{DBPath: "/a/store.db", LegacyDBPath: "/a/old.db"}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.NotEmpty(t, cfg.Storage.LocalPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  type: sqlite
  local_path: /tmp/archmeta-test.db
log:
  level: debug
  json_format: true
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/archmeta-test.db", cfg.Storage.LocalPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSONFormat)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadPostgresDSNFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  type: postgres\n"), 0644))

	t.Setenv("ARCHMETA_POSTGRES_DSN", "postgres://localhost/archmeta")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/archmeta", cfg.Storage.PostgresDSN)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Type: "sqlite"}}
	assert.Error(t, cfg.Validate(), "sqlite needs a local path")

	cfg = &Config{Storage: StorageConfig{Type: "postgres"}}
	assert.Error(t, cfg.Validate(), "postgres needs a DSN")

	cfg = &Config{Storage: StorageConfig{Type: "mongodb", LocalPath: "x"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Storage: StorageConfig{Type: "postgres", PostgresDSN: "postgres://h/db"}}
	assert.NoError(t, cfg.Validate())
}

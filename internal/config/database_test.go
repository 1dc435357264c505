package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_PragmaOptimizations(t *testing.T) {
	config := NewConfig()
	pragmas := config.PragmaOptimizations()
	assert.Equal(t, "journal_mode(WAL)", pragmas[0])
	assert.Contains(t, pragmas, "busy_timeout(5000)")

	config.Database.WALMode = false
	assert.NotContains(t, config.PragmaOptimizations(), "journal_mode(WAL)")
}

func TestConfig_InitializeDatabase_Success(t *testing.T) {
	config := NewConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "nested", "path", "test.db")

	ds, err := config.InitializeDatabase(context.Background())
	require.NoError(t, err)
	defer ds.Close()

	if _, err := os.Stat(filepath.Dir(config.Database.Path)); os.IsNotExist(err) {
		t.Errorf("Expected directory to be created: %s", filepath.Dir(config.Database.Path))
	}

	var fkEnabled bool
	require.NoError(t, ds.DB.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.True(t, fkEnabled)

	var journalMode string
	require.NoError(t, ds.DB.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))

	var tableName string
	err = ds.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='wired_devices'").Scan(&tableName)
	assert.NoError(t, err)
}

func TestConfig_InitializeDatabase_InvalidPath(t *testing.T) {
	config := NewConfig()

	// a regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	config.Database.Path = filepath.Join(blocker, "sub", "adh.db")

	ds, err := config.InitializeDatabase(context.Background())
	if err == nil {
		ds.Close()
		t.Fatal("Expected error for invalid path")
	}
	if !strings.Contains(err.Error(), "failed to create database directory") {
		t.Errorf("Expected directory creation error, got: %v", err)
	}
}

func TestConfig_OpenDatabase_LeavesSchemaAlone(t *testing.T) {
	config := NewConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "fresh.db")

	ds, err := config.OpenDatabase()
	require.NoError(t, err)
	defer ds.Close()

	version, err := ds.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, version)
}

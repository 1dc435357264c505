package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbweber/homelab/adh/internal/datastore"
)

// OptimizeDatabaseConnection applies performance optimizations to the database connection
func OptimizeDatabaseConnection(db *sql.DB) {
	db.SetMaxOpenConns(10)                 // Limit concurrent connections
	db.SetMaxIdleConns(5)                  // Keep some connections alive
	db.SetConnMaxLifetime(5 * time.Minute) // Recycle connections periodically
	db.SetConnMaxIdleTime(1 * time.Minute) // Close idle connections after 1 minute
}

// PragmaOptimizations returns the per-connection SQLite pragmas for this
// configuration, in the driver's name(value) DSN form.
func (c *Config) PragmaOptimizations() []string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", c.Database.BusyTimeout*1000),
		"synchronous(NORMAL)",
		"cache_size(10000)",
		"temp_store(MEMORY)",
		"mmap_size(268435456)",
	}
	if c.Database.WALMode {
		pragmas = append([]string{"journal_mode(WAL)"}, pragmas...)
	}
	return pragmas
}

// OpenDatabase creates the database directory and opens a tuned pool
// without touching the schema.
func (c *Config) OpenDatabase() (*datastore.Datastore, error) {
	dbPath := c.expandPath(c.Database.Path)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	ds, err := datastore.Open(datastore.FileDSN(dbPath, c.PragmaOptimizations()...))
	if err != nil {
		return nil, err
	}

	OptimizeDatabaseConnection(ds.DB)
	return ds, nil
}

// InitializeDatabase opens the database and brings the schema up to date
func (c *Config) InitializeDatabase(ctx context.Context) (*datastore.Datastore, error) {
	ds, err := c.OpenDatabase()
	if err != nil {
		return nil, err
	}

	if err := ds.Migrate(ctx); err != nil {
		_ = ds.Close()
		return nil, err
	}

	if _, err := ds.DB.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

package testutil

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/jbweber/homelab/adh/internal/datastore"
	_ "modernc.org/sqlite"
)

// CleanupTestDB removes the test database file. In-memory databases and
// files that are already gone are not an error.
func CleanupTestDB(dsn string) error {
	if !strings.HasPrefix(dsn, "file:") {
		return fmt.Errorf("invalid DSN format")
	}

	path := dsn[len("file:"):]
	query := ""
	if idx := strings.Index(path, "?"); idx != -1 {
		path, query = path[:idx], path[idx+1:]
	}
	if strings.Contains(query, "mode=memory") {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SetupTestDB creates and returns a bare test database connection with
// foreign keys enforced.
func SetupTestDB(t *testing.T, testName string) (*sql.DB, func()) {
	t.Helper()
	dsn := NewTestDSN(testName)

	db, err := sql.Open(datastore.DriverName, datastore.WithPragmas(dsn))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = CleanupTestDB(dsn)
	}

	return db, cleanup
}

// SetupTestDatastore returns a migrated datastore backed by a private
// in-memory database.
func SetupTestDatastore(t *testing.T, testName string) (*datastore.Datastore, func()) {
	t.Helper()
	dsn := NewTestDSN(testName)

	ds, err := datastore.New(dsn)
	if err != nil {
		t.Fatalf("Failed to create test datastore: %v", err)
	}

	cleanup := func() {
		_ = ds.Close()
		_ = CleanupTestDB(dsn)
	}

	return ds, cleanup
}

// SetupTestDBWithMigrations is SetupTestDatastore for callers that only need
// the raw connection.
func SetupTestDBWithMigrations(t *testing.T, testName string) (*sql.DB, func()) {
	t.Helper()
	ds, cleanup := SetupTestDatastore(t, testName)
	return ds.DB, cleanup
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupTestDB(t *testing.T) {
	db, cleanup := SetupTestDB(t, "TestSetupTestDB")
	defer cleanup()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}

	if err := db.Ping(); err != nil {
		t.Errorf("Database ping failed: %v", err)
	}

	var fkEnabled bool
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Errorf("Failed to check foreign keys: %v", err)
	}
	if !fkEnabled {
		t.Error("Expected foreign keys to be enabled")
	}
}

func TestSetupTestDBWithMigrations(t *testing.T) {
	db, cleanup := SetupTestDBWithMigrations(t, "TestSetupTestDBWithMigrations")
	defer cleanup()

	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tableName)
	if err != nil {
		t.Errorf("Expected schema_migrations table to exist: %v", err)
	}

	tables := []string{"members", "rooms", "switches", "ports", "wired_devices", "wireless_devices"}
	for _, table := range tables {
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Errorf("Error checking for table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestSetupTestDatastore_TableCreation(t *testing.T) {
	ds, cleanup := SetupTestDatastore(t, "TestSetupTestDatastore_TableCreation")
	defer cleanup()

	_, err := ds.DB.Exec("INSERT INTO switches (description, ip, community) VALUES (?, ?, ?)", "core", "192.168.102.2", "public")
	if err != nil {
		t.Fatalf("Failed to insert into switches table: %v", err)
	}

	var description, ip string
	err = ds.DB.QueryRow("SELECT description, ip FROM switches WHERE community = ?", "public").Scan(&description, &ip)
	if err != nil {
		t.Fatalf("Failed to query from switches table: %v", err)
	}
	if description != "core" || ip != "192.168.102.2" {
		t.Errorf("Unexpected data: description=%s, ip=%s", description, ip)
	}
}

func TestSetupTestDB_MultipleInstances(t *testing.T) {
	db1, cleanup1 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances_1")
	defer cleanup1()

	db2, cleanup2 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances_2")
	defer cleanup2()

	if err := db1.Ping(); err != nil {
		t.Errorf("First database failed: %v", err)
	}
	if err := db2.Ping(); err != nil {
		t.Errorf("Second database failed: %v", err)
	}
	if db1 == db2 {
		t.Error("Expected different database instances")
	}
}

func TestCleanupTestDB(t *testing.T) {
	if err := CleanupTestDB(NewTestDSN("test-cleanup")); err != nil {
		t.Errorf("CleanupTestDB should not error on in-memory database: %v", err)
	}

	if err := CleanupTestDB("invalid-dsn"); err == nil {
		t.Error("Expected error for invalid DSN")
	}
}

func TestCleanupTestDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(path, []byte{}, 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)"
	if err := CleanupTestDB(dsn); err != nil {
		t.Fatalf("CleanupTestDB failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected database file to be removed")
	}

	// second call is a no-op
	if err := CleanupTestDB(dsn); err != nil {
		t.Errorf("Second cleanup call failed: %v", err)
	}
}

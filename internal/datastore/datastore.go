package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jbweber/homelab/adh/internal/migrations"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// basePragmas are applied to every pooled connection.
var basePragmas = []string{"foreign_keys(1)", "busy_timeout(5000)"}

// Datastore owns the shared connection pool. It is created once at startup
// and passed explicitly to every repository.
type Datastore struct {
	DB *sql.DB
}

// WithPragmas appends SQLite connection parameters to dsn. Pragmas use the
// driver's name(value) form, e.g. "journal_mode(WAL)". Write transactions
// start with BEGIN IMMEDIATE so a check-then-write sequence holds the write
// lock from its first read.
func WithPragmas(dsn string, pragmas ...string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range append(append([]string{}, basePragmas...), pragmas...) {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	b.WriteString(sep)
	b.WriteString("_txlock=immediate")
	return b.String()
}

// FileDSN returns a DSN for an on-disk database at path.
func FileDSN(path string, pragmas ...string) string {
	return WithPragmas("file:"+path, pragmas...)
}

// Open opens the database without touching its schema.
func Open(dsn string) (*Datastore, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Datastore{DB: db}, nil
}

// New opens dsn with the default pragmas and brings the schema up to date.
func New(dsn string) (*Datastore, error) {
	ds, err := Open(WithPragmas(dsn))
	if err != nil {
		return nil, err
	}
	if err := ds.Migrate(context.Background()); err != nil {
		_ = ds.Close()
		return nil, err
	}
	return ds, nil
}

// Migrate runs every pending schema migration.
func (ds *Datastore) Migrate(ctx context.Context) error {
	if err := ds.migrator().RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the latest applied migration.
func (ds *Datastore) Rollback(ctx context.Context) error {
	if err := ds.migrator().Rollback(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// SchemaVersion reports the latest applied migration.
func (ds *Datastore) SchemaVersion(ctx context.Context) (int64, error) {
	return ds.migrator().GetCurrentVersion(ctx)
}

func (ds *Datastore) migrator() *migrations.Migrator {
	m := migrations.NewMigrator(ds.DB)
	for _, migration := range migrations.All() {
		m.AddMigration(migration)
	}
	return m
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (ds *Datastore) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := ds.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) && err == nil {
			err = rollbackErr
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}

// RunInTx is WithTx for callers that only hold the *sql.DB.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return (&Datastore{DB: db}).WithTx(ctx, fn)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sqliteCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	code := sqliteCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isForeignKeyViolation(err error) bool {
	return sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// translateWriteError maps constraint failures onto repository errors.
func translateWriteError(err error, what string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", what, ErrReferenceNotFound)
	default:
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
}

// containsClause builds "(instr(a, ?) > 0 OR instr(b, ?) > 0 ...)". instr is
// case sensitive, unlike LIKE.
func containsClause(terms string, columns ...string) (string, []any) {
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("instr(%s, ?) > 0", col))
		args = append(args, terms)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// whereClause joins conditions with AND, returning "" when there are none.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// expectAffected turns an UPDATE or DELETE that touched nothing into ErrNotFound.
func expectAffected(result sql.Result, what string, id any) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s with ID %v: %w", what, id, ErrNotFound)
	}
	return nil
}

func existsByID(ctx context.Context, q queryer, table string, id int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return count > 0, nil
}

func deleteByID(ctx context.Context, q queryer, table, what string, id int64) error {
	result, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	return expectAffected(result, what, id)
}

func countRows(ctx context.Context, q queryer, query string, args ...any) (int, error) {
	var total int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

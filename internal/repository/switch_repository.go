package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/domain"
)

// SwitchRepository defines domain-specific operations for switches
type SwitchRepository interface {
	Repository[domain.Switch, int64]
	// Filter returns one page of matching switches ordered by id, plus the
	// number of matches without paging.
	Filter(ctx context.Context, f SwitchFilter) ([]domain.Switch, int, error)
}

type switchRepositoryImpl struct {
	db *sql.DB
}

const switchColumns = "id, description, ip, community"

// NewSwitchRepository creates a new switch repository
func NewSwitchRepository(db *sql.DB) SwitchRepository {
	return &switchRepositoryImpl{db: db}
}

// Save creates or updates a switch. Updating a switch that does not exist
// returns ErrNotFound.
func (r *switchRepositoryImpl) Save(ctx context.Context, s domain.Switch) (domain.Switch, error) {
	if err := s.Validate(); err != nil {
		return domain.Switch{}, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	if s.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			"INSERT INTO switches (description, ip, community) VALUES (?, ?, ?)",
			s.Description, s.IP, s.Community)
		if err != nil {
			return domain.Switch{}, translateWriteError(err, "switch")
		}
		id, err := result.LastInsertId()
		if err != nil {
			return domain.Switch{}, fmt.Errorf("failed to get switch ID: %w", err)
		}
		s.ID = id
		return s, nil
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE switches
		SET description = ?, ip = ?, community = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Description, s.IP, s.Community, s.ID)
	if err != nil {
		return domain.Switch{}, translateWriteError(err, "switch")
	}
	if err := expectAffected(result, "switch", s.ID); err != nil {
		return domain.Switch{}, err
	}
	return s, nil
}

// FindByID retrieves a switch by its ID
func (r *switchRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Switch, error) {
	var s domain.Switch
	err := r.db.QueryRowContext(ctx, "SELECT "+switchColumns+" FROM switches WHERE id = ?", id).
		Scan(&s.ID, &s.Description, &s.IP, &s.Community)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Switch{}, fmt.Errorf("switch with ID %d: %w", id, ErrNotFound)
		}
		return domain.Switch{}, fmt.Errorf("failed to find switch: %w", err)
	}
	return s, nil
}

// FindAll retrieves every switch ordered by id
func (r *switchRepositoryImpl) FindAll(ctx context.Context) ([]domain.Switch, error) {
	return r.query(ctx, "SELECT "+switchColumns+" FROM switches ORDER BY id")
}

// Filter retrieves a page of switches whose description, ip or community
// contains f.Terms
func (r *switchRepositoryImpl) Filter(ctx context.Context, f SwitchFilter) ([]domain.Switch, int, error) {
	var conditions []string
	var args []any
	if f.Terms != "" {
		clause, termArgs := containsClause(f.Terms, "description", "ip", "community")
		conditions = append(conditions, clause)
		args = append(args, termArgs...)
	}
	where := whereClause(conditions)

	total, err := countRows(ctx, r.db, "SELECT COUNT(*) FROM switches"+where, args...)
	if err != nil {
		return nil, 0, err
	}

	switches, err := r.query(ctx,
		"SELECT "+switchColumns+" FROM switches"+where+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return switches, total, nil
}

func (r *switchRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]domain.Switch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find switches: %w", err)
	}
	defer rows.Close()

	switches := []domain.Switch{}
	for rows.Next() {
		var s domain.Switch
		if err := rows.Scan(&s.ID, &s.Description, &s.IP, &s.Community); err != nil {
			return nil, fmt.Errorf("failed to scan switch: %w", err)
		}
		switches = append(switches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating switches: %w", err)
	}
	return switches, nil
}

// DeleteByID deletes a switch together with its ports
func (r *switchRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "switches", "switch", id)
}

// ExistsByID checks if a switch exists
func (r *switchRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, "switches", id)
}

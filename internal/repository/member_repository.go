package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/domain"
)

// MemberRepository defines domain-specific operations for members
type MemberRepository interface {
	Repository[domain.Member, int64]
	FindByLogin(ctx context.Context, login string) (domain.Member, error)
	Close() error
}

type memberRepositoryImpl struct {
	db    *sql.DB
	stmts *PreparedStatementCache
}

const (
	memberColumns      = "id, login, name, first_name, email, password"
	memberByLoginQuery  = "SELECT " + memberColumns + " FROM members WHERE login = ?"
)

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepositoryImpl{
		db:    db,
		stmts: NewPreparedStatementCache(db),
	}
}

// Save creates or updates a member
func (r *memberRepositoryImpl) Save(ctx context.Context, m domain.Member) (domain.Member, error) {
	if err := m.Validate(); err != nil {
		return domain.Member{}, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	if m.ID == 0 {
		result, err := r.db.ExecContext(ctx, `
			INSERT INTO members (login, name, first_name, email, password)
			VALUES (?, ?, ?, ?, ?)`,
			m.Login, m.Name, m.FirstName, m.Email, m.Password)
		if err != nil {
			return domain.Member{}, translateWriteError(err, "member "+m.Login)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return domain.Member{}, fmt.Errorf("failed to get member ID: %w", err)
		}
		m.ID = id
		return m, nil
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET login = ?, name = ?, first_name = ?, email = ?, password = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		m.Login, m.Name, m.FirstName, m.Email, m.Password, m.ID)
	if err != nil {
		return domain.Member{}, translateWriteError(err, "member "+m.Login)
	}
	if err := expectAffected(result, "member", m.ID); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func scanMember(row interface{ Scan(...any) error }) (domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.Login, &m.Name, &m.FirstName, &m.Email, &m.Password)
	return m, err
}

// FindByID retrieves a member by its ID
func (r *memberRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, fmt.Errorf("member with ID %d: %w", id, ErrNotFound)
		}
		return domain.Member{}, fmt.Errorf("failed to find member: %w", err)
	}
	return m, nil
}

// FindByLogin retrieves a member by its unique login
func (r *memberRepositoryImpl) FindByLogin(ctx context.Context, login string) (domain.Member, error) {
	stmt, err := r.stmts.Get(ctx, memberByLoginQuery)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to prepare member lookup: %w", err)
	}
	m, err := scanMember(stmt.QueryRowContext(ctx, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, fmt.Errorf("member with login %q: %w", login, ErrNotFound)
		}
		return domain.Member{}, fmt.Errorf("failed to find member: %w", err)
	}
	return m, nil
}

// FindAll retrieves all members ordered by login
func (r *memberRepositoryImpl) FindAll(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM members ORDER BY login")
	if err != nil {
		return nil, fmt.Errorf("failed to find members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// DeleteByID deletes a member and, through the foreign keys, its devices
func (r *memberRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "members", "member", id)
}

// ExistsByID checks if a member exists
func (r *memberRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, "members", id)
}

// Close releases cached statements
func (r *memberRepositoryImpl) Close() error {
	return r.stmts.Close()
}

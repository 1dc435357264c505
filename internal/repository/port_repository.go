package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/datastore"
	"github.com/jbweber/homelab/adh/internal/domain"
)

// PortRepository defines domain-specific operations for switch ports
type PortRepository interface {
	Repository[domain.Port, int64]
	// Filter returns one page of matching ports ordered by switch then port
	// number, plus the number of matches without paging.
	Filter(ctx context.Context, f PortFilter) ([]domain.Port, int, error)
}

type portRepositoryImpl struct {
	db *sql.DB
}

const portSelect = `
	SELECT p.id, p.switch_id, r.number, p.port_number, p.oid, p.rcom
	FROM ports p LEFT JOIN rooms r ON r.id = p.room_id`

// NewPortRepository creates a new port repository
func NewPortRepository(db *sql.DB) PortRepository {
	return &portRepositoryImpl{db: db}
}

// Save creates or updates a port. The room is given by number and resolved
// in the same transaction; an unknown switch or room yields
// ErrReferenceNotFound.
func (r *portRepositoryImpl) Save(ctx context.Context, p domain.Port) (domain.Port, error) {
	if err := p.Validate(); err != nil {
		return domain.Port{}, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	err := datastore.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := existsByID(ctx, tx, "switches", p.SwitchID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("switch with ID %d: %w", p.SwitchID, ErrReferenceNotFound)
		}

		var roomID sql.NullInt64
		if p.RoomNumber != nil {
			err := tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE number = ?", *p.RoomNumber).Scan(&roomID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("room %d: %w", *p.RoomNumber, ErrReferenceNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to find room: %w", err)
			}
		}

		if p.ID == 0 {
			result, err := tx.ExecContext(ctx,
				"INSERT INTO ports (switch_id, room_id, port_number, oid, rcom) VALUES (?, ?, ?, ?, ?)",
				p.SwitchID, roomID, p.PortNumber, nullString(p.OID), p.Rcom)
			if err != nil {
				return translateWriteError(err, "port")
			}
			p.ID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get port ID: %w", err)
			}
			return nil
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE ports SET switch_id = ?, room_id = ?, port_number = ?, oid = ?, rcom = ? WHERE id = ?",
			p.SwitchID, roomID, p.PortNumber, nullString(p.OID), p.Rcom, p.ID)
		if err != nil {
			return translateWriteError(err, "port")
		}
		return expectAffected(result, "port", p.ID)
	})
	if err != nil {
		return domain.Port{}, err
	}
	return p, nil
}

func scanPort(row interface{ Scan(...any) error }) (domain.Port, error) {
	var (
		p    domain.Port
		room sql.NullInt64
		oid  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.SwitchID, &room, &p.PortNumber, &oid, &p.Rcom); err != nil {
		return domain.Port{}, err
	}
	if room.Valid {
		n := room.Int64
		p.RoomNumber = &n
	}
	p.OID = oid.String
	return p, nil
}

// FindByID retrieves a port by its ID
func (r *portRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Port, error) {
	p, err := scanPort(r.db.QueryRowContext(ctx, portSelect+" WHERE p.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Port{}, fmt.Errorf("port with ID %d: %w", id, ErrNotFound)
		}
		return domain.Port{}, fmt.Errorf("failed to find port: %w", err)
	}
	return p, nil
}

// FindAll retrieves every port
func (r *portRepositoryImpl) FindAll(ctx context.Context) ([]domain.Port, error) {
	return r.query(ctx, portSelect+" ORDER BY p.switch_id, p.port_number, p.id")
}

// Filter retrieves a page of ports
func (r *portRepositoryImpl) Filter(ctx context.Context, f PortFilter) ([]domain.Port, int, error) {
	var conditions []string
	var args []any
	if f.SwitchID != nil {
		conditions = append(conditions, "p.switch_id = ?")
		args = append(args, *f.SwitchID)
	}
	if f.RoomNumber != nil {
		conditions = append(conditions, "r.number = ?")
		args = append(args, *f.RoomNumber)
	}
	if f.Terms != "" {
		clause, termArgs := containsClause(f.Terms, "p.port_number", "p.oid")
		conditions = append(conditions, clause)
		args = append(args, termArgs...)
	}
	where := whereClause(conditions)

	total, err := countRows(ctx, r.db,
		"SELECT COUNT(*) FROM ports p LEFT JOIN rooms r ON r.id = p.room_id"+where, args...)
	if err != nil {
		return nil, 0, err
	}

	ports, err := r.query(ctx,
		portSelect+where+" ORDER BY p.switch_id, p.port_number, p.id LIMIT ? OFFSET ?",
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return ports, total, nil
}

func (r *portRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]domain.Port, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find ports: %w", err)
	}
	defer rows.Close()

	ports := []domain.Port{}
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan port: %w", err)
		}
		ports = append(ports, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ports: %w", err)
	}
	return ports, nil
}

// DeleteByID deletes a port
func (r *portRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "ports", "port", id)
}

// ExistsByID checks if a port exists
func (r *portRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, "ports", id)
}

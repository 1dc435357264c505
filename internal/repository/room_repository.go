package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/domain"
)

// RoomRepository defines domain-specific operations for rooms
type RoomRepository interface {
	Repository[domain.Room, int64]
	FindByNumber(ctx context.Context, number int64) (domain.Room, error)
}

type roomRepositoryImpl struct {
	db *sql.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepositoryImpl{db: db}
}

// Save creates or updates a room
func (r *roomRepositoryImpl) Save(ctx context.Context, room domain.Room) (domain.Room, error) {
	if room.Number <= 0 {
		return domain.Room{}, fmt.Errorf("%w: room number must be positive", ErrInvalidEntity)
	}

	if room.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			"INSERT INTO rooms (number, description, phone) VALUES (?, ?, ?)",
			room.Number, room.Description, room.Phone)
		if err != nil {
			return domain.Room{}, translateWriteError(err, fmt.Sprintf("room %d", room.Number))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return domain.Room{}, fmt.Errorf("failed to get room ID: %w", err)
		}
		room.ID = id
		return room, nil
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET number = ?, description = ?, phone = ? WHERE id = ?",
		room.Number, room.Description, room.Phone, room.ID)
	if err != nil {
		return domain.Room{}, translateWriteError(err, fmt.Sprintf("room %d", room.Number))
	}
	if err := expectAffected(result, "room", room.ID); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *roomRepositoryImpl) findOne(ctx context.Context, where string, arg any) (domain.Room, error) {
	var room domain.Room
	err := r.db.QueryRowContext(ctx,
		"SELECT id, number, description, phone FROM rooms WHERE "+where, arg).
		Scan(&room.ID, &room.Number, &room.Description, &room.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, fmt.Errorf("room %v: %w", arg, ErrNotFound)
		}
		return domain.Room{}, fmt.Errorf("failed to find room: %w", err)
	}
	return room, nil
}

// FindByID retrieves a room by its ID
func (r *roomRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Room, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByNumber retrieves a room by its number
func (r *roomRepositoryImpl) FindByNumber(ctx context.Context, number int64) (domain.Room, error) {
	return r.findOne(ctx, "number = ?", number)
}

// FindAll retrieves all rooms ordered by number
func (r *roomRepositoryImpl) FindAll(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, number, description, phone FROM rooms ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Number, &room.Description, &room.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// DeleteByID deletes a room; ports wired to it keep existing without a room
func (r *roomRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "rooms", "room", id)
}

// ExistsByID checks if a room exists
func (r *roomRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, "rooms", id)
}

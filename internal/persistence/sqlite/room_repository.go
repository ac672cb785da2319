package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository.
type RoomRepository struct {
	pool *Pool
}

// NewRoomRepository creates a SQLite room repository.
func NewRoomRepository(pool *Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateRoom inserts a new room.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, location, description, status, room_type_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		room.ID,
		room.Name,
		room.Capacity,
		room.Location,
		room.Description,
		string(room.Status),
		nullableString(room.RoomTypeID),
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	return mapError(err)
}

// UpdateRoom rewrites an existing room.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, capacity = ?, location = ?, description = ?, status = ?, room_type_id = ?, updated_at = ?
		WHERE id = ?
	`,
		room.Name,
		room.Capacity,
		room.Location,
		room.Description,
		string(room.Status),
		nullableString(room.RoomTypeID),
		formatTime(room.UpdatedAt),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

const roomColumns = `
	m.id, m.name, m.capacity, m.location, m.description, m.status,
	m.room_type_id, COALESCE(t.code, ''), m.created_at, m.updated_at
`

func scanRoom(scan func(dest ...any) error) (persistence.Room, error) {
	var (
		room             persistence.Room
		status           string
		roomTypeID       sql.NullString
		created, updated string
	)
	err := scan(
		&room.ID, &room.Name, &room.Capacity, &room.Location, &room.Description, &status,
		&roomTypeID, &room.RoomTypeCode, &created, &updated,
	)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	room.Status = booking.RoomStatus(status)
	if roomTypeID.Valid {
		id := roomTypeID.String
		room.RoomTypeID = &id
	}
	if room.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

// GetRoom retrieves a room by ID with its type code joined in.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms m LEFT JOIN room_types t ON m.room_type_id = t.id
		WHERE m.id = ?
	`, id)
	return scanRoom(row.Scan)
}

// ListRooms returns every room ordered by name.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms m LEFT JOIN room_types t ON m.room_type_id = t.id
		ORDER BY m.name ASC, m.id ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room. The delete is rejected while any reservation
// still references the room, mirroring the room-type guard; cancelled and
// completed reservations count too since they are retained for history.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var referenced int
		if err := tx.QueryRow("SELECT COUNT(*) FROM reservations WHERE room_id = ?", id).Scan(&referenced); err != nil {
			return mapError(err)
		}
		if referenced > 0 {
			return persistence.ErrReferenced
		}

		if _, err := tx.Exec("DELETE FROM equipment WHERE room_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.Exec("DELETE FROM rooms WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// CountRooms returns the total number of rooms.
func (r *RoomRepository) CountRooms(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// CountAvailableRooms counts available rooms with no confirmed reservation
// covering the reference instant.
func (r *RoomRepository) CountAvailableRooms(ctx context.Context, reference time.Time) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rooms m
		WHERE m.status = ? AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.room_id = m.id AND r.status = ?
			  AND r.start_time <= ? AND ? < r.end_time
		)
	`,
		string(booking.RoomAvailable),
		string(booking.ReservationConfirmed),
		formatTime(reference),
		formatTime(reference),
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

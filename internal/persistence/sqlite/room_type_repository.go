package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/roombooking/internal/persistence"
)

// RoomTypeRepository implements persistence.RoomTypeRepository.
type RoomTypeRepository struct {
	pool *Pool
}

// NewRoomTypeRepository creates a SQLite room-type repository.
func NewRoomTypeRepository(pool *Pool) *RoomTypeRepository {
	return &RoomTypeRepository{pool: pool}
}

// CreateRoomType inserts a new room type. Codes are stored uppercase so the
// permission matrix matches regardless of input casing.
func (r *RoomTypeRepository) CreateRoomType(ctx context.Context, roomType persistence.RoomType) error {
	if roomType.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO room_types (id, name, code, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		roomType.ID,
		roomType.Name,
		strings.ToUpper(roomType.Code),
		roomType.Description,
		formatTime(roomType.CreatedAt),
		formatTime(roomType.UpdatedAt),
	)
	return mapError(err)
}

// UpdateRoomType rewrites an existing room type.
func (r *RoomTypeRepository) UpdateRoomType(ctx context.Context, roomType persistence.RoomType) error {
	if roomType.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE room_types
		SET name = ?, code = ?, description = ?, updated_at = ?
		WHERE id = ?
	`,
		roomType.Name,
		strings.ToUpper(roomType.Code),
		roomType.Description,
		formatTime(roomType.UpdatedAt),
		roomType.ID,
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

func scanRoomType(scan func(dest ...any) error) (persistence.RoomType, error) {
	var (
		roomType         persistence.RoomType
		created, updated string
	)
	err := scan(&roomType.ID, &roomType.Name, &roomType.Code, &roomType.Description, &created, &updated)
	if err != nil {
		return persistence.RoomType{}, mapError(err)
	}
	if roomType.CreatedAt, err = parseTime(created); err != nil {
		return persistence.RoomType{}, err
	}
	if roomType.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.RoomType{}, err
	}
	return roomType, nil
}

// GetRoomType retrieves a room type by ID.
func (r *RoomTypeRepository) GetRoomType(ctx context.Context, id string) (persistence.RoomType, error) {
	if id == "" {
		return persistence.RoomType{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT id, name, code, description, created_at, updated_at FROM room_types WHERE id = ?", id)
	return scanRoomType(row.Scan)
}

// GetRoomTypeByCode retrieves a room type by its unique code.
func (r *RoomTypeRepository) GetRoomTypeByCode(ctx context.Context, code string) (persistence.RoomType, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT id, name, code, description, created_at, updated_at FROM room_types WHERE code = ?",
		strings.ToUpper(code))
	return scanRoomType(row.Scan)
}

// ListRoomTypes returns every room type ordered by code.
func (r *RoomTypeRepository) ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT id, name, code, description, created_at, updated_at FROM room_types ORDER BY code ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var roomTypes []persistence.RoomType
	for rows.Next() {
		roomType, err := scanRoomType(rows.Scan)
		if err != nil {
			return nil, err
		}
		roomTypes = append(roomTypes, roomType)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return roomTypes, nil
}

// DeleteRoomType removes a room type unless a room still references it. The
// guard and the delete run in one transaction so the check cannot go stale.
func (r *RoomTypeRepository) DeleteRoomType(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var referenced int
		if err := tx.QueryRow("SELECT COUNT(*) FROM rooms WHERE room_type_id = ?", id).Scan(&referenced); err != nil {
			return mapError(err)
		}
		if referenced > 0 {
			return persistence.ErrReferenced
		}

		result, err := tx.Exec("DELETE FROM room_types WHERE id = ?", id)
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

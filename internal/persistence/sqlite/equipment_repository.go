package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// EquipmentRepository implements persistence.EquipmentRepository.
type EquipmentRepository struct {
	pool *Pool
}

// NewEquipmentRepository creates a SQLite equipment repository.
func NewEquipmentRepository(pool *Pool) *EquipmentRepository {
	return &EquipmentRepository{pool: pool}
}

// CreateEquipment inserts a new equipment record.
func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment persistence.Equipment) error {
	if equipment.ID == "" || equipment.RoomID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO equipment (id, room_id, name, model, status, purchased_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		equipment.ID,
		equipment.RoomID,
		equipment.Name,
		equipment.Model,
		string(equipment.Status),
		formatNullableTime(equipment.PurchasedOn),
		formatTime(equipment.CreatedAt),
		formatTime(equipment.UpdatedAt),
	)
	return mapError(err)
}

// UpdateEquipment rewrites an existing equipment record.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment persistence.Equipment) error {
	if equipment.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE equipment
		SET room_id = ?, name = ?, model = ?, status = ?, purchased_on = ?, updated_at = ?
		WHERE id = ?
	`,
		equipment.RoomID,
		equipment.Name,
		equipment.Model,
		string(equipment.Status),
		formatNullableTime(equipment.PurchasedOn),
		formatTime(equipment.UpdatedAt),
		equipment.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

const equipmentColumns = "id, room_id, name, model, status, purchased_on, created_at, updated_at"

func scanEquipment(scan func(dest ...any) error) (persistence.Equipment, error) {
	var (
		equipment        persistence.Equipment
		status           string
		purchased        sql.NullString
		created, updated string
	)
	err := scan(&equipment.ID, &equipment.RoomID, &equipment.Name, &equipment.Model, &status, &purchased, &created, &updated)
	if err != nil {
		return persistence.Equipment{}, mapError(err)
	}

	equipment.Status = booking.EquipmentStatus(status)
	if equipment.PurchasedOn, err = parseNullableTime(purchased); err != nil {
		return persistence.Equipment{}, err
	}
	if equipment.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Equipment{}, err
	}
	if equipment.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Equipment{}, err
	}
	return equipment, nil
}

// GetEquipment retrieves an equipment record by ID.
func (r *EquipmentRepository) GetEquipment(ctx context.Context, id string) (persistence.Equipment, error) {
	if id == "" {
		return persistence.Equipment{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, "SELECT "+equipmentColumns+" FROM equipment WHERE id = ?", id)
	return scanEquipment(row.Scan)
}

// ListEquipment returns every equipment record ordered by name.
func (r *EquipmentRepository) ListEquipment(ctx context.Context) ([]persistence.Equipment, error) {
	return r.queryEquipment(ctx, "SELECT "+equipmentColumns+" FROM equipment ORDER BY name ASC, id ASC")
}

// ListEquipmentByRoom returns the equipment associated with one room.
func (r *EquipmentRepository) ListEquipmentByRoom(ctx context.Context, roomID string) ([]persistence.Equipment, error) {
	return r.queryEquipment(ctx,
		"SELECT "+equipmentColumns+" FROM equipment WHERE room_id = ? ORDER BY name ASC, id ASC", roomID)
}

func (r *EquipmentRepository) queryEquipment(ctx context.Context, query string, args ...any) ([]persistence.Equipment, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []persistence.Equipment
	for rows.Next() {
		equipment, err := scanEquipment(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, equipment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// DeleteEquipment removes an equipment record.
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

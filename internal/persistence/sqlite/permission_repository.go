package sqlite

import (
	"context"
	"strings"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// PermissionRepository implements persistence.PermissionRepository.
type PermissionRepository struct {
	pool *Pool
}

// NewPermissionRepository creates a SQLite permission repository.
func NewPermissionRepository(pool *Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// CreatePermission inserts a new mapping row. The (role, room_type_code)
// uniqueness constraint surfaces as ErrDuplicate.
func (r *PermissionRepository) CreatePermission(ctx context.Context, mapping persistence.PermissionMapping) error {
	if mapping.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO permission_mappings (id, role, room_type_code, can_view, can_book, can_manage, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		mapping.ID,
		string(mapping.Role),
		strings.ToUpper(mapping.RoomTypeCode),
		boolToInt(mapping.CanView),
		boolToInt(mapping.CanBook),
		boolToInt(mapping.CanManage),
		mapping.Description,
		formatTime(mapping.CreatedAt),
		formatTime(mapping.UpdatedAt),
	)
	return mapError(err)
}

// UpdatePermission rewrites the grants and description of a mapping. Role and
// room-type code are the identity of the row and stay fixed.
func (r *PermissionRepository) UpdatePermission(ctx context.Context, mapping persistence.PermissionMapping) error {
	if mapping.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE permission_mappings
		SET can_view = ?, can_book = ?, can_manage = ?, description = ?, updated_at = ?
		WHERE id = ?
	`,
		boolToInt(mapping.CanView),
		boolToInt(mapping.CanBook),
		boolToInt(mapping.CanManage),
		mapping.Description,
		formatTime(mapping.UpdatedAt),
		mapping.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

const permissionColumns = "id, role, room_type_code, can_view, can_book, can_manage, description, created_at, updated_at"

func scanPermission(scan func(dest ...any) error) (persistence.PermissionMapping, error) {
	var (
		mapping                     persistence.PermissionMapping
		role                        string
		canView, canBook, canManage int
		created, updated            string
	)
	err := scan(&mapping.ID, &role, &mapping.RoomTypeCode, &canView, &canBook, &canManage, &mapping.Description, &created, &updated)
	if err != nil {
		return persistence.PermissionMapping{}, mapError(err)
	}

	mapping.Role = booking.Role(role)
	mapping.CanView = canView != 0
	mapping.CanBook = canBook != 0
	mapping.CanManage = canManage != 0
	if mapping.CreatedAt, err = parseTime(created); err != nil {
		return persistence.PermissionMapping{}, err
	}
	if mapping.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.PermissionMapping{}, err
	}
	return mapping, nil
}

// GetPermission retrieves a mapping by ID.
func (r *PermissionRepository) GetPermission(ctx context.Context, id string) (persistence.PermissionMapping, error) {
	if id == "" {
		return persistence.PermissionMapping{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, "SELECT "+permissionColumns+" FROM permission_mappings WHERE id = ?", id)
	return scanPermission(row.Scan)
}

// FindPermission matches exactly on role and room-type code. Absence is
// reported with ErrNotFound so the resolver can apply deny-by-default.
func (r *PermissionRepository) FindPermission(ctx context.Context, role booking.Role, roomTypeCode string) (persistence.PermissionMapping, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM permission_mappings WHERE role = ? AND room_type_code = ?",
		string(role), strings.ToUpper(roomTypeCode))
	return scanPermission(row.Scan)
}

// ListPermissions returns every mapping ordered by role then code.
func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]persistence.PermissionMapping, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+permissionColumns+" FROM permission_mappings ORDER BY role ASC, room_type_code ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var mappings []persistence.PermissionMapping
	for rows.Next() {
		mapping, err := scanPermission(rows.Scan)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return mappings, nil
}

// DeletePermission removes a mapping row.
func (r *PermissionRepository) DeletePermission(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM permission_mappings WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// CountPermissions returns the number of mapping rows, used by the idempotent
// default seed.
func (r *PermissionRepository) CountPermissions(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM permission_mappings").Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

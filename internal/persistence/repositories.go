package persistence

import (
	"context"
	"time"

	"github.com/example/roombooking/internal/booking"
)

// UserRepository exposes CRUD operations for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// DeleteUser removes the user together with their reservations and
	// sessions in a single transaction.
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	// DeleteRoom fails with ErrReferenced while any reservation still points
	// at the room.
	DeleteRoom(ctx context.Context, id string) error
	CountRooms(ctx context.Context) (int, error)
	// CountAvailableRooms counts rooms whose operational status is available
	// and that have no confirmed reservation covering the reference instant.
	CountAvailableRooms(ctx context.Context, reference time.Time) (int, error)
}

// RoomTypeRepository exposes CRUD operations for room types.
type RoomTypeRepository interface {
	CreateRoomType(ctx context.Context, roomType RoomType) error
	UpdateRoomType(ctx context.Context, roomType RoomType) error
	GetRoomType(ctx context.Context, id string) (RoomType, error)
	GetRoomTypeByCode(ctx context.Context, code string) (RoomType, error)
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	// DeleteRoomType fails with ErrReferenced while any room still carries
	// the type.
	DeleteRoomType(ctx context.Context, id string) error
}

// EquipmentRepository exposes CRUD operations for room equipment.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment Equipment) error
	UpdateEquipment(ctx context.Context, equipment Equipment) error
	GetEquipment(ctx context.Context, id string) (Equipment, error)
	ListEquipment(ctx context.Context) ([]Equipment, error)
	ListEquipmentByRoom(ctx context.Context, roomID string) ([]Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
}

// PermissionRepository stores the role and room-type permission matrix.
type PermissionRepository interface {
	CreatePermission(ctx context.Context, mapping PermissionMapping) error
	UpdatePermission(ctx context.Context, mapping PermissionMapping) error
	GetPermission(ctx context.Context, id string) (PermissionMapping, error)
	// FindPermission matches exactly on role and room-type code. Absence is
	// reported with ErrNotFound; callers apply deny-by-default.
	FindPermission(ctx context.Context, role booking.Role, roomTypeCode string) (PermissionMapping, error)
	ListPermissions(ctx context.Context) ([]PermissionMapping, error)
	DeletePermission(ctx context.Context, id string) error
	CountPermissions(ctx context.Context) (int, error)
}

// ReservationRepository stores reservations and implements the conflict
// guarantee: the overlap check and the write share one transaction, so no two
// non-cancelled reservations for the same room ever overlap.
type ReservationRepository interface {
	// CreateReservation inserts the reservation unless its interval overlaps
	// an existing non-cancelled reservation for the room, in which case it
	// returns ErrConflict and writes nothing.
	CreateReservation(ctx context.Context, reservation Reservation) error
	// UpdateReservation behaves like CreateReservation but excludes the
	// reservation's own row from the overlap check.
	UpdateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	// ListReservationsByUser orders results by start time descending.
	ListReservationsByUser(ctx context.Context, userID string) ([]Reservation, error)
	ListReservationsByRoom(ctx context.Context, roomID string) ([]Reservation, error)
	// HasConflict runs the overlap test outside a write, for advisory checks.
	HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error)
	UpdateReservationStatus(ctx context.Context, id string, status booking.ReservationStatus, updatedAt time.Time) error
	CountReservationsForDate(ctx context.Context, date time.Time) (int, error)
	// MarkCompleted transitions confirmed reservations whose end has passed
	// and returns the number of rows updated.
	MarkCompleted(ctx context.Context, reference time.Time) (int, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

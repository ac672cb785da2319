package persistence

import (
	"time"

	"github.com/example/roombooking/internal/booking"
)

// User represents an account row. PasswordHash is the argon2id credential and
// is never returned by the HTTP surface.
type User struct {
	ID           string
	Username     string
	Role         booking.Role
	Email        string
	Phone        string
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a meeting room catalog entry. RoomTypeID is nil for rooms
// that have not been assigned a type; RoomTypeCode is denormalized from the
// referenced type for permission checks and display.
type Room struct {
	ID           string
	Name         string
	Capacity     int
	Location     string
	Description  string
	Status       booking.RoomStatus
	RoomTypeID   *string
	RoomTypeCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoomType categorises rooms for the permission matrix.
type RoomType struct {
	ID          string
	Name        string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Equipment is an asset associated with a room for display purposes. Its
// lifecycle is independent of reservations.
type Equipment struct {
	ID          string
	RoomID      string
	Name        string
	Model       string
	Status      booking.EquipmentStatus
	PurchasedOn *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionMapping grants a role capabilities over one room-type code. At
// most one row exists per (Role, RoomTypeCode) pair.
type PermissionMapping struct {
	ID           string
	Role         booking.Role
	RoomTypeCode string
	CanView      bool
	CanBook      bool
	CanManage    bool
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Reservation represents a booking of a room over [Start, End). RoomName is
// denormalized at read time for listings.
type Reservation struct {
	ID          string
	UserID      string
	RoomID      string
	RoomName    string
	Subject     string
	Description string
	Start       time.Time
	End         time.Time
	Status      booking.ReservationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is an issued authentication token persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

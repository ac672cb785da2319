package application

import (
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Role   booking.Role
}

// IsAdmin reports whether the principal holds the system administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

// User is the account view exposed by the services; it never carries the
// stored credential.
type User struct {
	ID        string
	Username  string
	Role      booking.Role
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toUserView(user persistence.User) User {
	return User{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Email:     user.Email,
		Phone:     user.Phone,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserInput captures caller provided account attributes.
type UserInput struct {
	Username string
	Role     booking.Role
	Email    string
	Phone    string
	Active   bool
	// Password is consumed on create only; updates keep the stored hash.
	Password string
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name        string
	Capacity    int
	Location    string
	Description string
	Status      booking.RoomStatus
	RoomTypeID  *string
}

// RoomTypeInput captures caller provided room-type fields.
type RoomTypeInput struct {
	Name        string
	Code        string
	Description string
}

// EquipmentInput captures caller provided equipment fields.
type EquipmentInput struct {
	RoomID      string
	Name        string
	Model       string
	Status      booking.EquipmentStatus
	PurchasedOn *time.Time
}

// ReservationInput captures caller provided reservation fields. UserID and
// RoomID bind on create only; updates leave both untouched.
type ReservationInput struct {
	RoomID      string
	Subject     string
	Description string
	Start       time.Time
	End         time.Time
	// Status is honoured on update only; empty keeps the stored value.
	Status booking.ReservationStatus
}

// PermissionInput captures caller provided permission mapping fields.
type PermissionInput struct {
	Role         booking.Role
	RoomTypeCode string
	CanView      bool
	CanBook      bool
	CanManage    bool
	Description  string
}

/// RoomStatusRow is one row of the live room status listing: the room, its
// derived display status, and the reservation currently occupying it, if any.
type RoomStatusRow struct {
	Room           persistence.Room
	DisplayStatus  booking.DisplayStatus
	CurrentSubject string
	CurrentStart   *time.Time
	CurrentEnd     *time.Time
}

// Session is an issued authentication token.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// AuthenticateResult carries the account and token issued by a successful
// login.
type AuthenticateResult struct {
	User    User
	Session Session
}

// Stats aggregates the dashboard counters.
type Stats struct {
	TotalRooms     int
	AvailableRooms int
	TodaysBookings int
}

package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	roomTypeCounter    uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures the generated user record.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Username:     id,
		Role:         booking.RoleNormalEmployee,
		Email:        fmt.Sprintf("%s@example.com", id),
		Active:       true,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) {
		u.ID = id
		u.Username = id
	}
}

// WithUserRole overrides the generated role.
func WithUserRole(role booking.Role) UserOption {
	return func(u *persistence.User) {
		u.Role = role
	}
}

// WithUserActive sets the active flag.
func WithUserActive(active bool) UserOption {
	return func(u *persistence.User) {
		u.Active = active
	}
}

// WithPasswordHash overrides the stored credential.
func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) {
		u.PasswordHash = hash
	}
}

// RoomOption configures the generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic room record with optional overrides.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  8,
		Status:    booking.RoomAvailable,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// WithRoomStatus overrides the room status.
func WithRoomStatus(status booking.RoomStatus) RoomOption {
	return func(r *persistence.Room) {
		r.Status = status
	}
}

// WithRoomType binds the room to a type.
func WithRoomType(typeID, code string) RoomOption {
	return func(r *persistence.Room) {
		r.RoomTypeID = &typeID
		r.RoomTypeCode = code
	}
}

// RoomTypeOption configures the generated room type record.
type RoomTypeOption func(*persistence.RoomType)

// NewRoomType returns a deterministic room type record with optional overrides.
func NewRoomType(opts ...RoomTypeOption) persistence.RoomType {
	idx := atomic.AddUint64(&roomTypeCounter, 1)
	id := fmt.Sprintf("type-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	roomType := persistence.RoomType{
		ID:        id,
		Name:      fmt.Sprintf("Type %03d", idx),
		Code:      fmt.Sprintf("TYPE%03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&roomType)
	}
	return roomType
}

// WithRoomTypeCode overrides the generated code.
func WithRoomTypeCode(code string) RoomTypeOption {
	return func(t *persistence.RoomType) {
		t.Code = code
	}
}

// ReservationOption configures the generated reservation record.
type ReservationOption func(*persistence.Reservation)

// NewReservation returns a deterministic confirmed reservation one hour long,
// starting at the reference time plus an offset per fixture.
func NewReservation(userID, roomID string, opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	id := fmt.Sprintf("resv-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * 2 * time.Hour)
	reservation := persistence.Reservation{
		ID:        id,
		UserID:    userID,
		RoomID:    roomID,
		Subject:   fmt.Sprintf("Meeting %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    booking.ReservationConfirmed,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}

// WithReservationWindow overrides the booked interval.
func WithReservationWindow(start, end time.Time) ReservationOption {
	return func(r *persistence.Reservation) {
		r.Start = start
		r.End = end
	}
}

// WithReservationStatus overrides the lifecycle status.
func WithReservationStatus(status booking.ReservationStatus) ReservationOption {
	return func(r *persistence.Reservation) {
		r.Status = status
	}
}

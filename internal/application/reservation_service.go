package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// ReservationRepository captures the persistence interactions needed by the
// reservation engine. Create and Update run their overlap check and write in
// one transaction.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation persistence.Reservation) error
	UpdateReservation(ctx context.Context, reservation persistence.Reservation) error
	GetReservation(ctx context.Context, id string) (persistence.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID string) ([]persistence.Reservation, error)
	ListReservationsByRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error)
	HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error)
	UpdateReservationStatus(ctx context.Context, id string, status booking.ReservationStatus, updatedAt time.Time) error
	MarkCompleted(ctx context.Context, reference time.Time) (int, error)
}

// RoomCatalog exposes the room lookups the engine needs.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
}

// BookingGate answers whether a role may book or view rooms of a type.
type BookingGate interface {
	CanBook(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error)
	CanView(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error)
}

// ReservationService guards the no-double-booking invariant and the
// reservation lifecycle.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomCatalog
	gate         BookingGate
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, rooms RoomCatalog, gate BookingGate, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		gate:         gate,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// validateInterval re-checks the UI's preconditions at the service boundary;
// client validation is treated as advisory only.
func validateInterval(input ReservationInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("time", "end must be after start")
	}
}

func (s *ReservationService) ensureBookable(ctx context.Context, principal Principal, room persistence.Room) error {
	// Untyped rooms carry no permission matrix entry and are open to every
	// authenticated role. Admins bypass the matrix, matching the other gates.
	if room.RoomTypeCode == "" || s.gate == nil || principal.IsAdmin() {
		return nil
	}
	allowed, err := s.gate.CanBook(ctx, principal.Role, room.RoomTypeCode)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}

// CreateReservation books a room for the principal. The repository rejects
// the insert with ErrConflict when the interval overlaps an existing
// non-cancelled reservation; nothing is persisted in that case.
func (s *ReservationService) CreateReservation(ctx context.Context, principal Principal, input ReservationInput) (persistence.Reservation, error) {
	vErr := &ValidationError{}
	validateInterval(input, vErr)
	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("room_id", "room is required")
	}
	if vErr.HasErrors() {
		return persistence.Reservation{}, vErr
	}

	room, err := s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		return persistence.Reservation{}, mapRepoError(err)
	}
	if err := s.ensureBookable(ctx, principal, room); err != nil {
		return persistence.Reservation{}, err
	}

	now := s.now()
	reservation := persistence.Reservation{
		ID:          s.idGenerator(),
		UserID:      principal.UserID,
		RoomID:      room.ID,
		RoomName:    room.Name,
		Subject:     strings.TrimSpace(input.Subject),
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Status:      booking.ReservationConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reservations.CreateReservation(ctx, reservation); err != nil {
		return persistence.Reservation{}, mapRepoError(err)
	}

	s.log(ctx, "CreateReservation", "reservation_id", reservation.ID, "room_id", room.ID).
		InfoContext(ctx, "reservation created")
	return reservation, nil
}

// UpdateReservation rewrites the subject, description, and interval of an
// existing reservation. The owning user and room are fixed at creation.
// Resaving an unchanged interval never conflicts with itself.
func (s *ReservationService) UpdateReservation(ctx context.Context, principal Principal, reservationID string, input ReservationInput) (persistence.Reservation, error) {
	existing, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return persistence.Reservation{}, mapRepoError(err)
	}
	if existing.UserID != principal.UserID && !principal.IsAdmin() {
		return persistence.Reservation{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateInterval(input, vErr)
	if input.Status != "" && !input.Status.Valid() {
		vErr.add("status", "status is not recognised")
	}
	if vErr.HasErrors() {
		return persistence.Reservation{}, vErr
	}

	updated := existing
	updated.Subject = strings.TrimSpace(input.Subject)
	updated.Description = input.Description
	updated.Start = input.Start
	updated.End = input.End
	if input.Status != "" {
		updated.Status = input.Status
	}
	updated.UpdatedAt = s.now()

	if err := s.reservations.UpdateReservation(ctx, updated); err != nil {
		return persistence.Reservation{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateReservation", "reservation_id", reservationID).InfoContext(ctx, "reservation updated")
	return updated, nil
}

// CancelReservation sets the status to cancelled. The row is retained for
// history but stops participating in conflict checks, freeing the slot.
func (s *ReservationService) CancelReservation(ctx context.Context, principal Principal, reservationID string) error {
	existing, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return mapRepoError(err)
	}
	if existing.UserID != principal.UserID && !principal.IsAdmin() {
		return ErrUnauthorized
	}

	if err := s.reservations.UpdateReservationStatus(ctx, reservationID, booking.ReservationCancelled, s.now()); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "CancelReservation", "reservation_id", reservationID).InfoContext(ctx, "reservation cancelled")
	return nil
}

// ListReservationsByUser returns a user's reservations, most recent start
// first. Non-admins may only list their own.
func (s *ReservationService) ListReservationsByUser(ctx context.Context, principal Principal, userID string) ([]persistence.Reservation, error) {
	if userID == "" {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	reservations, err := s.reservations.ListReservationsByUser(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return reservations, nil
}

// ListReservationsByRoom returns a room's reservations for occupancy display
// when composing a new booking. Viewing is gated on the room's type.
func (s *ReservationService) ListReservationsByRoom(ctx context.Context, principal Principal, roomID string) ([]persistence.Reservation, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if room.RoomTypeCode != "" && s.gate != nil && !principal.IsAdmin() {
		allowed, err := s.gate.CanView(ctx, principal.Role, room.RoomTypeCode)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrUnauthorized
		}
	}

	reservations, err := s.reservations.ListReservationsByRoom(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return reservations, nil
}

// CheckAvailability runs the advisory overlap test for the UI. The
// authoritative check happens again inside the write transaction.
func (s *ReservationService) CheckAvailability(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	if !start.Before(end) {
		return false, nil
	}
	conflict, err := s.reservations.HasConflict(ctx, roomID, start, end, excludeID)
	if err != nil {
		return false, mapRepoError(err)
	}
	return !conflict, nil
}

// DeriveDisplayStatus resolves the lifecycle state shown for a reservation.
func (s *ReservationService) DeriveDisplayStatus(reservation persistence.Reservation) booking.ReservationStatus {
	return booking.DeriveStatus(reservation.Status, reservation.Start, reservation.End, s.now())
}

// SweepCompleted persists the completed state for confirmed reservations
// whose end time has passed. Run periodically from the background scheduler.
func (s *ReservationService) SweepCompleted(ctx context.Context) (int, error) {
	updated, err := s.reservations.MarkCompleted(ctx, s.now())
	if err != nil {
		return 0, mapRepoError(err)
	}
	if updated > 0 {
		s.log(ctx, "SweepCompleted").InfoContext(ctx, "reservations marked completed", "count", updated)
	}
	return updated, nil
}

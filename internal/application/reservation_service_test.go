package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

type reservationStore struct {
	reservations map[string]persistence.Reservation
}

func newReservationStore() *reservationStore {
	return &reservationStore{reservations: make(map[string]persistence.Reservation)}
}

func (s *reservationStore) conflicts(roomID string, start, end time.Time, excludeID string) bool {
	for _, r := range s.reservations {
		if r.RoomID != roomID || r.Status == booking.ReservationCancelled || r.ID == excludeID {
			continue
		}
		if booking.Overlaps(start, end, r.Start, r.End) {
			return true
		}
	}
	return false
}

func (s *reservationStore) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if s.conflicts(reservation.RoomID, reservation.Start, reservation.End, "") {
		return persistence.ErrConflict
	}
	s.reservations[reservation.ID] = reservation
	return nil
}

func (s *reservationStore) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if _, ok := s.reservations[reservation.ID]; !ok {
		return persistence.ErrNotFound
	}
	if s.conflicts(reservation.RoomID, reservation.Start, reservation.End, reservation.ID) {
		return persistence.ErrConflict
	}
	s.reservations[reservation.ID] = reservation
	return nil
}

func (s *reservationStore) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	reservation, ok := s.reservations[id]
	if !ok {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

func (s *reservationStore) ListReservationsByUser(ctx context.Context, userID string) ([]persistence.Reservation, error) {
	var out []persistence.Reservation
	for _, r := range s.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reservationStore) ListReservationsByRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error) {
	var out []persistence.Reservation
	for _, r := range s.reservations {
		if r.RoomID == roomID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reservationStore) HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	return s.conflicts(roomID, start, end, excludeID), nil
}

func (s *reservationStore) UpdateReservationStatus(ctx context.Context, id string, status booking.ReservationStatus, updatedAt time.Time) error {
	reservation, ok := s.reservations[id]
	if !ok {
		return persistence.ErrNotFound
	}
	reservation.Status = status
	reservation.UpdatedAt = updatedAt
	s.reservations[id] = reservation
	return nil
}

func (s *reservationStore) MarkCompleted(ctx context.Context, reference time.Time) (int, error) {
	updated := 0
	for id, r := range s.reservations {
		if r.Status == booking.ReservationConfirmed && !reference.Before(r.End) {
			r.Status = booking.ReservationCompleted
			s.reservations[id] = r
			updated++
		}
	}
	return updated, nil
}

type roomCatalogStub struct {
	rooms map[string]persistence.Room
}

func (c *roomCatalogStub) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	room, ok := c.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

type gateStub struct {
	book map[string]bool
	view map[string]bool
}

func (g *gateStub) CanBook(ctx context.Context, role booking.Role, code string) (bool, error) {
	return g.book[string(role)+"/"+code], nil
}

func (g *gateStub) CanView(ctx context.Context, role booking.Role, code string) (bool, error) {
	return g.view[string(role)+"/"+code], nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func newTestReservationService(store *reservationStore, rooms *roomCatalogStub, gate *gateStub) *ReservationService {
	counter := 0
	idGen := func() string {
		counter++
		return string(rune('a' + counter - 1))
	}
	return NewReservationService(store, rooms, gate, idGen, fixedNow, nil)
}

func slot(startHour, endHour int) (time.Time, time.Time) {
	day := fixedNow()
	return time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC),
		time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, time.UTC)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Sakura"},
	}}
	svc := newTestReservationService(store, rooms, nil)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	first, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "standup", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.Status != booking.ReservationConfirmed {
		t.Fatalf("expected confirmed status, got %q", first.Status)
	}

	overlapStart, overlapEnd := slot(10, 12)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "review", Start: overlapStart, End: overlapEnd,
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(store.reservations) != 1 {
		t.Fatalf("conflicting booking must not persist, have %d rows", len(store.reservations))
	}
}

func TestCreateReservationAllowsTouchingIntervals(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Sakura"},
	}}
	svc := newTestReservationService(store, rooms, nil)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "standup", Start: start, End: end,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	nextStart, nextEnd := slot(11, 12)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "handoff", Start: nextStart, End: nextEnd,
	}); err != nil {
		t.Fatalf("back-to-back booking must succeed: %v", err)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{}}
	svc := newTestReservationService(store, rooms, nil)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(11, 10)
	_, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "  ", Start: start, End: end,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["subject"]; !ok {
		t.Fatalf("expected subject error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["time"]; !ok {
		t.Fatalf("expected interval error, got %v", vErr.FieldErrors)
	}
}

func TestCreateReservationDeniedWithoutBookGrant(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Boardroom", RoomTypeCode: "VIP"},
	}}
	gate := &gateStub{book: map[string]bool{}, view: map[string]bool{}}
	svc := newTestReservationService(store, rooms, gate)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "offsite", Start: start, End: end,
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateReservationAdminBypassesBookGrant(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Boardroom", RoomTypeCode: "VIP"},
	}}
	// Empty matrix: every Lookup answers all-false.
	gate := &gateStub{book: map[string]bool{}, view: map[string]bool{}}
	svc := newTestReservationService(store, rooms, gate)
	principal := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}

	start, end := slot(10, 11)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "board meeting", Start: start, End: end,
	}); err != nil {
		t.Fatalf("admin booking must bypass the permission matrix: %v", err)
	}
}

func TestCreateReservationUntypedRoomOpenToAll(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Open space"},
	}}
	gate := &gateStub{book: map[string]bool{}, view: map[string]bool{}}
	svc := newTestReservationService(store, rooms, gate)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "all hands", Start: start, End: end,
	}); err != nil {
		t.Fatalf("untyped room booking failed: %v", err)
	}
}

func TestUpdateReservationKeepsOwnSlot(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Sakura"},
	}}
	svc := newTestReservationService(store, rooms, nil)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	created, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "standup", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	updated, err := svc.UpdateReservation(context.Background(), principal, created.ID, ReservationInput{
		RoomID: "room-1", Subject: "standup (moved)", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("resaving the same interval must not conflict: %v", err)
	}
	if updated.Subject != "standup (moved)" {
		t.Fatalf("subject not updated: %q", updated.Subject)
	}
}

func TestUpdateReservationOwnerOnly(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Sakura"},
	}}
	svc := newTestReservationService(store, rooms, nil)
	owner := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	created, err := svc.CreateReservation(context.Background(), owner, ReservationInput{
		RoomID: "room-1", Subject: "standup", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	other := Principal{UserID: "user-2", Role: booking.RoleLeader}
	if _, err := svc.UpdateReservation(context.Background(), other, created.ID, ReservationInput{
		RoomID: "room-1", Subject: "takeover", Start: start, End: end,
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}

	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}
	if _, err := svc.UpdateReservation(context.Background(), admin, created.ID, ReservationInput{
		RoomID: "room-1", Subject: "admin edit", Start: start, End: end,
	}); err != nil {
		t.Fatalf("admin must be able to edit any reservation: %v", err)
	}
}

func TestCancelReservationFreesSlot(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{
		"room-1": {ID: "room-1", Name: "Sakura"},
	}}
	svc := newTestReservationService(store, rooms, nil)
	principal := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	start, end := slot(10, 11)
	created, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "standup", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.CancelReservation(context.Background(), principal, created.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := store.reservations[created.ID].Status; got != booking.ReservationCancelled {
		t.Fatalf("expected cancelled status retained in store, got %q", got)
	}

	if _, err := svc.CreateReservation(context.Background(), principal, ReservationInput{
		RoomID: "room-1", Subject: "replacement", Start: start, End: end,
	}); err != nil {
		t.Fatalf("cancelled slot must be bookable again: %v", err)
	}
}

func TestListReservationsByUserAuthorization(t *testing.T) {
	store := newReservationStore()
	rooms := &roomCatalogStub{rooms: map[string]persistence.Room{}}
	svc := newTestReservationService(store, rooms, nil)

	employee := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}
	if _, err := svc.ListReservationsByUser(context.Background(), employee, "user-2"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized listing another user, got %v", err)
	}
	if _, err := svc.ListReservationsByUser(context.Background(), employee, ""); err != nil {
		t.Fatalf("listing own reservations failed: %v", err)
	}

	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}
	if _, err := svc.ListReservationsByUser(context.Background(), admin, "user-1"); err != nil {
		t.Fatalf("admin listing failed: %v", err)
	}
}

func TestSweepCompleted(t *testing.T) {
	store := newReservationStore()
	svc := newTestReservationService(store, &roomCatalogStub{}, nil)

	past := fixedNow().Add(-3 * time.Hour)
	store.reservations["resv-1"] = persistence.Reservation{
		ID: "resv-1", RoomID: "room-1", UserID: "user-1",
		Start: past, End: past.Add(time.Hour), Status: booking.ReservationConfirmed,
	}
	store.reservations["resv-2"] = persistence.Reservation{
		ID: "resv-2", RoomID: "room-1", UserID: "user-1",
		Start: fixedNow().Add(time.Hour), End: fixedNow().Add(2 * time.Hour), Status: booking.ReservationConfirmed,
	}

	updated, err := svc.SweepCompleted(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 reservation swept, got %d", updated)
	}
	if got := store.reservations["resv-1"].Status; got != booking.ReservationCompleted {
		t.Fatalf("past reservation not completed: %q", got)
	}
	if got := store.reservations["resv-2"].Status; got != booking.ReservationConfirmed {
		t.Fatalf("future reservation must stay confirmed: %q", got)
	}
}

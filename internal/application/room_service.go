package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// RoomRepository captures the persistence interactions needed by the room
// service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomTypeCatalog resolves room-type references on room writes.
type RoomTypeCatalog interface {
	GetRoomType(ctx context.Context, id string) (persistence.RoomType, error)
}

// RoomReservationLister supplies the reservations the status aggregation
// inspects per room.
type RoomReservationLister interface {
	ListReservationsByRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error)
}

// RoomGate answers the permission questions the room service asks.
type RoomGate interface {
	CanManage(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error)
	AccessibleRoomTypeCodes(ctx context.Context, role booking.Role) ([]string, error)
}

// RoomService manages the room catalog and derives the live display status
// for listings.
type RoomService struct {
	rooms        RoomRepository
	roomTypes    RoomTypeCatalog
	reservations RoomReservationLister
	gate         RoomGate
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomRepository, roomTypes RoomTypeCatalog, reservations RoomReservationLister, gate RoomGate, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:        rooms,
		roomTypes:    roomTypes,
		reservations: reservations,
		gate:         gate,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *RoomService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

func validateRoom(input RoomInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if !input.Status.Valid() {
		vErr.add("status", "status is not recognised")
	}
}

// resolveTypeCode validates an optional room-type reference and returns its
// code for the permission check.
func (s *RoomService) resolveTypeCode(ctx context.Context, roomTypeID *string, vErr *ValidationError) string {
	if roomTypeID == nil || s.roomTypes == nil {
		return ""
	}
	roomType, err := s.roomTypes.GetRoomType(ctx, *roomTypeID)
	if err != nil {
		vErr.add("room_type_id", "room type does not exist")
		return ""
	}
	return roomType.Code
}

// ensureManageable gates room administration: system administrators always
// pass, other roles need a manage grant for the room's type. Untyped rooms
// are admin-only.
func (s *RoomService) ensureManageable(ctx context.Context, principal Principal, roomTypeCode string) error {
	if principal.IsAdmin() {
		return nil
	}
	if roomTypeCode == "" || s.gate == nil {
		return ErrUnauthorized
	}
	allowed, err := s.gate.CanManage(ctx, principal.Role, roomTypeCode)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}

// CreateRoom adds a room to the catalog.
func (s *RoomService) CreateRoom(ctx context.Context, principal Principal, input RoomInput) (persistence.Room, error) {
	vErr := &ValidationError{}
	validateRoom(input, vErr)
	typeCode := s.resolveTypeCode(ctx, input.RoomTypeID, vErr)
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	if err := s.ensureManageable(ctx, principal, typeCode); err != nil {
		return persistence.Room{}, err
	}

	now := s.now()
	room := persistence.Room{
		ID:           s.idGenerator(),
		Name:         strings.TrimSpace(input.Name),
		Capacity:     input.Capacity,
		Location:     input.Location,
		Description:  input.Description,
		Status:       input.Status,
		RoomTypeID:   input.RoomTypeID,
		RoomTypeCode: typeCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return persistence.Room{}, mapRepoError(err)
	}

	s.log(ctx, "CreateRoom", "room_id", room.ID).InfoContext(ctx, "room created")
	return room, nil
}

// UpdateRoom rewrites a room's attributes. The caller must hold manage rights
// for both the room's current type and, when it changes, the new type.
func (s *RoomService) UpdateRoom(ctx context.Context, principal Principal, roomID string, input RoomInput) (persistence.Room, error) {
	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	if err := s.ensureManageable(ctx, principal, existing.RoomTypeCode); err != nil {
		return persistence.Room{}, err
	}

	vErr := &ValidationError{}
	validateRoom(input, vErr)
	typeCode := s.resolveTypeCode(ctx, input.RoomTypeID, vErr)
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}
	if typeCode != existing.RoomTypeCode {
		if err := s.ensureManageable(ctx, principal, typeCode); err != nil {
			return persistence.Room{}, err
		}
	}

	updated := existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Capacity = input.Capacity
	updated.Location = input.Location
	updated.Description = input.Description
	updated.Status = input.Status
	updated.RoomTypeID = input.RoomTypeID
	updated.RoomTypeCode = typeCode
	updated.UpdatedAt = s.now()

	if err := s.rooms.UpdateRoom(ctx, updated); err != nil {
		return persistence.Room{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateRoom", "room_id", roomID).InfoContext(ctx, "room updated")
	return updated, nil
}

// DeleteRoom removes a room. Rooms referenced by reservations cannot be
// deleted: the booking history would dangle.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.ensureManageable(ctx, principal, existing.RoomTypeCode); err != nil {
		return err
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, persistence.ErrReferenced) {
			return ErrRoomInUse
		}
		return mapRepoError(err)
	}

	s.log(ctx, "DeleteRoom", "room_id", roomID).InfoContext(ctx, "room deleted")
	return nil
}

// GetRoom retrieves a single room, subject to the caller's view access.
func (s *RoomService) GetRoom(ctx context.Context, principal Principal, roomID string) (persistence.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	visible, err := s.visibleTypeCodes(ctx, principal)
	if err != nil {
		return persistence.Room{}, err
	}
	if !roomVisible(room, visible) {
		return persistence.Room{}, ErrNotFound
	}
	return room, nil
}

// ListRooms returns the rooms the principal may see. Untyped rooms are always
// visible; typed rooms require any grant on their type code.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal) ([]persistence.Room, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	visible, err := s.visibleTypeCodes(ctx, principal)
	if err != nil {
		return nil, err
	}

	filtered := make([]persistence.Room, 0, len(rooms))
	for _, room := range rooms {
		if roomVisible(room, visible) {
			filtered = append(filtered, room)
		}
	}
	return filtered, nil
}

// ListRoomStatuses produces the live status board: every visible room with
// its display status and the booking currently occupying it. The status is
// recomputed on each call since it depends on the current time.
func (s *RoomService) ListRoomStatuses(ctx context.Context, principal Principal) ([]RoomStatusRow, error) {
	rooms, err := s.ListRooms(ctx, principal)
	if err != nil {
		return nil, err
	}

	now := s.now()
	statuses := make([]RoomStatusRow, 0, len(rooms))
	for _, room := range rooms {
		reservations, err := s.reservations.ListReservationsByRoom(ctx, room.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}

		windows := make([]booking.ReservationWindow, 0, len(reservations))
		for _, res := range reservations {
			windows = append(windows, booking.ReservationWindow{
				ReservationID: res.ID,
				Subject:       res.Subject,
				Status:        res.Status,
				Start:         res.Start,
				End:           res.End,
			})
		}

		row := RoomStatusRow{
			Room:          room,
			DisplayStatus: booking.ComputeDisplayStatus(room.Status, windows, now),
		}
		if window, ok := booking.CurrentWindow(windows, now); ok {
			start, end := window.Start, window.End
			row.CurrentSubject = window.Subject
			row.CurrentStart = &start
			row.CurrentEnd = &end
		}
		statuses = append(statuses, row)
	}
	return statuses, nil
}

// visibleTypeCodes returns nil for principals who see everything; other
// roles get their (possibly empty) grant list.
func (s *RoomService) visibleTypeCodes(ctx context.Context, principal Principal) ([]string, error) {
	if principal.IsAdmin() || s.gate == nil {
		return nil, nil
	}
	codes, err := s.gate.AccessibleRoomTypeCodes(ctx, principal.Role)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func roomVisible(room persistence.Room, visibleCodes []string) bool {
	if room.RoomTypeCode == "" || visibleCodes == nil {
		return true
	}
	return slices.Contains(visibleCodes, room.RoomTypeCode)
}

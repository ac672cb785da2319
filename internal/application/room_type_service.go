package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roombooking/internal/persistence"
)

// RoomTypeRepository captures the persistence interactions needed by the
// room-type service.
type RoomTypeRepository interface {
	CreateRoomType(ctx context.Context, roomType persistence.RoomType) error
	UpdateRoomType(ctx context.Context, roomType persistence.RoomType) error
	GetRoomType(ctx context.Context, id string) (persistence.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error)
	DeleteRoomType(ctx context.Context, id string) error
}

// RoomTypeService manages the room categories driving the permission matrix.
type RoomTypeService struct {
	roomTypes   RoomTypeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomTypeService wires dependencies for room-type operations.
func NewRoomTypeService(roomTypes RoomTypeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomTypeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomTypeService{
		roomTypes:   roomTypes,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomTypeService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomTypeService", operation, attrs...)
}

func validateRoomType(input RoomTypeInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Code) == "" {
		vErr.add("code", "code is required")
	}
}

// ListRoomTypes enumerates every category.
func (s *RoomTypeService) ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error) {
	roomTypes, err := s.roomTypes.ListRoomTypes(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return roomTypes, nil
}

// CreateRoomType adds a category.
func (s *RoomTypeService) CreateRoomType(ctx context.Context, principal Principal, input RoomTypeInput) (persistence.RoomType, error) {
	if !principal.IsAdmin() {
		return persistence.RoomType{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateRoomType(input, vErr)
	if vErr.HasErrors() {
		return persistence.RoomType{}, vErr
	}

	now := s.now()
	roomType := persistence.RoomType{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(input.Name),
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roomTypes.CreateRoomType(ctx, roomType); err != nil {
		return persistence.RoomType{}, mapRepoError(err)
	}

	s.log(ctx, "CreateRoomType", "room_type_id", roomType.ID, "code", roomType.Code).
		InfoContext(ctx, "room type created")
	return roomType, nil
}

// UpdateRoomType rewrites a category.
func (s *RoomTypeService) UpdateRoomType(ctx context.Context, principal Principal, roomTypeID string, input RoomTypeInput) (persistence.RoomType, error) {
	if !principal.IsAdmin() {
		return persistence.RoomType{}, ErrUnauthorized
	}

	existing, err := s.roomTypes.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return persistence.RoomType{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateRoomType(input, vErr)
	if vErr.HasErrors() {
		return persistence.RoomType{}, vErr
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	existing.Description = input.Description
	existing.UpdatedAt = s.now()

	if err := s.roomTypes.UpdateRoomType(ctx, existing); err != nil {
		return persistence.RoomType{}, mapRepoError(err)
	}
	return existing, nil
}

// DeleteRoomType removes a category. The delete is rejected while any room
// still carries the type; reassign those rooms first.
func (s *RoomTypeService) DeleteRoomType(ctx context.Context, principal Principal, roomTypeID string) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}

	if err := s.roomTypes.DeleteRoomType(ctx, roomTypeID); err != nil {
		if errors.Is(err, persistence.ErrReferenced) {
			return ErrRoomTypeInUse
		}
		return mapRepoError(err)
	}

	s.log(ctx, "DeleteRoomType", "room_type_id", roomTypeID).InfoContext(ctx, "room type deleted")
	return nil
}

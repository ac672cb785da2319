package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roombooking/internal/persistence"
)

// EquipmentRepository captures the persistence interactions needed by the
// equipment service.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment persistence.Equipment) error
	UpdateEquipment(ctx context.Context, equipment persistence.Equipment) error
	GetEquipment(ctx context.Context, id string) (persistence.Equipment, error)
	ListEquipment(ctx context.Context) ([]persistence.Equipment, error)
	ListEquipmentByRoom(ctx context.Context, roomID string) ([]persistence.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
}

// EquipmentService manages the assets displayed alongside rooms. Equipment
// lifecycle is independent of reservations.
type EquipmentService struct {
	equipment   EquipmentRepository
	rooms       RoomCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEquipmentService wires dependencies for equipment operations.
func NewEquipmentService(equipment EquipmentRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EquipmentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EquipmentService{
		equipment:   equipment,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EquipmentService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EquipmentService", operation, attrs...)
}

func (s *EquipmentService) validate(ctx context.Context, input EquipmentInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if !input.Status.Valid() {
		vErr.add("status", "status is not recognised")
	}
	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("room_id", "room is required")
	} else if s.rooms != nil {
		if _, err := s.rooms.GetRoom(ctx, input.RoomID); err != nil {
			vErr.add("room_id", "room does not exist")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// ListEquipment enumerates equipment, optionally restricted to one room.
func (s *EquipmentService) ListEquipment(ctx context.Context, roomID string) ([]persistence.Equipment, error) {
	var (
		items []persistence.Equipment
		err   error
	)
	if roomID == "" {
		items, err = s.equipment.ListEquipment(ctx)
	} else {
		items, err = s.equipment.ListEquipmentByRoom(ctx, roomID)
	}
	if err != nil {
		return nil, mapRepoError(err)
	}
	return items, nil
}

// CreateEquipment registers an asset in a room.
func (s *EquipmentService) CreateEquipment(ctx context.Context, principal Principal, input EquipmentInput) (persistence.Equipment, error) {
	if !principal.IsAdmin() {
		return persistence.Equipment{}, ErrUnauthorized
	}
	if err := s.validate(ctx, input); err != nil {
		return persistence.Equipment{}, err
	}

	now := s.now()
	equipment := persistence.Equipment{
		ID:          s.idGenerator(),
		RoomID:      input.RoomID,
		Name:        strings.TrimSpace(input.Name),
		Model:       input.Model,
		Status:      input.Status,
		PurchasedOn: input.PurchasedOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.equipment.CreateEquipment(ctx, equipment); err != nil {
		return persistence.Equipment{}, mapRepoError(err)
	}

	s.log(ctx, "CreateEquipment", "equipment_id", equipment.ID, "room_id", equipment.RoomID).
		InfoContext(ctx, "equipment created")
	return equipment, nil
}

// UpdateEquipment rewrites an asset.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, principal Principal, equipmentID string, input EquipmentInput) (persistence.Equipment, error) {
	if !principal.IsAdmin() {
		return persistence.Equipment{}, ErrUnauthorized
	}

	existing, err := s.equipment.GetEquipment(ctx, equipmentID)
	if err != nil {
		return persistence.Equipment{}, mapRepoError(err)
	}
	if err := s.validate(ctx, input); err != nil {
		return persistence.Equipment{}, err
	}

	existing.RoomID = input.RoomID
	existing.Name = strings.TrimSpace(input.Name)
	existing.Model = input.Model
	existing.Status = input.Status
	existing.PurchasedOn = input.PurchasedOn
	existing.UpdatedAt = s.now()

	if err := s.equipment.UpdateEquipment(ctx, existing); err != nil {
		return persistence.Equipment{}, mapRepoError(err)
	}
	return existing, nil
}

// DeleteEquipment removes an asset.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, principal Principal, equipmentID string) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if err := s.equipment.DeleteEquipment(ctx, equipmentID); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteEquipment", "equipment_id", equipmentID).InfoContext(ctx, "equipment deleted")
	return nil
}

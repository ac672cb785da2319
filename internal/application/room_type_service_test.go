package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

type roomTypeStore struct {
	types      map[string]persistence.RoomType
	referenced map[string]bool
}

func newRoomTypeStore() *roomTypeStore {
	return &roomTypeStore{types: make(map[string]persistence.RoomType), referenced: make(map[string]bool)}
}

func (s *roomTypeStore) CreateRoomType(ctx context.Context, roomType persistence.RoomType) error {
	for _, existing := range s.types {
		if existing.Code == roomType.Code {
			return persistence.ErrDuplicate
		}
	}
	s.types[roomType.ID] = roomType
	return nil
}

func (s *roomTypeStore) UpdateRoomType(ctx context.Context, roomType persistence.RoomType) error {
	if _, ok := s.types[roomType.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.types[roomType.ID] = roomType
	return nil
}

func (s *roomTypeStore) GetRoomType(ctx context.Context, id string) (persistence.RoomType, error) {
	roomType, ok := s.types[id]
	if !ok {
		return persistence.RoomType{}, persistence.ErrNotFound
	}
	return roomType, nil
}

func (s *roomTypeStore) ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error) {
	out := make([]persistence.RoomType, 0, len(s.types))
	for _, roomType := range s.types {
		out = append(out, roomType)
	}
	return out, nil
}

func (s *roomTypeStore) DeleteRoomType(ctx context.Context, id string) error {
	if _, ok := s.types[id]; !ok {
		return persistence.ErrNotFound
	}
	if s.referenced[id] {
		return persistence.ErrReferenced
	}
	delete(s.types, id)
	return nil
}

func newTestRoomTypeService(store *roomTypeStore) *RoomTypeService {
	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("type-%d", counter)
	}
	return NewRoomTypeService(store, idGen, fixedNow, nil)
}

func TestCreateRoomTypeUppercasesCode(t *testing.T) {
	svc := newTestRoomTypeService(newRoomTypeStore())

	roomType, err := svc.CreateRoomType(context.Background(), adminPrincipal, RoomTypeInput{
		Name: "Premium", Code: " premium ",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if roomType.Code != "PREMIUM" {
		t.Fatalf("code must be stored uppercase, got %q", roomType.Code)
	}

	if _, err := svc.CreateRoomType(context.Background(), adminPrincipal, RoomTypeInput{
		Name: "Premium copy", Code: "PREMIUM",
	}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate code, got %v", err)
	}
}

func TestRoomTypeAdministrationRequiresAdmin(t *testing.T) {
	svc := newTestRoomTypeService(newRoomTypeStore())
	leader := Principal{UserID: "lead-1", Role: booking.RoleLeader}

	if _, err := svc.CreateRoomType(context.Background(), leader, RoomTypeInput{Name: "X", Code: "X"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for create, got %v", err)
	}
	if err := svc.DeleteRoomType(context.Background(), leader, "type-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for delete, got %v", err)
	}
}

func TestDeleteRoomTypeBlockedWhileReferenced(t *testing.T) {
	store := newRoomTypeStore()
	svc := newTestRoomTypeService(store)

	roomType, err := svc.CreateRoomType(context.Background(), adminPrincipal, RoomTypeInput{
		Name: "Basic", Code: "BASIC",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	store.referenced[roomType.ID] = true
	if err := svc.DeleteRoomType(context.Background(), adminPrincipal, roomType.ID); !errors.Is(err, ErrRoomTypeInUse) {
		t.Fatalf("expected ErrRoomTypeInUse, got %v", err)
	}

	store.referenced[roomType.ID] = false
	if err := svc.DeleteRoomType(context.Background(), adminPrincipal, roomType.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

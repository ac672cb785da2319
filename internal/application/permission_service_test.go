package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

type permissionStore struct {
	mappings map[string]persistence.PermissionMapping
}

func newPermissionStore() *permissionStore {
	return &permissionStore{mappings: make(map[string]persistence.PermissionMapping)}
}

func (s *permissionStore) CreatePermission(ctx context.Context, mapping persistence.PermissionMapping) error {
	for _, existing := range s.mappings {
		if existing.Role == mapping.Role && existing.RoomTypeCode == mapping.RoomTypeCode {
			return persistence.ErrDuplicate
		}
	}
	s.mappings[mapping.ID] = mapping
	return nil
}

func (s *permissionStore) UpdatePermission(ctx context.Context, mapping persistence.PermissionMapping) error {
	if _, ok := s.mappings[mapping.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.mappings[mapping.ID] = mapping
	return nil
}

func (s *permissionStore) GetPermission(ctx context.Context, id string) (persistence.PermissionMapping, error) {
	mapping, ok := s.mappings[id]
	if !ok {
		return persistence.PermissionMapping{}, persistence.ErrNotFound
	}
	return mapping, nil
}

func (s *permissionStore) FindPermission(ctx context.Context, role booking.Role, roomTypeCode string) (persistence.PermissionMapping, error) {
	for _, mapping := range s.mappings {
		if mapping.Role == role && mapping.RoomTypeCode == roomTypeCode {
			return mapping, nil
		}
	}
	return persistence.PermissionMapping{}, persistence.ErrNotFound
}

func (s *permissionStore) ListPermissions(ctx context.Context) ([]persistence.PermissionMapping, error) {
	out := make([]persistence.PermissionMapping, 0, len(s.mappings))
	for _, mapping := range s.mappings {
		out = append(out, mapping)
	}
	return out, nil
}

func (s *permissionStore) DeletePermission(ctx context.Context, id string) error {
	if _, ok := s.mappings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.mappings, id)
	return nil
}

func (s *permissionStore) CountPermissions(ctx context.Context) (int, error) {
	return len(s.mappings), nil
}

func newTestPermissionService(store *permissionStore) *PermissionService {
	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("perm-%d", counter)
	}
	return NewPermissionService(store, idGen, fixedNow, nil)
}

func TestLookupDeniesByDefault(t *testing.T) {
	svc := newTestPermissionService(newPermissionStore())

	mapping, err := svc.Lookup(context.Background(), booking.RoleNormalEmployee, "VIP")
	if err != nil {
		t.Fatalf("absent mapping must not be an error: %v", err)
	}
	if mapping.CanView || mapping.CanBook || mapping.CanManage {
		t.Fatalf("expected all grants false, got %+v", mapping)
	}

	allowed, err := svc.CanBook(context.Background(), booking.RoleNormalEmployee, "VIP")
	if err != nil {
		t.Fatalf("CanBook returned error: %v", err)
	}
	if allowed {
		t.Fatal("expected booking denied for unmapped pair")
	}
}

func TestLookupAllFalseRowEqualsAbsence(t *testing.T) {
	store := newPermissionStore()
	store.mappings["perm-x"] = persistence.PermissionMapping{
		ID: "perm-x", Role: booking.RoleNormalEmployee, RoomTypeCode: "VIP",
	}
	svc := newTestPermissionService(store)

	mapping, err := svc.Lookup(context.Background(), booking.RoleNormalEmployee, "VIP")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if mapping.CanView || mapping.CanBook || mapping.CanManage {
		t.Fatalf("expected all grants false, got %+v", mapping)
	}
}

func TestInitializeDefaultsSeedsMatrixOnce(t *testing.T) {
	store := newPermissionStore()
	svc := newTestPermissionService(store)
	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}

	if err := svc.InitializeDefaults(context.Background(), admin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(store.mappings) != 9 {
		t.Fatalf("expected 9 seed rows, got %d", len(store.mappings))
	}

	// Seeding again must leave the table alone, even after edits.
	mapping, err := svc.Lookup(context.Background(), booking.RoleNormalEmployee, "VIP")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, err := svc.UpdatePermission(context.Background(), admin, mapping.ID, PermissionInput{CanView: true}); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if err := svc.InitializeDefaults(context.Background(), admin); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	edited, err := svc.Lookup(context.Background(), booking.RoleNormalEmployee, "VIP")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !edited.CanView {
		t.Fatal("re-seeding must not overwrite edited rows")
	}
}

func TestInitializeDefaultsMatrixContents(t *testing.T) {
	store := newPermissionStore()
	svc := newTestPermissionService(store)
	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}
	if err := svc.InitializeDefaults(context.Background(), admin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	cases := []struct {
		role              booking.Role
		code              string
		view, book, admin bool
	}{
		{booking.RoleSystemAdmin, "VIP", true, true, true},
		{booking.RoleLeader, "VIP", true, true, false},
		{booking.RoleNormalEmployee, "BASIC", true, true, false},
		{booking.RoleNormalEmployee, "PREMIUM", true, false, false},
		{booking.RoleNormalEmployee, "VIP", false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+tc.code, func(t *testing.T) {
			mapping, err := svc.Lookup(context.Background(), tc.role, tc.code)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if mapping.CanView != tc.view || mapping.CanBook != tc.book || mapping.CanManage != tc.admin {
				t.Fatalf("unexpected grants for %s/%s: %+v", tc.role, tc.code, mapping)
			}
		})
	}
}

func TestAccessibleRoomTypeCodes(t *testing.T) {
	store := newPermissionStore()
	svc := newTestPermissionService(store)
	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}
	if err := svc.InitializeDefaults(context.Background(), admin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	codes, err := svc.AccessibleRoomTypeCodes(context.Background(), booking.RoleNormalEmployee)
	if err != nil {
		t.Fatalf("AccessibleRoomTypeCodes failed: %v", err)
	}
	if want := []string{"BASIC", "PREMIUM"}; !reflect.DeepEqual(codes, want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
}

func TestPermissionAdministrationRequiresAdmin(t *testing.T) {
	svc := newTestPermissionService(newPermissionStore())
	employee := Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

	if _, err := svc.ListPermissions(context.Background(), employee); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for list, got %v", err)
	}
	if _, err := svc.CreatePermission(context.Background(), employee, PermissionInput{
		Role: booking.RoleLeader, RoomTypeCode: "BASIC",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for create, got %v", err)
	}
	if err := svc.InitializeDefaults(context.Background(), employee); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for seed, got %v", err)
	}
}

func TestCreatePermissionRejectsDuplicatePair(t *testing.T) {
	svc := newTestPermissionService(newPermissionStore())
	admin := Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}

	input := PermissionInput{Role: booking.RoleLeader, RoomTypeCode: "basic", CanView: true}
	mapping, err := svc.CreatePermission(context.Background(), admin, input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if mapping.RoomTypeCode != "BASIC" {
		t.Fatalf("code must be stored uppercase, got %q", mapping.RoomTypeCode)
	}

	if _, err := svc.CreatePermission(context.Background(), admin, input); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// PermissionRepository captures the persistence interactions needed by the
// resolver.
type PermissionRepository interface {
	CreatePermission(ctx context.Context, mapping persistence.PermissionMapping) error
	UpdatePermission(ctx context.Context, mapping persistence.PermissionMapping) error
	GetPermission(ctx context.Context, id string) (persistence.PermissionMapping, error)
	FindPermission(ctx context.Context, role booking.Role, roomTypeCode string) (persistence.PermissionMapping, error)
	ListPermissions(ctx context.Context) ([]persistence.PermissionMapping, error)
	DeletePermission(ctx context.Context, id string) error
	CountPermissions(ctx context.Context) (int, error)
}

// PermissionService answers which roles may view, book, or manage rooms of a
// given type, and maintains the mapping table.
type PermissionService struct {
	permissions PermissionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPermissionService wires dependencies for permission operations.
func NewPermissionService(permissions PermissionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PermissionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PermissionService{
		permissions: permissions,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *PermissionService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PermissionService", operation, attrs...)
}

// Lookup resolves the mapping for the (role, roomTypeCode) pair. Absence of a
// row is not an error: a zero-value mapping with all grants false is
// returned, making deny-by-default explicit at this boundary. Callers must
// not distinguish "no row" from "row with all-false flags".
func (s *PermissionService) Lookup(ctx context.Context, role booking.Role, roomTypeCode string) (persistence.PermissionMapping, error) {
	mapping, err := s.permissions.FindPermission(ctx, role, roomTypeCode)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.PermissionMapping{
				Role:         role,
				RoomTypeCode: strings.ToUpper(roomTypeCode),
			}, nil
		}
		return persistence.PermissionMapping{}, err
	}
	return mapping, nil
}

// CanView reports whether the role may see rooms of the given type.
func (s *PermissionService) CanView(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error) {
	mapping, err := s.Lookup(ctx, role, roomTypeCode)
	return mapping.CanView, err
}

// CanBook reports whether the role may reserve rooms of the given type.
func (s *PermissionService) CanBook(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error) {
	mapping, err := s.Lookup(ctx, role, roomTypeCode)
	return mapping.CanBook, err
}

// CanManage reports whether the role may administer rooms of the given type.
func (s *PermissionService) CanManage(ctx context.Context, role booking.Role, roomTypeCode string) (bool, error) {
	mapping, err := s.Lookup(ctx, role, roomTypeCode)
	return mapping.CanManage, err
}

// AccessibleRoomTypeCodes returns the sorted codes the role holds any grant
// for, used to filter room listings.
func (s *PermissionService) AccessibleRoomTypeCodes(ctx context.Context, role booking.Role) ([]string, error) {
	mappings, err := s.permissions.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	var codes []string
	for _, mapping := range mappings {
		if mapping.Role != role {
			continue
		}
		if mapping.CanView || mapping.CanBook || mapping.CanManage {
			codes = append(codes, mapping.RoomTypeCode)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// ListPermissions enumerates the whole matrix for the admin panel.
func (s *PermissionService) ListPermissions(ctx context.Context, principal Principal) ([]persistence.PermissionMapping, error) {
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return s.permissions.ListPermissions(ctx)
}

// CreatePermission adds a mapping row.
func (s *PermissionService) CreatePermission(ctx context.Context, principal Principal, input PermissionInput) (persistence.PermissionMapping, error) {
	if !principal.IsAdmin() {
		return persistence.PermissionMapping{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if !input.Role.Valid() {
		vErr.add("role", "role is not recognised")
	}
	if strings.TrimSpace(input.RoomTypeCode) == "" {
		vErr.add("room_type_code", "room type code is required")
	}
	if vErr.HasErrors() {
		return persistence.PermissionMapping{}, vErr
	}

	now := s.now()
	mapping := persistence.PermissionMapping{
		ID:           s.idGenerator(),
		Role:         input.Role,
		RoomTypeCode: strings.ToUpper(strings.TrimSpace(input.RoomTypeCode)),
		CanView:      input.CanView,
		CanBook:      input.CanBook,
		CanManage:    input.CanManage,
		Description:  input.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.permissions.CreatePermission(ctx, mapping); err != nil {
		return persistence.PermissionMapping{}, mapRepoError(err)
	}

	s.log(ctx, "CreatePermission", "role", string(mapping.Role), "room_type_code", mapping.RoomTypeCode).
		InfoContext(ctx, "permission mapping created")
	return mapping, nil
}

// UpdatePermission rewrites the grants and description of an existing row.
func (s *PermissionService) UpdatePermission(ctx context.Context, principal Principal, id string, input PermissionInput) (persistence.PermissionMapping, error) {
	if !principal.IsAdmin() {
		return persistence.PermissionMapping{}, ErrUnauthorized
	}

	existing, err := s.permissions.GetPermission(ctx, id)
	if err != nil {
		return persistence.PermissionMapping{}, mapRepoError(err)
	}

	existing.CanView = input.CanView
	existing.CanBook = input.CanBook
	existing.CanManage = input.CanManage
	existing.Description = input.Description
	existing.UpdatedAt = s.now()

	if err := s.permissions.UpdatePermission(ctx, existing); err != nil {
		return persistence.PermissionMapping{}, mapRepoError(err)
	}
	return existing, nil
}

// DeletePermission removes a mapping row; the affected role falls back to
// deny-by-default for that room type.
func (s *PermissionService) DeletePermission(ctx context.Context, principal Principal, id string) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	return mapRepoError(s.permissions.DeletePermission(ctx, id))
}

// defaultGrant describes one row of the initial permission matrix.
type defaultGrant struct {
	role                        booking.Role
	code                        string
	canView, canBook, canManage bool
	description                 string
}

var defaultGrants = []defaultGrant{
	{booking.RoleSystemAdmin, "BASIC", true, true, true, "System administrators fully manage basic rooms"},
	{booking.RoleSystemAdmin, "PREMIUM", true, true, true, "System administrators fully manage premium rooms"},
	{booking.RoleSystemAdmin, "VIP", true, true, true, "System administrators fully manage VIP rooms"},
	{booking.RoleLeader, "BASIC", true, true, false, "Leaders view and book basic rooms"},
	{booking.RoleLeader, "PREMIUM", true, true, false, "Leaders view and book premium rooms"},
	{booking.RoleLeader, "VIP", true, true, false, "Leaders view and book VIP rooms"},
	{booking.RoleNormalEmployee, "BASIC", true, true, false, "Employees view and book basic rooms"},
	{booking.RoleNormalEmployee, "PREMIUM", true, false, false, "Employees may only view premium rooms"},
	{booking.RoleNormalEmployee, "VIP", false, false, false, "Employees have no access to VIP rooms"},
}

// InitializeDefaults seeds the nine-row default matrix. The seed is
// idempotent: a non-empty table is left untouched. It runs on administrator
// request, never automatically, and the rows remain freely editable after.
func (s *PermissionService) InitializeDefaults(ctx context.Context, principal Principal) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}

	count, err := s.permissions.CountPermissions(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := s.now()
	for _, grant := range defaultGrants {
		mapping := persistence.PermissionMapping{
			ID:           s.idGenerator(),
			Role:         grant.role,
			RoomTypeCode: grant.code,
			CanView:      grant.canView,
			CanBook:      grant.canBook,
			CanManage:    grant.canManage,
			Description:  grant.description,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.permissions.CreatePermission(ctx, mapping); err != nil {
			return fmt.Errorf("seed permission %s/%s: %w", grant.role, grant.code, mapRepoError(err))
		}
	}

	s.log(ctx, "InitializeDefaults").InfoContext(ctx, "default permission matrix seeded", "rows", len(defaultGrants))
	return nil
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roombooking/internal/application"
	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

type permissionService interface {
	ListPermissions(ctx context.Context, principal application.Principal) ([]persistence.PermissionMapping, error)
	CreatePermission(ctx context.Context, principal application.Principal, input application.PermissionInput) (persistence.PermissionMapping, error)
	UpdatePermission(ctx context.Context, principal application.Principal, id string, input application.PermissionInput) (persistence.PermissionMapping, error)
	DeletePermission(ctx context.Context, principal application.Principal, id string) error
	InitializeDefaults(ctx context.Context, principal application.Principal) error
}

// PermissionHandler serves the role / room-type permission matrix.
type PermissionHandler struct {
	service   permissionService
	responder responder
	logger    *slog.Logger
}

func NewPermissionHandler(service permissionService, logger *slog.Logger) *PermissionHandler {
	base := defaultLogger(logger)
	return &PermissionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PermissionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PermissionHandler", operation, attrs...)
}

func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	permissions, err := h.service.ListPermissions(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "permission list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPermissionsResponse{Permissions: toPermissionDTOs(permissions)})
}

func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req permissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode permission request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "role", req.Role, "room_type_code", req.RoomTypeCode)

	permission, err := h.service.CreatePermission(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "permission creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("permission_id", permission.ID).InfoContext(r.Context(), "permission created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, permissionResponse{Permission: toPermissionDTO(permission)})
}

func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	permissionID, ok := PermissionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(permissionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidPermissionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req permissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "permission_id", permissionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode permission update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "permission_id", permissionID)

	permission, err := h.service.UpdatePermission(r.Context(), principal, permissionID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "permission update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "permission updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, permissionResponse{Permission: toPermissionDTO(permission)})
}

func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	permissionID, ok := PermissionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(permissionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidPermissionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "permission_id", permissionID)

	if err := h.service.DeletePermission(r.Context(), principal, permissionID); err != nil {
		logger.ErrorContext(r.Context(), "permission delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "permission deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// InitializeDefaults seeds the standard permission matrix, preserving any
// mapping that already exists.
func (h *PermissionHandler) InitializeDefaults(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "InitializeDefaults", "principal_id", principal.UserID)

	if err := h.service.InitializeDefaults(r.Context(), principal); err != nil {
		logger.ErrorContext(r.Context(), "permission defaults seeding failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	permissions, err := h.service.ListPermissions(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "permission list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "permission defaults initialized")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPermissionsResponse{Permissions: toPermissionDTOs(permissions)})
}

type permissionRequest struct {
	Role         string `json:"role"`
	RoomTypeCode string `json:"room_type_code"`
	CanView      bool   `json:"can_view"`
	CanBook      bool   `json:"can_book"`
	CanManage    bool   `json:"can_manage"`
	Description  string `json:"description"`
}

func (r permissionRequest) toInput() application.PermissionInput {
	role, _ := booking.ParseRole(r.Role)
	return application.PermissionInput{
		Role:         role,
		RoomTypeCode: strings.TrimSpace(r.RoomTypeCode),
		CanView:      r.CanView,
		CanBook:      r.CanBook,
		CanManage:    r.CanManage,
		Description:  r.Description,
	}
}

type permissionResponse struct {
	Permission permissionDTO `json:"permission"`
}

type listPermissionsResponse struct {
	Permissions []permissionDTO `json:"permissions"`
}

type permissionDTO struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	RoomTypeCode string `json:"room_type_code"`
	CanView      bool   `json:"can_view"`
	CanBook      bool   `json:"can_book"`
	CanManage    bool   `json:"can_manage"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toPermissionDTO(permission persistence.PermissionMapping) permissionDTO {
	return permissionDTO{
		ID:           permission.ID,
		Role:         string(permission.Role),
		RoomTypeCode: permission.RoomTypeCode,
		CanView:      permission.CanView,
		CanBook:      permission.CanBook,
		CanManage:    permission.CanManage,
		Description:  permission.Description,
		CreatedAt:    permission.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    permission.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toPermissionDTOs(permissions []persistence.PermissionMapping) []permissionDTO {
	if len(permissions) == 0 {
		return nil
	}
	out := make([]permissionDTO, 0, len(permissions))
	for _, permission := range permissions {
		out = append(out, toPermissionDTO(permission))
	}
	return out
}

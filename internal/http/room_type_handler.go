package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roombooking/internal/application"
	"github.com/example/roombooking/internal/persistence"
)

type roomTypeService interface {
	ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error)
	CreateRoomType(ctx context.Context, principal application.Principal, input application.RoomTypeInput) (persistence.RoomType, error)
	UpdateRoomType(ctx context.Context, principal application.Principal, roomTypeID string, input application.RoomTypeInput) (persistence.RoomType, error)
	DeleteRoomType(ctx context.Context, principal application.Principal, roomTypeID string) error
}

// RoomTypeHandler serves room category management.
type RoomTypeHandler struct {
	service   roomTypeService
	responder responder
	logger    *slog.Logger
}

func NewRoomTypeHandler(service roomTypeService, logger *slog.Logger) *RoomTypeHandler {
	base := defaultLogger(logger)
	return &RoomTypeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomTypeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomTypeHandler", operation, attrs...)
}

func (h *RoomTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	roomTypes, err := h.service.ListRoomTypes(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room type list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomTypesResponse{RoomTypes: toRoomTypeDTOs(roomTypes)})
}

func (h *RoomTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room type request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	roomType, err := h.service.CreateRoomType(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room type creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_type_id", roomType.ID).InfoContext(r.Context(), "room type created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomTypeResponse{RoomType: toRoomTypeDTO(roomType)})
}

func (h *RoomTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomTypeID, ok := RoomTypeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomTypeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomTypeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_type_id", roomTypeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room type update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_type_id", roomTypeID)

	roomType, err := h.service.UpdateRoomType(r.Context(), principal, roomTypeID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room type update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room type updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomTypeResponse{RoomType: toRoomTypeDTO(roomType)})
}

func (h *RoomTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomTypeID, ok := RoomTypeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomTypeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomTypeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "room_type_id", roomTypeID)

	if err := h.service.DeleteRoomType(r.Context(), principal, roomTypeID); err != nil {
		logger.ErrorContext(r.Context(), "room type delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room type deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type roomTypeRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (r roomTypeRequest) toInput() application.RoomTypeInput {
	return application.RoomTypeInput{
		Name:        strings.TrimSpace(r.Name),
		Code:        strings.TrimSpace(r.Code),
		Description: r.Description,
	}
}

type roomTypeResponse struct {
	RoomType roomTypeDTO `json:"room_type"`
}

type listRoomTypesResponse struct {
	RoomTypes []roomTypeDTO `json:"room_types"`
}

type roomTypeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toRoomTypeDTO(roomType persistence.RoomType) roomTypeDTO {
	return roomTypeDTO{
		ID:          roomType.ID,
		Name:        roomType.Name,
		Code:        roomType.Code,
		Description: roomType.Description,
		CreatedAt:   roomType.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   roomType.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomTypeDTOs(roomTypes []persistence.RoomType) []roomTypeDTO {
	if len(roomTypes) == 0 {
		return nil
	}
	out := make([]roomTypeDTO, 0, len(roomTypes))
	for _, roomType := range roomTypes {
		out = append(out, toRoomTypeDTO(roomType))
	}
	return out
}

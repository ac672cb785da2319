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

type equipmentService interface {
	ListEquipment(ctx context.Context, roomID string) ([]persistence.Equipment, error)
	CreateEquipment(ctx context.Context, principal application.Principal, input application.EquipmentInput) (persistence.Equipment, error)
	UpdateEquipment(ctx context.Context, principal application.Principal, equipmentID string, input application.EquipmentInput) (persistence.Equipment, error)
	DeleteEquipment(ctx context.Context, principal application.Principal, equipmentID string) error
}

// EquipmentHandler serves the equipment inventory endpoints.
type EquipmentHandler struct {
	service   equipmentService
	responder responder
	logger    *slog.Logger
}

func NewEquipmentHandler(service equipmentService, logger *slog.Logger) *EquipmentHandler {
	base := defaultLogger(logger)
	return &EquipmentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EquipmentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EquipmentHandler", operation, attrs...)
}

// List returns every equipment item, optionally filtered by ?room_id=.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := strings.TrimSpace(r.URL.Query().Get("room_id"))
	logger := h.log(r.Context(), "List", "room_id", roomID)

	equipment, err := h.service.ListEquipment(r.Context(), roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "equipment list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEquipmentResponse{Equipment: toEquipmentDTOs(equipment)})
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode equipment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	equipment, err := h.service.CreateEquipment(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "equipment creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("equipment_id", equipment.ID).InfoContext(r.Context(), "equipment created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, equipmentResponse{Equipment: toEquipmentDTO(equipment)})
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	equipmentID, ok := EquipmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(equipmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEquipmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "equipment_id", equipmentID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode equipment update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "equipment_id", equipmentID)

	equipment, err := h.service.UpdateEquipment(r.Context(), principal, equipmentID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "equipment update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "equipment updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, equipmentResponse{Equipment: toEquipmentDTO(equipment)})
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	equipmentID, ok := EquipmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(equipmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEquipmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "equipment_id", equipmentID)

	if err := h.service.DeleteEquipment(r.Context(), principal, equipmentID); err != nil {
		logger.ErrorContext(r.Context(), "equipment delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "equipment deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type equipmentRequest struct {
	RoomID      string     `json:"room_id"`
	Name        string     `json:"name"`
	Model       string     `json:"model"`
	Status      string     `json:"status"`
	PurchasedOn *time.Time `json:"purchased_on"`
}

func (r equipmentRequest) toInput() application.EquipmentInput {
	status := booking.EquipmentStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	return application.EquipmentInput{
		RoomID:      strings.TrimSpace(r.RoomID),
		Name:        strings.TrimSpace(r.Name),
		Model:       strings.TrimSpace(r.Model),
		Status:      status,
		PurchasedOn: r.PurchasedOn,
	}
}

type equipmentResponse struct {
	Equipment equipmentDTO `json:"equipment"`
}

type listEquipmentResponse struct {
	Equipment []equipmentDTO `json:"equipment"`
}

type equipmentDTO struct {
	ID          string `json:"id"`
	RoomID      string `json:"room_id"`
	Name        string `json:"name"`
	Model       string `json:"model,omitempty"`
	Status      string `json:"status"`
	PurchasedOn string `json:"purchased_on,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toEquipmentDTO(equipment persistence.Equipment) equipmentDTO {
	dto := equipmentDTO{
		ID:        equipment.ID,
		RoomID:    equipment.RoomID,
		Name:      equipment.Name,
		Model:     equipment.Model,
		Status:    string(equipment.Status),
		CreatedAt: equipment.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: equipment.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if equipment.PurchasedOn != nil {
		dto.PurchasedOn = equipment.PurchasedOn.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toEquipmentDTOs(equipment []persistence.Equipment) []equipmentDTO {
	if len(equipment) == 0 {
		return nil
	}
	out := make([]equipmentDTO, 0, len(equipment))
	for _, item := range equipment {
		out = append(out, toEquipmentDTO(item))
	}
	return out
}

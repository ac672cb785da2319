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

type roomService interface {
	ListRooms(ctx context.Context, principal application.Principal) ([]persistence.Room, error)
	GetRoom(ctx context.Context, principal application.Principal, roomID string) (persistence.Room, error)
	CreateRoom(ctx context.Context, principal application.Principal, input application.RoomInput) (persistence.Room, error)
	UpdateRoom(ctx context.Context, principal application.Principal, roomID string, input application.RoomInput) (persistence.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error
	ListRoomStatuses(ctx context.Context, principal application.Principal) ([]application.RoomStatusRow, error)
}

type roomReservationLister interface {
	ListReservationsByRoom(ctx context.Context, principal application.Principal, roomID string) ([]persistence.Reservation, error)
}

// RoomHandler serves the room catalog and the live status board.
type RoomHandler struct {
	service      roomService
	reservations roomReservationLister
	responder    responder
	logger       *slog.Logger
}

func NewRoomHandler(service roomService, reservations roomReservationLister, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, reservations: reservations, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	rooms, err := h.service.ListRooms(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "room_id", roomID)

	room, err := h.service.GetRoom(r.Context(), principal, roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	room, err := h.service.CreateRoom(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID)

	room, err := h.service.UpdateRoom(r.Context(), principal, roomID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "room_id", roomID)

	if err := h.service.DeleteRoom(r.Context(), principal, roomID); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ListStatuses serves the live status board: each visible room with its
// derived display status and current occupant.
func (h *RoomHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ListStatuses", "principal_id", principal.UserID)

	rows, err := h.service.ListRoomStatuses(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "room status list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "room statuses listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomStatusesResponse{Statuses: toRoomStatusDTOs(rows)})
}

// ListReservations serves the bookings of one room for occupancy display.
func (h *RoomHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.reservations == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ListReservations", "principal_id", principal.UserID, "room_id", roomID)

	reservations, err := h.reservations.ListReservationsByRoom(r.Context(), principal, roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room reservation list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(reservations)).InfoContext(r.Context(), "room reservations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{Reservations: toReservationDTOs(reservations)})
}

type roomRequest struct {
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	RoomTypeID  *string `json:"room_type_id"`
}

func (r roomRequest) toInput() application.RoomInput {
	status := booking.RoomStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if r.Status == "" {
		status = booking.RoomAvailable
	}
	return application.RoomInput{
		Name:        strings.TrimSpace(r.Name),
		Capacity:    r.Capacity,
		Location:    strings.TrimSpace(r.Location),
		Description: r.Description,
		Status:      status,
		RoomTypeID:  r.RoomTypeID,
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	Location     string  `json:"location,omitempty"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	RoomTypeID   *string `json:"room_type_id,omitempty"`
	RoomTypeCode string  `json:"room_type_code,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:           room.ID,
		Name:         room.Name,
		Capacity:     room.Capacity,
		Location:     room.Location,
		Description:  room.Description,
		Status:       string(room.Status),
		RoomTypeID:   room.RoomTypeID,
		RoomTypeCode: room.RoomTypeCode,
		CreatedAt:    room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomDTOs(rooms []persistence.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

type listRoomStatusesResponse struct {
	Statuses []roomStatusDTO `json:"statuses"`
}

type roomStatusDTO struct {
	Room           roomDTO `json:"room"`
	DisplayStatus  string  `json:"display_status"`
	CurrentSubject string  `json:"current_subject,omitempty"`
	CurrentStart   *string `json:"current_start,omitempty"`
	CurrentEnd     *string `json:"current_end,omitempty"`
}

func toRoomStatusDTOs(rows []application.RoomStatusRow) []roomStatusDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]roomStatusDTO, 0, len(rows))
	for _, row := range rows {
		dto := roomStatusDTO{
			Room:           toRoomDTO(row.Room),
			DisplayStatus:  string(row.DisplayStatus),
			CurrentSubject: row.CurrentSubject,
		}
		if row.CurrentStart != nil {
			formatted := row.CurrentStart.UTC().Format(time.RFC3339Nano)
			dto.CurrentStart = &formatted
		}
		if row.CurrentEnd != nil {
			formatted := row.CurrentEnd.UTC().Format(time.RFC3339Nano)
			dto.CurrentEnd = &formatted
		}
		out = append(out, dto)
	}
	return out
}

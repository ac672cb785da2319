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

type reservationService interface {
	CreateReservation(ctx context.Context, principal application.Principal, input application.ReservationInput) (persistence.Reservation, error)
	UpdateReservation(ctx context.Context, principal application.Principal, reservationID string, input application.ReservationInput) (persistence.Reservation, error)
	CancelReservation(ctx context.Context, principal application.Principal, reservationID string) error
	ListReservationsByUser(ctx context.Context, principal application.Principal, userID string) ([]persistence.Reservation, error)
	DeriveDisplayStatus(reservation persistence.Reservation) booking.ReservationStatus
}

// ReservationHandler serves booking creation and lifecycle operations.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	reservations, err := h.service.ListReservationsByUser(r.Context(), principal, userID)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dto := toReservationDTO(reservation)
		dto.DisplayStatus = string(h.service.DeriveDisplayStatus(reservation))
		dtos = append(dtos, dto)
	}

	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "reservations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{Reservations: dtos})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	reservation, err := h.service.CreateReservation(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reservationID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing reservation id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "reservation_id", reservationID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "reservation_id", reservationID)

	reservation, err := h.service.UpdateReservation(r.Context(), principal, reservationID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reservationID) == "" {
		h.log(r.Context(), "Cancel", "error_kind", "bad_request").ErrorContext(r.Context(), "missing reservation id for cancel")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.UserID, "reservation_id", reservationID)

	if err := h.service.CancelReservation(r.Context(), principal, reservationID); err != nil {
		logger.ErrorContext(r.Context(), "reservation cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationRequest struct {
	RoomID      string    `json:"room_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
}

func (r reservationRequest) toInput() application.ReservationInput {
	return application.ReservationInput{
		RoomID:      strings.TrimSpace(r.RoomID),
		Subject:     strings.TrimSpace(r.Subject),
		Description: r.Description,
		Start:       r.Start,
		End:         r.End,
		Status:      booking.ReservationStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type reservationDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	RoomID        string `json:"room_id"`
	RoomName      string `json:"room_name,omitempty"`
	Subject       string `json:"subject"`
	Description   string `json:"description,omitempty"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toReservationDTO(reservation persistence.Reservation) reservationDTO {
	return reservationDTO{
		ID:          reservation.ID,
		UserID:      reservation.UserID,
		RoomID:      reservation.RoomID,
		RoomName:    reservation.RoomName,
		Subject:     reservation.Subject,
		Description: reservation.Description,
		Start:       reservation.Start.UTC().Format(time.RFC3339Nano),
		End:         reservation.End.UTC().Format(time.RFC3339Nano),
		Status:      string(reservation.Status),
		CreatedAt:   reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   reservation.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toReservationDTOs(reservations []persistence.Reservation) []reservationDTO {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}

package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/roombooking/internal/application"
)

type statsService interface {
	Summary(ctx context.Context, principal application.Principal) (application.Stats, error)
}

// StatsHandler serves the dashboard summary counters.
type StatsHandler struct {
	service   statsService
	responder responder
	logger    *slog.Logger
}

func NewStatsHandler(service statsService, logger *slog.Logger) *StatsHandler {
	base := defaultLogger(logger)
	return &StatsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "StatsHandler", "Summary", "principal_id", principal.UserID)

	stats, err := h.service.Summary(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "stats summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsResponse{
		TotalRooms:     stats.TotalRooms,
		AvailableRooms: stats.AvailableRooms,
		TodaysBookings: stats.TodaysBookings,
	})
}

type statsResponse struct {
	TotalRooms     int `json:"total_rooms"`
	AvailableRooms int `json:"available_rooms"`
	TodaysBookings int `json:"todays_bookings"`
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/roombooking/internal/application"
	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

var testPrincipal = application.Principal{UserID: "user-1", Role: booking.RoleNormalEmployee}

// principalMiddleware stands in for RequireSession so handler tests can pick
// the acting principal directly.
func principalMiddleware(principal application.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

type stubAuthService struct {
	result     application.AuthenticateResult
	authErr    error
	revokedTok string
	revokeErr  error
	changeErr  error
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (application.AuthenticateResult, error) {
	if s.authErr != nil {
		return application.AuthenticateResult{}, s.authErr
	}
	return s.result, nil
}

func (s *stubAuthService) RevokeSession(ctx context.Context, token string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revokedTok = token
	return nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, principal application.Principal, current, next string) error {
	return s.changeErr
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	expires := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	okResult := application.AuthenticateResult{
		User: application.User{ID: "user-1", Username: "alice", Role: booking.RoleNormalEmployee, Active: true},
		Session: application.Session{
			ID:        "sess-1",
			Token:     "token-1",
			ExpiresAt: expires,
		},
	}

	t.Run("login issues session token via cookie and header", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Auth: NewAuthHandler(&stubAuthService{result: okResult}, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"username":"alice","password":"secret"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-Session-Token"); got != "token-1" {
			t.Fatalf("expected session token header, got %q", got)
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "session_token" {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value != "token-1" {
			t.Fatalf("expected session_token cookie, got %+v", cookie)
		}
		if !cookie.HttpOnly {
			t.Fatal("expected session cookie to be http only")
		}

		body := decodeBody(t, rec)
		if body["token"] != "token-1" {
			t.Fatalf("expected token in body, got %v", body["token"])
		}
		user, _ := body["user"].(map[string]any)
		if user["username"] != "alice" {
			t.Fatalf("expected user payload, got %v", body["user"])
		}
	})

	t.Run("login rejects bad credentials with a stable error code", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Auth: NewAuthHandler(&stubAuthService{authErr: application.ErrInvalidCredentials}, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"username":"alice","password":"wrong"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error_code"] != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("expected AUTH_INVALID_CREDENTIALS, got %v", body["error_code"])
		}
	})

	t.Run("logout revokes the session and clears the cookie", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{result: okResult}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		req.Header.Set("Authorization", "Bearer token-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if service.revokedTok != "token-1" {
			t.Fatalf("expected token-1 revoked, got %q", service.revokedTok)
		}

		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == "session_token" && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatal("expected session cookie to be cleared")
		}
	})

	t.Run("password change requires an authenticated principal", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Auth: NewAuthHandler(&stubAuthService{}, nil)})

		req := httptest.NewRequest(http.MethodPut, "/sessions/current/password", strings.NewReader(`{"current_password":"a","new_password":"b"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}

type stubReservationService struct {
	created      persistence.Reservation
	createErr    error
	cancelErr    error
	listed       []persistence.Reservation
	listErr      error
	cancelledIDs []string
}

func (s *stubReservationService) CreateReservation(ctx context.Context, principal application.Principal, input application.ReservationInput) (persistence.Reservation, error) {
	if s.createErr != nil {
		return persistence.Reservation{}, s.createErr
	}
	return s.created, nil
}

func (s *stubReservationService) UpdateReservation(ctx context.Context, principal application.Principal, reservationID string, input application.ReservationInput) (persistence.Reservation, error) {
	if s.createErr != nil {
		return persistence.Reservation{}, s.createErr
	}
	return s.created, nil
}

func (s *stubReservationService) CancelReservation(ctx context.Context, principal application.Principal, reservationID string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelledIDs = append(s.cancelledIDs, reservationID)
	return nil
}

func (s *stubReservationService) ListReservationsByUser(ctx context.Context, principal application.Principal, userID string) ([]persistence.Reservation, error) {
	return s.listed, s.listErr
}

func (s *stubReservationService) DeriveDisplayStatus(reservation persistence.Reservation) booking.ReservationStatus {
	return reservation.Status
}

func TestReservationHandlers(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	newRouter := func(service *stubReservationService) http.Handler {
		return NewRouter(RouterConfig{
			Reservations: NewReservationHandler(service, nil),
			Middleware:   []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})
	}

	t.Run("create returns the stored reservation", func(t *testing.T) {
		t.Parallel()

		service := &stubReservationService{created: persistence.Reservation{
			ID: "res-1", UserID: "user-1", RoomID: "room-1",
			Subject: "standup", Start: start, End: end,
			Status: booking.ReservationConfirmed,
		}}
		router := newRouter(service)

		payload := `{"room_id":"room-1","subject":"standup","start":"2025-03-10T10:00:00Z","end":"2025-03-10T11:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		reservation, _ := body["reservation"].(map[string]any)
		if reservation["id"] != "res-1" || reservation["status"] != "confirmed" {
			t.Fatalf("unexpected reservation payload: %v", body)
		}
	})

	t.Run("overlapping slot maps to 409 with conflict code", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&stubReservationService{createErr: application.ErrConflict})

		payload := `{"room_id":"room-1","subject":"standup","start":"2025-03-10T10:00:00Z","end":"2025-03-10T11:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error_code"] != "RESERVATION_CONFLICT" {
			t.Fatalf("expected RESERVATION_CONFLICT, got %v", body["error_code"])
		}
	})

	t.Run("validation failures map to 422 with field errors", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"subject": "subject is required"}}
		router := newRouter(&stubReservationService{createErr: vErr})

		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(`{"room_id":"room-1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		fields, _ := body["errors"].(map[string]any)
		if fields["subject"] != "subject is required" {
			t.Fatalf("expected field error, got %v", body)
		}
	})

	t.Run("cancel routes the path id and returns 204", func(t *testing.T) {
		t.Parallel()

		service := &stubReservationService{}
		router := newRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/reservations/res-9/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if len(service.cancelledIDs) != 1 || service.cancelledIDs[0] != "res-9" {
			t.Fatalf("expected res-9 cancelled, got %v", service.cancelledIDs)
		}
	})

	t.Run("foreign reservations map to 403", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&stubReservationService{cancelErr: application.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodPost, "/reservations/res-9/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error_code"] != "AUTH_FORBIDDEN" {
			t.Fatalf("expected AUTH_FORBIDDEN, got %v", body["error_code"])
		}
	})

	t.Run("list enriches each reservation with a display status", func(t *testing.T) {
		t.Parallel()

		service := &stubReservationService{listed: []persistence.Reservation{{
			ID: "res-1", UserID: "user-1", RoomID: "room-1",
			Subject: "standup", Start: start, End: end,
			Status: booking.ReservationConfirmed,
		}}}
		router := newRouter(service)

		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		items, _ := body["reservations"].([]any)
		if len(items) != 1 {
			t.Fatalf("expected one reservation, got %v", body)
		}
		first, _ := items[0].(map[string]any)
		if first["display_status"] != "confirmed" {
			t.Fatalf("expected display status, got %v", first)
		}
	})

	t.Run("unsupported methods answer 405 with an Allow header", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&stubReservationService{})

		req := httptest.NewRequest(http.MethodDelete, "/reservations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
			t.Fatalf("expected Allow header with POST, got %q", allow)
		}
	})
}

type stubUserService struct {
	users   []application.User
	user    application.User
	listErr error
	getErr  error
}

func (s *stubUserService) ListUsers(ctx context.Context, principal application.Principal) ([]application.User, error) {
	return s.users, s.listErr
}

func (s *stubUserService) GetUser(ctx context.Context, principal application.Principal, userID string) (application.User, error) {
	return s.user, s.getErr
}

func (s *stubUserService) CreateUser(ctx context.Context, principal application.Principal, input application.UserInput) (application.User, error) {
	return s.user, s.getErr
}

func (s *stubUserService) UpdateUser(ctx context.Context, principal application.Principal, userID string, input application.UserInput) (application.User, error) {
	return s.user, s.getErr
}

func (s *stubUserService) DeleteUser(ctx context.Context, principal application.Principal, userID string) error {
	return s.getErr
}

func TestUserHandlers(t *testing.T) {
	t.Parallel()

	t.Run("non-admin listing maps to 403", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Users:      NewUserHandler(&stubUserService{listErr: application.ErrUnauthorized}, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("self lookup returns the account without credentials", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Users: NewUserHandler(&stubUserService{user: application.User{
				ID: "user-1", Username: "alice", Role: booking.RoleNormalEmployee, Active: true,
			}}, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodGet, "/users/user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		user, _ := body["user"].(map[string]any)
		if user["username"] != "alice" {
			t.Fatalf("unexpected user payload: %v", body)
		}
		if _, leaked := user["password_hash"]; leaked {
			t.Fatal("expected credential to stay out of the payload")
		}
	})

	t.Run("duplicate username maps to 409", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Users:      NewUserHandler(&stubUserService{getErr: application.ErrAlreadyExists}, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"alice","role":"NORMAL_EMPLOYEE","password":"pw"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})
}

type stubRoomService struct {
	rooms    []persistence.Room
	room     persistence.Room
	statuses []application.RoomStatusRow
	err      error
}

func (s *stubRoomService) ListRooms(ctx context.Context, principal application.Principal) ([]persistence.Room, error) {
	return s.rooms, s.err
}

func (s *stubRoomService) GetRoom(ctx context.Context, principal application.Principal, roomID string) (persistence.Room, error) {
	return s.room, s.err
}

func (s *stubRoomService) CreateRoom(ctx context.Context, principal application.Principal, input application.RoomInput) (persistence.Room, error) {
	return s.room, s.err
}

func (s *stubRoomService) UpdateRoom(ctx context.Context, principal application.Principal, roomID string, input application.RoomInput) (persistence.Room, error) {
	return s.room, s.err
}

func (s *stubRoomService) DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error {
	return s.err
}

func (s *stubRoomService) ListRoomStatuses(ctx context.Context, principal application.Principal) ([]application.RoomStatusRow, error) {
	return s.statuses, s.err
}

func TestRoomHandlers(t *testing.T) {
	t.Parallel()

	t.Run("hidden rooms answer 404", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(&stubRoomService{err: application.ErrNotFound}, nil, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodGet, "/rooms/room-7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("delete of a reserved room answers 409", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(&stubRoomService{err: application.ErrRoomInUse}, nil, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodDelete, "/rooms/room-7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("status board reports the occupying reservation", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
		end := start.Add(time.Hour)
		router := NewRouter(RouterConfig{
			Rooms: NewRoomHandler(&stubRoomService{statuses: []application.RoomStatusRow{{
				Room:           persistence.Room{ID: "room-1", Name: "Meeting Room A", Status: booking.RoomAvailable},
				DisplayStatus:  booking.DisplayInUse,
				CurrentSubject: "standup",
				CurrentStart:   &start,
				CurrentEnd:     &end,
			}}}, nil, nil),
			Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
		})

		req := httptest.NewRequest(http.MethodGet, "/room-statuses", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		rows, _ := body["statuses"].([]any)
		if len(rows) != 1 {
			t.Fatalf("expected one status row, got %v", body)
		}
		row, _ := rows[0].(map[string]any)
		if row["display_status"] != "in_use" || row["current_subject"] != "standup" {
			t.Fatalf("unexpected status row: %v", row)
		}
	})
}

type stubPermissionService struct {
	permissions []persistence.PermissionMapping
	permission  persistence.PermissionMapping
	err         error
	seeded      bool
}

func (s *stubPermissionService) ListPermissions(ctx context.Context, principal application.Principal) ([]persistence.PermissionMapping, error) {
	return s.permissions, s.err
}

func (s *stubPermissionService) CreatePermission(ctx context.Context, principal application.Principal, input application.PermissionInput) (persistence.PermissionMapping, error) {
	return s.permission, s.err
}

func (s *stubPermissionService) UpdatePermission(ctx context.Context, principal application.Principal, id string, input application.PermissionInput) (persistence.PermissionMapping, error) {
	return s.permission, s.err
}

func (s *stubPermissionService) DeletePermission(ctx context.Context, principal application.Principal, id string) error {
	return s.err
}

func (s *stubPermissionService) InitializeDefaults(ctx context.Context, principal application.Principal) error {
	if s.err != nil {
		return s.err
	}
	s.seeded = true
	return nil
}

func TestPermissionHandlers(t *testing.T) {
	t.Parallel()

	admin := application.Principal{UserID: "admin-1", Role: booking.RoleSystemAdmin}

	t.Run("seeding defaults returns the resulting matrix", func(t *testing.T) {
		t.Parallel()

		service := &stubPermissionService{permissions: []persistence.PermissionMapping{{
			ID: "perm-1", Role: booking.RoleSystemAdmin, RoomTypeCode: "VIP",
			CanView: true, CanBook: true, CanManage: true,
		}}}
		router := NewRouter(RouterConfig{
			Permissions: NewPermissionHandler(service, nil),
			Middleware:  []func(http.Handler) http.Handler{principalMiddleware(admin)},
		})

		req := httptest.NewRequest(http.MethodPost, "/permissions/defaults", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !service.seeded {
			t.Fatal("expected defaults to be seeded")
		}
		body := decodeBody(t, rec)
		rows, _ := body["permissions"].([]any)
		if len(rows) != 1 {
			t.Fatalf("expected seeded matrix in response, got %v", body)
		}
	})

	t.Run("duplicate role and room type pair answers 409", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{
			Permissions: NewPermissionHandler(&stubPermissionService{err: application.ErrAlreadyExists}, nil),
			Middleware:  []func(http.Handler) http.Handler{principalMiddleware(admin)},
		})

		payload := `{"role":"LEADER","room_type_code":"VIP","can_view":true}`
		req := httptest.NewRequest(http.MethodPost, "/permissions", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})
}

type stubStatsService struct {
	stats application.Stats
	err   error
}

func (s *stubStatsService) Summary(ctx context.Context, principal application.Principal) (application.Stats, error) {
	return s.stats, s.err
}

func TestStatsHandler(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Stats:      NewStatsHandler(&stubStatsService{stats: application.Stats{TotalRooms: 5, AvailableRooms: 3, TodaysBookings: 7}}, nil),
		Middleware: []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
	})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_rooms"] != float64(5) || body["available_rooms"] != float64(3) || body["todays_bookings"] != float64(7) {
		t.Fatalf("unexpected stats payload: %v", body)
	}
}

func TestMalformedBodiesAnswer400(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Reservations: NewReservationHandler(&stubReservationService{}, nil),
		Middleware:   []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
	})

	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestUnknownServiceErrorsAnswer500(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Reservations: NewReservationHandler(&stubReservationService{listErr: errors.New("disk on fire")}, nil),
		Middleware:   []func(http.Handler) http.Handler{principalMiddleware(testPrincipal)},
	})

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["message"].(string); strings.Contains(msg, "disk on fire") {
		t.Fatal("expected internal error detail to stay out of the response")
	}
}

package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Rooms        *RoomHandler
	RoomTypes    *RoomTypeHandler
	Equipment    *EquipmentHandler
	Reservations *ReservationHandler
	Permissions  *PermissionHandler
	Stats        *StatsHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
		mux.HandleFunc("/sessions/current/password", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Auth.ChangePassword(w, r)
		})
	}

	if cfg.Users != nil {
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Users.List(w, r)
			case http.MethodPost:
				cfg.Users.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/users/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithUserID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Users.Get(w, r)
			case http.MethodPut:
				cfg.Users.Update(w, r)
			case http.MethodDelete:
				cfg.Users.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/room-statuses", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Rooms.ListStatuses(w, r)
		})
		mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/rooms/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			id, sub, _ := strings.Cut(rest, "/")
			ctx := ContextWithRoomID(r.Context(), id)
			r = r.WithContext(ctx)
			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Rooms.Get(w, r)
				case http.MethodPut:
					cfg.Rooms.Update(w, r)
				case http.MethodDelete:
					cfg.Rooms.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case "reservations":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Rooms.ListReservations(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.RoomTypes != nil {
		mux.HandleFunc("/room-types", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.RoomTypes.List(w, r)
			case http.MethodPost:
				cfg.RoomTypes.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/room-types/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/room-types/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithRoomTypeID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.RoomTypes.Update(w, r)
			case http.MethodDelete:
				cfg.RoomTypes.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Equipment != nil {
		mux.HandleFunc("/equipment", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Equipment.List(w, r)
			case http.MethodPost:
				cfg.Equipment.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/equipment/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/equipment/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEquipmentID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Equipment.Update(w, r)
			case http.MethodDelete:
				cfg.Equipment.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Reservations != nil {
		mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.List(w, r)
			case http.MethodPost:
				cfg.Reservations.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/reservations/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/reservations/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			id, sub, _ := strings.Cut(rest, "/")
			ctx := ContextWithReservationID(r.Context(), id)
			r = r.WithContext(ctx)
			switch sub {
			case "":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Reservations.Update(w, r)
			case "cancel":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Reservations.Cancel(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Permissions != nil {
		mux.HandleFunc("/permissions", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Permissions.List(w, r)
			case http.MethodPost:
				cfg.Permissions.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/permissions/defaults", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Permissions.InitializeDefaults(w, r)
		})
		mux.HandleFunc("/permissions/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/permissions/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithPermissionID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Permissions.Update(w, r)
			case http.MethodDelete:
				cfg.Permissions.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Stats != nil {
		mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Stats.Summary(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/roombooking/internal/application"
	"github.com/example/roombooking/internal/config"
	httptransport "github.com/example/roombooking/internal/http"
	"github.com/example/roombooking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now
	hashPassword := func(password string) (string, error) {
		return application.HashPassword(password, application.DefaultArgon2idParams)
	}

	userRepo := sqlite.NewUserRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	roomTypeRepo := sqlite.NewRoomTypeRepository(pool)
	equipmentRepo := sqlite.NewEquipmentRepository(pool)
	permissionRepo := sqlite.NewPermissionRepository(pool)
	reservationRepo := sqlite.NewReservationRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)

	permissionService := application.NewPermissionService(permissionRepo, idGenerator, now, logger)
	reservationService := application.NewReservationService(reservationRepo, roomRepo, permissionService, idGenerator, now, logger)
	roomService := application.NewRoomService(roomRepo, roomTypeRepo, reservationRepo, permissionService, idGenerator, now, logger)
	roomTypeService := application.NewRoomTypeService(roomTypeRepo, idGenerator, now, logger)
	equipmentService := application.NewEquipmentService(equipmentRepo, roomRepo, idGenerator, now, logger)
	userService := application.NewUserService(userRepo, hashPassword, idGenerator, now, logger)
	authService := application.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, hashPassword, idGenerator, now, logger)
	statsService := application.NewStatsService(statsSource{rooms: roomRepo, reservations: reservationRepo}, now, logger)

	if err := authService.BootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("failed to bootstrap administrator account", "error", err)
		os.Exit(1)
	}
	// The permission matrix is not seeded here: an administrator triggers the
	// default seed explicitly through POST /permissions/defaults.

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if count, err := reservationService.SweepCompleted(sweepCtx); err != nil {
			logger.Error("reservation sweep failed", "error", err)
		} else if count > 0 {
			logger.Info("reservation sweep finished", "completed", count)
		}
		if err := authService.PurgeExpiredSessions(sweepCtx); err != nil {
			logger.Error("session purge failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	roomHandler := httptransport.NewRoomHandler(roomService, reservationService, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Users:        httptransport.NewUserHandler(userService, logger),
		Rooms:        roomHandler,
		RoomTypes:    httptransport.NewRoomTypeHandler(roomTypeService, logger),
		Equipment:    httptransport.NewEquipmentHandler(equipmentService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Permissions:  httptransport.NewPermissionHandler(permissionService, logger),
		Stats:        httptransport.NewStatsHandler(statsService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sessions" && r.Method == http.MethodPost {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// statsSource joins the room and reservation repositories behind the counters
// the stats service reads.
type statsSource struct {
	rooms        *sqlite.RoomRepository
	reservations *sqlite.ReservationRepository
}

func (s statsSource) CountRooms(ctx context.Context) (int, error) {
	return s.rooms.CountRooms(ctx)
}

func (s statsSource) CountAvailableRooms(ctx context.Context, ref time.Time) (int, error) {
	return s.rooms.CountAvailableRooms(ctx, ref)
}

func (s statsSource) CountReservationsForDate(ctx context.Context, date time.Time) (int, error) {
	return s.reservations.CountReservationsForDate(ctx, date)
}

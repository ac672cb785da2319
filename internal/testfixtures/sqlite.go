package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/roombooking/internal/persistence"
	"github.com/example/roombooking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool         *sqlite.Pool
	Users        persistence.UserRepository
	Rooms        persistence.RoomRepository
	RoomTypes    persistence.RoomTypeRepository
	Equipment    persistence.EquipmentRepository
	Permissions  persistence.PermissionRepository
	Reservations persistence.ReservationRepository
	Sessions     persistence.SessionRepository
}

// NewSQLiteHarness constructs a harness over a migrated temporary database.
// Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "roombooking.db")
	pool, err := sqlite.Open("file:" + path + "?_pragma=foreign_keys(1)&_txlock=immediate")
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}
	tb.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate database: %v", err)
	}

	return &SQLiteHarness{
		Pool:         pool,
		Users:        sqlite.NewUserRepository(pool),
		Rooms:        sqlite.NewRoomRepository(pool),
		RoomTypes:    sqlite.NewRoomTypeRepository(pool),
		Equipment:    sqlite.NewEquipmentRepository(pool),
		Permissions:  sqlite.NewPermissionRepository(pool),
		Reservations: sqlite.NewReservationRepository(pool),
		Sessions:     sqlite.NewSessionRepository(pool),
	}
}

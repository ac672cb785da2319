package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaMigrations lists schema steps in execution order. The current version
// is tracked with PRAGMA user_version so reopening an existing database only
// applies the steps it has not seen.
var schemaMigrations = []string{
	`CREATE TABLE IF NOT EXISTS room_types (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		code        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rooms (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		capacity     INTEGER NOT NULL CHECK (capacity > 0),
		location     TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		room_type_id TEXT REFERENCES room_types(id),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		role          TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		active        INTEGER NOT NULL DEFAULT 1,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS equipment (
		id           TEXT PRIMARY KEY,
		room_id      TEXT NOT NULL REFERENCES rooms(id),
		name         TEXT NOT NULL,
		model        TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		purchased_on TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS permission_mappings (
		id             TEXT PRIMARY KEY,
		role           TEXT NOT NULL,
		room_type_code TEXT NOT NULL,
		can_view       INTEGER NOT NULL DEFAULT 0,
		can_book       INTEGER NOT NULL DEFAULT 0,
		can_manage     INTEGER NOT NULL DEFAULT 0,
		description    TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE (role, room_type_code)
	);
	CREATE TABLE IF NOT EXISTS reservations (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		room_id     TEXT NOT NULL REFERENCES rooms(id),
		subject     TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK (start_time < end_time)
	);
	CREATE INDEX IF NOT EXISTS idx_reservations_room_time ON reservations (room_id, start_time, end_time);
	CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id, start_time);
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		revoked_at TEXT
	);`,
}

// Migrate brings the schema up to the current version.
func (p *Pool) Migrate(ctx context.Context) error {
	return p.WithTransaction(ctx, func(tx *sql.Tx) error {
		var version int
		if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		if version > len(schemaMigrations) {
			return fmt.Errorf("database schema version %d is newer than this binary supports", version)
		}

		for i := version; i < len(schemaMigrations); i++ {
			if _, err := tx.Exec(schemaMigrations[i]); err != nil {
				return fmt.Errorf("apply schema migration %d: %w", i+1, err)
			}
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(schemaMigrations))); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}

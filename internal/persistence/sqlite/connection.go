package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/roombooking/internal/persistence"
)

// DefaultDSN opens an on-disk database with foreign keys enforced and write
// transactions started immediately, so a conflict check and its insert hold
// the write lock together.
const DefaultDSN = "file:roombooking.db?_pragma=foreign_keys(1)&_txlock=immediate"

// Pool wraps the shared database handle and transaction helpers used by every
// repository in this package.
type Pool struct {
	db *sql.DB
}

// Open connects to the SQLite database described by dsn.
func Open(dsn string) (*Pool, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc's driver is safe for concurrent use but SQLite allows only one
	// writer; a single connection avoids SQLITE_BUSY between repositories.
	db.SetMaxOpenConns(1)
	return &Pool{db: db}, nil
}

// DB returns the underlying database handle.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Ping verifies the database connection.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the database handle.
func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// TxFunc executes against an open transaction.
type TxFunc func(tx *sql.Tx) error

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (p *Pool) WithTransaction(ctx context.Context, fn TxFunc) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into the persistence sentinels callers
// branch on.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrForeignKeyViolation, err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

// storedTimeLayout is fixed width: fractional seconds are always written with
// nine digits and the zone is always "Z". RFC3339Nano trims trailing zeros,
// which would sort "10:00:00Z" after "10:00:00.5Z" ('.' < 'Z') and break every
// string comparison on start_time and end_time.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamps are stored as fixed-width UTC strings so that lexicographic
// comparison in SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", value, err)
	}
	return t, nil
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

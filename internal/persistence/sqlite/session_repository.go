package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/roombooking/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository.
type SessionRepository struct {
	pool *Pool
}

// NewSessionRepository creates a SQLite session repository.
func NewSessionRepository(pool *Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession persists a freshly issued session token.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	if session.ID == "" || session.Token == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.UserID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatNullableTime(session.RevokedAt),
	)
	return mapError(err)
}

// GetSession retrieves a session by its token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	var (
		session          persistence.Session
		expires, created string
		revoked          sql.NullString
	)
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at, created_at, revoked_at FROM sessions WHERE token = ?", token,
	).Scan(&session.ID, &session.UserID, &session.Token, &expires, &created, &revoked)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	if session.ExpiresAt, err = parseTime(expires); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Session{}, err
	}
	if session.RevokedAt, err = parseNullableTime(revoked); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

// RevokeSession stamps the session as revoked.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL",
		formatTime(revokedAt), token,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// DeleteExpiredSessions clears sessions whose expiry has passed.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", formatTime(reference))
	return mapError(err)
}

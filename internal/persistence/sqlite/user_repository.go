package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// UserRepository implements persistence.UserRepository.
type UserRepository struct {
	pool *Pool
}

// NewUserRepository creates a SQLite user repository.
func NewUserRepository(pool *Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a new account.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.Username == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO users (id, username, role, email, phone, active, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Username,
		string(user.Role),
		user.Email,
		user.Phone,
		boolToInt(user.Active),
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser rewrites the profile fields of an account. The password hash is
// managed separately through UpdatePassword.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE users
		SET username = ?, role = ?, email = ?, phone = ?, active = ?, updated_at = ?
		WHERE id = ?
	`,
		user.Username,
		string(user.Role),
		user.Email,
		user.Phone,
		boolToInt(user.Active),
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// UpdatePassword rewrites only the stored credential.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, formatTime(updatedAt), id,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

const userColumns = "id, username, role, email, phone, active, password_hash, created_at, updated_at"

func scanUser(scan func(dest ...any) error) (persistence.User, error) {
	var (
		user             persistence.User
		role             string
		active           int
		created, updated string
	)
	err := scan(&user.ID, &user.Username, &role, &user.Email, &user.Phone, &active, &user.PasswordHash, &created, &updated)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	user.Role = booking.Role(role)
	user.Active = active != 0
	if user.CreatedAt, err = parseTime(created); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// GetUser retrieves an account by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row.Scan)
}

// GetUserByUsername retrieves an account by its unique username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	row := r.pool.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row.Scan)
}

// ListUsers returns every account ordered by username.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// DeleteUser removes an account with its reservations and sessions in one
// transaction: either all three deletes commit or none do.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM reservations WHERE user_id = ?", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec("DELETE FROM sessions WHERE user_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		return requireAffected(result)
	})
}

// CountUsers returns the total number of accounts.
func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

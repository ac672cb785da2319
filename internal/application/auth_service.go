package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// CredentialStore is the slice of the user repository used during login.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (persistence.User, error)
	GetUser(ctx context.Context, id string) (persistence.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, user persistence.User) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session persistence.Session) error
	GetSession(ctx context.Context, token string) (persistence.Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AuthService authenticates users and manages session tokens.
type AuthService struct {
	users        CredentialStore
	sessions     SessionRepository
	sessionTTL   time.Duration
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewAuthService wires dependencies for authentication.
func NewAuthService(users CredentialStore, sessions SessionRepository, sessionTTL time.Duration, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if hashPassword == nil {
		hashPassword = func(password string) (string, error) {
			return HashPassword(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:        users,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *AuthService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate verifies a username/password pair and issues a session token.
// A wrong password, an unknown username and a deactivated account all produce
// the same ErrInvalidCredentials so callers cannot probe for valid usernames.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (AuthenticateResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, mapRepoError(err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log(ctx, "Authenticate", "username", username).WarnContext(ctx, "password mismatch")
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}
	if !user.Active {
		s.log(ctx, "Authenticate", "username", username).WarnContext(ctx, "inactive account rejected")
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	now := s.now()
	session := persistence.Session{
		ID:        s.idGenerator(),
		UserID:    user.ID,
		Token:     s.idGenerator(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return AuthenticateResult{}, mapRepoError(err)
	}

	s.log(ctx, "Authenticate", "user_id", user.ID).InfoContext(ctx, "session issued")
	return AuthenticateResult{
		User: toUserView(user),
		Session: Session{
			ID:        session.ID,
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		},
	}, nil
}

// ValidateSession resolves a token to the acting principal. Expired and
// revoked tokens, and tokens whose account was deactivated after login, all
// yield ErrUnauthorized.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, mapRepoError(err)
	}
	if session.RevokedAt != nil || !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, mapRepoError(err)
	}
	if !user.Active {
		return Principal{}, ErrUnauthorized
	}

	return Principal{UserID: user.ID, Role: user.Role}, nil
}

// RevokeSession logs out. Revoking an unknown or already-revoked token is not
// an error.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return mapRepoError(err)
	}
	return nil
}

// ChangePassword replaces the caller's credential after re-verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, principal Principal, current, next string) error {
	vErr := &ValidationError{}
	if current == "" {
		vErr.add("current_password", "current password is required")
	}
	if next == "" {
		vErr.add("new_password", "new password is required")
	}
	if vErr.HasErrors() {
		return vErr
	}

	user, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		return mapRepoError(err)
	}
	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return err
	}

	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "ChangePassword", "user_id", user.ID).InfoContext(ctx, "password changed")
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry. Run periodically.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// BootstrapAdmin creates an initial system administrator when the user table
// is empty, so a fresh deployment can be logged into.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return mapRepoError(err)
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	now := s.now()
	admin := persistence.User{
		ID:           s.idGenerator(),
		Username:     username,
		Role:         booking.RoleSystemAdmin,
		Active:       true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "BootstrapAdmin", "username", username).InfoContext(ctx, "initial administrator created")
	return nil
}

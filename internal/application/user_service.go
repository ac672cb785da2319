package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roombooking/internal/persistence"
)

// UserRepository captures the persistence interactions needed by the user
// service.
type UserRepository interface {
	CreateUser(ctx context.Context, user persistence.User) error
	UpdateUser(ctx context.Context, user persistence.User) error
	GetUser(ctx context.Context, id string) (persistence.User, error)
	ListUsers(ctx context.Context) ([]persistence.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService manages accounts. All operations are restricted to system
// administrators; self-service profile changes go through the auth service.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for account administration.
func NewUserService(users UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
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
	return &UserService{
		users:        users,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

func validateUser(input UserInput, requirePassword bool, vErr *ValidationError) {
	if strings.TrimSpace(input.Username) == "" {
		vErr.add("username", "username is required")
	}
	if !input.Role.Valid() {
		vErr.add("role", "role is not recognised")
	}
	if requirePassword && input.Password == "" {
		vErr.add("password", "password is required")
	}
}

// ListUsers enumerates accounts for the admin panel.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	views := make([]User, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	return views, nil
}

// GetUser retrieves one account. Users may read their own record; everything
// else is admin-only.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if userID != principal.UserID && !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return toUserView(user), nil
}

// CreateUser registers an account with a hashed credential.
func (s *UserService) CreateUser(ctx context.Context, principal Principal, input UserInput) (User, error) {
	if !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateUser(input, true, vErr)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		Username:     strings.TrimSpace(input.Username),
		Role:         input.Role,
		Email:        input.Email,
		Phone:        input.Phone,
		Active:       input.Active,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return User{}, mapRepoError(err)
	}

	s.log(ctx, "CreateUser", "user_id", user.ID, "username", user.Username).InfoContext(ctx, "user created")
	return toUserView(user), nil
}

// UpdateUser rewrites profile fields. The stored credential is untouched;
// password changes go through AuthService.ChangePassword.
func (s *UserService) UpdateUser(ctx context.Context, principal Principal, userID string, input UserInput) (User, error) {
	if !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}

	existing, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateUser(input, false, vErr)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	existing.Username = strings.TrimSpace(input.Username)
	existing.Role = input.Role
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.Active = input.Active
	existing.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, existing); err != nil {
		return User{}, mapRepoError(err)
	}
	return toUserView(existing), nil
}

// DeleteUser removes an account together with its reservations. The
// repository performs both deletes in a single transaction, so either the
// account and every one of its reservations disappear or nothing changes.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if userID == principal.UserID {
		vErr := &ValidationError{}
		vErr.add("user_id", "administrators cannot delete their own account")
		return vErr
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "DeleteUser", "user_id", userID).InfoContext(ctx, "user deleted with reservations")
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
	pkgAuth "github.com/polkiloo/membership/internal/pkg/auth"
	"github.com/polkiloo/membership/internal/session"
)

// AuthUseCase handles staff accounts and their sessions.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	gate   *session.Gate
	now    Clock
	logger *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	gate *session.Gate,
	clock Clock,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, gate: gate, now: clock, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *AuthUseCase) openSession(ctx context.Context, usr *model.User) (*model.Session, error) {
	token, expiresAt, err := u.tokens.IssueToken(usr.ID, string(usr.Role))
	if err != nil {
		return nil, err
	}
	s := model.Session{AccessToken: token, ExpiresAt: expiresAt, User: *usr}
	if err := u.gate.Open(ctx, token, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SignIn validates credentials and opens a session.
func (u *AuthUseCase) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, domainErrors.ErrInvalidCredentials
	}

	return u.openSession(ctx, usr)
}

// SignUp registers a staff account and opens a session for it.
func (u *AuthUseCase) SignUp(ctx context.Context, email, password string, fullName *string) (*model.Session, error) {
	usr, err := u.createUser(ctx, email, password, fullName, model.RoleStaff)
	if err != nil {
		return nil, err
	}
	return u.openSession(ctx, usr)
}

func (u *AuthUseCase) createUser(ctx context.Context, email, password string, fullName *string, role model.Role) (*model.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domainErrors.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, domainErrors.ErrValidation)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return u.users.Create(ctx, model.User{
		Email:        email,
		FullName:     trimName(fullName),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    u.now(),
	})
}

func trimName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Authorize resolves a token to its live session.
func (u *AuthUseCase) Authorize(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, domainErrors.ErrUnauthorized
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, domainErrors.ErrUnauthorized
	}

	s, err := u.gate.Read(ctx, token)
	if err != nil {
		return nil, err
	}
	if s == nil || s.User.ID != claims.UserID {
		return nil, domainErrors.ErrUnauthorized
	}

	// Role and existence come from the repository, not the session snapshot.
	usr, err := u.users.GetByID(ctx, s.User.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			if closeErr := u.gate.Close(ctx, token); closeErr != nil {
				u.logger.Warn("close orphaned session", slog.String("error", closeErr.Error()))
			}
			return nil, domainErrors.ErrUnauthorized
		}
		return nil, err
	}
	s.User = *usr
	return s, nil
}

// SignOut discards the session of token.
func (u *AuthUseCase) SignOut(ctx context.Context, token string) error {
	return u.gate.Close(ctx, token)
}

// CurrentUser reloads the session owner and stores the fresh copy.
func (u *AuthUseCase) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	s, err := u.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := u.gate.Replace(ctx, token, *s); err != nil {
		return nil, err
	}
	usr := s.User
	return &usr, nil
}

func requireAdmin(actor model.User) error {
	if !actor.IsAdmin() {
		return domainErrors.ErrForbidden
	}
	return nil
}

// ListUsers returns every account.
func (u *AuthUseCase) ListUsers(ctx context.Context, actor model.User) ([]model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.users.List(ctx)
}

// CreateUser adds an account with an explicit role.
func (u *AuthUseCase) CreateUser(ctx context.Context, actor model.User, email, password string, fullName *string, role model.Role) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.createUser(ctx, email, password, fullName, role)
}

// UpdateUser changes the name and role of an account.
func (u *AuthUseCase) UpdateUser(ctx context.Context, actor model.User, id int64, fullName *string, role model.Role) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, domainErrors.ErrValidation)
	}

	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	usr.FullName = trimName(fullName)
	usr.Role = role
	return u.users.Update(ctx, *usr)
}

// DeleteUser removes an account other than the acting one.
func (u *AuthUseCase) DeleteUser(ctx context.Context, actor model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("cannot delete the signed in account: %w", domainErrors.ErrValidation)
	}
	return u.users.Delete(ctx, id)
}

// EnsureAdmin seeds the bootstrap admin when it does not exist yet.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	usr, err := u.createUser(ctx, email, password, nil, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	u.logger.Info("bootstrap admin created", slog.String("email", usr.Email))
	return nil
}

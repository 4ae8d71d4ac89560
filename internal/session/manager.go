package session

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

// Authenticator performs the remote half of sign-in, sign-out and refresh.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// Manager holds a single client-side session under a fixed key.
type Manager struct {
	gate   *Gate
	auth   Authenticator
	key    string
	logger *slog.Logger
}

// NewManager creates Manager storing its session under key.
func NewManager(gate *Gate, auth Authenticator, key string, logger *slog.Logger) *Manager {
	return &Manager{gate: gate, auth: auth, key: key, logger: logger}
}

// SignIn authenticates remotely and persists the issued session. Failed
// credentials leave any stored state untouched.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	s, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.gate.Open(ctx, m.key, *s); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live session or nil.
func (m *Manager) Current(ctx context.Context) (*model.Session, error) {
	return m.gate.Read(ctx, m.key)
}

// Token returns the access token of the live session.
func (m *Manager) Token(ctx context.Context) (string, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", domainErrors.ErrUnauthorized
	}
	return s.AccessToken, nil
}

// SignOut notifies the remote side and always clears the stored session.
// A remote failure is returned after the local state is gone.
func (m *Manager) SignOut(ctx context.Context) error {
	s, err := m.Current(ctx)
	var remoteErr error
	if err == nil && s != nil {
		if remoteErr = m.auth.SignOut(ctx, s.AccessToken); remoteErr != nil {
			m.logger.Warn("remote sign out failed", slog.String("error", remoteErr.Error()))
		}
	}
	if err := m.gate.Close(ctx, m.key); err != nil {
		return err
	}
	return remoteErr
}

// Refresh re-fetches the signed-in user and stores it in the session.
func (m *Manager) Refresh(ctx context.Context) (*model.User, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domainErrors.ErrUnauthorized
	}
	user, err := m.auth.CurrentUser(ctx, s.AccessToken)
	if err != nil {
		return nil, err
	}
	s.User = *user
	if err := m.gate.Replace(ctx, m.key, *s); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the live session belongs to an admin. It is
// advisory; the server re-checks the role.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	s, err := m.Current(ctx)
	return err == nil && s != nil && s.User.IsAdmin()
}

// Invalidate drops the stored session without a remote call.
func (m *Manager) Invalidate(ctx context.Context) error {
	return m.gate.Close(ctx, m.key)
}

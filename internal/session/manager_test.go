package session

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

type authenticatorStub struct {
	SignInFn      func(ctx context.Context, email, password string) (*model.Session, error)
	SignOutFn     func(ctx context.Context, token string) error
	CurrentUserFn func(ctx context.Context, token string) (*model.User, error)
}

func (a *authenticatorStub) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	return a.SignInFn(ctx, email, password)
}

func (a *authenticatorStub) SignOut(ctx context.Context, token string) error {
	if a.SignOutFn == nil {
		return nil
	}
	return a.SignOutFn(ctx, token)
}

func (a *authenticatorStub) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	return a.CurrentUserFn(ctx, token)
}

func newTestManager(auth Authenticator, clock *fakeClock) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(NewGate(store, clock.Now, discardLogger()), auth, "remote", discardLogger()), store
}

func TestManagerSignInAndCurrent(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	auth := &authenticatorStub{
		SignInFn: func(_ context.Context, email, password string) (*model.Session, error) {
			if password != "right" {
				return nil, domainErrors.ErrInvalidCredentials
			}
			return &model.Session{
				AccessToken: "tok",
				ExpiresAt:   clock.now.Add(24 * time.Hour),
				User:        model.User{ID: 1, Email: email, Role: model.RoleAdmin},
			}, nil
		},
	}
	m, _ := newTestManager(auth, clock)

	if _, err := m.SignIn(ctx, "a@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if s, _ := m.Current(ctx); s != nil {
		t.Fatalf("failed sign in must not create a session, got %+v", s)
	}

	if _, err := m.SignIn(ctx, "a@example.com", "right"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	token, err := m.Token(ctx)
	if err != nil || token != "tok" {
		t.Fatalf("expected token tok, got %q err=%v", token, err)
	}
	if !m.IsAdmin(ctx) {
		t.Fatal("expected admin session")
	}

	clock.now = clock.now.Add(25 * time.Hour)
	if _, err := m.Token(ctx); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after expiry, got %v", err)
	}
	if m.IsAdmin(ctx) {
		t.Fatal("expired session must not be admin")
	}
}

func TestManagerSignOutClearsEvenWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	remoteErr := errors.New("remote down")
	auth := &authenticatorStub{
		SignInFn: func(context.Context, string, string) (*model.Session, error) {
			return &model.Session{AccessToken: "tok", ExpiresAt: clock.now.Add(time.Hour)}, nil
		},
		SignOutFn: func(context.Context, string) error { return remoteErr },
	}
	m, store := newTestManager(auth, clock)

	if _, err := m.SignIn(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if err := m.SignOut(ctx); !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error to surface, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("expected session to be cleared")
	}
}

func TestManagerRefresh(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	name := "Renamed"
	auth := &authenticatorStub{
		SignInFn: func(context.Context, string, string) (*model.Session, error) {
			return &model.Session{AccessToken: "tok", ExpiresAt: clock.now.Add(time.Hour), User: model.User{ID: 1}}, nil
		},
		CurrentUserFn: func(_ context.Context, token string) (*model.User, error) {
			if token != "tok" {
				t.Fatalf("unexpected token %q", token)
			}
			return &model.User{ID: 1, FullName: &name, Role: model.RoleStaff}, nil
		},
	}
	m, _ := newTestManager(auth, clock)

	if _, err := m.Refresh(ctx); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without session, got %v", err)
	}

	_, _ = m.SignIn(ctx, "a@example.com", "pw")
	user, err := m.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if user.FullName == nil || *user.FullName != name {
		t.Fatalf("unexpected refreshed user %+v", user)
	}
	s, _ := m.Current(ctx)
	if s.User.FullName == nil || *s.User.FullName != name {
		t.Fatalf("expected stored session user to be refreshed, got %+v", s.User)
	}
}

package test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
	pkgAuth "github.com/polkiloo/membership/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues "token-<id>-<role>" tokens unless overridden.
type StrategyStub struct {
	IssueFn func(int64, string) (string, time.Time, error)
	ParseFn func(string) (pkgAuth.Claims, error)
	NameVal string
	TTL     time.Duration
	Now     func() time.Time
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID int64, role string) (string, time.Time, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID, role)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ttl := s.TTL
	if ttl == 0 {
		ttl = pkgAuth.DefaultTTL
	}
	return fmt.Sprintf("token-%d-%s", userID, role), now().Add(ttl), nil
}

// ParseToken parses tokens issued by IssueToken.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var (
		id   int64
		role string
	)
	if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
		return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
	}
	return pkgAuth.Claims{UserID: id, Role: role}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// SessionAuthorizerStub resolves tokens for middleware tests.
type SessionAuthorizerStub struct {
	Session     *model.Session
	Err         error
	AuthorizeFn func(context.Context, string) (*model.Session, error)
}

// Authorize returns the configured session.
func (s SessionAuthorizerStub) Authorize(ctx context.Context, token string) (*model.Session, error) {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Session != nil {
		return s.Session, nil
	}
	return &model.Session{AccessToken: token, User: model.User{ID: 1, Role: model.RoleStaff}}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// Gate owns session lifetime on top of a Store. Expiry is checked on every
// read and an expired session is discarded by that read.
type Gate struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewGate creates Gate. A nil clock defaults to time.Now.
func NewGate(store Store, now func() time.Time, logger *slog.Logger) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now, logger: logger}
}

// Open persists a freshly issued session.
func (g *Gate) Open(ctx context.Context, key string, s model.Session) error {
	return g.store.Save(ctx, key, s)
}

// Read returns the live session stored under key, or nil when absent or expired.
func (g *Gate) Read(ctx context.Context, key string) (*model.Session, error) {
	s, err := g.store.Load(ctx, key)
	if err != nil || s == nil {
		return nil, err
	}
	if s.Expired(g.now()) {
		if err := g.store.Delete(ctx, key); err != nil {
			g.logger.Warn("discard expired session", slog.String("error", err.Error()))
		}
		return nil, nil
	}
	return s, nil
}

// Replace overwrites a live session, for example after the user was refreshed.
func (g *Gate) Replace(ctx context.Context, key string, s model.Session) error {
	return g.store.Save(ctx, key, s)
}

// Close removes the session.
func (g *Gate) Close(ctx context.Context, key string) error {
	return g.store.Delete(ctx, key)
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/config"
)

// Module wires the session store and gate.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(newGate),
)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var newRedisClient = func(opts *redis.Options) redis.UniversalClient {
	return redis.NewClient(opts)
}

func newStore(p storeParams) (Store, error) {
	switch p.Config.SessionStore {
	case "", config.SessionStoreMemory:
		return NewMemoryStore(), nil
	case config.SessionStoreRedis:
		client := newRedisClient(&redis.Options{
			Addr:     p.Config.RedisAddr,
			Password: p.Config.RedisPassword,
			DB:       p.Config.RedisDB,
		})
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("ping redis: %w", err)
				}
				p.Logger.Info("session store connected", slog.String("addr", p.Config.RedisAddr))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", p.Config.SessionStore)
	}
}

func newGate(store Store, logger *slog.Logger) *Gate {
	return NewGate(store, time.Now, logger)
}

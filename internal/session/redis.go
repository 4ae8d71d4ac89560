package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/membership/internal/domain/model"
)

const (
	keyPrefix      = "session:"
	fieldToken     = "auth_token"
	fieldExpiresAt = "auth_expires_at"
	fieldUser      = "auth_user"
)

// RedisStore keeps each session as a hash of three fields that expires
// together with the session.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, key string) (*model.Session, error) {
	fields, err := r.client.HGetAll(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, fields[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("decode session expiry: %w", err)
	}
	var user model.User
	if err := json.Unmarshal([]byte(fields[fieldUser]), &user); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}

	return &model.Session{AccessToken: fields[fieldToken], ExpiresAt: expiresAt, User: user}, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, s model.Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	redisKey := keyPrefix + key
	err = r.client.HSet(ctx, redisKey,
		fieldToken, s.AccessToken,
		fieldExpiresAt, s.ExpiresAt.UTC().Format(time.RFC3339Nano),
		fieldUser, string(user),
	).Err()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := r.client.ExpireAt(ctx, redisKey, s.ExpiresAt).Err(); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

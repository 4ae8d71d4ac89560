package auth

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

// DefaultTTL bounds the lifetime of issued tokens.
const DefaultTTL = 24 * time.Hour

// Claims is the identity carried by an access token.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(userID int64, role string) (string, time.Time, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

func (o Options) normalize() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

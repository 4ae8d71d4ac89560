package restapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

// AuthAPI calls the remote authentication endpoints.
type AuthAPI struct {
	transport *transport
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User    model.User `json:"user"`
	Session struct {
		AccessToken string    `json:"access_token"`
		ExpiresAt   time.Time `json:"expires_at"`
	} `json:"session"`
}

// SignIn exchanges credentials for a remote session.
func (a *AuthAPI) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	var resp signInResponse
	err := a.transport.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/signin",
		body:   credentialsPayload{Email: email, Password: password},
	}, &resp)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return &model.Session{
		AccessToken: resp.Session.AccessToken,
		ExpiresAt:   resp.Session.ExpiresAt,
		User:        resp.User,
	}, nil
}

// SignOut ends the remote session.
func (a *AuthAPI) SignOut(ctx context.Context, token string) error {
	return a.transport.do(ctx, request{method: http.MethodPost, path: "/api/auth/signout", token: token}, nil)
}

// CurrentUser fetches the user owning token.
func (a *AuthAPI) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := a.transport.do(ctx, request{method: http.MethodGet, path: "/api/auth/user", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

package dto

import (
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// SignInRequest describes email/password payload.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest registers a staff account.
type SignUpRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name"`
}

// SessionResponse is the public part of a session.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthResponse is returned by sign-in and sign-up.
type AuthResponse struct {
	User    model.User      `json:"user"`
	Session SessionResponse `json:"session"`
}

// NewAuthResponse builds AuthResponse from a session.
func NewAuthResponse(s *model.Session) AuthResponse {
	return AuthResponse{
		User:    s.User,
		Session: SessionResponse{AccessToken: s.AccessToken, ExpiresAt: s.ExpiresAt},
	}
}

// CreateUserRequest is the admin payload for a new account.
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required"`
	Password string     `json:"password" binding:"required"`
	FullName *string    `json:"full_name"`
	Role     model.Role `json:"role"`
}

// UpdateUserRequest changes name and role of an account.
type UpdateUserRequest struct {
	FullName *string    `json:"full_name"`
	Role     model.Role `json:"role" binding:"required"`
}

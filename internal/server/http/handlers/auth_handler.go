package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/membership/internal/server/http/dto"
	"github.com/polkiloo/membership/internal/server/http/middleware"
)

// AuthHandler processes sign-in, sign-up and session endpoints.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	s, err := h.facade.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, s.AccessToken, s.ExpiresAt)
	c.JSON(http.StatusOK, dto.NewAuthResponse(s))
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	s, err := h.facade.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, s.AccessToken, s.ExpiresAt)
	c.JSON(http.StatusCreated, dto.NewAuthResponse(s))
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.facade.SignOut(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

// CurrentUser handles GET /api/auth/user.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	usr, err := h.facade.CurrentUser(c.Request.Context(), middleware.TokenFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

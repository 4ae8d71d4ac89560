package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/server/http/dto"
)

// UserHandler serves admin account management.
type UserHandler struct {
	facade UserAdminFacade
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(facade UserAdminFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// List handles GET /api/auth/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.facade.ListUsers(c.Request.Context(), CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /api/auth/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleStaff
	}

	usr, err := h.facade.CreateUser(c.Request.Context(), CurrentUser(c), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usr)
}

// Update handles PUT /api/auth/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role is required")
		return
	}

	usr, err := h.facade.UpdateUser(c.Request.Context(), CurrentUser(c), id, req.FullName, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// Delete handles DELETE /api/auth/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	if err := h.facade.DeleteUser(c.Request.Context(), CurrentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

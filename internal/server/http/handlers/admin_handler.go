package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	facade MigrationFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade MigrationFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// MigrateLocal handles POST /api/admin/migrate-local.
func (h *AdminHandler) MigrateLocal(c *gin.Context) {
	res, err := h.facade.MigrateLocal(c.Request.Context(), CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

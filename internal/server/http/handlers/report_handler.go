package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/membership/internal/domain/model"
)

// ReportHandler streams customer exports.
type ReportHandler struct {
	facade ReportFacade
}

// NewReportHandler creates ReportHandler instance.
func NewReportHandler(facade ReportFacade) *ReportHandler {
	return &ReportHandler{facade: facade}
}

// Download handles GET /api/reports/customers?type=&plan=&from=&to=&format=.
func (h *ReportHandler) Download(c *gin.Context) {
	req := model.ReportRequest{
		Type:   model.ReportType(strings.ToLower(c.DefaultQuery("type", string(model.ReportDaily)))),
		Plan:   model.PlanFilter(strings.ToLower(c.Query("plan"))),
		Format: model.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(model.FormatCSV)))),
	}
	var err error
	if req.From, err = dateQuery(c, "from"); err != nil {
		badRequest(c, "invalid from date")
		return
	}
	if req.To, err = dateQuery(c, "to"); err != nil {
		badRequest(c, "invalid to date")
		return
	}

	rep, err := h.facade.GenerateReport(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename))
	c.Data(http.StatusOK, rep.ContentType, rep.Body)
}

func dateQuery(c *gin.Context, key string) (*model.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

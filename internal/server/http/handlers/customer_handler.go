package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/query"
	"github.com/polkiloo/membership/internal/server/http/dto"
)

const defaultPageSize = 10

// CustomerHandler serves membership records.
type CustomerHandler struct {
	facade CustomerFacade
	now    func() time.Time
}

// NewCustomerHandler creates CustomerHandler instance.
func NewCustomerHandler(facade CustomerFacade) *CustomerHandler {
	return &CustomerHandler{facade: facade, now: time.Now}
}

// List handles GET /api/customers. Records come newest first unless
// sort=false is given.
func (h *CustomerHandler) List(c *gin.Context) {
	sorted := c.Query("sort") != "false"
	customers, err := h.facade.ListCustomers(c.Request.Context(), sorted)
	if err != nil {
		writeError(c, err)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

// Paginate handles GET /api/customers/paginated.
func (h *CustomerHandler) Paginate(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		badRequest(c, "invalid page")
		return
	}
	size, ok := intQuery(c, "itemsPerPage", defaultPageSize)
	if !ok {
		badRequest(c, "invalid itemsPerPage")
		return
	}

	result, err := h.facade.PaginateCustomers(c.Request.Context(), page, size,
		c.Query("searchTerm"), model.MembershipFilter(c.Query("membershipFilter")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats handles GET /api/customers/stats.
func (h *CustomerHandler) Stats(c *gin.Context) {
	stats, err := h.facade.CustomerStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.facade.CustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if customer == nil {
		notFound(c, "customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetByMembershipNumber handles GET /api/customers/membership/:number.
func (h *CustomerHandler) GetByMembershipNumber(c *gin.Context) {
	customer, err := h.facade.CustomerByMembershipNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	if customer == nil {
		notFound(c, "customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var in model.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid customer payload")
		return
	}

	customer, err := h.facade.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /api/customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	var in model.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid customer payload")
		return
	}

	customer, err := h.facade.UpdateCustomer(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DecrementVisits handles PATCH /api/customers/:id/decrement-visits.
func (h *CustomerHandler) DecrementVisits(c *gin.Context) {
	customer, err := h.facade.DecrementVisits(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if customer == nil {
		notFound(c, "customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// QR handles GET /api/customers/:id/qr.
func (h *CustomerHandler) QR(c *gin.Context) {
	payload, err := h.facade.QRPayload(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QRResponse{QRValue: payload})
}

// Verify handles the public GET /api/verify endpoint reached by scanning a
// membership card.
func (h *CustomerHandler) Verify(c *gin.Context) {
	if msg := strings.TrimSpace(c.Query("error")); msg != "" {
		c.JSON(http.StatusOK, dto.VerifyResponse{Error: msg})
		return
	}
	number := strings.TrimSpace(c.Query("membershipNumber"))

	customer, err := h.facade.Verify(c.Request.Context(), number)
	if err != nil {
		writeError(c, err)
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, dto.VerifyResponse{Error: "customer_not_found"})
		return
	}

	days := query.DaysUntil(customer.ExpiryDate, h.now())
	c.JSON(http.StatusOK, dto.VerifyResponse{
		Valid:    days > 0,
		Expired:  days <= 0,
		DaysLeft: days,
		Customer: customer,
	})
}

// Package restapi implements the customer repository on top of a remote
// membership API.
package restapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
	"github.com/polkiloo/membership/internal/session"
)

const sessionKey = "restapi"

// Credentials sign the client in when no live session exists.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) configured() bool {
	return c.Email != "" && c.Password != ""
}

// Client is a CustomerRepository backed by the remote HTTP API.
type Client struct {
	transport   *transport
	session     *session.Manager
	credentials Credentials
	logger      *slog.Logger
}

var _ repository.CustomerRepository = (*Client)(nil)

// New creates a client. Its session is kept in store under a fixed key.
func New(baseURL string, store session.Store, creds Credentials, logger *slog.Logger) (*Client, error) {
	t, err := newTransport(baseURL, logger)
	if err != nil {
		return nil, err
	}
	gate := session.NewGate(store, time.Now, logger)
	return &Client{
		transport:   t,
		session:     session.NewManager(gate, &AuthAPI{transport: t}, sessionKey, logger),
		credentials: creds,
		logger:      logger,
	}, nil
}

// Session exposes the client-side session of the remote API.
func (c *Client) Session() *session.Manager {
	return c.session
}

func (c *Client) token(ctx context.Context) (string, error) {
	token, err := c.session.Token(ctx)
	if err == nil || !errors.Is(err, domainErrors.ErrUnauthorized) || !c.credentials.configured() {
		return token, err
	}

	c.logger.Info("signing in to remote api", slog.String("email", c.credentials.Email))
	s, err := c.session.SignIn(ctx, c.credentials.Email, c.credentials.Password)
	if err != nil {
		return "", fmt.Errorf("remote sign in: %w", err)
	}
	return s.AccessToken, nil
}

func (c *Client) call(ctx context.Context, r request, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	r.token = token

	err = c.transport.do(ctx, r, out)
	if errors.Is(err, domainErrors.ErrUnauthorized) {
		if clearErr := c.session.Invalidate(ctx); clearErr != nil {
			c.logger.Warn("clear remote session", slog.String("error", clearErr.Error()))
		}
	}
	return err
}

type customerPayload struct {
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Email          string               `json:"email"`
	Phone          *string              `json:"phone,omitempty"`
	MembershipType model.MembershipType `json:"membershipType"`
	ExpiryDate     model.Date           `json:"expiryDate"`
	Visits         *int                 `json:"visits"`
}

func payloadOf(customer model.Customer) customerPayload {
	visits := customer.Visits
	return customerPayload{
		FirstName:      customer.FirstName,
		LastName:       customer.LastName,
		Email:          customer.Email,
		Phone:          customer.Phone,
		MembershipType: customer.MembershipType,
		ExpiryDate:     customer.ExpiryDate,
		Visits:         &visits,
	}
}

func customerPath(id string) string {
	return "/api/customers/" + url.PathEscape(id)
}

func (c *Client) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/customers"}, &customers)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	return customers, nil
}

func (c *Client) Paginate(ctx context.Context, q model.PageQuery) (*model.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("itemsPerPage", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("searchTerm", q.Search)
	}
	if q.Filter != "" {
		query.Set("membershipFilter", string(q.Filter))
	}

	var page model.Page
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/customers/paginated", query: query}, &page); err != nil {
		return nil, err
	}
	if page.Customers == nil {
		page.Customers = []model.Customer{}
	}
	return &page, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	if err := c.call(ctx, request{method: http.MethodGet, path: customerPath(id)}, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) GetByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	var customer model.Customer
	r := request{method: http.MethodGet, path: "/api/customers/membership/" + url.PathEscape(number)}
	if err := c.call(ctx, r, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create posts the editable fields. The remote side assigns its own id,
// membership number and creation time.
func (c *Client) Create(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	var created model.Customer
	r := request{method: http.MethodPost, path: "/api/customers", body: payloadOf(customer)}
	if err := c.call(ctx, r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Update(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	var updated model.Customer
	r := request{method: http.MethodPut, path: customerPath(customer.ID), body: payloadOf(customer)}
	if err := c.call(ctx, r, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: customerPath(id)}, nil)
}

// Stats returns the remote aggregate; the remote clock decides expiry.
func (c *Client) Stats(ctx context.Context, _ time.Time) (*model.Stats, error) {
	var stats model.Stats
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/customers/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	r := request{method: http.MethodPatch, path: customerPath(id) + "/decrement-visits"}
	if err := c.call(ctx, r, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

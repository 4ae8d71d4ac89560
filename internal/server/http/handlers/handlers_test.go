package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/server/http/dto"
	"github.com/polkiloo/membership/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/membership/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(role model.Role) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, &model.Session{
			AccessToken: "token",
			User:        model.User{ID: 7, Email: "actor@example.com", Role: role},
		})
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("email: %w", domainErrors.ErrValidation), http.StatusBadRequest},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainErrors.ErrUnauthorized, http.StatusUnauthorized},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrBackend, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUser(c); got.ID != 0 {
		t.Fatalf("expected zero user when not set, got %+v", got)
	}
	asUser(model.RoleAdmin)(c)
	if got := CurrentUser(c); got.ID != 7 || !got.IsAdmin() {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestAuthHandlerSignIn(t *testing.T) {
	body, _ := json.Marshal(dto.SignInRequest{Email: "staff@example.com", Password: "secret"})
	resp := performRequest(t, http.MethodPost, "/signin", "/signin", NewAuthHandler(testhelpers.MembershipFacadeStub{}).SignIn, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var got dto.AuthResponse
	decode(t, resp, &got)
	if got.User.Email != "staff@example.com" || got.Session.AccessToken != "token" {
		t.Fatalf("unexpected response %+v", got)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("expected bearer header, got %q", resp.Header().Get("Authorization"))
	}
	found := false
	for _, ck := range resp.Result().Cookies() {
		if ck.Name == "membership_token" && ck.Value == "token" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named membership_token")
	}
}

func TestAuthHandlerSignInForwardsCredentials(t *testing.T) {
	email := testhelpers.RandomEmail()
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.SignInRequest{Email: email, Password: password})
	handler := NewAuthHandler(testhelpers.MembershipFacadeStub{SignInFn: func(_ context.Context, gotEmail, gotPassword string) (*model.Session, error) {
		if gotEmail != email || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotEmail, gotPassword)
		}
		return &model.Session{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour), User: model.User{Email: gotEmail}}, nil
	}}).SignIn

	resp := performRequest(t, http.MethodPost, "/signin", "/signin", handler, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", resp.Header().Get("Authorization"))
	}
}

func TestAuthHandlerSignInFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.MembershipFacadeStub
		body   string
		status int
	}{
		{name: "bad json", body: "not json", status: http.StatusBadRequest},
		{name: "missing password", body: `{"email":"a@b.c"}`, status: http.StatusBadRequest},
		{name: "invalid credentials", body: `{"email":"a@b.c","password":"x"}`, facade: testhelpers.MembershipFacadeStub{SignInFn: func(context.Context, string, string) (*model.Session, error) {
			return nil, domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "remote down", body: `{"email":"a@b.c","password":"x"}`, facade: testhelpers.MembershipFacadeStub{SignInFn: func(context.Context, string, string) (*model.Session, error) {
			return nil, domainErrors.ErrBackend
		}}, status: http.StatusBadGateway},
		{name: "internal", body: `{"email":"a@b.c","password":"x"}`, facade: testhelpers.MembershipFacadeStub{SignInFn: func(context.Context, string, string) (*model.Session, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/signin", "/signin", NewAuthHandler(tt.facade).SignIn, nil, []byte(tt.body), jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerSignUp(t *testing.T) {
	var gotName *string
	facade := testhelpers.MembershipFacadeStub{SignUpFn: func(_ context.Context, email, _ string, fullName *string) (*model.Session, error) {
		gotName = fullName
		return &model.Session{AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour), User: model.User{Email: email, Role: model.RoleStaff}}, nil
	}}
	body := []byte(`{"email":"new@example.com","password":"secret","full_name":"Jane Doe"}`)
	resp := performRequest(t, http.MethodPost, "/signup", "/signup", NewAuthHandler(facade).SignUp, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if gotName == nil || *gotName != "Jane Doe" {
		t.Fatalf("full name not forwarded: %v", gotName)
	}

	conflict := testhelpers.MembershipFacadeStub{SignUpFn: func(context.Context, string, string, *string) (*model.Session, error) {
		return nil, domainErrors.ErrAlreadyExists
	}}
	resp = performRequest(t, http.MethodPost, "/signup", "/signup", NewAuthHandler(conflict).SignUp, nil, body, jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestAuthHandlerSignOut(t *testing.T) {
	var gotToken string
	facade := testhelpers.MembershipFacadeStub{SignOutFn: func(_ context.Context, token string) error {
		gotToken = token
		return nil
	}}
	resp := performRequest(t, http.MethodPost, "/signout", "/signout", NewAuthHandler(facade).SignOut, nil, nil, map[string]string{"Authorization": "Bearer abc"})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if gotToken != "abc" {
		t.Fatalf("expected token abc, got %q", gotToken)
	}
	cleared := false
	for _, ck := range resp.Result().Cookies() {
		if ck.Name == "membership_token" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected auth cookie to be cleared")
	}
}

func TestAuthHandlerCurrentUser(t *testing.T) {
	handler := NewAuthHandler(testhelpers.MembershipFacadeStub{}).CurrentUser

	resp := performRequest(t, http.MethodGet, "/user", "/user", handler, nil, nil, map[string]string{"Authorization": "Bearer token"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var usr model.User
	decode(t, resp, &usr)
	if usr.Email != "staff@example.com" {
		t.Fatalf("unexpected user %+v", usr)
	}

	resp = performRequest(t, http.MethodGet, "/user", "/user", handler, nil, nil, map[string]string{"Authorization": "Bearer stale"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestUserHandler(t *testing.T) {
	var actor model.User
	facade := testhelpers.MembershipFacadeStub{
		CreateUserFn: func(_ context.Context, a model.User, email, _ string, _ *string, role model.Role) (*model.User, error) {
			actor = a
			return &model.User{ID: 3, Email: email, Role: role}, nil
		},
		DeleteUserFn: func(_ context.Context, a model.User, id int64) error {
			if id == a.ID {
				return fmt.Errorf("cannot delete yourself: %w", domainErrors.ErrValidation)
			}
			return nil
		},
	}
	h := NewUserHandler(facade)

	resp := performRequest(t, http.MethodGet, "/users", "/users", h.List, asUser(model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/users", "/users", h.Create, asUser(model.RoleAdmin), []byte(`{"email":"x@y.z","password":"p"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}
	var created model.User
	decode(t, resp, &created)
	if created.Role != model.RoleStaff {
		t.Fatalf("expected default staff role, got %q", created.Role)
	}
	if actor.ID != 7 {
		t.Fatalf("actor not forwarded: %+v", actor)
	}

	resp = performRequest(t, http.MethodPut, "/users/:id", "/users/3", h.Update, asUser(model.RoleAdmin), []byte(`{"role":"admin"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPut, "/users/:id", "/users/abc", h.Update, asUser(model.RoleAdmin), []byte(`{"role":"admin"}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("update bad id: expected 400, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodDelete, "/users/:id", "/users/3", h.Delete, asUser(model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/users/:id", "/users/7", h.Delete, asUser(model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("self delete: expected 400, got %d", resp.Code)
	}

	forbidden := NewUserHandler(testhelpers.MembershipFacadeStub{ListUsersFn: func(context.Context, model.User) ([]model.User, error) {
		return nil, domainErrors.ErrForbidden
	}})
	resp = performRequest(t, http.MethodGet, "/users", "/users", forbidden.List, asUser(model.RoleStaff), nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("staff list: expected 403, got %d", resp.Code)
	}
}

func TestCustomerHandlerListAll(t *testing.T) {
	var gotSorted bool
	facade := testhelpers.MembershipFacadeStub{ListCustomersFn: func(_ context.Context, sorted bool) ([]model.Customer, error) {
		gotSorted = sorted
		return []model.Customer{{ID: "a"}, {ID: "b"}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/customers", "/customers", NewCustomerHandler(facade).List, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got []model.Customer
	decode(t, resp, &got)
	if len(got) != 2 || !gotSorted {
		t.Fatalf("unexpected list %+v sorted=%v", got, gotSorted)
	}

	resp = performRequest(t, http.MethodGet, "/customers", "/customers?sort=false", NewCustomerHandler(facade).List, nil, nil, nil)
	if resp.Code != http.StatusOK || gotSorted {
		t.Fatalf("expected unsorted listing, got %d sorted=%v", resp.Code, gotSorted)
	}

	resp = performRequest(t, http.MethodGet, "/customers", "/customers", NewCustomerHandler(testhelpers.MembershipFacadeStub{}).List, nil, nil, nil)
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", resp.Body.String())
	}
}

func TestCustomerHandlerPaginate(t *testing.T) {
	type call struct {
		page, size int
		search     string
		filter     model.MembershipFilter
	}
	var got call
	facade := testhelpers.MembershipFacadeStub{PaginateFn: func(_ context.Context, page, size int, search string, filter model.MembershipFilter) (*model.Page, error) {
		got = call{page, size, search, filter}
		return &model.Page{Customers: []model.Customer{{ID: "a"}}, TotalPages: 3, TotalItems: 25}, nil
	}}
	h := NewCustomerHandler(facade)

	resp := performRequest(t, http.MethodGet, "/customers", "/customers?page=2&itemsPerPage=10&searchTerm=ann&membershipFilter=expiring", h.Paginate, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	want := call{2, 10, "ann", model.FilterExpiring}
	if got != want {
		t.Fatalf("facade called with %+v, want %+v", got, want)
	}
	var page model.Page
	decode(t, resp, &page)
	if page.TotalItems != 25 || page.TotalPages != 3 {
		t.Fatalf("unexpected page %+v", page)
	}

	resp = performRequest(t, http.MethodGet, "/customers", "/customers?page=x", h.Paginate, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", resp.Code)
	}
}

func TestCustomerHandlerGet(t *testing.T) {
	facade := testhelpers.MembershipFacadeStub{
		CustomerByIDFn: func(_ context.Context, id string) (*model.Customer, error) {
			if id == "known" {
				return &model.Customer{ID: id}, nil
			}
			return nil, nil
		},
		CustomerByNumberFn: func(_ context.Context, number string) (*model.Customer, error) {
			if number == "PRE-2026-00001" {
				return &model.Customer{ID: "known", MembershipNumber: number}, nil
			}
			return nil, domainErrors.ErrBackend
		},
	}
	h := NewCustomerHandler(facade)

	if resp := performRequest(t, http.MethodGet, "/customers/:id", "/customers/known", h.Get, nil, nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := performRequest(t, http.MethodGet, "/customers/:id", "/customers/missing", h.Get, nil, nil, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := performRequest(t, http.MethodGet, "/m/:number", "/m/PRE-2026-00001", h.GetByMembershipNumber, nil, nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := performRequest(t, http.MethodGet, "/m/:number", "/m/other", h.GetByMembershipNumber, nil, nil, nil); resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestCustomerHandlerCreateUpdateDelete(t *testing.T) {
	var created model.CustomerInput
	facade := testhelpers.MembershipFacadeStub{
		CreateCustomerFn: func(_ context.Context, in model.CustomerInput) (*model.Customer, error) {
			created = in
			if in.FirstName == "" {
				return nil, fmt.Errorf("first name is required: %w", domainErrors.ErrValidation)
			}
			return &model.Customer{ID: "c1", FirstName: in.FirstName}, nil
		},
		DeleteCustomerFn: func(_ context.Context, id string) error {
			if id != "c1" {
				return domainErrors.ErrNotFound
			}
			return nil
		},
	}
	h := NewCustomerHandler(facade)

	body := []byte(`{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","membershipType":"premier","expiryDate":"2027-01-31"}`)
	resp := performRequest(t, http.MethodPost, "/customers", "/customers", h.Create, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if created.MembershipType != model.MembershipPremier || !created.ExpiryDate.Equal(model.NewDate(2027, time.January, 31)) {
		t.Fatalf("unexpected input %+v", created)
	}

	resp = performRequest(t, http.MethodPost, "/customers", "/customers", h.Create, nil, []byte(`{"lastName":"Lee"}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/customers", "/customers", h.Create, nil, []byte(`{"expiryDate":"31/01/2027"}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/customers/:id", "/customers/c1", h.Update, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if resp := performRequest(t, http.MethodDelete, "/customers/:id", "/customers/c1", h.Delete, nil, nil, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp := performRequest(t, http.MethodDelete, "/customers/:id", "/customers/zz", h.Delete, nil, nil, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCustomerHandlerStatsVisitsQR(t *testing.T) {
	facade := testhelpers.MembershipFacadeStub{
		StatsFn: func(context.Context) (*model.Stats, error) {
			return &model.Stats{Total: 3, Prestige: 2, Premier: 1, ExpiringSoon: 1}, nil
		},
		DecrementVisitsFn: func(_ context.Context, id string) (*model.Customer, error) {
			if id == "c1" {
				return &model.Customer{ID: id, Visits: 4}, nil
			}
			return nil, nil
		},
	}
	h := NewCustomerHandler(facade)

	resp := performRequest(t, http.MethodGet, "/stats", "/stats", h.Stats, nil, nil, nil)
	var stats model.Stats
	decode(t, resp, &stats)
	if stats != (model.Stats{Total: 3, Prestige: 2, Premier: 1, ExpiringSoon: 1}) {
		t.Fatalf("unexpected stats %+v", stats)
	}

	resp = performRequest(t, http.MethodPost, "/c/:id/visits", "/c/c1/visits", h.DecrementVisits, nil, nil, nil)
	var c model.Customer
	decode(t, resp, &c)
	if resp.Code != http.StatusOK || c.Visits != 4 {
		t.Fatalf("unexpected decrement result %d %+v", resp.Code, c)
	}
	if resp := performRequest(t, http.MethodPost, "/c/:id/visits", "/c/none/visits", h.DecrementVisits, nil, nil, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/c/:id/qr", "/c/c1/qr", h.QR, nil, nil, nil)
	var qr dto.QRResponse
	decode(t, resp, &qr)
	if qr.QRValue != "/verify?membershipNumber=c1" {
		t.Fatalf("unexpected qr %+v", qr)
	}
}

func TestCustomerHandlerVerify(t *testing.T) {
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	facade := testhelpers.MembershipFacadeStub{VerifyFn: func(_ context.Context, number string) (*model.Customer, error) {
		switch number {
		case "":
			return nil, fmt.Errorf("membership number is required: %w", domainErrors.ErrValidation)
		case "PRE-2026-00001":
			return &model.Customer{MembershipNumber: number, ExpiryDate: model.NewDate(2026, time.October, 29)}, nil
		case "PRM-2026-00002":
			return &model.Customer{MembershipNumber: number, ExpiryDate: model.NewDate(2026, time.October, 19)}, nil
		}
		return nil, nil
	}}
	h := NewCustomerHandler(facade)
	h.now = func() time.Time { return now }

	tests := []struct {
		name   string
		target string
		status int
		want   dto.VerifyResponse
	}{
		{name: "active", target: "/verify?membershipNumber=PRE-2026-00001", status: http.StatusOK, want: dto.VerifyResponse{Valid: true, DaysLeft: 10}},
		{name: "expires today", target: "/verify?membershipNumber=PRM-2026-00002", status: http.StatusOK, want: dto.VerifyResponse{Expired: true}},
		{name: "unknown", target: "/verify?membershipNumber=nope", status: http.StatusNotFound, want: dto.VerifyResponse{Error: "customer_not_found"}},
		{name: "qr error", target: "/verify?error=customer_not_found", status: http.StatusOK, want: dto.VerifyResponse{Error: "customer_not_found"}},
		{name: "missing number", target: "/verify", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/verify", tt.target, h.Verify, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if tt.status == http.StatusBadRequest {
				return
			}
			var got dto.VerifyResponse
			decode(t, resp, &got)
			got.Customer = nil
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReportHandlerDownload(t *testing.T) {
	var got model.ReportRequest
	facade := testhelpers.MembershipFacadeStub{GenerateReportFn: func(_ context.Context, req model.ReportRequest) (*model.Report, error) {
		got = req
		if req.Type == "hourly" {
			return nil, fmt.Errorf("unknown report type: %w", domainErrors.ErrValidation)
		}
		return &model.Report{Filename: "Customers_custom_01-10-2026_to_15-10-2026.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("a,b\n")}, nil
	}}
	h := NewReportHandler(facade)

	resp := performRequest(t, http.MethodGet, "/reports", "/reports?type=CUSTOM&plan=premier&from=2026-10-01&to=2026-10-15", h.Download, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.Type != model.ReportCustom || got.Plan != model.PlanPremier || got.Format != model.FormatCSV {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.From == nil || !got.From.Equal(model.NewDate(2026, time.October, 1)) || got.To == nil || !got.To.Equal(model.NewDate(2026, time.October, 15)) {
		t.Fatalf("unexpected bounds %v %v", got.From, got.To)
	}
	if cd := resp.Header().Get("Content-Disposition"); cd != `attachment; filename="Customers_custom_01-10-2026_to_15-10-2026.csv"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp.Body.String() != "a,b\n" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/reports", "/reports", h.Download, nil, nil, nil)
	if resp.Code != http.StatusOK || got.Type != model.ReportDaily {
		t.Fatalf("expected daily default, got %d %+v", resp.Code, got)
	}

	if resp := performRequest(t, http.MethodGet, "/reports", "/reports?type=custom&from=01/10/2026", h.Download, nil, nil, nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", resp.Code)
	}
	if resp := performRequest(t, http.MethodGet, "/reports", "/reports?type=hourly", h.Download, nil, nil, nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type, got %d", resp.Code)
	}
}

func TestAdminHandlerMigrateLocal(t *testing.T) {
	facade := testhelpers.MembershipFacadeStub{MigrateLocalFn: func(_ context.Context, actor model.User) (*model.MigrationResult, error) {
		if !actor.IsAdmin() {
			return nil, domainErrors.ErrForbidden
		}
		return &model.MigrationResult{Migrated: 2, Cleared: true}, nil
	}}
	h := NewAdminHandler(facade)

	resp := performRequest(t, http.MethodPost, "/migrate", "/migrate", h.MigrateLocal, asUser(model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var res model.MigrationResult
	decode(t, resp, &res)
	if res.Migrated != 2 || !res.Cleared {
		t.Fatalf("unexpected result %+v", res)
	}

	if resp := performRequest(t, http.MethodPost, "/migrate", "/migrate", h.MigrateLocal, asUser(model.RoleStaff), nil, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

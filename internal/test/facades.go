package test

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

// MembershipFacadeStub provides controllable behaviour for every HTTP facade.
// Unset functions fall back to simple canned responses.
type MembershipFacadeStub struct {
	SignInFn      func(context.Context, string, string) (*model.Session, error)
	SignUpFn      func(context.Context, string, string, *string) (*model.Session, error)
	SignOutFn     func(context.Context, string) error
	AuthorizeFn   func(context.Context, string) (*model.Session, error)
	CurrentUserFn func(context.Context, string) (*model.User, error)

	ListUsersFn  func(context.Context, model.User) ([]model.User, error)
	CreateUserFn func(context.Context, model.User, string, string, *string, model.Role) (*model.User, error)
	UpdateUserFn func(context.Context, model.User, int64, *string, model.Role) (*model.User, error)
	DeleteUserFn func(context.Context, model.User, int64) error

	ListCustomersFn    func(context.Context, bool) ([]model.Customer, error)
	PaginateFn         func(context.Context, int, int, string, model.MembershipFilter) (*model.Page, error)
	CustomerByIDFn     func(context.Context, string) (*model.Customer, error)
	CustomerByNumberFn func(context.Context, string) (*model.Customer, error)
	CreateCustomerFn   func(context.Context, model.CustomerInput) (*model.Customer, error)
	UpdateCustomerFn   func(context.Context, string, model.CustomerInput) (*model.Customer, error)
	DeleteCustomerFn   func(context.Context, string) error
	StatsFn            func(context.Context) (*model.Stats, error)
	DecrementVisitsFn  func(context.Context, string) (*model.Customer, error)
	QRPayloadFn        func(context.Context, string) (string, error)
	VerifyFn           func(context.Context, string) (*model.Customer, error)

	GenerateReportFn func(context.Context, model.ReportRequest) (*model.Report, error)
	MigrateLocalFn   func(context.Context, model.User) (*model.MigrationResult, error)
}

func stubSession(email string, role model.Role) *model.Session {
	return &model.Session{
		AccessToken: "token",
		ExpiresAt:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		User:        model.User{ID: 1, Email: email, Role: role},
	}
}

// SignIn returns a staff session unless overridden.
func (s MembershipFacadeStub) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	if s.SignInFn != nil {
		return s.SignInFn(ctx, email, password)
	}
	return stubSession(email, model.RoleStaff), nil
}

// SignUp returns a staff session unless overridden.
func (s MembershipFacadeStub) SignUp(ctx context.Context, email, password string, fullName *string) (*model.Session, error) {
	if s.SignUpFn != nil {
		return s.SignUpFn(ctx, email, password, fullName)
	}
	return stubSession(email, model.RoleStaff), nil
}

// SignOut succeeds unless overridden.
func (s MembershipFacadeStub) SignOut(ctx context.Context, token string) error {
	if s.SignOutFn != nil {
		return s.SignOutFn(ctx, token)
	}
	return nil
}

// Authorize accepts the literal token "token".
func (s MembershipFacadeStub) Authorize(ctx context.Context, token string) (*model.Session, error) {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, token)
	}
	if token != "token" {
		return nil, domainErrors.ErrUnauthorized
	}
	return stubSession("staff@example.com", model.RoleStaff), nil
}

// CurrentUser resolves the token through Authorize.
func (s MembershipFacadeStub) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if s.CurrentUserFn != nil {
		return s.CurrentUserFn(ctx, token)
	}
	sess, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return &sess.User, nil
}

// ListUsers returns the actor only.
func (s MembershipFacadeStub) ListUsers(ctx context.Context, actor model.User) ([]model.User, error) {
	if s.ListUsersFn != nil {
		return s.ListUsersFn(ctx, actor)
	}
	return []model.User{actor}, nil
}

// CreateUser echoes the request.
func (s MembershipFacadeStub) CreateUser(ctx context.Context, actor model.User, email, password string, fullName *string, role model.Role) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, actor, email, password, fullName, role)
	}
	return &model.User{ID: 2, Email: email, FullName: fullName, Role: role}, nil
}

// UpdateUser echoes the request.
func (s MembershipFacadeStub) UpdateUser(ctx context.Context, actor model.User, id int64, fullName *string, role model.Role) (*model.User, error) {
	if s.UpdateUserFn != nil {
		return s.UpdateUserFn(ctx, actor, id, fullName, role)
	}
	return &model.User{ID: id, FullName: fullName, Role: role}, nil
}

// DeleteUser succeeds unless overridden.
func (s MembershipFacadeStub) DeleteUser(ctx context.Context, actor model.User, id int64) error {
	if s.DeleteUserFn != nil {
		return s.DeleteUserFn(ctx, actor, id)
	}
	return nil
}

// ListCustomers returns an empty list unless overridden.
func (s MembershipFacadeStub) ListCustomers(ctx context.Context, sorted bool) ([]model.Customer, error) {
	if s.ListCustomersFn != nil {
		return s.ListCustomersFn(ctx, sorted)
	}
	return nil, nil
}

// PaginateCustomers returns an empty first page unless overridden.
func (s MembershipFacadeStub) PaginateCustomers(ctx context.Context, page, pageSize int, search string, filter model.MembershipFilter) (*model.Page, error) {
	if s.PaginateFn != nil {
		return s.PaginateFn(ctx, page, pageSize, search, filter)
	}
	return &model.Page{Customers: []model.Customer{}, TotalPages: 1}, nil
}

// CustomerByID returns nil unless overridden.
func (s MembershipFacadeStub) CustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	if s.CustomerByIDFn != nil {
		return s.CustomerByIDFn(ctx, id)
	}
	return nil, nil
}

// CustomerByMembershipNumber returns nil unless overridden.
func (s MembershipFacadeStub) CustomerByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	if s.CustomerByNumberFn != nil {
		return s.CustomerByNumberFn(ctx, number)
	}
	return nil, nil
}

// CreateCustomer echoes the input.
func (s MembershipFacadeStub) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	if s.CreateCustomerFn != nil {
		return s.CreateCustomerFn(ctx, in)
	}
	return &model.Customer{ID: "new", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email,
		MembershipType: in.MembershipType, ExpiryDate: in.ExpiryDate}, nil
}

// UpdateCustomer echoes the input.
func (s MembershipFacadeStub) UpdateCustomer(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error) {
	if s.UpdateCustomerFn != nil {
		return s.UpdateCustomerFn(ctx, id, in)
	}
	return &model.Customer{ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email,
		MembershipType: in.MembershipType, ExpiryDate: in.ExpiryDate}, nil
}

// DeleteCustomer succeeds unless overridden.
func (s MembershipFacadeStub) DeleteCustomer(ctx context.Context, id string) error {
	if s.DeleteCustomerFn != nil {
		return s.DeleteCustomerFn(ctx, id)
	}
	return nil
}

// CustomerStats returns zero counters unless overridden.
func (s MembershipFacadeStub) CustomerStats(ctx context.Context) (*model.Stats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.Stats{}, nil
}

// DecrementVisits returns nil unless overridden.
func (s MembershipFacadeStub) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	if s.DecrementVisitsFn != nil {
		return s.DecrementVisitsFn(ctx, id)
	}
	return nil, nil
}

// QRPayload returns a fixed verification path.
func (s MembershipFacadeStub) QRPayload(ctx context.Context, id string) (string, error) {
	if s.QRPayloadFn != nil {
		return s.QRPayloadFn(ctx, id)
	}
	return "/verify?membershipNumber=" + id, nil
}

// Verify returns nil unless overridden.
func (s MembershipFacadeStub) Verify(ctx context.Context, number string) (*model.Customer, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, number)
	}
	return nil, nil
}

// GenerateReport returns an empty CSV unless overridden.
func (s MembershipFacadeStub) GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	if s.GenerateReportFn != nil {
		return s.GenerateReportFn(ctx, req)
	}
	return &model.Report{Filename: "report.csv", ContentType: "text/csv; charset=utf-8"}, nil
}

// MigrateLocal reports an empty run unless overridden.
func (s MembershipFacadeStub) MigrateLocal(ctx context.Context, actor model.User) (*model.MigrationResult, error) {
	if s.MigrateLocalFn != nil {
		return s.MigrateLocalFn(ctx, actor)
	}
	return &model.MigrationResult{}, nil
}

package handlers

import (
	"context"

	"github.com/polkiloo/membership/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string, fullName *string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
	Authorize(ctx context.Context, token string) (*model.Session, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// UserAdminFacade manages staff accounts.
type UserAdminFacade interface {
	ListUsers(ctx context.Context, actor model.User) ([]model.User, error)
	CreateUser(ctx context.Context, actor model.User, email, password string, fullName *string, role model.Role) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.User, id int64, fullName *string, role model.Role) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.User, id int64) error
}

// CustomerFacade encapsulates customer record operations exposed via HTTP.
type CustomerFacade interface {
	ListCustomers(ctx context.Context, sorted bool) ([]model.Customer, error)
	PaginateCustomers(ctx context.Context, page, pageSize int, search string, filter model.MembershipFilter) (*model.Page, error)
	CustomerByID(ctx context.Context, id string) (*model.Customer, error)
	CustomerByMembershipNumber(ctx context.Context, number string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	CustomerStats(ctx context.Context) (*model.Stats, error)
	DecrementVisits(ctx context.Context, id string) (*model.Customer, error)
	QRPayload(ctx context.Context, id string) (string, error)
	Verify(ctx context.Context, membershipNumber string) (*model.Customer, error)
}

// ReportFacade renders exports.
type ReportFacade interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

// MigrationFacade moves local data into the active backend.
type MigrationFacade interface {
	MigrateLocal(ctx context.Context, actor model.User) (*model.MigrationResult, error)
}

// MembershipFacade aggregates the full set of operations used across handlers.
type MembershipFacade interface {
	AuthFacade
	UserAdminFacade
	CustomerFacade
	ReportFacade
	MigrationFacade
}

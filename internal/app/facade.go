package app

import (
	"context"

	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/usecase"
)

// MembershipFacade adapts use cases to the HTTP layer and the expiry worker.
type MembershipFacade struct {
	auth      *usecase.AuthUseCase
	customers *usecase.CustomerUseCase
	reports   *usecase.ReportUseCase
	migration *usecase.MigrationUseCase
}

func NewMembershipFacade(auth *usecase.AuthUseCase, customers *usecase.CustomerUseCase, reports *usecase.ReportUseCase, migration *usecase.MigrationUseCase) *MembershipFacade {
	return &MembershipFacade{auth: auth, customers: customers, reports: reports, migration: migration}
}

func (f *MembershipFacade) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	return f.auth.SignIn(ctx, email, password)
}

func (f *MembershipFacade) SignUp(ctx context.Context, email, password string, fullName *string) (*model.Session, error) {
	return f.auth.SignUp(ctx, email, password, fullName)
}

func (f *MembershipFacade) SignOut(ctx context.Context, token string) error {
	return f.auth.SignOut(ctx, token)
}

func (f *MembershipFacade) Authorize(ctx context.Context, token string) (*model.Session, error) {
	return f.auth.Authorize(ctx, token)
}

func (f *MembershipFacade) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	return f.auth.CurrentUser(ctx, token)
}

func (f *MembershipFacade) ListUsers(ctx context.Context, actor model.User) ([]model.User, error) {
	return f.auth.ListUsers(ctx, actor)
}

func (f *MembershipFacade) CreateUser(ctx context.Context, actor model.User, email, password string, fullName *string, role model.Role) (*model.User, error) {
	return f.auth.CreateUser(ctx, actor, email, password, fullName, role)
}

func (f *MembershipFacade) UpdateUser(ctx context.Context, actor model.User, id int64, fullName *string, role model.Role) (*model.User, error) {
	return f.auth.UpdateUser(ctx, actor, id, fullName, role)
}

func (f *MembershipFacade) DeleteUser(ctx context.Context, actor model.User, id int64) error {
	return f.auth.DeleteUser(ctx, actor, id)
}

// EnsureAdmin bootstraps the first admin account.
func (f *MembershipFacade) EnsureAdmin(ctx context.Context, email, password string) error {
	return f.auth.EnsureAdmin(ctx, email, password)
}

func (f *MembershipFacade) ListCustomers(ctx context.Context, sorted bool) ([]model.Customer, error) {
	return f.customers.List(ctx, sorted)
}

func (f *MembershipFacade) PaginateCustomers(ctx context.Context, page, pageSize int, search string, filter model.MembershipFilter) (*model.Page, error) {
	return f.customers.Paginate(ctx, page, pageSize, search, filter)
}

func (f *MembershipFacade) CustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	return f.customers.GetByID(ctx, id)
}

func (f *MembershipFacade) CustomerByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	return f.customers.GetByMembershipNumber(ctx, number)
}

func (f *MembershipFacade) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	return f.customers.Create(ctx, in)
}

func (f *MembershipFacade) UpdateCustomer(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error) {
	return f.customers.Update(ctx, id, in)
}

func (f *MembershipFacade) DeleteCustomer(ctx context.Context, id string) error {
	return f.customers.Delete(ctx, id)
}

func (f *MembershipFacade) CustomerStats(ctx context.Context) (*model.Stats, error) {
	return f.customers.Stats(ctx)
}

func (f *MembershipFacade) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	return f.customers.DecrementVisits(ctx, id)
}

func (f *MembershipFacade) QRPayload(ctx context.Context, id string) (string, error) {
	return f.customers.QRPayload(ctx, id)
}

func (f *MembershipFacade) Verify(ctx context.Context, membershipNumber string) (*model.Customer, error) {
	return f.customers.Verify(ctx, membershipNumber)
}

func (f *MembershipFacade) GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	return f.reports.Generate(ctx, req)
}

func (f *MembershipFacade) MigrateLocal(ctx context.Context, actor model.User) (*model.MigrationResult, error) {
	return f.migration.MigrateLocal(ctx, actor)
}

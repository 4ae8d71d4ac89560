package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
	"github.com/polkiloo/membership/internal/query"
)

const (
	membershipNumberMin = 100000
	membershipNumberMax = 999999

	verifyPath          = "/verify"
	verifyErrorNotFound = "customer_not_found"
)

// CustomerUseCase implements customer record management on top of the
// active backend.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	now       Clock
	newID     func() string
	suffix    func() int
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository, clock Clock) *CustomerUseCase {
	return &CustomerUseCase{
		customers: customers,
		now:       clock,
		newID:     uuid.NewString,
		suffix:    randomSuffix,
	}
}

func randomSuffix() int {
	return membershipNumberMin + rand.Intn(membershipNumberMax-membershipNumberMin+1)
}

// MembershipNumber builds a number from the plan initial and a six digit suffix.
func MembershipNumber(plan model.MembershipType, suffix int) string {
	initial := ""
	if plan != "" {
		initial = strings.ToUpper(string(plan)[:1])
	}
	return initial + strconv.Itoa(suffix)
}

// List returns all customers, newest first unless sorted is false.
func (u *CustomerUseCase) List(ctx context.Context, sorted bool) ([]model.Customer, error) {
	customers, err := u.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	if sorted {
		query.SortByCreatedDesc(customers)
	}
	return customers, nil
}

// Paginate returns one page of the filtered listing.
func (u *CustomerUseCase) Paginate(ctx context.Context, page, pageSize int, search string, filter model.MembershipFilter) (*model.Page, error) {
	return u.customers.Paginate(ctx, model.PageQuery{
		Page:     page,
		PageSize: query.NormalizePageSize(pageSize),
		Search:   strings.TrimSpace(search),
		Filter:   query.NormalizeFilter(filter),
		Now:      u.now(),
	})
}

// GetByID returns nil when the customer does not exist.
func (u *CustomerUseCase) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	return absentOnMiss(u.customers.GetByID(ctx, id))
}

// GetByMembershipNumber returns nil when no customer carries number.
func (u *CustomerUseCase) GetByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	return absentOnMiss(u.customers.GetByMembershipNumber(ctx, strings.TrimSpace(number)))
}

// Create validates input and stores a new customer.
func (u *CustomerUseCase) Create(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	in = in.Normalize()
	if err := validateCustomer(in); err != nil {
		return nil, err
	}

	visits := 0
	if in.Visits != nil {
		visits = *in.Visits
	}

	return u.customers.Create(ctx, model.Customer{
		ID:               u.newID(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		MembershipType:   in.MembershipType,
		MembershipNumber: MembershipNumber(in.MembershipType, u.suffix()),
		ExpiryDate:       in.ExpiryDate,
		CreatedAt:        u.now(),
		Visits:           visits,
	})
}

// Update replaces the editable fields of an existing customer. The
// membership number and creation time are kept.
func (u *CustomerUseCase) Update(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error) {
	in = in.Normalize()
	if err := validateCustomer(in); err != nil {
		return nil, err
	}

	current, err := u.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.FirstName = in.FirstName
	updated.LastName = in.LastName
	updated.Email = in.Email
	updated.Phone = in.Phone
	updated.MembershipType = in.MembershipType
	updated.ExpiryDate = in.ExpiryDate
	if in.Visits != nil {
		updated.Visits = *in.Visits
	}

	return u.customers.Update(ctx, updated)
}

// Delete removes a customer.
func (u *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return u.customers.Delete(ctx, id)
}

// Stats aggregates the whole customer set.
func (u *CustomerUseCase) Stats(ctx context.Context) (*model.Stats, error) {
	return u.customers.Stats(ctx, u.now())
}

// DecrementVisits consumes one visit. A missing customer yields nil.
func (u *CustomerUseCase) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	return absentOnMiss(u.customers.DecrementVisits(ctx, id))
}

// QRPayload returns the verification URL path encoded on a membership card.
func (u *CustomerUseCase) QRPayload(ctx context.Context, id string) (string, error) {
	customer, err := u.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	values := url.Values{}
	if customer == nil {
		values.Set("error", verifyErrorNotFound)
	} else {
		values.Set("membershipNumber", customer.MembershipNumber)
	}
	return verifyPath + "?" + values.Encode(), nil
}

// Verify resolves a scanned membership number.
func (u *CustomerUseCase) Verify(ctx context.Context, membershipNumber string) (*model.Customer, error) {
	if strings.TrimSpace(membershipNumber) == "" {
		return nil, fmt.Errorf("membership number is required: %w", domainErrors.ErrValidation)
	}
	return u.GetByMembershipNumber(ctx, membershipNumber)
}

func absentOnMiss(customer *model.Customer, err error) (*model.Customer, error) {
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func validateCustomer(in model.CustomerInput) error {
	var problems []string
	if in.FirstName == "" {
		problems = append(problems, "first name is required")
	}
	if in.LastName == "" {
		problems = append(problems, "last name is required")
	}
	if !strings.Contains(in.Email, "@") {
		problems = append(problems, "email is invalid")
	}
	if !in.MembershipType.Valid() {
		problems = append(problems, "membership type is invalid")
	}
	if in.ExpiryDate.IsZero() {
		problems = append(problems, "expiry date is required")
	}
	if in.Visits != nil && *in.Visits < 0 {
		problems = append(problems, "visits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), domainErrors.ErrValidation)
	}
	return nil
}

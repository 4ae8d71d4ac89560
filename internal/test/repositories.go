package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
	"github.com/polkiloo/membership/internal/query"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[int64]*model.User), Next: 1}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[int64]*model.User)
	}
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	s.Users[user.ID] = &user
	cp := user
	return &cp, nil
}

// GetByEmail fetches user by email.
func (s *UserRepositoryStub) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier.
func (s *UserRepositoryStub) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.Users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// List returns all users ordered by id.
func (s *UserRepositoryStub) List(context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces name and role of a stored user.
func (s *UserRepositoryStub) Update(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Users[user.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored.FullName = user.FullName
	stored.Role = user.Role
	cp := *stored
	return &cp, nil
}

// Delete removes a stored user.
func (s *UserRepositoryStub) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Users[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Users, id)
	return nil
}

// CustomerRepositoryStub keeps customers in memory. Fn overrides take
// precedence and Err fails every call.
type CustomerRepositoryStub struct {
	mu        sync.Mutex
	Customers []model.Customer
	Err       error

	CreateFn func(context.Context, model.Customer) (*model.Customer, error)
	ListFn   func(context.Context) ([]model.Customer, error)
}

func (s *CustomerRepositoryStub) indexOf(id string) int {
	for i, c := range s.Customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// List returns a copy of the stored customers.
func (s *CustomerRepositoryStub) List(ctx context.Context) ([]model.Customer, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.Customer{}, s.Customers...), nil
}

// Paginate applies the shared query engine.
func (s *CustomerRepositoryStub) Paginate(ctx context.Context, q model.PageQuery) (*model.Page, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Paginate(all, q), nil
}

// GetByID finds a customer by id.
func (s *CustomerRepositoryStub) GetByID(_ context.Context, id string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if i := s.indexOf(id); i >= 0 {
		c := s.Customers[i]
		return &c, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByMembershipNumber finds a customer by membership number.
func (s *CustomerRepositoryStub) GetByMembershipNumber(_ context.Context, number string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.Customers {
		if c.MembershipNumber == number {
			return &c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Create appends a customer.
func (s *CustomerRepositoryStub) Create(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Customers = append(s.Customers, customer)
	return &customer, nil
}

// Update replaces a stored customer.
func (s *CustomerRepositoryStub) Update(_ context.Context, customer model.Customer) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i := s.indexOf(customer.ID)
	if i < 0 {
		return nil, domainErrors.ErrNotFound
	}
	s.Customers[i] = customer
	return &customer, nil
}

// Delete removes a stored customer.
func (s *CustomerRepositoryStub) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domainErrors.ErrNotFound
	}
	s.Customers = append(s.Customers[:i], s.Customers[i+1:]...)
	return nil
}

// Stats applies the shared aggregator.
func (s *CustomerRepositoryStub) Stats(ctx context.Context, now time.Time) (*model.Stats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Aggregate(all, now), nil
}

// DecrementVisits consumes one visit when any remain.
func (s *CustomerRepositoryStub) DecrementVisits(_ context.Context, id string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, domainErrors.ErrNotFound
	}
	if s.Customers[i].Visits > 0 {
		s.Customers[i].Visits--
	}
	c := s.Customers[i]
	return &c, nil
}

// LocalSourceStub exposes a customer stub as a clearable local store.
type LocalSourceStub struct {
	Repo     *CustomerRepositoryStub
	ClearErr error
	Cleared  bool
}

// Customers returns the wrapped repository.
func (s *LocalSourceStub) Customers() repository.CustomerRepository {
	return s.Repo
}

// Clear empties the wrapped repository.
func (s *LocalSourceStub) Clear(context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Repo.mu.Lock()
	s.Repo.Customers = nil
	s.Repo.mu.Unlock()
	s.Cleared = true
	return nil
}

var (
	_ repository.UserRepository     = (*UserRepositoryStub)(nil)
	_ repository.CustomerRepository = (*CustomerRepositoryStub)(nil)
)

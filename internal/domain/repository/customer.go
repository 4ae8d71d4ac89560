package repository

import (
	"context"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// CustomerRepository is the persistence contract shared by every customer backend.
// Lookups and mutations on a missing record return domain ErrNotFound.
type CustomerRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	Paginate(ctx context.Context, q model.PageQuery) (*model.Page, error)
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	GetByMembershipNumber(ctx context.Context, number string) (*model.Customer, error)
	Create(ctx context.Context, customer model.Customer) (*model.Customer, error)
	Update(ctx context.Context, customer model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, now time.Time) (*model.Stats, error)
	DecrementVisits(ctx context.Context, id string) (*model.Customer, error)
}

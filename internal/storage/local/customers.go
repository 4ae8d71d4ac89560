package local

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/query"
)

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	var result []model.Customer
	err := r.store.view(ctx, func(doc *document) error {
		result = append([]model.Customer(nil), doc.Customers...)
		return nil
	})
	return result, err
}

func (r *customerRepository) Paginate(ctx context.Context, q model.PageQuery) (*model.Page, error) {
	customers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Paginate(customers, q), nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.find(ctx, func(c model.Customer) bool { return c.ID == id })
}

// GetByMembershipNumber returns the most recently created holder of number,
// the same record the postgres backend picks when numbers collide.
func (r *customerRepository) GetByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	var found *model.Customer
	err := r.store.view(ctx, func(doc *document) error {
		for _, c := range doc.Customers {
			if c.MembershipNumber != number {
				continue
			}
			if found == nil || c.CreatedAt.After(found.CreatedAt) {
				c := c
				found = &c
			}
		}
		if found == nil {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *customerRepository) find(ctx context.Context, match func(model.Customer) bool) (*model.Customer, error) {
	var found *model.Customer
	err := r.store.view(ctx, func(doc *document) error {
		for _, c := range doc.Customers {
			if match(c) {
				c := c
				found = &c
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *customerRepository) Create(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	err := r.store.update(ctx, func(doc *document) error {
		for _, c := range doc.Customers {
			if c.ID == customer.ID {
				return domainErrors.ErrAlreadyExists
			}
		}
		doc.Customers = append(doc.Customers, customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	var updated model.Customer
	err := r.store.update(ctx, func(doc *document) error {
		for i, c := range doc.Customers {
			if c.ID != customer.ID {
				continue
			}
			customer.MembershipNumber = c.MembershipNumber
			customer.CreatedAt = c.CreatedAt
			doc.Customers[i] = customer
			updated = customer
			return nil
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(doc *document) error {
		kept := doc.Customers[:0]
		removed := false
		for _, c := range doc.Customers {
			if c.ID == id {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		if !removed {
			return domainErrors.ErrNotFound
		}
		doc.Customers = kept
		return nil
	})
}

func (r *customerRepository) Stats(ctx context.Context, now time.Time) (*model.Stats, error) {
	customers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Aggregate(customers, now), nil
}

func (r *customerRepository) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	var result model.Customer
	err := r.store.update(ctx, func(doc *document) error {
		for i, c := range doc.Customers {
			if c.ID != id {
				continue
			}
			if c.Visits > 0 {
				doc.Customers[i].Visits = c.Visits - 1
			}
			result = doc.Customers[i]
			return nil
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

package cached

import (
	"context"

	"github.com/flexprice/invoicely/internal/cache"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
)

// customerRepository serves Get from cache and invalidates on writes.
// Invoice listings resolve a customer per invoice, so Get is the hot path.
type customerRepository struct {
	customer.Repository
	cache cache.Cache
}

// NewCustomerRepository wraps a customer repository with a read-through cache
func NewCustomerRepository(next customer.Repository, c cache.Cache) customer.Repository {
	return &customerRepository{Repository: next, cache: c}
}

func customerKey(ctx context.Context, id string) string {
	return cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id)
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	span := cache.StartCacheSpan(ctx, "customer", "get", map[string]interface{}{
		"customer_id": id,
	})
	defer cache.FinishSpan(span)

	key := customerKey(ctx, id)
	if v, ok := r.cache.Get(ctx, key); ok {
		if c, ok := v.(*customer.Customer); ok {
			cache.SetSpanHit(span, true)
			cp := *c
			return &cp, nil
		}
	}
	cache.SetSpanHit(span, false)

	c, err := r.Repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cp := *c
	r.cache.Set(ctx, key, &cp, 0)
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	if err := r.Repository.Update(ctx, c); err != nil {
		return err
	}
	r.cache.Delete(ctx, customerKey(ctx, c.ID))
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(ctx, customerKey(ctx, id))
	return nil
}

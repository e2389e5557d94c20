package memory

import (
	"context"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

// CustomerStore implements customer.Repository
type CustomerStore struct {
	*Store[*customer.Customer]
}

// NewCustomerStore creates a new in-memory customer store
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{
		Store: NewStore("customer", copyCustomer),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *CustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	return s.Store.Create(ctx, c.ID, c)
}

func (s *CustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenantMatches(ctx, c.TenantID) {
		return nil, s.notFound(id)
	}
	return c, nil
}

func (s *CustomerStore) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}
	return s.Store.List(ctx, filter, customerFilterFn, nil)
}

func (s *CustomerStore) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	return s.Store.Count(ctx, filter, customerFilterFn)
}

func (s *CustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	return s.Store.Update(ctx, c.ID, c)
}

func (s *CustomerStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func customerFilterFn(ctx context.Context, c *customer.Customer, filter interface{}) bool {
	if c == nil || !tenantMatches(ctx, c.TenantID) {
		return false
	}

	f, ok := filter.(*types.CustomerFilter)
	if !ok || f == nil {
		return true
	}

	if len(f.CustomerIDs) > 0 && !lo.Contains(f.CustomerIDs, c.ID) {
		return false
	}

	if f.Email != "" && c.Email != f.Email {
		return false
	}

	return c.Matches(f.SearchQuery)
}

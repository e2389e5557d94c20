package memory

import (
	"context"

	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

// SubscriptionStore implements subscription.Repository
type SubscriptionStore struct {
	*Store[*subscription.Subscription]
}

// NewSubscriptionStore creates a new in-memory subscription store
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		Store: NewStore("subscription", copySubscription),
	}
}

func copySubscription(s *subscription.Subscription) *subscription.Subscription {
	if s == nil {
		return nil
	}
	cp := *s
	cp.CustomerName = ""
	if s.PausedAt != nil {
		cp.PausedAt = lo.ToPtr(*s.PausedAt)
	}
	if s.CancelledAt != nil {
		cp.CancelledAt = lo.ToPtr(*s.CancelledAt)
	}
	return &cp
}

func (s *SubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	return s.Store.Create(ctx, sub.ID, sub)
}

func (s *SubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenantMatches(ctx, sub.TenantID) {
		return nil, s.notFound(id)
	}
	return sub, nil
}

func (s *SubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	if _, err := s.Get(ctx, sub.ID); err != nil {
		return err
	}
	return s.Store.Update(ctx, sub.ID, sub)
}

func (s *SubscriptionStore) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	if filter == nil {
		filter = types.NewNoLimitSubscriptionFilter()
	}
	return s.Store.List(ctx, filter, subscriptionFilterFn, nil)
}

func (s *SubscriptionStore) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	return s.Store.Count(ctx, filter, subscriptionFilterFn)
}

func subscriptionFilterFn(ctx context.Context, sub *subscription.Subscription, filter interface{}) bool {
	if sub == nil || !tenantMatches(ctx, sub.TenantID) {
		return false
	}

	f, ok := filter.(*types.SubscriptionFilter)
	if !ok || f == nil {
		return true
	}

	if status, ok := f.StatusFilter(); ok && sub.Status != status {
		return false
	}

	return f.CustomerID == "" || sub.CustomerID == f.CustomerID
}

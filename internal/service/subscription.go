package service

import (
	"context"

	"github.com/flexprice/invoicely/internal/api/dto"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	PauseSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ResumeSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	sub := req.ToSubscription(ctx, s.Config.Billing, s.today())
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	sub.CustomerName = cust.Name

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"plan_name", sub.PlanName,
	)
	resp := dto.NewSubscriptionResponse(sub, s.today())
	s.publishEvent(ctx, types.EventSubscriptionCreated, sub.ID, resp)
	return resp, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("subscription ID is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation)
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCustomerNames(ctx, sub); err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponse(sub, s.today()), nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCustomerNames(ctx, subs...); err != nil {
		return nil, err
	}

	today := s.today()
	items := lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return dto.NewSubscriptionResponse(sub, today)
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

// resolveCustomerNames fills the denormalised customer name used by listings
func (s *subscriptionService) resolveCustomerNames(ctx context.Context, subs ...*subscription.Subscription) error {
	if len(subs) == 0 {
		return nil
	}

	filter := types.NewNoLimitCustomerFilter()
	filter.CustomerIDs = lo.Uniq(lo.Map(subs, func(sub *subscription.Subscription, _ int) string {
		return sub.CustomerID
	}))

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	names := lo.SliceToMap(customers, func(c *customer.Customer) (string, string) {
		return c.ID, c.Name
	})

	for _, sub := range subs {
		sub.CustomerName = names[sub.CustomerID]
	}
	return nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == types.SubscriptionStatusCancelled {
		return nil, ierr.NewError("subscription is cancelled").
			WithHint("Cancelled subscriptions cannot be changed").
			WithReportableDetails(map[string]any{
				"subscription_id": id,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	req.Apply(sub)
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	sub.Touch(ctx)

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return s.finish(ctx, sub, types.EventSubscriptionUpdated)
}

func (s *subscriptionService) PauseSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	return s.transition(ctx, id, types.SubscriptionStatusPaused, types.EventSubscriptionPaused,
		func(sub *subscription.Subscription) error {
			if sub.Status != types.SubscriptionStatusActive {
				return invalidSubscriptionTransition(sub, types.SubscriptionStatusPaused)
			}
			now := s.Clock.Now()
			sub.PausedAt = &now
			return nil
		})
}

func (s *subscriptionService) ResumeSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	return s.transition(ctx, id, types.SubscriptionStatusActive, types.EventSubscriptionResumed,
		func(sub *subscription.Subscription) error {
			if sub.Status != types.SubscriptionStatusPaused {
				return invalidSubscriptionTransition(sub, types.SubscriptionStatusActive)
			}
			sub.PausedAt = nil
			return nil
		})
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	return s.transition(ctx, id, types.SubscriptionStatusCancelled, types.EventSubscriptionCancelled,
		func(sub *subscription.Subscription) error {
			if sub.Status == types.SubscriptionStatusCancelled {
				return invalidSubscriptionTransition(sub, types.SubscriptionStatusCancelled)
			}
			now := s.Clock.Now()
			sub.CancelledAt = &now
			return nil
		})
}

// transition loads the subscription, lets check guard and stamp it, then
// stores it with status next
func (s *subscriptionService) transition(
	ctx context.Context,
	id string,
	next types.SubscriptionStatus,
	event types.EventName,
	check func(sub *subscription.Subscription) error,
) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := check(sub); err != nil {
		return nil, err
	}

	from := sub.Status
	sub.Status = next
	sub.Touch(ctx)
	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription status changed",
		"subscription_id", sub.ID,
		"from", from,
		"to", next,
	)
	return s.finish(ctx, sub, event)
}

func (s *subscriptionService) finish(ctx context.Context, sub *subscription.Subscription, event types.EventName) (*dto.SubscriptionResponse, error) {
	if err := s.resolveCustomerNames(ctx, sub); err != nil {
		return nil, err
	}
	resp := dto.NewSubscriptionResponse(sub, s.today())
	s.publishEvent(ctx, event, sub.ID, resp)
	return resp, nil
}

func invalidSubscriptionTransition(sub *subscription.Subscription, to types.SubscriptionStatus) error {
	return ierr.NewErrorf("cannot move subscription from %s to %s", sub.Status, to).
		WithHintf("A %s subscription cannot become %s", sub.Status, to).
		WithReportableDetails(map[string]any{
			"subscription_id": sub.ID,
			"from":            sub.Status,
			"to":              to,
		}).
		Mark(ierr.ErrInvalidOperation)
}

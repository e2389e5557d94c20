package types

import (
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPaused,
	SubscriptionStatusCancelled,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	if !lo.Contains(subscriptionStatuses, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": subscriptionStatuses,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	// MinBillingDay and MaxBillingDay bound the day of month a subscription
	// recurs on. 28 keeps every month valid.
	MinBillingDay = 1
	MaxBillingDay = 28
)

// SubscriptionFilter represents filters for subscription queries
type SubscriptionFilter struct {
	*QueryFilter
	// Status is a single status, or empty / "all" for every status
	SubscriptionStatus string `json:"subscription_status,omitempty" form:"subscription_status"`
	CustomerID         string `json:"customer_id,omitempty" form:"customer_id"`
}

// NewSubscriptionFilter creates a new SubscriptionFilter with default pagination
func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitSubscriptionFilter creates a new SubscriptionFilter with no pagination limits
func NewNoLimitSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// StatusFilter returns the status the filter selects, or false when it selects all
func (f *SubscriptionFilter) StatusFilter() (SubscriptionStatus, bool) {
	if f == nil || f.SubscriptionStatus == "" || f.SubscriptionStatus == StatusAll {
		return "", false
	}
	return SubscriptionStatus(f.SubscriptionStatus), true
}

func (f *SubscriptionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if status, ok := f.StatusFilter(); ok {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

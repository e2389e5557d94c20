package dto

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/flexprice/invoicely/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	CustomerID string                 `json:"customer_id" validate:"required"`
	PlanName   string                 `json:"plan_name" validate:"required,max=255"`
	Amount     decimal.Decimal        `json:"amount"`
	Currency   string                 `json:"currency,omitempty" validate:"omitempty,len=3"`
	Frequency  types.BillingFrequency `json:"frequency" validate:"required"`
	// start_date defaults to today
	StartDate *civil.Date `json:"start_date,omitempty"`
	// billing_day defaults to the start date's day, capped at 28
	BillingDay *int   `json:"billing_day,omitempty" validate:"omitempty,min=1,max=28"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateSubscriptionRequest changes plan terms. Status changes go through
// pause, resume and cancel.
type UpdateSubscriptionRequest struct {
	PlanName   *string                 `json:"plan_name,omitempty" validate:"omitempty,min=1,max=255"`
	Amount     *decimal.Decimal        `json:"amount,omitempty"`
	Currency   *string                 `json:"currency,omitempty" validate:"omitempty,len=3"`
	Frequency  *types.BillingFrequency `json:"frequency,omitempty"`
	BillingDay *int                    `json:"billing_day,omitempty" validate:"omitempty,min=1,max=28"`
	Notes      *string                 `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// SubscriptionResponse is a subscription with its projected next billing date.
// Cancelled subscriptions have no next billing date.
type SubscriptionResponse struct {
	*subscription.Subscription
	NextBillingDate          *civil.Date `json:"next_billing_date,omitempty"`
	FormattedNextBillingDate string      `json:"formatted_next_billing_date,omitempty"`
	FormattedAmount          string      `json:"formatted_amount"`
}

// ListSubscriptionsResponse represents the response for listing subscriptions
type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Subscription amount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateSubscriptionRequest) ToSubscription(ctx context.Context, billing config.BillingConfig, today civil.Date) *subscription.Subscription {
	startDate := lo.FromPtrOr(r.StartDate, today)
	billingDay := lo.FromPtrOr(r.BillingDay, min(startDate.Day, types.MaxBillingDay))

	currency := r.Currency
	if currency == "" {
		currency = lo.Ternary(billing.Currency != "", billing.Currency, types.DefaultCurrency)
	}

	return &subscription.Subscription{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID: r.CustomerID,
		PlanName:   r.PlanName,
		Amount:     r.Amount,
		Currency:   currency,
		Frequency:  r.Frequency,
		Status:     types.SubscriptionStatusActive,
		StartDate:  startDate,
		BillingDay: billingDay,
		Notes:      r.Notes,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Frequency != nil {
		if err := r.Frequency.Validate(); err != nil {
			return err
		}
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Subscription amount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply copies the fields present in the request onto sub
func (r *UpdateSubscriptionRequest) Apply(sub *subscription.Subscription) {
	if r.PlanName != nil {
		sub.PlanName = *r.PlanName
	}
	if r.Amount != nil {
		sub.Amount = *r.Amount
	}
	if r.Currency != nil {
		sub.Currency = *r.Currency
	}
	if r.Frequency != nil {
		sub.Frequency = *r.Frequency
	}
	if r.BillingDay != nil {
		sub.BillingDay = *r.BillingDay
	}
	if r.Notes != nil {
		sub.Notes = *r.Notes
	}
}

func NewSubscriptionResponse(sub *subscription.Subscription, today civil.Date) *SubscriptionResponse {
	resp := &SubscriptionResponse{
		Subscription:    sub,
		FormattedAmount: types.FormatCurrency(sub.Amount, sub.Currency),
	}
	if sub.Status != types.SubscriptionStatusCancelled {
		next := sub.NextBillingDate(today)
		resp.NextBillingDate = &next
		resp.FormattedNextBillingDate = types.FormatDate(next)
	}
	return resp
}

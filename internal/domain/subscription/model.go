package subscription

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge for a customer on a plan
type Subscription struct {
	ID          string                   `json:"id"`
	CustomerID  string                   `json:"customer_id"`
	PlanName    string                   `json:"plan_name"`
	Amount      decimal.Decimal          `json:"amount"`
	Currency    string                   `json:"currency"`
	Frequency   types.BillingFrequency   `json:"frequency"`
	Status      types.SubscriptionStatus `json:"status"`
	StartDate   civil.Date               `json:"start_date"`
	BillingDay  int                      `json:"billing_day"`
	Notes       string                   `json:"notes,omitempty"`
	PausedAt    *time.Time               `json:"paused_at,omitempty"`
	CancelledAt *time.Time               `json:"cancelled_at,omitempty"`

	// CustomerName is resolved for listings and never persisted
	CustomerName string `json:"customer_name,omitempty"`

	types.BaseModel
}

// NextBillingDate projects the next billing occurrence on or after asOf
func (s *Subscription) NextBillingDate(asOf civil.Date) civil.Date {
	return types.NextBillingDate(s.StartDate, s.BillingDay, s.Frequency, asOf)
}

// Validate checks the fields every stored subscription must satisfy
func (s *Subscription) Validate() error {
	if s.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Please select a customer for the subscription").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(s.PlanName) == "" {
		return ierr.NewError("plan_name is required").
			WithHint("Please provide a plan name").
			Mark(ierr.ErrValidation)
	}
	if s.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Subscription amount must be zero or greater").
			WithReportableDetails(map[string]any{
				"amount": s.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if err := s.Frequency.Validate(); err != nil {
		return err
	}
	if err := s.Status.Validate(); err != nil {
		return err
	}
	if s.BillingDay < types.MinBillingDay || s.BillingDay > types.MaxBillingDay {
		return ierr.NewError("billing_day out of range").
			WithHintf("Billing day must be between %d and %d", types.MinBillingDay, types.MaxBillingDay).
			WithReportableDetails(map[string]any{
				"billing_day": s.BillingDay,
			}).
			Mark(ierr.ErrValidation)
	}
	if !s.StartDate.IsValid() {
		return ierr.NewError("start_date is required").
			WithHint("Please provide a valid start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MonthlyAmount normalises the charge to a monthly figure
func (s *Subscription) MonthlyAmount() decimal.Decimal {
	if s.Frequency == types.BillingFrequencyYearly {
		return s.Amount.Div(decimal.NewFromInt(12))
	}
	return s.Amount
}

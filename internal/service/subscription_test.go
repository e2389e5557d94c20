package service

import (
	"testing"

	"github.com/flexprice/invoicely/internal/api/dto"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/testutil"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	customer string
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSubscriptionService(newTestServiceParams(&s.BaseServiceTestSuite))

	c := testutil.NewTestCustomer(s.GetContext(), "Jane Doe", "jane@acme.test", "Acme Corp")
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	s.customer = c.ID
}

func (s *SubscriptionServiceSuite) create(req dto.CreateSubscriptionRequest) *dto.SubscriptionResponse {
	resp, err := s.service.CreateSubscription(s.GetContext(), req)
	s.Require().NoError(err)
	return resp
}

func (s *SubscriptionServiceSuite) TestCreateSubscription() {
	testCases := []struct {
		name       string
		request    dto.CreateSubscriptionRequest
		billingDay int
		next       string
	}{
		{
			name: "defaults_to_today",
			request: dto.CreateSubscriptionRequest{
				PlanName:  "Pro",
				Amount:    decimal.NewFromInt(49),
				Frequency: types.BillingFrequencyMonthly,
			},
			billingDay: 20,
			next:       "2024-02-20",
		},
		{
			name: "billing_day_capped_at_28",
			request: dto.CreateSubscriptionRequest{
				PlanName:  "Pro",
				Amount:    decimal.NewFromInt(49),
				Frequency: types.BillingFrequencyMonthly,
				StartDate: lo.ToPtr(types.MustParseDate("2024-01-31")),
			},
			billingDay: 28,
			next:       "2024-02-28",
		},
		{
			name: "billing_day_passed_moves_to_next_month",
			request: dto.CreateSubscriptionRequest{
				PlanName:   "Pro",
				Amount:     decimal.NewFromInt(49),
				Frequency:  types.BillingFrequencyMonthly,
				StartDate:  lo.ToPtr(types.MustParseDate("2023-11-10")),
				BillingDay: lo.ToPtr(10),
			},
			billingDay: 10,
			next:       "2024-03-10",
		},
		{
			name: "yearly_anchors_on_start_date",
			request: dto.CreateSubscriptionRequest{
				PlanName:   "Enterprise",
				Amount:     decimal.NewFromInt(1200),
				Frequency:  types.BillingFrequencyYearly,
				StartDate:  lo.ToPtr(types.MustParseDate("2023-03-15")),
				BillingDay: lo.ToPtr(15),
			},
			billingDay: 15,
			next:       "2024-03-15",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.request.CustomerID = s.customer
			resp := s.create(tc.request)
			s.Equal(types.SubscriptionStatusActive, resp.Status)
			s.Equal(tc.billingDay, resp.BillingDay)
			s.Equal("USD", resp.Currency)
			s.Equal("Jane Doe", resp.CustomerName)
			s.Require().NotNil(resp.NextBillingDate)
			s.Equal(types.MustParseDate(tc.next), *resp.NextBillingDate)
			s.Equal(types.FormatDate(types.MustParseDate(tc.next)), resp.FormattedNextBillingDate)
		})
	}
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionValidation() {
	testCases := []struct {
		name    string
		request dto.CreateSubscriptionRequest
		check   func(err error) bool
	}{
		{
			name:    "missing_plan",
			request: dto.CreateSubscriptionRequest{CustomerID: s.customer, Frequency: types.BillingFrequencyMonthly},
			check:   ierr.IsValidation,
		},
		{
			name:    "unknown_frequency",
			request: dto.CreateSubscriptionRequest{CustomerID: s.customer, PlanName: "Pro", Frequency: "weekly"},
			check:   ierr.IsValidation,
		},
		{
			name: "billing_day_out_of_range",
			request: dto.CreateSubscriptionRequest{
				CustomerID: s.customer, PlanName: "Pro", Frequency: types.BillingFrequencyMonthly, BillingDay: lo.ToPtr(31),
			},
			check: ierr.IsValidation,
		},
		{
			name: "negative_amount",
			request: dto.CreateSubscriptionRequest{
				CustomerID: s.customer, PlanName: "Pro", Frequency: types.BillingFrequencyMonthly, Amount: decimal.NewFromInt(-1),
			},
			check: ierr.IsValidation,
		},
		{
			name:    "unknown_customer",
			request: dto.CreateSubscriptionRequest{CustomerID: "cust_missing", PlanName: "Pro", Frequency: types.BillingFrequencyMonthly},
			check:   ierr.IsNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateSubscription(s.GetContext(), tc.request)
			s.Error(err)
			s.True(tc.check(err), err.Error())
		})
	}
	s.Empty(s.GetPublisher().Events())
}

func (s *SubscriptionServiceSuite) TestLifecycle() {
	sub := s.create(dto.CreateSubscriptionRequest{
		CustomerID: s.customer,
		PlanName:   "Pro",
		Amount:     decimal.NewFromInt(49),
		Frequency:  types.BillingFrequencyMonthly,
	})

	_, err := s.service.ResumeSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))

	paused, err := s.service.PauseSubscription(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPaused, paused.Status)
	s.NotNil(paused.PausedAt)
	s.NotNil(paused.NextBillingDate)

	_, err = s.service.PauseSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))

	resumed, err := s.service.ResumeSubscription(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resumed.Status)
	s.Nil(resumed.PausedAt)

	cancelled, err := s.service.CancelSubscription(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, cancelled.Status)
	s.NotNil(cancelled.CancelledAt)
	s.Nil(cancelled.NextBillingDate)
	s.Empty(cancelled.FormattedNextBillingDate)

	_, err = s.service.CancelSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))
	_, err = s.service.ResumeSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))
	_, err = s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{PlanName: lo.ToPtr("Max")})
	s.True(ierr.IsInvalidOperation(err))

	s.Equal([]types.EventName{
		types.EventSubscriptionCreated,
		types.EventSubscriptionPaused,
		types.EventSubscriptionResumed,
		types.EventSubscriptionCancelled,
	}, s.GetPublisher().Names())
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription() {
	sub := s.create(dto.CreateSubscriptionRequest{
		CustomerID: s.customer,
		PlanName:   "Pro",
		Amount:     decimal.NewFromInt(49),
		Frequency:  types.BillingFrequencyMonthly,
	})

	resp, err := s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{
		PlanName:   lo.ToPtr("Max"),
		Amount:     lo.ToPtr(decimal.NewFromInt(99)),
		BillingDay: lo.ToPtr(25),
	})
	s.NoError(err)
	s.Equal("Max", resp.PlanName)
	s.True(decimal.NewFromInt(99).Equal(resp.Amount))
	s.Equal("$99.00", resp.FormattedAmount)
	s.Equal(types.MustParseDate("2024-02-25"), *resp.NextBillingDate)

	_, err = s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{
		Frequency: lo.ToPtr(types.BillingFrequency("daily")),
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateSubscription(s.GetContext(), "subs_missing", dto.UpdateSubscriptionRequest{})
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestListSubscriptions() {
	for _, plan := range []string{"Starter", "Pro", "Max"} {
		s.create(dto.CreateSubscriptionRequest{
			CustomerID: s.customer,
			PlanName:   plan,
			Amount:     decimal.NewFromInt(10),
			Frequency:  types.BillingFrequencyMonthly,
		})
	}
	list, err := s.service.ListSubscriptions(s.GetContext(), nil)
	s.NoError(err)
	s.Len(list.Items, 3)
	s.Equal(3, list.Pagination.Total)
	s.Equal("Jane Doe", list.Items[0].CustomerName)

	_, err = s.service.PauseSubscription(s.GetContext(), list.Items[1].ID)
	s.NoError(err)

	filter := types.NewSubscriptionFilter()
	filter.SubscriptionStatus = string(types.SubscriptionStatusPaused)
	paused, err := s.service.ListSubscriptions(s.GetContext(), filter)
	s.NoError(err)
	s.Len(paused.Items, 1)
	s.Equal("Pro", paused.Items[0].PlanName)

	filter = types.NewSubscriptionFilter()
	filter.CustomerID = "cust_other"
	none, err := s.service.ListSubscriptions(s.GetContext(), filter)
	s.NoError(err)
	s.Empty(none.Items)
	s.Zero(none.Pagination.Total)

	filter = types.NewSubscriptionFilter()
	filter.SubscriptionStatus = "expired"
	_, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.True(ierr.IsValidation(err))
}

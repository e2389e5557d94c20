package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/api/dto"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

type DashboardService interface {
	GetSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	GetRevenueSeries(ctx context.Context, year int) (*dto.RevenueSeriesResponse, error)
}

type dashboardService struct {
	ServiceParams
}

func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
	}
}

// GetSummary reads invoices, customers and subscriptions concurrently and
// aggregates the headline figures
func (s *dashboardService) GetSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	var (
		invoices      []*invoice.Invoice
		subscriptions []*subscription.Subscription
		customers     []*customer.Customer
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		invoices, err = s.InvoiceRepo.List(ctx, nil)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		customers, err = s.CustomerRepo.List(ctx, types.NewNoLimitCustomerFilter())
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		subscriptions, err = s.SubRepo.List(ctx, types.NewNoLimitSubscriptionFilter())
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		TotalRevenue:            decimal.Zero,
		OutstandingAmount:       decimal.Zero,
		MonthlyRecurringRevenue: decimal.Zero,
		TotalCustomers:          len(customers),
		Currency:                s.currency(),
	}

	today := s.today()
	monthStart := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	lastMonthStart := types.AddClampedDate(monthStart, 0, -1)

	var (
		revenueThisMonth, revenueLastMonth         = decimal.Zero, decimal.Zero
		outstandingThisMonth, outstandingLastMonth = decimal.Zero, decimal.Zero
		subscriptionsAtMonthStart                  int
		customersAtMonthStart                      int
	)

	for _, inv := range invoices {
		thisMonth := sameMonth(inv.IssueDate, monthStart)
		lastMonth := sameMonth(inv.IssueDate, lastMonthStart)
		switch {
		case inv.Status == types.InvoiceStatusPaid && thisMonth:
			revenueThisMonth = revenueThisMonth.Add(inv.Total())
		case inv.Status == types.InvoiceStatusPaid && lastMonth:
			revenueLastMonth = revenueLastMonth.Add(inv.Total())
		case inv.Status.IsOutstanding() && thisMonth:
			outstandingThisMonth = outstandingThisMonth.Add(inv.Total())
		case inv.Status.IsOutstanding() && lastMonth:
			outstandingLastMonth = outstandingLastMonth.Add(inv.Total())
		}

		switch {
		case inv.Status == types.InvoiceStatusPaid:
			resp.TotalRevenue = resp.TotalRevenue.Add(inv.Total())
		case inv.Status.IsOutstanding():
			resp.OutstandingAmount = resp.OutstandingAmount.Add(inv.Total())
			resp.OutstandingInvoices++
			if inv.Status == types.InvoiceStatusOverdue {
				resp.OverdueInvoices++
			}
		}
	}

	for _, sub := range subscriptions {
		if sub.Status != types.SubscriptionStatusActive {
			continue
		}
		resp.ActiveSubscriptions++
		resp.MonthlyRecurringRevenue = resp.MonthlyRecurringRevenue.Add(sub.MonthlyAmount())
		if sub.StartDate.Before(monthStart) {
			subscriptionsAtMonthStart++
		}
	}

	for _, c := range customers {
		if types.Today(c.CreatedAt).Before(monthStart) {
			customersAtMonthStart++
		}
	}

	resp.TotalRevenueChange = percentChange(revenueThisMonth, revenueLastMonth)
	resp.OutstandingChange = percentChange(outstandingThisMonth, outstandingLastMonth)
	resp.SubscriptionsChange = percentChange(
		decimal.NewFromInt(int64(resp.ActiveSubscriptions)),
		decimal.NewFromInt(int64(subscriptionsAtMonthStart)),
	)
	resp.CustomersChange = percentChange(
		decimal.NewFromInt(int64(len(customers))),
		decimal.NewFromInt(int64(customersAtMonthStart)),
	)

	resp.FormattedTotalRevenue = types.FormatCurrency(resp.TotalRevenue, resp.Currency)
	resp.FormattedOutstandingAmount = types.FormatCurrency(resp.OutstandingAmount, resp.Currency)
	return resp, nil
}

// GetRevenueSeries returns paid revenue for each month of year, keyed by the
// invoice issue month. A zero year means the current year.
func (s *dashboardService) GetRevenueSeries(ctx context.Context, year int) (*dto.RevenueSeriesResponse, error) {
	if year == 0 {
		year = s.today().Year
	}
	if year < 1970 || year > 9999 {
		return nil, ierr.NewError("invalid year").
			WithHint("Year must be between 1970 and 9999").
			WithReportableDetails(map[string]any{
				"year": year,
			}).
			Mark(ierr.ErrValidation)
	}

	invoices, err := s.InvoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.RevenueSeriesResponse{
		Year:   year,
		Total:  decimal.Zero,
		Months: make([]dto.MonthlyRevenue, 12),
	}
	for m := range resp.Months {
		resp.Months[m] = dto.MonthlyRevenue{
			Month:   fmt.Sprintf("%04d-%02d", year, m+1),
			Revenue: decimal.Zero,
		}
	}

	for _, inv := range invoices {
		if inv.Status != types.InvoiceStatusPaid || inv.IssueDate.Year != year {
			continue
		}
		month := &resp.Months[inv.IssueDate.Month-time.January]
		month.Revenue = month.Revenue.Add(inv.Total())
		month.InvoiceCount++
		resp.Total = resp.Total.Add(inv.Total())
	}
	return resp, nil
}

func sameMonth(d, monthStart civil.Date) bool {
	return d.Year == monthStart.Year && d.Month == monthStart.Month
}

// percentChange is nil when there is nothing to compare against
func percentChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	return &change
}

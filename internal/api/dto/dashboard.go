package dto

import (
	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse holds the headline figures of the dashboard
type DashboardSummaryResponse struct {
	// total_revenue is the sum of paid invoice totals
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	// outstanding_amount is the sum of pending and overdue invoice totals
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`

	// outstanding_invoices counts pending and overdue invoices
	OutstandingInvoices int `json:"outstanding_invoices"`

	// overdue_invoices counts overdue invoices alone
	OverdueInvoices int `json:"overdue_invoices"`

	ActiveSubscriptions int `json:"active_subscriptions"`
	TotalCustomers      int `json:"total_customers"`

	// monthly_recurring_revenue normalises active subscriptions to a monthly figure
	MonthlyRecurringRevenue decimal.Decimal `json:"monthly_recurring_revenue"`

	Currency                   string `json:"currency"`
	FormattedTotalRevenue      string `json:"formatted_total_revenue"`
	FormattedOutstandingAmount string `json:"formatted_outstanding_amount"`

	// The change fields are percentages against the previous month, rounded
	// to one place. They are omitted when the previous figure is zero.
	// Revenue and outstanding compare invoices issued in each month, the
	// counts compare against what existed when the current month began.
	TotalRevenueChange  *decimal.Decimal `json:"total_revenue_change,omitempty"`
	OutstandingChange   *decimal.Decimal `json:"outstanding_change,omitempty"`
	SubscriptionsChange *decimal.Decimal `json:"subscriptions_change,omitempty"`
	CustomersChange     *decimal.Decimal `json:"customers_change,omitempty"`
}

// MonthlyRevenue is the paid revenue of invoices issued in one month
type MonthlyRevenue struct {
	// month is YYYY-MM
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

// RevenueSeriesResponse is the monthly paid revenue of a calendar year
type RevenueSeriesResponse struct {
	Year   int              `json:"year"`
	Total  decimal.Decimal  `json:"total"`
	Months []MonthlyRevenue `json:"months"`
}

// RevenueSeriesRequest selects the calendar year of the revenue series,
// the current year when omitted
type RevenueSeriesRequest struct {
	Year int `form:"year"`
}

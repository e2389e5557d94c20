package customer

import (
	"github.com/shopspring/decimal"
)

// Stats are lifetime figures derived from a customer's invoices.
// They are recomputed on demand and never stored.
type Stats struct {
	// TotalInvoices counts invoices in every status
	TotalInvoices int `json:"total_invoices"`
	// TotalSpent sums the totals of paid invoices
	TotalSpent decimal.Decimal `json:"total_spent"`
	// OutstandingBalance sums the totals of pending and overdue invoices
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// ZeroStats is the stats of a customer without invoices
func ZeroStats() Stats {
	return Stats{
		TotalSpent:         decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}
}

// Add returns the element-wise sum of two stats
func (s Stats) Add(other Stats) Stats {
	return Stats{
		TotalInvoices:      s.TotalInvoices + other.TotalInvoices,
		TotalSpent:         s.TotalSpent.Add(other.TotalSpent),
		OutstandingBalance: s.OutstandingBalance.Add(other.OutstandingBalance),
	}
}

// Equal compares stats by value
func (s Stats) Equal(other Stats) bool {
	return s.TotalInvoices == other.TotalInvoices &&
		s.TotalSpent.Equal(other.TotalSpent) &&
		s.OutstandingBalance.Equal(other.OutstandingBalance)
}

// CustomerWithStats is a customer together with its derived stats
type CustomerWithStats struct {
	*Customer
	Stats
}

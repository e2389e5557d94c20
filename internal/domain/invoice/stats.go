package invoice

import (
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
)

// StatsForCustomer aggregates the invoices belonging to customerID.
// Every status counts toward TotalInvoices; paid totals make up TotalSpent
// and pending plus overdue totals make up OutstandingBalance.
func StatsForCustomer(customerID string, invoices []*Invoice) customer.Stats {
	stats := customer.ZeroStats()
	for _, inv := range invoices {
		if inv == nil || inv.CustomerID != customerID {
			continue
		}
		stats.TotalInvoices++

		switch {
		case inv.Status == types.InvoiceStatusPaid:
			stats.TotalSpent = stats.TotalSpent.Add(inv.Total())
		case inv.Status.IsOutstanding():
			stats.OutstandingBalance = stats.OutstandingBalance.Add(inv.Total())
		}
	}
	return stats
}

// StatsByCustomer aggregates stats for every customer in a single pass
func StatsByCustomer(invoices []*Invoice) map[string]customer.Stats {
	byCustomer := make(map[string][]*Invoice)
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		byCustomer[inv.CustomerID] = append(byCustomer[inv.CustomerID], inv)
	}

	result := make(map[string]customer.Stats, len(byCustomer))
	for customerID, list := range byCustomer {
		result[customerID] = StatsForCustomer(customerID, list)
	}
	return result
}

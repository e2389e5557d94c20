package invoice

import (
	"sort"
	"strings"

	"github.com/flexprice/invoicely/internal/types"
)

// FilterInvoices returns the invoices matching every predicate set on the
// filter, in their original order. A nil filter matches everything.
func FilterInvoices(invoices []*Invoice, filter *types.InvoiceFilter) []*Invoice {
	result := make([]*Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if Matches(inv, filter) {
			result = append(result, inv)
		}
	}
	return result
}

// Matches reports whether a single invoice satisfies the filter
func Matches(inv *Invoice, filter *types.InvoiceFilter) bool {
	if inv == nil {
		return false
	}
	if filter == nil {
		return true
	}

	if status, ok := filter.StatusFilter(); ok && inv.Status != status {
		return false
	}

	if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
		return false
	}

	if q := filter.NormalizedQuery(); q != "" && !matchesQuery(inv, q) {
		return false
	}

	if filter.DateFrom != nil && inv.IssueDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && inv.IssueDate.After(*filter.DateTo) {
		return false
	}

	return true
}

// q is already lower-cased
func matchesQuery(inv *Invoice, q string) bool {
	if strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
		return true
	}
	if strings.Contains(strings.ToLower(inv.CustomerName()), q) {
		return true
	}
	company := inv.CustomerCompany()
	return company != "" && strings.Contains(strings.ToLower(company), q)
}

// SortInvoices returns a new slice ordered by key. The sort is stable in both
// directions: invoices comparing equal keep their input order. The input
// slice is never modified.
func SortInvoices(invoices []*Invoice, key types.InvoiceSortKey, direction types.SortDirection) []*Invoice {
	sorted := make([]*Invoice, len(invoices))
	copy(sorted, invoices)

	cmp := comparator(key)
	if cmp == nil {
		return sorted
	}

	desc := direction == types.SortDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if desc {
			c = -c
		}
		return c < 0
	})
	return sorted
}

func comparator(key types.InvoiceSortKey) func(a, b *Invoice) int {
	switch key {
	case types.InvoiceSortByInvoiceNumber:
		return func(a, b *Invoice) int { return strings.Compare(a.InvoiceNumber, b.InvoiceNumber) }
	case types.InvoiceSortByCustomer:
		return func(a, b *Invoice) int { return strings.Compare(a.CustomerName(), b.CustomerName()) }
	case types.InvoiceSortByIssueDate:
		return func(a, b *Invoice) int { return compareDates(a.IssueDate, b.IssueDate) }
	case types.InvoiceSortByDueDate:
		return func(a, b *Invoice) int { return compareDates(a.DueDate, b.DueDate) }
	case types.InvoiceSortByAmount:
		return func(a, b *Invoice) int { return a.Total().Cmp(b.Total()) }
	case types.InvoiceSortByStatus:
		return func(a, b *Invoice) int { return strings.Compare(string(a.Status), string(b.Status)) }
	}
	return nil
}

package invoice

import (
	"testing"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestStatsForCustomer(t *testing.T) {
	invoices := []*Invoice{
		newInvoice("inv_1", "INV-1", acme, "2024-01-01", types.InvoiceStatusPaid, "100"),
		newInvoice("inv_2", "INV-2", acme, "2024-01-02", types.InvoiceStatusPending, "50"),
		newInvoice("inv_3", "INV-3", acme, "2024-01-03", types.InvoiceStatusOverdue, "25"),
		newInvoice("inv_4", "INV-4", acme, "2024-01-04", types.InvoiceStatusDraft, "10"),
		newInvoice("inv_5", "INV-5", acme, "2024-01-05", types.InvoiceStatusCancelled, "7"),
		newInvoice("inv_6", "INV-6", tech, "2024-01-06", types.InvoiceStatusPaid, "1000"),
	}

	stats := StatsForCustomer(acme.ID, invoices)
	assert.Equal(t, 5, stats.TotalInvoices)
	assert.True(t, d("100").Equal(stats.TotalSpent))
	assert.True(t, d("75").Equal(stats.OutstandingBalance))
}

func TestStatsForCustomer_Empty(t *testing.T) {
	assert.True(t, customer.ZeroStats().Equal(StatsForCustomer(acme.ID, nil)))
	assert.True(t, customer.ZeroStats().Equal(StatsForCustomer("cust_missing", fixtures())))
}

func TestStatsForCustomer_AdditiveOverPartitions(t *testing.T) {
	invoices := fixtures()
	for split := 0; split <= len(invoices); split++ {
		left := StatsForCustomer(acme.ID, invoices[:split])
		right := StatsForCustomer(acme.ID, invoices[split:])
		assert.True(t, StatsForCustomer(acme.ID, invoices).Equal(left.Add(right)), "split at %d", split)
	}
}

func TestStatsByCustomer(t *testing.T) {
	byCustomer := StatsByCustomer(fixtures())
	assert.Len(t, byCustomer, 4)
	assert.Equal(t, 2, byCustomer[acme.ID].TotalInvoices)
	assert.True(t, d("9072").Equal(byCustomer[acme.ID].TotalSpent))
	assert.True(t, d("5400").Equal(byCustomer[acme.ID].OutstandingBalance))
}

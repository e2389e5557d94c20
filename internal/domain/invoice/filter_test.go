package invoice

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	acme   = &customer.Customer{ID: "cust_1", Name: "John Smith", Email: "john@acmecorp.com", Company: "Acme Corporation"}
	tech   = &customer.Customer{ID: "cust_2", Name: "Sarah Johnson", Email: "sarah@techstart.io", Company: "TechStart Inc"}
	solo   = &customer.Customer{ID: "cust_3", Name: "Michael Brown", Email: "michael@example.com"}
	global = &customer.Customer{ID: "cust_4", Name: "Emily Davis", Email: "emily@globalsolutions.com", Company: "Global Solutions"}
)

func newInvoice(id, number string, c *customer.Customer, issue string, status types.InvoiceStatus, amount string) *Invoice {
	issueDate := types.MustParseDate(issue)
	return &Invoice{
		ID:            id,
		InvoiceNumber: number,
		CustomerID:    c.ID,
		Customer:      c,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDays(30),
		Status:        status,
		LineItems:     []*LineItem{{Description: "service", Quantity: decimal.NewFromInt(1), Rate: d(amount)}},
		TaxRate:       decimal.Zero,
	}
}

func fixtures() []*Invoice {
	return []*Invoice{
		newInvoice("inv_1", "INV-202401-0001", acme, "2024-01-15", types.InvoiceStatusPaid, "9072"),
		newInvoice("inv_2", "INV-202401-0002", tech, "2024-01-20", types.InvoiceStatusPending, "5400"),
		newInvoice("inv_3", "INV-202402-0001", solo, "2024-02-01", types.InvoiceStatusOverdue, "1250"),
		newInvoice("inv_4", "INV-202402-0002", global, "2024-02-10", types.InvoiceStatusDraft, "3200"),
		newInvoice("inv_5", "INV-202402-0003", acme, "2024-02-15", types.InvoiceStatusPending, "5400"),
	}
}

func ids(invoices []*Invoice) []string {
	return lo.Map(invoices, func(inv *Invoice, _ int) string { return inv.ID })
}

func TestFilterInvoices_DefaultFilterIsIdentity(t *testing.T) {
	invoices := fixtures()
	assert.Equal(t, ids(invoices), ids(FilterInvoices(invoices, types.NewInvoiceFilter())))
	assert.Equal(t, ids(invoices), ids(FilterInvoices(invoices, &types.InvoiceFilter{})))
	assert.Equal(t, ids(invoices), ids(FilterInvoices(invoices, nil)))
}

func TestFilterInvoices(t *testing.T) {
	date := func(s string) *civil.Date { return lo.ToPtr(types.MustParseDate(s)) }

	tests := []struct {
		name   string
		filter *types.InvoiceFilter
		want   []string
	}{
		{
			name:   "status",
			filter: &types.InvoiceFilter{Status: lo.ToPtr("pending")},
			want:   []string{"inv_2", "inv_5"},
		},
		{
			name:   "status without matches",
			filter: &types.InvoiceFilter{Status: lo.ToPtr("cancelled")},
			want:   []string{},
		},
		{
			name:   "search keeps leading whitespace",
			filter: &types.InvoiceFilter{SearchQuery: " acme"},
			want:   []string{},
		},
		{
			name:   "whitespace only search is not a wildcard",
			filter: &types.InvoiceFilter{SearchQuery: "   "},
			want:   []string{},
		},
		{
			name:   "search matches company case-insensitively",
			filter: &types.InvoiceFilter{SearchQuery: "acme"},
			want:   []string{"inv_1", "inv_5"},
		},
		{
			name:   "search matches customer name",
			filter: &types.InvoiceFilter{SearchQuery: "BROWN"},
			want:   []string{"inv_3"},
		},
		{
			name:   "search matches invoice number",
			filter: &types.InvoiceFilter{SearchQuery: "202402-000"},
			want:   []string{"inv_3", "inv_4", "inv_5"},
		},
		{
			name:   "search does not match customer without company",
			filter: &types.InvoiceFilter{SearchQuery: "corporation"},
			want:   []string{"inv_1", "inv_5"},
		},
		{
			name:   "inclusive date range",
			filter: &types.InvoiceFilter{DateFrom: date("2024-01-20"), DateTo: date("2024-02-10")},
			want:   []string{"inv_2", "inv_3", "inv_4"},
		},
		{
			name:   "lower bound only",
			filter: &types.InvoiceFilter{DateFrom: date("2024-02-10")},
			want:   []string{"inv_4", "inv_5"},
		},
		{
			name:   "customer",
			filter: &types.InvoiceFilter{CustomerID: "cust_1"},
			want:   []string{"inv_1", "inv_5"},
		},
		{
			name: "predicates are combined",
			filter: &types.InvoiceFilter{
				Status:      lo.ToPtr("pending"),
				SearchQuery: "acme",
				DateFrom:    date("2024-02-01"),
			},
			want: []string{"inv_5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterInvoices(fixtures(), tt.filter)))
		})
	}
}

func TestFilterInvoices_UnresolvedCustomer(t *testing.T) {
	inv := newInvoice("inv_x", "INV-202403-0001", acme, "2024-03-01", types.InvoiceStatusDraft, "10")
	inv.Customer = nil

	assert.Empty(t, FilterInvoices([]*Invoice{inv}, &types.InvoiceFilter{SearchQuery: "acme"}))
	assert.Len(t, FilterInvoices([]*Invoice{inv}, &types.InvoiceFilter{SearchQuery: "inv-2024"}), 1)
}

func TestSortInvoices(t *testing.T) {
	tests := []struct {
		name      string
		key       types.InvoiceSortKey
		direction types.SortDirection
		want      []string
	}{
		{"number asc", types.InvoiceSortByInvoiceNumber, types.SortAsc, []string{"inv_1", "inv_2", "inv_3", "inv_4", "inv_5"}},
		{"number desc", types.InvoiceSortByInvoiceNumber, types.SortDesc, []string{"inv_5", "inv_4", "inv_3", "inv_2", "inv_1"}},
		{"customer asc", types.InvoiceSortByCustomer, types.SortAsc, []string{"inv_4", "inv_1", "inv_5", "inv_3", "inv_2"}},
		{"issue date desc", types.InvoiceSortByIssueDate, types.SortDesc, []string{"inv_5", "inv_4", "inv_3", "inv_2", "inv_1"}},
		{"due date asc", types.InvoiceSortByDueDate, types.SortAsc, []string{"inv_1", "inv_2", "inv_3", "inv_4", "inv_5"}},
		{"amount asc keeps ties in input order", types.InvoiceSortByAmount, types.SortAsc, []string{"inv_3", "inv_4", "inv_2", "inv_5", "inv_1"}},
		{"amount desc keeps ties in input order", types.InvoiceSortByAmount, types.SortDesc, []string{"inv_1", "inv_2", "inv_5", "inv_4", "inv_3"}},
		{"status asc", types.InvoiceSortByStatus, types.SortAsc, []string{"inv_4", "inv_3", "inv_1", "inv_2", "inv_5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortInvoices(fixtures(), tt.key, tt.direction)))
		})
	}
}

func TestSortInvoices_Stable(t *testing.T) {
	// every invoice has the same status so the output must equal the input
	invoices := fixtures()
	for _, inv := range invoices {
		inv.Status = types.InvoiceStatusPending
	}

	for _, dir := range []types.SortDirection{types.SortAsc, types.SortDesc} {
		assert.Equal(t, ids(invoices), ids(SortInvoices(invoices, types.InvoiceSortByStatus, dir)))
	}
}

func TestSortInvoices_DoesNotMutateInput(t *testing.T) {
	invoices := fixtures()
	before := ids(invoices)

	sorted := SortInvoices(invoices, types.InvoiceSortByAmount, types.SortDesc)
	require.Len(t, sorted, len(invoices))
	assert.Equal(t, before, ids(invoices))
	assert.NotEqual(t, before, ids(sorted))
}

func TestSortInvoices_UnknownKeyKeepsOrder(t *testing.T) {
	invoices := fixtures()
	assert.Equal(t, ids(invoices), ids(SortInvoices(invoices, types.InvoiceSortKey("color"), types.SortAsc)))
}

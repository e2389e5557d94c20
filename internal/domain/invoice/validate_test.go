package invoice

import (
	"testing"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validInvoice() *Invoice {
	return &Invoice{
		ID:         "inv_1",
		CustomerID: "cust_1",
		IssueDate:  types.MustParseDate("2024-01-15"),
		DueDate:    types.MustParseDate("2024-02-14"),
		Status:     types.InvoiceStatusDraft,
		LineItems:  []*LineItem{item("40", "150")},
		TaxRate:    d("0.08"),
	}
}

func TestInvoiceValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(inv *Invoice)
		wantErr bool
	}{
		{name: "valid", mutate: func(inv *Invoice) {}},
		{name: "due on issue date", mutate: func(inv *Invoice) { inv.DueDate = inv.IssueDate }},
		{name: "zero tax and full tax", mutate: func(inv *Invoice) { inv.TaxRate = decimal.NewFromInt(1) }},
		{name: "missing customer", mutate: func(inv *Invoice) { inv.CustomerID = "" }, wantErr: true},
		{name: "unknown status", mutate: func(inv *Invoice) { inv.Status = "refunded" }, wantErr: true},
		{name: "due before issue", mutate: func(inv *Invoice) { inv.DueDate = types.MustParseDate("2024-01-14") }, wantErr: true},
		{name: "no line items", mutate: func(inv *Invoice) { inv.LineItems = nil }, wantErr: true},
		{name: "negative quantity", mutate: func(inv *Invoice) { inv.LineItems = []*LineItem{item("-1", "10")} }, wantErr: true},
		{name: "blank description", mutate: func(inv *Invoice) { inv.LineItems[0].Description = " " }, wantErr: true},
		{name: "tax above one", mutate: func(inv *Invoice) { inv.TaxRate = d("1.5") }, wantErr: true},
		{name: "negative discount", mutate: func(inv *Invoice) { inv.DiscountAmount = d("-5") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)
			err := inv.Validate()
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err), "expected validation error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

package invoice

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model.
// Subtotal, tax and total are derived from the line items on every read.
type Invoice struct {
	ID                  string              `json:"id"`
	InvoiceNumber       string              `json:"invoice_number"`
	CustomerID          string              `json:"customer_id"`
	IssueDate           civil.Date          `json:"issue_date"`
	DueDate             civil.Date          `json:"due_date"`
	Status              types.InvoiceStatus `json:"status"`
	LineItems           []*LineItem         `json:"line_items"`
	TaxRate             decimal.Decimal     `json:"tax_rate"`
	DiscountAmount      decimal.Decimal     `json:"discount_amount"`
	Currency            string              `json:"currency"`
	Notes               string              `json:"notes,omitempty"`
	PaymentInstructions string              `json:"payment_instructions,omitempty"`
	PONumber            string              `json:"po_number,omitempty"`
	PaidAt              *time.Time          `json:"paid_at,omitempty"`

	// Customer is resolved from CustomerID by the service layer and never persisted
	Customer *customer.Customer `json:"customer,omitempty"`

	types.BaseModel
}

// Totals recomputes subtotal, tax and total from the current line items
func (i *Invoice) Totals() Totals {
	return CalculateTotals(i.LineItems, i.TaxRate, i.DiscountAmount)
}

func (i *Invoice) Subtotal() decimal.Decimal {
	return i.Totals().Subtotal
}

func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.Totals().TaxAmount
}

func (i *Invoice) Total() decimal.Decimal {
	return i.Totals().Total
}

// CustomerName is the resolved customer's name, empty when unresolved
func (i *Invoice) CustomerName() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Name
}

// CustomerCompany is the resolved customer's company, empty when absent
func (i *Invoice) CustomerCompany() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Company
}

// IsPastDue reports whether an outstanding invoice's due date is before today
func (i *Invoice) IsPastDue(today civil.Date) bool {
	return i.Status == types.InvoiceStatusPending && i.DueDate.Before(today)
}

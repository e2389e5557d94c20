package invoice

import (
	"github.com/shopspring/decimal"
)

// Totals are the derived amounts of an invoice
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// CalculateTotals computes subtotal, tax and total for a set of line items.
//
//	subtotal = Σ amount
//	tax      = subtotal × taxRate
//	total    = subtotal + tax − discount
//
// No bounds are applied to taxRate or discount, so the total may be negative.
// Nothing is rounded here; rounding happens only when formatting for display.
func CalculateTotals(items []*LineItem, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}

	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax).Sub(discount),
	}
}

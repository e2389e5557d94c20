package invoice

import (
	"github.com/shopspring/decimal"
)

// LineItem is one billable row on an invoice.
// The amount is always quantity times rate and is never stored separately.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns quantity × rate
func (li *LineItem) Amount() decimal.Decimal {
	if li == nil {
		return decimal.Zero
	}
	return li.Quantity.Mul(li.Rate)
}

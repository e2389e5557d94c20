package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, rate string) *LineItem {
	return &LineItem{Description: "item", Quantity: d(qty), Rate: d(rate)}
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name      string
		items     []*LineItem
		taxRate   decimal.Decimal
		discount  decimal.Decimal
		subtotal  decimal.Decimal
		taxAmount decimal.Decimal
		total     decimal.Decimal
	}{
		{
			name:      "consulting invoice with tax",
			items:     []*LineItem{item("40", "150"), item("20", "120")},
			taxRate:   d("0.08"),
			discount:  decimal.Zero,
			subtotal:  d("8400"),
			taxAmount: d("672"),
			total:     d("9072"),
		},
		{
			name:      "discount is subtracted after tax",
			items:     []*LineItem{item("1", "1000")},
			taxRate:   d("0.1"),
			discount:  d("100"),
			subtotal:  d("1000"),
			taxAmount: d("100"),
			total:     d("1000"),
		},
		{
			name:      "no line items",
			items:     nil,
			taxRate:   d("0.08"),
			discount:  d("25"),
			subtotal:  decimal.Zero,
			taxAmount: decimal.Zero,
			total:     d("-25"),
		},
		{
			name:      "discount larger than amount yields negative total",
			items:     []*LineItem{item("2", "10")},
			taxRate:   decimal.Zero,
			discount:  d("50"),
			subtotal:  d("20"),
			taxAmount: decimal.Zero,
			total:     d("-30"),
		},
		{
			name:      "tax rate above one is multiplied through",
			items:     []*LineItem{item("1", "100")},
			taxRate:   d("1.5"),
			discount:  decimal.Zero,
			subtotal:  d("100"),
			taxAmount: d("150"),
			total:     d("250"),
		},
		{
			name:      "fractional amounts do not drift",
			items:     []*LineItem{item("3", "0.1"), item("1", "0.2")},
			taxRate:   d("0.075"),
			discount:  d("0.01"),
			subtotal:  d("0.5"),
			taxAmount: d("0.0375"),
			total:     d("0.5275"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.taxRate, tt.discount)
			assert.True(t, tt.subtotal.Equal(got.Subtotal), "subtotal: want %s got %s", tt.subtotal, got.Subtotal)
			assert.True(t, tt.taxAmount.Equal(got.TaxAmount), "tax: want %s got %s", tt.taxAmount, got.TaxAmount)
			assert.True(t, tt.total.Equal(got.Total), "total: want %s got %s", tt.total, got.Total)
		})
	}
}

func TestCalculateTotals_MatchesFormula(t *testing.T) {
	rates := []string{"0", "0.05", "0.08", "0.2", "1"}
	discounts := []string{"0", "1.5", "99.99", "100000"}
	items := [][]*LineItem{
		nil,
		{item("1", "9.99")},
		{item("0", "50"), item("3", "33.33"), item("7.5", "12")},
	}

	for _, list := range items {
		sum := decimal.Zero
		for _, li := range list {
			sum = sum.Add(li.Quantity.Mul(li.Rate))
		}
		for _, r := range rates {
			for _, disc := range discounts {
				got := CalculateTotals(list, d(r), d(disc))
				want := sum.Add(sum.Mul(d(r))).Sub(d(disc))
				assert.True(t, want.Equal(got.Total), "rate %s discount %s: want %s got %s", r, disc, want, got.Total)
			}
		}
	}
}

func TestCalculateTotals_DoesNotMutateItems(t *testing.T) {
	items := []*LineItem{item("2", "5")}
	_ = CalculateTotals(items, d("0.1"), d("1"))
	assert.True(t, items[0].Quantity.Equal(d("2")))
	assert.True(t, items[0].Rate.Equal(d("5")))
}

func TestInvoice_TotalsFollowLineItems(t *testing.T) {
	inv := &Invoice{
		LineItems: []*LineItem{item("1", "100")},
		TaxRate:   d("0.1"),
	}
	assert.True(t, d("110").Equal(inv.Total()))

	inv.LineItems[0].Quantity = d("2")
	assert.True(t, d("200").Equal(inv.Subtotal()))
	assert.True(t, d("20").Equal(inv.TaxAmount()))
	assert.True(t, d("220").Equal(inv.Total()))
}

func TestLineItem_Amount(t *testing.T) {
	assert.True(t, d("6000").Equal(item("40", "150").Amount()))
	assert.True(t, decimal.Zero.Equal((*LineItem)(nil).Amount()))
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-202401-0001", FormatInvoiceNumber("INV", "202401", 1))
	assert.Equal(t, "INV-202412-0123", FormatInvoiceNumber("", "202412", 123))
	assert.Equal(t, "ACME-202402-10000", FormatInvoiceNumber("ACME", "202402", 10000))
}

func TestParseInvoiceNumber(t *testing.T) {
	prefix, yearMonth, seq, ok := ParseInvoiceNumber("INV-202401-0007")
	assert.True(t, ok)
	assert.Equal(t, "INV", prefix)
	assert.Equal(t, "202401", yearMonth)
	assert.Equal(t, int64(7), seq)

	prefix, _, _, ok = ParseInvoiceNumber("ACME-EU-202401-0012")
	assert.True(t, ok)
	assert.Equal(t, "ACME-EU", prefix)

	for _, bad := range []string{"", "INV", "INV-2024-0001", "INV-202401-x", "INV-202401-0000"} {
		_, _, _, ok := ParseInvoiceNumber(bad)
		assert.False(t, ok, bad)
	}
}

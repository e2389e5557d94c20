package customer

import (
	"testing"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCustomer_Matches(t *testing.T) {
	c := &Customer{Name: "John Smith", Email: "john@acmecorp.com", Company: "Acme Corporation"}

	assert.True(t, c.Matches(""))
	assert.True(t, c.Matches("SMITH"))
	assert.True(t, c.Matches("acmecorp.com"))
	assert.True(t, c.Matches("corporation"))
	assert.False(t, c.Matches("globex"))

	noCompany := &Customer{Name: "Jane Doe", Email: "jane@example.com"}
	assert.False(t, noCompany.Matches("acme"))
}

func TestCustomer_Validate(t *testing.T) {
	assert.NoError(t, (&Customer{Name: "John", Email: "john@example.com"}).Validate())
	assert.True(t, ierr.IsValidation((&Customer{Name: " ", Email: "john@example.com"}).Validate()))
	assert.True(t, ierr.IsValidation((&Customer{Name: "John", Email: "not-an-email"}).Validate()))
}

func TestStats_Add(t *testing.T) {
	a := Stats{TotalInvoices: 2, TotalSpent: decimal.NewFromInt(100), OutstandingBalance: decimal.NewFromInt(25)}
	b := Stats{TotalInvoices: 1, TotalSpent: decimal.Zero, OutstandingBalance: decimal.RequireFromString("50.5")}

	sum := a.Add(b)
	assert.Equal(t, 3, sum.TotalInvoices)
	assert.True(t, sum.TotalSpent.Equal(decimal.NewFromInt(100)))
	assert.True(t, sum.OutstandingBalance.Equal(decimal.RequireFromString("75.5")))
	assert.True(t, ZeroStats().Add(a).Equal(a))
}

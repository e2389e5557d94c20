package memory

import (
	"context"
	"testing"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantCtx(tenantID string) context.Context {
	ctx := types.SetTenantID(context.Background(), tenantID)
	return types.SetUserID(ctx, types.DefaultUserID)
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	store := NewCustomerStore()

	names := []string{"Zed", "Amy", "Mo", "Bea"}
	for i, name := range names {
		c := &customer.Customer{ID: string(rune('a' + i)), Name: name, Email: name + "@example.com"}
		c.TenantID = types.DefaultTenantID
		require.NoError(t, store.Create(ctx, c))
	}

	list, err := store.List(ctx, types.NewNoLimitCustomerFilter())
	require.NoError(t, err)
	assert.Equal(t, names, lo.Map(list, func(c *customer.Customer, _ int) string { return c.Name }))

	require.NoError(t, store.Delete(ctx, "b"))
	list, err = store.List(ctx, types.NewNoLimitCustomerFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{"Zed", "Mo", "Bea"}, lo.Map(list, func(c *customer.Customer, _ int) string { return c.Name }))
}

func TestStore_Errors(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	store := NewCustomerStore()

	c := &customer.Customer{ID: "cust_1", Name: "John", Email: "john@example.com"}
	c.TenantID = types.DefaultTenantID
	require.NoError(t, store.Create(ctx, c))

	assert.True(t, ierr.IsAlreadyExists(store.Create(ctx, c)))

	_, err := store.Get(ctx, "cust_missing")
	assert.True(t, ierr.IsNotFound(err))

	_, err = store.Get(tenantCtx("tenant_other"), "cust_1")
	assert.True(t, ierr.IsNotFound(err), "records are invisible to other tenants")

	assert.True(t, ierr.IsNotFound(store.Delete(ctx, "cust_missing")))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	store := NewInvoiceStore()

	inv := &invoice.Invoice{
		ID:         "inv_1",
		CustomerID: "cust_1",
		Status:     types.InvoiceStatusDraft,
		LineItems:  []*invoice.LineItem{{ID: "li_1", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(10)}},
	}
	inv.TenantID = types.DefaultTenantID
	require.NoError(t, store.Create(ctx, inv))

	inv.LineItems[0].Rate = decimal.NewFromInt(99)

	got, err := store.Get(ctx, "inv_1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.LineItems[0].Rate))

	got.LineItems[0].Rate = decimal.NewFromInt(77)
	again, err := store.Get(ctx, "inv_1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(again.LineItems[0].Rate))
}

func TestCustomerStore_Search(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	seed, err := LoadSeed()
	require.NoError(t, err)

	customers := NewCustomerStore()
	require.NoError(t, seed.Apply(ctx, customers, NewInvoiceStore(), NewSubscriptionStore()))

	filter := types.NewNoLimitCustomerFilter()
	filter.SearchQuery = "CONSULTING"
	list, err := customers.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "David Wilson", list[0].Name)

	filter.SearchQuery = "acmecorp"
	count, err := customers.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInvoiceStore_NextSequence(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	seed, err := LoadSeed()
	require.NoError(t, err)

	invoices := NewInvoiceStore()
	require.NoError(t, seed.Apply(ctx, NewCustomerStore(), invoices, NewSubscriptionStore()))

	seq, err := invoices.NextSequence(ctx, "202401")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq, "seeded numbers run up to INV-202401-0006")

	seq, err = invoices.NextSequence(ctx, "202402")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = invoices.NextSequence(tenantCtx("tenant_other"), "202401")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	exists, err := invoices.ExistsByNumber(ctx, "INV-202401-0003")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvoiceStore_ClearRestartsNumbering(t *testing.T) {
	ctx := tenantCtx(types.DefaultTenantID)
	seed, err := LoadSeed()
	require.NoError(t, err)

	invoices := NewInvoiceStore()
	require.NoError(t, seed.Apply(ctx, NewCustomerStore(), invoices, NewSubscriptionStore()))

	invoices.Clear()

	exists, err := invoices.ExistsByNumber(ctx, "INV-202401-0003")
	require.NoError(t, err)
	assert.False(t, exists)

	seq, err := invoices.NextSequence(ctx, "202401")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestSeed(t *testing.T) {
	seed, err := LoadSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Customers, 5)
	assert.Len(t, seed.Invoices, 6)
	assert.Len(t, seed.Subscriptions, 5)

	first := seed.Invoices[0]
	assert.Equal(t, "INV-202401-0001", first.InvoiceNumber)
	assert.Equal(t, "2024-01-15", first.IssueDate.String())
	assert.True(t, decimal.NewFromInt(9072).Equal(first.Total()))

	for _, sub := range seed.Subscriptions {
		assert.NoError(t, sub.Validate(), sub.ID)
	}
}

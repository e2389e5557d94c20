package testutil

import (
	"context"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
)

// NewTestCustomer builds a customer owned by the tenant in ctx
func NewTestCustomer(ctx context.Context, name, email, company string) *customer.Customer {
	return &customer.Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:      name,
		Email:     email,
		Company:   company,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// NewTestInvoice builds an invoice with a single line item worth amount and no tax
func NewTestInvoice(ctx context.Context, number, customerID, issueDate, dueDate string, status types.InvoiceStatus, amount string) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: number,
		CustomerID:    customerID,
		IssueDate:     types.MustParseDate(issueDate),
		DueDate:       types.MustParseDate(dueDate),
		Status:        status,
		LineItems: []*invoice.LineItem{
			{
				ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				Description: "Services",
				Quantity:    decimal.NewFromInt(1),
				Rate:        decimal.RequireFromString(amount),
			},
		},
		TaxRate:        decimal.Zero,
		DiscountAmount: decimal.Zero,
		Currency:       types.DefaultCurrency,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// NewTestSubscription builds an active subscription
func NewTestSubscription(ctx context.Context, customerID, plan, amount string, frequency types.BillingFrequency, startDate string, billingDay int) *subscription.Subscription {
	return &subscription.Subscription{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID: customerID,
		PlanName:   plan,
		Amount:     decimal.RequireFromString(amount),
		Currency:   types.DefaultCurrency,
		Frequency:  frequency,
		Status:     types.SubscriptionStatusActive,
		StartDate:  types.MustParseDate(startDate),
		BillingDay: billingDay,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

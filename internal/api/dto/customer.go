package dto

import (
	"context"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/flexprice/invoicely/internal/validator"
)

type CreateCustomerRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Phone           string `json:"phone" validate:"omitempty,max=50"`
	Company         string `json:"company" validate:"omitempty,max=255"`
	BillingAddress  string `json:"billing_address" validate:"omitempty,max=1000"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=1000"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,max=50"`
	Company         *string `json:"company" validate:"omitempty,max=255"`
	BillingAddress  *string `json:"billing_address" validate:"omitempty,max=1000"`
	ShippingAddress *string `json:"shipping_address" validate:"omitempty,max=1000"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
}

type CustomerResponse struct {
	*customer.Customer
}

// CustomerWithStatsResponse is a customer with its invoice aggregates inlined
type CustomerWithStatsResponse struct {
	customer.CustomerWithStats
	FormattedTotalSpent         string `json:"formatted_total_spent"`
	FormattedOutstandingBalance string `json:"formatted_outstanding_balance"`
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

// ListCustomersWithStatsResponse represents the response for listing customers with stats
type ListCustomersWithStatsResponse = types.ListResponse[*CustomerWithStatsResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Company:         r.Company,
		BillingAddress:  r.BillingAddress,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the fields present in the request onto c
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Company != nil {
		c.Company = *r.Company
	}
	if r.BillingAddress != nil {
		c.BillingAddress = *r.BillingAddress
	}
	if r.ShippingAddress != nil {
		c.ShippingAddress = *r.ShippingAddress
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
}

func NewCustomerWithStatsResponse(c *customer.Customer, stats customer.Stats, currency string) *CustomerWithStatsResponse {
	return &CustomerWithStatsResponse{
		CustomerWithStats:           customer.CustomerWithStats{Customer: c, Stats: stats},
		FormattedTotalSpent:         types.FormatCurrency(stats.TotalSpent, currency),
		FormattedOutstandingBalance: types.FormatCurrency(stats.OutstandingBalance, currency),
	}
}

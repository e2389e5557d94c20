package customer

import (
	"net/mail"
	"strings"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
)

// Customer represents a customer in the system
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// Name is the name of the contact person
	Name string `db:"name" json:"name"`

	// Email is the email of the customer
	Email string `db:"email" json:"email"`

	// Phone is the optional contact number
	Phone string `db:"phone" json:"phone,omitempty"`

	// Company is the optional organisation the customer belongs to
	Company string `db:"company" json:"company,omitempty"`

	// BillingAddress is a free form multi line address
	BillingAddress string `db:"billing_address" json:"billing_address,omitempty"`

	// ShippingAddress is a free form multi line address
	ShippingAddress string `db:"shipping_address" json:"shipping_address,omitempty"`

	// Notes are internal remarks, e.g. payment terms
	Notes string `db:"notes" json:"notes,omitempty"`

	types.BaseModel
}

// Matches reports whether the customer's name, email or company contains
// the query, ignoring case. An empty query matches every customer.
func (c *Customer) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		(c.Company != "" && strings.Contains(strings.ToLower(c.Company), q))
}

// Validate checks the fields a customer record needs
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("customer name is required").
			WithHint("Please provide the customer's name").
			Mark(ierr.ErrValidation)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil || !strings.Contains(c.Email, "@") {
		return ierr.NewError("invalid customer email").
			WithHint("Please provide a valid email address").
			WithReportableDetails(map[string]any{
				"email": c.Email,
			}).
			Mark(ierr.ErrValidation)
	}
	if len(c.Name) > 255 || len(c.Company) > 255 {
		return ierr.NewError("customer name too long").
			WithHint("Name and company must be less than 255 characters").
			Mark(ierr.ErrValidation)
	}
	return nil
}

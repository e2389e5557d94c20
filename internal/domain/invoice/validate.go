package invoice

import (
	"strings"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/shopspring/decimal"
)

// Validate checks a line item before it is stored. The calculator itself
// accepts any values.
func (li *LineItem) Validate() error {
	if li == nil {
		return ierr.NewError("line item is required").
			WithHint("Line items must not be empty").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(li.Description) == "" {
		return ierr.NewError("line item description is required").
			WithHint("Please describe every line item").
			Mark(ierr.ErrValidation)
	}
	if li.Quantity.IsNegative() || li.Rate.IsNegative() {
		return ierr.NewError("line item quantity and rate must not be negative").
			WithHint("Quantity and rate must be zero or greater").
			WithReportableDetails(map[string]any{
				"description": li.Description,
				"quantity":    li.Quantity.String(),
				"rate":        li.Rate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Validate checks the fields every stored invoice must satisfy
func (i *Invoice) Validate() error {
	if i.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Please select a customer for the invoice").
			Mark(ierr.ErrValidation)
	}
	if err := i.Status.Validate(); err != nil {
		return err
	}
	if !i.IssueDate.IsValid() || !i.DueDate.IsValid() {
		return ierr.NewError("invalid invoice dates").
			WithHint("Issue date and due date are required").
			Mark(ierr.ErrValidation)
	}
	if i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("due date before issue date").
			WithHint("Due date must be on or after the issue date").
			WithReportableDetails(map[string]any{
				"issue_date": i.IssueDate.String(),
				"due_date":   i.DueDate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if len(i.LineItems) == 0 {
		return ierr.NewError("at least one line item is required").
			WithHint("Add at least one line item to the invoice").
			Mark(ierr.ErrValidation)
	}
	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if i.TaxRate.IsNegative() || i.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ierr.NewError("tax rate out of range").
			WithHint("Tax rate must be between 0 and 1").
			WithReportableDetails(map[string]any{
				"tax_rate": i.TaxRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if i.DiscountAmount.IsNegative() {
		return ierr.NewError("discount must not be negative").
			WithHint("Discount amount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

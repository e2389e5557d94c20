package dto

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/flexprice/invoicely/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineItemRequest represents a single line item on a new or updated invoice
type CreateInvoiceLineItemRequest struct {
	// description is what is being billed, e.g. "Web Development Services"
	Description string `json:"description" validate:"required,max=500"`

	// quantity is the number of units billed, it must not be negative
	Quantity decimal.Decimal `json:"quantity"`

	// rate is the price of one unit, it must not be negative
	Rate decimal.Decimal `json:"rate"`
}

// CreateInvoiceRequest represents the request payload for creating a new invoice
type CreateInvoiceRequest struct {
	// invoice_number is optional, a number of the form INV-YYYYMM-NNNN is generated when omitted
	InvoiceNumber *string `json:"invoice_number,omitempty" validate:"omitempty,max=50"`

	// customer_id is the unique identifier of the customer this invoice belongs to
	CustomerID string `json:"customer_id" validate:"required"`

	// issue_date defaults to today
	IssueDate *civil.Date `json:"issue_date,omitempty"`

	// due_date defaults to the issue date plus the configured payment terms
	DueDate *civil.Date `json:"due_date,omitempty"`

	// status is draft or pending, draft when omitted
	Status types.InvoiceStatus `json:"status,omitempty"`

	// line_items contains the individual items that make up this invoice
	LineItems []CreateInvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`

	// tax_rate is a fraction between 0 and 1, the configured default when omitted
	TaxRate *decimal.Decimal `json:"tax_rate,omitempty"`

	// discount_amount is subtracted from the total after tax
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	// currency is the three-letter ISO currency code, the configured default when omitted
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`

	Notes               string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PaymentInstructions string `json:"payment_instructions,omitempty" validate:"omitempty,max=2000"`
	PONumber            string `json:"po_number,omitempty" validate:"omitempty,max=100"`
}

// UpdateInvoiceRequest carries the fields of a draft invoice to change.
// Omitted fields are left as they are; line_items replaces every line item.
type UpdateInvoiceRequest struct {
	CustomerID          *string                        `json:"customer_id,omitempty" validate:"omitempty,min=1"`
	IssueDate           *civil.Date                    `json:"issue_date,omitempty"`
	DueDate             *civil.Date                    `json:"due_date,omitempty"`
	LineItems           []CreateInvoiceLineItemRequest `json:"line_items,omitempty" validate:"omitempty,min=1,dive"`
	TaxRate             *decimal.Decimal               `json:"tax_rate,omitempty"`
	DiscountAmount      *decimal.Decimal               `json:"discount_amount,omitempty"`
	Currency            *string                        `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes               *string                        `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PaymentInstructions *string                        `json:"payment_instructions,omitempty" validate:"omitempty,max=2000"`
	PONumber            *string                        `json:"po_number,omitempty" validate:"omitempty,max=100"`
}

// UpdateInvoiceStatusRequest moves an invoice along its lifecycle
type UpdateInvoiceStatusRequest struct {
	Status types.InvoiceStatus `json:"status" validate:"required"`
}

// PreviewTotalsRequest computes totals for unsaved invoice values.
// Line items of a preview may omit the description.
type PreviewTotalsRequest struct {
	LineItems      []CreateInvoiceLineItemRequest `json:"line_items"`
	TaxRate        decimal.Decimal                `json:"tax_rate"`
	DiscountAmount decimal.Decimal                `json:"discount_amount"`
	Currency       string                         `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// ListInvoicesRequest is the query string of an invoice listing
type ListInvoicesRequest struct {
	*types.QueryFilter

	// status is a single invoice status or "all"
	Status string `form:"status"`

	// search_query matches invoice number, customer name and customer company
	SearchQuery string `form:"search_query"`

	// date_from and date_to are inclusive issue date bounds, YYYY-MM-DD
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`

	CustomerID string `form:"customer_id"`

	// sort is one of invoiceNumber, customer, issueDate, dueDate, amount, status
	Sort      types.InvoiceSortKey `form:"sort"`
	Direction types.SortDirection  `form:"direction"`
}

type LineItemResponse struct {
	*invoice.LineItem
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceResponse is an invoice with its derived amounts
type InvoiceResponse struct {
	*invoice.Invoice
	LineItems          []*LineItemResponse `json:"line_items"`
	CustomerName       string              `json:"customer_name,omitempty"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	TaxAmount          decimal.Decimal     `json:"tax_amount"`
	Total              decimal.Decimal     `json:"total"`
	FormattedTotal     string              `json:"formatted_total"`
	FormattedIssueDate string              `json:"formatted_issue_date"`
	FormattedDueDate   string              `json:"formatted_due_date"`
}

// InvoiceTotalsResponse holds computed totals and their display strings
type InvoiceTotalsResponse struct {
	invoice.Totals
	Currency           string `json:"currency"`
	FormattedSubtotal  string `json:"formatted_subtotal"`
	FormattedTaxAmount string `json:"formatted_tax_amount"`
	FormattedTotal     string `json:"formatted_total"`
}

// MarkOverdueResponse reports the invoices moved to overdue by a sweep
type MarkOverdueResponse struct {
	Count      int      `json:"count"`
	InvoiceIDs []string `json:"invoice_ids"`
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

func (r CreateInvoiceLineItemRequest) Validate() error {
	if r.Quantity.IsNegative() || r.Rate.IsNegative() {
		return ierr.NewError("line item quantity and rate must not be negative").
			WithHint("Quantity and rate must be zero or greater").
			WithReportableDetails(map[string]any{
				"description": r.Description,
				"quantity":    r.Quantity.String(),
				"rate":        r.Rate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r CreateInvoiceLineItemRequest) ToLineItem() *invoice.LineItem {
	return &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		Description: r.Description,
		Quantity:    r.Quantity,
		Rate:        r.Rate,
	}
}

func toLineItems(items []CreateInvoiceLineItemRequest) []*invoice.LineItem {
	return lo.Map(items, func(item CreateInvoiceLineItemRequest, _ int) *invoice.LineItem {
		return item.ToLineItem()
	})
}

func validateLineItems(items []CreateInvoiceLineItemRequest) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateTaxAndDiscount(taxRate *decimal.Decimal, discount *decimal.Decimal) error {
	if taxRate != nil && (taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1))) {
		return ierr.NewError("tax rate out of range").
			WithHint("Tax rate must be between 0 and 1").
			WithReportableDetails(map[string]any{
				"tax_rate": taxRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if discount != nil && discount.IsNegative() {
		return ierr.NewError("discount must not be negative").
			WithHint("Discount amount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Status != "" {
		if err := r.Status.Validate(); err != nil {
			return err
		}
		if !r.Status.IsInitial() {
			return ierr.NewError("invalid initial status").
				WithHint("New invoices must be draft or pending").
				WithReportableDetails(map[string]any{
					"status": r.Status,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if r.IssueDate != nil && r.DueDate != nil && r.DueDate.Before(*r.IssueDate) {
		return ierr.NewError("due date before issue date").
			WithHint("Due date must be on or after the issue date").
			Mark(ierr.ErrValidation)
	}

	if err := validateLineItems(r.LineItems); err != nil {
		return err
	}
	return validateTaxAndDiscount(r.TaxRate, &r.DiscountAmount)
}

// ToInvoice builds the invoice, filling omitted fields from the billing
// defaults. The invoice number is assigned by the service.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context, billing config.BillingConfig, today civil.Date) *invoice.Invoice {
	issueDate := lo.FromPtrOr(r.IssueDate, today)
	dueDate := lo.FromPtrOr(r.DueDate, issueDate.AddDays(billing.DueDays))

	status := r.Status
	if status == "" {
		status = types.InvoiceStatusDraft
	}

	currency := r.Currency
	if currency == "" {
		currency = lo.Ternary(billing.Currency != "", billing.Currency, types.DefaultCurrency)
	}

	return &invoice.Invoice{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber:       lo.FromPtr(r.InvoiceNumber),
		CustomerID:          r.CustomerID,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Status:              status,
		LineItems:           toLineItems(r.LineItems),
		TaxRate:             lo.FromPtrOr(r.TaxRate, billing.DefaultTaxRate),
		DiscountAmount:      r.DiscountAmount,
		Currency:            currency,
		Notes:               r.Notes,
		PaymentInstructions: r.PaymentInstructions,
		PONumber:            r.PONumber,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validateLineItems(r.LineItems); err != nil {
		return err
	}
	return validateTaxAndDiscount(r.TaxRate, r.DiscountAmount)
}

// Apply copies the fields present in the request onto inv
func (r *UpdateInvoiceRequest) Apply(inv *invoice.Invoice) {
	if r.CustomerID != nil {
		inv.CustomerID = *r.CustomerID
	}
	if r.IssueDate != nil {
		inv.IssueDate = *r.IssueDate
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}
	if r.LineItems != nil {
		inv.LineItems = toLineItems(r.LineItems)
	}
	if r.TaxRate != nil {
		inv.TaxRate = *r.TaxRate
	}
	if r.DiscountAmount != nil {
		inv.DiscountAmount = *r.DiscountAmount
	}
	if r.Currency != nil {
		inv.Currency = *r.Currency
	}
	if r.Notes != nil {
		inv.Notes = *r.Notes
	}
	if r.PaymentInstructions != nil {
		inv.PaymentInstructions = *r.PaymentInstructions
	}
	if r.PONumber != nil {
		inv.PONumber = *r.PONumber
	}
}

func (r *UpdateInvoiceStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}

func (r *PreviewTotalsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validateLineItems(r.LineItems); err != nil {
		return err
	}
	return validateTaxAndDiscount(&r.TaxRate, &r.DiscountAmount)
}

// ToLineItems converts the preview items without assigning ids
func (r *PreviewTotalsRequest) ToLineItems() []*invoice.LineItem {
	return lo.Map(r.LineItems, func(item CreateInvoiceLineItemRequest, _ int) *invoice.LineItem {
		return &invoice.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		}
	})
}

func (r *ListInvoicesRequest) Validate() error {
	if r.QueryFilter != nil {
		if err := r.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if r.Sort != "" {
		if err := r.Sort.Validate(); err != nil {
			return err
		}
	}
	if r.Direction != "" {
		if err := r.Direction.Validate(); err != nil {
			return err
		}
	}
	filter, err := r.ToFilter()
	if err != nil {
		return err
	}
	return filter.Validate()
}

// ToFilter parses the query values into an invoice filter
func (r *ListInvoicesRequest) ToFilter() (*types.InvoiceFilter, error) {
	filter := types.NewInvoiceFilter()
	if r.Status != "" {
		filter.Status = lo.ToPtr(r.Status)
	}
	filter.SearchQuery = r.SearchQuery
	filter.CustomerID = r.CustomerID

	if r.DateFrom != "" {
		from, err := types.ParseDate(r.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := types.ParseDate(r.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}

// GetQueryFilter returns the requested page, the default page when none was given
func (r *ListInvoicesRequest) GetQueryFilter() *types.QueryFilter {
	if r.QueryFilter == nil {
		return types.NewDefaultQueryFilter()
	}
	if r.QueryFilter.Limit == nil {
		r.QueryFilter.Limit = lo.ToPtr(types.FILTER_DEFAULT_LIMIT)
	}
	return r.QueryFilter
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	totals := inv.Totals()
	return &InvoiceResponse{
		Invoice: inv,
		LineItems: lo.Map(inv.LineItems, func(item *invoice.LineItem, _ int) *LineItemResponse {
			return &LineItemResponse{LineItem: item, Amount: item.Amount()}
		}),
		CustomerName:       inv.CustomerName(),
		Subtotal:           totals.Subtotal,
		TaxAmount:          totals.TaxAmount,
		Total:              totals.Total,
		FormattedTotal:     types.FormatCurrency(totals.Total, inv.Currency),
		FormattedIssueDate: types.FormatDate(inv.IssueDate),
		FormattedDueDate:   types.FormatDate(inv.DueDate),
	}
}

func NewInvoiceTotalsResponse(totals invoice.Totals, currency string) *InvoiceTotalsResponse {
	if currency == "" {
		currency = types.DefaultCurrency
	}
	return &InvoiceTotalsResponse{
		Totals:             totals,
		Currency:           currency,
		FormattedSubtotal:  types.FormatCurrency(totals.Subtotal, currency),
		FormattedTaxAmount: types.FormatCurrency(totals.TaxAmount, currency),
		FormattedTotal:     types.FormatCurrency(totals.Total, currency),
	}
}

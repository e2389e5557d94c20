package types

import (
	"strings"

	"cloud.google.com/go/civil"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft is an invoice still being prepared, it can be edited or deleted
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusPending has been issued and is awaiting payment
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid has been settled
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue is past its due date without payment
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	// InvoiceStatusCancelled is no longer collectable
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceStatuses = []InvoiceStatus{
	InvoiceStatusPaid,
	InvoiceStatusPending,
	InvoiceStatusOverdue,
	InvoiceStatusDraft,
	InvoiceStatusCancelled,
}

// invoiceTransitions lists the statuses reachable from each status.
// paid and cancelled are terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusPending: {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusCancelled},
}

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	if !lo.Contains(invoiceStatuses, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"status":  s,
				"allowed": invoiceStatuses,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsInitial reports whether an invoice may be created in this status
func (s InvoiceStatus) IsInitial() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusPending
}

// IsOutstanding reports whether invoices in this status still expect payment
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return lo.Contains(invoiceTransitions[s], next)
}

// InvoiceSortKey is the field an invoice listing is ordered by
type InvoiceSortKey string

const (
	InvoiceSortByInvoiceNumber InvoiceSortKey = "invoiceNumber"
	InvoiceSortByCustomer      InvoiceSortKey = "customer"
	InvoiceSortByIssueDate     InvoiceSortKey = "issueDate"
	InvoiceSortByDueDate       InvoiceSortKey = "dueDate"
	InvoiceSortByAmount        InvoiceSortKey = "amount"
	InvoiceSortByStatus        InvoiceSortKey = "status"
)

var invoiceSortKeys = []InvoiceSortKey{
	InvoiceSortByInvoiceNumber,
	InvoiceSortByCustomer,
	InvoiceSortByIssueDate,
	InvoiceSortByDueDate,
	InvoiceSortByAmount,
	InvoiceSortByStatus,
}

func (k InvoiceSortKey) Validate() error {
	if !lo.Contains(invoiceSortKeys, k) {
		return ierr.NewError("invalid sort key").
			WithHint("Please provide a valid sort key").
			WithReportableDetails(map[string]any{
				"sort":    k,
				"allowed": invoiceSortKeys,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SortDirection orders a listing ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Validate() error {
	if d != SortAsc && d != SortDesc {
		return ierr.NewError("invalid sort direction").
			WithHint("Sort direction must be asc or desc").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter narrows an invoice listing. Every set predicate must hold.
type InvoiceFilter struct {
	// Status is a single status, or nil / "all" for every status
	Status *string `json:"status,omitempty" form:"status"`
	// SearchQuery is matched case-insensitively against invoice number,
	// customer name and customer company
	SearchQuery string `json:"search_query,omitempty" form:"search_query"`
	// DateFrom and DateTo are inclusive bounds on the issue date
	DateFrom *civil.Date `json:"date_from,omitempty" form:"-"`
	DateTo   *civil.Date `json:"date_to,omitempty" form:"-"`
	// CustomerID restricts the listing to one customer
	CustomerID string `json:"customer_id,omitempty" form:"customer_id"`
}

// NewInvoiceFilter returns the default filter which matches every invoice
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{Status: lo.ToPtr(StatusAll)}
}

// StatusFilter returns the status the filter selects, or false when it selects all
func (f *InvoiceFilter) StatusFilter() (InvoiceStatus, bool) {
	if f == nil || f.Status == nil || *f.Status == "" || *f.Status == StatusAll {
		return "", false
	}
	return InvoiceStatus(*f.Status), true
}

// NormalizedQuery returns the lower-cased search query. Whitespace is kept,
// so " acme" only matches text containing " acme".
func (f *InvoiceFilter) NormalizedQuery() string {
	if f == nil {
		return ""
	}
	return strings.ToLower(f.SearchQuery)
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}

	if status, ok := f.StatusFilter(); ok {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return ierr.NewError("invalid date range").
			WithHint("date_to must not be before date_from").
			Mark(ierr.ErrValidation)
	}

	return nil
}

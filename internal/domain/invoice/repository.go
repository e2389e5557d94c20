package invoice

import (
	"context"

	"github.com/flexprice/invoicely/internal/types"
)

// Repository defines the interface for invoice persistence operations.
// List narrows by customer only; status, search and date predicates are
// applied with FilterInvoices once customers have been resolved.
type Repository interface {
	// Create creates a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice
	Delete(ctx context.Context, id string) error

	// List retrieves invoices in creation order
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// ExistsByNumber reports whether an invoice number is taken
	ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error)

	// NextSequence returns the next invoice number sequence for the month
	NextSequence(ctx context.Context, yearMonth string) (int64, error)
}

package postgres

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

// invoiceRow is the storage shape of an invoice. Line items live in a JSONB
// column since they are always read and written with their invoice.
type invoiceRow struct {
	ID                  string          `db:"id"`
	TenantID            string          `db:"tenant_id"`
	InvoiceNumber       string          `db:"invoice_number"`
	CustomerID          string          `db:"customer_id"`
	IssueDate           time.Time       `db:"issue_date"`
	DueDate             time.Time       `db:"due_date"`
	Status              string          `db:"status"`
	LineItems           []byte          `db:"line_items"`
	TaxRate             decimal.Decimal `db:"tax_rate"`
	DiscountAmount      decimal.Decimal `db:"discount_amount"`
	Currency            string          `db:"currency"`
	Notes               string          `db:"notes"`
	PaymentInstructions string          `db:"payment_instructions"`
	PONumber            string          `db:"po_number"`
	PaidAt              *time.Time      `db:"paid_at"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
	CreatedBy           string          `db:"created_by"`
	UpdatedBy           string          `db:"updated_by"`
}

const invoiceColumns = `id, tenant_id, invoice_number, customer_id, issue_date, due_date, status,
	line_items, tax_rate, discount_amount, currency, notes, payment_instructions, po_number,
	paid_at, created_at, updated_at, created_by, updated_by`

func toInvoiceRow(inv *invoice.Invoice) (*invoiceRow, error) {
	items := inv.LineItems
	if items == nil {
		items = []*invoice.LineItem{}
	}
	lineItems, err := json.Marshal(items)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode invoice line items").
			Mark(ierr.ErrSystem)
	}

	return &invoiceRow{
		ID:                  inv.ID,
		TenantID:            inv.TenantID,
		InvoiceNumber:       inv.InvoiceNumber,
		CustomerID:          inv.CustomerID,
		IssueDate:           inv.IssueDate.In(time.UTC),
		DueDate:             inv.DueDate.In(time.UTC),
		Status:              string(inv.Status),
		LineItems:           lineItems,
		TaxRate:             inv.TaxRate,
		DiscountAmount:      inv.DiscountAmount,
		Currency:            inv.Currency,
		Notes:               inv.Notes,
		PaymentInstructions: inv.PaymentInstructions,
		PONumber:            inv.PONumber,
		PaidAt:              inv.PaidAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
		CreatedBy:           inv.CreatedBy,
		UpdatedBy:           inv.UpdatedBy,
	}, nil
}

func (row *invoiceRow) toDomain() (*invoice.Invoice, error) {
	var items []*invoice.LineItem
	if err := json.Unmarshal(row.LineItems, &items); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored invoice line items are malformed").
			WithReportableDetails(map[string]any{
				"invoice_id": row.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return &invoice.Invoice{
		ID:                  row.ID,
		InvoiceNumber:       row.InvoiceNumber,
		CustomerID:          row.CustomerID,
		IssueDate:           civil.DateOf(row.IssueDate),
		DueDate:             civil.DateOf(row.DueDate),
		Status:              types.InvoiceStatus(row.Status),
		LineItems:           items,
		TaxRate:             row.TaxRate,
		DiscountAmount:      row.DiscountAmount,
		Currency:            row.Currency,
		Notes:               row.Notes,
		PaymentInstructions: row.PaymentInstructions,
		PONumber:            row.PONumber,
		PaidAt:              row.PaidAt,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	row, err := toInvoiceRow(inv)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (
			:id, :tenant_id, :invoice_number, :customer_id, :issue_date, :due_date, :status,
			:line_items, :tax_rate, :discount_amount, :currency, :notes, :payment_instructions, :po_number,
			:paid_at, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"tenant_id", inv.TenantID,
	)

	_, err = r.db.GetQuerier(ctx).NamedExecContext(ctx, query, row)
	return wrapError(err, "invoice", inv.ID)
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var row invoiceRow
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND tenant_id = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapError(err, "invoice", id)
	}
	return row.toDomain()
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	row, err := toInvoiceRow(inv)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices SET
			customer_id = :customer_id,
			issue_date = :issue_date,
			due_date = :due_date,
			status = :status,
			line_items = :line_items,
			tax_rate = :tax_rate,
			discount_amount = :discount_amount,
			currency = :currency,
			notes = :notes,
			payment_instructions = :payment_instructions,
			po_number = :po_number,
			paid_at = :paid_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating invoice",
		"invoice_id", inv.ID,
		"status", inv.Status,
	)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, row)
	if err != nil {
		return wrapError(err, "invoice", inv.ID)
	}
	return expectAffected(result, "invoice", inv.ID)
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting invoice", "invoice_id", id)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1 AND tenant_id = $2`, id, types.GetTenantID(ctx))
	if err != nil {
		return wrapError(err, "invoice", id)
	}
	return expectAffected(result, "invoice", id)
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	w := newWhere(types.GetTenantID(ctx))
	if filter != nil && filter.CustomerID != "" {
		w.add("customer_id = ?", filter.CustomerID)
	}

	var rows []*invoiceRow
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + w.String() + ` ORDER BY created_at, id`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, wrapError(err, "invoice", "")
	}

	invoices := make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND invoice_number = $2)`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, types.GetTenantID(ctx), invoiceNumber); err != nil {
		return false, wrapError(err, "invoice", invoiceNumber)
	}
	return exists, nil
}

// NextSequence atomically bumps the month's counter. Numbers already taken
// by imported invoices are skipped by the caller via ExistsByNumber.
func (r *invoiceRepository) NextSequence(ctx context.Context, yearMonth string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (tenant_id, year_month, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year_month)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value`

	var seq int64
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &seq, query, types.GetTenantID(ctx), yearMonth); err != nil {
		return 0, wrapError(err, "invoice sequence", yearMonth)
	}

	r.logger.Debugw("generated invoice sequence",
		"year_month", yearMonth,
		"sequence", seq,
	)
	return seq, nil
}

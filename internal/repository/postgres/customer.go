package postgres

import (
	"context"
	"strings"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/lib/pq"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

const customerColumns = `id, tenant_id, name, email, phone, company, billing_address, shipping_address,
	notes, created_at, updated_at, created_by, updated_by`

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (
			:id, :tenant_id, :name, :email, :phone, :company, :billing_address, :shipping_address,
			:notes, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer",
		"customer_id", c.ID,
		"tenant_id", c.TenantID,
	)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	return wrapError(err, "customer", c.ID)
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND tenant_id = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapError(err, "customer", id)
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	where, args := customerWhere(ctx, filter)
	query := `SELECT ` + customerColumns + ` FROM customers ` + where + ` ORDER BY created_at, id`
	if filter != nil {
		query, args = paginate(query, args, filter)
	}

	var customers []*customer.Customer
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, wrapError(err, "customer", "")
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	where, args := customerWhere(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM customers `+where, args...); err != nil {
		return 0, wrapError(err, "customer", "")
	}
	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers SET
			name = :name,
			email = :email,
			phone = :phone,
			company = :company,
			billing_address = :billing_address,
			shipping_address = :shipping_address,
			notes = :notes,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating customer",
		"customer_id", c.ID,
		"tenant_id", c.TenantID,
	)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return wrapError(err, "customer", c.ID)
	}
	return expectAffected(result, "customer", c.ID)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting customer",
		"customer_id", id,
		"tenant_id", types.GetTenantID(ctx),
	)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`DELETE FROM customers WHERE id = $1 AND tenant_id = $2`, id, types.GetTenantID(ctx))
	if err != nil {
		return wrapError(err, "customer", id)
	}
	return expectAffected(result, "customer", id)
}

func customerWhere(ctx context.Context, filter *types.CustomerFilter) (string, []interface{}) {
	b := newWhere(types.GetTenantID(ctx))
	if filter == nil {
		return b.String(), b.args
	}

	if len(filter.CustomerIDs) > 0 {
		b.add("id = ANY(?)", pq.Array(filter.CustomerIDs))
	}
	if filter.Email != "" {
		b.add("email = ?", filter.Email)
	}
	if q := strings.TrimSpace(filter.SearchQuery); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		b.add("(name ILIKE ? OR email ILIKE ? OR company ILIKE ?)", pattern, pattern, pattern)
	}
	return b.String(), b.args
}

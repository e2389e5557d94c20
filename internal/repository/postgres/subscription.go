package postgres

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

type subscriptionRow struct {
	ID          string          `db:"id"`
	TenantID    string          `db:"tenant_id"`
	CustomerID  string          `db:"customer_id"`
	PlanName    string          `db:"plan_name"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	Frequency   string          `db:"frequency"`
	Status      string          `db:"status"`
	StartDate   time.Time       `db:"start_date"`
	BillingDay  int             `db:"billing_day"`
	Notes       string          `db:"notes"`
	PausedAt    *time.Time      `db:"paused_at"`
	CancelledAt *time.Time      `db:"cancelled_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CreatedBy   string          `db:"created_by"`
	UpdatedBy   string          `db:"updated_by"`
}

const subscriptionColumns = `id, tenant_id, customer_id, plan_name, amount, currency, frequency, status,
	start_date, billing_day, notes, paused_at, cancelled_at, created_at, updated_at, created_by, updated_by`

func toSubscriptionRow(s *subscription.Subscription) *subscriptionRow {
	return &subscriptionRow{
		ID:          s.ID,
		TenantID:    s.TenantID,
		CustomerID:  s.CustomerID,
		PlanName:    s.PlanName,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Frequency:   string(s.Frequency),
		Status:      string(s.Status),
		StartDate:   s.StartDate.In(time.UTC),
		BillingDay:  s.BillingDay,
		Notes:       s.Notes,
		PausedAt:    s.PausedAt,
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedBy:   s.UpdatedBy,
	}
}

func (row *subscriptionRow) toDomain() *subscription.Subscription {
	return &subscription.Subscription{
		ID:          row.ID,
		CustomerID:  row.CustomerID,
		PlanName:    row.PlanName,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Frequency:   types.BillingFrequency(row.Frequency),
		Status:      types.SubscriptionStatus(row.Status),
		StartDate:   civil.DateOf(row.StartDate),
		BillingDay:  row.BillingDay,
		Notes:       row.Notes,
		PausedAt:    row.PausedAt,
		CancelledAt: row.CancelledAt,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES (
			:id, :tenant_id, :customer_id, :plan_name, :amount, :currency, :frequency, :status,
			:start_date, :billing_day, :notes, :paused_at, :cancelled_at, :created_at, :updated_at,
			:created_by, :updated_by
		)`

	r.logger.Debugw("creating subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
	)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toSubscriptionRow(sub))
	return wrapError(err, "subscription", sub.ID)
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	var row subscriptionRow
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND tenant_id = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapError(err, "subscription", id)
	}
	return row.toDomain(), nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions SET
			plan_name = :plan_name,
			amount = :amount,
			currency = :currency,
			frequency = :frequency,
			status = :status,
			start_date = :start_date,
			billing_day = :billing_day,
			notes = :notes,
			paused_at = :paused_at,
			cancelled_at = :cancelled_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	r.logger.Debugw("updating subscription",
		"subscription_id", sub.ID,
		"status", sub.Status,
	)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toSubscriptionRow(sub))
	if err != nil {
		return wrapError(err, "subscription", sub.ID)
	}
	return expectAffected(result, "subscription", sub.ID)
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	w := subscriptionWhere(ctx, filter)
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ` + w.String() + ` ORDER BY created_at, id`
	args := w.args
	if filter != nil {
		query, args = paginate(query, args, filter)
	}

	var rows []*subscriptionRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapError(err, "subscription", "")
	}

	subs := make([]*subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toDomain())
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	w := subscriptionWhere(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM subscriptions `+w.String(), w.args...); err != nil {
		return 0, wrapError(err, "subscription", "")
	}
	return count, nil
}

func subscriptionWhere(ctx context.Context, filter *types.SubscriptionFilter) *where {
	w := newWhere(types.GetTenantID(ctx))
	if filter == nil {
		return w
	}
	if status, ok := filter.StatusFilter(); ok {
		w.add("status = ?", string(status))
	}
	if filter.CustomerID != "" {
		w.add("customer_id = ?", filter.CustomerID)
	}
	return w
}

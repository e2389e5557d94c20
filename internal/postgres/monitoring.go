package postgres

import (
	"context"

	"github.com/flexprice/invoicely/internal/logger"
	sentryService "github.com/flexprice/invoicely/internal/sentry"
)

// Transactor runs a function inside a unit of work
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SentryTransactor wraps a Transactor with Sentry span tracking
type SentryTransactor struct {
	next   Transactor
	sentry *sentryService.Service
	logger *logger.Logger
}

// NewSentryTransactor creates a new Sentry-instrumented Transactor
func NewSentryTransactor(next Transactor, sentry *sentryService.Service, logger *logger.Logger) Transactor {
	return &SentryTransactor{
		next:   next,
		sentry: sentry,
		logger: logger,
	}
}

// WithTx wraps the given function in a transaction with Sentry span tracking
func (t *SentryTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	span, spanCtx := t.sentry.StartDBSpan(ctx, "postgres.transaction", map[string]interface{}{
		"operation": "transaction",
	})
	if span != nil {
		defer span.Finish()
	}
	return t.next.WithTx(spanCtx, fn)
}

// NoopTransactor runs the function directly, for stores without transactions
type NoopTransactor struct{}

func (NoopTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

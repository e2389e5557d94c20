package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/publisher"
	"github.com/flexprice/invoicely/internal/types"
)

// Clock supplies the current time. Every "today" in the services comes from it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewClock returns the wall clock
func NewClock() Clock {
	return systemClock{}
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.Transactor
	Clock  Clock

	// Repositories
	CustomerRepo customer.Repository
	InvoiceRepo  invoice.Repository
	SubRepo      subscription.Repository

	// Publishers
	EventPublisher publisher.EventPublisher
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.Transactor,
	clock Clock,
	customerRepo customer.Repository,
	invoiceRepo invoice.Repository,
	subRepo subscription.Repository,
	eventPublisher publisher.EventPublisher,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		Clock:          clock,
		CustomerRepo:   customerRepo,
		InvoiceRepo:    invoiceRepo,
		SubRepo:        subRepo,
		EventPublisher: eventPublisher,
	}
}

func (p ServiceParams) today() civil.Date {
	return types.Today(p.Clock.Now())
}

func (p ServiceParams) currency() string {
	if p.Config.Billing.Currency != "" {
		return p.Config.Billing.Currency
	}
	return types.DefaultCurrency
}

// publishEvent emits a domain event. Publishing failures are logged and never
// fail the operation that produced the event.
func (p ServiceParams) publishEvent(ctx context.Context, name types.EventName, entityID string, payload any) {
	event, err := publisher.NewEvent(ctx, name, entityID, payload)
	if err != nil {
		p.Logger.Errorw("failed to build event", "event_name", name, "entity_id", entityID, "error", err)
		return
	}
	if err := p.EventPublisher.Publish(ctx, event); err != nil {
		p.Logger.Errorf("failed to publish %s event: %v", event.Name, err)
	}
}

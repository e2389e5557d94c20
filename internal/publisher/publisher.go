package publisher

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/invoicely/internal/config"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/metrics"
	"github.com/flexprice/invoicely/internal/pubsub"
	"github.com/flexprice/invoicely/internal/sentry"
)

const (
	MetadataEventName = "event_name"
	MetadataTenantID  = "tenant_id"
	MetadataEntityID  = "entity_id"
)

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

type eventPublisher struct {
	pubsub pubsub.Publisher
	config *config.EventConfig
	logger *logger.Logger
	sentry *sentry.Service
}

// NewEventPublisher returns a publisher writing to the configured topic, or a
// no-op publisher when events are disabled
func NewEventPublisher(
	cfg *config.Configuration,
	pubsub pubsub.Publisher,
	logger *logger.Logger,
	sentry *sentry.Service,
) EventPublisher {
	if !cfg.Event.Enabled || pubsub == nil {
		logger.Info("event publishing is disabled")
		return NoopPublisher{}
	}

	return &eventPublisher{
		pubsub: pubsub,
		config: &cfg.Event,
		logger: logger,
		sentry: sentry,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event *Event) error {
	if event == nil {
		return ierr.NewError("event is required").
			WithHint("Cannot publish an empty event").
			Mark(ierr.ErrValidation)
	}

	span, ctx := p.sentry.StartPublishSpan(ctx, event.Name.String())
	if span != nil {
		defer span.Finish()
	}

	err := p.publish(ctx, event)
	metrics.ObservePublish(event.Name.String(), err)
	if err != nil {
		p.sentry.CaptureException(err)
		p.logger.Errorw("failed to publish event",
			"event_id", event.ID,
			"event_name", event.Name,
			"entity_id", event.EntityID,
			"error", err,
		)
		return err
	}

	p.sentry.AddBreadcrumb("event", "published "+event.Name.String(), map[string]interface{}{
		"event_id":  event.ID,
		"entity_id": event.EntityID,
	})
	p.logger.Debugw("published event",
		"event_id", event.ID,
		"event_name", event.Name,
		"entity_id", event.EntityID,
		"topic", p.config.Topic,
	)
	return nil
}

func (p *eventPublisher) publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(MetadataEventName, event.Name.String())
	msg.Metadata.Set(MetadataTenantID, event.TenantID)
	msg.Metadata.Set(MetadataEntityID, event.EntityID)

	if err := p.pubsub.Publish(ctx, p.config.Topic, msg); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to publish %s event", event.Name).
			WithReportableDetails(map[string]any{
				"event_id": event.ID,
				"topic":    p.config.Topic,
			}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error {
	return nil
}

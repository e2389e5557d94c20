package publisher

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/invoicely/internal/config"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/pubsub"
	"github.com/flexprice/invoicely/internal/pubsub/router"
)

// EventLogHandlerName names the consumer that records every domain event in the log
const EventLogHandlerName = "event_log_handler"

// DecodeMessage decodes a consumed message back into an event
func DecodeMessage(msg *message.Message) (*Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to decode event message %s", msg.UUID).
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}

// EventLogHandler writes consumed domain events to the structured log
type EventLogHandler struct {
	logger *logger.Logger
}

func NewEventLogHandler(logger *logger.Logger) *EventLogHandler {
	return &EventLogHandler{logger: logger}
}

// RegisterHandler subscribes the handler to the event topic
func (h *EventLogHandler) RegisterHandler(r *router.Router, cfg *config.Configuration, subscriber pubsub.Subscriber) {
	r.AddNoPublishHandler(EventLogHandlerName, cfg.Event.Topic, subscriber, h.Handle)
	h.logger.Infow("registered event log handler", "topic", cfg.Event.Topic)
}

// Handle logs one event. Malformed messages are dropped so they are not
// retried forever.
func (h *EventLogHandler) Handle(msg *message.Message) error {
	event, err := DecodeMessage(msg)
	if err != nil {
		h.logger.Errorw("dropping malformed event message",
			"message_uuid", msg.UUID,
			"error", err,
		)
		return nil
	}

	h.logger.Infow("domain event",
		"event_id", event.ID,
		"event_name", event.Name,
		"tenant_id", event.TenantID,
		"entity_id", event.EntityID,
		"timestamp", event.Timestamp,
	)
	return nil
}

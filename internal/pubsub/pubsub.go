package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/types"
)

// Publisher publishes domain event messages to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Subscriber consumes domain event messages from a topic.
// Its method set matches message.Subscriber so it can feed a watermill router.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// PubSub combines both Publisher and Subscriber interfaces
type PubSub interface {
	Publisher
	Subscriber
}

// WatermillLogger returns the watermill logger matching the configured level
func WatermillLogger(cfg *config.Configuration) watermill.LoggerAdapter {
	return watermill.NewStdLogger(cfg.Logging.Level == types.LogLevelDebug, false)
}

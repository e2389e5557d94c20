package config

import (
	"time"

	"github.com/flexprice/invoicely/internal/types"
)

// EventConfig holds configuration for domain event publishing
type EventConfig struct {
	Enabled            bool                     `mapstructure:"enabled"`
	PublishDestination types.PublishDestination `mapstructure:"publish_destination" validate:"omitempty,oneof=memory kafka"`
	Topic              string                   `mapstructure:"topic"`
	// ConsumerEnabled runs the event log consumer alongside the API
	ConsumerEnabled bool          `mapstructure:"consumer_enabled"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"min=0"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

// KafkaConfig holds the broker settings used when events go to kafka
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	ClientID      string   `mapstructure:"client_id"`
	TLS           bool     `mapstructure:"tls"`
	UseSASL       bool     `mapstructure:"use_sasl"`
	SASLMechanism string   `mapstructure:"sasl_mechanism"`
	SASLUser      string   `mapstructure:"sasl_user"`
	SASLPassword  string   `mapstructure:"sasl_password"`
}

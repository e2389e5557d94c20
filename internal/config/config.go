package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/invoicely/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Store      StoreConfig      `mapstructure:"store" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Event      EventConfig      `mapstructure:"event"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Billing    BillingConfig    `mapstructure:"billing"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type StoreConfig struct {
	Driver types.StoreDriver `mapstructure:"driver" validate:"required,oneof=memory postgres"`
	// Seed loads the bundled demo records into an empty memory store
	Seed bool `mapstructure:"seed"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AuthConfig struct {
	// Enabled turns on bearer token / API key checks for /v1
	Enabled bool         `mapstructure:"enabled"`
	Secret  string       `mapstructure:"secret" validate:"required_if=Enabled true"`
	APIKey  APIKeyConfig `mapstructure:"api_key"`
}

type APIKeyConfig struct {
	Header string `mapstructure:"header"`
	// Keys maps the sha256 hex of an API key to its owner
	Keys map[string]APIKeyDetails `mapstructure:"keys"`
}

type APIKeyDetails struct {
	TenantID string `mapstructure:"tenant_id" json:"tenant_id"`
	UserID   string `mapstructure:"user_id" json:"user_id"`
	Name     string `mapstructure:"name" json:"name"`
	IsActive bool   `mapstructure:"is_active" json:"is_active"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type BillingConfig struct {
	// DefaultTaxRate applies to invoices created without an explicit rate
	DefaultTaxRate decimal.Decimal `mapstructure:"default_tax_rate"`
	// DueDays is the default gap between issue and due date
	DueDays             int    `mapstructure:"due_days" validate:"min=0"`
	InvoiceNumberPrefix string `mapstructure:"invoice_number_prefix"`
	Currency            string `mapstructure:"currency"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invoicely")

	v.SetEnvPrefix("INVOICELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		decimalHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("store.driver", types.StoreDriverMemory)
	v.SetDefault("store.seed", true)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("auth.api_key.header", "x-api-key")
	v.SetDefault("event.enabled", true)
	v.SetDefault("event.publish_destination", types.PublishToMemory)
	v.SetDefault("event.topic", "invoicely.events")
	v.SetDefault("event.consumer_enabled", true)
	v.SetDefault("event.max_retries", 3)
	v.SetDefault("event.initial_interval", "1s")
	v.SetDefault("event.max_interval", "10s")
	v.SetDefault("event.multiplier", 2.0)
	v.SetDefault("billing.default_tax_rate", "0.08")
	v.SetDefault("billing.due_days", 30)
	v.SetDefault("billing.invoice_number_prefix", "INV")
	v.SetDefault("billing.currency", types.DefaultCurrency)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests. It uses the memory store and disables auth.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Store:      StoreConfig{Driver: types.StoreDriverMemory},
		Cache:      CacheConfig{Enabled: true},
		Auth:       AuthConfig{APIKey: APIKeyConfig{Header: "x-api-key"}},
		Event: EventConfig{
			Enabled:            true,
			PublishDestination: types.PublishToMemory,
			Topic:              "invoicely.events",
			ConsumerEnabled:    true,
			MaxRetries:         3,
			InitialInterval:    time.Second,
			MaxInterval:        10 * time.Second,
			Multiplier:         2,
		},
		Billing: BillingConfig{
			DefaultTaxRate:      decimal.RequireFromString("0.08"),
			DueDays:             30,
			InvoiceNumberPrefix: "INV",
			Currency:            types.DefaultCurrency,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

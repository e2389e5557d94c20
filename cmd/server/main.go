package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/invoicely/internal/api"
	"github.com/flexprice/invoicely/internal/api/cron"
	v1 "github.com/flexprice/invoicely/internal/api/v1"
	"github.com/flexprice/invoicely/internal/cache"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/publisher"
	"github.com/flexprice/invoicely/internal/pubsub"
	"github.com/flexprice/invoicely/internal/pubsub/kafka"
	"github.com/flexprice/invoicely/internal/pubsub/memory"
	pubsubRouter "github.com/flexprice/invoicely/internal/pubsub/router"
	"github.com/flexprice/invoicely/internal/repository"
	"github.com/flexprice/invoicely/internal/sentry"
	"github.com/flexprice/invoicely/internal/service"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/flexprice/invoicely/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Invoicely API
// @version 1.0
// @description Invoices, customers and subscriptions for small businesses
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Monitoring first so its start hook runs before the servers
	opts = append(opts, sentry.Module())

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			repository.NewDB,
			repository.NewTransactor,

			// Events
			providePubSub,
			provideEventPublisher,
			pubsubRouter.NewRouter,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewInvoiceRepository,
			repository.NewSubscriptionRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewClock,
			service.NewServiceParams,

			service.NewCustomerService,
			service.NewInvoiceService,
			service.NewSubscriptionService,
			service.NewDashboardService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			repository.SeedMemoryStore,
			closeDB,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePubSub(cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	switch cfg.Event.PublishDestination {
	case types.PublishToKafka:
		return kafka.NewPubSub(cfg, log)
	default:
		return memory.NewPubSub(cfg, log), nil
	}
}

func provideEventPublisher(
	cfg *config.Configuration,
	ps pubsub.PubSub,
	log *logger.Logger,
	sentryService *sentry.Service,
) publisher.EventPublisher {
	return publisher.NewEventPublisher(cfg, ps, log, sentryService)
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	customerService service.CustomerService,
	invoiceService service.InvoiceService,
	subscriptionService service.SubscriptionService,
	dashboardService service.DashboardService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(cfg, logger),
		Customer:     v1.NewCustomerHandler(customerService, logger),
		Invoice:      v1.NewInvoiceHandler(invoiceService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
		Dashboard:    v1.NewDashboardHandler(dashboardService),
		CronInvoice:  cron.NewInvoiceHandler(invoiceService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func closeDB(lc fx.Lifecycle, db *postgres.DB, log *logger.Logger) {
	if db == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing database connection")
			return db.Close()
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	ps pubsub.PubSub,
	log *logger.Logger,
) {
	// Stop hooks run in reverse, so the pubsub closes after its consumers
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ps.Close()
		},
	})

	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, cfg, ps, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	cfg *config.Configuration,
	subscriber pubsub.Subscriber,
	log *logger.Logger,
) {
	if !cfg.Event.Enabled || !cfg.Event.ConsumerEnabled {
		log.Info("event consumer is disabled")
		return
	}

	// Register handlers before starting the router
	publisher.NewEventLogHandler(log).RegisterHandler(router, cfg, subscriber)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(context.Background()); err != nil {
					log.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return router.Close()
		},
	})
}

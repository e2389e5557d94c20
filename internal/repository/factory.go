package repository

import (
	"context"

	"github.com/flexprice/invoicely/internal/cache"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/repository/cached"
	"github.com/flexprice/invoicely/internal/repository/memory"
	postgresRepo "github.com/flexprice/invoicely/internal/repository/postgres"
	"github.com/flexprice/invoicely/internal/sentry"
	"github.com/flexprice/invoicely/internal/types"
)

// NewDB connects to postgres when it backs the repositories. The memory
// driver gets a nil DB.
func NewDB(cfg *config.Configuration, logger *logger.Logger) (*postgres.DB, error) {
	if cfg.Store.Driver != types.StoreDriverPostgres {
		return nil, nil
	}

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Postgres.AutoMigrate {
		applied, err := postgres.Migrate(context.Background(), db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Infow("database migrated", "applied", applied)
	}
	return db, nil
}

func NewCustomerRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger, c cache.Cache) customer.Repository {
	var repo customer.Repository
	if cfg.Store.Driver == types.StoreDriverPostgres {
		repo = postgresRepo.NewCustomerRepository(db, logger)
	} else {
		repo = memory.NewCustomerStore()
	}

	if cfg.Cache.Enabled && c != nil {
		return cached.NewCustomerRepository(repo, c)
	}
	return repo
}

func NewInvoiceRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) invoice.Repository {
	if cfg.Store.Driver == types.StoreDriverPostgres {
		return postgresRepo.NewInvoiceRepository(db, logger)
	}
	return memory.NewInvoiceStore()
}

func NewSubscriptionRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) subscription.Repository {
	if cfg.Store.Driver == types.StoreDriverPostgres {
		return postgresRepo.NewSubscriptionRepository(db, logger)
	}
	return memory.NewSubscriptionStore()
}

// NewTransactor returns the unit of work services run multi-record writes in
func NewTransactor(cfg *config.Configuration, db *postgres.DB, sentry *sentry.Service, logger *logger.Logger) postgres.Transactor {
	if cfg.Store.Driver != types.StoreDriverPostgres || db == nil {
		return postgres.NoopTransactor{}
	}
	return postgres.NewSentryTransactor(db, sentry, logger)
}

// SeedMemoryStore loads the demo dataset into empty memory repositories under
// the default tenant. It does nothing for postgres or when seeding is off.
func SeedMemoryStore(
	cfg *config.Configuration,
	logger *logger.Logger,
	customers customer.Repository,
	invoices invoice.Repository,
	subscriptions subscription.Repository,
) error {
	if cfg.Store.Driver != types.StoreDriverMemory || !cfg.Store.Seed {
		return nil
	}

	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)

	count, err := customers.Count(ctx, types.NewNoLimitCustomerFilter())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed, err := memory.LoadSeed()
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, customers, invoices, subscriptions); err != nil {
		return err
	}

	logger.Infow("seeded memory store",
		"tenant_id", types.DefaultTenantID,
		"customers", len(seed.Customers),
		"invoices", len(seed.Invoices),
		"subscriptions", len(seed.Subscriptions),
	)
	return nil
}

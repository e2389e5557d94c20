package testutil

import (
	"context"

	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/repository/memory"
	"github.com/flexprice/invoicely/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the repositories a service test runs against
type Stores struct {
	CustomerRepo     customer.Repository
	InvoiceRepo      invoice.Repository
	SubscriptionRepo subscription.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	publisher *InMemoryEventPublisher
	db        postgres.Transactor
	logger    *logger.Logger
	config    *config.Configuration
	clock     *FixedClock
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		CustomerRepo:     memory.NewCustomerStore(),
		InvoiceRepo:      memory.NewInvoiceStore(),
		SubscriptionRepo: memory.NewSubscriptionStore(),
	}
	s.publisher = NewInMemoryEventPublisher()
	s.db = postgres.NoopTransactor{}
	s.clock = NewFixedClockOn("2024-02-20")
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.CustomerRepo.(*memory.CustomerStore).Clear()
	s.stores.InvoiceRepo.(*memory.InvoiceStore).Clear()
	s.stores.SubscriptionRepo.(*memory.SubscriptionStore).Clear()
	s.publisher.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPublisher returns the recording event publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryEventPublisher {
	return s.publisher
}

// GetDB returns the test transactor
func (s *BaseServiceTestSuite) GetDB() postgres.Transactor {
	return s.db
}

// GetClock returns the test clock, fixed at 2024-02-20
func (s *BaseServiceTestSuite) GetClock() *FixedClock {
	return s.clock
}

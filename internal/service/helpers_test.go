package service

import (
	"github.com/flexprice/invoicely/internal/testutil"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetClock(),
		stores.CustomerRepo,
		stores.InvoiceRepo,
		stores.SubscriptionRepo,
		s.GetPublisher(),
	)
}

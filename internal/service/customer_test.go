package service

import (
	"testing"

	"github.com/flexprice/invoicely/internal/api/dto"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/testutil"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) createCustomer(name, email, company string) string {
	c := testutil.NewTestCustomer(s.GetContext(), name, email, company)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	return c.ID
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	testCases := []struct {
		name          string
		request       dto.CreateCustomerRequest
		expectedError bool
		errorCode     string
	}{
		{
			name: "successful_creation",
			request: dto.CreateCustomerRequest{
				Name:    "Jane Doe",
				Email:   "jane@acme.test",
				Company: "Acme Corp",
			},
		},
		{
			name: "missing_name",
			request: dto.CreateCustomerRequest{
				Email: "jane@acme.test",
			},
			expectedError: true,
			errorCode:     ierr.ErrCodeValidation,
		},
		{
			name: "invalid_email",
			request: dto.CreateCustomerRequest{
				Name:  "Jane Doe",
				Email: "not-an-email",
			},
			expectedError: true,
			errorCode:     ierr.ErrCodeValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateCustomer(s.GetContext(), tc.request)
			if tc.expectedError {
				s.Error(err)
				s.Equal(tc.errorCode, ierr.CodeOf(err))
				return
			}

			s.NoError(err)
			s.NotEmpty(resp.ID)
			s.Equal(tc.request.Name, resp.Name)
			s.Equal(types.DefaultTenantID, resp.TenantID)

			stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), resp.ID)
			s.NoError(err)
			s.Equal(tc.request.Email, stored.Email)
		})
	}
	s.Equal([]types.EventName{types.EventCustomerCreated}, s.GetPublisher().Names())
}

func (s *CustomerServiceSuite) TestGetCustomer() {
	id := s.createCustomer("Jane Doe", "jane@acme.test", "")

	resp, err := s.service.GetCustomer(s.GetContext(), id)
	s.NoError(err)
	s.Equal("Jane Doe", resp.Name)

	_, err = s.service.GetCustomer(s.GetContext(), "cust_missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetCustomer(s.GetContext(), "")
	s.True(ierr.IsValidation(err))

	_, err = s.service.GetCustomer(testutil.TenantContext("other-tenant"), id)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestGetCustomerWithStats() {
	ctx := s.GetContext()
	id := s.createCustomer("Jane Doe", "jane@acme.test", "Acme Corp")
	otherID := s.createCustomer("John Roe", "john@globex.test", "Globex")

	invoices := []struct {
		customerID string
		status     types.InvoiceStatus
		amount     string
	}{
		{id, types.InvoiceStatusPaid, "100"},
		{id, types.InvoiceStatusPaid, "20.50"},
		{id, types.InvoiceStatusPending, "50"},
		{id, types.InvoiceStatusOverdue, "25"},
		{id, types.InvoiceStatusDraft, "10"},
		{id, types.InvoiceStatusCancelled, "5"},
		{otherID, types.InvoiceStatusPaid, "999"},
	}
	for i, inv := range invoices {
		number := invoiceNumberFor(i + 1)
		s.NoError(s.GetStores().InvoiceRepo.Create(ctx,
			testutil.NewTestInvoice(ctx, number, inv.customerID, "2024-01-10", "2024-02-09", inv.status, inv.amount)))
	}

	resp, err := s.service.GetCustomerWithStats(ctx, id)
	s.NoError(err)
	s.Equal(6, resp.TotalInvoices)
	s.True(decimal.RequireFromString("120.50").Equal(resp.TotalSpent), resp.TotalSpent.String())
	s.True(decimal.NewFromInt(75).Equal(resp.OutstandingBalance), resp.OutstandingBalance.String())
	s.Equal("$120.50", resp.FormattedTotalSpent)
	s.Equal("$75.00", resp.FormattedOutstandingBalance)
}

func (s *CustomerServiceSuite) TestGetCustomers() {
	s.createCustomer("Jane Doe", "jane@acme.test", "Acme Corp")
	s.createCustomer("John Roe", "john@globex.test", "Globex")
	s.createCustomer("Ada Byron", "ada@engines.test", "Acme Labs")

	resp, err := s.service.GetCustomers(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(types.FILTER_DEFAULT_LIMIT, resp.Pagination.Limit)

	filter := types.NewCustomerFilter()
	filter.SearchQuery = "acme"
	resp, err = s.service.GetCustomers(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(2, resp.Pagination.Total)
	names := lo.Map(resp.Items, func(c *dto.CustomerResponse, _ int) string { return c.Name })
	s.ElementsMatch([]string{"Jane Doe", "Ada Byron"}, names)

	filter = types.NewCustomerFilter()
	filter.Limit = lo.ToPtr(1)
	filter.Offset = lo.ToPtr(1)
	resp, err = s.service.GetCustomers(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(3, resp.Pagination.Total)

	filter = types.NewCustomerFilter()
	filter.Limit = lo.ToPtr(0)
	_, err = s.service.GetCustomers(s.GetContext(), filter)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestGetCustomersWithStats() {
	ctx := s.GetContext()
	id := s.createCustomer("Jane Doe", "jane@acme.test", "Acme Corp")
	s.createCustomer("John Roe", "john@globex.test", "")
	s.NoError(s.GetStores().InvoiceRepo.Create(ctx,
		testutil.NewTestInvoice(ctx, "INV-202401-0001", id, "2024-01-10", "2024-02-09", types.InvoiceStatusPaid, "300")))

	resp, err := s.service.GetCustomersWithStats(ctx, nil)
	s.NoError(err)
	s.Len(resp.Items, 2)

	byName := lo.KeyBy(resp.Items, func(c *dto.CustomerWithStatsResponse) string { return c.Name })
	s.Equal(1, byName["Jane Doe"].TotalInvoices)
	s.True(decimal.NewFromInt(300).Equal(byName["Jane Doe"].TotalSpent))
	s.Equal(0, byName["John Roe"].TotalInvoices)
	s.True(byName["John Roe"].TotalSpent.IsZero())
	s.Equal("$0.00", byName["John Roe"].FormattedOutstandingBalance)
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	id := s.createCustomer("Jane Doe", "jane@acme.test", "")

	resp, err := s.service.UpdateCustomer(s.GetContext(), id, dto.UpdateCustomerRequest{
		Company: lo.ToPtr("Acme Corp"),
	})
	s.NoError(err)
	s.Equal("Acme Corp", resp.Company)
	s.Equal("Jane Doe", resp.Name)

	_, err = s.service.UpdateCustomer(s.GetContext(), id, dto.UpdateCustomerRequest{
		Email: lo.ToPtr("broken"),
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateCustomer(s.GetContext(), "cust_missing", dto.UpdateCustomerRequest{})
	s.True(ierr.IsNotFound(err))
	s.Equal([]types.EventName{types.EventCustomerUpdated}, s.GetPublisher().Names())
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	ctx := s.GetContext()
	free := s.createCustomer("Jane Doe", "jane@acme.test", "")
	billed := s.createCustomer("John Roe", "john@globex.test", "")
	subscribed := s.createCustomer("Ada Byron", "ada@engines.test", "")

	s.NoError(s.GetStores().InvoiceRepo.Create(ctx,
		testutil.NewTestInvoice(ctx, "INV-202401-0001", billed, "2024-01-10", "2024-02-09", types.InvoiceStatusDraft, "10")))
	s.NoError(s.GetStores().SubscriptionRepo.Create(ctx,
		testutil.NewTestSubscription(ctx, subscribed, "Pro", "49", types.BillingFrequencyMonthly, "2024-01-01", 1)))

	s.NoError(s.service.DeleteCustomer(ctx, free))
	_, err := s.GetStores().CustomerRepo.Get(ctx, free)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteCustomer(ctx, billed)
	s.True(ierr.IsInvalidOperation(err))

	err = s.service.DeleteCustomer(ctx, subscribed)
	s.True(ierr.IsInvalidOperation(err))

	err = s.service.DeleteCustomer(ctx, free)
	s.True(ierr.IsNotFound(err))

	s.Equal([]types.EventName{types.EventCustomerDeleted}, s.GetPublisher().Names())
}

func invoiceNumberFor(seq int) string {
	return invoice.FormatInvoiceNumber(invoice.DefaultNumberPrefix, "202401", int64(seq))
}

package service

import (
	"context"

	"github.com/flexprice/invoicely/internal/api/dto"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	GetCustomerWithStats(ctx context.Context, id string) (*dto.CustomerWithStatsResponse, error)
	GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	GetCustomersWithStats(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersWithStatsResponse, error)
	UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer(ctx)
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer", "customer_id", cust.ID)
	s.publishEvent(ctx, types.EventCustomerCreated, cust.ID, cust)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if id == "" {
		return nil, ierr.NewError("customer ID is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomerWithStats(ctx context.Context, id string) (*dto.CustomerWithStatsResponse, error) {
	resp, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{CustomerID: id})
	if err != nil {
		return nil, err
	}

	stats := invoice.StatsForCustomer(id, invoices)
	return dto.NewCustomerWithStatsResponse(resp.Customer, stats, s.currency()), nil
}

func (s *customerService) GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	filter, err := normalizeCustomerFilter(filter)
	if err != nil {
		return nil, err
	}
	customers, total, err := s.listCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *customerService) GetCustomersWithStats(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersWithStatsResponse, error) {
	filter, err := normalizeCustomerFilter(filter)
	if err != nil {
		return nil, err
	}
	customers, total, err := s.listCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := invoice.StatsByCustomer(invoices)

	currency := s.currency()
	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerWithStatsResponse {
		st, ok := stats[c.ID]
		if !ok {
			st = customer.ZeroStats()
		}
		return dto.NewCustomerWithStatsResponse(c, st, currency)
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func normalizeCustomerFilter(filter *types.CustomerFilter) (*types.CustomerFilter, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *customerService) listCustomers(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, int, error) {
	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(cust)
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	cust.Touch(ctx)

	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, types.EventCustomerUpdated, cust.ID, cust)
	return &dto.CustomerResponse{Customer: cust}, nil
}

// DeleteCustomer removes a customer that no invoice or subscription refers to
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.CustomerRepo.Get(txCtx, id); err != nil {
			return err
		}

		invoices, err := s.InvoiceRepo.List(txCtx, &types.InvoiceFilter{CustomerID: id})
		if err != nil {
			return err
		}
		subFilter := types.NewNoLimitSubscriptionFilter()
		subFilter.CustomerID = id
		subscriptions, err := s.SubRepo.Count(txCtx, subFilter)
		if err != nil {
			return err
		}

		if len(invoices) > 0 || subscriptions > 0 {
			return ierr.NewError("customer is still referenced").
				WithHint("Delete or reassign the customer's invoices and subscriptions first").
				WithReportableDetails(map[string]any{
					"customer_id":   id,
					"invoices":      len(invoices),
					"subscriptions": subscriptions,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		return s.CustomerRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("deleted customer", "customer_id", id)
	s.publishEvent(ctx, types.EventCustomerDeleted, id, nil)
	return nil
}

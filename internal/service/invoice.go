package service

import (
	"context"
	"strings"

	"github.com/flexprice/invoicely/internal/api/dto"
	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/metrics"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

// maxNumberAttempts bounds the search for a free invoice number in a month
const maxNumberAttempts = 100

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, req *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	PreviewTotals(ctx context.Context, req dto.PreviewTotalsRequest) (*dto.InvoiceTotalsResponse, error)
	MarkOverdueInvoices(ctx context.Context) (*dto.MarkOverdueResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx, s.Config.Billing, s.today())
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		cust, err := s.CustomerRepo.Get(txCtx, inv.CustomerID)
		if err != nil {
			return err
		}

		if inv.InvoiceNumber == "" {
			number, err := s.nextInvoiceNumber(txCtx, inv)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = number
		} else {
			exists, err := s.InvoiceRepo.ExistsByNumber(txCtx, inv.InvoiceNumber)
			if err != nil {
				return err
			}
			if exists {
				return ierr.NewError("invoice number already exists").
					WithHintf("Invoice number %s is already in use", inv.InvoiceNumber).
					WithReportableDetails(map[string]any{
						"invoice_number": inv.InvoiceNumber,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
		}

		if err := s.InvoiceRepo.Create(txCtx, inv); err != nil {
			return err
		}
		inv.Customer = cust
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"total", inv.Total().String(),
	)
	s.publishEvent(ctx, types.EventInvoiceCreated, inv.ID, dto.NewInvoiceResponse(inv))
	return dto.NewInvoiceResponse(inv), nil
}

// nextInvoiceNumber draws from the issue month's sequence, skipping numbers
// that were taken manually
func (s *invoiceService) nextInvoiceNumber(ctx context.Context, inv *invoice.Invoice) (string, error) {
	yearMonth := invoice.YearMonth(inv.IssueDate)
	for i := 0; i < maxNumberAttempts; i++ {
		seq, err := s.InvoiceRepo.NextSequence(ctx, yearMonth)
		if err != nil {
			return "", err
		}

		number := invoice.FormatInvoiceNumber(s.Config.Billing.InvoiceNumberPrefix, yearMonth, seq)
		exists, err := s.InvoiceRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}

	return "", ierr.NewError("could not allocate invoice number").
		WithHint("Failed to generate a unique invoice number, please try again").
		WithReportableDetails(map[string]any{
			"year_month": yearMonth,
		}).
		Mark(ierr.ErrSystem)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice ID is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCustomers(ctx, inv); err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

// ListInvoices resolves customers, applies the filter and the sort, then
// returns the requested page
func (s *invoiceService) ListInvoices(ctx context.Context, req *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error) {
	if req == nil {
		req = &dto.ListInvoicesRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter, err := req.ToFilter()
	if err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{CustomerID: filter.CustomerID})
	if err != nil {
		return nil, err
	}
	if err := s.resolveCustomers(ctx, invoices...); err != nil {
		return nil, err
	}

	invoices = invoice.FilterInvoices(invoices, filter)
	if req.Sort != "" {
		invoices = invoice.SortInvoices(invoices, req.Sort, req.Direction)
	}

	page := req.GetQueryFilter()
	items := lo.Map(types.Paginate(invoices, page), func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.NewInvoiceResponse(inv)
	})
	resp := types.NewListResponse(items, len(invoices), page)
	return &resp, nil
}

// resolveCustomers attaches each invoice's customer. Invoices whose customer
// no longer exists are left unresolved.
func (s *invoiceService) resolveCustomers(ctx context.Context, invoices ...*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	filter := types.NewNoLimitCustomerFilter()
	filter.CustomerIDs = lo.Uniq(lo.Map(invoices, func(inv *invoice.Invoice, _ int) string {
		return inv.CustomerID
	}))

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	byID := lo.KeyBy(customers, func(c *customer.Customer) string {
		return c.ID
	})

	for _, inv := range invoices {
		inv.Customer = byID[inv.CustomerID]
	}
	return nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if inv.Status != types.InvoiceStatusDraft {
			return ierr.NewError("invoice is not a draft").
				WithHint("Only draft invoices can be edited").
				WithReportableDetails(map[string]any{
					"invoice_id": id,
					"status":     inv.Status,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		req.Apply(inv)
		if err := inv.Validate(); err != nil {
			return err
		}
		if req.CustomerID != nil {
			if _, err := s.CustomerRepo.Get(txCtx, inv.CustomerID); err != nil {
				return err
			}
		}

		inv.Touch(txCtx)
		return s.InvoiceRepo.Update(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	if err := s.resolveCustomers(ctx, inv); err != nil {
		return nil, err
	}
	resp := dto.NewInvoiceResponse(inv)
	s.publishEvent(ctx, types.EventInvoiceUpdated, inv.ID, resp)
	return resp, nil
}

type invoiceStatusChange struct {
	InvoiceNumber string              `json:"invoice_number"`
	From          types.InvoiceStatus `json:"from"`
	To            types.InvoiceStatus `json:"to"`
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		inv  *invoice.Invoice
		from types.InvoiceStatus
	)
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		from = inv.Status
		if from == req.Status {
			return nil
		}

		if !from.CanTransitionTo(req.Status) {
			return ierr.NewErrorf("cannot move invoice from %s to %s", from, req.Status).
				WithHintf("A %s invoice cannot be marked %s", from, req.Status).
				WithReportableDetails(map[string]any{
					"invoice_id": id,
					"from":       from,
					"to":         req.Status,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		inv.Status = req.Status
		if req.Status == types.InvoiceStatusPaid {
			paidAt := s.Clock.Now()
			inv.PaidAt = &paidAt
		}
		inv.Touch(txCtx)
		return s.InvoiceRepo.Update(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	if err := s.resolveCustomers(ctx, inv); err != nil {
		return nil, err
	}
	if from == req.Status {
		return dto.NewInvoiceResponse(inv), nil
	}

	s.Logger.Infow("invoice status changed",
		"invoice_id", inv.ID,
		"from", from,
		"to", inv.Status,
	)
	s.publishEvent(ctx, types.EventInvoiceStatusChanged, inv.ID, invoiceStatusChange{
		InvoiceNumber: inv.InvoiceNumber,
		From:          from,
		To:            inv.Status,
	})
	return dto.NewInvoiceResponse(inv), nil
}

// DeleteInvoice removes a draft invoice. Issued invoices are cancelled instead.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if inv.Status != types.InvoiceStatusDraft {
		return ierr.NewError("invoice is not a draft").
			WithHint("Only draft invoices can be deleted, cancel issued invoices instead").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"status":     inv.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("deleted invoice", "invoice_id", id, "invoice_number", inv.InvoiceNumber)
	s.publishEvent(ctx, types.EventInvoiceDeleted, id, nil)
	return nil
}

func (s *invoiceService) PreviewTotals(ctx context.Context, req dto.PreviewTotalsRequest) (*dto.InvoiceTotalsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.currency()
	}

	totals := invoice.CalculateTotals(req.ToLineItems(), req.TaxRate, req.DiscountAmount)
	return dto.NewInvoiceTotalsResponse(totals, currency), nil
}

// MarkOverdueInvoices moves every pending invoice of the tenant whose due
// date has passed to overdue
func (s *invoiceService) MarkOverdueInvoices(ctx context.Context) (*dto.MarkOverdueResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	today := s.today()
	resp := &dto.MarkOverdueResponse{InvoiceIDs: []string{}}
	for _, inv := range invoices {
		if !inv.IsPastDue(today) {
			continue
		}

		inv.Status = types.InvoiceStatusOverdue
		inv.Touch(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			s.Logger.Errorw("failed to mark invoice overdue",
				"invoice_id", inv.ID,
				"error", err,
			)
			continue
		}

		resp.InvoiceIDs = append(resp.InvoiceIDs, inv.ID)
		s.publishEvent(ctx, types.EventInvoiceStatusChanged, inv.ID, invoiceStatusChange{
			InvoiceNumber: inv.InvoiceNumber,
			From:          types.InvoiceStatusPending,
			To:            types.InvoiceStatusOverdue,
		})
	}

	resp.Count = len(resp.InvoiceIDs)
	metrics.AddOverdue(resp.Count)
	s.Logger.Infow("marked overdue invoices",
		"tenant_id", types.GetTenantID(ctx),
		"count", resp.Count,
		"as_of", today.String(),
	)
	return resp, nil
}

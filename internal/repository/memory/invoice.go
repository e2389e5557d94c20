package memory

import (
	"context"
	"sync"

	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/samber/lo"
)

// InvoiceStore implements invoice.Repository
type InvoiceStore struct {
	*Store[*invoice.Invoice]

	seqMu     sync.Mutex
	sequences map[string]int64
}

// NewInvoiceStore creates a new in-memory invoice store
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{
		Store:     NewStore("invoice", copyInvoice),
		sequences: make(map[string]int64),
	}
}

// copyInvoice deep copies line items and drops the resolved customer
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.Customer = nil
	cp.LineItems = lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) *invoice.LineItem {
		item := *li
		return &item
	})
	if inv.PaidAt != nil {
		cp.PaidAt = lo.ToPtr(*inv.PaidAt)
	}
	return &cp
}

func (s *InvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.Store.Create(ctx, inv.ID, inv); err != nil {
		return err
	}
	s.observeNumber(inv)
	return nil
}

func (s *InvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenantMatches(ctx, inv.TenantID) {
		return nil, s.notFound(id)
	}
	return inv, nil
}

func (s *InvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, err := s.Get(ctx, inv.ID); err != nil {
		return err
	}
	return s.Store.Update(ctx, inv.ID, inv)
}

func (s *InvoiceStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func (s *InvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	return s.Store.List(ctx, filter, invoiceFilterFn, nil)
}

func (s *InvoiceStore) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	count, err := s.Store.Count(ctx, invoiceNumber, func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return tenantMatches(ctx, inv.TenantID) && inv.InvoiceNumber == invoiceNumber
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *InvoiceStore) NextSequence(ctx context.Context, yearMonth string) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	key := types.GetTenantID(ctx) + ":" + yearMonth
	s.sequences[key]++
	return s.sequences[key], nil
}

// Clear removes all invoices and restarts invoice numbering
func (s *InvoiceStore) Clear() {
	s.Store.Clear()

	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.sequences = make(map[string]int64)
}

// observeNumber keeps the month's sequence ahead of numbers that were
// assigned outside NextSequence, e.g. by the seed.
func (s *InvoiceStore) observeNumber(inv *invoice.Invoice) {
	_, yearMonth, seq, ok := invoice.ParseInvoiceNumber(inv.InvoiceNumber)
	if !ok {
		return
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	key := inv.TenantID + ":" + yearMonth
	if seq > s.sequences[key] {
		s.sequences[key] = seq
	}
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if inv == nil || !tenantMatches(ctx, inv.TenantID) {
		return false
	}
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	return f.CustomerID == "" || inv.CustomerID == f.CustomerID
}

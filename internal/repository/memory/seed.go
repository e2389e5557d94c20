package memory

import (
	"context"
	_ "embed"

	"github.com/flexprice/invoicely/internal/domain/customer"
	"github.com/flexprice/invoicely/internal/domain/invoice"
	"github.com/flexprice/invoicely/internal/domain/subscription"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	jsoniter "github.com/json-iterator/go"
)

//go:embed seed.json
var seedData []byte

// Seed is the demo dataset the memory driver starts with
type Seed struct {
	Customers     []*customer.Customer         `json:"customers"`
	Invoices      []*invoice.Invoice           `json:"invoices"`
	Subscriptions []*subscription.Subscription `json:"subscriptions"`
}

// LoadSeed decodes the embedded demo dataset
func LoadSeed() (*Seed, error) {
	var seed Seed
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(seedData, &seed); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Embedded seed data is malformed").
			Mark(ierr.ErrSystem)
	}
	return &seed, nil
}

// Apply writes the seed into the stores under the tenant in ctx
func (s *Seed) Apply(ctx context.Context, customers customer.Repository, invoices invoice.Repository, subscriptions subscription.Repository) error {
	tenantID := types.GetTenantID(ctx)
	userID := types.GetUserID(ctx)

	stamp := func(b *types.BaseModel) {
		b.TenantID = tenantID
		b.CreatedBy = userID
		b.UpdatedBy = userID
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
	}

	for _, c := range s.Customers {
		stamp(&c.BaseModel)
		if err := customers.Create(ctx, c); err != nil {
			return err
		}
	}
	for _, inv := range s.Invoices {
		stamp(&inv.BaseModel)
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
	}
	for _, sub := range s.Subscriptions {
		stamp(&sub.BaseModel)
		if err := subscriptions.Create(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

package testutil

import (
	"context"

	"github.com/flexprice/invoicely/internal/types"
)

// SetupContext returns a context carrying the default tenant and user
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// TenantContext returns a context for another tenant
func TenantContext(tenantID string) context.Context {
	ctx := SetupContext()
	return context.WithValue(ctx, types.CtxTenantID, tenantID)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	w := newWhere("tenant_1")
	w.add("status = ?", "active")
	w.add("(name ILIKE ? OR email ILIKE ?)", "%a%", "%a%")

	assert.Equal(t, "WHERE tenant_id = $1 AND status = $2 AND (name ILIKE $3 OR email ILIKE $4)", w.String())
	assert.Equal(t, []interface{}{"tenant_1", "active", "%a%", "%a%"}, w.args)
}

func TestPaginate(t *testing.T) {
	query, args := paginate("SELECT 1", []interface{}{"t"}, &types.QueryFilter{Limit: lo.ToPtr(10), Offset: lo.ToPtr(20)})
	assert.Equal(t, "SELECT 1 LIMIT $2 OFFSET $3", query)
	assert.Equal(t, []interface{}{"t", 10, 20}, args)

	query, args = paginate("SELECT 1", nil, types.NewNoLimitQueryFilter())
	assert.Equal(t, "SELECT 1", query)
	assert.Empty(t, args)
}

func TestCustomerWhere_Search(t *testing.T) {
	ctx := types.SetTenantID(context.Background(), "tenant_1")
	where, args := customerWhere(ctx, &types.CustomerFilter{SearchQuery: " 50%_off "})

	assert.Equal(t, "WHERE tenant_id = $1 AND (name ILIKE $2 OR email ILIKE $3 OR company ILIKE $4)", where)
	assert.Equal(t, `%50\%\_off%`, args[1])
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, wrapError(nil, "invoice", "inv_1"))
	assert.True(t, ierr.IsNotFound(wrapError(sql.ErrNoRows, "invoice", "inv_1")))
	assert.True(t, ierr.IsAlreadyExists(wrapError(&pq.Error{Code: uniqueViolation}, "invoice", "inv_1")))
	assert.True(t, ierr.IsInvalidOperation(wrapError(&pq.Error{Code: foreignKeyViolation}, "customer", "cust_1")))
	assert.True(t, ierr.Is(wrapError(errors.New("connection reset"), "invoice", "inv_1"), ierr.ErrDatabase))
}

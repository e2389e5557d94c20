package types

import (
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/samber/lo"
)

// StatusAll is the status filter value matching every status
const StatusAll = "all"

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// BaseFilter defines common pagination capabilities
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
}

// QueryFilter holds optional pagination parameters
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

// NewDefaultQueryFilter returns the default page
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  nil,
		Offset: lo.ToPtr(0),
	}
}

// IsUnlimited returns true if this is an unlimited query
func (f *QueryFilter) IsUnlimited() bool {
	return f == nil || f.Limit == nil
}

// GetLimit returns the limit value, 0 for unlimited queries
func (f *QueryFilter) GetLimit() int {
	if f.IsUnlimited() {
		return 0
	}
	return *f.Limit
}

// GetOffset returns the offset value or 0 if not set
func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// Validate validates the pagination fields
func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("limit out of range").
			WithHintf("Limit must be between 1 and %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("negative offset").
			WithHint("Offset must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Paginate returns the page of items selected by the filter
func Paginate[T any](items []T, f BaseFilter) []T {
	if f == nil || f.IsUnlimited() {
		return items
	}
	start := f.GetOffset()
	if start >= len(items) {
		return []T{}
	}
	end := start + f.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

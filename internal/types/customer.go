package types

// CustomerFilter represents filters for customer queries
type CustomerFilter struct {
	*QueryFilter
	// SearchQuery is matched case-insensitively against name, email and company
	SearchQuery string   `json:"search_query,omitempty" form:"search_query"`
	CustomerIDs []string `json:"customer_ids,omitempty" form:"customer_ids"`
	Email       string   `json:"email,omitempty" form:"email" validate:"omitempty,email"`
}

// NewCustomerFilter creates a new CustomerFilter with default pagination
func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitCustomerFilter creates a new CustomerFilter with no pagination limits
func NewNoLimitCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *CustomerFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

package types

// PaginationResponse describes the page a list response holds
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse is a page of items plus its pagination metadata
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

// NewListResponse builds a list response for the page selected by filter.
// total is the number of matching items before pagination.
func NewListResponse[T any](items []T, total int, filter BaseFilter) ListResponse[T] {
	if items == nil {
		items = []T{}
	}

	resp := ListResponse[T]{
		Items:      items,
		Pagination: PaginationResponse{Total: total},
	}
	if filter != nil {
		resp.Pagination.Limit = filter.GetLimit()
		resp.Pagination.Offset = filter.GetOffset()
	}
	return resp
}

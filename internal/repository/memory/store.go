package memory

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(ctx context.Context, item T, filter interface{}) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// Store is a generic tenant-agnostic in-memory store. Items are kept in
// insertion order so that listings without a sort function are deterministic.
// Every read and write goes through clone so callers never share pointers
// with the store.
type Store[T any] struct {
	mu    sync.RWMutex
	kind  string
	items map[string]T
	order []string
	clone func(T) T
}

// NewStore creates a new Store for the named entity kind
func NewStore[T any](kind string, clone func(T) T) *Store[T] {
	return &Store[T]{
		kind:  kind,
		items: make(map[string]T),
		clone: clone,
	}
}

// Create adds a new item to the store
func (s *Store[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("%s already exists", s.kind).
			WithHintf("A %s with this ID already exists", s.kind).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = s.clone(item)
	s.order = append(s.order, id)
	return nil
}

// Get retrieves an item by ID
func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return s.clone(item), nil
	}

	var zero T
	return zero, s.notFound(id)
}

// List retrieves the items accepted by filterFn, sorted by sortFn when given.
// Pagination is applied when filter implements types.BaseFilter.
func (s *Store[T]) List(ctx context.Context, filter interface{}, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if filterFn == nil || filterFn(ctx, item, filter) {
			result = append(result, s.clone(item))
		}
	}

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}

	if f, ok := filter.(types.BaseFilter); ok {
		return types.Paginate(result, f), nil
	}
	return result, nil
}

// Count returns the total number of items matching the filter
func (s *Store[T]) Count(ctx context.Context, filter interface{}, filterFn FilterFunc[T]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, id := range s.order {
		if filterFn == nil || filterFn(ctx, s.items[id], filter) {
			count++
		}
	}
	return count, nil
}

// Update replaces an existing item
func (s *Store[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return s.notFound(id)
	}

	s.items[id] = s.clone(item)
	return nil
}

// Delete removes an item from the store
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return s.notFound(id)
	}

	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all items from the store
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
}

func (s *Store[T]) notFound(id string) error {
	return ierr.NewErrorf("%s not found", s.kind).
		WithHintf("The requested %s does not exist", s.kind).
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}

// tenantMatches reports whether a record belongs to the tenant in ctx
func tenantMatches(ctx context.Context, tenantID string) bool {
	return tenantID == types.GetTenantID(ctx)
}

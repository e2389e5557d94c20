package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/invoicely/internal/publisher"
	"github.com/flexprice/invoicely/internal/types"
)

// InMemoryEventPublisher records published events for assertions
type InMemoryEventPublisher struct {
	mu     sync.RWMutex
	events []*publisher.Event
}

var _ publisher.EventPublisher = (*InMemoryEventPublisher)(nil)

func NewInMemoryEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{}
}

func (p *InMemoryEventPublisher) Publish(_ context.Context, event *publisher.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns the recorded events in publish order
func (p *InMemoryEventPublisher) Events() []*publisher.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*publisher.Event(nil), p.events...)
}

// Names returns the names of the recorded events in publish order
func (p *InMemoryEventPublisher) Names() []types.EventName {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]types.EventName, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name)
	}
	return names
}

func (p *InMemoryEventPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

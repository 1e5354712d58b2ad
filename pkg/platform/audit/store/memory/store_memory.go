package memory

import (
	"context"
	"sync"

	id "sppg/pkg/domain"
	audit "sppg/pkg/platform/audit"
)

// InMemoryStore keeps audit events per tenant. Used by unit tests and by
// deployments that run without Kafka.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.TenantID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.TenantID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.TenantID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.TenantID] = append(s.events[event.TenantID], event)
	return nil
}

// ListByTenant returns a copy of the events recorded for one tenant.
func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[tenantID]...), nil
}

// ListAll returns all audit events across all tenants.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, tenantEvents := range s.events {
		all = append(all, tenantEvents...)
	}
	return all, nil
}

package store

import (
	"context"
	"fmt"
	"sync"

	"pidstore/internal/person/models"
	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
)

// InMemory keeps person records in a map. Create-if-absent runs under the
// write lock, so the map key plays the role of the primary-key constraint.
type InMemory struct {
	mu      sync.RWMutex
	persons map[domain.ExternalID]models.Person
}

// NewInMemory creates an empty in-memory person store.
func NewInMemory() *InMemory {
	return &InMemory{
		persons: make(map[domain.ExternalID]models.Person),
	}
}

// Create inserts the record unless one with the same identifier exists.
func (s *InMemory) Create(_ context.Context, p *models.Person) error {
	if p == nil {
		return fmt.Errorf("person is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.persons[p.ExternalID]; exists {
		return fmt.Errorf("person %s: %w", p.ExternalID, sentinel.ErrAlreadyUsed)
	}
	s.persons[p.ExternalID] = *p
	return nil
}

// FindByID returns a copy of the stored record.
func (s *InMemory) FindByID(_ context.Context, id domain.ExternalID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

// Count returns the number of stored records.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.persons), nil
}

// Package store holds the issued bill stores: in-memory, PostgreSQL and Redis.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"qrbill/internal/billing"
	"qrbill/pkg/platform/sentinel"
)

// InMemoryStore keeps issued bills in process memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	bills      map[uuid.UUID]*billing.IssuedBill
	references map[string]uuid.UUID
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bills:      make(map[uuid.UUID]*billing.IssuedBill),
		references: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, issued *billing.IssuedBill) error {
	if issued == nil || issued.Bill == nil {
		return fmt.Errorf("issued bill is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bills[issued.ID]; ok {
		return fmt.Errorf("bill %s: %w", issued.ID, sentinel.ErrConflict)
	}
	key := referenceKey(issued)
	if key != "" {
		if _, ok := s.references[key]; ok {
			return fmt.Errorf("reference %s: %w", issued.Bill.Reference, sentinel.ErrConflict)
		}
		s.references[key] = issued.ID
	}

	s.bills[issued.ID] = clone(issued)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*billing.IssuedBill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issued, ok := s.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill %s: %w", id, sentinel.ErrNotFound)
	}
	return clone(issued), nil
}

func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}

// referenceKey identifies a payment reference per account. Bills without a
// reference never conflict.
func referenceKey(issued *billing.IssuedBill) string {
	if issued.Bill.Reference == "" {
		return ""
	}
	return issued.Bill.Account + ":" + issued.Bill.Reference
}

func clone(issued *billing.IssuedBill) *billing.IssuedBill {
	c := *issued
	c.Bill = issued.Bill.Clone()
	return &c
}

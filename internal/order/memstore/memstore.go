// Package memstore provides an in-memory implementation of order.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/helpdesk/internal/order"
)

// Store holds order records in memory. Suitable for dev/testing.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*order.Order // order ID -> record
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{orders: make(map[string]*order.Order)}
}

// Get retrieves an order by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*order.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, false, nil
	}
	cp := *o
	return &cp, true, nil
}

// Put stores a copy of the order record.
func (s *Store) Put(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

// SetStatus updates the status label of an order. Returns a copy of the
// updated record, or ok=false when the order does not exist.
func (s *Store) SetStatus(_ context.Context, id, status string) (*order.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, false, nil
	}
	o.Status = status
	cp := *o
	return &cp, true, nil
}

// ListByCustomer returns all orders for the given customer name, ordered by
// id for deterministic output.
func (s *Store) ListByCustomer(_ context.Context, name string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []order.Order
	for _, o := range s.orders {
		if o.CustomerName == name {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

package order

import (
	"context"
	"fmt"
)

// Snapshot is the shaped result of an order lookup, consumed as retrieval
// context by reply drafting. A missing order is a normal outcome, not an
// error.
type Snapshot struct {
	Found        bool    `json:"found"`
	ID           string  `json:"id,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	Status       string  `json:"status,omitempty"`
	Price        float64 `json:"price,omitempty"`
	CustomerName string  `json:"customer_name,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Lookup fetches an order by id and shapes it for downstream reasoning. The
// error return is reserved for store failures; not-found comes back as a
// well-formed Snapshot.
func Lookup(ctx context.Context, s Store, id string) (*Snapshot, error) {
	o, ok, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if !ok {
		return &Snapshot{Found: false, Error: fmt.Sprintf("Order %s not found", id)}, nil
	}
	return &Snapshot{
		Found:        true,
		ID:           o.ID,
		ProductName:  o.ProductName,
		Status:       o.Status,
		Price:        o.Price,
		CustomerName: o.CustomerName,
	}, nil
}

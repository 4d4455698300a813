// Package order defines the order record collaborator: the domain model, the
// Store interface, and the lookup adapter consumed by ticket triage.
package order

import "context"

// Order is a single order record, keyed by a stable unique id.
type Order struct {
	ID           string  `json:"id"`
	ProductName  string  `json:"product_name"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	CustomerName string  `json:"customer_name"`
}

// Fixed status literals used by the convenience transitions.
const (
	StatusCanceled        = "Canceled"
	StatusReturnRequested = "Return Requested"
)

// Store is the persistence interface for order records.
type Store interface {
	// Get retrieves an order by id. A missing order is (nil, false, nil).
	Get(ctx context.Context, id string) (*Order, bool, error)

	// Put inserts or replaces an order record.
	Put(ctx context.Context, o *Order) error

	// SetStatus updates the status label of an order and returns the updated
	// record. A missing order is (nil, false, nil).
	SetStatus(ctx context.Context, id, status string) (*Order, bool, error)

	// ListByCustomer returns all orders for the given customer name.
	ListByCustomer(ctx context.Context, name string) ([]Order, error)
}

// Cancel sets an order's status to Canceled.
func Cancel(ctx context.Context, s Store, id string) (*Order, bool, error) {
	return s.SetStatus(ctx, id, StatusCanceled)
}

// RequestReturn sets an order's status to Return Requested.
func RequestReturn(ctx context.Context, s Store, id string) (*Order, bool, error) {
	return s.SetStatus(ctx, id, StatusReturnRequested)
}

package order

import "context"

// DemoOrders is the demo dataset installed by SeedDemo.
var DemoOrders = []Order{
	{ID: "ORD1001", ProductName: "iPhone 15 Pro", Status: "Delivered", Price: 1299.99, CustomerName: "Padmini Bolem"},
	{ID: "ORD1002", ProductName: "Samsung Galaxy S24", Status: "Shipped", Price: 999.99, CustomerName: "John Doe"},
	{ID: "ORD1003", ProductName: "MacBook Air M3", Status: "Processing", Price: 1499.00, CustomerName: "Mary Jane"},
}

// SeedDemo inserts the demo orders into the store, skipping any id that
// already exists. It is idempotent and returns the number of rows inserted.
func SeedDemo(ctx context.Context, s Store) (int, error) {
	inserted := 0
	for i := range DemoOrders {
		o := DemoOrders[i]
		if _, ok, err := s.Get(ctx, o.ID); err != nil {
			return inserted, err
		} else if ok {
			continue
		}
		if err := s.Put(ctx, &o); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

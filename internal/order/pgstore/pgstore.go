// Package pgstore provides a PostgreSQL implementation of order.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/helpdesk/internal/order"
)

var tracer = otel.Tracer("github.com/linnemanlabs/helpdesk/internal/order/pgstore")

//go:embed schema.sql
var schema string

const orderColumns = `id, product_name, status, price, customer_name`

// Store persists order records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Get retrieves an order by ID.
func (s *Store) Get(ctx context.Context, id string) (*order.Order, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrderRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if o == nil {
		return nil, false, nil
	}
	return o, true, nil
}

// Put inserts or replaces an order record (upsert on id).
func (s *Store) Put(ctx context.Context, o *order.Order) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	query := `INSERT INTO orders (id, product_name, status, price, customer_name)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		product_name  = EXCLUDED.product_name,
		status        = EXCLUDED.status,
		price         = EXCLUDED.price,
		customer_name = EXCLUDED.customer_name`

	if _, err := s.pool.Exec(ctx, query, o.ID, o.ProductName, o.Status, o.Price, o.CustomerName); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// SetStatus updates the status label of an order and returns the updated
// record. A missing order is (nil, false, nil).
func (s *Store) SetStatus(ctx context.Context, id, status string) (*order.Order, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.SetStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	query := `UPDATE orders SET status = $2 WHERE id = $1 RETURNING ` + orderColumns
	o, err := scanOrderRow(s.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if o == nil {
		return nil, false, nil
	}
	return o, true, nil
}

// ListByCustomer returns all orders for the given customer name.
func (s *Store) ListByCustomer(ctx context.Context, name string) ([]order.Order, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByCustomer", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_name = $1 ORDER BY id`
	rows, err := s.pool.Query(ctx, query, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.ProductName, &o.Status, &o.Price, &o.CustomerName); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

// scanOrderRow scans a single row into an order.Order. Returns (nil, nil)
// when no row is found.
func scanOrderRow(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.ProductName, &o.Status, &o.Price, &o.CustomerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &o, nil
}

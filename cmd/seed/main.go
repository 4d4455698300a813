// Seed inserts the demo order set into a PostgreSQL order store. It is
// idempotent: existing ids are left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/linnemanlabs/go-core/cfg"
	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/helpdesk/internal/order"
	"github.com/linnemanlabs/helpdesk/internal/order/pgstore"
	"github.com/linnemanlabs/helpdesk/internal/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	var logCfg log.Config
	logCfg.RegisterFlags(flag.CommandLine)
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL for the order store")
	flag.Parse()

	cfg.FillFromEnv(flag.CommandLine, "HELPDESK_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if databaseURL == "" {
		return fmt.Errorf("database-url is required")
	}
	if err := logCfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	lg, err := log.New(logCfg.ToOptions("helpdesk"))
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = lg.Sync() }()
	L := lg.With("component", "seed")
	ctx = log.WithContext(ctx, L)

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	defer pool.Close()

	store, err := pgstore.New(ctx, pool)
	if err != nil {
		return fmt.Errorf("pgstore init: %w", err)
	}

	n, err := order.SeedDemo(ctx, store)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	L.Info(ctx, "seed complete", "inserted", n, "total", len(order.DemoOrders))
	return nil
}

// Package ticketapi exposes the triage and order operations over HTTP.
package ticketapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/helpdesk/internal/order"
	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

// TriageService defines the business operations ticketapi needs.
type TriageService interface {
	Triage(ctx context.Context, t *ticket.Ticket) (*ticket.Result, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    TriageService
	orders order.Store
}

// New creates a new API handler.
func New(logger log.Logger, svc TriageService, orders order.Store) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	if orders == nil {
		panic(xerrors.New("order store is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
		orders: orders,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/triage", a.handleTriage)
		r.Get("/orders", a.handleListOrders)
		r.Get("/orders/{id}", a.handleGetOrder)
		r.Put("/orders/{id}/status", a.handleSetOrderStatus)
		r.Post("/orders/{id}/cancel", a.handleCancelOrder)
		r.Post("/orders/{id}/return", a.handleReturnOrder)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

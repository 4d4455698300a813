package ticketapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/helpdesk/internal/order"
)

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, ok, err := a.orders.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get order", "order_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	customer := r.URL.Query().Get("customer")
	if customer == "" {
		http.Error(w, `{"error":"customer query parameter is required"}`, http.StatusBadRequest)
		return
	}

	orders, err := a.orders.ListByCustomer(r.Context(), customer)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list orders", "customer", customer)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Status) == "" {
		http.Error(w, `{"error":"status is required"}`, http.StatusBadRequest)
		return
	}

	a.setStatus(w, r, strings.TrimSpace(req.Status))
}

func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	a.setStatus(w, r, order.StatusCanceled)
}

func (a *API) handleReturnOrder(w http.ResponseWriter, r *http.Request) {
	a.setStatus(w, r, order.StatusReturnRequested)
}

func (a *API) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id := chi.URLParam(r, "id")

	o, ok, err := a.orders.SetStatus(r.Context(), id, status)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to update order status", "order_id", id, "status", status)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	a.logger.Info(r.Context(), "order status updated", "order_id", id, "status", status)
	writeJSON(w, http.StatusOK, o)
}

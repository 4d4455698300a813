package ticketapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/linnemanlabs/helpdesk/internal/order"
	"github.com/linnemanlabs/helpdesk/internal/order/memstore"
	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

// stubService returns a canned triage result or error.
type stubService struct {
	result  *ticket.Result
	err     error
	tickets []*ticket.Ticket
}

func (s *stubService) Triage(_ context.Context, t *ticket.Ticket) (*ticket.Result, error) {
	s.tickets = append(s.tickets, t)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func reply(text string) *string { return &text }

func defaultResult() *ticket.Result {
	return &ticket.Result{
		Reply:          reply("We are on it."),
		IssueType:      ticket.IssueDamagedItem,
		OrderID:        reply("ORD1001"),
		Evidence:       reply("arrived broken"),
		Recommendation: reply("offer_replacement"),
	}
}

func newTestRouter(t *testing.T, svc TriageService) (chi.Router, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	if _, err := order.SeedDemo(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	api := New(nil, svc, store)
	r := chi.NewRouter()
	api.RegisterRoutes(r)
	return r, store
}

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	api := New(nil, &stubService{result: defaultResult()}, memstore.New())
	if api.logger == nil {
		t.Fatal("New left logger nil; expected Nop logger")
	}
}

func TestNew_NilService_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New did not panic for nil service")
		}
	}()
	New(log.Nop(), nil, memstore.New())
}

func TestNew_NilStore_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New did not panic for nil order store")
		}
	}()
	New(log.Nop(), &stubService{}, nil)
}

func TestTriage_OK(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: defaultResult()}
	r, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage",
		strings.NewReader(`{"ticket_text":"my phone arrived broken","order_id":"ORD1001","query":"can I get a new one?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"reply", "issue_type", "order_id", "evidence", "recommendation"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing key %q: %s", key, rec.Body.String())
		}
	}
	if body["issue_type"] != "damaged_item" {
		t.Errorf("issue_type = %v, want damaged_item", body["issue_type"])
	}

	if len(svc.tickets) != 1 {
		t.Fatalf("service calls = %d, want 1", len(svc.tickets))
	}
	got := svc.tickets[0]
	if got.Text != "my phone arrived broken" || got.OrderID != "ORD1001" || got.Query != "can I get a new one?" {
		t.Errorf("ticket = %+v, want all request fields carried through", got)
	}
}

func TestTriage_BadRequests(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: defaultResult()}
	r, _ := newTestRouter(t, svc)

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{bad`},
		{"empty body", ``},
		{"missing ticket_text", `{"order_id":"ORD1001"}`},
		{"blank ticket_text", `{"ticket_text":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/triage", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestTriage_EmptyTicketErrorMapsTo400(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: ticket.ErrEmptyTicket}
	r, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage",
		strings.NewReader(`{"ticket_text":"x"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTriage_ServiceErrorMapsTo500(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: errors.New("provider unavailable")}
	r, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage",
		strings.NewReader(`{"ticket_text":"help me"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "provider unavailable") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestTriage_SetsSpanAttribute(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	svc := &stubService{result: defaultResult()}
	r, _ := newTestRouter(t, svc)

	ctx, span := tracer.Start(context.Background(), "request")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage",
		strings.NewReader(`{"ticket_text":"broken phone"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "helpdesk.triage.issue_type" && attr.Value.AsString() == "damaged_item" {
			found = true
		}
	}
	if !found {
		t.Errorf("span attributes = %v, want helpdesk.triage.issue_type=damaged_item", spans[0].Attributes())
	}
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD1001", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var o order.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.ID != "ORD1001" || o.ProductName != "iPhone 15 Pro" {
		t.Errorf("order = %+v, want seeded ORD1001", o)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD9999", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer=John+Doe", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Orders []order.Order `json:"orders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Orders) != 1 || body.Orders[0].ID != "ORD1002" {
		t.Errorf("orders = %+v, want [ORD1002]", body.Orders)
	}
}

func TestListOrders_RequiresCustomer(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListOrders_UnknownCustomerReturnsEmptyArray(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer=Nobody", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"orders":[]}` {
		t.Errorf("body = %s, want {\"orders\":[]}", got)
	}
}

func TestSetOrderStatus(t *testing.T) {
	t.Parallel()

	r, store := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/ORD1003/status",
		strings.NewReader(`{"status":"Shipped"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	o, _, _ := store.Get(context.Background(), "ORD1003")
	if o.Status != "Shipped" {
		t.Errorf("stored status = %q, want Shipped", o.Status)
	}
}

func TestSetOrderStatus_BadRequests(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	for _, body := range []string{`{bad`, `{}`, `{"status":"  "}`} {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/ORD1003/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status for body %q = %d, want 400", body, rec.Code)
		}
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	r, store := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD1002/cancel", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	o, _, _ := store.Get(context.Background(), "ORD1002")
	if o.Status != order.StatusCanceled {
		t.Errorf("stored status = %q, want %q", o.Status, order.StatusCanceled)
	}
}

func TestReturnOrder(t *testing.T) {
	t.Parallel()

	r, store := newTestRouter(t, &stubService{result: defaultResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD1001/return", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	o, _, _ := store.Get(context.Background(), "ORD1001")
	if o.Status != order.StatusReturnRequested {
		t.Errorf("stored status = %q, want %q", o.Status, order.StatusReturnRequested)
	}
}

func TestStatusTransition_NotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &stubService{result: defaultResult()})

	for _, tt := range []struct {
		method, path, body string
	}{
		{http.MethodPut, "/api/v1/orders/ORD9999/status", `{"status":"Shipped"}`},
		{http.MethodPost, "/api/v1/orders/ORD9999/cancel", ""},
		{http.MethodPost, "/api/v1/orders/ORD9999/return", ""},
	} {
		var body *strings.Reader
		if tt.body != "" {
			body = strings.NewReader(tt.body)
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(tt.method, tt.path, body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tt.method, tt.path, rec.Code)
		}
	}
}

package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

func ptr(s string) *string { return &s }

func sampleResult() *ticket.Result {
	return &ticket.Result{
		Reply:          ptr("We will replace your order."),
		IssueType:      ticket.IssueDamagedItem,
		OrderID:        ptr("ORD1001"),
		Evidence:       ptr("arrived broken"),
		Recommendation: ptr("offer_replacement"),
	}
}

func TestSend_PostsWebhook(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	if err := n.Send(context.Background(), "run-1", sampleResult()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	text := payload["text"]
	for _, want := range []string{"run-1", "damaged_item", "ORD1001", "offer_replacement", "We will replace your order."} {
		if !strings.Contains(text, want) {
			t.Errorf("message text = %q, want it to contain %q", text, want)
		}
	}
}

func TestSend_EmptyWebhookIsNoop(t *testing.T) {
	t.Parallel()

	n := New("")
	if err := n.Send(context.Background(), "run-1", sampleResult()); err != nil {
		t.Errorf("Send with empty webhook = %v, want nil", err)
	}
}

func TestSend_Non2xxIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Send(context.Background(), "run-1", sampleResult())
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestSend_NilFieldsRendered(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	res := &ticket.Result{IssueType: ticket.IssueGeneralQuestion}
	n := New(srv.URL)
	if err := n.Send(context.Background(), "run-2", res); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if !strings.Contains(payload["text"], "Order: `-`") {
		t.Errorf("message text = %q, want dash placeholder for missing order", payload["text"])
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", maxReplyLen+10)
	got := truncate(long, maxReplyLen)
	if len(got) <= maxReplyLen-1 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncate produced %d bytes without ellipsis", len(got))
	}
	if short := truncate("hello", maxReplyLen); short != "hello" {
		t.Errorf("truncate(hello) = %q, want unchanged", short)
	}
}

package ticketapi

import (
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

type triageRequest struct {
	TicketText string `json:"ticket_text"`
	OrderID    string `json:"order_id"`
	Query      string `json:"query"`
}

func (a *API) handleTriage(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TicketText) == "" {
		http.Error(w, `{"error":"ticket_text is required"}`, http.StatusBadRequest)
		return
	}

	result, err := a.svc.Triage(r.Context(), &ticket.Ticket{
		Text:    req.TicketText,
		OrderID: req.OrderID,
		Query:   req.Query,
	})
	if err != nil {
		if errors.Is(err, ticket.ErrEmptyTicket) {
			http.Error(w, `{"error":"ticket_text is required"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "triage failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("helpdesk.triage.issue_type", string(result.IssueType)),
	)

	writeJSON(w, http.StatusOK, result)
}

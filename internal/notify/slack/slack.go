// Package slack posts triage summaries to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

const (
	maxReplyLen = 1500
	httpTimeout = 10 * time.Second
)

// Notifier sends triage results to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts a triage result to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, runID string, res *ticket.Result) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(buildMessage(runID, res))
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func buildMessage(runID string, res *ticket.Result) map[string]any {
	orderID := "-"
	if res.OrderID != nil {
		orderID = *res.OrderID
	}
	recommendation := "-"
	if res.Recommendation != nil {
		recommendation = *res.Recommendation
	}
	reply := ""
	if res.Reply != nil {
		reply = truncate(*res.Reply, maxReplyLen)
	}

	text := fmt.Sprintf("*Ticket triaged* (`%s`)\nIssue: `%s` · Order: `%s` · Recommendation: `%s`",
		runID, res.IssueType, orderID, recommendation)
	if reply != "" {
		text += "\n> " + reply
	}

	return map[string]any{"text": text}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

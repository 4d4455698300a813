package ticket

import "context"

const classifyInstruction = `You classify customer support tickets for an order-fulfillment business.

Return ONLY JSON:
{
  "issue_type": "...",
  "order_id": "... or null",
  "evidence": "...",
  "call_tool": true or false
}

issue_type must be one of: update_status, general_question, damaged_item, late_delivery, wrong_item, missing_refund.
Set call_tool to true only when order details are needed to answer the ticket.`

// classify runs the classifier node: one provider call producing a
// best-effort structured judgment. The raw model text is appended to the
// transcript so the drafter sees the full conversation.
func (e *Engine) classify(ctx context.Context, s *runState) (Usage, error) {
	resp, err := e.complete(ctx, "classify", classifyInstruction, s.turns)
	if err != nil {
		return Usage{}, err
	}

	parsed := e.parseStage(ctx, "classify", resp.Text)

	s.issueType = NormalizeIssue(deref(stringOnly(parsed, "issue_type")))

	// Classifier-extracted id wins over the caller-supplied hint, but never
	// erases it.
	if id := stringOnly(parsed, "order_id"); id != nil && *id != "" {
		s.orderID = id
	}

	s.evidence = stringOnly(parsed, "evidence")
	s.callTool = boolValue(parsed, "call_tool")

	s.turns = append(s.turns, Turn{Role: RoleAssistant, Text: resp.Text})
	return resp.Usage, nil
}

// stringOnly returns the string under key or nil, ignoring presence.
func stringOnly(m map[string]any, key string) *string {
	v, _ := stringValue(m, key)
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

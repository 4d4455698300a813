package ticket

import "context"

const draftInstruction = `You draft replies to customer support tickets for an order-fulfillment business.
Use any order context in the conversation. Be polite and concrete.

Return ONLY JSON:
{
  "reply": "...",
  "recommendation": "...",
  "issue_type": "...",
  "order_id": "...",
  "evidence": "..."
}`

// draft runs the terminal drafting node. Each output field resolves
// independently: a key present in the model output wins (including explicit
// nulls), an absent key falls back to the pre-drafting state or a literal.
func (e *Engine) draft(ctx context.Context, s *runState) (Usage, error) {
	if s.toolResult != nil {
		s.turns = append(s.turns, Turn{
			Role: RoleUser,
			Text: "Order context: " + marshalSnapshot(s.toolResult),
		})
	}

	resp, err := e.complete(ctx, "draft", draftInstruction, s.turns)
	if err != nil {
		return Usage{}, err
	}

	parsed := e.parseStage(ctx, "draft", resp.Text)

	if v, present := stringValue(parsed, "reply"); present {
		s.reply = v
	} else {
		s.reply = ptr(FallbackReply)
	}

	if v, present := stringValue(parsed, "recommendation"); present {
		s.recommendation = v
	} else {
		s.recommendation = ptr(FallbackRecommendation)
	}

	if v, present := stringValue(parsed, "issue_type"); present {
		s.issueType = NormalizeIssue(deref(v))
	} else {
		s.issueType = NormalizeIssue(string(s.issueType))
	}

	if v, present := stringValue(parsed, "order_id"); present {
		s.orderID = v
	}

	if v, present := stringValue(parsed, "evidence"); present {
		s.evidence = v
	}

	return resp.Usage, nil
}

func ptr(s string) *string { return &s }
